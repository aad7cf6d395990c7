// Package export renders snapshots for people: CSV and XLSX downloads, the
// copy-paste notice text and the terminal table.
package export

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"electwatch/internal"
	"electwatch/internal/util"
)

const unknown = "-"

// FormatRate renders a turnout rate as "35.20%".
func FormatRate(rate *float64) string {
	if rate == nil {
		return unknown
	}
	return fmt.Sprintf("%.2f%%", *rate)
}

// FormatCount renders a count with thousands separators.
func FormatCount(n *int) string {
	if n == nil {
		return unknown
	}
	return humanize.Comma(int64(*n))
}

// FormatGrowth renders positive growth as "▲ 1,234" and anything else as "-".
func FormatGrowth(growth int) string {
	if growth <= 0 {
		return unknown
	}
	return "▲ " + humanize.Comma(int64(growth))
}

// FormatInt renders an integer with thousands separators.
func FormatInt(n int) string {
	return humanize.Comma(int64(n))
}

// FormatDelta renders a summary difference: positive values as "▲ 1,234",
// zero and negative ones with their sign.
func FormatDelta(n int) string {
	if n > 0 {
		return "▲ " + FormatInt(n)
	}
	return FormatInt(n)
}

// Remark is "(개표 가능)" once no more voters are needed.
func Remark(r internal.UnitRecord) string {
	if r.RemainingToClose != nil && *r.RemainingToClose <= 0 {
		return "(개표 가능)"
	}
	return ""
}

var (
	csvKeepKeywords    = []string{"동아리연합회", "투표", "위원회", "연합회장"}
	noticeKeepKeywords = []string{"학생회", "위원회", "투표", "동아리연합회", "연합회장"}
)

// CSVUnitName restores the " 학생회" suffix stripped during normalization.
func CSVUnitName(name string) string {
	if strings.HasSuffix(name, "학생회") || util.ContainsAny(name, csvKeepKeywords) {
		return name
	}
	return name + " 학생회"
}

// NoticeUnitName is the unit label used in the notice text.
func NoticeUnitName(name string) string {
	if util.ContainsAny(name, noticeKeepKeywords) {
		return name
	}
	return name + " 학생회"
}
