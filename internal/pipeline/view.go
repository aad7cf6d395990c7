package pipeline

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"electwatch/internal"
)

type SortKey string

const (
	SortOriginal     SortKey = "original"
	SortRateDesc     SortKey = "rate_desc"
	SortRateAsc      SortKey = "rate_asc"
	SortVotedDesc    SortKey = "voted_desc"
	SortRemainingAsc SortKey = "remaining_asc"
	SortNameAsc      SortKey = "name_asc"
)

const DefaultNearClosingRatio = 0.2

var sortLabels = map[string]SortKey{
	"기본순":        SortOriginal,
	"투표율 높은 순":   SortRateDesc,
	"투표율 낮은 순":   SortRateAsc,
	"투표자 많은 순":   SortVotedDesc,
	"잔여 인원 적은 순": SortRemainingAsc,
	"가나다 순":      SortNameAsc,
}

// SortKeys lists the supported keys in menu order.
func SortKeys() []SortKey {
	return []SortKey{SortOriginal, SortRateDesc, SortRateAsc, SortVotedDesc, SortRemainingAsc, SortNameAsc}
}

// Label is the Korean menu label of k.
func (k SortKey) Label() string {
	for label, key := range sortLabels {
		if key == k {
			return label
		}
	}
	return string(k)
}

// ParseSortKey accepts a key or its Korean menu label; anything else is the
// original order.
func ParseSortKey(s string) SortKey {
	s = strings.TrimSpace(s)
	for _, k := range SortKeys() {
		if string(k) == s {
			return k
		}
	}
	if k, ok := sortLabels[s]; ok {
		return k
	}
	return SortOriginal
}

type ViewOptions struct {
	Commissions []string
	Sort        SortKey
}

// View is a filtered snapshot split into records that can be ranked and
// records missing the eligible total or remaining count.
type View struct {
	Complete   []internal.UnitRecord
	Incomplete []internal.UnitRecord
}

func BuildView(records []internal.UnitRecord, opts ViewOptions) View {
	filter := map[string]struct{}{}
	for _, c := range opts.Commissions {
		if c = strings.TrimSpace(c); c != "" {
			filter[c] = struct{}{}
		}
	}

	v := View{Complete: []internal.UnitRecord{}, Incomplete: []internal.UnitRecord{}}
	for _, r := range records {
		if len(filter) > 0 {
			if _, ok := filter[r.Commission]; !ok {
				continue
			}
		}
		if r.Complete() {
			v.Complete = append(v.Complete, r)
		} else {
			v.Incomplete = append(v.Incomplete, r)
		}
	}

	sortRecords(v.Complete, opts.Sort)
	return v
}

func sortRecords(records []internal.UnitRecord, key SortKey) {
	var less func(a, b internal.UnitRecord) bool
	switch key {
	case SortRateDesc:
		less = func(a, b internal.UnitRecord) bool { return lessOptional(a.TurnoutRate, b.TurnoutRate, true) }
	case SortRateAsc:
		less = func(a, b internal.UnitRecord) bool { return lessOptional(a.TurnoutRate, b.TurnoutRate, false) }
	case SortVotedDesc:
		less = func(a, b internal.UnitRecord) bool { return lessOptional(a.VotedCount, b.VotedCount, true) }
	case SortRemainingAsc:
		less = func(a, b internal.UnitRecord) bool { return lessOptional(a.RemainingToClose, b.RemainingToClose, false) }
	case SortNameAsc:
		c := collate.New(language.Korean)
		less = func(a, b internal.UnitRecord) bool { return c.CompareString(a.UnitName, b.UnitName) < 0 }
	default:
		less = func(a, b internal.UnitRecord) bool { return a.SerialNumber < b.SerialNumber }
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}

// lessOptional orders known values before unknown ones.
func lessOptional[T int | float64](a, b *T, desc bool) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	case desc:
		return *a > *b
	default:
		return *a < *b
	}
}

// RowClassOf derives the highlight class of a row. A ratio <= 0 uses the
// default near-closing ratio.
func RowClassOf(r internal.UnitRecord, ratio float64) internal.RowClass {
	if ratio <= 0 {
		ratio = DefaultNearClosingRatio
	}
	if r.RemainingToClose == nil {
		return internal.RowNormal
	}
	remaining := *r.RemainingToClose
	if remaining <= 0 {
		return internal.RowClosed
	}
	if r.VotedCount != nil && *r.VotedCount > 0 && float64(remaining) <= ratio*float64(*r.VotedCount) {
		return internal.RowNearClosing
	}
	return internal.RowNormal
}

// CommissionOptions lists the distinct commissions of a snapshot in Korean
// dictionary order, for the filter control.
func CommissionOptions(records []internal.UnitRecord) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range records {
		if _, ok := seen[r.Commission]; ok {
			continue
		}
		seen[r.Commission] = struct{}{}
		out = append(out, r.Commission)
	}
	collate.New(language.Korean).SortStrings(out)
	return out
}
