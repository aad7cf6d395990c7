package export

import (
	"fmt"
	"strings"

	"electwatch/internal"
	"electwatch/internal/taxonomy"
)

// TextReport builds the notice text: one "<unit> <rate>%" line per record,
// grouped by commission in priority order, each group followed by a blank
// line. Records keep their given order within a group.
func TextReport(records []internal.UnitRecord, order *taxonomy.Order) string {
	groups := map[string][]internal.UnitRecord{}
	var found []string
	for _, r := range records {
		if _, ok := groups[r.Commission]; !ok {
			found = append(found, r.Commission)
		}
		groups[r.Commission] = append(groups[r.Commission], r)
	}

	var b strings.Builder
	for _, commission := range order.Sort(found) {
		for _, r := range groups[commission] {
			rate := 0.0
			if r.TurnoutRate != nil {
				rate = *r.TurnoutRate
			}
			fmt.Fprintf(&b, "%s %.2f%%\n", NoticeUnitName(r.UnitName), rate)
		}
		b.WriteString("\n")
	}
	return b.String()
}
