package pipeline

import (
	"sort"

	"electwatch/internal"
	"electwatch/internal/taxonomy"
)

// OrderByCommission sorts records by commission priority, keeping discovery
// order within a commission, and assigns 1-based serial numbers. Commissions
// missing from the priority list follow all listed ones in first-seen order.
func OrderByCommission(records []internal.UnitRecord, order *taxonomy.Order) []internal.UnitRecord {
	out := append([]internal.UnitRecord(nil), records...)

	unlisted := map[string]int{}
	ranks := make([]int, len(out))
	for i, r := range out {
		if rank, ok := order.Rank(r.Commission); ok {
			ranks[i] = rank
			continue
		}
		rank, ok := unlisted[r.Commission]
		if !ok {
			rank = order.Len() + len(unlisted)
			unlisted[r.Commission] = rank
		}
		ranks[i] = rank
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return ranks[idx[a]] < ranks[idx[b]] })

	sorted := make([]internal.UnitRecord, len(out))
	for pos, i := range idx {
		sorted[pos] = out[i]
		sorted[pos].SerialNumber = pos + 1
	}
	return sorted
}
