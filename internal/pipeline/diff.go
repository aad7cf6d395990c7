package pipeline

import "electwatch/internal"

// Diff sets Growth on a copy of current: the change in voted count against the
// same unit in previous. Unknown counts and units absent from previous get 0.
// When previous repeats a name, its last occurrence is used.
func Diff(current, previous []internal.UnitRecord) []internal.UnitRecord {
	prev := make(map[string]*int, len(previous))
	for _, r := range previous {
		prev[r.UnitName] = r.VotedCount
	}

	out := append([]internal.UnitRecord(nil), current...)
	for i := range out {
		out[i].Growth = 0
		if out[i].VotedCount == nil {
			continue
		}
		before, ok := prev[out[i].UnitName]
		if !ok || before == nil {
			continue
		}
		out[i].Growth = *out[i].VotedCount - *before
	}
	return out
}
