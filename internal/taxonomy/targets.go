package taxonomy

import (
	"fmt"
	"strings"

	"electwatch/internal/util"
)

const (
	MatchExact    = "exact"
	MatchContains = "contains"
)

// Targets is the fixed set of units tracked for highlighting.
type Targets struct {
	exact    map[string]struct{}
	contains []string
}

func NewTargets(entries []TargetEntry) (*Targets, error) {
	t := &Targets{exact: map[string]struct{}{}}
	for i, e := range entries {
		name := util.NormalizeSpaces(util.CleanText(e.Name))
		if name == "" {
			return nil, fmt.Errorf("targets[%d]: name is required", i)
		}
		switch strings.ToLower(strings.TrimSpace(e.Match)) {
		case "", MatchExact:
			t.exact[name] = struct{}{}
		case MatchContains:
			t.contains = append(t.contains, name)
		default:
			return nil, fmt.Errorf("targets[%d]: unsupported match %q", i, e.Match)
		}
	}
	return t, nil
}

func (t *Targets) IsTarget(unitName string) bool {
	if unitName == "" {
		return false
	}
	if _, ok := t.exact[unitName]; ok {
		return true
	}
	return util.ContainsAny(unitName, t.contains)
}
