package pipeline

import (
	"strings"

	"electwatch/internal"
	"electwatch/internal/taxonomy"
)

var collegeSuffixes = []string{"대학", "계열", ClubFederation}

// IsCollegeLevel reports whether a unit counts toward college-level growth.
func IsCollegeLevel(name string) bool {
	if name == StudentCouncil || name == InternationalCouncil {
		return false
	}
	for _, suffix := range collegeSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Summarize computes the roll-up figures of a snapshot. The three growth
// buckets partition the records, so they always add up to the total growth.
func Summarize(records []internal.UnitRecord, targets *taxonomy.Targets) internal.Summary {
	var s internal.Summary
	for _, r := range records {
		switch {
		case r.UnitName == StudentCouncil:
			s.TotalGrowth += r.Growth
		case IsCollegeLevel(r.UnitName):
			s.CollegeGrowth += r.Growth
		default:
			s.DepartmentGrowth += r.Growth
		}
	}

	for _, r := range records {
		if r.UnitName == StudentCouncil {
			s.RemainingTotal = floorZero(r.RemainingToClose)
			break
		}
	}

	for _, r := range records {
		if targets.IsTarget(r.UnitName) {
			s.RemainingTargetSum += floorZero(r.RemainingToClose)
		}
	}

	s.Value = s.RemainingTotal - s.RemainingTargetSum
	return s
}

func floorZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
