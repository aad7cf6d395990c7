package pipeline

import (
	"regexp"
	"strings"

	"electwatch/internal/util"
)

// Canonical unit names produced by the special-case rules.
const (
	StudentCouncil       = "총학생회"
	ClubFederation       = "총동아리연합회"
	InternationalCouncil = "외국인 학생회"
	ChildFamilyDept      = "아동가족학과"
	CommerceCollege      = "상경·경영대학"
)

var (
	reInstitution = regexp.MustCompile(`연세대학교|제\d+대`)
	reYearMarker  = regexp.MustCompile(`\d{4}(?:학년도|년도)`)

	boilerplateTokens = []string{"선거운동본부", "학생회 선거", "학생회", "선거"}
)

// NameRule is one step of the special-case cascade. The first rule whose
// Match reports true rewrites the name; later rules are not consulted.
type NameRule struct {
	Name  string
	Match func(name string) bool
	Apply func(name string) string
}

func DefaultNameRules() []NameRule {
	fixed := func(canonical string) func(string) string {
		return func(string) string { return canonical }
	}
	contains := func(keywords ...string) func(string) bool {
		return func(name string) bool {
			for _, k := range keywords {
				if !strings.Contains(name, k) {
					return false
				}
			}
			return true
		}
	}

	return []NameRule{
		{Name: "student-council", Match: contains(StudentCouncil), Apply: fixed(StudentCouncil)},
		{Name: "club-federation", Match: contains(ClubFederation), Apply: fixed(ClubFederation)},
		{Name: "international", Match: contains("외국인"), Apply: fixed(InternationalCouncil)},
		{Name: "child-family", Match: contains("아동", "가족"), Apply: fixed(ChildFamilyDept)},
		{
			Name:  "commerce-college",
			Match: contains(CommerceCollege),
			Apply: func(name string) string {
				// A general-vote ballot of the college keeps its full title.
				if strings.Contains(name, "총투표") {
					return name
				}
				return CommerceCollege
			},
		},
	}
}

// NameNormalizer turns scraped card titles into canonical unit names.
type NameNormalizer struct {
	rules       []NameRule
	boilerplate []string
}

func NewNameNormalizer() *NameNormalizer {
	return NewNameNormalizerWithRules(DefaultNameRules())
}

func NewNameNormalizerWithRules(rules []NameRule) *NameNormalizer {
	return &NameNormalizer{rules: rules, boilerplate: boilerplateTokens}
}

// Normalize applies the cascade until the name no longer changes, so
// Normalize(Normalize(x)) == Normalize(x).
func (n *NameNormalizer) Normalize(raw string) string {
	current := raw
	for {
		next := n.normalizeOnce(current)
		if next == current {
			return current
		}
		current = next
	}
}

func (n *NameNormalizer) normalizeOnce(raw string) string {
	name := util.CleanText(raw)
	name = reInstitution.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	matched := false
	for _, rule := range n.rules {
		if rule.Match(name) {
			name = rule.Apply(name)
			matched = true
			break
		}
	}
	if !matched {
		name = n.stripBoilerplate(name)
	}
	return util.NormalizeSpaces(name)
}

func (n *NameNormalizer) stripBoilerplate(name string) string {
	name = reYearMarker.ReplaceAllString(name, "")
	for _, token := range n.boilerplate {
		name = strings.ReplaceAll(name, token, "")
	}
	return name
}

// IsLastUnit reports the last-unit marker: the page lists the international
// student council at the end of the relevant section, so nothing after it is
// read. If the page order changes, units listed after it are silently dropped.
func (n *NameNormalizer) IsLastUnit(name string) bool {
	return name == InternationalCouncil
}
