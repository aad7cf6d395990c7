package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)

	// Pages mix several middle-dot look-alikes in college names.
	middleDots = strings.NewReplacer("ㆍ", "·", "・", "·", "･", "·", "•", "·", "‧", "·")

	foldText = transform.Chain(norm.NFC, width.Fold)
)

// CleanText composes Hangul into NFC syllables, folds full/half-width forms
// and unifies middle dots.
func CleanText(input string) string {
	s, _, err := transform.String(foldText, input)
	if err != nil {
		s = input
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return middleDots.Replace(s)
}

// NormalizeSpaces collapses runs of whitespace into a single space and trims.
func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func ContainsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
