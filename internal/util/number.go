package util

import (
	"regexp"
	"strconv"
	"strings"

	apperr "electwatch/internal/errors"
)

var (
	countPattern = regexp.MustCompile(`^[-−]?\d+$`)
	ratePattern  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// ParsedTurnout is the result of reading a "45.67%(1,234명)" style value.
// Each half is parsed on its own; a failure leaves only that half unknown.
type ParsedTurnout struct {
	Rate     *float64
	Voted    *int
	RateErr  error
	VotedErr error
}

func ParseTurnout(input string) ParsedTurnout {
	value := NormalizeSpaces(input)
	ratePart, votedPart, hasVoted := strings.Cut(value, "(")

	out := ParsedTurnout{}
	rate, err := ParseRate(ratePart)
	if err != nil {
		out.RateErr = err
	} else {
		out.Rate = FloatPtr(rate)
	}

	if hasVoted {
		voted, err := ParseCount(strings.TrimSuffix(strings.TrimSpace(votedPart), ")"))
		if err != nil {
			out.VotedErr = err
		} else {
			out.Voted = IntPtr(voted)
		}
	}
	return out
}

// ParseRate reads "45.67%" into 45.67. Values outside [0,100] are rejected.
func ParseRate(input string) (float64, error) {
	token := strings.TrimSpace(strings.ReplaceAll(input, "%", ""))
	if !ratePattern.MatchString(token) {
		return 0, apperr.ParseFailuref("turnout rate %q is not numeric", input)
	}
	rate, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, apperr.ParseFailuref("turnout rate %q: %v", input, err)
	}
	if rate < 0 || rate > 100 {
		return 0, apperr.ParseFailuref("turnout rate %q out of range", input)
	}
	return rate, nil
}

// ParseCount reads "1,234명" into 1234. Negative counts are kept as-is.
func ParseCount(input string) (int, error) {
	repl := strings.NewReplacer("명", "", ",", "", " ", "", "\u00a0", "", ")", "", "(", "")
	token := repl.Replace(strings.TrimSpace(input))
	if !countPattern.MatchString(token) {
		return 0, apperr.ParseFailuref("count %q is not an integer", input)
	}
	token = strings.Replace(token, "−", "-", 1)
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, apperr.ParseFailuref("count %q: %v", input, err)
	}
	return n, nil
}
