package util

import (
	"testing"

	apperr "electwatch/internal/errors"
)

func TestParseCount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{name: "plain", input: "120", want: 120},
		{name: "thousands and unit", input: "1,234명", want: 1234},
		{name: "spaced", input: " 3 명 ", want: 3},
		{name: "negative remaining", input: "-15명", want: -15},
		{name: "unicode minus", input: "−7명", want: -7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCount(tc.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}

	for _, bad := range []string{"", "-", "집계중", "1.5명"} {
		if _, err := ParseCount(bad); !apperr.IsKind(err, apperr.KindParse) {
			t.Fatalf("%q: expected parse failure, got %v", bad, err)
		}
	}
}

func TestParseTurnout(t *testing.T) {
	p := ParseTurnout("45.67%(1,234명)")
	if p.Rate == nil || *p.Rate != 45.67 {
		t.Fatalf("rate=%v", p.Rate)
	}
	if p.Voted == nil || *p.Voted != 1234 {
		t.Fatalf("voted=%v", p.Voted)
	}

	p = ParseTurnout("12.5%")
	if p.Rate == nil || *p.Rate != 12.5 || p.Voted != nil {
		t.Fatalf("unexpected %+v", p)
	}

	// A broken count must not discard the rate.
	p = ParseTurnout("30.00%(집계중)")
	if p.Rate == nil || *p.Rate != 30 {
		t.Fatalf("rate lost: %+v", p)
	}
	if p.Voted != nil || !apperr.IsKind(p.VotedErr, apperr.KindParse) {
		t.Fatalf("voted should be unknown: %+v", p)
	}

	p = ParseTurnout("150%(10명)")
	if p.Rate != nil || p.RateErr == nil {
		t.Fatalf("out of range rate accepted: %+v", p)
	}
	if p.Voted == nil || *p.Voted != 10 {
		t.Fatalf("voted=%v", p.Voted)
	}
}

func TestCleanText(t *testing.T) {
	decomposed := "\u1112\u1161\u11a8\u1109\u1162\u11bc\u1112\u116c" // 학생회 as conjoining jamo
	if got := CleanText(decomposed); got != "학생회" {
		t.Fatalf("got %q", got)
	}
	if got := CleanText("상경ㆍ경영대학"); got != "상경·경영대학" {
		t.Fatalf("got %q", got)
	}
	if got := CleanText("ＡＢＣ２０２６"); got != "ABC2026" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeSpaces("  a \t b\n c "); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}
