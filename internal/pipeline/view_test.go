package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"electwatch/internal"
	"electwatch/internal/util"
)

func viewFixture() []internal.UnitRecord {
	return []internal.UnitRecord{
		{SerialNumber: 1, Commission: "중앙선거관리위원회", UnitName: "총학생회",
			TurnoutRate: util.FloatPtr(35.2), VotedCount: util.IntPtr(8123), TotalEligible: util.IntPtr(23077), RemainingToClose: util.IntPtr(3416)},
		{SerialNumber: 2, Commission: "문과대학", UnitName: "문과대학",
			TurnoutRate: util.FloatPtr(52.1), VotedCount: util.IntPtr(1042), TotalEligible: util.IntPtr(2000), RemainingToClose: util.IntPtr(0)},
		{SerialNumber: 3, Commission: "문과대학", UnitName: "국어국문학과"},
		{SerialNumber: 4, Commission: "문과대학", UnitName: "철학과",
			VotedCount: util.IntPtr(40), TotalEligible: util.IntPtr(100), RemainingToClose: util.IntPtr(10)},
		{SerialNumber: 5, Commission: "공과대학", UnitName: "기계공학부",
			TurnoutRate: util.FloatPtr(12.5), VotedCount: util.IntPtr(50), TotalEligible: util.IntPtr(400), RemainingToClose: util.IntPtr(150)},
		{SerialNumber: 6, Commission: "공과대학", UnitName: "건축공학과",
			TurnoutRate: util.FloatPtr(20), TotalEligible: util.IntPtr(0), RemainingToClose: util.IntPtr(5)},
	}
}

func unitNames(records []internal.UnitRecord) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.UnitName)
	}
	return out
}

func TestBuildViewPartitions(t *testing.T) {
	records := viewFixture()
	v := BuildView(records, ViewOptions{})
	if len(v.Complete)+len(v.Incomplete) != len(records) {
		t.Fatalf("partitions lost records: %d + %d", len(v.Complete), len(v.Incomplete))
	}
	if diff := cmp.Diff([]string{"국어국문학과", "건축공학과"}, unitNames(v.Incomplete)); diff != "" {
		t.Fatalf("incomplete mismatch (-want +got):\n%s", diff)
	}
	for _, r := range v.Complete {
		if !r.Complete() {
			t.Fatalf("%s in complete partition", r.UnitName)
		}
	}
}

func TestBuildViewSort(t *testing.T) {
	cases := []struct {
		key  SortKey
		want []string
	}{
		{SortOriginal, []string{"총학생회", "문과대학", "철학과", "기계공학부"}},
		{SortRateDesc, []string{"문과대학", "총학생회", "기계공학부", "철학과"}},
		{SortRateAsc, []string{"기계공학부", "총학생회", "문과대학", "철학과"}},
		{SortVotedDesc, []string{"총학생회", "문과대학", "기계공학부", "철학과"}},
		{SortRemainingAsc, []string{"문과대학", "철학과", "기계공학부", "총학생회"}},
		{SortNameAsc, []string{"기계공학부", "문과대학", "철학과", "총학생회"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.key), func(t *testing.T) {
			v := BuildView(viewFixture(), ViewOptions{Sort: tc.key})
			if diff := cmp.Diff(tc.want, unitNames(v.Complete)); diff != "" {
				t.Fatalf("sort %s (-want +got):\n%s", tc.key, diff)
			}
		})
	}
}

func TestBuildViewFilter(t *testing.T) {
	v := BuildView(viewFixture(), ViewOptions{Commissions: []string{"문과대학", " "}, Sort: SortRateDesc})
	if diff := cmp.Diff([]string{"문과대학", "철학과"}, unitNames(v.Complete)); diff != "" {
		t.Fatalf("complete (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"국어국문학과"}, unitNames(v.Incomplete)); diff != "" {
		t.Fatalf("incomplete (-want +got):\n%s", diff)
	}

	none := BuildView(viewFixture(), ViewOptions{Commissions: []string{"없는위원회"}})
	if len(none.Complete) != 0 || len(none.Incomplete) != 0 {
		t.Fatalf("unknown commission should yield an empty view")
	}
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"rate_desc":  SortRateDesc,
		"가나다 순":      SortNameAsc,
		" name_asc ": SortNameAsc,
		"bogus":      SortOriginal,
		"":           SortOriginal,
	}
	for in, want := range cases {
		if got := ParseSortKey(in); got != want {
			t.Fatalf("ParseSortKey(%q)=%s want %s", in, got, want)
		}
	}
}

func TestRowClassOf(t *testing.T) {
	cases := []struct {
		name      string
		remaining *int
		voted     *int
		want      internal.RowClass
	}{
		{"closed at zero", util.IntPtr(0), util.IntPtr(100), internal.RowClosed},
		{"closed below zero", util.IntPtr(-3), nil, internal.RowClosed},
		{"near closing", util.IntPtr(15), util.IntPtr(100), internal.RowNearClosing},
		{"near closing boundary", util.IntPtr(20), util.IntPtr(100), internal.RowNearClosing},
		{"normal", util.IntPtr(50), util.IntPtr(100), internal.RowNormal},
		{"unknown remaining", nil, util.IntPtr(100), internal.RowNormal},
		{"unknown voted", util.IntPtr(5), nil, internal.RowNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := internal.UnitRecord{RemainingToClose: tc.remaining, VotedCount: tc.voted}
			if got := RowClassOf(r, 0); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestCommissionOptions(t *testing.T) {
	got := CommissionOptions(viewFixture())
	want := []string{"공과대학", "문과대학", "중앙선거관리위원회"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
}

func TestSortKeyLabelRoundTrip(t *testing.T) {
	for _, k := range SortKeys() {
		if got := ParseSortKey(k.Label()); got != k {
			t.Fatalf("label %q of %s parsed as %s", k.Label(), k, got)
		}
	}
}
