package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"electwatch/internal"
	apperr "electwatch/internal/errors"
	"electwatch/internal/util"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.LoadSnapshot(); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on empty db, got %v", err)
	}

	at := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	snap := internal.Snapshot{
		FetchedAt: at,
		Records: []internal.UnitRecord{
			{
				SerialNumber: 1, Commission: "중앙선거관리위원회", UnitName: "총학생회", RawName: "총학생회",
				TurnoutRate: util.FloatPtr(35.2), VotedCount: util.IntPtr(8123), TotalEligible: util.IntPtr(23077),
				RemainingToClose: util.IntPtr(3416), Growth: 12,
			},
			{SerialNumber: 2, Commission: "문과대학", UnitName: "국어국문학과", RawName: "국어국문학과 학생회"},
			{SerialNumber: 3, Commission: "문과대학", UnitName: "문과대학", RawName: "문과대학", RemainingToClose: util.IntPtr(-42), Target: true},
		},
	}
	if err := db.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveSnapshotReplacesPrevious(t *testing.T) {
	db := openTestDB(t)

	first := internal.Snapshot{FetchedAt: time.Now().UTC(), Records: []internal.UnitRecord{
		{SerialNumber: 1, UnitName: "총학생회"},
		{SerialNumber: 2, UnitName: "철학과"},
	}}
	second := internal.Snapshot{FetchedAt: time.Now().UTC(), Records: []internal.UnitRecord{
		{SerialNumber: 1, UnitName: "사학과"},
	}}
	if err := db.SaveSnapshot(first); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSnapshot(second); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 1 || got.Records[0].UnitName != "사학과" {
		t.Fatalf("unexpected records: %+v", got.Records)
	}
}

func TestRunsAndMetadata(t *testing.T) {
	db := openTestDB(t)

	for _, run := range []internal.RunRow{
		{TraceID: "a", Status: "ok", Units: 10, DurationMs: 120},
		{TraceID: "b", Status: "fetch_failure", Error: "timeout"},
	} {
		if err := db.InsertRun(run); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].TraceID != "b" || runs[1].Units != 10 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	missing, err := db.GetMetadata("nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil metadata, got %v %v", missing, err)
	}
	if err := setMetadata(db.conn, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := setMetadata(db.conn, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMetadata("k")
	if err != nil || v == nil || *v != "v2" {
		t.Fatalf("metadata=%v err=%v", v, err)
	}
}
