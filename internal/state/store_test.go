package state

import (
	"sync"
	"testing"
	"time"

	"electwatch/internal"
)

func TestStoreLifecycle(t *testing.T) {
	s := New()
	if !s.Current().Empty() {
		t.Fatalf("store should start empty")
	}
	if _, ok := s.LastUpdated(); ok {
		t.Fatalf("no last-updated before first success")
	}
	if s.NoData() {
		t.Fatalf("no warning before any attempt")
	}

	s.MarkAttempt()
	if !s.NoData() {
		t.Fatalf("attempt without success should report no data")
	}

	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	first := internal.Snapshot{Records: []internal.UnitRecord{{UnitName: "총학생회"}}, FetchedAt: at}
	if !s.Replace(first) {
		t.Fatalf("replace refused")
	}
	if s.NoData() {
		t.Fatalf("no-data must clear after success")
	}

	if s.Replace(internal.Snapshot{FetchedAt: at.Add(time.Minute)}) {
		t.Fatalf("empty snapshot must be refused")
	}
	got, ok := s.LastUpdated()
	if !ok || !got.Equal(at) {
		t.Fatalf("last updated=%v", got)
	}
	if len(s.Current().Records) != 1 {
		t.Fatalf("previous snapshot lost")
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n%2 == 0 {
					recs := make([]internal.UnitRecord, n+1)
					s.Replace(internal.Snapshot{Records: recs})
					continue
				}
				snap := s.Current()
				if !snap.Empty() && len(snap.Records)%2 != 1 {
					t.Errorf("torn snapshot len=%d", len(snap.Records))
				}
			}
		}(i)
	}
	wg.Wait()
}
