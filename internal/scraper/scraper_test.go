package scraper

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"electwatch/internal"
	"electwatch/internal/config"
	apperr "electwatch/internal/errors"
	"electwatch/internal/logger"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	blob, err := os.ReadFile(filepath.Join("testdata", "votes.html"))
	if err != nil {
		t.Fatal(err)
	}
	return blob
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards(strings.NewReader(string(readFixture(t))), "진행중")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 6 {
		t.Fatalf("len=%d", len(cards))
	}

	want := internal.UnitCard{
		RawName:    "연세대학교 제63대 총학생회 선거운동본부",
		Section:    "진행중 선거",
		InProgress: true,
		Values: []internal.LabeledValue{
			{Label: "투표율", Value: "35.20%(8,123명)"},
			{Label: "총 유권자", Value: "23,077명"},
			{Label: "투표 성사 잔여 인원", Value: "3,416명"},
		},
	}
	if diff := cmp.Diff(want, cards[0]); diff != "" {
		t.Fatalf("first card mismatch (-want +got):\n%s", diff)
	}

	if len(cards[2].Values) != 1 || cards[2].Values[0].Value != "집계중" {
		t.Fatalf("partial card values=%+v", cards[2].Values)
	}

	last := cards[len(cards)-1]
	if last.RawName != "사학과 학생회" || last.InProgress {
		t.Fatalf("finished section card=%+v", last)
	}
}

func TestClientFetchCardsWithRetry(t *testing.T) {
	page := readFixture(t)
	attempt := 0

	cfg, _ := config.Load()
	cfg.ElectionURL = "https://example.test/votes"
	cfg.FetchRateLimitRPS = 1000
	cfg.FetchRetries = 3
	cfg.InProgressMarker = "진행중"

	client := NewClient(cfg, logger.Nop())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/votes" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("User-Agent") == "" {
				t.Fatalf("missing user agent")
			}
			attempt++
			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusServiceUnavailable,
					Body:       io.NopCloser(strings.NewReader("busy")),
					Header:     make(http.Header),
				}, nil
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(page))),
				Header:     make(http.Header),
			}, nil
		}),
	}

	cards, err := client.FetchCards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 {
		t.Fatalf("attempts=%d", attempt)
	}
	if len(cards) != 6 {
		t.Fatalf("len=%d", len(cards))
	}
}

func TestClientFetchFailure(t *testing.T) {
	cfg, _ := config.Load()
	cfg.ElectionURL = "https://example.test/votes"
	cfg.FetchRateLimitRPS = 1000
	cfg.FetchRetries = 1

	client := NewClient(cfg, logger.Nop())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("<html><body><p>점검중</p></body></html>")),
				Header:     make(http.Header),
			}, nil
		}),
	}

	cards, err := client.FetchCards(context.Background())
	if cards != nil {
		t.Fatalf("expected no cards, got %d", len(cards))
	}
	if !apperr.IsKind(err, apperr.KindFetch) {
		t.Fatalf("expected fetch failure, got %v", err)
	}

	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("")),
				Header:     make(http.Header),
			}, nil
		}),
	}
	if _, err := client.FetchCards(context.Background()); !apperr.IsKind(err, apperr.KindFetch) {
		t.Fatalf("expected fetch failure on 404, got %v", err)
	}
}

func TestFileFetcher(t *testing.T) {
	f := &FileFetcher{Path: filepath.Join("testdata", "votes.html"), Marker: "진행중"}
	cards, err := f.FetchCards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 6 {
		t.Fatalf("len=%d", len(cards))
	}

	missing := &FileFetcher{Path: filepath.Join(t.TempDir(), "none.html")}
	if _, err := missing.FetchCards(context.Background()); !apperr.IsKind(err, apperr.KindFetch) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}
