package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"electwatch/internal"
	"electwatch/internal/config"
	apperr "electwatch/internal/errors"
	"electwatch/internal/logger"
)

// Fetcher produces the raw unit cards of the status page.
type Fetcher interface {
	FetchCards(ctx context.Context) ([]internal.UnitCard, error)
}

// NewFetcher returns a file fetcher when ELECTION_HTML_FILE is set, the HTTP
// client otherwise.
func NewFetcher(cfg config.Config, log logger.Logger) Fetcher {
	if strings.TrimSpace(cfg.ElectionHTMLFile) != "" {
		return &FileFetcher{Path: cfg.ElectionHTMLFile, Marker: cfg.InProgressMarker}
	}
	return NewClient(cfg, log)
}

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
	log        logger.Logger
}

func NewClient(cfg config.Config, log logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.FetchRateLimitRPS),
		log:        log,
	}
}

func (c *Client) FetchCards(ctx context.Context) ([]internal.UnitCard, error) {
	body, err := c.fetchHTML(ctx)
	if err != nil {
		return nil, apperr.FetchFailure(err, "fetch election page")
	}
	cards, err := ParseCards(bytes.NewReader(body), c.cfg.InProgressMarker)
	if err != nil {
		return nil, apperr.FetchFailure(err, "parse election page")
	}
	if len(cards) == 0 {
		return nil, apperr.FetchFailuref("no unit cards found at %s", c.cfg.ElectionURL)
	}
	c.log.Debug("election page fetched", "url", c.cfg.ElectionURL, "cards", len(cards), "bytes", len(body))
	return cards, nil
}

func (c *Client) fetchHTML(ctx context.Context) ([]byte, error) {
	if strings.TrimSpace(c.cfg.ElectionURL) == "" {
		return nil, errors.New("missing ELECTION_URL")
	}

	attempts := c.cfg.FetchRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ElectionURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.cfg.FetchUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < attempts {
				c.log.Warn("election page retry", "status", resp.StatusCode, "attempt", attempt)
				if err := sleepContext(ctx, backoff(attempt)); err != nil {
					return nil, err
				}
				lastErr = fmt.Errorf("election page status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("election page error: status=%d", resp.StatusCode)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("election page request failed")
	}
	return nil, lastErr
}

func backoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// FileFetcher reads a saved copy of the status page.
type FileFetcher struct {
	Path   string
	Marker string
}

func (f *FileFetcher) FetchCards(ctx context.Context) ([]internal.UnitCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FetchFailure(err, "read election page")
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, apperr.FetchFailure(err, "read election page")
	}
	defer file.Close()

	cards, err := ParseCards(file, f.Marker)
	if err != nil {
		return nil, apperr.FetchFailure(err, "parse election page")
	}
	if len(cards) == 0 {
		return nil, apperr.FetchFailuref("no unit cards found in %s", f.Path)
	}
	return cards, nil
}
