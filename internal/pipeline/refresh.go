package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"electwatch/internal"
	apperr "electwatch/internal/errors"
	"electwatch/internal/logger"
	"electwatch/internal/state"
	"electwatch/internal/taxonomy"
)

// CardSource yields the raw cards of one page load.
type CardSource interface {
	FetchCards(ctx context.Context) ([]internal.UnitCard, error)
}

// Recorder persists successful snapshots and refresh runs. storage.DB
// satisfies it.
type Recorder interface {
	SaveSnapshot(snap internal.Snapshot) error
	InsertRun(run internal.RunRow) error
}

type RefreshResult struct {
	TraceID  string
	Snapshot internal.Snapshot
	Duration time.Duration
}

// Refresher runs one fetch, build, order and diff cycle and swaps the result
// into the store. At most one cycle runs at a time.
type Refresher struct {
	source   CardSource
	store    *state.Store
	recorder Recorder
	builder  *Builder
	tax      *taxonomy.Taxonomy
	log      logger.Logger
	timeout  time.Duration
	now      func() time.Time

	mu sync.Mutex
}

type RefresherOptions struct {
	Source   CardSource
	Store    *state.Store
	Recorder Recorder
	Taxonomy *taxonomy.Taxonomy
	Logger   logger.Logger
	Timeout  time.Duration
	Now      func() time.Time
}

func NewRefresher(opts RefresherOptions) *Refresher {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Taxonomy == nil {
		opts.Taxonomy = taxonomy.Default()
	}
	if opts.Store == nil {
		opts.Store = state.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Refresher{
		source:   opts.Source,
		store:    opts.Store,
		recorder: opts.Recorder,
		builder:  NewBuilder(NewNameNormalizer(), opts.Taxonomy, opts.Logger),
		tax:      opts.Taxonomy,
		log:      opts.Logger,
		timeout:  opts.Timeout,
		now:      opts.Now,
	}
}

func (r *Refresher) Store() *state.Store {
	return r.store
}

func (r *Refresher) Taxonomy() *taxonomy.Taxonomy {
	return r.tax
}

// Refresh returns a Busy error without waiting when another cycle is in
// flight. On any failure the current snapshot is left untouched.
func (r *Refresher) Refresh(ctx context.Context) (RefreshResult, error) {
	if !r.mu.TryLock() {
		return RefreshResult{}, apperr.Busy("refresh already in progress")
	}
	defer r.mu.Unlock()

	r.store.MarkAttempt()
	start := time.Now()
	res := RefreshResult{TraceID: traceID()}

	snap, err := r.run(ctx)
	res.Duration = time.Since(start)
	if err != nil {
		r.log.Warn("refresh failed", "trace", res.TraceID, "kind", apperr.KindOf(err).String(), "error", err)
		r.recordRun(res, 0, err)
		return res, err
	}

	r.store.Replace(snap)
	res.Snapshot = snap
	r.log.Info("refresh complete", "trace", res.TraceID, "units", len(snap.Records), "ms", res.Duration.Milliseconds())

	if r.recorder != nil {
		if err := r.recorder.SaveSnapshot(snap); err != nil {
			r.log.Error("persist snapshot", "trace", res.TraceID, "error", err)
		}
	}
	r.recordRun(res, len(snap.Records), nil)
	return res, nil
}

func (r *Refresher) run(ctx context.Context) (internal.Snapshot, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cards, err := r.source.FetchCards(ctx)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			err = apperr.FetchFailure(err, "fetch cards")
		}
		return internal.Snapshot{}, err
	}
	if len(cards) == 0 {
		return internal.Snapshot{}, apperr.FetchFailuref("page contained no unit cards")
	}

	records := r.builder.BuildRecords(cards)
	if len(records) == 0 {
		return internal.Snapshot{}, apperr.FetchFailuref("no in-progress units among %d cards", len(cards))
	}

	records = OrderByCommission(records, r.tax.Order)
	records = Diff(records, r.store.Current().Records)
	return internal.Snapshot{Records: records, FetchedAt: r.now()}, nil
}

func (r *Refresher) recordRun(res RefreshResult, units int, runErr error) {
	if r.recorder == nil {
		return
	}
	row := internal.RunRow{
		TraceID:    res.TraceID,
		Status:     "ok",
		Units:      units,
		DurationMs: res.Duration.Milliseconds(),
	}
	if runErr != nil {
		row.Status = apperr.KindOf(runErr).String()
		row.Error = runErr.Error()
	}
	if err := r.recorder.InsertRun(row); err != nil {
		r.log.Error("record run", "trace", res.TraceID, "error", err)
	}
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
