package poller

import (
	"context"
	"time"

	apperr "electwatch/internal/errors"
	"electwatch/internal/logger"
	"electwatch/internal/pipeline"
)

type Refresher interface {
	Refresh(ctx context.Context) (pipeline.RefreshResult, error)
}

// Service refreshes the snapshot on a fixed period until its context ends.
type Service struct {
	refresher Refresher
	interval  time.Duration
	log       logger.Logger
}

func NewService(refresher Refresher, interval time.Duration, log logger.Logger) *Service {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{refresher: refresher, interval: interval, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) {
	res, err := s.refresher.Refresh(ctx)
	switch {
	case err == nil:
		s.log.Debug("poll cycle done", "trace", res.TraceID, "units", len(res.Snapshot.Records))
	case apperr.IsKind(err, apperr.KindBusy):
		s.log.Info("poll cycle skipped, refresh in progress")
	default:
		s.log.Warn("poll cycle error", "error", err)
	}
}
