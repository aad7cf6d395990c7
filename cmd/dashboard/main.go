package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"electwatch/internal/config"
	apperr "electwatch/internal/errors"
	"electwatch/internal/dashboard"
	"electwatch/internal/logger"
	"electwatch/internal/pipeline"
	"electwatch/internal/poller"
	"electwatch/internal/scraper"
	"electwatch/internal/state"
	"electwatch/internal/storage"
	"electwatch/internal/taxonomy"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))
	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	must(err)
	for _, w := range tax.Table.Warnings() {
		log.Warn("taxonomy keyword overlap", "detail", w)
	}

	if cfg.ElectionHTMLFile == "" {
		must(cfg.Require("ELECTION_URL", cfg.ElectionURL))
	}

	store := state.New()
	var recorder pipeline.Recorder
	if cfg.PersistSnapshot {
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		recorder = db

		snap, err := db.LoadSnapshot()
		switch {
		case err == nil:
			store.Restore(snap)
			log.Info("restored snapshot", "units", len(snap.Records), "fetchedAt", snap.FetchedAt)
		case !apperr.IsKind(err, apperr.KindNotFound):
			log.Warn("restore snapshot", "error", err)
		}
	}

	refresher := pipeline.NewRefresher(pipeline.RefresherOptions{
		Source:   scraper.NewFetcher(cfg, log),
		Store:    store,
		Recorder: recorder,
		Taxonomy: tax,
		Logger:   log,
		Timeout:  time.Duration(cfg.FetchTimeoutMs) * time.Millisecond,
	})

	interval := time.Duration(cfg.RefreshIntervalSec) * time.Second
	srv, err := dashboard.New(dashboard.Options{
		Refresher:        refresher,
		Store:            store,
		Taxonomy:         tax,
		NearClosingRatio: cfg.NearClosingRatio,
		AutoRefresh:      cfg.AutoRefresh,
		RefreshInterval:  interval,
		Logger:           log,
	})
	must(err)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.AutoRefresh {
		go func() {
			_ = poller.NewService(refresher, interval, log).Run(ctx)
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("dashboard listening", "addr", cfg.HTTPAddr, "autoRefresh", cfg.AutoRefresh)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		must(err)
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
