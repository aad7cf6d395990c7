package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"electwatch/internal"
	"electwatch/internal/config"
	apperr "electwatch/internal/errors"
	"electwatch/internal/export"
	"electwatch/internal/logger"
	"electwatch/internal/pipeline"
	"electwatch/internal/scraper"
	"electwatch/internal/state"
	"electwatch/internal/storage"
	"electwatch/internal/taxonomy"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := logger.NewWithWriter(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	must(err)

	cmd := os.Args[1]
	if cmd == "taxonomy:check" {
		checkTaxonomy(tax)
		return
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	switch cmd {
	case "fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		opts := viewFlags(fs)
		_ = fs.Parse(os.Args[2:])

		if cfg.ElectionHTMLFile == "" {
			must(cfg.Require("ELECTION_URL", cfg.ElectionURL))
		}

		store := state.New()
		if prev, err := db.LoadSnapshot(); err == nil {
			store.Restore(prev)
		} else if !apperr.IsKind(err, apperr.KindNotFound) {
			must(err)
		}

		var recorder pipeline.Recorder
		if cfg.PersistSnapshot {
			recorder = db
		}
		refresher := pipeline.NewRefresher(pipeline.RefresherOptions{
			Source:   scraper.NewFetcher(cfg, log),
			Store:    store,
			Recorder: recorder,
			Taxonomy: tax,
			Logger:   log,
			Timeout:  time.Duration(cfg.FetchTimeoutMs) * time.Millisecond,
		})
		res, err := refresher.Refresh(context.Background())
		must(err)
		printSnapshot(res.Snapshot, opts(), tax, cfg.NearClosingRatio)
		fmt.Printf("fetch done trace=%s units=%d duration=%s\n", res.TraceID, len(res.Snapshot.Records), res.Duration.Round(time.Millisecond))
	case "show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		opts := viewFlags(fs)
		_ = fs.Parse(os.Args[2:])
		snap, err := db.LoadSnapshot()
		must(err)
		printSnapshot(snap, opts(), tax, cfg.NearClosingRatio)
		fmt.Printf("last updated %s\n", snap.FetchedAt.Local().Format(time.DateTime))
	case "export:csv":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		opts := viewFlags(fs)
		out := fs.String("out", cfg.OutputDir, "output directory")
		_ = fs.Parse(os.Args[2:])
		records := storedView(db, opts())
		path, err := export.SaveCSV(*out, records, time.Now())
		must(err)
		fmt.Printf("exported %d rows to %s\n", len(records), path)
	case "export:text":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		opts := viewFlags(fs)
		out := fs.String("out", "", "output file (stdout when empty)")
		_ = fs.Parse(os.Args[2:])
		report := export.TextReport(storedView(db, opts()), tax.Order)
		if strings.TrimSpace(*out) == "" {
			fmt.Print(report)
			return
		}
		must(os.WriteFile(*out, []byte(report), 0o644))
		fmt.Printf("wrote notice text to %s\n", *out)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		opts := viewFlags(fs)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		records := storedView(db, opts())
		must(export.SaveXLSX(*out, records, cfg.NearClosingRatio))
		fmt.Printf("exported %d rows to %s\n", len(records), *out)
	case "runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "number of runs")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s %s status=%s units=%d ms=%d %s\n", r.CreatedAt, r.TraceID, r.Status, r.Units, r.DurationMs, r.Error)
		}
	default:
		usage()
		os.Exit(1)
	}
}

// viewFlags registers --sort and --commission on fs.
func viewFlags(fs *flag.FlagSet) func() pipeline.ViewOptions {
	sortKey := fs.String("sort", string(pipeline.SortOriginal), "original|rate_desc|rate_asc|voted_desc|remaining_asc|name_asc")
	commissions := fs.String("commission", "", "comma separated commission filter")
	return func() pipeline.ViewOptions {
		opts := pipeline.ViewOptions{Sort: pipeline.ParseSortKey(*sortKey)}
		if strings.TrimSpace(*commissions) != "" {
			opts.Commissions = strings.Split(*commissions, ",")
		}
		return opts
	}
}

func storedView(db *storage.DB, opts pipeline.ViewOptions) []internal.UnitRecord {
	snap, err := db.LoadSnapshot()
	must(err)
	return pipeline.BuildView(snap.Records, opts).Complete
}

func printSnapshot(snap internal.Snapshot, opts pipeline.ViewOptions, tax *taxonomy.Taxonomy, ratio float64) {
	view := pipeline.BuildView(snap.Records, opts)
	summary := pipeline.Summarize(snap.Records, tax.Targets)
	export.RenderConsole(os.Stdout, view, summary, ratio)
}

func checkTaxonomy(tax *taxonomy.Taxonomy) {
	warnings := tax.Table.Warnings()
	fmt.Printf("keywords=%d commissions=%d\n", tax.Table.Len(), tax.Order.Len())
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if len(warnings) == 0 {
		fmt.Println("no overlapping keywords")
	}
	fmt.Println("commission order:")
	for i, name := range tax.Order.Names() {
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
}

func usage() {
	fmt.Println("usage: electwatch <command>")
	fmt.Println("commands:")
	fmt.Println("  fetch [--sort=rate_desc] [--commission=문과대학,공과대학]")
	fmt.Println("  show [--sort=...] [--commission=...]")
	fmt.Println("  export:csv [--out=./out] [--sort=...] [--commission=...]")
	fmt.Println("  export:text [--out=notice.txt] [--sort=...] [--commission=...]")
	fmt.Println("  export:xlsx --out=./out/status.xlsx [--sort=...] [--commission=...]")
	fmt.Println("  runs [--limit=20]")
	fmt.Println("  taxonomy:check")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
