package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"cardbinder/internal/alias"
	"cardbinder/internal/catalog"
	"cardbinder/internal/history"
	"cardbinder/internal/ledger"
	"cardbinder/internal/scrape"
	"cardbinder/pkg/database"
	"cardbinder/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()

	var (
		in  = flag.String("in", filepath.Join(cfg.AlbumDir, "fullcollection.csv"), "ledger file to enrich")
		out = flag.String("out", "", "output file (default: <in> with _with_prices suffix)")
	)
	flag.Parse()
	if *out == "" {
		ext := filepath.Ext(*in)
		*out = (*in)[:len(*in)-len(ext)] + "_with_prices" + ext
	}

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	resolver, err := alias.Load(cfg.AliasPath, cfg.CacheDir)
	if err != nil {
		log.Fatalf("load alias table: %v", err)
	}

	e := &ledger.Enricher{
		Aliases:  resolver,
		Catalogs: catalog.NewStore(cfg.CacheDir),
		Fetcher:  scrape.NewClient(cfg.RenderGateway, scrape.DefaultRetryPolicy()),
	}

	f, err := ledger.Read(*in)
	if err != nil {
		log.Fatalf("read ledger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runs := history.NewStore(db)
	runID, err := runs.StartRun(ctx, history.KindEnrich)
	if err != nil {
		log.Printf("[enrich] history unavailable: %v", err)
	}

	report, err := e.Enrich(ctx, f)
	if err != nil {
		// cancellation: write nothing partial, the input is untouched
		log.Fatalf("enrich aborted: %v", err)
	}

	if err := f.Write(*out); err != nil {
		log.Fatalf("write ledger: %v", err)
	}
	log.Printf("[enrich] wrote %d rows to %s", len(f.Rows), *out)
	log.Printf("[enrich] %s", report.Summary())

	if runID != "" {
		if err := runs.RecordIssues(ctx, runID, history.IssueUnmappedSet, report.UnmappedSets); err != nil {
			log.Printf("[enrich] record history: %v", err)
		}
		if err := runs.RecordIssues(ctx, runID, history.IssueUnmatchedCard, report.UnmatchedCards); err != nil {
			log.Printf("[enrich] record history: %v", err)
		}
		if err := runs.FinishRun(ctx, runID); err != nil {
			log.Printf("[enrich] finish history: %v", err)
		}
	}
}
