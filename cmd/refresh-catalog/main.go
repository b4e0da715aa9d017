package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"cardbinder/internal/alias"
	"cardbinder/internal/catalog"
	"cardbinder/internal/history"
	"cardbinder/internal/reconcile"
	"cardbinder/internal/scrape"
	"cardbinder/pkg/database"
	"cardbinder/pkg/utils"
)

func main() {
	var (
		collection = flag.String("collection", "", "refresh a single collection code (default: every master in the alias table)")
		daemon     = flag.Bool("daemon", false, "keep running and refresh on a schedule")
		schedule   = flag.String("schedule", "0 3 * * *", "cron spec used with -daemon")
		barePromos = flag.Bool("bare-promos", false, "synthesize promo entries that have no base card in the catalog")
	)
	flag.Parse()

	cfg := utils.LoadConfig()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	resolver, err := alias.Load(cfg.AliasPath, cfg.CacheDir)
	if err != nil {
		log.Fatalf("load alias table: %v", err)
	}

	fetcher := scrape.NewClient(cfg.RenderGateway, scrape.DefaultRetryPolicy())
	overview := scrape.NewOverview(fetcher, cfg.MarketBase)
	overview.MaxPages = cfg.MaxPages
	overview.Delay = cfg.PageDelay

	r := &refresher{
		resolver: resolver,
		overview: overview,
		store:    catalog.NewStore(cfg.CacheDir),
		runs:     history.NewStore(db),
		policy: reconcile.Policy{
			FreshnessWindow:      time.Duration(cfg.FreshnessDays) * 24 * time.Hour,
			SynthesizeBarePromos: *barePromos,
		},
		only: *collection,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*daemon {
		r.refreshAll(ctx)
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, func() { r.refreshAll(ctx) }); err != nil {
		log.Fatalf("bad -schedule %q: %v", *schedule, err)
	}
	c.Start()
	log.Printf("[refresh] daemon running, schedule %q", *schedule)
	<-ctx.Done()
	log.Println("[refresh] shutting down")
	<-c.Stop().Done()
}

type refresher struct {
	resolver *alias.Resolver
	overview *scrape.Overview
	store    *catalog.Store
	runs     *history.Store
	policy   reconcile.Policy
	only     string

	// a collection's catalog has a single writer; overlapping scheduled
	// runs are skipped rather than queued
	mu sync.Mutex
}

func (r *refresher) refreshAll(ctx context.Context) {
	if !r.mu.TryLock() {
		log.Println("[refresh] previous run still in progress, skipping")
		return
	}
	defer r.mu.Unlock()

	collections := r.resolver.Masters()
	if r.only != "" {
		collections = []string{r.only}
	}

	runID, err := r.runs.StartRun(ctx, history.KindRefresh)
	if err != nil {
		log.Printf("[refresh] history unavailable: %v", err)
	}

	for _, code := range collections {
		if ctx.Err() != nil {
			log.Println("[refresh] canceled")
			break
		}
		updated, err := r.refreshOne(ctx, code)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[refresh] %s failed: %v", code, err)
		}
		if runID != "" {
			if herr := r.runs.RecordCollection(ctx, runID, code, updated, err); herr != nil {
				log.Printf("[refresh] record history: %v", herr)
			}
		}
	}

	if runID != "" {
		if err := r.runs.FinishRun(ctx, runID); err != nil {
			log.Printf("[refresh] finish history: %v", err)
		}
		r.logSummary(ctx, runID)
	}
}

// refreshOne scrapes one collection's listing and reconciles it into
// the catalog file. An unreadable catalog aborts only this collection.
func (r *refresher) refreshOne(ctx context.Context, code string) (int, error) {
	slug := r.resolver.ListingSlug(code)
	log.Printf("[refresh] updating %s -> %s", code, slug)

	cards, err := r.store.Load(code)
	if err != nil {
		return 0, err
	}

	scraped, err := r.overview.ScrapeListing(ctx, r.overview.ListingURL(slug))
	if err != nil {
		if errors.Is(err, scrape.ErrNoListing) {
			log.Printf("[refresh] warning: no cards found for %s", slug)
		}
		return 0, err
	}

	merged, updated := reconcile.Merge(code, scraped, cards, time.Now(), r.policy)
	if err := r.store.Save(code, merged); err != nil {
		return 0, err
	}
	log.Printf("[refresh] updated %d cards for %s", updated, code)
	return updated, nil
}

func (r *refresher) logSummary(ctx context.Context, runID string) {
	summary, err := r.runs.RunSummary(ctx, runID)
	if err != nil {
		log.Printf("[refresh] summary unavailable: %v", err)
		return
	}
	total := 0
	failed := 0
	for _, s := range summary {
		total += s.Updated
		if s.Error != "" {
			failed++
		}
	}
	log.Printf("[refresh] run %s: %d collections, %d cards updated, %d failed", runID, len(summary), total, failed)
}
