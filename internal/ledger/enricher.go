package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"cardbinder/internal/alias"
	"cardbinder/internal/catalog"
	"cardbinder/internal/scrape"
	"cardbinder/pkg/models"
)

// OnlinePriceColumn is the output column added by Enrich.
const OnlinePriceColumn = "online_price"

// Report aggregates the rows the enricher could not resolve. Rows are
// still emitted with a blank price; nothing is dropped.
type Report struct {
	UnmappedSets   []string // set codes with no catalog file
	UnmatchedCards []string // "set - nr" with no catalog entry or stored URL
}

// Enricher resolves each ledger row to a catalog entry and fetches the
// row's variant-specific detail page for a current price.
//
// Ledger rows may be reverse-holo or foreign-language copies of a
// catalog entry; their price comes from the variant's detail page, not
// from the catalog's generic listing price.
type Enricher struct {
	Aliases  *alias.Resolver
	Catalogs *catalog.Store
	Fetcher  scrape.Fetcher
}

// Enrich fills the online_price column of every row, one-to-one and in
// order. A single row's failure degrades to a blank price and a report
// entry; only cancellation aborts the pass.
func (e *Enricher) Enrich(ctx context.Context, f *File) (*Report, error) {
	f.AddColumn(OnlinePriceColumn)
	report := &Report{}

	// catalogs are read-through cached per resolved file across rows
	cache := make(map[string][]models.Card)

	for _, row := range f.Rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		e.enrichRow(ctx, row, cache, report)
	}
	return report, nil
}

func (e *Enricher) enrichRow(ctx context.Context, row *Row, cache map[string][]models.Card, report *Report) {
	row.Set(OnlinePriceColumn, "")

	setCode := row.Get("set")
	nr := row.Get("nr")
	notes := row.Notes()

	path, err := e.Aliases.FindCatalogFile(setCode, notes)
	if err != nil {
		log.Printf("[ledger] no catalog for set %q, row emitted without price", setCode)
		report.UnmappedSets = appendUnique(report.UnmappedSets, setCode)
		return
	}

	cards, ok := cache[path]
	if !ok {
		cards, err = e.Catalogs.LoadFile(path)
		if err != nil {
			log.Printf("[ledger] catalog %s unreadable: %v", path, err)
			report.UnmappedSets = appendUnique(report.UnmappedSets, setCode)
			return
		}
		cache[path] = cards
	}

	match := catalog.FindByNumber(cards, nr)
	if match == nil {
		log.Printf("[ledger] no card %s in %s", nr, path)
		report.UnmatchedCards = appendUnique(report.UnmatchedCards, fmt.Sprintf("%s - %s", setCode, nr))
		return
	}
	if match.Cardmarket == nil || match.Cardmarket.URL == "" {
		log.Printf("[ledger] no detail URL for %s %s", setCode, nr)
		report.UnmatchedCards = appendUnique(report.UnmatchedCards, fmt.Sprintf("%s - %s", setCode, nr))
		return
	}

	langCode := row.Get("lang")
	if langCode == "" {
		langCode = "de"
	}
	reverse := false
	for _, n := range notes {
		if n == "Reverse" {
			reverse = true
		}
	}
	url := scrape.DetailURL(match.Cardmarket.URL, langCode, reverse)

	price, err := e.fetchPrice(ctx, url)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		log.Printf("[ledger] %s %s: %v, row emitted without price", setCode, nr, err)
		report.UnmatchedCards = appendUnique(report.UnmatchedCards, fmt.Sprintf("%s - %s", setCode, nr))
		return
	}
	if price == nil {
		log.Printf("[ledger] %s %s: detail page has no 7-day average", setCode, nr)
		return
	}
	row.Set(OnlinePriceColumn, strconv.FormatFloat(*price, 'f', 2, 64))
}

func (e *Enricher) fetchPrice(ctx context.Context, url string) (*float64, error) {
	src, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch detail: %w", err)
	}
	fields, err := scrape.ParseDetail(src)
	if err != nil {
		return nil, fmt.Errorf("parse detail: %w", err)
	}
	return scrape.PickField(fields, "avg_7_days"), nil
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// Summary renders the final report lines logged at the end of a pass.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sets not mapped yet: %v\n", r.UnmappedSets)
	fmt.Fprintf(&b, "cards without URL or price: %v", r.UnmatchedCards)
	return b.String()
}
