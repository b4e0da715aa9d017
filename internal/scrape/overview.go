package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cardbinder/pkg/models"
)

// ErrNoListing signals that the first listing page yielded no rows:
// the base URL or the collection's listing slug is wrong.
var ErrNoListing = errors.New("scrape: no listing rows found")

// Overview paginates one collection's listing pages into a deduplicated
// map of price records keyed by PriceRecord.DedupKey.
type Overview struct {
	Fetcher    Fetcher
	MarketBase string
	MaxPages   int // pagination cap
	// Delay is the pacing between page fetches. It is a politeness
	// contract towards the marketplace, not an optimization knob;
	// do not zero it outside tests without a replacement rate limiter.
	Delay time.Duration
}

func NewOverview(f Fetcher, marketBase string) *Overview {
	return &Overview{
		Fetcher:    f,
		MarketBase: marketBase,
		MaxPages:   20,
		Delay:      time.Second,
	}
}

// ListingURL builds the paginated listing URL for a collection slug.
func (o *Overview) ListingURL(slug string) string {
	return fmt.Sprintf("%s/en/Pokemon/Products/Singles/%s?idRarity=0&sort=collectorsnumber-asc", o.MarketBase, slug)
}

// ScrapeListing walks pages 1..MaxPages of baseURL. An empty first page
// returns ErrNoListing; an empty later page ends pagination normally
// and whatever accumulated is returned. Duplicate keys keep the first
// occurrence by page and row order.
func (o *Overview) ScrapeListing(ctx context.Context, baseURL string) (map[string]models.PriceRecord, error) {
	result := make(map[string]models.PriceRecord)

	for page := 1; page <= o.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		url := fmt.Sprintf("%s&site=%d", baseURL, page)
		if page == 1 {
			log.Printf("[overview] scraping %s", url)
		}

		src, err := o.Fetcher.Fetch(ctx, url)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// transient failure: abandon this page, keep what we have
			log.Printf("[overview] page %d fetch failed: %v", page, err)
			if page == 1 {
				return nil, ErrNoListing
			}
			break
		}

		rows, err := ParseListing(src, o.MarketBase)
		if err != nil {
			log.Printf("[overview] page %d parse failed: %v", page, err)
			rows = nil
		}
		if len(rows) == 0 {
			if page == 1 {
				return nil, ErrNoListing
			}
			break
		}

		for _, r := range rows {
			key := r.DedupKey()
			if _, seen := result[key]; seen {
				continue
			}
			result[key] = r
		}

		if err := sleep(ctx, o.Delay); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
