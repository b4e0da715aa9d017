// Package reconcile merges scraped price records into an existing
// collection catalog.
//
// The catalog's card list is the source of truth for which cards exist:
// scraping refreshes prices and synthesizes promo variants, it never
// invents new non-promo cards and never deletes anything.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"cardbinder/internal/catalog"
	"cardbinder/pkg/models"
)

// Policy parameterizes one merge pass.
type Policy struct {
	// FreshnessWindow exempts entries whose price info is younger than
	// this from re-scraping.
	FreshnessWindow time.Duration
	// SynthesizeBarePromos controls what happens to a promo record with
	// no base card in the catalog: dropped when false (the historical
	// behavior), synthesized from the record alone when true.
	SynthesizeBarePromos bool
}

func DefaultPolicy() Policy {
	return Policy{FreshnessWindow: 7 * 24 * time.Hour}
}

// Merge folds scraped records into cards and returns the updated list
// plus the number of entries touched. The input slice is mutated in
// place for price refreshes; promo synthesis appends.
//
// Records are processed in sorted key order so output is deterministic.
func Merge(collectionID string, scraped map[string]models.PriceRecord, cards []models.Card, now time.Time, pol Policy) ([]models.Card, int) {
	byNumber := catalog.IndexByNumber(cards)
	byID := make(map[string]*models.Card, len(cards))
	for i := range cards {
		byID[cards[i].ID] = &cards[i]
	}

	keys := make([]string, 0, len(scraped))
	for k := range scraped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// promos are appended after the loop: byNumber and byID hold
	// pointers into cards' backing array, which an append may move
	var promos []models.Card

	updated := 0
	for _, key := range keys {
		rec := scraped[key]
		existing := byNumber[rec.Number]

		if rec.Promo {
			promoID := fmt.Sprintf("%s-promo-%s", collectionID, rec.Number)
			if prior := byID[promoID]; prior != nil {
				// promo already synthesized by an earlier pass; refresh
				// it like any other entry instead of appending a twin
				if refresh(prior, rec, now, pol) {
					updated++
				}
				continue
			}
			promo, ok := synthesizePromo(promoID, rec, existing, now, pol)
			if !ok {
				continue
			}
			promos = append(promos, promo)
			updated++
			continue
		}

		if existing == nil {
			// unknown non-promo card: the catalog decides what exists
			continue
		}
		if refresh(existing, rec, now, pol) {
			updated++
		}
	}
	return append(cards, promos...), updated
}

// refresh overwrites a card's price info unless it is still fresh.
// A missing or malformed date counts as stale.
func refresh(card *models.Card, rec models.PriceRecord, now time.Time, pol Policy) bool {
	if cm := card.Cardmarket; cm != nil {
		if last, err := time.Parse(models.DateLayout, cm.UpdatedAt); err == nil {
			if now.Sub(last) < pol.FreshnessWindow {
				return false
			}
		}
	}
	card.Cardmarket = priceInfo(rec, now)
	return true
}

func synthesizePromo(promoID string, rec models.PriceRecord, base *models.Card, now time.Time, pol Policy) (models.Card, bool) {
	if base == nil {
		if !pol.SynthesizeBarePromos {
			return models.Card{}, false
		}
		return models.Card{
			ID:         promoID,
			Number:     rec.Number,
			Name:       rec.Name + " (Promo)",
			Rarity:     "Promo",
			Cardmarket: priceInfo(rec, now),
		}, true
	}
	promo := base.Clone()
	promo.ID = promoID
	promo.Name = rec.Name + " (Promo)"
	promo.Rarity = "Promo"
	promo.Cardmarket = priceInfo(rec, now)
	return promo, true
}

func priceInfo(rec models.PriceRecord, now time.Time) *models.PriceInfo {
	return &models.PriceInfo{
		URL:       rec.DetailURL,
		UpdatedAt: now.Format(models.DateLayout),
		Prices: map[string]*float64{
			models.PriceLow:        rec.NormalPrice,
			models.PriceReverseLow: rec.ReversePrice,
		},
	}
}
