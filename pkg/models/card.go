package models

import "strings"

// Card is one catalog entry for a collection, stored on disk as part of
// the collection's JSON catalog file.
//
// The pipeline never deletes cards: the catalog's card list is seeded
// externally and reconciliation only refreshes price info or appends
// synthesized promo variants.
type Card struct {
	ID         string            `json:"id"`                   // unique within the catalog file; promos use "{collection}-promo-{number}"
	Number     string            `json:"number"`               // collector number, may carry leading zeros
	Name       string            `json:"name"`
	Rarity     string            `json:"rarity,omitempty"`     // "Promo" for synthesized promo entries
	Images     map[string]string `json:"images,omitempty"`     // e.g. {"small": "..."}
	Cardmarket *PriceInfo        `json:"cardmarket,omitempty"` // last scraped price info, if any
}

// PriceInfo holds the scraped price data of one card.
type PriceInfo struct {
	URL       string              `json:"url"`
	UpdatedAt string              `json:"updatedAt"` // "YYYY-MM-DD"
	Prices    map[string]*float64 `json:"prices"`
}

// Named price points inside PriceInfo.Prices. Values are nullable: a
// listing row without a parseable price stores nil for that point.
const (
	PriceLow        = "lowPrice"
	PriceReverseLow = "reverseHoloLow"
)

// DateLayout is the wire format of PriceInfo.UpdatedAt.
const DateLayout = "2006-01-02"

// CanonicalNumber strips leading zeros from a collector number so that
// "007", "07" and "7" all join on the same key.
func CanonicalNumber(n string) string {
	return strings.TrimLeft(strings.TrimSpace(n), "0")
}

// IsPromo reports whether the card is a promo variant.
func (c Card) IsPromo() bool {
	return c.Rarity == "Promo"
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.Images != nil {
		out.Images = make(map[string]string, len(c.Images))
		for k, v := range c.Images {
			out.Images[k] = v
		}
	}
	if c.Cardmarket != nil {
		cm := *c.Cardmarket
		if c.Cardmarket.Prices != nil {
			cm.Prices = make(map[string]*float64, len(c.Cardmarket.Prices))
			for k, v := range c.Cardmarket.Prices {
				if v != nil {
					p := *v
					cm.Prices[k] = &p
					continue
				}
				cm.Prices[k] = nil
			}
		}
		out.Cardmarket = &cm
	}
	return out
}

// CardSummary is the flattened projection of a Card served by the search
// and detail endpoints.
type CardSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Set          string   `json:"set"`
	Number       string   `json:"number"`
	Rarity       string   `json:"rarity"`
	Image        string   `json:"image,omitempty"`
	PriceLow     float64  `json:"priceLow"`
	PriceReverse *float64 `json:"priceReverse"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
}

// Summarize flattens a catalog card for the API. setCode is the catalog
// file's collection code.
func Summarize(c Card, setCode string) CardSummary {
	s := CardSummary{
		ID:     c.ID,
		Name:   c.Name,
		Set:    setCode,
		Number: c.Number,
		Rarity: c.Rarity,
	}
	if c.Images != nil {
		s.Image = c.Images["small"]
	}
	if c.Cardmarket != nil {
		s.UpdatedAt = c.Cardmarket.UpdatedAt
		if p := c.Cardmarket.Prices[PriceLow]; p != nil {
			s.PriceLow = *p
		}
		s.PriceReverse = c.Cardmarket.Prices[PriceReverseLow]
	}
	return s
}
