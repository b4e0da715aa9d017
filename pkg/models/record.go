package models

// PriceRecord is one normalized row scraped from a marketplace listing
// page. Records only live for the duration of a scrape pass; the
// reconciliation engine folds them into the catalog.
type PriceRecord struct {
	Number       string   // canonicalized collector number
	Name         string
	DetailURL    string   // absolute URL of the card's detail page
	NormalPrice  *float64 // nil when the listing showed no parseable price
	ReversePrice *float64
	Promo        bool
}

// DedupKey returns the key a record is deduplicated under during one
// scrape pass. Promo and non-promo rows with the same number are
// distinct records and both survive.
func (r PriceRecord) DedupKey() string {
	if r.Promo {
		return r.Number + "-promo"
	}
	return r.Number
}
