package scrape

import (
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"cardbinder/pkg/models"
)

// Listing page selectors. The marketplace renders the collection
// listing as a striped div table; each product row carries an id
// starting with "row" and badge icons as svg elements with aria-labels.
var (
	selRow      = cascadia.MustCompile(`div.table.table-striped div.row.g-0[id^="row"]`)
	selLink     = cascadia.MustCompile(`a[href*="/Products/"]`)
	selNumber   = cascadia.MustCompile(`div.col-md-2`)
	selPrice    = cascadia.MustCompile(`div.col-price.pe-sm-2`)
	selPriceRev = cascadia.MustCompile(`div.col-price.d-lg-flex`)
	selBadge    = cascadia.MustCompile(`svg[aria-label]`)
)

// ParseListing extracts price records from one rendered listing page,
// in document order. marketBase prefixes the relative detail links.
//
// The listing table mixes non-card rows into the same markup; rows
// without a detail link or a numeric collector number are skipped
// silently, as are online-code items (non-physical products).
func ParseListing(src, marketBase string) ([]models.PriceRecord, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	var records []models.PriceRecord
	for _, row := range cascadia.QueryAll(doc, selRow) {
		badges := badgeLabels(row)
		if badges["Online Code Card"] {
			continue
		}

		link := cascadia.Query(row, selLink)
		numberDiv := cascadia.Query(row, selNumber)
		if link == nil || numberDiv == nil {
			continue
		}
		number := models.CanonicalNumber(nodeText(numberDiv))
		if !isDigits(number) {
			continue
		}

		normal, _ := ParsePrice(nodeText(cascadia.Query(row, selPrice)))
		reverse, _ := ParsePrice(nodeText(cascadia.Query(row, selPriceRev)))

		records = append(records, models.PriceRecord{
			Number:       number,
			Name:         strings.TrimSpace(nodeText(link)),
			DetailURL:    marketBase + attr(link, "href"),
			NormalPrice:  normal,
			ReversePrice: reverse,
			// the promo badge is a row marker, independent of card
			// names that happen to contain the word "Promo"
			Promo: badges["Promo"],
		})
	}
	return records, nil
}

// Reason codes for price parse outcomes.
const (
	PriceOK        = ""
	PriceEmpty     = "empty"
	PriceMalformed = "malformed"
)

// ParsePrice converts a listing price string ("1.234,56 €") to a
// decimal value. A failure yields a nil price with a reason code
// instead of an error: the row survives with a null price point.
func ParsePrice(s string) (*float64, string) {
	s = strings.ReplaceAll(s, "€", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, PriceEmpty
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, PriceMalformed
	}
	return &v, PriceOK
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func badgeLabels(row *html.Node) map[string]bool {
	labels := make(map[string]bool)
	for _, svg := range cascadia.QueryAll(row, selBadge) {
		if l := attr(svg, "aria-label"); l != "" {
			labels[l] = true
		}
	}
	return labels
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText returns the concatenated text content of a node.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
