package scrape

import "testing"

const base = "https://market.test"

func rowHTML(id, badge, href, number, name, price, priceRev string) string {
	b := ""
	if badge != "" {
		b = `<svg aria-label="` + badge + `"></svg>`
	}
	link := ""
	if href != "" {
		link = `<a href="` + href + `">` + name + `</a>`
	}
	return `<div class="row g-0" id="` + id + `">` + b +
		`<div class="col-md-2">` + number + `</div>` + link +
		`<div class="col-price pe-sm-2">` + price + `</div>` +
		`<div class="col-price d-lg-flex">` + priceRev + `</div></div>`
}

func page(rows ...string) string {
	body := ""
	for _, r := range rows {
		body += r
	}
	return `<html><body><div class="table table-striped mb-3">` + body + `</div></body></html>`
}

func TestParseListing(t *testing.T) {
	src := page(
		rowHTML("row1", "", "/en/Pokemon/Products/Singles/x/Pikachu", "025", "Pikachu", "0,05 €", "1,20 €"),
		rowHTML("row2", "Promo", "/en/Pokemon/Products/Singles/x/Pikachu-promo", "025", "Pikachu", "2,50 €", ""),
		rowHTML("row3", "Online Code Card", "/en/Pokemon/Products/Singles/x/Code", "026", "Code Card", "0,10 €", ""),
		rowHTML("row4", "", "", "027", "No Link", "0,10 €", ""),          // no detail link
		rowHTML("row5", "", "/en/Pokemon/Products/Singles/x/Token", "—", "Token", "0,10 €", ""), // non-numeric number
	)

	records, err := ParseListing(src, base)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	r := records[0]
	if r.Number != "25" || r.Name != "Pikachu" || r.Promo {
		t.Fatalf("row1 = %+v", r)
	}
	if r.DetailURL != base+"/en/Pokemon/Products/Singles/x/Pikachu" {
		t.Fatalf("detail url = %q", r.DetailURL)
	}
	if r.NormalPrice == nil || *r.NormalPrice != 0.05 {
		t.Fatalf("normal price = %v", r.NormalPrice)
	}
	if r.ReversePrice == nil || *r.ReversePrice != 1.2 {
		t.Fatalf("reverse price = %v", r.ReversePrice)
	}

	p := records[1]
	if !p.Promo || p.Number != "25" {
		t.Fatalf("promo row = %+v", p)
	}
	if p.ReversePrice != nil {
		t.Fatalf("promo reverse price should be nil, got %v", p.ReversePrice)
	}
}

func TestParseListingEmptyPage(t *testing.T) {
	records, err := ParseListing(`<html><body><p>nothing here</p></body></html>`, base)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records from empty page", len(records))
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in     string
		want   float64
		nilVal bool
		reason string
	}{
		{"0,05 €", 0.05, false, PriceOK},
		{"1.234,56 €", 1234.56, false, PriceOK},
		{"12 €", 12, false, PriceOK},
		{"", 0, true, PriceEmpty},
		{"   ", 0, true, PriceEmpty},
		{"N/A", 0, true, PriceMalformed},
	}
	for _, c := range cases {
		got, reason := ParsePrice(c.in)
		if reason != c.reason {
			t.Errorf("ParsePrice(%q) reason = %q, want %q", c.in, reason, c.reason)
		}
		if c.nilVal {
			if got != nil {
				t.Errorf("ParsePrice(%q) = %v, want nil", c.in, *got)
			}
			continue
		}
		if got == nil || *got != c.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
