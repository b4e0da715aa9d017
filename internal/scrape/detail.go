package scrape

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Field is one labeled price figure extracted from a card detail page.
// Value is nil when the page shows a dash or an unparseable figure.
type Field struct {
	Name  string
	Value *float64
}

var (
	selInfoList = cascadia.MustCompile(`dl.labeled`)
	selDT       = cascadia.MustCompile(`dt`)
	selDD       = cascadia.MustCompile(`dd`)
)

// fieldNames maps detail-page labels to stable field names.
var fieldNames = map[string]string{
	"from":               "from",
	"price trend":        "trend",
	"30-days average":    "avg_30_days",
	"30-day average":     "avg_30_days",
	"7-days average":     "avg_7_days",
	"7-day average":      "avg_7_days",
	"1-day average":      "avg_1_day",
	"available items":    "available_items",
	"reverse holo from":  "reverse_from",
	"reverse holo trend": "reverse_trend",
}

// ParseDetail extracts the labeled price fields of a card detail page.
// Labels without a known mapping are kept under a normalized form of
// their text so callers can still match on substrings.
func ParseDetail(src string) ([]Field, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	var fields []Field
	for _, dl := range cascadia.QueryAll(doc, selInfoList) {
		dts := cascadia.QueryAll(dl, selDT)
		dds := cascadia.QueryAll(dl, selDD)
		if len(dts) != len(dds) {
			continue
		}
		for i := range dts {
			label := strings.TrimSpace(nodeText(dts[i]))
			name, ok := fieldNames[strings.ToLower(label)]
			if !ok {
				name = normalizeLabel(label)
			}
			value, _ := ParsePrice(nodeText(dds[i]))
			fields = append(fields, Field{Name: name, Value: value})
		}
	}
	return fields, nil
}

// PickField returns the value of the first field whose name contains
// needle, or nil.
func PickField(fields []Field, needle string) *float64 {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			return f.Value
		}
	}
	return nil
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			prev = false
			continue
		}
		if !prev && b.Len() > 0 {
			b.WriteRune('_')
			prev = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// languageParams maps ledger language hints to the marketplace's
// numeric language parameter.
var languageParams = map[string]int{
	"en": 1,
	"fr": 2,
	"de": 3,
	"es": 4,
	"it": 5,
	"jp": 7,
	"pt": 8,
	"ko": 10,
	"cn": 11,
	"in": 16,
	"th": 17,
}

// DetailURL parameterizes a card's stored detail URL by language and
// reverse-holo variant. Unknown language codes fall back to the
// regional default (de).
func DetailURL(base, langCode string, reverseHolo bool) string {
	lang, ok := languageParams[strings.ToLower(langCode)]
	if !ok {
		lang = languageParams["de"]
	}
	if reverseHolo {
		base += "?isReverseHolo=Y"
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%slanguage=%d", base, sep, lang)
}
