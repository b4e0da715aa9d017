// Package catalog reads and writes per-collection catalog files.
//
// A catalog file is an ordered JSON array of cards, one file per
// collection code under the cache directory. Files are overwritten
// wholesale on save; the pipeline reads once, mutates in memory and
// writes once at the end of a pass.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cardbinder/pkg/models"
)

type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the catalog file path for a collection code.
func (s *Store) Path(code string) string {
	return filepath.Join(s.Dir, code+".json")
}

// Load reads the catalog for a collection code.
func (s *Store) Load(code string) ([]models.Card, error) {
	return s.LoadFile(s.Path(code))
}

// LoadFile reads a catalog by absolute path (used after alias probing).
func (s *Store) LoadFile(path string) ([]models.Card, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cards []models.Card
	if err := json.Unmarshal(b, &cards); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return cards, nil
}

// Save writes the catalog for a collection code, creating the cache
// directory if needed. Output is indented UTF-8 with non-ASCII
// characters preserved unescaped.
func (s *Store) Save(code string, cards []models.Card) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("ensure cache dir: %w", err)
	}
	f, err := os.Create(s.Path(code))
	if err != nil {
		return fmt.Errorf("create catalog: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cards); err != nil {
		f.Close()
		return fmt.Errorf("encode catalog %s: %w", code, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close catalog %s: %w", code, err)
	}
	return nil
}

// Codes lists the collection codes that have a catalog file, sorted.
func (s *Store) Codes() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list cache dir: %w", err)
	}
	var codes []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		codes = append(codes, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(codes)
	return codes, nil
}

// IndexByNumber maps canonical collector numbers to the catalog's
// non-promo cards. Promo entries share numbers with their base card and
// must not shadow it. First card per number wins.
func IndexByNumber(cards []models.Card) map[string]*models.Card {
	idx := make(map[string]*models.Card, len(cards))
	for i := range cards {
		if cards[i].IsPromo() {
			continue
		}
		key := models.CanonicalNumber(cards[i].Number)
		if _, ok := idx[key]; !ok {
			idx[key] = &cards[i]
		}
	}
	return idx
}

// FindByNumber returns the first card whose canonical number matches nr,
// or nil. Used by the ledger pass, where promo rows are legitimate hits.
func FindByNumber(cards []models.Card, nr string) *models.Card {
	want := models.CanonicalNumber(nr)
	for i := range cards {
		if models.CanonicalNumber(cards[i].Number) == want {
			return &cards[i]
		}
	}
	return nil
}
