// Package alias maps short collection codes to the marketplace's
// canonical listing slugs and to on-disk catalog files.
//
// Collections are published under one canonical slug, but ledgers and
// users refer to them by regional or legacy codes. The alias table
// decouples the two without duplicating catalog data.
package alias

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no catalog file exists for any candidate alias.
var ErrNotFound = errors.New("alias: catalog file not found")

// Resolver answers alias and catalog-file lookups for collection codes.
// It is built once per run and safe for concurrent reads.
type Resolver struct {
	aliasToMaster map[string]string
	masterAliases map[string][]string
	catalogDir    string
}

// Load reads the alias table, a JSON object mapping each master code to
// either a single alias string or a list of aliases. catalogDir is where
// per-collection catalog files ({alias}.json) are probed.
func Load(path, catalogDir string) (*Resolver, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse alias table %s: %w", path, err)
	}

	r := &Resolver{
		aliasToMaster: make(map[string]string),
		masterAliases: make(map[string][]string),
		catalogDir:    catalogDir,
	}
	for master, msg := range raw {
		var aliases []string
		var one string
		if err := json.Unmarshal(msg, &one); err == nil {
			aliases = []string{one}
		} else if err := json.Unmarshal(msg, &aliases); err != nil {
			return nil, fmt.Errorf("alias table entry %q: expected string or list", master)
		}
		lowered := make([]string, 0, len(aliases))
		for _, a := range aliases {
			a = strings.ToLower(a)
			lowered = append(lowered, a)
			r.aliasToMaster[a] = master
		}
		r.masterAliases[master] = lowered
	}
	return r, nil
}

// Aliases returns the candidate aliases for a code in the master's
// declared order. Unknown codes degrade to a self-lookup instead of
// erroring: the code itself (lowercased) is its only alias.
func (r *Resolver) Aliases(code string) []string {
	master, ok := r.aliasToMaster[strings.ToLower(code)]
	if !ok {
		return []string{strings.ToLower(code)}
	}
	// copy: callers may append probe candidates
	return append([]string(nil), r.masterAliases[master]...)
}

// ListingSlug returns the marketplace listing identifier for a code:
// the first declared alias of its master.
func (r *Resolver) ListingSlug(code string) string {
	return r.Aliases(code)[0]
}

// Masters returns all master codes in sorted order.
func (r *Resolver) Masters() []string {
	out := make([]string, 0, len(r.masterAliases))
	for m := range r.masterAliases {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// FindCatalogFile probes each candidate alias for an existing catalog
// file named {alias}.json and returns the first hit. A "TG" note
// appends the trainer-gallery side catalog to the candidates.
func (r *Resolver) FindCatalogFile(code string, notes []string) (string, error) {
	candidates := r.Aliases(code)
	for _, n := range notes {
		if n == "TG" {
			candidates = append(candidates, "tg")
			break
		}
	}
	for _, a := range candidates {
		p := filepath.Join(r.catalogDir, a+".json")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: set %q", ErrNotFound, code)
}
