// Package search provides fuzzy name lookup over the flattened catalog.
// Scoring delegates entirely to a string-similarity library; this
// package only ranks and slices.
package search

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"cardbinder/pkg/models"
)

// DefaultLimit caps the number of matches returned per query.
const DefaultLimit = 50

// Match is a scored search hit. Score is 0..100, higher is better.
type Match struct {
	models.CardSummary
	Score int `json:"_score"`
}

// Index holds the searchable card projections for one process.
type Index struct {
	cards []models.CardSummary
	names []string // lowercased, parallel to cards
}

func NewIndex(cards []models.CardSummary) *Index {
	ix := &Index{cards: cards, names: make([]string, len(cards))}
	for i, c := range cards {
		ix.names[i] = strings.ToLower(c.Name)
	}
	return ix
}

func (ix *Index) Len() int { return len(ix.cards) }

// ByID returns the card with the given id, or nil.
func (ix *Index) ByID(id string) *models.CardSummary {
	for i := range ix.cards {
		if ix.cards[i].ID == id {
			return &ix.cards[i]
		}
	}
	return nil
}

// Search scores every card name against the query and returns the top
// limit matches sorted by descending score. Ties keep index order.
func (ix *Index) Search(query string, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := make([]Match, 0, len(ix.cards))
	for i, name := range ix.names {
		score := score(query, name)
		matches = append(matches, Match{CardSummary: ix.cards[i], Score: score})
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// score rates how well a query matches a card name. Substring hits are
// scored like a partial-ratio: a full containment is a 100. Everything
// else falls back to Jaro-Winkler similarity.
func score(query, name string) int {
	if name == "" {
		return 0
	}
	if strings.Contains(name, query) {
		return 100
	}
	return int(smetrics.JaroWinkler(query, name, 0.7, 4) * 100)
}
