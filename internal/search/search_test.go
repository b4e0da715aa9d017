package search

import (
	"fmt"
	"testing"

	"cardbinder/pkg/models"
)

func index() *Index {
	return NewIndex([]models.CardSummary{
		{ID: "swsh1-25", Name: "Pikachu"},
		{ID: "swsh1-26", Name: "Raichu"},
		{ID: "swsh1-1", Name: "Celebi V"},
		{ID: "swsh1-2", Name: "Pikachu VMAX"},
	})
}

func TestSearchRanksSubstringHitsFirst(t *testing.T) {
	got := index().Search("pikachu", 0)
	if len(got) != 4 {
		t.Fatalf("got %d matches", len(got))
	}
	if got[0].Score != 100 || got[1].Score != 100 {
		t.Fatalf("substring hits should score 100: %d %d", got[0].Score, got[1].Score)
	}
	// stable order for equal scores
	if got[0].ID != "swsh1-25" || got[1].ID != "swsh1-2" {
		t.Fatalf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[2].Score >= 100 {
		t.Fatalf("non-hit scored too high: %+v", got[2])
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	got := index().Search("PIKA", 1)
	if len(got) != 1 || got[0].Name != "Pikachu" {
		t.Fatalf("got %+v", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if got := index().Search("   ", 10); got != nil {
		t.Fatalf("empty query should return nil, got %d", len(got))
	}
}

func TestSearchLimit(t *testing.T) {
	var cards []models.CardSummary
	for i := 0; i < DefaultLimit+20; i++ {
		cards = append(cards, models.CardSummary{ID: fmt.Sprintf("c-%d", i), Name: "Pikachu"})
	}
	got := NewIndex(cards).Search("pikachu", 0)
	if len(got) != DefaultLimit {
		t.Fatalf("default limit not applied: %d", len(got))
	}
}
