// Package album manages user albums: named JSON files listing owned
// cards with normal/reverse copy counters.
package album

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Album struct {
	Name  string `json:"album_name"`
	Cards []Card `json:"cards"`
}

type Card struct {
	CardID       string `json:"card_id"`
	Set          string `json:"set"`
	CountNormal  int    `json:"count_normal"`
	CountReverse int    `json:"count_reverse"`
}

// TotalCards sums all copies across the album.
func (a *Album) TotalCards() int {
	total := 0
	for _, c := range a.Cards {
		total += c.CountNormal + c.CountReverse
	}
	return total
}

type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

// Load reads an album; a missing file yields (nil, nil).
func (s *Store) Load(name string) (*Album, error) {
	b, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read album: %w", err)
	}
	var a Album
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("parse album %s: %w", name, err)
	}
	return &a, nil
}

func (s *Store) Save(name string, a *Album) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("ensure album dir: %w", err)
	}
	f, err := os.Create(s.path(name))
	if err != nil {
		return fmt.Errorf("create album: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		f.Close()
		return fmt.Errorf("encode album %s: %w", name, err)
	}
	return f.Close()
}

// AddCard increments the copy counters for a card, creating the album
// or the card entry as needed. The card's set is derived from the id
// prefix ("{set}-{number}").
func (s *Store) AddCard(name, cardID string, normal, reverse int) (*Album, error) {
	a, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	if a == nil {
		a = &Album{Name: name}
	}

	for i := range a.Cards {
		if a.Cards[i].CardID == cardID {
			a.Cards[i].CountNormal += normal
			a.Cards[i].CountReverse += reverse
			return a, s.Save(name, a)
		}
	}

	a.Cards = append(a.Cards, Card{
		CardID:       cardID,
		Set:          setOf(cardID),
		CountNormal:  normal,
		CountReverse: reverse,
	})
	return a, s.Save(name, a)
}

func setOf(cardID string) string {
	for i, r := range cardID {
		if r == '-' {
			return cardID[:i]
		}
	}
	return "Unknown"
}
