package album

import "testing"

func TestAddCardCreatesAndIncrements(t *testing.T) {
	s := NewStore(t.TempDir())

	a, err := s.AddCard("binder", "swsh1-25", 1, 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(a.Cards) != 1 || a.Cards[0].Set != "swsh1" {
		t.Fatalf("album = %+v", a)
	}

	a, err = s.AddCard("binder", "swsh1-25", 2, 1)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(a.Cards) != 1 {
		t.Fatalf("duplicate entry created: %+v", a.Cards)
	}
	if a.Cards[0].CountNormal != 3 || a.Cards[0].CountReverse != 1 {
		t.Fatalf("counters = %+v", a.Cards[0])
	}
	if a.TotalCards() != 4 {
		t.Fatalf("total = %d", a.TotalCards())
	}

	// persisted
	got, err := s.Load("binder")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Cards[0].CountNormal != 3 {
		t.Fatalf("persisted album = %+v", got)
	}
}

func TestLoadMissingAlbum(t *testing.T) {
	s := NewStore(t.TempDir())
	a, err := s.Load("nope")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a != nil {
		t.Fatalf("expected nil album, got %+v", a)
	}
}

func TestSetOf(t *testing.T) {
	if got := setOf("swsh12pt5gg-25"); got != "swsh12pt5gg" {
		t.Fatalf("setOf = %q", got)
	}
	if got := setOf("noseparator"); got != "Unknown" {
		t.Fatalf("setOf = %q", got)
	}
}
