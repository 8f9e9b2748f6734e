package poker

import (
	"errors"
	"testing"
)

func TestVariantRegistry(t *testing.T) {
	for _, name := range Variants() {
		v, err := VariantByName(name)
		if err != nil {
			t.Fatal(err)
		}
		back, err := VariantByTag(v.Tag)
		if err != nil {
			t.Fatal(err)
		}
		if back != v {
			t.Fatalf("tag %d resolves to %q, not %q", v.Tag, back.Name, name)
		}
	}
	if _, err := VariantByName("omaha"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown variant: %v", err)
	}
	if _, err := VariantByTag(0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tag: %v", err)
	}
}

func TestShortDeckVariantDealsShortDeck(t *testing.T) {
	d := ShortDeckHoldem.NewDeckFor(seedOf(30))
	if d.Size() != 32 {
		t.Fatalf("short-deck variant deals %d cards", d.Size())
	}
	if Holdem.NewDeckFor(seedOf(30)).Size() != 52 {
		t.Fatal("holdem should deal the full deck")
	}
}

func TestSpectatorViewHidesHoleCards(t *testing.T) {
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000}, 0, Blinds{Small: 25, Big: 50}, 31)

	v := h.View(-1)
	for _, s := range v.Seats {
		if len(s.Hole) != 0 {
			t.Fatalf("spectator sees seat %d hole cards", s.Seat)
		}
		if s.HoleCount != 2 {
			t.Fatalf("seat %d hole count %d", s.Seat, s.HoleCount)
		}
	}

	mine := h.View(0)
	if len(mine.Seats[0].Hole) != 2 {
		t.Fatal("viewer cannot see own hole cards")
	}
	if len(mine.Seats[1].Hole) != 0 {
		t.Fatal("viewer sees the opponent's hole cards")
	}
}
