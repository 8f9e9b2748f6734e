package poker

import "testing"

func TestCardIndexRoundTrip(t *testing.T) {
	for i := 0; i < 52; i++ {
		c, err := CardFromIndex(uint8(i))
		if err != nil {
			t.Fatal(err)
		}
		if int(c.Index()) != i {
			t.Fatalf("index %d round-tripped to %d (%s)", i, c.Index(), c)
		}
	}
}

func TestNewCardRejectsOutOfRange(t *testing.T) {
	if _, err := NewCard(1, Club); err == nil {
		t.Fatal("rank 1 accepted")
	}
	if _, err := NewCard(15, Club); err == nil {
		t.Fatal("rank 15 accepted")
	}
	if _, err := NewCard(Ace, 4); err == nil {
		t.Fatal("suit 4 accepted")
	}
}

func TestCardLessOrdersByRankThenSuit(t *testing.T) {
	low := MustCard(Ten, Spade)
	high := MustCard(Jack, Club)
	if !low.Less(high) {
		t.Fatalf("%s should sort before %s", low, high)
	}
	a := MustCard(Queen, Club)
	b := MustCard(Queen, Diamond)
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("suit tiebreak broken for %s vs %s", a, b)
	}
}

func TestZeroCardIsZero(t *testing.T) {
	var c Card
	if !c.IsZero() {
		t.Fatal("zero value not IsZero")
	}
	if MustCard(Two, Club).IsZero() {
		t.Fatal("real card reported IsZero")
	}
}
