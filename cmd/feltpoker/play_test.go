package main

import (
	"testing"

	"github.com/feltworks/feltpoker/bot"
	"github.com/feltworks/feltpoker/domain/poker"
	"github.com/feltworks/feltpoker/domain/table"
)

func TestPlayHandBotsOnly(t *testing.T) {
	tbl, err := table.New(poker.Holdem, 3, poker.Blinds{Small: 5, Big: 10})
	if err != nil {
		t.Fatal(err)
	}
	controllers := make([]poker.Controller, 3)
	for seat := 0; seat < 3; seat++ {
		if _, err := tbl.Sit(seat, "bot", 1000); err != nil {
			t.Fatal(err)
		}
		controllers[seat] = botController{inner: &bot.Policy{Aggression: 0.1 * float64(seat)}}
	}

	base := sessionSeed("bots only")
	for n := uint64(1); n <= 3; n++ {
		h, _, err := tbl.StartHand(handSeed(base, n))
		if err != nil {
			t.Fatal(err)
		}
		if err := playHand(h, controllers, -1); err != nil {
			t.Fatal(err)
		}
		if _, err := tbl.FinishHand(); err != nil {
			t.Fatal(err)
		}
	}

	var total uint64
	for _, p := range tbl.Players() {
		if p != nil {
			total += p.Stack
		}
	}
	if total != 3000 {
		t.Fatalf("chips not conserved across hands: %d", total)
	}
	if tbl.HandsDealt() != 3 {
		t.Fatalf("hands dealt = %d, want 3", tbl.HandsDealt())
	}
}
