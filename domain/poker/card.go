package poker

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Card suit constants (0-3)
const (
	Club    = 0 // ♣ (black)
	Diamond = 1 // ♦ (red)
	Heart   = 2 // ♥ (red)
	Spade   = 3 // ♠ (black)
)

// Card rank constants. Ranks run 2..14 so that comparing two ranks
// numerically matches poker ordering; the ace is always high except in the
// A-2-3-4-5 wheel straight.
const (
	Two   = 2
	Three = 3
	Four  = 4
	Five  = 5
	Six   = 6
	Seven = 7
	Eight = 8
	Nine  = 9
	Ten   = 10
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// FaceDown is the display character for hidden cards
const FaceDown = "▓"

// Card represents a playing card with suit and rank.
// The zero Card is a face-down placeholder.
type Card struct {
	rank uint8 // 2-14, ace high (0 = face down)
	suit uint8 // 0-3: clubs, diamonds, hearts, spades
}

// NewCard creates a new Card with validation.
// Rank must be 2..14 (Ace=14), suit 0..3.
func NewCard(rank uint8, suit uint8) (Card, error) {
	if suit > Spade || rank < 2 || rank > Ace {
		return Card{}, fmt.Errorf("%w: card rank %d suit %d", ErrInvalidArgument, rank, suit)
	}
	return Card{rank: rank, suit: suit}, nil
}

// MustCard is NewCard for fixed test and table data; it panics on invalid input.
func MustCard(rank uint8, suit uint8) Card {
	c, err := NewCard(rank, suit)
	if err != nil {
		panic(err)
	}
	return c
}

// Rank returns the rank value of the Card (2-14, Ace=14).
func (c Card) Rank() uint8 { return c.rank }

// Suit returns the suit value of the Card (0-3).
func (c Card) Suit() uint8 { return c.suit }

// IsZero reports whether the Card is a face-down placeholder.
func (c Card) IsZero() bool { return c.rank == 0 }

// Less orders two cards lexicographically by (rank, suit).
func (c Card) Less(o Card) bool {
	if c.rank != o.rank {
		return c.rank < o.rank
	}
	return c.suit < o.suit
}

// Index returns a stable 0..51 index of the card (suit-major), used by
// discard masks and the wire codec.
func (c Card) Index() uint8 {
	return c.suit*13 + (c.rank - 2)
}

// CardFromIndex is the inverse of Index.
func CardFromIndex(i uint8) (Card, error) {
	if i > 51 {
		return Card{}, fmt.Errorf("%w: card index %d", ErrInvalidArgument, i)
	}
	return Card{rank: i%13 + 2, suit: i / 13}, nil
}

// String returns a human-readable representation of the Card using suit
// symbols (♣, ♦, ♥, ♠) and rank abbreviations (A, J, Q, K, T, or number).
func (c Card) String() string {
	if c.rank == 0 {
		return FaceDown
	}
	var suit string
	switch c.suit {
	case Club:
		suit = pterm.Black("♣")
	case Diamond:
		suit = pterm.LightRed("♦")
	case Heart:
		suit = pterm.LightRed("♥")
	case Spade:
		suit = pterm.Black("♠")
	default:
		suit = "?"
	}
	return rankString(c.rank) + suit
}

func rankString(r uint8) string {
	switch r {
	case Ace:
		return "A"
	case King:
		return "K"
	case Queen:
		return "Q"
	case Jack:
		return "J"
	case 10:
		return "T"
	default:
		return fmt.Sprintf("%d", r)
	}
}

var rankNames = map[uint8]string{
	2: "deuce", 3: "three", 4: "four", 5: "five", 6: "six", 7: "seven",
	8: "eight", 9: "nine", 10: "ten", Jack: "jack", Queen: "queen",
	King: "king", Ace: "ace",
}

func rankName(r uint8) string { return rankNames[r] }

func rankNamePlural(r uint8) string {
	if r == 6 {
		return "sixes"
	}
	return rankNames[r] + "s"
}
