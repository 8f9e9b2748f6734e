package poker

import "fmt"

// Betting selects the betting structure of a variant.
type Betting uint8

const (
	NoLimit Betting = iota
	PotLimit
	FixedLimit
)

// StreetSpec describes one stage of a hand.
type StreetSpec struct {
	Name string
	// Community is how many board cards are revealed when the street opens.
	Community int
	// Draw marks a draw phase before this street's betting round.
	Draw bool
}

// Variant is the per-variant rules descriptor the generic hand state machine
// is parameterized over. Descriptors are data, not behavior; everything
// variant-specific the machine needs lives here.
type Variant struct {
	Tag       uint8 // wire tag, stable across versions
	Name      string
	HoleCards int
	Streets   []StreetSpec
	Betting   Betting
	// Lowball switches showdown to the 2-7 low evaluator.
	Lowball bool
	// ShortDeck deals from the 32-card deck (ranks 7..A). Hand ordering is
	// unchanged from standard high rules.
	ShortDeck bool
}

// NewDeckFor builds the right deck for the variant.
func (v *Variant) NewDeckFor(seed Seed) *Deck {
	if v.ShortDeck {
		return NewShortDeck(seed)
	}
	return NewDeck(seed)
}

// Evaluate ranks a contender's full card set under the variant's rules.
func (v *Variant) Evaluate(cards []Card) (HandRank, error) {
	if v.Lowball {
		return EvaluateLow27(cards)
	}
	return EvaluateHigh(cards)
}

var (
	// Holdem is no-limit Texas hold'em.
	Holdem = &Variant{
		Tag:       1,
		Name:      "holdem",
		HoleCards: 2,
		Streets: []StreetSpec{
			{Name: "preflop"},
			{Name: "flop", Community: 3},
			{Name: "turn", Community: 1},
			{Name: "river", Community: 1},
		},
		Betting: NoLimit,
	}

	// TripleDraw27 is fixed-limit deuce-to-seven triple draw.
	TripleDraw27 = &Variant{
		Tag:       2,
		Name:      "27lowball",
		HoleCards: 5,
		Streets: []StreetSpec{
			{Name: "predraw"},
			{Name: "draw-1", Draw: true},
			{Name: "draw-2", Draw: true},
			{Name: "draw-3", Draw: true},
		},
		Betting: FixedLimit,
		Lowball: true,
	}

	// FiveCardDraw is no-limit five-card draw, one draw.
	FiveCardDraw = &Variant{
		Tag:       3,
		Name:      "fivedraw",
		HoleCards: 5,
		Streets: []StreetSpec{
			{Name: "predraw"},
			{Name: "draw-1", Draw: true},
		},
		Betting: NoLimit,
	}

	// ShortDeckHoldem is hold'em from the 32-card deck.
	ShortDeckHoldem = &Variant{
		Tag:       4,
		Name:      "shortdeck",
		HoleCards: 2,
		Streets: []StreetSpec{
			{Name: "preflop"},
			{Name: "flop", Community: 3},
			{Name: "turn", Community: 1},
			{Name: "river", Community: 1},
		},
		Betting:   NoLimit,
		ShortDeck: true,
	}

	variants = []*Variant{Holdem, TripleDraw27, FiveCardDraw, ShortDeckHoldem}
)

// VariantByName looks a variant up by its CLI name.
func VariantByName(name string) (*Variant, error) {
	for _, v := range variants {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: variant %q", ErrNotFound, name)
}

// VariantByTag looks a variant up by its wire tag.
func VariantByTag(tag uint8) (*Variant, error) {
	for _, v := range variants {
		if v.Tag == tag {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: variant tag %d", ErrNotFound, tag)
}

// Variants lists the registered variant names.
func Variants() []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}
	return names
}
