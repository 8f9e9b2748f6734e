// Package bot provides a deterministic rule-based opponent. The policy is a
// pure function of the public view and the legal actions, so a hand played
// against bots replays exactly.
package bot

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/feltworks/feltpoker/domain/poker"
)

// Policy decides actions from pot odds against a coarse hand-strength
// estimate. It implements poker.Controller.
type Policy struct {
	// Aggression scales how strong a hand must be before the policy
	// raises. 0 is the default profile; positive values raise more.
	Aggression float64
}

// NextIntent picks an action for the viewer's seat.
func (p *Policy) NextIntent(view poker.View, legal []poker.LegalAction) (poker.Intent, error) {
	if len(legal) == 0 {
		return poker.Intent{}, fmt.Errorf("%w: no legal actions", poker.ErrIllegalAction)
	}
	byKind := map[poker.ActionKind]poker.LegalAction{}
	for _, a := range legal {
		byKind[a.Kind] = a
	}

	if _, draw := byKind[poker.StandPat]; draw {
		return p.drawIntent(view, byKind)
	}
	return p.bettingIntent(view, byKind)
}

func (p *Policy) bettingIntent(view poker.View, byKind map[poker.ActionKind]poker.LegalAction) (poker.Intent, error) {
	hole := view.Seats[view.Viewer].Hole
	strength := p.strength(view, hole)

	// price of continuing, in pot fractions
	var price float64
	if call, ok := byKind[poker.Call]; ok && view.PotTotal > 0 {
		price = float64(call.Min) / float64(view.PotTotal+call.Min)
	}

	switch {
	case strength+p.Aggression >= 0.70:
		// cap at four big blinds per street so two aggressive seats
		// trade at most a couple of raises instead of leveraging each
		// other all-in
		if raise, ok := byKind[poker.Raise]; ok && view.CurrentBet < 4*view.BigBlind {
			return poker.Intent{Kind: poker.Raise, Amount: raise.Min}, nil
		}
		if bet, ok := byKind[poker.Bet]; ok {
			return poker.Intent{Kind: poker.Bet, Amount: bet.Min}, nil
		}
		fallthrough
	case strength >= price:
		if call, ok := byKind[poker.Call]; ok {
			return poker.Intent{Kind: poker.Call, Amount: call.Min}, nil
		}
		if _, ok := byKind[poker.Check]; ok {
			return poker.Intent{Kind: poker.Check}, nil
		}
	}
	if _, ok := byKind[poker.Check]; ok {
		return poker.Intent{Kind: poker.Check}, nil
	}
	if _, ok := byKind[poker.Fold]; ok {
		return poker.Intent{Kind: poker.Fold}, nil
	}
	return poker.Intent{Kind: poker.Check}, nil
}

// drawIntent discards the cards a lowball or high hand does not want.
func (p *Policy) drawIntent(view poker.View, byKind map[poker.ActionKind]poker.LegalAction) (poker.Intent, error) {
	hole := view.Seats[view.Viewer].Hole
	var mask uint32
	if view.Variant == "27lowball" {
		mask = lowballDiscards(hole)
	} else {
		mask = highDiscards(hole)
	}
	if mask == 0 {
		return poker.Intent{Kind: poker.StandPat}, nil
	}
	if limit, ok := byKind[poker.Discard]; ok && uint64(mask) > limit.Max {
		mask = uint32(limit.Max)
	}
	return poker.Intent{Kind: poker.Discard, Amount: uint64(mask)}, nil
}

// strength estimates winning chances in [0,1] from the current cards. It is
// deliberately coarse; determinism matters more than accuracy here.
func (p *Policy) strength(view poker.View, hole []poker.Card) float64 {
	if len(hole) == 0 {
		return 0
	}
	cards := append(append([]poker.Card(nil), hole...), view.Community...)

	if view.Variant == "27lowball" {
		return lowballStrength(cards)
	}

	if len(cards) >= 5 {
		hr, err := poker.EvaluateHigh(cards)
		if err != nil {
			return 0
		}
		return madeHandStrength(hr)
	}
	return preflopStrength(hole)
}

// preflopStrength scores hole cards before any board exists.
func preflopStrength(hole []poker.Card) float64 {
	if len(hole) != 2 {
		// draw-variant starting hands: count high cards
		s := 0.0
		for _, c := range hole {
			if c.Rank() >= poker.Ten {
				s += 0.12
			}
		}
		return 0.3 + s
	}
	a, b := hole[0], hole[1]
	hi, lo := a.Rank(), b.Rank()
	if hi < lo {
		hi, lo = lo, hi
	}
	s := float64(hi) / 28.0
	if hi == lo {
		s += 0.35
	}
	if a.Suit() == b.Suit() {
		s += 0.05
	}
	if hi-lo == 1 {
		s += 0.04
	}
	return s
}

func madeHandStrength(hr poker.HandRank) float64 {
	base := map[poker.Category]float64{
		poker.HighCard:      0.15,
		poker.Pair:          0.40,
		poker.TwoPair:       0.62,
		poker.Trips:         0.72,
		poker.Straight:      0.82,
		poker.Flush:         0.87,
		poker.FullHouse:     0.93,
		poker.Quads:         0.98,
		poker.StraightFlush: 1.0,
	}
	return base[hr.Category] + float64(hr.Tiebreak[0])/200.0
}

// lowballStrength scores a deuce-to-seven hand: low unpaired cards good,
// pairs, straights and flushes bad.
func lowballStrength(cards []poker.Card) float64 {
	if len(cards) != 5 {
		return 0.3
	}
	hr, err := poker.EvaluateLow27(cards)
	if err != nil {
		return 0
	}
	if hr.Category != poker.HighCard {
		return 0.10
	}
	// 7-high perfect, ace-high hopeless
	top := float64(hr.Tiebreak[0])
	return 1.0 - (top-7.0)/10.0
}

// lowballDiscards keeps the lowest distinct non-ace ranks and throws the
// rest.
func lowballDiscards(hole []poker.Card) uint32 {
	type slot struct {
		idx  int
		rank uint8
	}
	slots := make([]slot, len(hole))
	for i, c := range hole {
		slots[i] = slot{idx: i, rank: c.Rank()}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].rank < slots[j].rank })

	var mask uint32
	seen := map[uint8]bool{}
	kept := 0
	for _, s := range slots {
		if s.rank < poker.Jack && !seen[s.rank] && kept < 5 {
			seen[s.rank] = true
			kept++
			continue
		}
		mask |= 1 << s.idx
	}
	if bits.OnesCount32(mask) >= len(hole) {
		// never discard everything; keep the lowest card
		mask &^= 1 << slots[0].idx
	}
	return mask
}

// highDiscards keeps pairs and better, throws unpaired low kickers.
func highDiscards(hole []poker.Card) uint32 {
	counts := map[uint8]int{}
	for _, c := range hole {
		counts[c.Rank()]++
	}
	var mask uint32
	for i, c := range hole {
		if counts[c.Rank()] >= 2 {
			continue
		}
		if c.Rank() >= poker.Queen {
			continue
		}
		mask |= 1 << i
	}
	return mask
}
