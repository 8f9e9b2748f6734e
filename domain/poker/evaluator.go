package poker

import (
	"fmt"
	"sort"
	"strings"
)

// Category is the hand class of a 5-card poker hand, ordered weakest first.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "high card"
	case Pair:
		return "pair"
	case TwoPair:
		return "two pair"
	case Trips:
		return "three of a kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full house"
	case Quads:
		return "four of a kind"
	case StraightFlush:
		return "straight flush"
	}
	return "unknown"
}

// HandRank is an opaque totally-ordered rank of a 5-card hand. Compare two
// ranks with Compare; equal ranks mean the hands tie under poker rules.
// Ranks produced by EvaluateHigh and EvaluateLow27 must never be mixed.
type HandRank struct {
	Category Category
	// Tiebreak holds the rank tuple in descending significance, e.g. for a
	// full house kings over nines it is [13,13,13,9,9].
	Tiebreak [5]uint8
	// Best is the chosen 5-card subset, strongest arrangement first.
	Best [5]Card

	lowball bool
}

// value packs category and tiebreaks into one comparable integer.
// Higher is better for high hands.
func (h HandRank) value() uint32 {
	v := uint32(h.Category)
	for _, r := range h.Tiebreak {
		v = v<<4 | uint32(r)&0xf
	}
	return v
}

// Compare returns <0 if a loses to b, 0 on a tie, >0 if a beats b.
func Compare(a, b HandRank) int {
	va, vb := a.value(), b.value()
	if a.lowball || b.lowball {
		va, vb = vb, va // lower hands win
	}
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	}
	return 0
}

// EvaluateHigh ranks the best 5-card hand out of 5 to 7 cards under standard
// high rules. The ace-low wheel A-2-3-4-5 counts as a straight.
func EvaluateHigh(cards []Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("%w: evaluating %d cards", ErrInvalidArgument, len(cards))
	}
	var best HandRank
	have := false
	forEachFive(cards, func(five [5]Card) {
		hr := evalFive(five, true)
		if !have || Compare(hr, best) > 0 {
			best = hr
			have = true
		}
	})
	return best, nil
}

// EvaluateLow27 ranks exactly 5 cards under deuce-to-seven lowball rules:
// straights and flushes count against the hand, the ace is always high, and
// the lowest hand wins. A-2-3-4-5 is NOT a straight here (it is ace-high).
func EvaluateLow27(cards []Card) (HandRank, error) {
	if len(cards) != 5 {
		return HandRank{}, fmt.Errorf("%w: 2-7 low evaluates exactly 5 cards, got %d", ErrInvalidArgument, len(cards))
	}
	var five [5]Card
	copy(five[:], cards)
	hr := evalFive(five, false)
	hr.lowball = true
	return hr, nil
}

// forEachFive visits every 5-card subset of cards.
func forEachFive(cards []Card, visit func([5]Card)) {
	n := len(cards)
	if n == 5 {
		var five [5]Card
		copy(five[:], cards)
		visit(five)
		return
	}
	var idx [5]int
	var rec func(start, k int)
	var five [5]Card
	rec = func(start, k int) {
		if k == 5 {
			for i := 0; i < 5; i++ {
				five[i] = cards[idx[i]]
			}
			visit(five)
			return
		}
		for i := start; i <= n-(5-k); i++ {
			idx[k] = i
			rec(i+1, k+1)
		}
	}
	rec(0, 0)
}

// evalFive classifies exactly five cards. wheel selects whether A-2-3-4-5
// counts as a straight (high rules yes, 2-7 low rules no).
func evalFive(five [5]Card, wheel bool) HandRank {
	sorted := five
	sort.Slice(sorted[:], func(i, j int) bool { return sorted[j].Less(sorted[i]) })

	flush := true
	for i := 1; i < 5; i++ {
		if sorted[i].suit != sorted[0].suit {
			flush = false
			break
		}
	}

	straightHigh := uint8(0)
	run := true
	for i := 1; i < 5; i++ {
		if sorted[i].rank != sorted[i-1].rank-1 {
			run = false
			break
		}
	}
	if run {
		straightHigh = sorted[0].rank
	} else if wheel && sorted[0].rank == Ace &&
		sorted[1].rank == 5 && sorted[2].rank == 4 && sorted[3].rank == 3 && sorted[4].rank == 2 {
		// wheel: the five plays high
		straightHigh = 5
		sorted = [5]Card{sorted[1], sorted[2], sorted[3], sorted[4], sorted[0]}
	}

	// group ranks by multiplicity
	type group struct {
		rank  uint8
		count uint8
	}
	var groups []group
	for i := 0; i < 5; {
		j := i
		for j < 5 && sorted[j].rank == sorted[i].rank {
			j++
		}
		groups = append(groups, group{rank: sorted[i].rank, count: uint8(j - i)})
		i = j
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	hr := HandRank{Best: sorted}
	fill := func() {
		k := 0
		for _, g := range groups {
			for c := uint8(0); c < g.count; c++ {
				hr.Tiebreak[k] = g.rank
				k++
			}
		}
	}

	switch {
	case straightHigh != 0 && flush:
		hr.Category = StraightFlush
		hr.Tiebreak = [5]uint8{straightHigh, straightHigh, straightHigh, straightHigh, straightHigh}
	case groups[0].count == 4:
		hr.Category = Quads
		fill()
	case groups[0].count == 3 && groups[1].count == 2:
		hr.Category = FullHouse
		fill()
	case flush:
		hr.Category = Flush
		fill()
	case straightHigh != 0:
		hr.Category = Straight
		hr.Tiebreak = [5]uint8{straightHigh, straightHigh, straightHigh, straightHigh, straightHigh}
	case groups[0].count == 3:
		hr.Category = Trips
		fill()
	case groups[0].count == 2 && groups[1].count == 2:
		hr.Category = TwoPair
		fill()
	case groups[0].count == 2:
		hr.Category = Pair
		fill()
	default:
		hr.Category = HighCard
		fill()
	}

	// reorder Best so the significant cards come first (pairs before kickers)
	if hr.Category != Straight && hr.Category != StraightFlush {
		ordered := sorted
		k := 0
		for _, g := range groups {
			for _, c := range sorted {
				if c.rank == g.rank {
					ordered[k] = c
					k++
				}
			}
		}
		hr.Best = ordered
	}
	return hr
}

// Describe renders a rank the way a dealer would announce it.
func (h HandRank) Describe() string {
	t := h.Tiebreak
	switch h.Category {
	case StraightFlush:
		if t[0] == Ace {
			return "royal flush"
		}
		return fmt.Sprintf("straight flush, %s high", rankName(t[0]))
	case Quads:
		return fmt.Sprintf("four of a kind, %s", rankNamePlural(t[0]))
	case FullHouse:
		return fmt.Sprintf("full house, %s over %s", rankNamePlural(t[0]), rankNamePlural(t[3]))
	case Flush:
		return fmt.Sprintf("flush, %s high", rankName(t[0]))
	case Straight:
		return fmt.Sprintf("straight, %s high", rankName(t[0]))
	case Trips:
		return fmt.Sprintf("three of a kind, %s", rankNamePlural(t[0]))
	case TwoPair:
		return fmt.Sprintf("two pair, %s and %s", rankNamePlural(t[0]), rankNamePlural(t[2]))
	case Pair:
		return fmt.Sprintf("pair of %s", rankNamePlural(t[0]))
	default:
		if h.lowball {
			// tiebreak already holds the ranks highest first
			var parts []string
			for i := 0; i < 5; i++ {
				parts = append(parts, rankString(t[i]))
			}
			return strings.Join(parts, "-") + " low"
		}
		return fmt.Sprintf("%s high", rankName(t[0]))
	}
}
