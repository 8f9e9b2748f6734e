package poker

import (
	"fmt"
	"sort"
)

// PotShare is one layer of the pot: an amount and the set of seats that can
// still win it. Folded seats contribute chips but are never eligible.
type PotShare struct {
	Amount   uint64
	Eligible []int // ascending seat order
}

// Refund is the uncalled-bet overage returned to a seat before pots are built.
type Refund struct {
	Seat   int
	Amount uint64
}

// BuildPots partitions the per-hand contributions into main and side pots.
// contribs[i] is the cumulative amount seat i committed this hand; folded[i]
// marks seats whose chips stay in but who cannot win. If one seat committed
// strictly more than every other seat, the overage is peeled off as a Refund
// first so that no pot has an empty set of callers.
func BuildPots(contribs []uint64, folded []bool) ([]PotShare, Refund) {
	remaining := make([]uint64, len(contribs))
	copy(remaining, contribs)

	refund := uncalledOverage(remaining)

	var pots []PotShare
	for {
		// smallest non-zero remaining contribution
		min := uint64(0)
		for _, c := range remaining {
			if c > 0 && (min == 0 || c < min) {
				min = c
			}
		}
		if min == 0 {
			break
		}

		share := PotShare{}
		for seat, c := range remaining {
			if c < min {
				continue
			}
			share.Amount += min
			remaining[seat] -= min
			if !folded[seat] {
				share.Eligible = append(share.Eligible, seat)
			}
		}
		pots = append(pots, share)
	}
	return pots, refund
}

// uncalledOverage trims the single highest contribution down to the second
// highest, mutating remaining, and returns what was trimmed.
func uncalledOverage(remaining []uint64) Refund {
	top, second, topSeat := uint64(0), uint64(0), -1
	for seat, c := range remaining {
		if c > top {
			top, second, topSeat = c, top, seat
		} else if c > second {
			second = c
		}
	}
	if topSeat < 0 || top == second {
		return Refund{Seat: -1}
	}
	remaining[topSeat] = second
	return Refund{Seat: topSeat, Amount: top - second}
}

// PotResult is the outcome of distributing one pot share.
type PotResult struct {
	PotIndex int
	Winners  []int          // clockwise from the button
	Payouts  map[int]uint64 // seat -> chips won from this pot
	Rank     HandRank       // the winning rank
}

// Distribute awards each pot to the best-ranked eligible contender. Ties
// split the pot by integer division; the remainder chips go to the winner
// closest clockwise from the dealer button. This tie-break is part of the
// on-disk replay contract and must never change.
func Distribute(pots []PotShare, ranks map[int]HandRank, button, seatCount int) ([]PotResult, error) {
	var results []PotResult
	for i, pot := range pots {
		var winners []int
		var best HandRank
		for _, seat := range pot.Eligible {
			hr, ok := ranks[seat]
			if !ok {
				continue
			}
			if len(winners) == 0 {
				winners, best = []int{seat}, hr
				continue
			}
			switch Compare(hr, best) {
			case 1:
				winners, best = []int{seat}, hr
			case 0:
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			return nil, fmt.Errorf("%w: pot %d has no ranked contender", ErrInvalidArgument, i)
		}

		sort.Slice(winners, func(a, b int) bool {
			return clockwiseFrom(button, winners[a], seatCount) < clockwiseFrom(button, winners[b], seatCount)
		})

		n := uint64(len(winners))
		share := pot.Amount / n
		rem := pot.Amount % n
		payouts := make(map[int]uint64, len(winners))
		for _, w := range winners {
			payouts[w] = share
		}
		payouts[winners[0]] += rem

		results = append(results, PotResult{PotIndex: i, Winners: winners, Payouts: payouts, Rank: best})
	}
	return results, nil
}

// clockwiseFrom returns how many seats past the button a seat sits, so the
// seat immediately after the button sorts first.
func clockwiseFrom(button, seat, seatCount int) int {
	return ((seat-button-1)%seatCount + seatCount) % seatCount
}
