package table

import "github.com/feltworks/feltpoker/domain/poker"

// Stats are per-player aggregates kept across hands. VPIP and PFR count
// hands, not actions: a hand with three preflop raises bumps PFRHands once.
type Stats struct {
	HandsPlayed uint32
	HandsWon    uint32
	// Winnings is the net chip result across all hands, negative when down.
	Winnings  int64
	VPIPHands uint32 // voluntarily put chips in preflop
	PFRHands  uint32 // raised preflop
	PeakChips uint64
	// Sessions counts the times the player has taken a seat.
	Sessions uint32
}

// record folds one finished hand into the aggregates. events is the hand's
// full log; before/after are the seat's stacks around the hand.
func (s *Stats) record(seat int, before, after uint64, events []poker.Event) {
	s.HandsPlayed++
	s.Winnings += int64(after) - int64(before)
	if after > s.PeakChips {
		s.PeakChips = after
	}

	var vpip, pfr, won bool
	preflop := true
	for _, e := range events {
		switch e.Kind {
		case poker.EvStreetAdvance:
			preflop = false
		case poker.EvAction:
			if !preflop || int(e.Seat) != seat {
				continue
			}
			switch e.Action {
			case poker.Call, poker.Bet, poker.AllIn:
				vpip = true
			case poker.Raise:
				vpip = true
				pfr = true
			}
		case poker.EvAward:
			for _, w := range e.Seats {
				if int(w) == seat {
					won = true
				}
			}
		}
	}
	if vpip {
		s.VPIPHands++
	}
	if pfr {
		s.PFRHands++
	}
	if won {
		s.HandsWon++
	}
}

// VPIP returns the voluntarily-put-in-pot frequency in [0,1].
func (s Stats) VPIP() float64 {
	if s.HandsPlayed == 0 {
		return 0
	}
	return float64(s.VPIPHands) / float64(s.HandsPlayed)
}

// PFR returns the preflop-raise frequency in [0,1].
func (s Stats) PFR() float64 {
	if s.HandsPlayed == 0 {
		return 0
	}
	return float64(s.PFRHands) / float64(s.HandsPlayed)
}
