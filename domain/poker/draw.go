package poker

import (
	"fmt"
	"math/bits"
)

// openDraw starts a draw phase. Every non-folded seat declares in turn,
// all-in seats included: being out of chips does not cost a player the draw.
func (h *Hand) openDraw() {
	h.ph = phaseDraw
	for i := range h.seats {
		h.acted[i] = false
	}
	h.actionOn = h.nextCounted(h.button, h.inDraw)
	if h.actionOn == -1 {
		h.openBetting(h.firstToAct())
	}
}

func (h *Hand) inDraw(s *SeatState) bool {
	return (s.Status == StatusActive || s.Status == StatusAllIn) && !h.acted[s.Seat]
}

func (h *Hand) applyDraw(seat int, kind ActionKind, amount uint64) error {
	if seat != h.actionOn {
		return fmt.Errorf("%w: seat %d declared, draw is on %d", ErrNotActor, seat, h.actionOn)
	}
	s := &h.seats[seat]

	switch kind {
	case StandPat:
		h.emit(Event{Kind: EvAction, Seat: int8(seat), Action: StandPat})
	case Discard:
		mask := uint32(amount)
		if mask == 0 || mask >= 1<<len(s.Hole) {
			return fmt.Errorf("%w: discard mask %b for %d cards", ErrIllegalAction, mask, len(s.Hole))
		}
		if err := h.discardAndDraw(s, mask); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s during a draw phase", ErrIllegalAction, kind)
	}

	h.acted[seat] = true
	h.actionOn = h.nextCounted(h.actionOn, h.inDraw)
	if h.actionOn == -1 {
		h.openBetting(h.firstToAct())
	}
	return nil
}

// discardAndDraw replaces the masked hole cards with fresh ones. Discards
// never return to the deck directly; only when the deck runs dry are the
// collected discards reshuffled back in. Live cards can never be among them,
// so the replay-critical disjointness of deck and hands is preserved.
func (h *Hand) discardAndDraw(s *SeatState, mask uint32) error {
	need := bits.OnesCount32(mask)
	if h.deck.Remaining() < need {
		h.deck.Replenish(h.discards)
		h.discards = nil
		if h.deck.Remaining() < need {
			return fmt.Errorf("%w: deck and discards exhausted", ErrIllegalAction)
		}
	}

	h.emit(Event{Kind: EvAction, Seat: int8(s.Seat), Action: Discard, Mask: mask})

	drawn := make([]Card, 0, need)
	for i := range s.Hole {
		if mask&(1<<i) == 0 {
			continue
		}
		h.discards = append(h.discards, s.Hole[i])
		card, err := h.deck.Draw()
		if err != nil {
			h.fail("deck exhausted mid-draw")
			return nil
		}
		s.Hole[i] = card
		drawn = append(drawn, card)
	}
	h.emit(Event{Kind: EvAction, Seat: int8(s.Seat), Action: Draw, Cards: drawn})
	return nil
}
