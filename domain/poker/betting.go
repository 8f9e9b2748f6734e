package poker

import "fmt"

// betSize returns the fixed bet unit for the current street. Fixed-limit
// games double the unit on later streets; no-limit and pot-limit games use
// the big blind as the minimum.
func (h *Hand) betSize() uint64 {
	if h.variant.Betting == FixedLimit && h.street >= (len(h.variant.Streets)+1)/2 {
		return 2 * h.blinds.Big
	}
	return h.blinds.Big
}

// openBetting starts a betting round with the given first actor.
func (h *Hand) openBetting(first int) {
	h.ph = phaseBetting
	for i := range h.seats {
		h.acted[i] = false
		h.canRaise[i] = h.seats[i].Status == StatusActive
	}
	h.actionOn = first
	h.settleIfDone()
}

// LegalActions returns the legal action kinds, with amount ranges, for seat
// at the current moment. A seat that is not the actor gets an empty set.
func (h *Hand) LegalActions(seat int) ([]LegalAction, error) {
	if seat < 0 || seat >= len(h.seats) {
		return nil, fmt.Errorf("%w: seat %d", ErrInvalidArgument, seat)
	}
	switch h.ph {
	case phaseBetting:
		if seat != h.actionOn {
			return nil, nil
		}
		return h.legalBetting(seat), nil
	case phaseDraw:
		if seat != h.actionOn {
			return nil, nil
		}
		return []LegalAction{{Kind: StandPat}, {Kind: Discard, Min: 1, Max: 1<<len(h.seats[seat].Hole) - 1}}, nil
	default:
		return nil, fmt.Errorf("%w: no action expected", ErrWrongPhase)
	}
}

func (h *Hand) legalBetting(seat int) []LegalAction {
	s := &h.seats[seat]
	toCall := h.currentBet - s.StreetBet
	var out []LegalAction

	if toCall == 0 {
		out = append(out, LegalAction{Kind: Check})
		if h.currentBet == 0 {
			if lo, hi, ok := h.betRange(s); ok {
				out = append(out, LegalAction{Kind: Bet, Min: lo, Max: hi})
			}
		}
	} else {
		out = append(out, LegalAction{Kind: Fold})
		call := toCall
		if call > s.Stack {
			call = s.Stack
		}
		out = append(out, LegalAction{Kind: Call, Min: call, Max: call})
	}
	// the big blind may raise its own option even with nothing to call
	if h.currentBet > 0 && h.canRaise[seat] {
		if lo, hi, ok := h.raiseRange(s); ok {
			out = append(out, LegalAction{Kind: Raise, Min: lo, Max: hi})
		}
	}
	if s.Stack > 0 {
		out = append(out, LegalAction{Kind: AllIn, Min: s.Stack, Max: s.Stack})
	}
	return out
}

// betRange bounds the resulting street bet of an opening bet.
func (h *Hand) betRange(s *SeatState) (lo, hi uint64, ok bool) {
	unit := h.betSize()
	switch h.variant.Betting {
	case FixedLimit:
		lo, hi = unit, unit
	case PotLimit:
		lo, hi = unit, h.PotTotal()
		if hi < lo {
			hi = lo
		}
	default:
		lo, hi = unit, s.Stack+s.StreetBet
	}
	if hi > s.Stack+s.StreetBet {
		hi = s.Stack + s.StreetBet
	}
	if lo > s.Stack+s.StreetBet {
		return 0, 0, false // only an all-in can open
	}
	return lo, hi, true
}

// raiseRange bounds the resulting street bet of a raise.
func (h *Hand) raiseRange(s *SeatState) (lo, hi uint64, ok bool) {
	lo = h.currentBet + h.minRaise
	max := s.Stack + s.StreetBet
	switch h.variant.Betting {
	case FixedLimit:
		hi = h.currentBet + h.betSize()
		lo = hi
	case PotLimit:
		// pot-limit: call plus the pot after the call
		toCall := h.currentBet - s.StreetBet
		hi = h.currentBet + h.PotTotal() + toCall
	default:
		hi = max
	}
	if hi > max {
		hi = max
	}
	if lo > hi {
		return 0, 0, false // short raises go through AllIn
	}
	return lo, hi, true
}

// Apply attempts to advance the machine with an action from seat. On any
// error the hand state, including the log, is unchanged.
func (h *Hand) Apply(seat int, kind ActionKind, amount uint64) error {
	if seat < 0 || seat >= len(h.seats) {
		return fmt.Errorf("%w: seat %d", ErrInvalidArgument, seat)
	}
	switch h.ph {
	case phaseBetting:
		return h.applyBetting(seat, kind, amount)
	case phaseDraw:
		return h.applyDraw(seat, kind, amount)
	default:
		return fmt.Errorf("%w: no action expected", ErrWrongPhase)
	}
}

// ApplyTimeout resolves an expired intent: fold facing a bet, check or stand
// pat otherwise.
func (h *Hand) ApplyTimeout(seat int) error {
	if seat < 0 || seat >= len(h.seats) {
		return fmt.Errorf("%w: seat %d", ErrInvalidArgument, seat)
	}
	switch h.ph {
	case phaseDraw:
		return h.applyDraw(seat, StandPat, 0)
	case phaseBetting:
		if h.currentBet > h.seats[seat].StreetBet {
			return h.applyBetting(seat, Fold, 0)
		}
		return h.applyBetting(seat, Check, 0)
	default:
		return fmt.Errorf("%w: no action expected", ErrWrongPhase)
	}
}

func (h *Hand) applyBetting(seat int, kind ActionKind, amount uint64) error {
	if seat != h.actionOn {
		return fmt.Errorf("%w: seat %d acted, action is on %d", ErrNotActor, seat, h.actionOn)
	}
	s := &h.seats[seat]
	toCall := h.currentBet - s.StreetBet

	// Validate everything before mutating anything.
	switch kind {
	case Fold:
		// always legal for the actor, even with nothing to call
	case Check:
		if toCall != 0 {
			return fmt.Errorf("%w: cannot check facing %d", ErrIllegalAction, toCall)
		}
	case Call:
		if toCall == 0 {
			return fmt.Errorf("%w: nothing to call", ErrIllegalAction)
		}
	case Bet:
		if h.currentBet != 0 {
			return fmt.Errorf("%w: bet with a live bet of %d, raise instead", ErrIllegalAction, h.currentBet)
		}
		lo, hi, ok := h.betRange(s)
		if !ok {
			return fmt.Errorf("%w: stack too short to open", ErrIllegalAction)
		}
		if amount > s.Stack+s.StreetBet {
			return fmt.Errorf("%w: bet %d with stack %d", ErrInsufficientFunds, amount, s.Stack)
		}
		if amount < lo || amount > hi {
			return fmt.Errorf("%w: bet %d outside [%d,%d]", ErrIllegalAction, amount, lo, hi)
		}
	case Raise:
		if h.currentBet == 0 {
			return fmt.Errorf("%w: nothing to raise", ErrIllegalAction)
		}
		if !h.canRaise[seat] {
			return fmt.Errorf("%w: betting is not reopened to seat %d", ErrIllegalAction, seat)
		}
		lo, hi, ok := h.raiseRange(s)
		if !ok {
			return fmt.Errorf("%w: stack too short for a full raise", ErrIllegalAction)
		}
		if amount > s.Stack+s.StreetBet {
			return fmt.Errorf("%w: raise to %d with stack %d", ErrInsufficientFunds, amount, s.Stack)
		}
		if amount < lo || amount > hi {
			return fmt.Errorf("%w: raise to %d outside [%d,%d]", ErrIllegalAction, amount, lo, hi)
		}
	case AllIn:
		if s.Stack == 0 {
			return fmt.Errorf("%w: no chips behind", ErrIllegalAction)
		}
	default:
		return fmt.Errorf("%w: %s during betting", ErrIllegalAction, kind)
	}

	// Commit.
	switch kind {
	case Fold:
		s.Status = StatusFolded
		h.emit(Event{Kind: EvAction, Seat: int8(seat), Action: Fold})
	case Check:
		h.emit(Event{Kind: EvAction, Seat: int8(seat), Action: Check})
	case Call:
		paid := h.commit(seat, toCall)
		h.emit(Event{Kind: EvAction, Seat: int8(seat), Action: Call, Amount: paid})
	case Bet:
		h.commit(seat, amount-s.StreetBet)
		h.openAction(seat, amount, amount)
		h.emit(Event{Kind: EvAction, Seat: int8(seat), Action: Bet, Amount: amount})
	case Raise:
		inc := amount - h.currentBet
		h.commit(seat, amount-s.StreetBet)
		h.openAction(seat, amount, inc)
		h.emit(Event{Kind: EvAction, Seat: int8(seat), Action: Raise, Amount: amount})
	case AllIn:
		paid := s.Stack
		to := s.StreetBet + paid
		prevBet := h.currentBet
		h.commit(seat, paid)
		switch {
		case prevBet == 0:
			// opening shove
			if to >= h.betSize() {
				h.openAction(seat, to, to)
			} else {
				h.currentBet = to
				h.lastAggressor = seat
				h.finalAggressor = seat
			}
		case to > prevBet:
			if to-prevBet >= h.minRaise {
				h.openAction(seat, to, to-prevBet)
			} else {
				// a short all-in raise does not reopen betting to seats
				// that already matched the previous bet
				h.currentBet = to
				h.lastAggressor = seat
				h.finalAggressor = seat
			}
		}
		h.emit(Event{Kind: EvAction, Seat: int8(seat), Action: AllIn, Amount: paid})
	}

	h.acted[seat] = true
	h.canRaise[seat] = false
	h.advanceAction()
	return nil
}

// openAction records a full bet or raise: the bet level moves to `to`, the
// minimum raise becomes inc, and betting reopens to every other active seat.
func (h *Hand) openAction(seat int, to, inc uint64) {
	h.currentBet = to
	h.minRaise = inc
	h.lastAggressor = seat
	h.finalAggressor = seat
	for i := range h.seats {
		if i != seat && h.seats[i].Status == StatusActive {
			h.acted[i] = false
			h.canRaise[i] = true
		}
	}
}

// advanceAction moves the turn forward, ends the round, or ends the hand.
func (h *Hand) advanceAction() {
	if h.countContenders() == 1 {
		h.awardUncontested()
		return
	}
	if !h.settleIfDone() {
		h.actionOn = h.nextCounted(h.actionOn, func(s *SeatState) bool {
			return s.Status == StatusActive && (!h.acted[s.Seat] || s.StreetBet != h.currentBet)
		})
		if h.actionOn == -1 {
			// nobody left with a decision; force the round closed
			h.advanceStreet()
		}
	}
}

// settleIfDone closes the betting round when no active seat still owes an
// action or chips. Returns true if the round ended.
func (h *Hand) settleIfDone() bool {
	if !h.bettingDone() {
		return false
	}
	h.advanceStreet()
	return true
}

// bettingDone reports whether the current betting round is complete: every
// active seat has acted since the last full raise and matched the bet. With
// at most one seat able to act and nothing left to call, betting is moot.
func (h *Hand) bettingDone() bool {
	var open []int
	for i := range h.seats {
		if h.seats[i].Status == StatusActive {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return true
	}
	if len(open) == 1 {
		return h.seats[open[0]].StreetBet == h.currentBet
	}
	for _, i := range open {
		if !h.acted[i] || h.seats[i].StreetBet != h.currentBet {
			return false
		}
	}
	return true
}

// advanceStreet closes the street: resets per-street betting state and moves
// to the next street, a draw phase, or showdown.
func (h *Hand) advanceStreet() {
	for i := range h.seats {
		h.seats[i].StreetBet = 0
	}
	h.currentBet = 0
	h.lastAggressor = -1

	if h.street+1 >= len(h.variant.Streets) {
		h.showdown()
		return
	}
	h.street++
	h.minRaise = h.betSize()
	h.emit(Event{Kind: EvStreetAdvance, Street: uint8(h.street)})

	spec := h.variant.Streets[h.street]
	if spec.Community > 0 {
		cards, err := h.deck.DrawN(spec.Community)
		if err != nil {
			h.fail("deck exhausted dealing community cards")
			return
		}
		h.community = append(h.community, cards...)
		h.emit(Event{Kind: EvDealCommunity, Street: uint8(h.street), Cards: cards})
	}
	if err := h.checkDeckIntegrity(); err != nil {
		h.fail("deck integrity: " + err.Error())
		return
	}

	if spec.Draw {
		h.openDraw()
		return
	}
	h.openBetting(h.firstToAct())
}

// firstToAct is the first active seat clockwise from the button on
// post-opening streets.
func (h *Hand) firstToAct() int {
	return h.nextCounted(h.button, func(s *SeatState) bool { return s.Status == StatusActive })
}
