package poker

import "fmt"

// showdown ranks the remaining contenders, builds the pots, pays them out
// and ends the hand.
func (h *Hand) showdown() {
	contender := func(s *SeatState) bool {
		return s.Status == StatusActive || s.Status == StatusAllIn
	}

	// Reveal order: from the final aggressor if there was one, otherwise
	// from the seat after the button.
	from := h.finalAggressor
	if from == -1 {
		from = h.button
	} else {
		from-- // include the aggressor itself first
		if from < 0 {
			from = len(h.seats) - 1
		}
	}
	order := h.clockwise(from, contender)
	reveal := make([]int8, len(order))
	for i, seat := range order {
		reveal[i] = int8(seat)
	}
	h.emit(Event{Kind: EvShowdown, Seats: reveal})

	ranks := make(map[int]HandRank, len(order))
	for _, seat := range order {
		cards := append(append([]Card(nil), h.seats[seat].Hole...), h.community...)
		hr, err := h.variant.Evaluate(cards)
		if err != nil {
			h.fail("evaluating seat " + fmt.Sprint(seat) + ": " + err.Error())
			return
		}
		ranks[seat] = hr
	}

	pots, refund := h.buildPots()
	if refund.Amount > 0 {
		h.seats[refund.Seat].Stack += refund.Amount
		h.seats[refund.Seat].Committed -= refund.Amount
	}

	results, err := Distribute(pots, ranks, h.button, len(h.seats))
	if err != nil {
		h.fail(err.Error())
		return
	}
	for _, res := range results {
		seats := make([]int8, 0, len(res.Winners))
		amounts := make([]uint64, 0, len(res.Winners))
		for _, w := range res.Winners {
			h.seats[w].Stack += res.Payouts[w]
			seats = append(seats, int8(w))
			amounts = append(amounts, res.Payouts[w])
		}
		h.emit(Event{
			Kind:     EvAward,
			PotIndex: uint8(res.PotIndex),
			Seats:    seats,
			Amounts:  amounts,
			Desc:     res.Rank.Describe(),
		})
	}
	h.finish()
}

// awardUncontested ends the hand when a single contender remains: the
// uncalled overage comes back and the whole pot goes to that seat, with no
// showdown and no further streets.
func (h *Hand) awardUncontested() {
	winner := -1
	for i := range h.seats {
		if h.seats[i].Status == StatusActive || h.seats[i].Status == StatusAllIn {
			winner = i
			break
		}
	}
	if winner == -1 {
		h.fail("no contender left to award")
		return
	}

	pots, refund := h.buildPots()
	desc := "pot"
	if refund.Amount > 0 {
		h.seats[refund.Seat].Stack += refund.Amount
		h.seats[refund.Seat].Committed -= refund.Amount
		desc = "uncalled+pot"
	}
	var total uint64
	for _, p := range pots {
		total += p.Amount
	}
	h.seats[winner].Stack += total
	h.emit(Event{
		Kind:    EvAward,
		Seats:   []int8{int8(winner)},
		Amounts: []uint64{total},
		Desc:    desc,
	})
	h.finish()
}

func (h *Hand) buildPots() ([]PotShare, Refund) {
	contribs := make([]uint64, len(h.seats))
	folded := make([]bool, len(h.seats))
	for i, s := range h.seats {
		contribs[i] = s.Committed
		folded[i] = s.Status != StatusActive && s.Status != StatusAllIn
	}
	return BuildPots(contribs, folded)
}

// finish verifies chip conservation and produces HandEnd.
func (h *Hand) finish() {
	var total uint64
	for _, s := range h.seats {
		total += s.Stack
	}
	if total != h.chipsTotal {
		h.fail(fmt.Sprintf("chip conservation: have %d, want %d", total, h.chipsTotal))
		return
	}
	if err := h.checkDeckIntegrity(); err != nil {
		h.fail("deck integrity: " + err.Error())
		return
	}
	h.ph = phaseComplete
	h.emit(Event{Kind: EvHandEnd, Reason: EndNormal})
}
