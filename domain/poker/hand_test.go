package poker

import (
	"bytes"
	"errors"
	"testing"
)

// logSink collects emitted events for assertions.
type logSink struct {
	events []Event
}

func (l *logSink) Append(e Event) { l.events = append(l.events, e) }

func (l *logSink) kinds() []EventKind {
	out := make([]EventKind, len(l.events))
	for i, e := range l.events {
		out[i] = e.Kind
	}
	return out
}

func activeSeats(stacks ...uint64) []SeatState {
	out := make([]SeatState, len(stacks))
	for i, st := range stacks {
		out[i] = SeatState{Seat: i, Name: string(rune('A' + i)), Stack: st, Status: StatusActive}
	}
	return out
}

func newTestHand(t *testing.T, v *Variant, stacks []uint64, button int, blinds Blinds, seed byte) (*Hand, *logSink) {
	t.Helper()
	sink := &logSink{}
	h, err := NewHand(v, activeSeats(stacks...), button, blinds, seedOf(seed), sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Begin(); err != nil {
		t.Fatal(err)
	}
	return h, sink
}

func mustApply(t *testing.T, h *Hand, seat int, kind ActionKind, amount uint64) {
	t.Helper()
	if err := h.Apply(seat, kind, amount); err != nil {
		t.Fatalf("seat %d %s %d: %v", seat, kind, amount, err)
	}
}

func stacksOf(h *Hand) []uint64 {
	var out []uint64
	for _, s := range h.Seats() {
		out = append(out, s.Stack)
	}
	return out
}

func TestNewHandRejectsBadConfigs(t *testing.T) {
	if _, err := NewHand(Holdem, activeSeats(1000), 0, Blinds{25, 50, 0}, seedOf(1), &logSink{}); err == nil {
		t.Fatal("single seat accepted")
	}
	if _, err := NewHand(Holdem, activeSeats(1000, 1000), 5, Blinds{25, 50, 0}, seedOf(1), &logSink{}); err == nil {
		t.Fatal("out-of-range button accepted")
	}
	if _, err := NewHand(Holdem, activeSeats(1000, 1000), 0, Blinds{}, seedOf(1), &logSink{}); err == nil {
		t.Fatal("zero big blind accepted")
	}
	seats := activeSeats(1000, 1000)
	seats[1].Stack = 0
	if _, err := NewHand(Holdem, seats, 0, Blinds{25, 50, 0}, seedOf(1), &logSink{}); err == nil {
		t.Fatal("broke active seat accepted")
	}
}

// TestHeadsUpRaiseFoldHand drives a full heads-up no-limit hand: button
// raises to 100, big blind three-bets to 300, button calls, big blind
// leads 500 on the flop and the button folds. The uncalled 500 comes back
// and the pot goes to the big blind without a showdown.
func TestHeadsUpRaiseFoldHand(t *testing.T) {
	h, sink := newTestHand(t, Holdem, []uint64{1000, 1000}, 0, Blinds{Small: 25, Big: 50}, 1)

	if h.ActionOn() != 0 {
		t.Fatalf("heads-up preflop action on %d, want the button", h.ActionOn())
	}
	mustApply(t, h, 0, Raise, 100)
	mustApply(t, h, 1, Raise, 300)
	mustApply(t, h, 0, Call, 0)

	if h.Street() != 1 || h.StreetName() != "flop" {
		t.Fatalf("street %d %q after preflop", h.Street(), h.StreetName())
	}
	if h.ActionOn() != 1 {
		t.Fatalf("postflop action on %d, want the big blind", h.ActionOn())
	}
	mustApply(t, h, 1, Bet, 500)
	mustApply(t, h, 0, Fold, 0)

	if !h.Finished() || h.Failed() {
		t.Fatal("hand should have ended cleanly")
	}

	want := []EventKind{
		EvHandStart,
		EvPostBlind, EvPostBlind,
		EvDealHole, EvDealHole,
		EvAction, EvAction, EvAction,
		EvStreetAdvance, EvDealCommunity,
		EvAction, EvAction,
		EvAward, EvHandEnd,
	}
	got := sink.kinds()
	if len(got) != len(want) {
		t.Fatalf("event kinds %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d is %v, want %v", i, got[i], want[i])
		}
	}

	// the blinds and the action amounts
	if e := sink.events[1]; e.Seat != 0 || e.Amount != 25 {
		t.Fatalf("small blind event %s", e)
	}
	if e := sink.events[2]; e.Seat != 1 || e.Amount != 50 {
		t.Fatalf("big blind event %s", e)
	}
	if e := sink.events[5]; e.Action != Raise || e.Amount != 100 {
		t.Fatalf("open raise event %s", e)
	}
	if e := sink.events[6]; e.Action != Raise || e.Amount != 300 {
		t.Fatalf("three-bet event %s", e)
	}
	if e := sink.events[7]; e.Action != Call || e.Amount != 200 {
		t.Fatalf("call event %s", e)
	}
	if e := sink.events[10]; e.Action != Bet || e.Amount != 500 {
		t.Fatalf("flop bet event %s", e)
	}
	if e := sink.events[12]; e.Desc != "uncalled+pot" || len(e.Seats) != 1 || e.Seats[0] != 1 || e.Amounts[0] != 600 {
		t.Fatalf("award event %s", e)
	}
	if e := sink.events[13]; e.Reason != EndNormal {
		t.Fatalf("hand end event %s", e)
	}

	if st := stacksOf(h); st[0] != 700 || st[1] != 1300 {
		t.Fatalf("final stacks %v, want [700 1300]", st)
	}
}

func TestEventSequenceIsContiguous(t *testing.T) {
	h, sink := newTestHand(t, Holdem, []uint64{500, 500, 500}, 0, Blinds{Small: 10, Big: 20}, 2)
	mustApply(t, h, 0, Fold, 0)
	mustApply(t, h, 1, Fold, 0)
	for i, e := range sink.events {
		if e.Seq != uint32(i) {
			t.Fatalf("event %d has seq %d", i, e.Seq)
		}
	}
	if !h.Finished() {
		t.Fatal("hand should short-circuit when one contender remains")
	}
}

func TestRejectedActionsLeaveStateUntouched(t *testing.T) {
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000, 1000}, 0, Blinds{Small: 10, Big: 20}, 3)
	before := h.Snapshot()

	cases := []struct {
		seat   int
		kind   ActionKind
		amount uint64
		want   error
	}{
		{1, Call, 0, ErrNotActor},        // action is on seat 0
		{0, Check, 0, ErrIllegalAction},  // facing the big blind
		{0, Bet, 100, ErrIllegalAction},  // live bet: must raise
		{0, Raise, 30, ErrIllegalAction}, // below min-raise
		{0, Raise, 5000, ErrInsufficientFunds},
		{0, Discard, 1, ErrIllegalAction}, // not a draw phase
		{9, Call, 0, ErrInvalidArgument},
	}
	for _, c := range cases {
		err := h.Apply(c.seat, c.kind, c.amount)
		if !errors.Is(err, c.want) {
			t.Fatalf("seat %d %s %d: got %v, want %v", c.seat, c.kind, c.amount, err, c.want)
		}
		if !bytes.Equal(h.Snapshot(), before) {
			t.Fatalf("state changed after rejected %s", c.kind)
		}
	}
}

func TestCheckAndCallAreMutuallyExclusive(t *testing.T) {
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000, 1000}, 0, Blinds{Small: 10, Big: 20}, 4)
	for !h.Finished() {
		seat := h.ActionOn()
		if seat == -1 {
			t.Fatal("no actor on an unfinished hand")
		}
		legal, err := h.LegalActions(seat)
		if err != nil {
			t.Fatal(err)
		}
		var hasCheck, hasCall bool
		for _, a := range legal {
			hasCheck = hasCheck || a.Kind == Check
			hasCall = hasCall || a.Kind == Call
		}
		if hasCheck && hasCall {
			t.Fatal("check and call offered together")
		}
		if hasCall {
			mustApply(t, h, seat, Call, 0)
		} else {
			mustApply(t, h, seat, Check, 0)
		}
	}
	if h.Failed() {
		t.Fatal("check-down hand failed")
	}
}

func TestLegalActionsEmptyForNonActor(t *testing.T) {
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000, 1000}, 0, Blinds{Small: 10, Big: 20}, 5)
	legal, err := h.LegalActions(h.ActionOn() + 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(legal) != 0 {
		t.Fatalf("non-actor offered %v", legal)
	}
}

func TestBigBlindOption(t *testing.T) {
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000, 1000}, 0, Blinds{Small: 10, Big: 20}, 6)
	mustApply(t, h, 0, Call, 0)
	mustApply(t, h, 1, Call, 0)
	if h.Street() != 0 {
		t.Fatal("street advanced before the big blind's option")
	}
	if h.ActionOn() != 2 {
		t.Fatalf("action on %d, want the big blind", h.ActionOn())
	}
	legal, err := h.LegalActions(2)
	if err != nil {
		t.Fatal(err)
	}
	var hasCheck, hasRaise, hasCall bool
	for _, a := range legal {
		hasCheck = hasCheck || a.Kind == Check
		hasRaise = hasRaise || a.Kind == Raise
		hasCall = hasCall || a.Kind == Call
	}
	if !hasCheck || !hasRaise || hasCall {
		t.Fatalf("big blind option actions %v, want check or raise", legal)
	}
	mustApply(t, h, 2, Check, 0)
	if h.Street() != 1 {
		t.Fatal("street did not advance after the option check")
	}
}

func TestShortAllInDoesNotReopenBetting(t *testing.T) {
	// seat 2 posts the 50 blind and shoves to 120 total over a raise to 100:
	// the 20 increment is below the min-raise of 50, so the earlier raiser
	// may call or fold but not raise again.
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000, 120}, 0, Blinds{Small: 25, Big: 50}, 7)
	mustApply(t, h, 0, Raise, 100)
	mustApply(t, h, 1, Call, 0)
	mustApply(t, h, 2, AllIn, 0)

	if h.ActionOn() != 0 {
		t.Fatalf("action on %d after the short shove, want seat 0", h.ActionOn())
	}
	legal, err := h.LegalActions(0)
	if err != nil {
		t.Fatal(err)
	}
	var hasCall, hasRaise bool
	var callAmount uint64
	for _, a := range legal {
		if a.Kind == Call {
			hasCall, callAmount = true, a.Min
		}
		hasRaise = hasRaise || a.Kind == Raise
	}
	if !hasCall || callAmount != 20 {
		t.Fatalf("legal actions %v, want a call of 20", legal)
	}
	if hasRaise {
		t.Fatal("short all-in reopened betting")
	}
	if err := h.Apply(0, Raise, 200); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("raise after short all-in: %v", err)
	}

	mustApply(t, h, 0, Call, 0)
	mustApply(t, h, 1, Call, 0)
	if h.Street() != 1 {
		t.Fatalf("street %d after everyone matched", h.Street())
	}
}

func TestFullRaiseAllInReopensBetting(t *testing.T) {
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000, 200}, 0, Blinds{Small: 25, Big: 50}, 8)
	mustApply(t, h, 0, Raise, 100)
	mustApply(t, h, 1, Call, 0)
	mustApply(t, h, 2, AllIn, 0) // to 200, a full 100 increment

	legal, err := h.LegalActions(0)
	if err != nil {
		t.Fatal(err)
	}
	var hasRaise bool
	for _, a := range legal {
		hasRaise = hasRaise || a.Kind == Raise
	}
	if !hasRaise {
		t.Fatal("full all-in raise should reopen betting")
	}
}

func TestAllInShowdownBuildsSidePots(t *testing.T) {
	h, sink := newTestHand(t, Holdem, []uint64{100, 300, 1000}, 0, Blinds{Small: 10, Big: 20}, 9)
	mustApply(t, h, 0, AllIn, 0)
	mustApply(t, h, 1, AllIn, 0)
	mustApply(t, h, 2, AllIn, 0)

	if !h.Finished() || h.Failed() {
		t.Fatal("hand should run out to showdown")
	}

	var awards []Event
	for _, e := range sink.events {
		if e.Kind == EvAward {
			awards = append(awards, e)
		}
	}
	if len(awards) != 2 {
		t.Fatalf("got %d award events, want a main and a side pot", len(awards))
	}
	sum := func(e Event) uint64 {
		var t uint64
		for _, a := range e.Amounts {
			t += a
		}
		return t
	}
	if sum(awards[0]) != 300 {
		t.Fatalf("main pot paid %d, want 300", sum(awards[0]))
	}
	if sum(awards[1]) != 400 {
		t.Fatalf("side pot paid %d, want 400", sum(awards[1]))
	}
	for _, s := range awards[1].Seats {
		if s == 0 {
			t.Fatal("short stack won chips from the side pot")
		}
	}

	// the big stack's uncalled 700 must be back regardless of who won
	if st := stacksOf(h); st[2] < 700 {
		t.Fatalf("seat 2 stack %d, refund missing", st[2])
	}
	var total uint64
	for _, st := range stacksOf(h) {
		total += st
	}
	if total != 1400 {
		t.Fatalf("chips not conserved: %d", total)
	}
}

func TestChipConservationAcrossRandomHands(t *testing.T) {
	for trial := byte(0); trial < 20; trial++ {
		h, _ := newTestHand(t, Holdem, []uint64{800, 1200, 500, 2000}, int(trial)%4, Blinds{Small: 25, Big: 50, Ante: 5}, 100+trial)
		// deterministic walk: every actor calls or checks, seat 2 shoves once
		shoved := false
		for !h.Finished() {
			seat := h.ActionOn()
			legal, err := h.LegalActions(seat)
			if err != nil {
				t.Fatal(err)
			}
			var did bool
			if seat == 2 && !shoved {
				for _, a := range legal {
					if a.Kind == AllIn {
						mustApply(t, h, seat, AllIn, 0)
						shoved, did = true, true
						break
					}
				}
			}
			if !did {
				var kind ActionKind
				for _, a := range legal {
					if a.Kind == Call || a.Kind == Check {
						kind = a.Kind
					}
				}
				if kind == 0 {
					t.Fatalf("seat %d has neither check nor call: %v", seat, legal)
				}
				mustApply(t, h, seat, kind, 0)
			}
		}
		if h.Failed() {
			t.Fatalf("trial %d: hand aborted", trial)
		}
		var total uint64
		for _, st := range stacksOf(h) {
			total += st
		}
		if total != 4500 {
			t.Fatalf("trial %d: chips not conserved: %d", trial, total)
		}
	}
}

func TestApplyTimeoutChecksOrFolds(t *testing.T) {
	h, sink := newTestHand(t, Holdem, []uint64{1000, 1000}, 0, Blinds{Small: 25, Big: 50}, 10)
	mustApply(t, h, 0, Call, 0)
	if err := h.ApplyTimeout(1); err != nil {
		t.Fatal(err)
	}
	var checked bool
	for _, e := range sink.events {
		if e.Kind == EvAction && e.Action == Check && e.Seat == 1 {
			checked = true
		}
	}
	if !checked {
		t.Fatal("timeout with no bet should check")
	}

	mustApply(t, h, 1, Bet, 100)
	if err := h.ApplyTimeout(0); err != nil {
		t.Fatal(err)
	}
	if !h.Finished() {
		t.Fatal("timeout fold should end the heads-up hand")
	}
	for _, e := range sink.events {
		if e.Kind == EvAction && e.Action == Fold && e.Seat == 0 {
			return
		}
	}
	t.Fatal("no fold recorded for the timed-out seat")
}

func TestActionsAfterHandEndAreRejected(t *testing.T) {
	h, _ := newTestHand(t, Holdem, []uint64{1000, 1000}, 0, Blinds{Small: 25, Big: 50}, 11)
	mustApply(t, h, 0, Fold, 0)
	if !h.Finished() {
		t.Fatal("fold should end the heads-up hand")
	}
	if err := h.Apply(1, Check, 0); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("apply after end: %v", err)
	}
	if h.ActionOn() != -1 {
		t.Fatal("finished hand still names an actor")
	}
}

func TestAntesAreDeadMoney(t *testing.T) {
	h, sink := newTestHand(t, Holdem, []uint64{1000, 1000, 1000}, 0, Blinds{Small: 10, Big: 20, Ante: 5}, 12)
	antes := 0
	for _, e := range sink.events {
		if e.Kind == EvPostAnte {
			antes++
			if e.Amount != 5 {
				t.Fatalf("ante event %s", e)
			}
		}
	}
	if antes != 3 {
		t.Fatalf("%d ante events, want 3", antes)
	}
	if h.PotTotal() != 15+10+20 {
		t.Fatalf("pot %d after antes and blinds", h.PotTotal())
	}
	// the small blind still owes 10 to call despite the ante
	mustApply(t, h, 0, Call, 0)
	legal, err := h.LegalActions(1)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range legal {
		if a.Kind == Call && a.Min != 10 {
			t.Fatalf("small blind call is %d, want 10", a.Min)
		}
	}
}
