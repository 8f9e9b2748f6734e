package ledger

import (
	"fmt"

	"github.com/feltworks/feltpoker/domain/poker"
)

// Replayer re-simulates a recorded hand. Replay does not interpret events
// as state deltas; it rebuilds the hand from the recorded configuration and
// feeds the recorded player actions back into a fresh state machine,
// verifying that every event the machine emits matches the log. Anything
// out of agreement means the log or the build is broken, and surfaces as
// ErrCorrupt.
type Replayer struct {
	log     *Log
	variant *poker.Variant
}

// NewReplayer validates the log and resolves its variant.
func NewReplayer(l *Log) (*Replayer, error) {
	if err := l.Verify(); err != nil {
		return nil, err
	}
	v, err := poker.VariantByTag(l.Config().VariantTag)
	if err != nil {
		return nil, err
	}
	return &Replayer{log: l, variant: v}, nil
}

// Len returns the number of replayable steps, one per event.
func (r *Replayer) Len() int { return r.log.Len() }

// ReplayTo re-simulates the hand until at least limit events have been
// reproduced (or all of them, if limit is negative) and returns the machine
// in that state. One recorded action can cascade into several events, a
// street close dealing the next board for instance, so the machine may land
// a few events past limit; it never stops short of it. observer, if
// non-nil, receives each reproduced event followed by a spectator snapshot.
func (r *Replayer) ReplayTo(limit int, observer poker.Observer) (*poker.Hand, error) {
	events := r.log.Events()
	if limit < 0 || limit > len(events) {
		limit = len(events)
	}

	sink := &replaySink{expect: events, observer: observer}
	config := r.log.Config()
	h, err := poker.NewHand(r.variant, config.Seats(), int(config.Dealer), config.Blinds, config.Seed, sink)
	if err != nil {
		return nil, err
	}
	sink.hand = h
	if err := h.Begin(); err != nil {
		return nil, err
	}
	if sink.err != nil {
		return nil, sink.err
	}

	// Feed the recorded player actions back in. Everything else the
	// machine re-derives on its own, and the sink checks it as it comes.
	for sink.pos < limit {
		if sink.pos >= len(events) {
			break
		}
		e := events[sink.pos]
		if e.Kind != poker.EvAction || e.Action == poker.Draw {
			return nil, fmt.Errorf("%w: replay stalled at event %d (%s)", poker.ErrCorrupt, sink.pos, e)
		}
		if err := r.applyRecorded(h, e); err != nil {
			return nil, fmt.Errorf("%w: event %d (%s): %v", poker.ErrCorrupt, sink.pos, e, err)
		}
		if sink.err != nil {
			return nil, sink.err
		}
	}
	return h, nil
}

// Replay re-simulates the whole hand.
func (r *Replayer) Replay(observer poker.Observer) (*poker.Hand, error) {
	return r.ReplayTo(-1, observer)
}

func (r *Replayer) applyRecorded(h *poker.Hand, e poker.Event) error {
	seat := int(e.Seat)
	switch e.Action {
	case poker.Bet, poker.Raise:
		return h.Apply(seat, e.Action, e.Amount)
	case poker.Discard:
		return h.Apply(seat, poker.Discard, uint64(e.Mask))
	case poker.Fold, poker.Check, poker.Call, poker.AllIn, poker.StandPat:
		return h.Apply(seat, e.Action, 0)
	}
	return fmt.Errorf("unplayable action %s", e.Action)
}

// Resume re-simulates a recorded hand and returns a live machine whose
// future events keep appending to the same log, so a paused hand picks up
// exactly where it stopped. The recorded prefix is verified the same way
// Replay verifies it.
func Resume(l *Log) (*poker.Hand, error) {
	r, err := NewReplayer(l)
	if err != nil {
		return nil, err
	}
	events := l.Events()
	sink := &resumeSink{log: l, expect: events}
	config := l.Config()
	h, err := poker.NewHand(r.variant, config.Seats(), int(config.Dealer), config.Blinds, config.Seed, sink)
	if err != nil {
		return nil, err
	}
	if err := h.Begin(); err != nil {
		return nil, err
	}
	if sink.err != nil {
		return nil, sink.err
	}
	for sink.pos < len(events) {
		e := events[sink.pos]
		if e.Kind != poker.EvAction || e.Action == poker.Draw {
			return nil, fmt.Errorf("%w: resume stalled at event %d (%s)", poker.ErrCorrupt, sink.pos, e)
		}
		if err := r.applyRecorded(h, e); err != nil {
			return nil, fmt.Errorf("%w: event %d (%s): %v", poker.ErrCorrupt, sink.pos, e, err)
		}
		if sink.err != nil {
			return nil, sink.err
		}
	}
	return h, nil
}

// resumeSink verifies re-simulated events against the recorded prefix,
// then lets the log grow again once the prefix is exhausted.
type resumeSink struct {
	log    *Log
	expect []poker.Event
	pos    int
	err    error
}

func (s *resumeSink) Append(e poker.Event) {
	if s.err != nil {
		return
	}
	if s.pos < len(s.expect) {
		if !eventsEqual(e, s.expect[s.pos]) {
			s.err = fmt.Errorf("%w: resume diverged at event %d: got %s, recorded %s", poker.ErrCorrupt, s.pos, e, s.expect[s.pos])
			return
		}
		s.pos++
		return
	}
	s.log.Append(e)
}

// replaySink checks each emitted event against the recorded history and
// forwards it to the observer.
type replaySink struct {
	expect   []poker.Event
	pos      int
	hand     *poker.Hand
	observer poker.Observer
	err      error
}

func (s *replaySink) Append(e poker.Event) {
	if s.err != nil {
		return
	}
	if s.pos >= len(s.expect) {
		s.err = fmt.Errorf("%w: replay produced extra event %s", poker.ErrCorrupt, e)
		return
	}
	if !eventsEqual(e, s.expect[s.pos]) {
		s.err = fmt.Errorf("%w: replay diverged at event %d: got %s, recorded %s", poker.ErrCorrupt, s.pos, e, s.expect[s.pos])
		return
	}
	s.pos++
	if s.observer != nil {
		s.observer.OnEvent(e)
		if s.hand != nil {
			s.observer.OnSnapshot(s.hand.View(-1))
		}
	}
}

func eventsEqual(a, b poker.Event) bool {
	if a.Seq != b.Seq || a.Kind != b.Kind || a.Seat != b.Seat || a.Action != b.Action ||
		a.Street != b.Street || a.Amount != b.Amount || a.Mask != b.Mask ||
		a.PotIndex != b.PotIndex || a.Desc != b.Desc || a.Reason != b.Reason {
		return false
	}
	if len(a.Cards) != len(b.Cards) || len(a.Seats) != len(b.Seats) || len(a.Amounts) != len(b.Amounts) {
		return false
	}
	for i := range a.Cards {
		if a.Cards[i] != b.Cards[i] {
			return false
		}
	}
	for i := range a.Seats {
		if a.Seats[i] != b.Seats[i] {
			return false
		}
	}
	for i := range a.Amounts {
		if a.Amounts[i] != b.Amounts[i] {
			return false
		}
	}
	return true
}
