package poker

import (
	"fmt"
	"strings"
)

// EventKind tags the closed set of event types. Tag values are part of the
// on-disk hand-history format and must never be renumbered.
type EventKind uint8

const (
	EvHandStart EventKind = iota + 1
	EvPostBlind
	EvPostAnte
	EvDealHole
	EvDealCommunity
	EvAction
	EvStreetAdvance
	EvShowdown
	EvAward
	EvHandEnd
)

func (k EventKind) String() string {
	switch k {
	case EvHandStart:
		return "HandStart"
	case EvPostBlind:
		return "PostBlind"
	case EvPostAnte:
		return "PostAnte"
	case EvDealHole:
		return "DealHole"
	case EvDealCommunity:
		return "DealCommunity"
	case EvAction:
		return "Action"
	case EvStreetAdvance:
		return "StreetAdvance"
	case EvShowdown:
		return "Showdown"
	case EvAward:
		return "Award"
	case EvHandEnd:
		return "HandEnd"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// ActionKind is the kind of a player intent.
type ActionKind uint8

const (
	Fold ActionKind = iota + 1
	Check
	Call
	Bet
	Raise
	AllIn
	StandPat
	Discard
	Draw
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	case StandPat:
		return "standpat"
	case Discard:
		return "discard"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// EndReason explains why a hand ended.
type EndReason uint8

const (
	EndNormal EndReason = iota
	// EndInvariantFailure marks a fatal chip-accounting or deck violation;
	// the hand is aborted and must not be continued.
	EndInvariantFailure
)

// Event is one entry of the hand-history log. A single tagged struct rather
// than one type per event keeps the binary codec flat; which fields are
// meaningful depends on Kind:
//
//	PostBlind/PostAnte  Seat, Amount
//	DealHole            Seat, Cards
//	DealCommunity       Street, Cards
//	Action              Seat, Action, Amount (Bet/Raise amounts are the
//	                    resulting street bet; Call/AllIn amounts are the
//	                    chips moved), Mask for Discard, Cards for Draw
//	StreetAdvance       Street
//	Showdown            Seats (reveal order)
//	Award               PotIndex, Seats, Amounts (parallel), Desc
//	HandEnd             Reason
type Event struct {
	Seq      uint32
	Kind     EventKind
	Seat     int8
	Action   ActionKind
	Street   uint8
	Amount   uint64
	Cards    []Card
	Mask     uint32
	PotIndex uint8
	Seats    []int8
	Amounts  []uint64
	Desc     string
	Reason   EndReason
}

// EventSink is the write handle the hand state machine appends through. The
// table owns the concrete log; the machine only ever appends.
type EventSink interface {
	Append(Event)
}

// Observer receives events and snapshots; it is a pure sink. Presenters and
// replay consumers implement it.
type Observer interface {
	OnEvent(Event)
	OnSnapshot(View)
}

// String renders an event for logs and replay output.
func (e Event) String() string {
	switch e.Kind {
	case EvPostBlind, EvPostAnte:
		return fmt.Sprintf("%s(seat=%d amount=%d)", e.Kind, e.Seat, e.Amount)
	case EvDealHole:
		return fmt.Sprintf("DealHole(seat=%d %s)", e.Seat, cardsString(e.Cards))
	case EvDealCommunity:
		return fmt.Sprintf("DealCommunity(street=%d %s)", e.Street, cardsString(e.Cards))
	case EvAction:
		switch e.Action {
		case Discard:
			return fmt.Sprintf("Action(seat=%d discard mask=%b)", e.Seat, e.Mask)
		case Draw:
			return fmt.Sprintf("Action(seat=%d draw %s)", e.Seat, cardsString(e.Cards))
		case Fold, Check, StandPat:
			return fmt.Sprintf("Action(seat=%d %s)", e.Seat, e.Action)
		default:
			return fmt.Sprintf("Action(seat=%d %s %d)", e.Seat, e.Action, e.Amount)
		}
	case EvStreetAdvance:
		return fmt.Sprintf("StreetAdvance(to=%d)", e.Street)
	case EvShowdown:
		return fmt.Sprintf("Showdown(order=%v)", e.Seats)
	case EvAward:
		return fmt.Sprintf("Award(pot=%d seats=%v amounts=%v %q)", e.PotIndex, e.Seats, e.Amounts, e.Desc)
	case EvHandEnd:
		if e.Reason == EndInvariantFailure {
			return "HandEnd(invariant failure)"
		}
		return "HandEnd"
	}
	return e.Kind.String()
}

func cardsString(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
