package poker

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SeatStatus is the per-hand status of a seat.
type SeatStatus uint8

const (
	StatusEmpty SeatStatus = iota
	StatusActive
	StatusFolded
	StatusAllIn
	StatusSittingOut
)

func (s SeatStatus) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case StatusSittingOut:
		return "sitting out"
	}
	return "unknown"
}

// SeatState is the at-table view of one player for the duration of a hand.
// The table owns the player; the hand borrows this view and the table copies
// the stack back after HandEnd.
type SeatState struct {
	Seat      int
	Name      string
	ID        uuid.UUID
	Stack     uint64
	Status    SeatStatus
	Committed uint64 // cumulative chips committed this hand
	StreetBet uint64 // chips committed on the current street
	Hole      []Card
}

// Blinds is the forced-contribution schedule of a hand.
type Blinds struct {
	Small uint64
	Big   uint64
	Ante  uint64
}

// LegalAction is one legal action kind with its legal amount range. For
// Bet/Raise the range bounds the resulting street bet; for Call it is the
// exact chips to move. Kinds without an amount carry zeros.
type LegalAction struct {
	Kind ActionKind
	Min  uint64
	Max  uint64
}

type phase uint8

const (
	phaseDealing phase = iota
	phaseBetting
	phaseDraw
	phaseComplete
)

// Hand drives one hand of poker for a variant: blinds and antes, dealing,
// betting rounds, draw phases, showdown and payout. All mutation flows
// through Begin and Apply; every observable change is appended to the event
// sink. Recoverable errors leave the hand untouched.
type Hand struct {
	variant *Variant
	seats   []SeatState
	button  int
	blinds  Blinds
	deck    *Deck
	sink    EventSink

	community []Card
	discards  []Card
	street    int
	ph        phase

	currentBet     uint64
	minRaise       uint64
	lastAggressor  int // last bet/raise on the current street, -1 if none
	finalAggressor int // last aggressor of the hand, for reveal order
	actionOn       int
	acted          []bool
	canRaise       []bool

	seq        uint32
	chipsTotal uint64 // for the conservation invariant
	failed     bool
}

// NewHand builds a hand over a borrowed seat view. seats must contain at
// least two entries with StatusActive and positive stacks; the slice is
// copied, so the caller's view is not aliased.
func NewHand(v *Variant, seats []SeatState, button int, blinds Blinds, seed Seed, sink EventSink) (*Hand, error) {
	if v == nil || sink == nil {
		return nil, fmt.Errorf("%w: nil variant or sink", ErrInvalidArgument)
	}
	if button < 0 || button >= len(seats) {
		return nil, fmt.Errorf("%w: button seat %d", ErrInvalidArgument, button)
	}
	if blinds.Big == 0 {
		return nil, fmt.Errorf("%w: big blind must be positive", ErrInvalidArgument)
	}
	playable := 0
	total := uint64(0)
	copied := make([]SeatState, len(seats))
	for i, s := range seats {
		s.Seat = i
		s.Committed = 0
		s.StreetBet = 0
		s.Hole = nil
		copied[i] = s
		total += s.Stack
		if s.Status == StatusActive {
			if s.Stack == 0 {
				return nil, fmt.Errorf("%w: active seat %d has no chips", ErrInvalidArgument, i)
			}
			playable++
		}
	}
	if playable < 2 {
		return nil, fmt.Errorf("%w: need at least 2 active seats, got %d", ErrInvalidArgument, playable)
	}
	return &Hand{
		variant:        v,
		seats:          copied,
		button:         button,
		blinds:         blinds,
		deck:           v.NewDeckFor(seed),
		sink:           sink,
		lastAggressor:  -1,
		finalAggressor: -1,
		chipsTotal:     total,
		acted:          make([]bool, len(seats)),
		canRaise:       make([]bool, len(seats)),
	}, nil
}

// Begin posts antes and blinds, deals hole cards and opens the first betting
// round, appending the corresponding events.
func (h *Hand) Begin() error {
	if h.ph != phaseDealing {
		return fmt.Errorf("%w: hand already begun", ErrWrongPhase)
	}

	h.emit(Event{Kind: EvHandStart})

	if h.blinds.Ante > 0 {
		for _, seat := range h.clockwise(h.button, func(s *SeatState) bool { return s.Status == StatusActive }) {
			paid := h.commit(seat, h.blinds.Ante)
			h.emit(Event{Kind: EvPostAnte, Seat: int8(seat), Amount: paid})
			// antes are dead money, not street bets
			h.seats[seat].StreetBet = 0
		}
	}

	sb, bb := h.blindSeats()
	if paid := h.commit(sb, h.blinds.Small); paid > 0 {
		h.emit(Event{Kind: EvPostBlind, Seat: int8(sb), Amount: paid})
	}
	if paid := h.commit(bb, h.blinds.Big); paid > 0 {
		h.emit(Event{Kind: EvPostBlind, Seat: int8(bb), Amount: paid})
	}

	h.dealHoles()

	h.street = 0
	h.currentBet = h.blinds.Big
	h.minRaise = h.betSize()
	h.openBetting(h.nextCounted(bb, func(s *SeatState) bool { return s.Status == StatusActive }))
	return nil
}

// blindSeats returns the small and big blind seats. Heads-up, the button
// posts the small blind.
func (h *Hand) blindSeats() (sb, bb int) {
	in := func(s *SeatState) bool { return s.Status == StatusActive || s.Status == StatusAllIn }
	if h.countWhere(in) == 2 {
		if in(&h.seats[h.button]) {
			sb = h.button
		} else {
			sb = h.nextCounted(h.button, in)
		}
	} else {
		sb = h.nextCounted(h.button, in)
	}
	bb = h.nextCounted(sb, in)
	return sb, bb
}

// commit moves up to amount chips from the seat's stack into the pot and
// returns what was actually moved. Exhausting the stack puts the seat all-in.
func (h *Hand) commit(seat int, amount uint64) uint64 {
	s := &h.seats[seat]
	if amount > s.Stack {
		amount = s.Stack
	}
	s.Stack -= amount
	s.Committed += amount
	s.StreetBet += amount
	if s.Stack == 0 && s.Status == StatusActive {
		s.Status = StatusAllIn
	}
	return amount
}

// dealHoles deals round-robin starting left of the button, then emits one
// DealHole per seat in seat order.
func (h *Hand) dealHoles() {
	order := h.clockwise(h.button, func(s *SeatState) bool {
		return s.Status == StatusActive || s.Status == StatusAllIn
	})
	for c := 0; c < h.variant.HoleCards; c++ {
		for _, seat := range order {
			card, err := h.deck.Draw()
			if err != nil {
				h.fail("deck exhausted during deal")
				return
			}
			h.seats[seat].Hole = append(h.seats[seat].Hole, card)
		}
	}
	for i := range h.seats {
		if len(h.seats[i].Hole) > 0 {
			cards := make([]Card, len(h.seats[i].Hole))
			copy(cards, h.seats[i].Hole)
			h.emit(Event{Kind: EvDealHole, Seat: int8(i), Cards: cards})
		}
	}
}

// Finished reports whether HandEnd has been produced.
func (h *Hand) Finished() bool { return h.ph == phaseComplete }

// Failed reports whether the hand ended with an invariant failure.
func (h *Hand) Failed() bool { return h.failed }

// ActionOn returns the seat expected to act, or -1 when none is.
func (h *Hand) ActionOn() int {
	if h.ph != phaseBetting && h.ph != phaseDraw {
		return -1
	}
	return h.actionOn
}

// Street returns the current street index.
func (h *Hand) Street() int { return h.street }

// StreetName returns the variant's name for the current street.
func (h *Hand) StreetName() string {
	if h.street < len(h.variant.Streets) {
		return h.variant.Streets[h.street].Name
	}
	return "showdown"
}

// Community returns a copy of the board.
func (h *Hand) Community() []Card {
	out := make([]Card, len(h.community))
	copy(out, h.community)
	return out
}

// Seats returns a copy of the per-seat view, including final stacks once the
// hand is complete.
func (h *Hand) Seats() []SeatState {
	out := make([]SeatState, len(h.seats))
	copy(out, h.seats)
	for i := range out {
		out[i].Hole = append([]Card(nil), h.seats[i].Hole...)
	}
	return out
}

// PotTotal returns the chips committed to the hand so far.
func (h *Hand) PotTotal() uint64 {
	var t uint64
	for _, s := range h.seats {
		t += s.Committed
	}
	return t
}

// emit appends an event with the next sequence number.
func (h *Hand) emit(e Event) {
	e.Seq = h.seq
	h.seq++
	h.sink.Append(e)
}

// fail aborts the hand with a distinguished HandEnd.
func (h *Hand) fail(why string) {
	h.failed = true
	h.ph = phaseComplete
	h.emit(Event{Kind: EvHandEnd, Reason: EndInvariantFailure, Desc: why})
}

// clockwise lists seats matching keep, starting at the seat after from.
func (h *Hand) clockwise(from int, keep func(*SeatState) bool) []int {
	n := len(h.seats)
	var out []int
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if keep(&h.seats[seat]) {
			out = append(out, seat)
		}
	}
	return out
}

// nextCounted returns the first seat after from matching keep, or -1.
func (h *Hand) nextCounted(from int, keep func(*SeatState) bool) int {
	n := len(h.seats)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if keep(&h.seats[seat]) {
			return seat
		}
	}
	return -1
}

func (h *Hand) countWhere(keep func(*SeatState) bool) int {
	c := 0
	for i := range h.seats {
		if keep(&h.seats[i]) {
			c++
		}
	}
	return c
}

func (h *Hand) countActive() int {
	return h.countWhere(func(s *SeatState) bool { return s.Status == StatusActive })
}

func (h *Hand) countContenders() int {
	return h.countWhere(func(s *SeatState) bool {
		return s.Status == StatusActive || s.Status == StatusAllIn
	})
}

// handSnapshot is the deterministic serialized form of a hand used by the
// replay equality checks and the session codec.
type handSnapshot struct {
	Variant    string     `json:"variant"`
	Button     int        `json:"button"`
	Street     int        `json:"street"`
	Phase      uint8      `json:"phase"`
	CurrentBet uint64     `json:"current_bet"`
	MinRaise   uint64     `json:"min_raise"`
	ActionOn   int        `json:"action_on"`
	Community  []uint8    `json:"community"`
	Seats      []seatSnap `json:"seats"`
	Events     uint32     `json:"events"`
}

type seatSnap struct {
	Status    uint8   `json:"status"`
	Stack     uint64  `json:"stack"`
	Committed uint64  `json:"committed"`
	StreetBet uint64  `json:"street_bet"`
	Hole      []uint8 `json:"hole"`
}

// Snapshot serializes the observable hand state deterministically. Two hands
// that replay the same log produce byte-identical snapshots at every step.
func (h *Hand) Snapshot() []byte {
	snap := handSnapshot{
		Variant:    h.variant.Name,
		Button:     h.button,
		Street:     h.street,
		Phase:      uint8(h.ph),
		CurrentBet: h.currentBet,
		MinRaise:   h.minRaise,
		ActionOn:   h.ActionOn(),
		Community:  cardIndexes(h.community),
		Events:     h.seq,
	}
	for _, s := range h.seats {
		snap.Seats = append(snap.Seats, seatSnap{
			Status:    uint8(s.Status),
			Stack:     s.Stack,
			Committed: s.Committed,
			StreetBet: s.StreetBet,
			Hole:      cardIndexes(s.Hole),
		})
	}
	b, err := json.Marshal(snap)
	if err != nil {
		panic(err) // no unmarshalable fields
	}
	return b
}

func cardIndexes(cards []Card) []uint8 {
	out := make([]uint8, len(cards))
	for i, c := range cards {
		out[i] = c.Index()
	}
	return out
}

// checkDeckIntegrity verifies that hole cards, board, discards and the
// undrawn tail form a set of exactly deck-size distinct cards.
func (h *Hand) checkDeckIntegrity() error {
	seen := make(map[Card]bool, h.deck.Size())
	count := 0
	add := func(cards []Card) error {
		for _, c := range cards {
			if seen[c] {
				return fmt.Errorf("duplicate card %s", c)
			}
			seen[c] = true
			count++
		}
		return nil
	}
	for i := range h.seats {
		if err := add(h.seats[i].Hole); err != nil {
			return err
		}
	}
	if err := add(h.community); err != nil {
		return err
	}
	if err := add(h.discards); err != nil {
		return err
	}
	if err := add(h.deck.undrawn()); err != nil {
		return err
	}
	if count != h.deck.Size() {
		return fmt.Errorf("card count %d, want %d", count, h.deck.Size())
	}
	return nil
}
