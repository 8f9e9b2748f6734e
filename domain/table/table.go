// Package table manages a persistent poker session: who sits where, whose
// button it is, stacks between hands and per-player statistics. It drives
// the domain/poker state machine one hand at a time.
package table

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/feltworks/feltpoker/domain/poker"
	"github.com/feltworks/feltpoker/ledger"
)

// Player is one seated participant. The table owns it; hands only ever see
// a copied seat view.
type Player struct {
	ID    uuid.UUID
	Name  string
	Stack uint64
	Stats Stats
}

// Table is a session: a fixed ring of seats, the variant played at it and
// the rotating button. Hands run strictly one at a time; StartHand refuses
// to deal while a hand is live.
type Table struct {
	mu      sync.Mutex
	variant *poker.Variant
	blinds  poker.Blinds
	seats   []*Player // nil when empty
	button  int
	handID  uint64

	live    *poker.Hand
	liveLog *ledger.Log
}

// New creates a table with seatCount empty seats.
func New(v *poker.Variant, seatCount int, blinds poker.Blinds) (*Table, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil variant", poker.ErrInvalidArgument)
	}
	if seatCount < 2 || seatCount > 10 {
		return nil, fmt.Errorf("%w: %d seats", poker.ErrInvalidArgument, seatCount)
	}
	if blinds.Big == 0 {
		return nil, fmt.Errorf("%w: big blind must be positive", poker.ErrInvalidArgument)
	}
	return &Table{
		variant: v,
		blinds:  blinds,
		seats:   make([]*Player, seatCount),
	}, nil
}

// Variant returns the variant played at this table.
func (t *Table) Variant() *poker.Variant { return t.variant }

// Blinds returns the forced-bet schedule.
func (t *Table) Blinds() poker.Blinds { return t.blinds }

// Button returns the current dealer seat.
func (t *Table) Button() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.button
}

// HandsDealt returns how many hands this table has completed.
func (t *Table) HandsDealt() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handID
}

// Sit seats a new player with a buy-in. The seat must be empty.
func (t *Table) Sit(seat int, name string, buyIn uint64) (*Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seat < 0 || seat >= len(t.seats) {
		return nil, fmt.Errorf("%w: seat %d", poker.ErrInvalidArgument, seat)
	}
	if t.seats[seat] != nil {
		return nil, fmt.Errorf("%w: seat %d is taken by %s", poker.ErrInvalidArgument, seat, t.seats[seat].Name)
	}
	if buyIn == 0 {
		return nil, fmt.Errorf("%w: zero buy-in", poker.ErrInvalidArgument)
	}
	p := &Player{ID: uuid.New(), Name: name, Stack: buyIn, Stats: Stats{PeakChips: buyIn, Sessions: 1}}
	t.seats[seat] = p
	return p, nil
}

// Leave removes the player from a seat. Illegal while a hand is live.
func (t *Table) Leave(seat int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.live != nil {
		return fmt.Errorf("%w: hand in progress", poker.ErrWrongPhase)
	}
	if seat < 0 || seat >= len(t.seats) || t.seats[seat] == nil {
		return fmt.Errorf("%w: no player at seat %d", poker.ErrNotFound, seat)
	}
	t.seats[seat] = nil
	return nil
}

// Players returns the seated players by seat, nil entries for empty seats.
func (t *Table) Players() []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Player, len(t.seats))
	copy(out, t.seats)
	return out
}

// Live returns the in-progress hand and its log, nil between hands. A
// session loaded from a mid-hand save exposes the resumed hand here.
func (t *Table) Live() (*poker.Hand, *ledger.Log) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live, t.liveLog
}

// canPlay reports whether the seat can be dealt in.
func (t *Table) canPlay(seat int) bool {
	return t.seats[seat] != nil && t.seats[seat].Stack > 0
}

// StartHand deals the next hand from the given deck seed, recording it into
// a fresh log. Only one hand may be live at a time; finish it with
// FinishHand before dealing again.
func (t *Table) StartHand(seed poker.Seed) (*poker.Hand, *ledger.Log, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.live != nil {
		return nil, nil, fmt.Errorf("%w: hand %d still in progress", poker.ErrWrongPhase, t.handID)
	}

	playable := 0
	config := ledger.HandConfig{
		HandID:     t.handID + 1,
		VariantTag: t.variant.Tag,
		Blinds:     t.blinds,
		Seed:       seed,
	}
	for seat := range t.seats {
		var stack uint64
		var name string
		if t.canPlay(seat) {
			stack = t.seats[seat].Stack
			name = t.seats[seat].Name
			playable++
		}
		config.InitialStacks = append(config.InitialStacks, stack)
		config.Names = append(config.Names, name)
	}
	if playable < 2 {
		return nil, nil, fmt.Errorf("%w: %d players with chips", poker.ErrInvalidArgument, playable)
	}
	if !t.canPlay(t.button) {
		t.button = t.nextPlayable(t.button)
	}
	config.Dealer = uint8(t.button)

	log := ledger.NewLog(config)
	h, err := poker.NewHand(t.variant, config.Seats(), t.button, t.blinds, seed, log)
	if err != nil {
		return nil, nil, err
	}
	if err := h.Begin(); err != nil {
		return nil, nil, err
	}
	t.live = h
	t.liveLog = log
	return h, log, nil
}

// FinishHand folds the completed hand's outcome back into the session:
// stacks, per-player statistics and the button. It returns the hand's log.
func (t *Table) FinishHand() (*ledger.Log, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.live == nil {
		return nil, fmt.Errorf("%w: no hand in progress", poker.ErrWrongPhase)
	}
	if !t.live.Finished() {
		return nil, fmt.Errorf("%w: hand not finished", poker.ErrWrongPhase)
	}

	log := t.liveLog
	failed := t.live.Failed()
	final := t.live.Seats()
	t.live, t.liveLog = nil, nil

	if failed {
		// an aborted hand changes nothing; the log keeps the evidence
		return log, nil
	}

	t.handID++
	for seat, p := range t.seats {
		if p == nil || seat >= len(final) {
			continue
		}
		before := log.Config().InitialStacks[seat]
		if before == 0 {
			continue
		}
		p.Stack = final[seat].Stack
		p.Stats.record(seat, before, p.Stack, log.Events())
	}
	t.button = t.nextPlayable(t.button)
	return log, nil
}

// nextPlayable finds the next seat clockwise that can be dealt in, skipping
// empty and broke seats.
func (t *Table) nextPlayable(from int) int {
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if t.canPlay(seat) {
			return seat
		}
	}
	return from
}
