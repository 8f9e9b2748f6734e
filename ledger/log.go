package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/feltworks/feltpoker/domain/poker"
)

// HandConfig is everything needed to reproduce a hand from nothing: the
// variant, the table arrangement and the deck seed. It is written at the
// head of every saved log.
type HandConfig struct {
	HandID        uint64
	VariantTag    uint8
	Dealer        uint8
	Blinds        poker.Blinds
	Seed          poker.Seed
	InitialStacks []uint64
	Names         []string
}

// Seats builds the seat views a fresh hand starts from. Seats with a zero
// stack sit out.
func (c HandConfig) Seats() []poker.SeatState {
	seats := make([]poker.SeatState, len(c.InitialStacks))
	for i, stack := range c.InitialStacks {
		status := poker.StatusActive
		if stack == 0 {
			status = poker.StatusSittingOut
		}
		name := fmt.Sprintf("seat-%d", i)
		if i < len(c.Names) && c.Names[i] != "" {
			name = c.Names[i]
		}
		seats[i] = poker.SeatState{Seat: i, Name: name, Stack: stack, Status: status}
	}
	return seats
}

// Log is the append-only event history of one hand. Each entry is chained
// to its predecessor by a SHA-256 hash so any later modification of an
// earlier entry is detectable. Log implements poker.EventSink.
type Log struct {
	mu     sync.RWMutex
	config HandConfig
	events []poker.Event
	hashes []string
	broken error
}

// NewLog creates an empty log for the given hand configuration.
func NewLog(config HandConfig) *Log {
	return &Log{config: config}
}

// Append records one event. The sequence numbers must arrive contiguously
// from zero; a gap or repeat poisons the log, which Verify reports.
func (l *Log) Append(e poker.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.broken != nil {
		return
	}
	if e.Seq != uint32(len(l.events)) {
		l.broken = fmt.Errorf("%w: event seq %d, want %d", poker.ErrCorrupt, e.Seq, len(l.events))
		return
	}
	prev := "0"
	if n := len(l.hashes); n > 0 {
		prev = l.hashes[n-1]
	}
	l.events = append(l.events, e)
	l.hashes = append(l.hashes, chainHash(prev, e))
}

// Config returns the hand configuration the log was opened with.
func (l *Log) Config() HandConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Events returns a copy of the recorded events in order.
func (l *Log) Events() []poker.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]poker.Event, len(l.events))
	copy(out, l.events)
	return out
}

// At returns the event with sequence number seq.
func (l *Log) At(seq int) (poker.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if seq < 0 || seq >= len(l.events) {
		return poker.Event{}, fmt.Errorf("%w: event %d of %d", poker.ErrNotFound, seq, len(l.events))
	}
	return l.events[seq], nil
}

// Verify walks the whole chain and re-derives every hash. It fails if any
// entry was modified after being appended or if appends arrived out of order.
func (l *Log) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.broken != nil {
		return l.broken
	}
	prev := "0"
	for i, e := range l.events {
		if e.Seq != uint32(i) {
			return fmt.Errorf("%w: event %d has seq %d", poker.ErrCorrupt, i, e.Seq)
		}
		h := chainHash(prev, e)
		if h != l.hashes[i] {
			return fmt.Errorf("%w: hash mismatch at event %d", poker.ErrCorrupt, i)
		}
		prev = h
	}
	return nil
}

// chainHash computes the SHA-256 hash of an event chained to the previous
// entry's hash, using the event's stable wire encoding.
func chainHash(prev string, e poker.Event) string {
	var buf []byte
	buf = append(buf, prev...)
	buf = appendEvent(buf, e)
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// appendEvent appends the stable binary form of an event. The same encoding
// backs the on-disk codec and the hash chain.
func appendEvent(buf []byte, e poker.Event) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, e.Seq)
	buf = append(buf, uint8(e.Kind), uint8(e.Seat), uint8(e.Action), e.Street)
	buf = binary.LittleEndian.AppendUint64(buf, e.Amount)
	buf = binary.LittleEndian.AppendUint32(buf, e.Mask)
	buf = append(buf, e.PotIndex, uint8(e.Reason))
	buf = append(buf, uint8(len(e.Cards)))
	for _, c := range e.Cards {
		buf = append(buf, c.Index())
	}
	buf = append(buf, uint8(len(e.Seats)))
	for _, s := range e.Seats {
		buf = append(buf, uint8(s))
	}
	buf = append(buf, uint8(len(e.Amounts)))
	for _, a := range e.Amounts {
		buf = binary.LittleEndian.AppendUint64(buf, a)
	}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(e.Desc)))
	buf = append(buf, e.Desc...)
	return buf
}
