// Package network moves hand-history event batches between peers. One peer
// holds the sequencer rank and assigns every batch its place in the total
// order; the others publish to it and subscribe to the committed stream.
// There is no voting: ordering is the sequencer's word, and batches are
// deduplicated by their sender-assigned nonce so republishing after a
// timeout is always safe.
package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/feltworks/feltpoker/domain/poker"
	"github.com/feltworks/feltpoker/ledger"
)

// Batch is the unit of replication: one hand's worth (or a slice) of
// events. From and Nonce identify it for deduplication; Seq is assigned by
// the sequencer and is zero until committed.
type Batch struct {
	From   int    `json:"from"`
	Nonce  uint64 `json:"nonce"`
	Seq    uint64 `json:"seq"`
	HandID uint64 `json:"hand_id"`
	// Events carries the batch's events in the ledger wire encoding.
	Events []byte `json:"events"`
}

// Decode unpacks the batch's events.
func (b Batch) Decode() ([]poker.Event, error) {
	return ledger.DecodeEvents(b.Events)
}

// NewBatch packs events into a batch.
func NewBatch(from int, nonce, handID uint64, events []poker.Event) Batch {
	return Batch{From: from, Nonce: nonce, HandID: handID, Events: ledger.EncodeEvents(events)}
}

// Transport is the replication seam. Publish submits a batch for ordering
// and returns its committed sequence number; republishing the same batch is
// idempotent. Subscribe replays the committed stream from a sequence number
// onward and then follows it; the returned stop function cancels delivery.
type Transport interface {
	Publish(ctx context.Context, b Batch) (uint64, error)
	Subscribe(from uint64, handler func(Batch)) (stop func())
}

// Sequencer is the ordering core: it assigns each new batch the next
// sequence number and fans committed batches out to subscribers. It backs
// both the in-process Loopback transport and the HTTP peer.
type Sequencer struct {
	mu        sync.Mutex
	committed []Batch
	seen      map[[2]uint64]uint64 // (from, nonce) -> assigned seq
	subs      map[int]*subscriber
	nextSub   int
}

type subscriber struct {
	handler func(Batch)
	next    uint64
}

// NewSequencer creates an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{seen: map[[2]uint64]uint64{}, subs: map[int]*subscriber{}}
}

// Submit commits a batch and returns its 1-based sequence number. A batch
// already committed (same sender and nonce) returns its original number.
func (s *Sequencer) Submit(b Batch) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]uint64{uint64(b.From), b.Nonce}
	if seq, ok := s.seen[key]; ok {
		return seq
	}
	b.Seq = uint64(len(s.committed)) + 1
	s.committed = append(s.committed, b)
	s.seen[key] = b.Seq

	for _, sub := range s.subs {
		s.catchUp(sub)
	}
	return b.Seq
}

// catchUp delivers any committed batches the subscriber has not seen.
// Called with the lock held; handlers must not call back into the sequencer.
func (s *Sequencer) catchUp(sub *subscriber) {
	for sub.next < uint64(len(s.committed)) {
		b := s.committed[sub.next]
		sub.next++
		sub.handler(b)
	}
}

// From returns the committed batches with Seq > from, in order.
func (s *Sequencer) From(from uint64) []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from > uint64(len(s.committed)) {
		return nil
	}
	out := make([]Batch, len(s.committed)-int(from))
	copy(out, s.committed[from:])
	return out
}

// Len returns how many batches have been committed.
func (s *Sequencer) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.committed))
}

func (s *Sequencer) subscribe(from uint64, handler func(Batch)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	sub := &subscriber{handler: handler, next: from}
	s.subs[id] = sub
	s.catchUp(sub)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Loopback is the in-process transport: a sequencer called directly. Tests
// and single-process tables use it.
type Loopback struct {
	seq *Sequencer
}

// NewLoopback wraps a sequencer as a Transport.
func NewLoopback(seq *Sequencer) *Loopback {
	return &Loopback{seq: seq}
}

func (l *Loopback) Publish(ctx context.Context, b Batch) (uint64, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %v", poker.ErrTimeout, ctx.Err())
	default:
	}
	return l.seq.Submit(b), nil
}

func (l *Loopback) Subscribe(from uint64, handler func(Batch)) func() {
	return l.seq.subscribe(from, handler)
}
