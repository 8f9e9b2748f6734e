package poker

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Seed is the 32-byte value that fully determines a deck's shuffle order.
// Two decks built from the same seed draw identical card sequences on every
// platform, which is what makes hand replay bit-exact.
type Seed [32]byte

// seedStream is a deterministic random stream derived from a Seed by hashing
// seed||counter blocks. math/rand is avoided here: its algorithm is not part
// of the Go 1 compatibility promise for Shuffle, and the event log format
// pins the shuffle forever.
type seedStream struct {
	seed    Seed
	counter uint64
	buf     [32]byte
	off     int
}

func newSeedStream(seed Seed) *seedStream {
	return &seedStream{seed: seed, off: 32}
}

func (s *seedStream) refill() {
	var block [40]byte
	copy(block[:32], s.seed[:])
	binary.LittleEndian.PutUint64(block[32:], s.counter)
	s.counter++
	s.buf = sha256.Sum256(block[:])
	s.off = 0
}

func (s *seedStream) uint64() uint64 {
	if s.off+8 > len(s.buf) {
		s.refill()
	}
	v := binary.LittleEndian.Uint64(s.buf[s.off:])
	s.off += 8
	return v
}

// uintn returns a uniform value in [0, n) by rejection sampling.
func (s *seedStream) uintn(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	limit := ^uint64(0) - ^uint64(0)%n
	for {
		v := s.uint64()
		if v < limit {
			return v % n
		}
	}
}

// Deck is a finite ordered sequence of distinct cards with a draw cursor.
// It is constructed at hand start, shuffled once from its seed, and then
// drawn forward only; the undrawn tail is never exposed to players.
type Deck struct {
	cards []Card
	next  int
	size  int // distinct cards in play, fixed at construction
	rng   *seedStream
}

// NewDeck creates a standard 52-card deck shuffled from seed.
func NewDeck(seed Seed) *Deck {
	return newDeckFromRank(seed, 2)
}

// NewShortDeck creates a 32-card deck (ranks 7..A) shuffled from seed.
func NewShortDeck(seed Seed) *Deck {
	return newDeckFromRank(seed, 7)
}

func newDeckFromRank(seed Seed, lowest uint8) *Deck {
	d := &Deck{rng: newSeedStream(seed)}
	for suit := uint8(0); suit <= Spade; suit++ {
		for rank := lowest; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{rank: rank, suit: suit})
		}
	}
	d.size = len(d.cards)
	d.shuffle(d.cards)
	return d
}

// shuffle runs Fisher-Yates over cards using the deck's seeded stream.
func (d *Deck) shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := int(d.rng.uintn(uint64(i + 1)))
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Size returns the number of distinct cards in play (52, or 32 short-deck).
func (d *Deck) Size() int { return d.size }

// Remaining returns how many cards are still undrawn.
func (d *Deck) Remaining() int { return len(d.cards) - d.next }

// Draw removes and returns the next card.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, fmt.Errorf("%w: deck exhausted", ErrInvalidArgument)
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// DrawN draws n cards.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n < 0 || d.Remaining() < n {
		return nil, fmt.Errorf("%w: drawing %d of %d remaining", ErrInvalidArgument, n, d.Remaining())
	}
	out := make([]Card, n)
	for i := range out {
		out[i] = d.cards[d.next]
		d.next++
	}
	return out, nil
}

// Replenish shuffles the given discards and appends them behind the undrawn
// tail so drawing can resume after exhaustion in draw variants. The caller
// guarantees none of the cards are currently live (in a hand or on the
// board); replenished order is driven by the same seeded stream, keeping
// replay deterministic.
func (d *Deck) Replenish(discards []Card) {
	if len(discards) == 0 {
		return
	}
	refill := make([]Card, len(discards))
	copy(refill, discards)
	d.shuffle(refill)
	d.cards = append(d.cards, refill...)
}

// undrawn exposes the undrawn tail for integrity checks only.
func (d *Deck) undrawn() []Card { return d.cards[d.next:] }
