package poker

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"
)

func seedOf(b byte) Seed {
	var s Seed
	s[0] = b
	return s
}

func TestDeckHas52DistinctCards(t *testing.T) {
	d := NewDeck(seedOf(1))
	if d.Size() != 52 {
		t.Fatalf("size = %d, want 52", d.Size())
	}
	seen := map[Card]bool{}
	for d.Remaining() > 0 {
		c, err := d.Draw()
		if err != nil {
			t.Fatal(err)
		}
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("drew %d distinct cards", len(seen))
	}
}

func TestShortDeckExcludesLowRanks(t *testing.T) {
	d := NewShortDeck(seedOf(2))
	if d.Size() != 32 {
		t.Fatalf("size = %d, want 32", d.Size())
	}
	for d.Remaining() > 0 {
		c, err := d.Draw()
		if err != nil {
			t.Fatal(err)
		}
		if c.Rank() < Seven {
			t.Fatalf("short deck contains %s", c)
		}
	}
}

func TestSameSeedSameOrder(t *testing.T) {
	a := NewDeck(seedOf(3))
	b := NewDeck(seedOf(3))
	for a.Remaining() > 0 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("decks diverged: %s vs %s", ca, cb)
		}
	}
}

func TestDifferentSeedsDifferentOrder(t *testing.T) {
	a, _ := NewDeck(seedOf(4)).DrawN(52)
	b, _ := NewDeck(seedOf(5)).DrawN(52)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two seeds produced the identical permutation")
	}
}

func TestDrawPastEmptyFails(t *testing.T) {
	d := NewDeck(seedOf(6))
	if _, err := d.DrawN(52); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Draw(); err == nil {
		t.Fatal("draw from empty deck succeeded")
	}
}

func TestReplenishReusesDiscardsDeterministically(t *testing.T) {
	run := func() []Card {
		d := NewDeck(seedOf(7))
		drawn, err := d.DrawN(50)
		if err != nil {
			t.Fatal(err)
		}
		d.Replenish(drawn[:10])
		out, err := d.DrawN(d.Remaining())
		if err != nil {
			t.Fatal(err)
		}
		return out
	}
	first := run()
	second := run()
	if len(first) != 12 {
		t.Fatalf("got %d cards after replenish, want 12", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("replenish order not reproducible")
		}
	}
	if NewDeck(seedOf(7)).Size() != 52 {
		t.Fatal("size drifted")
	}
}

func TestSeedStreamIsStable(t *testing.T) {
	// Pin the stream: the on-disk format depends on it.
	s := newSeedStream(seedOf(8))
	again := newSeedStream(seedOf(8))
	for i := 0; i < 16; i++ {
		a, b := s.uint64(), again.uint64()
		if a != b {
			t.Fatalf("stream not stable at word %d: %x vs %x", i, a, b)
		}
	}
	var block [40]byte
	var seed Seed = seedOf(8)
	copy(block[:32], seed[:])
	first := sha256.Sum256(block[:])
	if newSeedStream(seed).uint64() != binary.LittleEndian.Uint64(first[:8]) {
		t.Fatal("stream layout changed")
	}
}
