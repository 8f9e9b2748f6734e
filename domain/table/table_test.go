package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feltworks/feltpoker/domain/poker"
)

func seedOf(b byte) poker.Seed {
	var s poker.Seed
	s[0] = b
	return s
}

func newTestTable(t *testing.T, stacks ...uint64) *Table {
	t.Helper()
	tbl, err := New(poker.Holdem, len(stacks), poker.Blinds{Small: 25, Big: 50})
	require.NoError(t, err)
	for seat, stack := range stacks {
		if stack > 0 {
			_, err := tbl.Sit(seat, string(rune('A'+seat)), stack)
			require.NoError(t, err)
		}
	}
	return tbl
}

func TestSitValidation(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	_, err := tbl.Sit(0, "X", 500)
	require.ErrorIs(t, err, poker.ErrInvalidArgument)
	_, err = tbl.Sit(5, "X", 500)
	require.ErrorIs(t, err, poker.ErrInvalidArgument)
	_, err = tbl.Sit(1, "X", 0)
	require.ErrorIs(t, err, poker.ErrInvalidArgument)
}

func TestHandsAreStrictlySerialized(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)

	h, _, err := tbl.StartHand(seedOf(1))
	require.NoError(t, err)

	_, _, err = tbl.StartHand(seedOf(2))
	require.ErrorIs(t, err, poker.ErrWrongPhase)

	_, err = tbl.FinishHand()
	require.ErrorIs(t, err, poker.ErrWrongPhase, "unfinished hand accepted")

	require.NoError(t, h.Apply(0, poker.Fold, 0))
	require.True(t, h.Finished())
	_, err = tbl.FinishHand()
	require.NoError(t, err)

	_, _, err = tbl.StartHand(seedOf(3))
	require.NoError(t, err)
}

func TestFinishHandUpdatesStacksAndStats(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)

	// button raises, big blind folds
	h, _, err := tbl.StartHand(seedOf(4))
	require.NoError(t, err)
	require.NoError(t, h.Apply(0, poker.Raise, 100))
	require.NoError(t, h.Apply(1, poker.Fold, 0))
	require.True(t, h.Finished())

	_, err = tbl.FinishHand()
	require.NoError(t, err)

	players := tbl.Players()
	require.Equal(t, uint64(1050), players[0].Stack)
	require.Equal(t, uint64(950), players[1].Stack)

	require.Equal(t, uint32(1), players[0].Stats.HandsPlayed)
	require.Equal(t, uint32(1), players[0].Stats.HandsWon)
	require.Equal(t, int64(50), players[0].Stats.Winnings)
	require.Equal(t, uint32(1), players[0].Stats.VPIPHands)
	require.Equal(t, uint32(1), players[0].Stats.PFRHands)
	require.Equal(t, uint64(1050), players[0].Stats.PeakChips)

	require.Equal(t, uint32(1), players[1].Stats.HandsPlayed)
	require.Equal(t, uint32(0), players[1].Stats.HandsWon)
	require.Equal(t, int64(-50), players[1].Stats.Winnings)
	require.Equal(t, uint32(0), players[1].Stats.VPIPHands, "a posted blind is not voluntary")

	require.Equal(t, uint64(1), tbl.HandsDealt())
	require.Equal(t, 1, tbl.Button(), "button must advance")
}

func TestButtonSkipsBrokeAndEmptySeats(t *testing.T) {
	tbl := newTestTable(t, 1000, 0, 1000, 1000)

	playHeadsDown := func() {
		h, _, err := tbl.StartHand(seedOf(9))
		require.NoError(t, err)
		for !h.Finished() {
			require.NoError(t, h.ApplyTimeout(h.ActionOn()))
		}
		_, err = tbl.FinishHand()
		require.NoError(t, err)
	}

	require.Equal(t, 0, tbl.Button())
	playHeadsDown()
	require.Equal(t, 2, tbl.Button(), "seat 1 is empty")

	// seat 3 goes broke out of band; rotation must skip it too
	tbl.Players()[3].Stack = 0
	playHeadsDown()
	require.Equal(t, 0, tbl.Button())
}

func TestStartHandNeedsTwoFundedPlayers(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	tbl.Players()[1].Stack = 0
	_, _, err := tbl.StartHand(seedOf(5))
	require.ErrorIs(t, err, poker.ErrInvalidArgument)
}

func TestLeaveDuringHandRefused(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	h, _, err := tbl.StartHand(seedOf(6))
	require.NoError(t, err)
	require.ErrorIs(t, tbl.Leave(0), poker.ErrWrongPhase)
	require.NoError(t, h.Apply(0, poker.Fold, 0))
	_, err = tbl.FinishHand()
	require.NoError(t, err)
	require.NoError(t, tbl.Leave(0))
	require.ErrorIs(t, tbl.Leave(0), poker.ErrNotFound)
}

func TestSessionRoundTrip(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000, 1000)

	h, _, err := tbl.StartHand(seedOf(7))
	require.NoError(t, err)
	for !h.Finished() {
		require.NoError(t, h.ApplyTimeout(h.ActionOn()))
	}
	_, err = tbl.FinishHand()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSession(&buf, tbl, SaveOptions{Compress: true}))

	back, err := LoadSession(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, tbl.Button(), back.Button())
	require.Equal(t, tbl.HandsDealt(), back.HandsDealt())
	require.Equal(t, tbl.Variant().Name, back.Variant().Name)
	require.Equal(t, tbl.Blinds(), back.Blinds())

	a, b := tbl.Players(), back.Players()
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.NotNil(t, b[i])
		require.Equal(t, a[i].ID, b[i].ID)
		require.Equal(t, a[i].Name, b[i].Name)
		require.Equal(t, a[i].Stack, b[i].Stack)
		require.Equal(t, a[i].Stats, b[i].Stats)
	}
}

func TestSessionSaveMidHandNeedsHistory(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	_, _, err := tbl.StartHand(seedOf(8))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.ErrorIs(t, SaveSession(&buf, tbl, SaveOptions{}), poker.ErrWrongPhase)
	require.NoError(t, SaveSession(&buf, tbl, SaveOptions{IncludeHandHistory: true}))
}

func TestSessionResumesPausedHand(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	h, _, err := tbl.StartHand(seedOf(8))
	require.NoError(t, err)
	require.NoError(t, h.Apply(0, poker.Raise, 100))

	var buf bytes.Buffer
	require.NoError(t, SaveSession(&buf, tbl, SaveOptions{IncludeHandHistory: true, Compress: true}))

	// play the original out for reference
	require.NoError(t, h.Apply(1, poker.Call, 0))
	for !h.Finished() {
		require.NoError(t, h.ApplyTimeout(h.ActionOn()))
	}
	_, err = tbl.FinishHand()
	require.NoError(t, err)

	back, err := LoadSession(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	resumed, log := back.Live()
	require.NotNil(t, resumed)
	require.NotNil(t, log)
	require.Equal(t, 1, resumed.ActionOn(), "paused facing the raise")

	// same remaining actions must reach the same outcome
	require.NoError(t, resumed.Apply(1, poker.Call, 0))
	for !resumed.Finished() {
		require.NoError(t, resumed.ApplyTimeout(resumed.ActionOn()))
	}
	_, err = back.FinishHand()
	require.NoError(t, err)

	a, b := tbl.Players(), back.Players()
	for i := range a {
		require.Equal(t, a[i].Stack, b[i].Stack, "seat %d", i)
	}
	require.Equal(t, tbl.HandsDealt(), back.HandsDealt())
}

func TestSessionCorruptionDetected(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	var buf bytes.Buffer
	require.NoError(t, SaveSession(&buf, tbl, SaveOptions{}))

	raw := buf.Bytes()
	raw[len(raw)-6] ^= 0x01
	_, err := LoadSession(bytes.NewReader(raw))
	require.ErrorIs(t, err, poker.ErrCorrupt)
}

func TestStatsRoundTrip(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	h, _, err := tbl.StartHand(seedOf(10))
	require.NoError(t, err)
	require.NoError(t, h.Apply(0, poker.Fold, 0))
	_, err = tbl.FinishHand()
	require.NoError(t, err)

	entries := tbl.Snapshot()
	require.Len(t, entries, 2)

	var buf bytes.Buffer
	require.NoError(t, SaveStats(&buf, entries))
	back, err := LoadStats(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, entries, back)
}

func TestStatsLoadRejectsWrongMagic(t *testing.T) {
	tbl := newTestTable(t, 1000, 1000)
	var buf bytes.Buffer
	require.NoError(t, SaveSession(&buf, tbl, SaveOptions{}))
	_, err := LoadStats(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, poker.ErrCorrupt)
}
