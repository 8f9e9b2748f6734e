package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/feltworks/feltpoker/domain/poker"
	"github.com/feltworks/feltpoker/ledger"
)

// Session payload ("PGST" frame):
//
//	variant_tag uint8
//	button      uint8
//	hand_id     uint64
//	blinds      3 × uint64
//	seat_count  uint8
//	seats       seat_count × (occupied uint8, then for occupied seats:
//	            player_id 16 bytes, name, stack uint64, stats)
//	live        uint8 (1 when a paused hand follows)
//	hand_log    uint32 length + an embedded hand-history file, only
//	            when live is 1
//
// Stats payload ("PPST" frame): entry count uint32, then per entry
// player_id, name and the stats block. Stats blocks are
// hands_played u32, hands_won u32, winnings i64, vpip u32, pfr u32,
// peak u64, sessions u32.
const (
	sessionMagic   = "PGST"
	sessionVersion = 1

	statsMagic   = "PPST"
	statsVersion = 1
)

// SaveOptions selects what SaveSession writes alongside the table itself.
type SaveOptions struct {
	// IncludeHandHistory embeds the in-progress hand's event log so the
	// hand can be resumed on load. Without it, saving mid-hand is refused.
	IncludeHandHistory bool
	// IncludeAIState is accepted for forward compatibility. Bot policies
	// are pure functions of the public view, so there is no evolving
	// state to record yet.
	IncludeAIState bool
	// Compress deflates the payload when that shrinks it. The frame
	// header stays readable either way.
	Compress bool
}

// SaveSession serializes the table, and with IncludeHandHistory the
// in-progress hand too, so the whole session can be paused mid-street.
func SaveSession(w io.Writer, t *Table, opts SaveOptions) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.live != nil && !opts.IncludeHandHistory {
		return fmt.Errorf("%w: hand in progress", poker.ErrWrongPhase)
	}

	var buf []byte
	buf = append(buf, t.variant.Tag, uint8(t.button))
	buf = binary.LittleEndian.AppendUint64(buf, t.handID)
	buf = binary.LittleEndian.AppendUint64(buf, t.blinds.Small)
	buf = binary.LittleEndian.AppendUint64(buf, t.blinds.Big)
	buf = binary.LittleEndian.AppendUint64(buf, t.blinds.Ante)
	buf = append(buf, uint8(len(t.seats)))
	for _, p := range t.seats {
		if p == nil {
			buf = append(buf, 0)
			continue
		}
		buf = append(buf, 1)
		buf = append(buf, p.ID[:]...)
		buf = ledger.AppendString(buf, p.Name)
		buf = binary.LittleEndian.AppendUint64(buf, p.Stack)
		buf = appendStats(buf, p.Stats)
	}
	if t.live != nil {
		var log bytes.Buffer
		if err := ledger.EncodeLog(&log, t.liveLog); err != nil {
			return err
		}
		buf = append(buf, 1)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(log.Len()))
		buf = append(buf, log.Bytes()...)
	} else {
		buf = append(buf, 0)
	}
	if opts.Compress {
		return ledger.WriteFrame(w, sessionMagic, sessionVersion, buf)
	}
	return ledger.WriteFramePlain(w, sessionMagic, sessionVersion, buf)
}

// LoadSession restores a table saved with SaveSession. A session saved
// mid-hand comes back with the hand live again, replayed to the exact
// point it was paused at.
func LoadSession(r io.Reader) (*Table, error) {
	payload, err := ledger.ReadFrame(r, sessionMagic, sessionVersion)
	if err != nil {
		return nil, err
	}
	pr := ledger.NewReader(payload)

	variant, err := poker.VariantByTag(pr.U8())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", poker.ErrCorrupt, err)
	}
	button := int(pr.U8())
	handID := pr.U64()
	blinds := poker.Blinds{Small: pr.U64(), Big: pr.U64(), Ante: pr.U64()}

	seatCount := int(pr.U8())
	t, err := New(variant, seatCount, blinds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", poker.ErrCorrupt, err)
	}
	t.button = button
	t.handID = handID
	for seat := 0; seat < seatCount && pr.Err() == nil; seat++ {
		if pr.U8() == 0 {
			continue
		}
		p := &Player{}
		copy(p.ID[:], pr.Take(len(uuid.UUID{})))
		p.Name = pr.String()
		p.Stack = pr.U64()
		p.Stats = readStats(pr)
		t.seats[seat] = p
	}
	var pausedLog *ledger.Log
	if pr.U8() == 1 {
		raw := pr.Take(int(pr.U32()))
		if pr.Err() == nil {
			pausedLog, err = ledger.DecodeLog(bytes.NewReader(raw))
			if err != nil {
				return nil, err
			}
		}
	}
	if err := pr.Err(); err != nil {
		return nil, err
	}
	if pr.Rest() != 0 {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", poker.ErrCorrupt, pr.Rest())
	}
	if button < 0 || button >= seatCount {
		return nil, fmt.Errorf("%w: button seat %d of %d", poker.ErrCorrupt, button, seatCount)
	}
	if pausedLog != nil {
		h, err := ledger.Resume(pausedLog)
		if err != nil {
			return nil, err
		}
		t.live = h
		t.liveLog = pausedLog
	}
	return t, nil
}

// StatsEntry pairs a player identity with their aggregates, for the
// standalone stats file.
type StatsEntry struct {
	ID    uuid.UUID
	Name  string
	Stats Stats
}

// SaveStats serializes standalone player aggregates.
func SaveStats(w io.Writer, entries []StatsEntry) error {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(entries)))
	for _, e := range entries {
		buf = append(buf, e.ID[:]...)
		buf = ledger.AppendString(buf, e.Name)
		buf = appendStats(buf, e.Stats)
	}
	return ledger.WriteFrame(w, statsMagic, statsVersion, buf)
}

// LoadStats restores aggregates saved with SaveStats.
func LoadStats(r io.Reader) ([]StatsEntry, error) {
	payload, err := ledger.ReadFrame(r, statsMagic, statsVersion)
	if err != nil {
		return nil, err
	}
	pr := ledger.NewReader(payload)

	count := int(pr.U32())
	var entries []StatsEntry
	for i := 0; i < count && pr.Err() == nil; i++ {
		var e StatsEntry
		copy(e.ID[:], pr.Take(len(uuid.UUID{})))
		e.Name = pr.String()
		e.Stats = readStats(pr)
		entries = append(entries, e)
	}
	if err := pr.Err(); err != nil {
		return nil, err
	}
	if pr.Rest() != 0 {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", poker.ErrCorrupt, pr.Rest())
	}
	return entries, nil
}

// Snapshot exports the table's current aggregates for SaveStats.
func (t *Table) Snapshot() []StatsEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []StatsEntry
	for _, p := range t.seats {
		if p != nil {
			out = append(out, StatsEntry{ID: p.ID, Name: p.Name, Stats: p.Stats})
		}
	}
	return out
}

func appendStats(buf []byte, s Stats) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, s.HandsPlayed)
	buf = binary.LittleEndian.AppendUint32(buf, s.HandsWon)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.Winnings))
	buf = binary.LittleEndian.AppendUint32(buf, s.VPIPHands)
	buf = binary.LittleEndian.AppendUint32(buf, s.PFRHands)
	buf = binary.LittleEndian.AppendUint64(buf, s.PeakChips)
	buf = binary.LittleEndian.AppendUint32(buf, s.Sessions)
	return buf
}

func readStats(pr *ledger.Reader) Stats {
	return Stats{
		HandsPlayed: pr.U32(),
		HandsWon:    pr.U32(),
		Winnings:    int64(pr.U64()),
		VPIPHands:   pr.U32(),
		PFRHands:    pr.U32(),
		PeakChips:   pr.U64(),
		Sessions:    pr.U32(),
	}
}
