package ledger

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/feltworks/feltpoker/domain/poker"
)

// The hand-history file. The configuration header is never compressed,
// so hand id, stacks and seed stay readable even when the event section
// is deflated:
//
//	magic          4 bytes "PHLG"
//	version        uint16
//	flags          uint16 (bit 0: events section is DEFLATE-compressed)
//	hand_id        uint64
//	variant_tag    uint8
//	seat_count     uint8
//	initial_stacks seat_count × uint64
//	dealer         uint8
//	blinds         3 × uint64 (small, big, ante)
//	deck_seed      32 bytes
//	event_count    uint32
//	events section seat names (seat_count × (uint16 length + bytes))
//	               followed by events as in appendEvent
//	crc32          uint32 over every preceding byte as stored
//
// All integers are little-endian.
const (
	logMagic   = "PHLG"
	logVersion = 1
)

// EncodeLog serializes a log to the binary hand-history format.
func EncodeLog(w io.Writer, l *Log) error {
	c, events := l.Config(), l.Events()

	var section []byte
	for i := range c.InitialStacks {
		name := ""
		if i < len(c.Names) {
			name = c.Names[i]
		}
		section = AppendString(section, name)
	}
	for _, e := range events {
		section = appendEvent(section, e)
	}
	stored, flags, err := deflatePayload(section)
	if err != nil {
		return err
	}

	var buf []byte
	buf = append(buf, logMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, logVersion)
	buf = binary.LittleEndian.AppendUint16(buf, flags)
	buf = binary.LittleEndian.AppendUint64(buf, c.HandID)
	buf = append(buf, c.VariantTag, uint8(len(c.InitialStacks)))
	for _, s := range c.InitialStacks {
		buf = binary.LittleEndian.AppendUint64(buf, s)
	}
	buf = append(buf, c.Dealer)
	buf = binary.LittleEndian.AppendUint64(buf, c.Blinds.Small)
	buf = binary.LittleEndian.AppendUint64(buf, c.Blinds.Big)
	buf = binary.LittleEndian.AppendUint64(buf, c.Blinds.Ante)
	buf = append(buf, c.Seed[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(events)))
	buf = append(buf, stored...)
	return writeChecksummed(w, buf)
}

// DecodeLog reads a binary hand history back into a verified log. The
// trailing checksum is verified before any field is interpreted.
func DecodeLog(rd io.Reader) (*Log, error) {
	raw, err := readChecksummed(rd)
	if err != nil {
		return nil, err
	}
	if string(raw[:4]) != logMagic {
		return nil, fmt.Errorf("%w: magic %q, want %q", poker.ErrCorrupt, raw[:4], logMagic)
	}
	if v := binary.LittleEndian.Uint16(raw[4:6]); v != logVersion {
		return nil, fmt.Errorf("%w: format version %d, this build reads %d", poker.ErrVersionMismatch, v, logVersion)
	}
	flags := binary.LittleEndian.Uint16(raw[6:8])

	r := NewReader(raw[8:])
	var c HandConfig
	c.HandID = r.U64()
	c.VariantTag = r.U8()
	seatCount := int(r.U8())
	for i := 0; i < seatCount && r.Err() == nil; i++ {
		c.InitialStacks = append(c.InitialStacks, r.U64())
	}
	c.Dealer = r.U8()
	c.Blinds.Small = r.U64()
	c.Blinds.Big = r.U64()
	c.Blinds.Ante = r.U64()
	copy(c.Seed[:], r.Take(32))
	count := int(r.U32())
	if err := r.Err(); err != nil {
		return nil, err
	}

	section, err := inflatePayload(r.Take(r.Rest()), flags)
	if err != nil {
		return nil, err
	}
	sr := NewReader(section)
	for i := 0; i < seatCount && sr.Err() == nil; i++ {
		c.Names = append(c.Names, sr.String())
	}
	var events []poker.Event
	for i := 0; i < count && sr.Err() == nil; i++ {
		e, err := decodeEvent(sr)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := sr.Err(); err != nil {
		return nil, err
	}
	if sr.Rest() != 0 {
		return nil, fmt.Errorf("%w: %d trailing event bytes", poker.ErrCorrupt, sr.Rest())
	}

	l := NewLog(c)
	for _, e := range events {
		l.Append(e)
	}
	if err := l.Verify(); err != nil {
		return nil, err
	}
	return l, nil
}

func decodeEvent(r *Reader) (poker.Event, error) {
	var e poker.Event
	e.Seq = r.U32()
	e.Kind = poker.EventKind(r.U8())
	e.Seat = int8(r.U8())
	e.Action = poker.ActionKind(r.U8())
	e.Street = r.U8()
	e.Amount = r.U64()
	e.Mask = r.U32()
	e.PotIndex = r.U8()
	e.Reason = poker.EndReason(r.U8())

	for n := int(r.U8()); n > 0 && r.Err() == nil; n-- {
		card, err := poker.CardFromIndex(r.U8())
		if err != nil {
			return poker.Event{}, fmt.Errorf("%w: %v", poker.ErrCorrupt, err)
		}
		e.Cards = append(e.Cards, card)
	}
	for n := int(r.U8()); n > 0 && r.Err() == nil; n-- {
		e.Seats = append(e.Seats, int8(r.U8()))
	}
	for n := int(r.U8()); n > 0 && r.Err() == nil; n-- {
		e.Amounts = append(e.Amounts, r.U64())
	}
	e.Desc = r.String()

	if e.Kind < poker.EvHandStart || e.Kind > poker.EvHandEnd {
		return poker.Event{}, fmt.Errorf("%w: event kind %d", poker.ErrCorrupt, e.Kind)
	}
	return e, r.Err()
}
