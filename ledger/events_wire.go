package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/feltworks/feltpoker/domain/poker"
)

// EncodeEvents serializes a slice of events in the wire encoding shared by
// the hash chain, the file codec and the network transport.
func EncodeEvents(events []poker.Event) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(events)))
	for _, e := range events {
		buf = appendEvent(buf, e)
	}
	return buf
}

// DecodeEvents reverses EncodeEvents.
func DecodeEvents(data []byte) ([]poker.Event, error) {
	r := NewReader(data)
	count := int(r.U32())
	var events []poker.Event
	for i := 0; i < count && r.Err() == nil; i++ {
		e, err := decodeEvent(r)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.Rest() != 0 {
		return nil, fmt.Errorf("%w: %d trailing event bytes", poker.ErrCorrupt, r.Rest())
	}
	return events, nil
}
