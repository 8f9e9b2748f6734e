package ledger

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/feltworks/feltpoker/domain/poker"
)

// Every persisted blob shares one frame:
//
//	magic     4 bytes ("PGST" session, "PPST" stats)
//	version   uint16
//	flags     uint16 (bit 0: payload is DEFLATE-compressed)
//	payload   possibly compressed, running to 4 bytes before end of file
//	crc32     IEEE checksum of every preceding byte
//
// Hand histories ("PHLG") frame themselves so the hand configuration
// stays readable without inflating the event section; see codec.go.
//
// All integers are little-endian.
const (
	flagCompressed = 1 << 0

	// payloads below this size are stored raw; DEFLATE overhead would
	// only grow them
	compressThreshold = 128
)

// WriteFrame writes payload under the given magic and version, compressing
// when that actually shrinks it.
func WriteFrame(w io.Writer, magic string, version uint16, payload []byte) error {
	if len(magic) != 4 {
		return fmt.Errorf("%w: frame magic %q", poker.ErrInvalidArgument, magic)
	}
	stored, flags, err := deflatePayload(payload)
	if err != nil {
		return err
	}

	var buf []byte
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint16(buf, version)
	buf = binary.LittleEndian.AppendUint16(buf, flags)
	buf = append(buf, stored...)
	return writeChecksummed(w, buf)
}

// WriteFramePlain writes payload under the given magic and version without
// compression, whatever its size.
func WriteFramePlain(w io.Writer, magic string, version uint16, payload []byte) error {
	if len(magic) != 4 {
		return fmt.Errorf("%w: frame magic %q", poker.ErrInvalidArgument, magic)
	}
	var buf []byte
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint16(buf, version)
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = append(buf, payload...)
	return writeChecksummed(w, buf)
}

// ReadFrame consumes r and reads the frame back, checking checksum, magic
// and version in that order. Any damage, including a single flipped bit,
// yields ErrCorrupt; an intact frame of an unknown version yields
// ErrVersionMismatch.
func ReadFrame(r io.Reader, magic string, version uint16) ([]byte, error) {
	body, err := readChecksummed(r)
	if err != nil {
		return nil, err
	}
	if string(body[:4]) != magic {
		return nil, fmt.Errorf("%w: magic %q, want %q", poker.ErrCorrupt, body[:4], magic)
	}
	if v := binary.LittleEndian.Uint16(body[4:6]); v != version {
		return nil, fmt.Errorf("%w: format version %d, this build reads %d", poker.ErrVersionMismatch, v, version)
	}
	flags := binary.LittleEndian.Uint16(body[6:8])
	return inflatePayload(body[8:], flags)
}

// deflatePayload compresses payload when that actually shrinks it,
// returning the bytes to store and the frame flags to record.
func deflatePayload(payload []byte) ([]byte, uint16, error) {
	if len(payload) < compressThreshold {
		return payload, 0, nil
	}
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, 0, err
	}
	if _, err := fw.Write(payload); err != nil {
		return nil, 0, err
	}
	if err := fw.Close(); err != nil {
		return nil, 0, err
	}
	if buf.Len() < len(payload) {
		return buf.Bytes(), flagCompressed, nil
	}
	return payload, 0, nil
}

// inflatePayload undoes deflatePayload according to the frame flags.
func inflatePayload(stored []byte, flags uint16) ([]byte, error) {
	if flags&flagCompressed == 0 {
		return stored, nil
	}
	payload, err := io.ReadAll(flate.NewReader(bytes.NewReader(stored)))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", poker.ErrCorrupt, err)
	}
	return payload, nil
}

// writeChecksummed writes buf followed by its crc32.
func writeChecksummed(w io.Writer, buf []byte) error {
	if _, err := w.Write(buf); err != nil {
		return err
	}
	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], crc32.ChecksumIEEE(buf))
	_, err := w.Write(sum[:])
	return err
}

// readChecksummed consumes the rest of r and strips a verified trailing
// crc32. The checksum covers everything before it and is checked before
// any field is interpreted, so a flipped bit in the header reads as
// ErrCorrupt rather than a misleading magic or version complaint.
func readChecksummed(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", poker.ErrCorrupt, err)
	}
	if len(raw) < 12 {
		return nil, fmt.Errorf("%w: %d byte frame", poker.ErrCorrupt, len(raw))
	}
	body := raw[:len(raw)-4]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(raw[len(raw)-4:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", poker.ErrCorrupt)
	}
	return body, nil
}

// Reader pulls fixed-width little-endian fields off a payload, remembering
// the first failure so decoders stay flat.
type Reader struct {
	buf []byte
	err error
}

// NewReader wraps a decoded frame payload.
func NewReader(payload []byte) *Reader { return &Reader{buf: payload} }

// Err returns the first failure, if any.
func (r *Reader) Err() error { return r.err }

// Rest returns how many bytes remain unread.
func (r *Reader) Rest() int { return len(r.buf) }

// Take consumes n raw bytes.
func (r *Reader) Take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf) < n {
		r.err = fmt.Errorf("%w: payload truncated", poker.ErrCorrupt)
		return nil
	}
	out := r.buf[:n]
	r.buf = r.buf[n:]
	return out
}

func (r *Reader) U8() uint8 {
	b := r.Take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16() uint16 {
	b := r.Take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) U32() uint32 {
	b := r.Take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) U64() uint64 {
	b := r.Take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// String consumes a u16-length-prefixed string.
func (r *Reader) String() string {
	return string(r.Take(int(r.U16())))
}

// AppendString appends a u16-length-prefixed string.
func AppendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}
