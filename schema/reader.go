// Package schema provides the declarative-structure parsing primitives
// shared by the E32 and SIS record schemas: a position-tracking byte
// reader with alignment and payload-length framing, and generic
// containers (arrays, compressed sub-streams) that ride on top of it.
// Each record type still hand-writes its own Parse method, the way the
// teacher hand-writes one parse function per structure; this package only
// factors out the directives spec'd once rather than per record.
package schema

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Reader wraps a byte slice with a read cursor, exposing the framing
// primitives record schemas are built from.
type Reader struct {
	data []byte
	pos  int64
}

// NewReader wraps data for sequential structured reads starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Tell returns the current read offset.
func (r *Reader) Tell() int64 { return r.pos }

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int64 { return int64(len(r.data)) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 { return r.Len() - r.pos }

// ReadBytes reads exactly n bytes, advancing the cursor, or fails with
// ErrTruncatedInput.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+int64(n) > r.Len() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, r.pos, r.Remaining())
	}
	b := r.data[r.pos : r.pos+int64(n)]
	r.pos += int64(n)
	return b, nil
}

// Peek returns the next byte without advancing the cursor.
func (r *Reader) Peek() (byte, bool) {
	if r.pos >= r.Len() {
		return 0, false
	}
	return r.data[r.pos], true
}

// SkipNextIfByte implements the SkipNextIfByte directive: it peeks the next
// byte without consuming it, reporting whether it equals b. The caller
// treats the following optional field as absent when this returns true, and
// otherwise proceeds to parse it from the same, un-advanced position.
func (r *Reader) SkipNextIfByte(b byte) bool {
	next, ok := r.Peek()
	return ok && next == b
}

// ReadStruct reads binary.Size(v) bytes little-endian into v, which must be
// a pointer to a fixed-layout struct or primitive.
func (r *Reader) ReadStruct(v interface{}) error {
	size := binary.Size(v)
	if size < 0 {
		return fmt.Errorf("%w: %T is not a fixed-size structure", ErrParseError, v)
	}
	b, err := r.ReadBytes(size)
	if err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(b), binary.LittleEndian, v)
}

func (r *Reader) readUint(width int) (uint64, error) {
	b, err := r.ReadBytes(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	v, err := r.readUint(1)
	return uint8(v), err
}

// ReadUint16 reads a little-endian 16-bit value.
func (r *Reader) ReadUint16() (uint16, error) {
	v, err := r.readUint(2)
	return uint16(v), err
}

// ReadUint32 reads a little-endian 32-bit value.
func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.readUint(4)
	return uint32(v), err
}

// ReadUint64 reads a little-endian 64-bit value.
func (r *Reader) ReadUint64() (uint64, error) {
	return r.readUint(8)
}

// Align reads and discards (-Tell() mod alignment) bytes, requiring them to
// be zero, per spec's alignment invariant. alignment <= 1 is a no-op.
func (r *Reader) Align(alignment int) error {
	if alignment <= 1 {
		return nil
	}
	pad := (alignment - int(r.pos%int64(alignment))) % alignment
	if pad == 0 {
		return nil
	}
	start := r.pos
	b, err := r.ReadBytes(pad)
	if err != nil {
		return err
	}
	for _, x := range b {
		if x != 0 {
			return fmt.Errorf("%w: non-zero alignment padding at offset %d", ErrParseError, start)
		}
	}
	return nil
}

// CanBeLast reports whether the current offset has reached frameEnd,
// implementing the CanBeLast directive: the caller breaks its field loop
// when this is true.
func (r *Reader) CanBeLast(frameEnd int64) bool {
	return r.pos == frameEnd
}

// ValidateFrameEnd checks the StructurePayloadLength invariant: the
// observed end offset must equal declaredEnd, or fall short of it by no
// more than alignment-1 bytes, which must be zero and are consumed here.
// An observed end past declaredEnd is an error.
func (r *Reader) ValidateFrameEnd(declaredEnd int64, alignment int) error {
	if r.pos == declaredEnd {
		return nil
	}
	if r.pos > declaredEnd {
		return fmt.Errorf("%w: frame overran declared end by %d bytes at offset %d", ErrParseError, r.pos-declaredEnd, declaredEnd)
	}
	slack := declaredEnd - r.pos
	if alignment <= 1 || slack >= int64(alignment) {
		return fmt.Errorf("%w: frame underran declared end by %d bytes at offset %d", ErrParseError, slack, r.pos)
	}
	b, err := r.ReadBytes(int(slack))
	if err != nil {
		return err
	}
	for _, x := range b {
		if x != 0 {
			return fmt.Errorf("%w: non-zero trailing frame padding at offset %d", ErrParseError, declaredEnd-slack)
		}
	}
	return nil
}

// StructurePayloadLength reads a payload-length field of the given width
// (2, 4, or 8 bytes) and returns both the declared length and the absolute
// frame-end offset (relative to the position right after this field),
// implementing the StructurePayloadLength directive.
func (r *Reader) StructurePayloadLength(width int) (declared int64, frameEnd int64, err error) {
	var v uint64
	switch width {
	case 2:
		x, e := r.ReadUint16()
		v, err = uint64(x), e
	case 4:
		x, e := r.ReadUint32()
		v, err = uint64(x), e
	case 8:
		v, err = r.ReadUint64()
	default:
		return 0, 0, fmt.Errorf("%w: unsupported payload-length width %d", ErrParseError, width)
	}
	if err != nil {
		return 0, 0, err
	}
	declared = int64(v)
	return declared, r.pos + declared, nil
}

// ReadRemaining reads every byte from the current position up to frameEnd,
// implementing the UnknownPayload field type: an opaque variable-length
// payload spanning the rest of the enclosing frame.
func (r *Reader) ReadRemaining(frameEnd int64) ([]byte, error) {
	n := frameEnd - r.pos
	if n < 0 {
		return nil, fmt.Errorf("%w: frame end %d precedes current offset %d", ErrParseError, frameEnd, r.pos)
	}
	return r.ReadBytes(int(n))
}

// ReadUTF16String reads every byte from the current position up to
// frameEnd and decodes it as little-endian UTF-16, implementing the
// UTF16String field type: a string spanning the remainder of the enclosing
// frame, with no length or null terminator of its own.
func (r *Reader) ReadUTF16String(frameEnd int64) (string, error) {
	b, err := r.ReadRemaining(frameEnd)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := decoder.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: decoding UTF-16 string: %v", ErrParseError, err)
	}
	return string(s), nil
}

// StructureTotalLength reads a total-length field of the given width and
// returns the declared length and the frame-end offset measured from
// headerStart (the offset at which the enclosing record itself began),
// implementing the StructureTotalLength directive.
func (r *Reader) StructureTotalLength(width int, headerStart int64) (declared int64, frameEnd int64, err error) {
	declared, _, err = r.StructurePayloadLength(width)
	if err != nil {
		return 0, 0, err
	}
	return declared, headerStart + declared, nil
}
