package schema

import (
	"errors"
	"testing"
)

func TestAlignZeroPadding(t *testing.T) {
	r := NewReader([]byte{0xAA, 0, 0, 0})
	if _, err := r.ReadUint8(); err != nil {
		t.Fatal(err)
	}
	if err := r.Align(4); err != nil {
		t.Fatal(err)
	}
	if r.Tell() != 4 {
		t.Fatalf("got offset %d, want 4", r.Tell())
	}
	b, err := r.ReadUint8()
	if err == nil {
		t.Fatalf("expected truncation, got byte %x", b)
	}
}

func TestAlignRejectsNonZeroPadding(t *testing.T) {
	r := NewReader([]byte{0xAA, 0x01, 0, 0xBB})
	if _, err := r.ReadUint8(); err != nil {
		t.Fatal(err)
	}
	if err := r.Align(4); !errors.Is(err, ErrParseError) {
		t.Fatalf("got %v, want ErrParseError", err)
	}
}

func TestStructurePayloadLength(t *testing.T) {
	// length field (4 bytes LE) = 2, followed by exactly 2 payload bytes.
	r := NewReader([]byte{0x02, 0x00, 0x00, 0x00, 0xAA, 0xBB})
	declared, frameEnd, err := r.StructurePayloadLength(4)
	if err != nil {
		t.Fatal(err)
	}
	if declared != 2 || frameEnd != 6 {
		t.Fatalf("declared=%d frameEnd=%d", declared, frameEnd)
	}
	if _, err := r.ReadBytes(2); err != nil {
		t.Fatal(err)
	}
	if err := r.ValidateFrameEnd(frameEnd, 1); err != nil {
		t.Fatal(err)
	}
}

func TestValidateFrameEndAcceptsAlignmentSlack(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0, 0})
	if _, err := r.ReadBytes(2); err != nil {
		t.Fatal(err)
	}
	// declared end is 4, alignment 4: 2 bytes of zero slack is acceptable.
	if err := r.ValidateFrameEnd(4, 4); err != nil {
		t.Fatal(err)
	}
	if r.Tell() != 4 {
		t.Fatalf("got offset %d, want 4", r.Tell())
	}
}

func TestReadEfficientLength63Short(t *testing.T) {
	r := NewReader([]byte{0x10, 0x00, 0x00, 0x00})
	n, err := r.ReadEfficientLength63()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0x10 {
		t.Fatalf("got %d, want 16", n)
	}
}

func TestReadEfficientLength63Long(t *testing.T) {
	// high bit of the first word set, low 31 bits 0; second word is the
	// low 32 bits of the length.
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x80, 0x01, 0x00, 0x00, 0x00})
	n, err := r.ReadEfficientLength63()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("got %d, want 1", n)
	}
}

type fixedRecord struct {
	A uint16
	B uint16
}

func (f *fixedRecord) Parse(r *Reader) error {
	var err error
	if f.A, err = r.ReadUint16(); err != nil {
		return err
	}
	f.B, err = r.ReadUint16()
	return err
}

func TestParseArrayCountBound(t *testing.T) {
	data := []byte{1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6, 0}
	r := NewReader(data)
	elems, err := ParseArray(r, ArrayOptions{Count: 3}, func() *fixedRecord { return &fixedRecord{} })
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 3 {
		t.Fatalf("got %d elements, want 3", len(elems))
	}
	if elems[2].A != 5 || elems[2].B != 6 {
		t.Fatalf("unexpected element: %+v", elems[2])
	}
}

func TestParseArrayFrameEndBound(t *testing.T) {
	data := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	r := NewReader(data)
	// each element is 4 bytes wide, frame ends at 6: the loop must stop
	// before attempting to read into the slack beyond offset 6.
	elems, err := ParseArray(r, ArrayOptions{FrameEnd: 6, Alignment: 4}, func() *fixedRecord { return &fixedRecord{} })
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 1 {
		t.Fatalf("got %d elements, want 1", len(elems))
	}
}
