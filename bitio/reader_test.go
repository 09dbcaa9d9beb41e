package bitio

import "testing"

func TestNextBitLSBOfByteFirst(t *testing.T) {
	// 0xC8 = 1100_1000; bit0 (LSB) is consumed first, bit7 (MSB) last.
	r := NewReader([]byte{0xC8})
	want := []byte{0, 0, 0, 1, 0, 0, 1, 1}
	for i, w := range want {
		got, ok := r.NextBit()
		if !ok {
			t.Fatalf("bit %d: unexpected end of stream", i)
		}
		if got != w {
			t.Fatalf("bit %d: got %d, want %d", i, got, w)
		}
	}
	if _, ok := r.NextBit(); ok {
		t.Fatal("expected end of stream")
	}
}

func TestNextBitsMSBFirst(t *testing.T) {
	// 0xC8 = 1100_1000; bits are consumed LSB-of-byte first (0,0,0,1,0,0,1,1),
	// then MSBFirst accumulation makes the first bit read the accumulator's
	// most-significant bit.
	r := NewReader([]byte{0xC8})
	v, ok := r.NextBits(4, MSBFirst)
	if !ok || v != 0b0001 {
		t.Fatalf("got %#b, ok=%v", v, ok)
	}
	v, ok = r.NextBits(4, MSBFirst)
	if !ok || v != 0b0011 {
		t.Fatalf("got %#b, ok=%v", v, ok)
	}
}

func TestNextBitsLSBFirst(t *testing.T) {
	// 0x05 = 0000_0101; first three bits consumed (bit0, bit1, bit2) are
	// 1, 0, 1; LSB-first combines them as bit0=1, bit1=0, bit2=1 -> 0b101 = 5.
	r := NewReader([]byte{0x05})
	v, ok := r.NextBits(3, LSBFirst)
	if !ok || v != 0b101 {
		t.Fatalf("got %#b, ok=%v", v, ok)
	}
}

func TestFeed(t *testing.T) {
	r := NewReader([]byte{0xFF})
	for i := 0; i < 8; i++ {
		if _, ok := r.NextBit(); !ok {
			t.Fatalf("bit %d: unexpected end", i)
		}
	}
	if _, ok := r.NextBit(); ok {
		t.Fatal("expected exhaustion before feed")
	}
	r.Feed([]byte{0x00})
	v, ok := r.NextBit()
	if !ok || v != 0 {
		t.Fatalf("got %d, ok=%v", v, ok)
	}
}
