package huffman

import (
	"testing"

	"github.com/symbianarchive/e32sis/bitio"
)

func TestDegenerateSingleSymbol(t *testing.T) {
	lengths := make([]int, 28)
	lengths[0] = 1
	tbl, err := NewTable(lengths)
	if err != nil {
		t.Fatal(err)
	}

	for _, bit := range []byte{1, 0} {
		r := bitio.NewReader([]byte{bit})
		sym, ok, err := tbl.Decode(r)
		if err != nil || !ok {
			t.Fatalf("bit=%d: err=%v ok=%v", bit, err, ok)
		}
		if sym != 0 {
			t.Fatalf("bit=%d: got symbol %d, want 0", bit, sym)
		}
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	// Three symbols of lengths 1, 2, 2 -- classic canonical example.
	lengths := []int{1, 2, 2}
	tbl, err := NewTable(lengths)
	if err != nil {
		t.Fatal(err)
	}
	// canonical codes: sym0="0", sym1="10", sym2="11"
	cases := []struct {
		bits []byte
		want int
	}{
		{[]byte{0}, 0},
		{[]byte{1, 0}, 1},
		{[]byte{1, 1}, 2},
	}
	for _, c := range cases {
		buf := packBits(c.bits)
		r := bitio.NewReader(buf)
		sym, ok, err := tbl.Decode(r)
		if err != nil || !ok {
			t.Fatalf("%v: err=%v ok=%v", c.bits, err, ok)
		}
		if sym != c.want {
			t.Fatalf("%v: got %d, want %d", c.bits, sym, c.want)
		}
	}
}

func TestOverSubscribedIsMalformed(t *testing.T) {
	// Three symbols claiming the only two length-1 codes is over-subscribed
	// (not the degenerate single-symbol case, since nonzero == 3).
	lengths := []int{1, 1, 1}
	if _, err := NewTable(lengths); err == nil {
		t.Fatal("expected malformed tree error")
	}
}

// packBits packs a slice of 0/1 values into bytes, each byte filled
// least-significant-bit first (matching bitio.Reader's within-byte order),
// padding with 0.
func packBits(bits []byte) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
