package inflate

import (
	"testing"

	"github.com/symbianarchive/e32sis/huffman"
)

// bitWriter packs bits into bytes least-significant-bit first, matching
// bitio.Reader's within-byte consumption order, for building test fixtures.
type bitWriter struct {
	bytes []byte
	cur   byte
	nbit  int
}

func (w *bitWriter) writeBit(b uint32) {
	w.cur |= byte(b&1) << uint(w.nbit)
	w.nbit++
	if w.nbit == 8 {
		w.bytes = append(w.bytes, w.cur)
		w.cur = 0
		w.nbit = 0
	}
}

func (w *bitWriter) writeBits(value uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.writeBit((value >> uint(i)) & 1)
	}
}

// writeCode emits a canonical huffman code for sym from t, stripping the
// leading sentinel bit that Table uses internally for matching.
func (w *bitWriter) writeCode(t *huffman.Table, sym int) {
	acc, length, ok := t.CodeFor(sym)
	if !ok {
		panic("no code for symbol")
	}
	// acc = 1<<length | codebits; drop the sentinel bit, keep the low
	// `length` bits.
	w.writeBits(acc&^(1<<uint(length)), length)
}

func (w *bitWriter) finish() []byte {
	for w.nbit != 0 {
		w.writeBit(0)
	}
	return w.bytes
}

// TestEmptyBodyOnlyEOS builds a hand-encoded stream whose code-length header
// describes an alphabet where every symbol has length 0 except the
// literal/length EOS symbol (length 1), and whose body is just that EOS
// code, matching spec scenario S4: empty body, immediate end of stream.
func TestEmptyBodyOnlyEOS(t *testing.T) {
	meta := huffman.MetaTable()
	w := &bitWriter{}

	// First block of 284 run-continuation zeros: each 0/1 meta symbol c
	// appends (running total + c + 1) copies, so this c-sequence appends
	// 1+2+4+9+18+36+71+143 = 284.
	for _, c := range []int{0, 0, 0, 1, 1, 1, 0, 1} {
		w.writeCode(meta, c)
	}
	// MTF pick selecting length 1 for EEos (meta symbol 2, with mtf in its
	// pristine state, yields the original index-1 value).
	w.writeCode(meta, 2)
	// MTF pick resetting `last` back to 0 (meta symbol 2 again, now selects
	// the freshly inserted duplicate-turned-neighbor value 0).
	w.writeCode(meta, 2)
	// Final block of 43 run-continuation zeros for the distance alphabet
	// (1+3+6+11+22).
	for _, c := range []int{0, 1, 1, 0, 0} {
		w.writeCode(meta, c)
	}

	// Body: a degenerate single-symbol table for EOS needs exactly 1 bit,
	// either value decodes to it.
	eosLengths := make([]int, ELitLens)
	eosLengths[EEos] = 1
	eosTable, err := huffman.NewTable(eosLengths)
	if err != nil {
		t.Fatal(err)
	}
	w.writeCode(eosTable, EEos)

	data := w.finish()

	out, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty body, got %d bytes", len(out))
	}
}

func TestBucketMaxSmallCodes(t *testing.T) {
	for code := 0; code < 8; code++ {
		xtra, preAdd := bucketMax(code)
		if xtra != 0 || preAdd != code {
			t.Fatalf("code=%d: got xtra=%d preAdd=%d", code, xtra, preAdd)
		}
	}
}

func TestInsertRemove(t *testing.T) {
	s := []int{0, 1, 2, 3}
	s = insertAt(s, 1, 9)
	if got := (s); len(got) != 5 || got[1] != 9 {
		t.Fatalf("insertAt: %v", got)
	}
	s = removeAt(s, 1)
	if len(s) != 4 || s[1] != 1 {
		t.Fatalf("removeAt: %v", s)
	}
}
