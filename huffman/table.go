// Package huffman builds canonical Huffman decoding tables from a
// code-length array and decodes symbols one bit at a time, as used by the
// E32 image's non-standard Huffman/LZ77 decompressor.
package huffman

import (
	"errors"

	"github.com/symbianarchive/e32sis/bitio"
)

// ErrMalformedTree is returned by NewTable when a code-length array is
// over-subscribed (more codes of some length than that length can hold).
// Incomplete code-length arrays are accepted; Decode returns this error when
// it reads a prefix that no symbol was assigned.
var ErrMalformedTree = errors.New("huffman: malformed code-length tree")

// Table is a canonical Huffman decoder: it maps an accumulator holding a
// leading-sentinel-1 bit prefix to a symbol index.
type Table struct {
	codes  map[uint32]int
	maxAcc uint32
}

// NewTable builds a canonical Huffman table from lengths, one entry per
// symbol (0 means the symbol is unused). Symbols are numbered 0..len(lengths)-1
// in declaration order.
func NewTable(lengths []int) (*Table, error) {
	maxLen := 0
	nonzero := 0
	var onlySymbol = -1
	for sym, l := range lengths {
		if l > maxLen {
			maxLen = l
		}
		if l > 0 {
			nonzero++
			onlySymbol = sym
		}
	}

	t := &Table{codes: make(map[uint32]int, nonzero)}
	if maxLen == 0 {
		return t, nil
	}

	blCount := make([]int, maxLen+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}

	// Degenerate single-symbol case: force it to a one-bit code and accept
	// both the 0- and 1-terminated prefix (spec §4.2 special case).
	if nonzero == 1 {
		t.codes[0b10] = onlySymbol
		t.codes[0b11] = onlySymbol
		t.maxAcc = 0b11
		return t, nil
	}

	nextCode := make([]int, maxLen+1)
	code := 0
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		if c >= 1<<uint(l) {
			// More symbols claim length l than l bits can distinguish: the
			// per-length bucket overflowed instead of emptying exactly.
			return nil, ErrMalformedTree
		}
		acc := uint32(1)<<uint(l) | uint32(c)
		t.codes[acc] = sym
		if acc > t.maxAcc {
			t.maxAcc = acc
		}
	}

	return t, nil
}

// CodeFor returns the accumulator value (leading sentinel 1 bit followed by
// the symbol's canonical code bits, MSB-first) and its bit length for sym.
// It is used by tests to construct fixtures that this table will decode.
func (t *Table) CodeFor(sym int) (acc uint32, length int, ok bool) {
	for a, s := range t.codes {
		if s == sym {
			l := 0
			for x := a; x > 1; x >>= 1 {
				l++
			}
			return a, l, true
		}
	}
	return 0, 0, false
}

// Decode reads bits from r, MSB-first, until the accumulator matches a known
// code, returning the decoded symbol. It returns ErrMalformedTree if the
// accumulator exceeds the largest assigned code without matching one, and
// false (no error) if the stream runs out first.
func (t *Table) Decode(r *bitio.Reader) (int, bool, error) {
	if len(t.codes) == 0 {
		return 0, false, ErrMalformedTree
	}
	acc := uint32(1)
	for {
		bit, ok := r.NextBit()
		if !ok {
			return 0, false, nil
		}
		acc = acc<<1 | uint32(bit)
		if sym, ok := t.codes[acc]; ok {
			return sym, true, nil
		}
		if acc > t.maxAcc {
			return 0, false, ErrMalformedTree
		}
	}
}
