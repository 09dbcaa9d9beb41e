// Package inflate implements the E32 image's non-standard Huffman/LZ77
// decompression scheme: a custom partition of the DEFLATE-style combined
// length/distance alphabet, with code lengths themselves Huffman-coded
// using a fixed 28-symbol meta alphabet, run-length-encoded, and
// move-to-front permuted.
package inflate

import (
	"errors"
	"fmt"

	"github.com/symbianarchive/e32sis/bitio"
	"github.com/symbianarchive/e32sis/huffman"
)

// ErrMalformedStream is returned for an incomplete Huffman tree, a
// back-reference distance exceeding emitted history, or a stream that ends
// before the end-of-stream symbol is seen.
var ErrMalformedStream = errors.New("inflate: malformed stream")

// Alphabet sizes, per the E32 compressor's own constants (spec §4.3); do not
// rely on hand-worked totals, only on these.
const (
	KDeflateLengthMag   = 8
	KDeflateDistanceMag = 12

	ELiterals = 256
	ELengths  = (KDeflateLengthMag - 1) * 4   // 28
	EDistance = (KDeflateDistanceMag - 1) * 4 // 44
	ESpecials = 1

	ELitLens = ELiterals + ELengths + ESpecials // 285
	EEos     = ELiterals + ELengths             // 284, the 285th litlen symbol

	KDeflationCodes      = ELitLens + EDistance // 329
	KDeflateDistCodeBase = 0x200
	KDeflateMinLength    = 3

	mtfSize = 28
)

// Decompress inflates a compressed E32 code/data region, given the already
// concatenated compressed byte stream (everything after the image header).
// It returns MalformedStream-wrapped errors on any structural violation.
func Decompress(compressed []byte) ([]byte, error) {
	br := bitio.NewReader(compressed)

	litlenLengths, distLengths, err := decodeCodeLengths(br)
	if err != nil {
		return nil, err
	}

	litlenTable, err := huffman.NewTable(litlenLengths)
	if err != nil {
		return nil, fmt.Errorf("%w: literal/length table: %v", ErrMalformedStream, err)
	}
	distTable, err := huffman.NewTable(distLengths)
	if err != nil {
		return nil, fmt.Errorf("%w: distance table: %v", ErrMalformedStream, err)
	}

	maxd := maxWindow(distLengths)

	return decodeBody(br, litlenTable, distTable, maxd)
}

// decodeCodeLengths reads the Huffman-coded, run-length/MTF-permuted
// code-length header and splits it into the literal/length and distance
// sub-alphabets.
func decodeCodeLengths(br *bitio.Reader) (litlen, dist []int, err error) {
	mtf := make([]int, mtfSize)
	for i := range mtf {
		mtf[i] = i
	}

	pending := make([]int, 0, KDeflationCodes)
	last := 0
	runningTotal := 0
	meta := huffman.MetaTable()

	for len(pending) < KDeflationCodes {
		c, ok, derr := meta.Decode(br)
		if derr != nil {
			return nil, nil, fmt.Errorf("%w: code-length meta symbol: %v", ErrMalformedStream, derr)
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: truncated code-length header", ErrMalformedStream)
		}

		if c == 0 || c == 1 {
			r := runningTotal + c + 1
			for i := 0; i < r; i++ {
				pending = append(pending, last)
			}
			runningTotal += r
			continue
		}

		runningTotal = 0
		mtf = insertAt(mtf, 1, last)
		if c >= len(mtf) {
			return nil, nil, fmt.Errorf("%w: move-to-front index out of range", ErrMalformedStream)
		}
		length := mtf[c]
		mtf = removeAt(mtf, c)
		pending = append(pending, length)
		last = length
	}

	if len(pending) != KDeflationCodes {
		return nil, nil, fmt.Errorf("%w: code-length header overshot target", ErrMalformedStream)
	}

	return pending[:ELitLens], pending[ELitLens:], nil
}

func insertAt(s []int, i, v int) []int {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt(s []int, i int) []int {
	copy(s[i:], s[i+1:])
	return s[:len(s)-1]
}

// bucketMax applies the extra-bits grouping formula to a raw (low 8-bit)
// code and returns the extra-bit count and the pre-extra-bits "max in
// bucket" value (spec §4.3).
func bucketMax(code int) (xtra, preAdd int) {
	if code < 8 {
		return 0, code
	}
	xtra = (code >> 2) - 1
	code -= xtra << 2
	code <<= uint(xtra)
	code |= (1 << uint(xtra)) - 1
	return xtra, code
}

// maxWindow computes the sliding-window size from the largest distance code
// actually present in the distance alphabet.
func maxWindow(distLengths []int) int {
	maxIdx := -1
	for i, l := range distLengths {
		if l > 0 {
			maxIdx = i
		}
	}
	if maxIdx < 0 {
		return 0
	}
	_, preAdd := bucketMax(maxIdx)
	return preAdd + 1
}

func decodeBody(br *bitio.Reader, litlenTable, distTable *huffman.Table, maxd int) ([]byte, error) {
	var out []byte
	runLength := 0
	onDistance := false

	for {
		table := litlenTable
		if onDistance {
			table = distTable
		}

		sym, ok, err := table.Decode(br)
		if err != nil {
			return nil, fmt.Errorf("%w: body symbol: %v", ErrMalformedStream, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: truncated body", ErrMalformedStream)
		}

		v := sym
		if onDistance {
			v += KDeflateDistCodeBase
		}

		if !onDistance && v < ELiterals {
			out = append(out, byte(v))
			continue
		}
		if v == EEos {
			break
		}

		code := v & 0xff
		xtra, preAdd := bucketMax(code)
		value := preAdd
		if xtra > 0 {
			extra, ok := br.NextBits(xtra, bitio.LSBFirst)
			if !ok {
				return nil, fmt.Errorf("%w: truncated extra bits", ErrMalformedStream)
			}
			value += int(extra)
		}

		if v < KDeflateDistCodeBase {
			runLength = value + KDeflateMinLength
			onDistance = true
			continue
		}

		d := value + 1
		if d > len(out) || (maxd > 0 && d > maxd) {
			return nil, fmt.Errorf("%w: back-reference distance %d exceeds history", ErrMalformedStream, d)
		}
		for i := 0; i < runLength; i++ {
			out = append(out, out[len(out)-d])
		}
		onDistance = false
	}

	return out, nil
}
