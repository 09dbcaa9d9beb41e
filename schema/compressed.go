package schema

import "fmt"

// ParseCompressed reads payloadLen raw bytes, hands them to decompress, and
// parses T from the result. It implements the SISCompressed[T]/
// SISCompressedDeflate[T] template: the compression algorithm itself
// (zlib, or the E32 Huffman/LZ77 scheme) is supplied by the caller so this
// package stays independent of any particular codec, the same way the
// original's template parameter is bound per instantiation site.
func ParseCompressed[T Parser](r *Reader, payloadLen int64, decompress func([]byte) ([]byte, error), newT func() T) (T, error) {
	var zero T
	raw, err := r.ReadBytes(int(payloadLen))
	if err != nil {
		return zero, err
	}
	plain, err := decompress(raw)
	if err != nil {
		return zero, fmt.Errorf("decompressing templated payload: %w", err)
	}
	inner := NewReader(plain)
	v := newT()
	if err := v.Parse(inner); err != nil {
		return zero, err
	}
	return v, nil
}
