// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// zlibStream wraps a stock DEFLATE/zlib inflater behind the narrow,
// position-tracking interface the SIS schema's sub-parsers expect: Read,
// Tell, and a one-byte rewind usable exactly once, immediately after a
// Read, for SkipNextIfByte. The position counter tracks bytes the consumer
// has observed rather than bytes consumed from the backing inflater, so a
// rewound byte is re-observed rather than double-counted.
type zlibStream struct {
	zr       io.ReadCloser
	pos      int64
	rewound  bool
	lastByte byte
	haveLast bool
}

// newZlibStream opens a zlib reader over compressed, the way
// github.com/klauspost/compress/zlib wraps a stock DEFLATE stream.
func newZlibStream(compressed []byte) (*zlibStream, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	return &zlibStream{zr: zr}, nil
}

// Tell returns the number of bytes the consumer has observed so far.
func (z *zlibStream) Tell() int64 { return z.pos }

// Peek returns the next byte without consuming it from the consumer's point
// of view: it reads one byte and immediately arms the one-byte rewind.
func (z *zlibStream) Peek() (byte, bool, error) {
	b, err := z.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, false, nil
		}
		return 0, false, err
	}
	z.Rewind()
	return b, true, nil
}

// ReadByte reads and returns a single byte, advancing the position.
func (z *zlibStream) ReadByte() (byte, error) {
	if z.rewound {
		z.rewound = false
		z.pos++
		return z.lastByte, nil
	}
	var buf [1]byte
	if _, err := io.ReadFull(z.zr, buf[:]); err != nil {
		return 0, err
	}
	z.lastByte = buf[0]
	z.haveLast = true
	z.pos++
	return buf[0], nil
}

// Rewind un-reads the most recently read byte. It may be called at most
// once per Read/ReadByte.
func (z *zlibStream) Rewind() {
	if !z.haveLast || z.rewound {
		return
	}
	z.rewound = true
	z.pos--
}

// Read fills p, implementing io.Reader.
func (z *zlibStream) Read(p []byte) (int, error) {
	n := 0
	if z.rewound && len(p) > 0 {
		p[0] = z.lastByte
		z.rewound = false
		n = 1
		z.pos++
	}
	if n == len(p) {
		return n, nil
	}
	m, err := z.zr.Read(p[n:])
	z.pos += int64(m)
	if m > 0 {
		z.lastByte = p[n+m-1]
		z.haveLast = true
	}
	return n + m, err
}

// ReadAll reads the entire remaining decompressed stream.
func (z *zlibStream) ReadAll() ([]byte, error) {
	return io.ReadAll(z)
}

// Close releases the underlying inflater.
func (z *zlibStream) Close() error { return z.zr.Close() }

// inflateZlib decompresses a complete in-memory zlib stream, used by
// SISCompressed.plain for SISCompressedDeflate payloads, where the whole
// payload is available up front.
func inflateZlib(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
