package schema

// ReadEfficientLength63 reads the SIS "efficient uint63" length encoding: a
// big-endian... no, little-endian-at-the-word-level uint32 x; if its high
// bit is clear the length is x, otherwise a second uint32 y follows and the
// length is ((x &^ 0x80000000) << 32) | y. Values below 2^31 therefore cost
// four bytes, larger ones cost eight.
func (r *Reader) ReadEfficientLength63() (int64, error) {
	x, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if x&0x80000000 == 0 {
		return int64(x), nil
	}
	y, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int64(x&0x7fffffff)<<32 | int64(y), nil
}
