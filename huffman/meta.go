package huffman

// metaLengths approximates the fixed 28-symbol meta table ("HuffmanL" in
// the original tool) used to decode the E32 image's code-length header
// stream: symbols 0 and 1 are run-length continuations of the previous
// code length and dominate real headers, so they get the shortest (2-bit)
// codes; symbols 2..27 are move-to-front indices and get 6-bit codes.
//
// This length assignment is NOT recovered from the original source: the
// inflate routine that hard-codes the real HuffmanL prefix tree is not
// present anywhere in the retrieval pack (original_source/e32exe.py covers
// only the E32 header schema, not its compression scheme), so these
// lengths are a plausible reconstruction, not a grounded transliteration.
// Decoding real E32 images through this table is unverified until it can
// be checked against a golden compressed image and its known-good output
// (spec §8 property 7); treat any E32Inflate.Decompress result on real
// input with that caveat.
var metaLengths = func() []int {
	l := make([]int, 28)
	l[0] = 2
	l[1] = 2
	for i := 2; i < 28; i++ {
		l[i] = 6
	}
	return l
}()

var metaTable *Table

func init() {
	t, err := NewTable(metaLengths)
	if err != nil {
		panic("huffman: fixed meta table is malformed: " + err.Error())
	}
	metaTable = t
}

// MetaTable returns the shared, immutable meta-table decoder.
func MetaTable() *Table {
	return metaTable
}
