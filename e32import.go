// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"fmt"
	"strings"

	"github.com/symbianarchive/e32sis/schema"
)

// E32ImportBlock is one DLL's worth of ordinal imports: a count-prefixed
// list of (DLL-name-offset, import count, ordinal/offset values) read from
// the import section at iImportOffset, per spec §4.6.
type E32ImportBlock struct {
	DLLName string
	Values  []uint32 // raw iat-style values; ordinal = v % 0x1000, addend = v / 0x1000

	// Resolved holds the symbol name each Values entry was resolved to,
	// parallel to Values; an empty string means resolution failed or was
	// disabled.
	Resolved []string
}

// Ordinal returns the ordinal encoded in the i'th import value.
func (b *E32ImportBlock) Ordinal(i int) uint32 { return b.Values[i] % 0x1000 }

// Addend returns the addend encoded in the i'th import value.
func (b *E32ImportBlock) Addend(i int) uint32 { return b.Values[i] / 0x1000 }

// parseE32Imports reads the import section: a count-prefixed list of import
// blocks (count = iDllRefTableCount), each a DLL-name offset relative to the
// import section, an import count, and an ordinal/offset list.
func (sf *File) parseE32Imports(img *E32Image) error {
	h := img.Header
	if h.DllRefTableCount == 0 {
		return nil
	}
	if int(h.ImportOffset) >= len(img.Body) {
		return fmt.Errorf("%w: iImportOffset %d outside body", ErrParseError, h.ImportOffset)
	}

	r := schema.NewReader(img.Body)
	if _, err := r.ReadBytes(int(h.ImportOffset)); err != nil {
		return err
	}

	blocks := make([]E32ImportBlock, 0, h.DllRefTableCount)
	for i := int32(0); i < h.DllRefTableCount; i++ {
		nameOffset, err := r.ReadUint32()
		if err != nil {
			return err
		}
		count, err := r.ReadUint32()
		if err != nil {
			return err
		}
		if count > sf.opts.MaxImportsCount {
			return fmt.Errorf("%w: import block %d declares %d entries, exceeding the configured limit", ErrParseError, i, count)
		}

		name, err := readCString(img.Body, int(h.ImportOffset)+int(nameOffset))
		if err != nil {
			return err
		}

		vals := make([]uint32, count)
		for j := range vals {
			v, err := r.ReadUint32()
			if err != nil {
				return err
			}
			vals[j] = v
		}

		blocks = append(blocks, E32ImportBlock{DLLName: name, Values: vals})
	}

	if !sf.opts.DisableOrdinalResolution {
		for bi := range blocks {
			resolveOrdinals(&blocks[bi])
		}
	}

	img.Imports = blocks
	return nil
}

func readCString(body []byte, offset int) (string, error) {
	if offset < 0 || offset >= len(body) {
		return "", fmt.Errorf("%w: string offset %d outside body", ErrParseError, offset)
	}
	end := offset
	for end < len(body) && body[end] != 0 {
		end++
	}
	if end >= len(body) {
		return "", fmt.Errorf("%w: unterminated string at offset %d", ErrTruncatedInput, offset)
	}
	return string(body[offset:end]), nil
}

// canonicalDLLBasename strips the extension and any trailing "{uid}" suffix
// from an import DLL name and lowercases it, per spec §4.6's basename
// resolution rule.
func canonicalDLLBasename(name string) string {
	name = strings.ToLower(name)
	if i := strings.IndexByte(name, '{'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}
