// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"fmt"

	"github.com/symbianarchive/e32sis/schema"
)

// Relocation entry type, the top 4 bits of each 16-bit reloc entry.
const (
	relocTypeReserved = 0x0000
	relocTypeCode     = 0x1000
	relocTypeData     = 0x2000
	relocTypeInferred = 0x3000
)

// E32Reloc is one relocation entry: the absolute file offset it applies to
// and the section it rebases against.
type E32Reloc struct {
	Offset uint32
	Type   uint16 // relocTypeCode, relocTypeData, or relocTypeInferred
}

// E32RelocSection is a parsed relocation section ({iSize, iNumberOfRelocs,
// blocks[]}), flattened to a list of individual entries with absolute
// offsets.
type E32RelocSection struct {
	Entries []E32Reloc
}

// parseE32Relocations reads the code relocation section (always present)
// and the data relocation section (only when iDataSize > 0).
func (sf *File) parseE32Relocations(img *E32Image) error {
	h := img.Header

	code, err := parseRelocSection(img.Body, h.CodeRelocOffset, sf.opts.MaxRelocEntriesCount)
	if err != nil {
		return fmt.Errorf("code relocations: %w", err)
	}
	img.CodeRelocs = code

	if h.DataSize > 0 {
		data, err := parseRelocSection(img.Body, h.DataRelocOffset, sf.opts.MaxRelocEntriesCount)
		if err != nil {
			return fmt.Errorf("data relocations: %w", err)
		}
		img.DataRelocs = data
	}

	return nil
}

// parseRelocSection reads {iSize, iNumberOfRelocs, blocks[]} starting at
// offset within body. Each block is {iPageOffset (4KiB-aligned),
// iBlockSize (self-inclusive, multiple of 4), entries[16-bit]}. An entry's
// low 12 bits are a page-relative byte offset; the top 4 bits are the type.
// Type 0 entries are padding and are skipped.
func parseRelocSection(body []byte, offset uint32, maxEntries uint32) (E32RelocSection, error) {
	var out E32RelocSection
	if offset == 0 || int(offset) >= len(body) {
		return out, nil
	}

	r := schema.NewReader(body)
	if _, err := r.ReadBytes(int(offset)); err != nil {
		return out, err
	}

	size, err := r.ReadUint32()
	if err != nil {
		return out, err
	}
	numRelocs, err := r.ReadUint32()
	if err != nil {
		return out, err
	}
	if numRelocs > maxEntries {
		return out, fmt.Errorf("%w: relocation section declares %d entries, exceeding the configured limit", ErrParseError, numRelocs)
	}

	sectionEnd := r.Tell() - 8 + int64(size)

	for r.Tell() < sectionEnd {
		pageOffset, err := r.ReadUint32()
		if err != nil {
			return out, err
		}
		blockSize, err := r.ReadUint32()
		if err != nil {
			return out, err
		}
		if blockSize < 8 || blockSize%4 != 0 {
			return out, fmt.Errorf("%w: relocation block size %d is not a multiple of 4 >= 8", ErrParseError, blockSize)
		}
		numEntries := (blockSize - 8) / 2

		for i := uint32(0); i < numEntries; i++ {
			entry, err := r.ReadUint16()
			if err != nil {
				return out, err
			}
			typ := entry & 0xF000
			if typ == relocTypeReserved {
				continue
			}
			relOffset := uint32(entry & 0x0FFF)
			out.Entries = append(out.Entries, E32Reloc{
				Offset: pageOffset + relOffset,
				Type:   typ,
			})
			if len(out.Entries) > int(maxEntries) {
				return out, fmt.Errorf("%w: relocation entries exceed the configured limit", ErrParseError)
			}
		}
	}

	return out, nil
}
