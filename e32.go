// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"fmt"

	"github.com/symbianarchive/e32sis/inflate"
	"github.com/symbianarchive/e32sis/schema"
)

// parseE32 parses sf.raw as an E32 image: fixed header, decompression of
// the code/data regions, and (unless Options.Fast) the import and
// relocation sections.
func (sf *File) parseE32() error {
	r := schema.NewReader(sf.raw)

	header, exportDesc, err := parseHeader(r)
	if err != nil {
		return err
	}

	img := &E32Image{Header: header, ExportDesc: exportDesc}

	headerBytes := sf.raw
	if int(header.CodeOffset) > len(sf.raw) {
		return fmt.Errorf("%w: CodeOffset %d exceeds file size %d", ErrTruncatedInput, header.CodeOffset, len(sf.raw))
	}
	head := headerBytes[:header.CodeOffset]

	switch header.CompressionType {
	case KFormatNotCompressed:
		img.Body = append(append([]byte(nil), head...), sf.raw[header.CodeOffset:]...)

	case KUidCompressionDeflate:
		compressed := sf.raw[header.CodeOffset:]
		plain, err := inflate.Decompress(compressed)
		if err != nil {
			return err
		}
		img.Body = append(append([]byte(nil), head...), plain...)

	case KUidCompressionBytePair:
		return fmt.Errorf("%w: byte-pair compression is not implemented", ErrUnsupported)

	default:
		return fmt.Errorf("%w: unrecognized compression type %#x", ErrUnsupported, header.CompressionType)
	}

	if computed := crc32HeaderChecksum(head); computed != header.HeaderCrc {
		sf.Anomalies = append(sf.Anomalies, fmt.Sprintf(
			"iHeaderCrc %#x does not match computed CRC-32 %#x", header.HeaderCrc, computed))
		sf.logger.Warnf("e32: header CRC mismatch: declared=%#x computed=%#x", header.HeaderCrc, computed)
	}

	sf.E32 = img

	if sf.opts.Fast {
		return nil
	}

	if err := sf.parseE32Imports(img); err != nil {
		return err
	}
	if err := sf.parseE32Relocations(img); err != nil {
		return err
	}
	return nil
}

// Code returns the E32 image's code section.
func (img *E32Image) Code() []byte {
	return sectionAt(img.Body, img.Header.CodeOffset, uint32(img.Header.CodeSize))
}

// Data returns the E32 image's initialized data section.
func (img *E32Image) Data() []byte {
	if img.Header.DataSize <= 0 {
		return nil
	}
	return sectionAt(img.Body, img.Header.DataOffset, uint32(img.Header.DataSize))
}

func sectionAt(body []byte, offset, size uint32) []byte {
	end := offset + size
	if int(offset) > len(body) || int(end) > len(body) || end < offset {
		return nil
	}
	return body[offset:end]
}
