// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"fmt"

	"github.com/symbianarchive/e32sis/schema"
)

// Compression type values for E32ImageHeader.CompressionType.
const (
	KFormatNotCompressed    = 0
	KUidCompressionDeflate  = 0x101F7AFC
	KUidCompressionBytePair = 0x102822AA
)

// TCpu identifies the CPU architecture an E32 image was built for.
type TCpu uint16

// TCpu values, from e32exe.py.
const (
	ECpuUnknown TCpu = 0
	ECpuX86     TCpu = 0x1000
	ECpuArmV4   TCpu = 0x2000
	ECpuArmV5   TCpu = 0x2001
	ECpuArmV6   TCpu = 0x2002
	ECpuMCore   TCpu = 0x4000
)

func (c TCpu) String() string {
	switch c {
	case ECpuX86:
		return "x86"
	case ECpuArmV4:
		return "ARMv4"
	case ECpuArmV5:
		return "ARMv5"
	case ECpuArmV6:
		return "ARMv6"
	case ECpuMCore:
		return "MCore"
	default:
		return "unknown"
	}
}

// TVersion is the three-field {major, minor, build} version encoding used
// both for iModuleVersion's components and iToolsVersion.
type TVersion struct {
	Major int8
	Minor int8
	Build int16
}

// Millis64Since2000 is the raw 64-bit value stored in iTime. The original
// tool's own comment notes that despite the field's documented meaning
// ("milliseconds since midnight Jan 1st 2000"), the values actually seen in
// the wild do not correspond to any sane interpretation of that epoch at
// that unit -- dividing by 1000, or even 1000000, still leaves an
// implausible date. No decoding is attempted here; the raw value is
// preserved for display.
type Millis64Since2000 uint64

// E32Header is the 155-byte fixed prefix of an E32 image, bit-exact,
// little-endian.
type E32Header struct {
	UID1              uint32
	UID2              uint32
	UID3              uint32
	UIDChecksum       uint32
	Signature         uint32
	HeaderCrc         uint32
	ModuleVersion     uint32
	CompressionType   uint32
	ToolsVersion      TVersion
	Time              Millis64Since2000
	Flags             uint32
	CodeSize          int32
	DataSize          int32
	HeapSizeMin       int32
	HeapSizeMax       int32
	StackSize         int32
	BssSize           int32
	EntryPoint        uint32
	CodeBase          uint32
	DataBase          uint32
	DllRefTableCount  int32
	ExportDirOffset   uint32
	ExportDirCount    int32
	TextSize          int32
	CodeOffset        uint32
	DataOffset        uint32
	ImportOffset      uint32
	CodeRelocOffset   uint32
	DataRelocOffset   uint32
	ProcessPriority   uint16
	CpuIdentifier     TCpu
	UncompressedSize  uint32
	SecureID          uint32
	VendorID          uint32
	Caps1             uint32
	Caps2             uint32
	ExceptionDescriptor uint32
	Spare2            uint32
	ExportDescSize    uint16
	ExportDescType    uint8
}

const e32HeaderSize = 155 // bytes 0..154, before the variable ExportDesc trailer

const sigEPOC = 0x434f5045 // 'EPOC' little-endian as a u32

// E32Image is the parsed, structural view of an E32 executable image.
type E32Image struct {
	Header     E32Header
	ExportDesc []byte

	// Body is the header bytes (first CodeOffset bytes) concatenated with
	// the decompressed remainder, addressable by the offsets in Header.
	Body []byte

	Imports    []E32ImportBlock
	CodeRelocs E32RelocSection
	DataRelocs E32RelocSection
}

// parseHeader reads the 155-byte fixed prefix plus the variable
// ExportDesc trailer, validates the UID checksum, and returns the header.
func parseHeader(r *schema.Reader) (E32Header, []byte, error) {
	var h E32Header
	var err error
	if h.UID1, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if h.UID2, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if h.UID3, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if h.UIDChecksum, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if want, got := uidcrc(h.UID1, h.UID2, h.UID3), h.UIDChecksum; want != got {
		return h, nil, fmt.Errorf("%w: UID checksum %#x, want %#x", schema.ErrChecksumMismatch, got, want)
	}
	if h.Signature, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if h.Signature != sigEPOC {
		return h, nil, fmt.Errorf("%w: signature %#x is not 'EPOC'", schema.ErrParseError, h.Signature)
	}
	if h.HeaderCrc, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if h.ModuleVersion, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if h.CompressionType, err = r.ReadUint32(); err != nil {
		return h, nil, err
	}
	if err := r.ReadStruct(&h.ToolsVersion); err != nil {
		return h, nil, err
	}
	timeVal, err := r.ReadUint64()
	if err != nil {
		return h, nil, err
	}
	h.Time = Millis64Since2000(timeVal)

	u32 := func(dst *uint32) error {
		v, e := r.ReadUint32()
		*dst = v
		return e
	}
	i32 := func(dst *int32) error {
		v, e := r.ReadUint32()
		*dst = int32(v)
		return e
	}

	for _, step := range []func() error{
		func() error { return u32(&h.Flags) },
		func() error { return i32(&h.CodeSize) },
		func() error { return i32(&h.DataSize) },
		func() error { return i32(&h.HeapSizeMin) },
		func() error { return i32(&h.HeapSizeMax) },
		func() error { return i32(&h.StackSize) },
		func() error { return i32(&h.BssSize) },
		func() error { return u32(&h.EntryPoint) },
		func() error { return u32(&h.CodeBase) },
		func() error { return u32(&h.DataBase) },
		func() error { return i32(&h.DllRefTableCount) },
		func() error { return u32(&h.ExportDirOffset) },
		func() error { return i32(&h.ExportDirCount) },
		func() error { return i32(&h.TextSize) },
		func() error { return u32(&h.CodeOffset) },
		func() error { return u32(&h.DataOffset) },
		func() error { return u32(&h.ImportOffset) },
		func() error { return u32(&h.CodeRelocOffset) },
		func() error { return u32(&h.DataRelocOffset) },
	} {
		if err := step(); err != nil {
			return h, nil, err
		}
	}

	if h.ProcessPriority, err = r.ReadUint16(); err != nil {
		return h, nil, err
	}
	cpu, err := r.ReadUint16()
	if err != nil {
		return h, nil, err
	}
	h.CpuIdentifier = TCpu(cpu)

	if err := u32(&h.UncompressedSize); err != nil {
		return h, nil, err
	}
	if err := u32(&h.SecureID); err != nil {
		return h, nil, err
	}
	if err := u32(&h.VendorID); err != nil {
		return h, nil, err
	}
	if err := u32(&h.Caps1); err != nil {
		return h, nil, err
	}
	if err := u32(&h.Caps2); err != nil {
		return h, nil, err
	}
	if err := u32(&h.ExceptionDescriptor); err != nil {
		return h, nil, err
	}
	if err := u32(&h.Spare2); err != nil {
		return h, nil, err
	}
	if h.Spare2 != 0 {
		return h, nil, fmt.Errorf("%w: iSpare2 must be 0, got %#x", schema.ErrParseError, h.Spare2)
	}
	if h.ExportDescSize, err = r.ReadUint16(); err != nil {
		return h, nil, err
	}
	descType, err := r.ReadUint8()
	if err != nil {
		return h, nil, err
	}
	h.ExportDescType = descType

	exportDesc, err := r.ReadBytes(int(h.ExportDescSize))
	if err != nil {
		return h, nil, err
	}

	return h, exportDesc, nil
}
