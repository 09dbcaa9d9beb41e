// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"fmt"

	"github.com/symbianarchive/e32sis/schema"
)

// sisAlignment is ALIGNMENT for every SIS record.
const sisAlignment = 4

// TField identifies a SISField variant. Values and order are load-bearing:
// they are the on-disk tag, transliterated from sisfile.py's TField enum.
type TField int32

const (
	FieldInvalid TField = iota
	FieldSISString
	FieldSISArray
	FieldSISCompressed
	FieldSISVersion
	FieldSISVersionRange
	FieldSISDate
	FieldSISTime
	FieldSISDateTime
	FieldSISUid
	fieldUnused10
	FieldSISLanguage
	FieldSISContents
	FieldSISController
	FieldSISInfo
	FieldSISSupportedLanguages
	FieldSISSupportedOptions
	FieldSISPrerequisites
	FieldSISDependency
	FieldSISProperties
	FieldSISProperty
	fieldSISSignatures21
	FieldSISCertificateChain
	FieldSISLogo
	FieldSISFileDescription
	FieldSISHash
	FieldSISIf
	FieldSISElseIf
	FieldSISInstallBlock
	FieldSISExpression
	FieldSISData
	FieldSISDataUnit
	FieldSISFileData
	FieldSISSupportedOption
	FieldSISControllerChecksum
	FieldSISDataChecksum
	FieldSISSignature
	FieldSISBlob
	FieldSISSignatureAlgorithm
	FieldSISSignatureCertificateChain
	FieldSISDataIndex
	FieldSISCapabilities
)

var tFieldNames = map[TField]string{
	FieldInvalid:                      "INVALID",
	FieldSISString:                    "SISString",
	FieldSISArray:                     "SISArray",
	FieldSISCompressed:                "SISCompressed",
	FieldSISVersion:                   "SISVersion",
	FieldSISVersionRange:              "SISVersionRange",
	FieldSISDate:                      "SISDate",
	FieldSISTime:                      "SISTime",
	FieldSISDateTime:                  "SISDateTime",
	FieldSISUid:                       "SISUid",
	FieldSISLanguage:                  "SISLanguage",
	FieldSISContents:                  "SISContents",
	FieldSISController:                "SISController",
	FieldSISInfo:                      "SISInfo",
	FieldSISSupportedLanguages:        "SISSupportedLanguages",
	FieldSISSupportedOptions:          "SISSupportedOptions",
	FieldSISPrerequisites:             "SISPrerequisites",
	FieldSISDependency:                "SISDependency",
	FieldSISProperties:                "SISProperties",
	FieldSISProperty:                  "SISProperty",
	FieldSISCertificateChain:          "SISCertificateChain",
	FieldSISLogo:                      "SISLogo",
	FieldSISFileDescription:           "SISFileDescription",
	FieldSISHash:                      "SISHash",
	FieldSISIf:                        "SISIf",
	FieldSISElseIf:                    "SISElseIf",
	FieldSISInstallBlock:              "SISInstallBlock",
	FieldSISExpression:                "SISExpression",
	FieldSISData:                      "SISData",
	FieldSISDataUnit:                  "SISDataUnit",
	FieldSISFileData:                  "SISFileData",
	FieldSISSupportedOption:           "SISSupportedOption",
	FieldSISControllerChecksum:        "SISControllerChecksum",
	FieldSISDataChecksum:              "SISDataChecksum",
	FieldSISSignature:                 "SISSignature",
	FieldSISBlob:                      "SISBlob",
	FieldSISSignatureAlgorithm:        "SISSignatureAlgorithm",
	FieldSISSignatureCertificateChain: "SISSignatureCertificateChain",
	FieldSISDataIndex:                 "SISDataIndex",
	FieldSISCapabilities:              "SISCapabilities",
}

func (f TField) String() string {
	if s, ok := tFieldNames[f]; ok {
		return s
	}
	return fmt.Sprintf("TField(%d)", int32(f))
}

// TCompressionAlgorithm selects SISCompressed's subclass.
type TCompressionAlgorithm uint32

const (
	SISCompressedNone    TCompressionAlgorithm = 0
	SISCompressedDeflate TCompressionAlgorithm = 1
)

// TLanguage is SISLanguage's payload. Only two variants are attested in the
// source; names are invented since the original table was not recovered.
type TLanguage uint32

const (
	LanguageC  TLanguage = 0
	LanguageEN TLanguage = 1
)

// sisFieldBody is implemented by every SISField variant's payload type. The
// method is unexported, sealing the set of implementations to this package
// the way a closed sum type would be in a language with tagged unions;
// callers type-switch or type-assert on SISField.Value using the exported
// variant types below.
type sisFieldBody interface {
	parseBody(r *schema.Reader, frameEnd int64) error
}

// SISField is the tagged-union envelope every SIS record shares: a 32-bit
// type tag, an efficient-uint63 payload length, and the variant-specific
// payload in Value.
type SISField struct {
	Type   TField
	Length int64
	Value  sisFieldBody
}

var sisFieldCtors = map[TField]func() sisFieldBody{
	FieldSISString:                    func() sisFieldBody { return &SISString{} },
	FieldSISArray:                     func() sisFieldBody { return &SISArray{} },
	FieldSISCompressed:                func() sisFieldBody { return &SISCompressed{} },
	FieldSISVersion:                   func() sisFieldBody { return &SISVersion{} },
	FieldSISVersionRange:              func() sisFieldBody { return &SISVersionRange{} },
	FieldSISDate:                      func() sisFieldBody { return &SISDate{} },
	FieldSISTime:                      func() sisFieldBody { return &SISTime{} },
	FieldSISDateTime:                  func() sisFieldBody { return &SISDateTime{} },
	FieldSISUid:                       func() sisFieldBody { return &SISUid{} },
	FieldSISLanguage:                  func() sisFieldBody { return &SISLanguage{} },
	FieldSISContents:                  func() sisFieldBody { return &SISContents{} },
	FieldSISController:                func() sisFieldBody { return &SISController{} },
	FieldSISInfo:                      func() sisFieldBody { return &SISInfo{} },
	FieldSISSupportedLanguages:        func() sisFieldBody { return &SISSupportedLanguages{} },
	FieldSISSupportedOptions:          func() sisFieldBody { return &SISSupportedOptions{} },
	FieldSISPrerequisites:             func() sisFieldBody { return &SISPrerequisites{} },
	FieldSISDependency:                func() sisFieldBody { return &SISDependency{} },
	FieldSISProperties:                func() sisFieldBody { return &SISProperties{} },
	FieldSISProperty:                  func() sisFieldBody { return &SISProperty{} },
	FieldSISCertificateChain:          func() sisFieldBody { return &SISCertificateChain{} },
	FieldSISLogo:                      func() sisFieldBody { return &SISLogo{} },
	FieldSISFileDescription:           func() sisFieldBody { return &SISFileDescription{} },
	FieldSISHash:                      func() sisFieldBody { return &SISHash{} },
	FieldSISIf:                        func() sisFieldBody { return &SISIf{} },
	FieldSISElseIf:                    func() sisFieldBody { return &SISElseIf{} },
	FieldSISInstallBlock:              func() sisFieldBody { return &SISInstallBlock{} },
	FieldSISExpression:                func() sisFieldBody { return &SISExpression{} },
	FieldSISData:                      func() sisFieldBody { return &SISData{} },
	FieldSISDataUnit:                  func() sisFieldBody { return &SISDataUnit{} },
	FieldSISFileData:                  func() sisFieldBody { return &SISFileData{} },
	FieldSISSupportedOption:           func() sisFieldBody { return &SISSupportedOption{} },
	FieldSISControllerChecksum:        func() sisFieldBody { return &SISControllerChecksum{} },
	FieldSISDataChecksum:              func() sisFieldBody { return &SISDataChecksum{} },
	FieldSISSignature:                 func() sisFieldBody { return &SISSignature{} },
	FieldSISBlob:                      func() sisFieldBody { return &SISBlob{} },
	FieldSISSignatureAlgorithm:        func() sisFieldBody { return &SISSignatureAlgorithm{} },
	FieldSISSignatureCertificateChain: func() sisFieldBody { return &SISSignatureCertificateChain{} },
	FieldSISDataIndex:                 func() sisFieldBody { return &SISDataIndex{} },
	FieldSISCapabilities:              func() sisFieldBody { return &SISCapabilities{} },
}

// parseSISField reads one tag-dispatched SIS record: Type, the
// efficient-uint63 Length (a StructurePayloadLength field), the
// tag-matched variant's fields, and validates the frame end against
// Length with up to sisAlignment bytes of trailing zero padding.
func parseSISField(r *schema.Reader) (*SISField, error) {
	if err := r.Align(sisAlignment); err != nil {
		return nil, err
	}

	tag, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	typ := TField(tag)

	length, err := r.ReadEfficientLength63()
	if err != nil {
		return nil, err
	}
	frameEnd := r.Tell() + length

	ctor, ok := sisFieldCtors[typ]
	if !ok {
		return nil, fmt.Errorf("%w: no SISField subclass registered for tag %s", ErrUnsupported, typ)
	}
	value := ctor()
	if err := value.parseBody(r, frameEnd); err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}
	if err := r.ValidateFrameEnd(frameEnd, sisAlignment); err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}

	return &SISField{Type: typ, Length: length, Value: value}, nil
}

// parseSISFieldAs reads one SISArray element: unlike parseSISField, it does
// not read a per-element Type tag. The element's type is fixed in advance
// by the enclosing SISArray's own ElementType (the original's init_common
// assigns Type once on the array and the parse loop skips any field already
// set), so only the efficient-uint63 Length and the typ-dispatched payload
// follow on disk.
func parseSISFieldAs(r *schema.Reader, typ TField) (*SISField, error) {
	if err := r.Align(sisAlignment); err != nil {
		return nil, err
	}

	length, err := r.ReadEfficientLength63()
	if err != nil {
		return nil, err
	}
	frameEnd := r.Tell() + length

	ctor, ok := sisFieldCtors[typ]
	if !ok {
		return nil, fmt.Errorf("%w: no SISField subclass registered for tag %s", ErrUnsupported, typ)
	}
	value := ctor()
	if err := value.parseBody(r, frameEnd); err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}
	if err := r.ValidateFrameEnd(frameEnd, sisAlignment); err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}

	return &SISField{Type: typ, Length: length, Value: value}, nil
}

// expect type-asserts f.Value, failing with ErrParseError if f is nil or
// the tag doesn't match the expected Go type.
func expectSISField[T sisFieldBody](f *SISField, want TField) (T, error) {
	var zero T
	if f == nil {
		return zero, fmt.Errorf("%w: expected %s, got no record", ErrParseError, want)
	}
	v, ok := f.Value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: expected %s, got %s", ErrParseError, want, f.Type)
	}
	return v, nil
}

// parseSIS parses sf.raw as a SIS package: the 16-byte file header followed
// by a single top-level SISContents record.
func (sf *File) parseSIS() error {
	r := schema.NewReader(sf.raw)

	uid1, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if uid1 != sisUID1 {
		return fmt.Errorf("%w: UID1 %#x, want %#x", ErrParseError, uid1, sisUID1)
	}
	uid2, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if uid2 != 0 {
		return fmt.Errorf("%w: UID2 %#x, want 0", ErrParseError, uid2)
	}
	uid3, err := r.ReadUint32()
	if err != nil {
		return err
	}
	checksum, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if want := uidcrc(uid1, uid2, uid3); want != checksum {
		sf.Anomalies = append(sf.Anomalies, fmt.Sprintf(
			"SIS UID checksum %#x does not match computed %#x", checksum, want))
		sf.logger.Warnf("sis: UID checksum mismatch: declared=%#x computed=%#x", checksum, want)
	}

	field, err := parseSISField(r)
	if err != nil {
		return err
	}
	contents, err := expectSISField[*SISContents](field, FieldSISContents)
	if err != nil {
		return err
	}

	sf.SIS = &SISFile{
		Header:   SISFileHeader{UID1: uid1, UID2: uid2, UID3: uid3, UIDChecksum: checksum},
		Contents: contents,
	}
	return nil
}

const sisUID1 = 0x10201A7A

// SISFileHeader is the fixed 16-byte prefix of a SIS package.
type SISFileHeader struct {
	UID1        uint32
	UID2        uint32
	UID3        uint32
	UIDChecksum uint32
}

// SISFile is the parsed top-level view of a SIS package.
type SISFile struct {
	Header   SISFileHeader
	Contents *SISContents
}
