// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"testing"

	"github.com/symbianarchive/e32sis/schema"
)

// buildSISField encodes one tagged SIS record: a 4-byte tag, a 4-byte
// payload length, and payload (which must already be a multiple of 4 bytes
// so no alignment slack needs to be modeled).
func buildSISField(tag TField, payload []byte) []byte {
	if len(payload)%sisAlignment != 0 {
		panic("buildSISField: payload must be 4-byte aligned")
	}
	b := make([]byte, 8+len(payload))
	putU32LE(b[0:4], uint32(tag))
	putU32LE(b[4:8], uint32(len(payload)))
	copy(b[8:], payload)
	return b
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	putU32LE(b, v)
	return b
}

func utf16leString(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return out
}

func TestParseSISFieldDispatchesToString(t *testing.T) {
	raw := buildSISField(FieldSISString, utf16leString("AB"))
	r := schema.NewReader(raw)

	f, err := parseSISField(r)
	if err != nil {
		t.Fatal(err)
	}
	s, err := expectSISField[*SISString](f, FieldSISString)
	if err != nil {
		t.Fatal(err)
	}
	if s.String != "AB" {
		t.Fatalf("got %q, want %q", s.String, "AB")
	}
	if r.Tell() != r.Len() {
		t.Fatalf("reader left %d unread bytes", r.Len()-r.Tell())
	}
}

func TestParseSISFieldUnknownTagIsUnsupported(t *testing.T) {
	raw := buildSISField(TField(9001), nil)
	r := schema.NewReader(raw)
	if _, err := parseSISField(r); err == nil {
		t.Fatal("expected an error for an unregistered tag")
	}
}

func sisVersionField(major, minor, build uint32) []byte {
	payload := append(append(u32le(major), u32le(minor)...), u32le(build)...)
	return buildSISField(FieldSISVersion, payload)
}

func TestSISVersionRangeToVersionOptional(t *testing.T) {
	// Only FromVersion is present: CanBeLast must stop before ToVersion.
	raw := buildSISField(FieldSISVersionRange, sisVersionField(1, 0, 0))
	r := schema.NewReader(raw)

	f, err := parseSISField(r)
	if err != nil {
		t.Fatal(err)
	}
	vr, err := expectSISField[*SISVersionRange](f, FieldSISVersionRange)
	if err != nil {
		t.Fatal(err)
	}
	if vr.FromVersion.Major != 1 {
		t.Fatalf("FromVersion.Major = %d, want 1", vr.FromVersion.Major)
	}
	if vr.ToVersion != nil {
		t.Fatalf("ToVersion = %+v, want nil", vr.ToVersion)
	}
}

func TestSISVersionRangeToVersionPresent(t *testing.T) {
	payload := append(sisVersionField(1, 0, 0), sisVersionField(2, 0, 0)...)
	raw := buildSISField(FieldSISVersionRange, payload)
	r := schema.NewReader(raw)

	f, err := parseSISField(r)
	if err != nil {
		t.Fatal(err)
	}
	vr, err := expectSISField[*SISVersionRange](f, FieldSISVersionRange)
	if err != nil {
		t.Fatal(err)
	}
	if vr.ToVersion == nil || vr.ToVersion.Major != 2 {
		t.Fatalf("ToVersion = %+v, want Major=2", vr.ToVersion)
	}
}

// sisStringField builds a SISString SISField byte sequence for s.
func sisStringField(s string) []byte {
	return buildSISField(FieldSISString, utf16leString(s))
}

func sisHashField(algo uint32, blob []byte) []byte {
	payload := append(u32le(algo), buildSISField(FieldSISBlob, blob)...)
	return buildSISField(FieldSISHash, payload)
}

func TestSISFileDescriptionSkipsAbsentCapabilities(t *testing.T) {
	var payload []byte
	payload = append(payload, sisStringField("\\sys\\bin\\foo.txt")...)
	payload = append(payload, sisStringField("text/plain")...)
	// Capabilities omitted: the very next tagged record is SISHash.
	payload = append(payload, sisHashField(0, []byte{0, 0, 0, 0})...)
	payload = append(payload, u32le(0)...)    // Operation
	payload = append(payload, u32le(0)...)    // OperationOptions
	payload = append(payload, 0, 0, 0, 0, 0, 0, 0, 0) // FileLength (uint64)
	payload = append(payload, 0, 0, 0, 0, 0, 0, 0, 0) // UncompressedLength (uint64)
	payload = append(payload, u32le(3)...)    // FileIndex

	raw := buildSISField(FieldSISFileDescription, payload)
	r := schema.NewReader(raw)

	f, err := parseSISField(r)
	if err != nil {
		t.Fatal(err)
	}
	fd, err := expectSISField[*SISFileDescription](f, FieldSISFileDescription)
	if err != nil {
		t.Fatal(err)
	}
	if fd.Capabilities != nil {
		t.Fatalf("Capabilities = %+v, want nil", fd.Capabilities)
	}
	if fd.FileIndex != 3 {
		t.Fatalf("FileIndex = %d, want 3", fd.FileIndex)
	}
	if fd.Target.String != `\sys\bin\foo.txt` {
		t.Fatalf("Target = %q", fd.Target.String)
	}
}

func TestSISExpressionLeafHasNoOperands(t *testing.T) {
	// Operator + IntegerValue + a leaf StringValue filling the whole frame:
	// both LeftExpression and RightExpression must be left nil.
	payload := append(u32le(0), u32le(42)...)
	payload = append(payload, sisStringField("")...)

	raw := buildSISField(FieldSISExpression, payload)
	r := schema.NewReader(raw)

	f, err := parseSISField(r)
	if err != nil {
		t.Fatal(err)
	}
	expr, err := expectSISField[*SISExpression](f, FieldSISExpression)
	if err != nil {
		t.Fatal(err)
	}
	if expr.IntegerValue != 42 {
		t.Fatalf("IntegerValue = %d, want 42", expr.IntegerValue)
	}
	if expr.LeftExpression != nil || expr.RightExpression != nil {
		t.Fatalf("expected a leaf expression with no operands, got %+v", expr)
	}
}
