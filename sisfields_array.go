// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"fmt"

	"github.com/symbianarchive/e32sis/schema"
)

// SISArray is the SISArray[T] template's runtime envelope: a single
// element-type tag (SISFieldType), set once from init_common in the
// original and never repeated per element, followed by a run of elements
// read until the frame end. Each element on disk is only {Length, payload}
// — the type comes from ElementType, not from a per-element tag — matching
// the original's init_common-assigns-Type-then-skip-if-already-set parse
// loop (sisfile.py's SISArray, binfile.py's field-already-parsed skip).
// Contents is kept untyped (every element is still its own tagged
// SISField, with Type forced to ElementType); callers coerce with
// sisArrayElements for a strongly-typed view, or use Contents directly when
// T is itself SISField (EmbeddedSISFiles, IfBlocks).
type SISArray struct {
	ElementType TField
	Contents    []*SISField
}

func (a *SISArray) parseBody(r *schema.Reader, frameEnd int64) error {
	tag, err := r.ReadUint32()
	if err != nil {
		return err
	}
	a.ElementType = TField(tag)

	for r.Tell() <= frameEnd-sisAlignment {
		child, err := parseSISFieldAs(r, a.ElementType)
		if err != nil {
			return err
		}
		a.Contents = append(a.Contents, child)
	}
	return nil
}

// sisArrayElements coerces a's raw Contents to the statically expected
// element type, the same validation the original's subclass-selection
// mechanism performs implicitly.
func sisArrayElements[T sisFieldBody](a *SISArray, want TField) ([]T, error) {
	if a == nil {
		return nil, nil
	}
	out := make([]T, 0, len(a.Contents))
	for _, f := range a.Contents {
		v, err := expectSISField[T](f, want)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseSISArrayField reads one field declared as SISArray[T]: a tagged
// SISField record whose variant must be SISArray, then coerces its
// elements to T.
func parseSISArrayField[T sisFieldBody](r *schema.Reader, want TField) ([]T, error) {
	field, err := parseSISField(r)
	if err != nil {
		return nil, err
	}
	arr, err := expectSISField[*SISArray](field, FieldSISArray)
	if err != nil {
		return nil, err
	}
	return sisArrayElements[T](arr, want)
}

// parseSISArrayRaw reads one field declared as SISArray[SISField] (used
// where the element type is itself the generic tagged union, e.g.
// EmbeddedSISFiles and IfBlocks), returning the array envelope so callers
// can use its Contents directly without coercion.
func parseSISArrayRaw(r *schema.Reader) (*SISArray, error) {
	field, err := parseSISField(r)
	if err != nil {
		return nil, err
	}
	return expectSISField[*SISArray](field, FieldSISArray)
}

// SISCompressed is the SISCompressed[T]/SISCompressedDeflate[T] template's
// runtime envelope: an algorithm selector, the declared size of the
// decompressed payload, and the raw (possibly still zlib-compressed) bytes
// of the frame's remainder. The structured payload is decoded lazily by
// decodeController/decodeUnknownPayload at each of the two call sites that
// actually instantiate this template, since Go generics cannot carry a type
// parameter through the TField-keyed constructor registry the way the
// original's runtime template substitution does.
type SISCompressed struct {
	Algorithm            TCompressionAlgorithm
	UncompressedDataSize uint64
	raw                  []byte
}

func (c *SISCompressed) parseBody(r *schema.Reader, frameEnd int64) error {
	algo, err := r.ReadUint32()
	if err != nil {
		return err
	}
	c.Algorithm = TCompressionAlgorithm(algo)

	c.UncompressedDataSize, err = r.ReadUint64()
	if err != nil {
		return err
	}

	switch c.Algorithm {
	case SISCompressedNone, SISCompressedDeflate:
		raw, err := r.ReadRemaining(frameEnd)
		if err != nil {
			return err
		}
		c.raw = raw
	default:
		return fmt.Errorf("%w: SIS compression algorithm %d", ErrUnsupported, c.Algorithm)
	}
	return nil
}

// plain returns the decompressed bytes of the payload, inflating through
// zlib for SISCompressedDeflate.
func (c *SISCompressed) plain() ([]byte, error) {
	if c.Algorithm == SISCompressedDeflate {
		return inflateZlib(c.raw)
	}
	return c.raw, nil
}

// decodeController parses this SISCompressed's payload as a SISController,
// for SISContents.Controller : SISCompressed[SISController].
func (c *SISCompressed) decodeController() (*SISController, error) {
	plain, err := c.plain()
	if err != nil {
		return nil, fmt.Errorf("decompressing SIS controller: %w", err)
	}
	inner := schema.NewReader(plain)
	field, err := parseSISField(inner)
	if err != nil {
		return nil, err
	}
	return expectSISField[*SISController](field, FieldSISController)
}

// decodeUnknownPayload returns this SISCompressed's payload bytes verbatim
// (after decompression), for SISFileData.FileData : SISCompressed[UnknownPayload],
// which carries no further structure of its own.
func (c *SISCompressed) decodeUnknownPayload() ([]byte, error) {
	plain, err := c.plain()
	if err != nil {
		return nil, fmt.Errorf("decompressing SIS file payload: %w", err)
	}
	return plain, nil
}

// parseSISCompressedField reads one tagged SISField expected to be a
// SISCompressed envelope.
func parseSISCompressedField(r *schema.Reader) (*SISCompressed, error) {
	field, err := parseSISField(r)
	if err != nil {
		return nil, err
	}
	return expectSISField[*SISCompressed](field, FieldSISCompressed)
}
