// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"github.com/symbianarchive/e32sis/inflate"
	"github.com/symbianarchive/e32sis/schema"
)

// Error kinds, re-exported from the packages that actually detect them so
// callers never need to import schema or inflate directly to use errors.Is.
var (
	// ErrParseError is a schema violation at a specific offset: a wrong
	// default, a length-bound violation, non-zero padding, or a malformed
	// sub-structure.
	ErrParseError = schema.ErrParseError

	// ErrChecksumMismatch is an E32 image's UID checksum disagreement. An
	// iHeaderCrc mismatch, or a SIS file header UID checksum mismatch, is
	// recorded in File.Anomalies instead.
	ErrChecksumMismatch = schema.ErrChecksumMismatch

	// ErrMalformedStream is an incomplete Huffman tree, an over-long
	// accumulator, or a back-reference distance exceeding emitted history.
	ErrMalformedStream = inflate.ErrMalformedStream

	// ErrUnsupported is an unrecognized compression algorithm or CPU
	// variant.
	ErrUnsupported = schema.ErrUnsupported

	// ErrTemplateNeeded is returned for an un-instantiated generic schema.
	ErrTemplateNeeded = schema.ErrTemplateNeeded

	// ErrTruncatedInput is EOF before a frame's declared length.
	ErrTruncatedInput = schema.ErrTruncatedInput
)
