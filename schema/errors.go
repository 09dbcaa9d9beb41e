package schema

import "errors"

// Error kinds returned by Reader and the generic container parsers. Callers
// higher up the stack (package symbianfile) re-export these under their own
// names so the public API never leaks the schema package's internals.
var (
	// ErrParseError is a schema violation at a specific offset: a wrong
	// default value, a length-bound violation, non-zero padding, or a
	// malformed sub-structure.
	ErrParseError = errors.New("schema: parse error")

	// ErrChecksumMismatch is a UID checksum disagreement.
	ErrChecksumMismatch = errors.New("schema: checksum mismatch")

	// ErrUnsupported is an unrecognized compression algorithm, CPU variant,
	// or other declared-but-unimplemented variant.
	ErrUnsupported = errors.New("schema: unsupported variant")

	// ErrTemplateNeeded is returned when a generic schema is instantiated
	// without its type parameter bound (a programming error, not a data
	// error).
	ErrTemplateNeeded = errors.New("schema: template parameter required")

	// ErrTruncatedInput is EOF before a frame's declared length.
	ErrTruncatedInput = errors.New("schema: truncated input")
)
