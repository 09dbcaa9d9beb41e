// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import "github.com/go-kratos/kratos/v2/log"

// Options controls parsing behavior.
type Options struct {
	// Fast skips the E32 import and relocation sections, by default
	// (false). The E32 header and body are still decoded, and SIS packages
	// are parsed in full either way.
	Fast bool

	// MaxRelocEntriesCount bounds the number of relocation entries read
	// per section, by default (MaxDefaultRelocEntriesCount).
	MaxRelocEntriesCount uint32

	// MaxImportsCount bounds the number of per-DLL import entries read, by
	// default (MaxDefaultImportsCount).
	MaxImportsCount uint32

	// DisableOrdinalResolution skips resolving ordinal imports against the
	// deffiles symbol table, leaving raw (ordinal, addend) pairs in the
	// emitted assembly instead of symbol references.
	DisableOrdinalResolution bool

	// A custom logger.
	Logger log.Logger
}

const (
	// MaxDefaultRelocEntriesCount bounds relocation entries parsed per
	// section absent an explicit Options override.
	MaxDefaultRelocEntriesCount = 1 << 20

	// MaxDefaultImportsCount bounds per-DLL import entries parsed absent
	// an explicit Options override.
	MaxDefaultImportsCount = 1 << 16
)
