// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	symbianfile "github.com/symbianarchive/e32sis"
)

// openAndParse opens name and parses it, forcing format when non-empty,
// otherwise letting (*symbianfile.File).Parse auto-detect by trying each
// known header schema in turn and rewinding on ErrParseError.
func openAndParse(name, format string) (*symbianfile.File, error) {
	f, err := symbianfile.New(name, nil)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}

	switch format {
	case "":
		err = f.Parse()
	case symbianfile.FormatE32ImageHeader.String():
		err = f.ParseAs(symbianfile.FormatE32ImageHeader)
	case symbianfile.FormatSymbianFileHeader.String():
		err = f.ParseAs(symbianfile.FormatSymbianFileHeader)
	default:
		f.Close()
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return f, nil
}
