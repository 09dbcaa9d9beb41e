// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package symbianfile parses the two legacy Symbian-OS binary container
// formats: E32 executable images and SIS installable packages. It also
// emits relocatable GNU assembler output for E32 images, with symbols
// restored from ordinal-indexed export tables.
package symbianfile

import (
	"errors"
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// Format identifies which container schema a File was parsed as.
type Format int

const (
	// FormatUnknown means Parse has not yet run or auto-detection failed.
	FormatUnknown Format = iota
	// FormatE32ImageHeader is a Symbian executable/DLL image.
	FormatE32ImageHeader
	// FormatSymbianFileHeader is a SIS installable package.
	FormatSymbianFileHeader
)

func (f Format) String() string {
	switch f {
	case FormatE32ImageHeader:
		return "E32ImageHeader"
	case FormatSymbianFileHeader:
		return "SymbianFileHeader"
	default:
		return "Unknown"
	}
}

// A File represents an open Symbian container, either an E32 image or a SIS
// package, once Parse has run.
type File struct {
	Format Format `json:"format"`

	E32 *E32Image `json:"e32,omitempty"`
	SIS *SISFile  `json:"sis,omitempty"`

	Anomalies []string `json:"anomalies,omitempty"`

	data mmap.MMap
	raw  []byte
	size uint32
	f    *os.File
	opts *Options

	logger *log.Helper
}

// New instantiates a File with options given a file name, memory-mapping
// its contents.
func New(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := newFile(opts)
	file.data = data
	file.raw = data
	file.size = uint32(len(data))
	file.f = f
	return file, nil
}

// NewBytes instantiates a File with options given an in-memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {
	file := newFile(opts)
	file.raw = data
	file.size = uint32(len(data))
	return file, nil
}

func newFile(opts *Options) *File {
	file := &File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	if file.opts.MaxRelocEntriesCount == 0 {
		file.opts.MaxRelocEntriesCount = MaxDefaultRelocEntriesCount
	}
	if file.opts.MaxImportsCount == 0 {
		file.opts.MaxImportsCount = MaxDefaultImportsCount
	}

	var logger log.Logger
	if file.opts.Logger == nil {
		logger = log.NewStdLogger(os.Stdout)
		file.logger = log.NewHelper(log.NewFilter(logger,
			log.FilterLevel(log.LevelError)))
	} else {
		file.logger = log.NewHelper(file.opts.Logger)
	}
	return file
}

// Close unmaps the backing file, if one was opened with New.
func (sf *File) Close() error {
	if sf.data != nil {
		_ = sf.data.Unmap()
	}
	if sf.f != nil {
		return sf.f.Close()
	}
	return nil
}

// formatCandidate pairs a format with its detector, tried in order by
// Parse's auto-detection when no format is forced.
type formatCandidate struct {
	format Format
	parse  func(sf *File) error
}

var formatCandidates = []formatCandidate{
	{FormatE32ImageHeader, (*File).parseE32},
	{FormatSymbianFileHeader, (*File).parseSIS},
}

// Parse detects and parses the container format. On ErrParseError from a
// candidate it rewinds and tries the next; any other error is fatal. Use
// ParseAs to force a specific format and skip auto-detection.
func (sf *File) Parse() error {
	var lastErr error
	for _, c := range formatCandidates {
		err := c.parse(sf)
		if err == nil {
			sf.Format = c.format
			return nil
		}
		if !errors.Is(err, ErrParseError) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: no known format matched (last: %v)", ErrParseError, lastErr)
}

// ParseAs parses the container as exactly the named format, without
// auto-detection fallback.
func (sf *File) ParseAs(format Format) error {
	for _, c := range formatCandidates {
		if c.format == format {
			err := c.parse(sf)
			if err == nil {
				sf.Format = format
			}
			return err
		}
	}
	return fmt.Errorf("%w: unknown format %v", ErrUnsupported, format)
}
