// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ExtractedFile is one file an install block names, paired with its
// decompressed payload.
type ExtractedFile struct {
	Name string
	Data []byte
}

// ExtractFiles walks a SIS package's install block in file-description
// order and resolves each description's FileIndex against the first data
// unit's file payloads, the same walk as the original's extract_files.
// Only DataUnits[0] is consulted: the original never indexes past it, since
// language/option variant selection is a Non-goal here.
func (sf *SISFile) ExtractFiles() ([]ExtractedFile, error) {
	controller, err := sf.Contents.Controller()
	if err != nil {
		return nil, fmt.Errorf("decoding SIS controller: %w", err)
	}
	if len(sf.Contents.Data.DataUnits) == 0 {
		return nil, fmt.Errorf("%w: SIS package has no data units", ErrParseError)
	}
	unit := sf.Contents.Data.DataUnits[0]

	files := controller.InstallBlock.Files
	out := make([]ExtractedFile, 0, len(files))
	for _, f := range files {
		if int(f.FileIndex) >= len(unit.FileData) {
			return nil, fmt.Errorf("%w: file index %d out of range (%d payloads)", ErrParseError, f.FileIndex, len(unit.FileData))
		}
		data, err := unit.FileData[f.FileIndex].Bytes()
		if err != nil {
			return nil, fmt.Errorf("decoding file payload %d: %w", f.FileIndex, err)
		}
		out = append(out, ExtractedFile{Name: sisExtractName(f), Data: data})
	}
	return out, nil
}

// sisExtractName derives an output filename from a file description's
// target path: the basename after the last backslash (SIS targets are
// Symbian paths), falling back to the numeric file index when the target
// is empty or names only a directory.
func sisExtractName(f *SISFileDescription) string {
	parts := strings.Split(f.Target.String, `\`)
	name := parts[len(parts)-1]
	if name == "" {
		name = strconv.Itoa(int(f.FileIndex))
	}
	return name
}

// Extract decompresses every file an install block names and writes it
// under targetDir, mirroring the original's extract_files.
func (sf *SISFile) Extract(targetDir string) error {
	files, err := sf.ExtractFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		path := filepath.Join(targetDir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
