// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	symbianfile "github.com/symbianarchive/e32sis"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract SIS_FILE TARGET_DIR",
		Short: "Decompress every file a SIS package installs into TARGET_DIR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inFile, targetDir := args[0], args[1]

			format := forceFormat
			if format == "" {
				format = symbianfile.FormatSymbianFileHeader.String()
			}
			f, err := openAndParse(inFile, format)
			if err != nil {
				return err
			}
			defer f.Close()

			if f.SIS == nil {
				return fmt.Errorf("%s did not parse as a SIS package", inFile)
			}
			if err := os.MkdirAll(targetDir, 0o755); err != nil {
				return err
			}
			return f.SIS.Extract(targetDir)
		},
	}
	return cmd
}
