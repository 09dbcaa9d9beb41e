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

func newAsmCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "asm E32_FILE",
		Short: "Emit relocatable GNU assembler for an E32 image, symbols restored from its import tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inFile := args[0]

			format := forceFormat
			if format == "" {
				format = symbianfile.FormatE32ImageHeader.String()
			}
			f, err := openAndParse(inFile, format)
			if err != nil {
				return err
			}
			defer f.Close()

			if f.E32 == nil {
				return fmt.Errorf("%s did not parse as an E32 image", inFile)
			}

			out := os.Stdout
			if outPath != "" {
				w, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer w.Close()
				out = w
			}
			return f.E32.EmitAssembly(out)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write assembly to this file instead of stdout")
	return cmd
}
