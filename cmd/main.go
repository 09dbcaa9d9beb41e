// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command symbianutil dumps, extracts, and reassembles Symbian E32 images
// and SIS packages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var forceFormat string

func main() {
	root := &cobra.Command{
		Use:     "symbianutil",
		Short:   "Parse Symbian E32 images and SIS packages",
		Version: "1.3.0",
	}
	root.PersistentFlags().StringVarP(&forceFormat, "format", "f", "", "use this format and do not guess (E32ImageHeader or SymbianFileHeader)")

	root.AddCommand(newDumpCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newAsmCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
