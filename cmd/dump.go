// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
)

var (
	wg   sync.WaitGroup
	jobs = make(chan string)
)

func newDumpCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "dump FILE_OR_DIR",
		Short: "Parse a file (or every file under a directory) and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.IsDir() {
				if !recursive {
					return fmt.Errorf("%s is a directory; pass --recursive to dump every file under it", path)
				}
				return loopDirsFiles(path)
			}
			return dumpFile(path)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "walk directories recursively")
	return cmd
}

func dumpFile(path string) error {
	f, err := openAndParse(path, forceFormat)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Println(prettyPrint(f))
	return nil
}

func prettyPrint(v interface{}) string {
	var buf bytes.Buffer
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("json error: %v", err)
	}
	if err := json.Indent(&buf, raw, "", "\t"); err != nil {
		return string(raw)
	}
	return buf.String()
}

// loopFilesWorker drains one directory per job off jobs, dumping every
// regular file it contains.
func loopFilesWorker() {
	for path := range jobs {
		files, err := os.ReadDir(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			wg.Done()
			continue
		}
		for _, file := range files {
			if !file.IsDir() {
				if err := dumpFile(filepath.Join(path, file.Name())); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}
		}
		wg.Done()
	}
}

// loopDirsFiles recursively enqueues every directory under path onto jobs:
// one goroutine walks the tree while a pool of loopFilesWorker goroutines
// drains the queue.
func loopDirsFiles(path string) error {
	const workerCount = 4
	for i := 0; i < workerCount; i++ {
		go loopFilesWorker()
	}
	if err := enqueueDirs(path); err != nil {
		return err
	}
	wg.Wait()
	return nil
}

func enqueueDirs(path string) error {
	files, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	wg.Add(1)
	go func() { jobs <- path }()

	for _, file := range files {
		if file.IsDir() {
			if err := enqueueDirs(filepath.Join(path, file.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
