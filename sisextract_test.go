// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import "testing"

func TestSisExtractNameUsesBasename(t *testing.T) {
	fd := &SISFileDescription{Target: &SISString{String: `\sys\bin\foo.exe`}, FileIndex: 7}
	if got := sisExtractName(fd); got != "foo.exe" {
		t.Fatalf("sisExtractName = %q, want %q", got, "foo.exe")
	}
}

func TestSisExtractNameFallsBackToIndex(t *testing.T) {
	fd := &SISFileDescription{Target: &SISString{String: `\sys\bin\`}, FileIndex: 7}
	if got := sisExtractName(fd); got != "7" {
		t.Fatalf("sisExtractName = %q, want %q", got, "7")
	}
}

