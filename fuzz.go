// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

// Fuzz exercises auto-detecting Parse against arbitrary input, for
// go-fuzz's corpus-mutation harness.
func Fuzz(data []byte) int {
	f, err := NewBytes(data, &Options{Fast: false})
	if err != nil {
		return 0
	}
	if err := f.Parse(); err != nil {
		return 0
	}
	return 1
}
