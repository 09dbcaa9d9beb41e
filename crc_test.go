// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import "testing"

func TestCRC16ReferenceVector(t *testing.T) {
	if got := crc16([]byte("123456789")); got != 0x29B1 {
		t.Fatalf("crc16(\"123456789\") = %#x, want 0x29B1", got)
	}
}

func TestUidCrcRoundTrip(t *testing.T) {
	const uid1, uid2, uid3 = 0x10201A7A, 0, 0x12345678
	want := uidcrc(uid1, uid2, uid3)

	// Tampering with any UID must change the checksum.
	if got := uidcrc(uid1, uid2, uid3+1); got == want {
		t.Fatalf("uidcrc did not change when uid3 changed")
	}
}
