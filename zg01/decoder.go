// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zg01

// Decode validates a deciphered 8-byte frame and extracts its sample.
//
// A frame is trusted only when its three trailing bytes are zero, byte
// 4 carries the end-of-frame marker and the additive checksum matches.
// Invalid frames return ok=false; a well-formed frame with an
// operation code Decode does not know about is still returned, with
// its code preserved.
func Decode(frame [8]byte) (s Sample, ok bool) {
	if frame[5] != 0 || frame[6] != 0 || frame[7] != 0 || frame[4] != frTrailer {
		return s, false
	}
	if frame[0]+frame[1]+frame[2] != frame[3] {
		return s, false
	}

	s.Op = frame[0]
	s.Value = uint16(frame[1])<<8 | uint16(frame[2])
	return s, true
}
