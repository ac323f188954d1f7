// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zg01

import (
	"encoding/binary"
)

// seed is the constant string both cipher keys derive from.
var seed = [8]byte{'H', 't', 'e', 'm', 'p', '9', '9', 'e'}

// shuffle reorders the physical byte stream into the logical 64-bit
// word: byte i of the shuffled report reads byte shuffle[i] of the raw
// one. The permutation is its own inverse.
var shuffle = [8]int{2, 4, 0, 7, 1, 6, 5, 3}

// magicTable derives the 8-byte session key from seed by swapping the
// high and low nibble of each byte. The key is pushed to the device
// with a feature report at session start and drives the XOR stage of
// the cipher.
func magicTable() [8]byte {
	var key [8]byte
	for i, c := range seed {
		key[i] = c<<4 | c>>4
	}
	return key
}

// decipher undoes the report obfuscation applied by ZG01 firmwares
// that stream enciphered reports: shuffle, XOR with the session key,
// cyclic right shift by 3 over the full 64-bit word, then a per-byte
// wrapping subtraction of the nibble-swapped seed.
//
// bypass returns raw unchanged, for device revisions that transmit in
// clear.
func decipher(raw, key [8]byte, bypass bool) [8]byte {
	if bypass {
		return raw
	}

	var buf [8]byte
	for i, j := range shuffle {
		buf[i] = raw[j]
	}

	v := binary.BigEndian.Uint64(buf[:]) ^ binary.BigEndian.Uint64(key[:])
	v = v>>3 | v<<61
	binary.BigEndian.PutUint64(buf[:], v)

	sub := magicTable()
	for i := range buf {
		buf[i] -= sub[i]
	}

	return buf
}
