// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zg01

import (
	"math"
	"testing"
)

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		name  string
		frame [8]byte
		want  Sample
		ok    bool
	}{
		{
			name:  "co2-100ppm",
			frame: [8]byte{0x50, 0x00, 0x64, 0xb4, 0x0d, 0, 0, 0},
			want:  Sample{Op: OpCO2, Value: 100},
			ok:    true,
		},
		{
			name:  "temp-4485",
			frame: [8]byte{0x42, 0x11, 0x85, 0xd8, 0x0d, 0, 0, 0},
			want:  Sample{Op: OpTemp, Value: 4485},
			ok:    true,
		},
		{
			name:  "humidity",
			frame: [8]byte{0x41, 0x12, 0x34, 0x87, 0x0d, 0, 0, 0},
			want:  Sample{Op: OpHum, Value: 0x1234},
			ok:    true,
		},
		{
			name:  "unknown-op",
			frame: [8]byte{0x10, 0x01, 0x02, 0x13, 0x0d, 0, 0, 0},
			want:  Sample{Op: 0x10, Value: 0x0102},
			ok:    true,
		},
		{
			name:  "checksum-wraps",
			frame: [8]byte{0xff, 0xff, 0xff, 0xfd, 0x0d, 0, 0, 0},
			want:  Sample{Op: 0xff, Value: 0xffff},
			ok:    true,
		},
		{
			name:  "invalid-trailer",
			frame: [8]byte{0x50, 0x00, 0x64, 0xb4, 0x0e, 0, 0, 0},
		},
		{
			name:  "invalid-checksum",
			frame: [8]byte{0x50, 0x00, 0x64, 0xb5, 0x0d, 0, 0, 0},
		},
		{
			name:  "non-zero-tail-5",
			frame: [8]byte{0x50, 0x00, 0x64, 0xb4, 0x0d, 1, 0, 0},
		},
		{
			name:  "non-zero-tail-6",
			frame: [8]byte{0x50, 0x00, 0x64, 0xb4, 0x0d, 0, 1, 0},
		},
		{
			name:  "non-zero-tail-7",
			frame: [8]byte{0x50, 0x00, 0x64, 0xb4, 0x0d, 0, 0, 1},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Decode(tc.frame)
			if ok != tc.ok {
				t.Fatalf("invalid frame validity: got=%v, want=%v", ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("invalid sample:\ngot= %#v\nwant=%#v", got, tc.want)
			}
		})
	}
}

func TestTempToCelsius(t *testing.T) {
	for _, tc := range []struct {
		raw  uint16
		want float64
	}{
		{raw: 4485, want: 7.1625},
		{raw: 0, want: -273.15},
		{raw: 4372, want: 0.1},
	} {
		got := TempToCelsius(tc.raw)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Fatalf("invalid temperature for raw=%d: got=%v, want=%v", tc.raw, got, tc.want)
		}
	}
}
