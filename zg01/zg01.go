// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zg01 decodes the USB HID report protocol of ZyAura ZG01-based
// CO2 monitors (CO2Mini, MT8057, AIRCO2NTROL MINI and friends).
//
// The wire protocol is the one documented by the reverse engineering at
// https://hackaday.io/project/5301-reverse-engineering-a-low-cost-usb-co-monitor:
// the device streams 8-byte reports, optionally obfuscated with a
// session key pushed at open time, each carrying one operation/value
// pair protected by an additive checksum.
package zg01 // import "github.com/go-daq/co2mon/zg01"

import (
	"time"
)

const (
	// VendorID is the USB vendor ID of ZG01-based monitors.
	VendorID = 0x04d9
	// ProductID is the USB product ID of ZG01-based monitors.
	ProductID = 0xa052
)

const (
	// OpCO2 indicates a CO2 concentration sample (ppm).
	OpCO2 = 0x50
	// OpTemp indicates an ambient temperature sample (1/16 K).
	OpTemp = 0x42
	// OpHum indicates a relative humidity sample. ZG01 monitors without
	// a humidity sensor still emit it, always zero; it is not reported
	// in a Reading.
	OpHum = 0x41

	frTrailer = 0x0d // end-of-frame marker
)

// Reading is one calibrated measurement acquired from a monitor.
type Reading struct {
	When time.Time // acquisition time
	CO2  uint32    // units: ppm
	Temp float64   // units: degrees Celsius
}

// DeviceInfo describes an attached ZG01 monitor, as reported by its
// HID descriptor. It plays no role in decoding.
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	Serial       string
}

// Sample is one operation/value pair decoded from a deciphered frame.
type Sample struct {
	Op    uint8  // operation code (OpCO2, OpTemp, ...)
	Value uint16 // raw big-endian payload
}

// TempToCelsius converts a raw ZG01 temperature sample to degrees
// Celsius. The sensor reports temperature in 1/16-Kelvin units.
func TempToCelsius(v uint16) float64 {
	return float64(v)*0.0625 - 273.15
}
