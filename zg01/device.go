// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zg01

import (
	"github.com/karalabe/hid"
	"golang.org/x/xerrors"
)

// hidDevice is the report I/O surface the readout needs from an opened
// HID handle.
type hidDevice interface {
	ReadTimeout(p []byte, ms int) (int, error)
	SendFeatureReport(p []byte) (int, error)
	Close() error
}

var (
	hidOpen = hidOpenImpl

	// rawOpen is installed on platforms with HIDRAW support.
	rawOpen func(name string) (hidDevice, error)
)

// hidOpenImpl enumerates attached ZG01 monitors and opens the first
// one, or the one matching path when path is not empty.
//
// Firmwares with a release number above 0x0100 stream their reports in
// clear; the returned clear flag records that.
func hidOpenImpl(path string) (hidDevice, DeviceInfo, bool, error) {
	devs, err := hid.Enumerate(VendorID, ProductID)
	if err != nil {
		return nil, DeviceInfo{}, false, xerrors.Errorf("zg01: could not enumerate HID devices: %w", err)
	}

	for _, di := range devs {
		if path != "" && di.Path != path {
			continue
		}

		h, err := di.Open()
		if err != nil {
			return nil, DeviceInfo{}, false, xerrors.Errorf("zg01: could not open device %q: %w", di.Path, err)
		}

		info := DeviceInfo{
			VendorID:     di.VendorID,
			ProductID:    di.ProductID,
			Path:         di.Path,
			Manufacturer: di.Manufacturer,
			Product:      di.Product,
			Serial:       di.Serial,
		}
		return h, info, di.Release > 0x0100, nil
	}

	return nil, DeviceInfo{}, false, ErrDeviceNotFound
}

// device wraps the exclusive transport handle to one monitor.
type device struct {
	hdev    hidDevice
	info    DeviceInfo
	timeout int // per-report read timeout, in milliseconds
}

func (dev *device) readReport() ([8]byte, error) {
	var p [8]byte
	n, err := dev.hdev.ReadTimeout(p[:], dev.timeout)
	switch {
	case err != nil:
		return p, xerrors.Errorf("zg01: could not read HID report: %w", err)
	case n != len(p):
		return p, xerrors.Errorf("zg01: invalid HID report size (got=%d, want=%d)", n, len(p))
	}
	return p, nil
}

func (dev *device) sendKey(key [8]byte) error {
	_, err := dev.hdev.SendFeatureReport(key[:])
	if err != nil {
		return xerrors.Errorf("zg01: could not send feature report: %w", err)
	}
	return nil
}

func (dev *device) close() error {
	return dev.hdev.Close()
}
