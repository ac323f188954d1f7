// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zg01

import (
	"errors"
	"time"

	"golang.org/x/xerrors"
)

var (
	// ErrDeviceNotFound means discovery matched no attached ZG01
	// monitor.
	ErrDeviceNotFound = errors.New("zg01: could not find ZG01 monitor")

	// ErrMissingCO2 means the request budget ran out before a valid
	// CO2 frame was seen.
	ErrMissingCO2 = errors.New("zg01: could not read CO2 value within request budget")

	// ErrMissingTemperature means the request budget ran out before a
	// valid temperature frame was seen.
	ErrMissingTemperature = errors.New("zg01: could not read temperature value within request budget")
)

// Option configures a Readout.
type Option func(cfg *rdoConfig)

type rdoConfig struct {
	path    string
	hidraw  string
	timeout time.Duration
	bypass  *bool
}

// WithPath selects a specific monitor by its HID interface path when
// several are attached.
func WithPath(path string) Option {
	return func(cfg *rdoConfig) {
		cfg.path = path
	}
}

// WithHidraw skips HID enumeration and drives the monitor through the
// named hidraw character device (e.g. /dev/hidraw1). Linux only.
func WithHidraw(name string) Option {
	return func(cfg *rdoConfig) {
		cfg.hidraw = name
	}
}

// WithTimeout sets the per-report read timeout. The default is 5s;
// the device emits roughly one report per second.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *rdoConfig) {
		cfg.timeout = timeout
	}
}

// WithBypass forces the cipher bypass on or off, overriding the
// firmware-release heuristic.
func WithBypass(bypass bool) Option {
	return func(cfg *rdoConfig) {
		cfg.bypass = &bypass
	}
}

// Readout reads (and validates) measurement frames from one ZG01
// monitor. It owns the underlying transport handle exclusively: its
// methods must not be called concurrently.
type Readout struct {
	dev    *device
	key    [8]byte
	bypass bool
}

// NewReadout finds a monitor, opens it and pushes the session key.
// Callers must Close the returned readout when done with it.
func NewReadout(opts ...Option) (*Readout, error) {
	cfg := rdoConfig{
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		hdev  hidDevice
		info  DeviceInfo
		clear bool
		err   error
	)
	switch {
	case cfg.hidraw != "":
		if rawOpen == nil {
			return nil, xerrors.Errorf("zg01: hidraw transport is not supported on this platform")
		}
		hdev, err = rawOpen(cfg.hidraw)
		info = DeviceInfo{VendorID: VendorID, ProductID: ProductID, Path: cfg.hidraw}
	default:
		hdev, info, clear, err = hidOpen(cfg.path)
	}
	if err != nil {
		return nil, err
	}

	rdo := &Readout{
		dev: &device{
			hdev:    hdev,
			info:    info,
			timeout: int(cfg.timeout / time.Millisecond),
		},
		key:    magicTable(),
		bypass: clear,
	}
	if cfg.bypass != nil {
		rdo.bypass = *cfg.bypass
	}

	err = rdo.dev.sendKey(rdo.key)
	if err != nil {
		_ = rdo.dev.close()
		return nil, xerrors.Errorf("zg01: could not push session key: %w", err)
	}

	return rdo, nil
}

// Close releases the underlying device handle.
func (rdo *Readout) Close() error {
	return rdo.dev.close()
}

// Info returns the HID descriptor metadata of the attached monitor.
func (rdo *Readout) Info() DeviceInfo {
	return rdo.dev.info
}

// Read acquires one Reading, polling the monitor until both a CO2 and
// a temperature frame have been seen or maxRequests reports have been
// consumed, whichever comes first. At least one report is always read,
// even when maxRequests is zero.
//
// Invalid frames (bad checksum, bad trailer, unknown operation code)
// are dropped silently but still consume request budget: the transport
// is noisy by nature. Transport errors abort the acquisition.
func (rdo *Readout) Read(maxRequests int) (Reading, error) {
	var (
		co2    uint32
		temp   float64
		okCO2  bool
		okTemp bool
	)

	for n := 0; ; {
		raw, err := rdo.dev.readReport()
		if err != nil {
			return Reading{}, xerrors.Errorf("zg01: could not acquire frame: %w", err)
		}
		n++

		s, ok := Decode(decipher(raw, rdo.key, rdo.bypass))
		if ok {
			switch s.Op {
			case OpCO2:
				co2 = uint32(s.Value)
				okCO2 = true
			case OpTemp:
				temp = TempToCelsius(s.Value)
				okTemp = true
			}
		}

		if n >= maxRequests || (okCO2 && okTemp) {
			break
		}
	}

	switch {
	case !okCO2:
		return Reading{}, ErrMissingCO2
	case !okTemp:
		return Reading{}, ErrMissingTemperature
	}

	return Reading{When: time.Now(), CO2: co2, Temp: temp}, nil
}

// Acquire opens the first matching monitor, acquires one Reading and
// closes the device again, whatever the outcome.
func Acquire(maxRequests int, opts ...Option) (Reading, error) {
	rdo, err := NewReadout(opts...)
	if err != nil {
		return Reading{}, err
	}
	defer rdo.Close()

	return rdo.Read(maxRequests)
}
