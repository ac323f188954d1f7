// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zg01

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// hidiocsFeature9 is HIDIOCSFEATURE(9): set a feature report of 8
// bytes plus the leading report-ID byte.
const hidiocsFeature9 = 0xc0094806

func init() {
	rawOpen = rawOpenImpl
}

// hidraw drives a monitor through the Linux HIDRAW character device
// (e.g. /dev/hidraw1), for hosts without a usable hidapi stack.
type hidraw struct {
	f *os.File
}

func rawOpenImpl(name string) (hidDevice, error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return nil, xerrors.Errorf("zg01: could not open hidraw device %q: %w", name, err)
	}
	return &hidraw{f: f}, nil
}

func (dev *hidraw) SendFeatureReport(p []byte) (int, error) {
	buf := make([]byte, len(p)+1)
	copy(buf[1:], p) // report ID 0

	_, _, ep := unix.Syscall(
		unix.SYS_IOCTL,
		dev.f.Fd(),
		uintptr(hidiocsFeature9),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if ep != 0 {
		return 0, unix.Errno(ep)
	}
	return len(p), nil
}

func (dev *hidraw) ReadTimeout(p []byte, ms int) (int, error) {
	fds := []unix.PollFd{{Fd: int32(dev.f.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	switch {
	case err != nil:
		return 0, xerrors.Errorf("zg01: could not poll hidraw device: %w", err)
	case n == 0:
		return 0, xerrors.Errorf("zg01: timeout waiting for HID report")
	}
	return dev.f.Read(p)
}

func (dev *hidraw) Close() error {
	return dev.f.Close()
}

var _ hidDevice = (*hidraw)(nil)
