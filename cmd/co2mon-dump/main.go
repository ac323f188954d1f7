// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// co2mon-dump reads CO2 and temperature values off a ZyAura ZG01-based
// monitor and displays them on stdout.
//
// Usage: co2mon-dump [OPTIONS]
//
// Example:
//
//  $> co2mon-dump -n 3
//  2024-03-14 15:09:26 co2=828 ppm temp=21.44°C
//  2024-03-14 15:09:32 co2=830 ppm temp=21.44°C
//  2024-03-14 15:09:38 co2=829 ppm temp=21.50°C
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-daq/co2mon"
	"github.com/go-daq/co2mon/zg01"
)

func main() {
	log.SetPrefix("co2mon-dump: ")
	log.SetFlags(0)

	var (
		n       = flag.Int("n", 1, "number of readings to acquire (0: acquire forever)")
		maxReqs = flag.Int("max-requests", 50, "maximum number of HID reports per reading")
		path    = flag.String("path", "", "USB path of the device to open (default: first match)")
		hidraw  = flag.String("hidraw", "", "hidraw device node to open instead of USB HID")
		timeout = flag.Duration("timeout", 5*time.Second, "timeout for a single HID report")
		bypass  = flag.Bool("bypass", false, "force the cipher bypass (clear-frame firmwares)")
		info    = flag.Bool("info", false, "display device informations and exit")
		vers    = flag.Bool("version", false, "display co2mon version and exit")
	)

	flag.Usage = func() {
		fmt.Printf(`co2mon-dump reads CO2 and temperature values off a ZyAura ZG01-based
monitor and displays them on stdout.

Usage: co2mon-dump [OPTIONS]

Example:

 $> co2mon-dump -n 3
 2024-03-14 15:09:26 co2=828 ppm temp=21.44°C
 2024-03-14 15:09:32 co2=830 ppm temp=21.44°C
 2024-03-14 15:09:38 co2=829 ppm temp=21.50°C

`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *vers {
		version, sum := co2mon.Version()
		fmt.Printf("co2mon version=%q sum=%q\n", version, sum)
		return
	}

	opts := []zg01.Option{
		zg01.WithPath(*path),
		zg01.WithHidraw(*hidraw),
		zg01.WithTimeout(*timeout),
	}
	if *bypass {
		opts = append(opts, zg01.WithBypass(true))
	}

	err := process(os.Stdout, *n, *maxReqs, *info, opts...)
	if err != nil {
		log.Fatalf("could not dump readings: %+v", err)
	}
}

func process(w io.Writer, n, maxReqs int, info bool, opts ...zg01.Option) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	rdo, err := zg01.NewReadout(opts...)
	if err != nil {
		return fmt.Errorf("could not open device: %w", err)
	}
	defer rdo.Close()

	if info {
		dev := rdo.Info()
		fmt.Fprintf(wbuf, "vendor:       0x%04x\n", dev.VendorID)
		fmt.Fprintf(wbuf, "product:      0x%04x\n", dev.ProductID)
		fmt.Fprintf(wbuf, "path:         %s\n", dev.Path)
		fmt.Fprintf(wbuf, "manufacturer: %s\n", dev.Manufacturer)
		fmt.Fprintf(wbuf, "device:       %s\n", dev.Product)
		fmt.Fprintf(wbuf, "serial:       %s\n", dev.Serial)
		return nil
	}

	for i := 0; n == 0 || i < n; i++ {
		r, err := rdo.Read(maxReqs)
		if err != nil {
			return fmt.Errorf("could not acquire reading: %w", err)
		}
		fmt.Fprintf(wbuf, "%s co2=%d ppm temp=%.2f°C\n",
			r.When.Format("2006-01-02 15:04:05"), r.CO2, r.Temp,
		)
		wbuf.Flush()
	}

	return nil
}
