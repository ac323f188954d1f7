// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2mon-shell provides an interactive shell to a ZG01-based
// CO2 monitor.
//
// Example:
//
//  $> co2mon-shell
//  co2> read
//  2024-03-14 15:09:26 co2=828 ppm temp=21.44°C
//  co2> watch 3
//  2024-03-14 15:09:32 co2=830 ppm temp=21.44°C
//  2024-03-14 15:09:38 co2=829 ppm temp=21.50°C
//  2024-03-14 15:09:44 co2=829 ppm temp=21.50°C
//  co2> quit
package main // import "github.com/go-daq/co2mon/cmd/co2mon-shell"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-daq/co2mon/zg01"
	"github.com/peterh/liner"
)

func main() {
	log.SetPrefix("co2mon-shell: ")
	log.SetFlags(0)

	var (
		maxReqs = flag.Int("max-requests", 50, "maximum number of HID reports per reading")
		path    = flag.String("path", "", "USB path of the device to open (default: first match)")
		hidraw  = flag.String("hidraw", "", "hidraw device node to open instead of USB HID")
	)

	flag.Parse()

	rdo, err := zg01.NewReadout(
		zg01.WithPath(*path),
		zg01.WithHidraw(*hidraw),
	)
	if err != nil {
		log.Fatalf("could not open device: %+v", err)
	}
	defer rdo.Close()

	sh := shell{rdo: rdo, maxReqs: *maxReqs}
	sh.run()
}

type shell struct {
	rdo     *zg01.Readout
	maxReqs int
}

func (sh *shell) run() {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)

	history := filepath.Join(os.TempDir(), ".co2mon_history")
	if f, err := os.Open(history); err == nil {
		term.ReadHistory(f)
		f.Close()
	}
	defer func() {
		f, err := os.Create(history)
		if err != nil {
			log.Printf("could not save history: %+v", err)
			return
		}
		defer f.Close()
		term.WriteHistory(f)
	}()

	for {
		line, err := term.Prompt("co2> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		args := strings.Fields(line)
		switch args[0] {
		case "read":
			sh.read(1)
		case "watch":
			n := 0
			if len(args) > 1 {
				v, err := strconv.Atoi(args[1])
				if err != nil {
					log.Printf("invalid count %q: %+v", args[1], err)
					continue
				}
				n = v
			}
			sh.read(n)
		case "info":
			sh.info()
		case "help":
			sh.help()
		case "quit", "exit":
			return
		default:
			log.Printf("unknown command %q (try \"help\")", args[0])
		}
	}
}

func (sh *shell) read(n int) {
	for i := 0; n == 0 || i < n; i++ {
		r, err := sh.rdo.Read(sh.maxReqs)
		if err != nil {
			log.Printf("could not acquire reading: %+v", err)
			return
		}
		fmt.Printf("%s co2=%d ppm temp=%.2f°C\n",
			r.When.Format("2006-01-02 15:04:05"), r.CO2, r.Temp,
		)
		if n == 0 || i+1 < n {
			time.Sleep(1 * time.Second)
		}
	}
}

func (sh *shell) info() {
	dev := sh.rdo.Info()
	fmt.Printf("vendor:       0x%04x\n", dev.VendorID)
	fmt.Printf("product:      0x%04x\n", dev.ProductID)
	fmt.Printf("path:         %s\n", dev.Path)
	fmt.Printf("manufacturer: %s\n", dev.Manufacturer)
	fmt.Printf("device:       %s\n", dev.Product)
	fmt.Printf("serial:       %s\n", dev.Serial)
}

func (sh *shell) help() {
	fmt.Print(`commands:
 read        acquire and display one reading
 watch [n]   acquire and display n readings (0 or no argument: forever)
 info        display device informations
 help        display this help
 quit        quit co2mon-shell
`)
}
