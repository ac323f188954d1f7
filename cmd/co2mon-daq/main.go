// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2mon-daq periodically acquires readings from a ZG01-based
// monitor and stores them in the readings database.
package main // import "github.com/go-daq/co2mon/cmd/co2mon-daq"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-daq/co2mon/co2db"
	"github.com/go-daq/co2mon/zg01"
)

func main() {
	log.SetPrefix("co2mon-daq: ")
	log.SetFlags(0)

	var (
		dbname  = flag.String("db", "co2mon", "name of the readings database")
		freq    = flag.Duration("freq", 1*time.Minute, "acquisition frequency")
		maxReqs = flag.Int("max-requests", 50, "maximum number of HID reports per reading")
		path    = flag.String("path", "", "USB path of the device to open (default: first match)")
	)

	flag.Parse()

	log.Printf("db=%q freq=%v", *dbname, *freq)

	err := run(*dbname, *freq, *maxReqs, zg01.WithPath(*path))
	if err != nil {
		log.Fatalf("could not run co2mon-daq: %+v", err)
	}
}

func run(dbname string, freq time.Duration, maxReqs int, opts ...zg01.Option) error {
	db, err := co2db.Open(dbname)
	if err != nil {
		return fmt.Errorf("could not open readings db: %w", err)
	}
	defer db.Close()

	err = db.CreateTables(context.Background())
	if err != nil {
		return fmt.Errorf("could not create readings table: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)

	tick := time.NewTicker(freq)
	defer tick.Stop()

	for {
		err := acquire(db, maxReqs, opts...)
		switch {
		case err == nil:
			// ok.
		case errors.Is(err, zg01.ErrDeviceNotFound):
			return err
		default:
			log.Printf("could not store reading: %+v", err)
		}

		select {
		case <-quit:
			log.Printf("shutting down...")
			return nil
		case <-tick.C:
		}
	}
}

func acquire(db *co2db.DB, maxReqs int, opts ...zg01.Option) error {
	r, err := zg01.Acquire(maxReqs, opts...)
	if err != nil {
		return fmt.Errorf("could not acquire reading: %w", err)
	}

	err = db.Insert(context.Background(), r)
	if err != nil {
		return fmt.Errorf("could not insert reading: %w", err)
	}

	log.Printf("co2=%d ppm temp=%.2f°C", r.CO2, r.Temp)
	return nil
}
