// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package co2db

import (
	"context"
	"database/sql/driver"
	"reflect"
	"testing"
	"time"

	"github.com/go-daq/co2mon/internal/fakedb"
	"github.com/go-daq/co2mon/zg01"
)

func init() {
	drvName = "fakedb"
}

func TestOpen(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open co2db: %+v", err)
	}
	defer db.Close()
}

func TestInsert(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open co2db: %+v", err)
	}
	defer db.Close()

	when := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	_ = fakedb.Run(context.Background(), fakedb.Rows{}, func(ctx context.Context) error {
		err := db.Insert(ctx, zg01.Reading{
			When: when,
			CO2:  828,
			Temp: 21.4375,
		})
		if err != nil {
			t.Fatalf("could not insert reading: %+v", err)
		}

		execs := fakedb.Execs()
		if got, want := len(execs), 1; got != want {
			t.Fatalf("invalid number of exec'd statements: got=%d, want=%d", got, want)
		}
		want := []driver.Value{when, int64(828), 21.4375}
		if got := execs[0]; !reflect.DeepEqual(got, want) {
			t.Fatalf("invalid insert arguments:\ngot= %#v\nwant=%#v", got, want)
		}
		return nil
	})
}

func TestLastReading(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open co2db: %+v", err)
	}
	defer db.Close()

	when := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"timestamp", "co2_ppm", "temp_celsius"},
		Values: [][]driver.Value{
			{when, int64(828), 21.4375},
		},
	}, func(ctx context.Context) error {
		r, err := db.LastReading(ctx)
		if err != nil {
			t.Fatalf("could not retrieve last reading: %+v", err)
		}

		want := zg01.Reading{When: when, CO2: 828, Temp: 21.4375}
		if !reflect.DeepEqual(r, want) {
			t.Fatalf("invalid last reading:\ngot= %#v\nwant=%#v", r, want)
		}
		return nil
	})
}

func TestReadingsSince(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open co2db: %+v", err)
	}
	defer db.Close()

	var (
		t0 = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)
		t1 = t0.Add(1 * time.Minute)
	)
	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"timestamp", "co2_ppm", "temp_celsius"},
		Values: [][]driver.Value{
			{t0, int64(600), 20.0},
			{t1, int64(828), 21.4375},
		},
	}, func(ctx context.Context) error {
		rs, err := db.ReadingsSince(ctx, t0)
		if err != nil {
			t.Fatalf("could not retrieve readings: %+v", err)
		}

		want := []zg01.Reading{
			{When: t0, CO2: 600, Temp: 20.0},
			{When: t1, CO2: 828, Temp: 21.4375},
		}
		if !reflect.DeepEqual(rs, want) {
			t.Fatalf("invalid readings:\ngot= %#v\nwant=%#v", rs, want)
		}
		return nil
	})
}

func TestQueryContext(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open co2db: %+v", err)
	}
	defer db.Close()

	const queryLast = "SELECT co2_ppm FROM readings ORDER BY timestamp DESC LIMIT 1"

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"co2_ppm"},
		Values: [][]driver.Value{
			{int64(828)},
		},
	}, func(ctx context.Context) error {
		rows, err := db.QueryContext(context.Background(), queryLast)
		if err != nil {
			t.Fatalf("could not execute query %q: %+v", queryLast, err)
		}
		defer rows.Close()

		var ppm uint32
		for rows.Next() {
			err = rows.Scan(&ppm)
			if err != nil {
				t.Fatalf("could not scan co2 value: %+v", err)
			}
		}

		if err := rows.Err(); err != nil {
			t.Fatalf("could not scan co2 value: %+v", err)
		}

		if got, want := ppm, uint32(828); got != want {
			t.Fatalf("invalid co2 value: got=%d, want=%d", got, want)
		}
		return nil
	})
}
