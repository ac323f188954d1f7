// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package co2db holds types to store and retrieve CO2 monitor readings
// from the readings database.
package co2db // import "github.com/go-daq/co2mon/co2db"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-daq/co2mon/zg01"
	_ "github.com/go-sql-driver/mysql"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// DB exposes convenience methods to easily store and retrieve CO2
// monitor readings from the readings database.
type DB struct {
	db   *sql.DB
	name string // name of the readings database
}

// Open opens a connection to the readings database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("co2db: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		return nil, fmt.Errorf("co2db: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("co2db: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// CreateTables creates the readings table if it does not exist yet.
func (db *DB) CreateTables(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		`
CREATE TABLE IF NOT EXISTS readings (
	id           INTEGER PRIMARY KEY AUTO_INCREMENT,
	timestamp    DATETIME NOT NULL,
	co2_ppm      INTEGER NOT NULL,
	temp_celsius DOUBLE NOT NULL
)
`,
	)
	if err != nil {
		return fmt.Errorf("co2db: could not create readings table: %w", err)
	}

	return nil
}

// Insert stores one reading.
func (db *DB) Insert(ctx context.Context, r zg01.Reading) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		"INSERT INTO readings (timestamp, co2_ppm, temp_celsius) VALUES (?, ?, ?)",
		r.When.UTC(), r.CO2, r.Temp,
	)
	if err != nil {
		return fmt.Errorf("co2db: could not insert reading: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("co2db: context error while inserting reading: %w", err)
	}

	return nil
}

// LastReading retrieves the most recent stored reading.
func (db *DB) LastReading(ctx context.Context) (zg01.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var r zg01.Reading
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT timestamp, co2_ppm, temp_celsius FROM readings ORDER BY timestamp DESC LIMIT 1",
	)
	if err != nil {
		return r, fmt.Errorf("co2db: could not query last reading: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&r.When, &r.CO2, &r.Temp)
		if err != nil {
			return r, fmt.Errorf("co2db: could not get last reading: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return r, fmt.Errorf("co2db: could not scan db for last reading: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return r, fmt.Errorf("co2db: context error while retrieving last reading: %w", err)
	}

	return r, nil
}

// ReadingsSince retrieves all readings acquired at or after t, in
// chronological order.
func (db *DB) ReadingsSince(ctx context.Context, t time.Time) ([]zg01.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rs []zg01.Reading
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT timestamp, co2_ppm, temp_celsius FROM readings WHERE timestamp >= ? ORDER BY timestamp",
		t.UTC(),
	)
	if err != nil {
		return rs, fmt.Errorf("co2db: could not query readings: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var r zg01.Reading
		err = rows.Scan(&r.When, &r.CO2, &r.Temp)
		if err != nil {
			return rs, fmt.Errorf("co2db: could not scan row %d for readings: %w", i, err)
		}
		i++

		rs = append(rs, r)
	}

	if err := rows.Err(); err != nil {
		return rs, fmt.Errorf("co2db: could not scan db for readings: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return rs, fmt.Errorf("co2db: context error while retrieving readings: %w", err)
	}

	return rs, nil
}
