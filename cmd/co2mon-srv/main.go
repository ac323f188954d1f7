// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2mon-srv starts a TDAQ server publishing CO2 monitor
// readings on its "/co2" end-point.
//
// Each output frame body is 20 bytes: a big-endian uint64 timestamp
// (nanoseconds since the Unix epoch), a big-endian uint32 CO2
// concentration in ppm and a big-endian IEEE-754 float64 temperature
// in Celsius.
package main // import "github.com/go-daq/co2mon/cmd/co2mon-srv"

import (
	"context"
	"encoding/binary"
	"log"
	"math"
	"os"
	"time"

	"github.com/go-daq/co2mon/zg01"
	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
)

func main() {
	cmd := flags.New()

	dev := co2mon{
		freq:    10 * time.Second,
		maxReqs: 50,
	}

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/co2", dev.co2)

	srv.RunHandle(dev.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type co2mon struct {
	rdo *zg01.Readout

	freq    time.Duration
	maxReqs int

	n    int
	data chan []byte
}

func (dev *co2mon) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	return nil
}

func (dev *co2mon) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	rdo, err := zg01.NewReadout()
	if err != nil {
		return err
	}
	dev.rdo = rdo
	dev.data = make(chan []byte, 1024)
	dev.n = 0
	return nil
}

func (dev *co2mon) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	dev.data = make(chan []byte, 1024)
	dev.n = 0
	return nil
}

func (dev *co2mon) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	return nil
}

func (dev *co2mon) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	n := dev.n
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (dev *co2mon) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	if dev.rdo != nil {
		return dev.rdo.Close()
	}
	return nil
}

func (dev *co2mon) co2(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-dev.data:
		dst.Body = data
	}
	return nil
}

func (dev *co2mon) run(ctx tdaq.Context) error {
	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		default:
			r, err := dev.rdo.Read(dev.maxReqs)
			if err != nil {
				ctx.Msg.Warnf("could not acquire reading: %+v", err)
				break
			}
			select {
			case dev.data <- pack(r):
				dev.n++
			default:
			}
		}
		time.Sleep(dev.freq)
	}
}

func pack(r zg01.Reading) []byte {
	buf := make([]byte, 20)
	binary.BigEndian.PutUint64(buf[0:8], uint64(r.When.UnixNano()))
	binary.BigEndian.PutUint32(buf[8:12], r.CO2)
	binary.BigEndian.PutUint64(buf[12:20], math.Float64bits(r.Temp))
	return buf
}
