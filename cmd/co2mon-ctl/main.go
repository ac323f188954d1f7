// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2mon-ctl monitors CO2 levels and raises e-mail alerts when
// the concentration stays above a threshold.
//
// Monitoring is started and stopped over a simple TCP+JSON control
// connection:
//
//  {"cmd": "start"}
//  {"cmd": "stop"}
package main // import "github.com/go-daq/co2mon/cmd/co2mon-ctl"

import (
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-daq/co2mon/zg01"
	mail "gopkg.in/gomail.v2"
)

func main() {
	var (
		addr   = flag.String("addr", ":8866", "[ip]:port to listen on")
		freq   = flag.Duration("freq", 30*time.Second, "probing interval")
		thresh = flag.Int("thresh", 1400, "CO2 alert threshold (ppm)")
		nhigh  = flag.Int("nhigh", 3, "number of consecutive high readings before alerting")
	)

	flag.Parse()

	log.SetPrefix("co2mon-ctl: ")
	log.SetFlags(0)

	run(*addr, *freq, uint32(*thresh), *nhigh)
}

func run(addr string, freq time.Duration, thresh uint32, nhigh int) {
	srv, err := newServer(addr, freq, thresh, nhigh)
	if err != nil {
		log.Fatalf("could not create server: %+v", err)
	}
	log.Printf("running co2mon-ctl server on %q...", addr)
	srv.run()
}

type server struct {
	conn net.Listener

	freq   time.Duration
	thresh uint32
	nhigh  int
	alerts int // number of alerts sent for the current high episode
}

func newServer(addr string, freq time.Duration, thresh uint32, nhigh int) (*server, error) {
	srv, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not listen on %q: %w", addr, err)
	}
	return &server{
		conn:   srv,
		freq:   freq,
		thresh: thresh,
		nhigh:  nhigh,
	}, nil
}

func (srv *server) run() {
	defer srv.conn.Close()

	for {
		conn, err := srv.conn.Accept()
		if err != nil {
			log.Printf("could not accept connection: %+v", err)
		}
		go srv.handle(conn)
	}
}

func (srv *server) handle(conn net.Conn) {
	defer conn.Close()

	var done chan int

	for {
		var (
			req Request
			err = json.NewDecoder(conn).Decode(&req)
		)
		if err != nil {
			log.Printf("could not decode command: %+v", err)
			if done != nil {
				close(done)
			}
			return
		}
		switch req.Name {
		case "start":
			log.Printf("starting monitoring...")
			if done != nil {
				_ = json.NewEncoder(conn).Encode(Reply{Err: "monitoring already started"})
				continue
			}
			done = make(chan int)
			go srv.monitor(done)
			_ = json.NewEncoder(conn).Encode(Reply{Msg: "ok"})
			log.Printf("starting monitoring... [done]")

		case "stop":
			log.Printf("stopping monitoring...")
			if done == nil {
				_ = json.NewEncoder(conn).Encode(Reply{Err: "monitoring not started"})
				continue
			}
			close(done)
			done = nil
			_ = json.NewEncoder(conn).Encode(Reply{Msg: "ok"})
			log.Printf("stopping monitoring... [done]")
			return

		default:
			log.Printf("unknown command %q", req.Name)
			_ = json.NewEncoder(conn).Encode(Reply{Err: "unknown command"})
		}
	}
}

type Request struct {
	Name string   `json:"cmd"`
	Args []string `json:"args"`
}

type Reply struct {
	Msg string `json:"msg"`
	Err string `json:"err,omitempty"`
}

func (srv *server) monitor(quit chan int) {
	var (
		tick = time.NewTicker(srv.freq)
		high = 0
	)

	defer tick.Stop()

	for {
		select {
		case <-quit:
			return
		case <-tick.C:
			r, err := zg01.Acquire(50)
			if err != nil {
				log.Printf("could not acquire reading: %+v", err)
				continue
			}
			switch {
			case r.CO2 >= srv.thresh:
				high++
				if high >= srv.nhigh {
					srv.alert(r)
				}
			default:
				high = 0
				srv.alerts = 0
			}
		}
	}
}

func (srv *server) alert(r zg01.Reading) {
	log.Printf("CO2 level above %d ppm for the last %v (co2=%d ppm)",
		srv.thresh, time.Duration(srv.nhigh)*srv.freq, r.CO2,
	)
	srv.alerts++

	const maxAlerts = 5
	if srv.alerts < maxAlerts {
		srv.alertMail(r)
	}
}

var (
	alertMailUsr  = os.Getenv("MAIL_USERNAME")
	alertMailPwd  = os.Getenv("MAIL_PASSWORD")
	alertMailSrv  = os.Getenv("MAIL_SERVER")
	alertMailPort = atoi(os.Getenv("MAIL_PORT"))
	alertMailTgts = strings.Split(os.Getenv("MAIL_TGTS"), ",")
)

func (srv *server) alertMail(r zg01.Reading) {
	if alertMailUsr == "" || alertMailPwd == "" ||
		alertMailSrv == "" || alertMailPort == 0 ||
		alertMailTgts == nil || len(alertMailTgts) == 0 {
		log.Printf("could not send mail alert: missing credentials")
		return
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", alertMailUsr)
	msg.SetHeader("Bcc", alertMailTgts...)
	msg.SetHeader("Subject", fmt.Sprintf("[co2mon-ctl] CO2 alert: %d ppm", r.CO2))
	msg.SetBody("text/plain", fmt.Sprintf("time: %v\nco2:  %d ppm\ntemp: %.2f°C\nfreq: %v",
		r.When.Format("2006-01-02 15:04:05"), r.CO2, r.Temp, srv.freq,
	))

	dial := mail.NewDialer(alertMailSrv, alertMailPort, alertMailUsr, alertMailPwd)
	dial.TLSConfig = &tls.Config{
		InsecureSkipVerify: true,
	}
	err := dial.DialAndSend(msg)
	if err != nil {
		log.Printf("could not send mail alert: %+v", err)
	}
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
