// Copyright 2025 The co2mon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command co2mon-export exposes CO2 monitor readings as Prometheus
// metrics.
package main // import "github.com/go-daq/co2mon/cmd/co2mon-export"

import (
	"net/http"
	"time"

	"github.com/go-daq/co2mon/zg01"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/log"
	"github.com/prometheus/common/version"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	exporterName = "co2mon_exporter"
	namespace    = "co2monitor"
)

func main() {
	var (
		listenAddress = kingpin.Flag("web.listen-address", "Address to listen on for web interface and telemetry.").Default(":9673").String()
		metricsPath   = kingpin.Flag("web.telemetry-path", "Path under which to expose metrics.").Default("/metrics").String()
		device        = kingpin.Flag("device", "hidraw device").Default("").String()
		maxReqs       = kingpin.Flag("max-requests", "Maximum number of HID reports per reading.").Default("50").Int()
		freq          = kingpin.Flag("freq", "Acquisition frequency.").Default("10s").Duration()
	)

	log.AddFlags(kingpin.CommandLine)
	kingpin.Version(version.Print(exporterName))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	log.Infoln("Starting", exporterName, version.Info())
	log.Infoln("Build context", version.BuildContext())

	co2 := promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "co2_ppm",
	})
	temp := promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "temp_celsius",
	})

	rdo, err := zg01.NewReadout(zg01.WithHidraw(*device))
	if err != nil {
		log.Fatal(err)
	}
	defer rdo.Close()

	go func() {
		for {
			r, err := rdo.Read(*maxReqs)
			if err != nil {
				log.Errorln("could not acquire reading:", err)
			} else {
				co2.Set(float64(r.CO2))
				temp.Set(r.Temp)
			}
			time.Sleep(*freq)
		}
	}()

	log.Infoln("Listening on", *listenAddress)
	http.Handle(*metricsPath, promhttp.Handler())
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>
             <head><title>CO2 Monitor Exporter</title></head>
             <body>
             <h1>CO2 Monitor Exporter</h1>
             <p><a href='` + *metricsPath + `'>Metrics</a></p>
             </body>
             </html>`))
	})
	log.Fatal(http.ListenAndServe(*listenAddress, nil))
}
