// Copyright 2024-2026 The Clockcheck Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package exporter serves time source checks as prometheus metrics,
// every scrape runs the configured checks.
package exporter

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/ghodss/yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/timetools/clockcheck/monitor"
)

// Check is a single check to run on every scrape. Properties configure
// the check and follow the matching monitor check options.
type Check struct {
	Name       string          `json:"name" yaml:"name"`
	Kind       string          `json:"kind" yaml:"kind"`
	TimeSource string          `json:"time_source" yaml:"time_source"`
	Properties json.RawMessage `json:"properties" yaml:"properties"`
}

type Config struct {
	TimeSource string   `yaml:"time_source"`
	Checks     []*Check `yaml:"checks"`
}

type Exporter struct {
	ns      string
	fetcher monitor.Fetcher
	timeout time.Duration
	config  Config
}

func NewExporter(ns string, f string, fetcher monitor.Fetcher, timeout time.Duration) (*Exporter, error) {
	cf, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}

	if ns == "" {
		ns = "clockcheck"
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	exporter := &Exporter{
		ns:      ns,
		fetcher: fetcher,
		timeout: timeout,
	}

	err = yaml.Unmarshal(cf, &exporter.config)
	if err != nil {
		return nil, err
	}

	return exporter, nil
}

// Describe implements prometheus.Collector
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	// we have dynamic metrics so we cant really do this all upfront at the moment
	//
	// according to https://github.com/prometheus/client_golang/issues/47 doing nothing
	// here is the right, if discouraged, thing to do here.
}

// Collect implements prometheus.Collector
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	for _, check := range e.config.Checks {
		result := &monitor.Result{Name: check.Name, Check: check.Kind, NameSpace: e.ns, RenderFormat: monitor.NagiosFormat}

		var err error

		switch check.Kind {
		case "clock":
			err = e.checkClock(check, result)
		case "second":
			err = e.checkSecond(check, result)
		case "value":
			err = e.checkValue(check, result)
		default:
			log.Printf("Unknown check kind %s", check.Kind)
			continue
		}

		result.UnknownIfErr(err, "invalid check configuration: %v", err)
		result.Collect(ch)
		log.Print(result)
	}
}

func (e *Exporter) timeSource(check *Check) string {
	if check.TimeSource != "" {
		return check.TimeSource
	}

	return e.config.TimeSource
}

func (e *Exporter) checkClock(check *Check, result *monitor.Result) error {
	copts := monitor.CheckClockSkewOptions{}
	err := parseProperties(check, &copts)
	if err != nil {
		return err
	}

	if copts.TimeSource == "" {
		copts.TimeSource = e.timeSource(check)
	}

	return monitor.CheckClockSkew(e.fetcher, result, e.timeout, copts)
}

func (e *Exporter) checkSecond(check *Check, result *monitor.Result) error {
	copts := monitor.CheckSecondOptions{}
	err := parseProperties(check, &copts)
	if err != nil {
		return err
	}

	if copts.TimeSource == "" {
		copts.TimeSource = e.timeSource(check)
	}

	return monitor.CheckSecond(e.fetcher, result, e.timeout, copts)
}

func (e *Exporter) checkValue(check *Check, result *monitor.Result) error {
	copts := monitor.CheckValueOptions{}
	err := parseProperties(check, &copts)
	if err != nil {
		return err
	}

	return monitor.CheckValue(result, copts)
}

// checks without properties are valid, they run with defaults
func parseProperties(check *Check, into any) error {
	if len(check.Properties) == 0 {
		return nil
	}

	return yaml.Unmarshal(check.Properties, into)
}
