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

package cli

import (
	"net/url"

	"github.com/choria-io/fisk"
	"github.com/timetools/clockcheck/monitor"
)

type checkCmd struct {
	skewWarn []string
	skewCrit []string

	goodSeconds []string
	prime       bool
	aboveSpec   string
	belowSpec   string

	valueName string
	value     float64
	valueUnit string
	valueWarn []string
	valueCrit []string

	exporterConfigFile  string
	exporterPort        int
	exporterCertificate string
	exporterKey         string
}

func configureCheckCommand(app commandHost) {
	c := &checkCmd{}

	check := app.Command("check", "Nagios compatible checks against a time source")
	check.Flag("format", "Render the check in a specific format (nagios, json, prometheus, text)").Default("nagios").EnumVar(&checkRenderFormatText, "nagios", "json", "prometheus", "text")
	check.Flag("namespace", "The prometheus namespace to use in output").Default(opts().PrometheusNamespace).StringVar(&opts().PrometheusNamespace)
	check.Flag("outfile", "Save output to a file rather than STDOUT").StringVar(&checkRenderOutFile)
	check.PreAction(c.parseRenderFormat)

	clock := check.Command("clock", "Checks the local clock skew against the time source").Action(c.checkClockAction)
	clock.Flag("skew-warn", "Warning threshold range for the skew in seconds").PlaceHolder("RANGE").StringsVar(&c.skewWarn)
	clock.Flag("skew-critical", "Critical threshold range for the skew in seconds").PlaceHolder("RANGE").StringsVar(&c.skewCrit)

	second := check.Command("second", "Checks the seconds value of the time source wall clock").Action(c.checkSecondAction)
	second.Flag("good", `Seconds considered good, or "all" to accept any`).PlaceHolder("SECOND").StringsVar(&c.goodSeconds)
	second.Flag("prime", "Requires the current second to be a prime number").UnNegatableBoolVar(&c.prime)
	second.Flag("above", "Alerts when the second is at or below these thresholds").PlaceHolder("WARN:CRIT[:UNIT]").StringVar(&c.aboveSpec)
	second.Flag("below", "Alerts when the second is at or above these thresholds").PlaceHolder("WARN:CRIT[:UNIT]").StringVar(&c.belowSpec)

	value := check.Command("value", "Checks a supplied value against threshold ranges").Action(c.checkValueAction)
	value.Arg("value", "The value to check").Required().Float64Var(&c.value)
	value.Flag("name", "The name of the value in output").Default("value").StringVar(&c.valueName)
	value.Flag("unit", "Unit of measure for performance data").StringVar(&c.valueUnit)
	value.Flag("warn", "Warning threshold range").PlaceHolder("RANGE").StringsVar(&c.valueWarn)
	value.Flag("critical", "Critical threshold range").PlaceHolder("RANGE").StringsVar(&c.valueCrit)

	exporter := check.Command("exporter", "Prometheus exporter for time source checks").Action(c.exporterAction)
	exporter.Flag("config", "Exporter configuration").Required().ExistingFileVar(&c.exporterConfigFile)
	exporter.Flag("port", "Port to listen on").Default("8080").IntVar(&c.exporterPort)
	exporter.Flag("https-key", "Key for HTTPS").ExistingFileVar(&c.exporterKey)
	exporter.Flag("https-certificate", "Certificate for HTTPS").ExistingFileVar(&c.exporterCertificate)
}

func init() {
	registerCommand("check", 0, configureCheckCommand)
}

var (
	checkRenderFormatText = "nagios"
	checkRenderFormat     = monitor.NagiosFormat
	checkRenderOutFile    = ""
)

func (c *checkCmd) parseRenderFormat(_ *fisk.ParseContext) error {
	switch checkRenderFormatText {
	case "prometheus":
		checkRenderFormat = monitor.PrometheusFormat
	case "text":
		checkRenderFormat = monitor.TextFormat
	case "json":
		checkRenderFormat = monitor.JSONFormat
	}

	return nil
}

func newCheckResult(name string, kind string) *monitor.Result {
	return &monitor.Result{
		Name:         name,
		Check:        kind,
		OutFile:      checkRenderOutFile,
		NameSpace:    opts().PrometheusNamespace,
		RenderFormat: checkRenderFormat,
		Quiet:        opts().Quiet,
	}
}

// sourceName labels results with the probed host so perfdata from
// different sources stays distinguishable.
func sourceName() string {
	u, err := url.Parse(opts().TimeSource)
	if err != nil || u.Host == "" {
		return opts().TimeSource
	}

	return u.Host
}

func (c *checkCmd) checkClockAction(_ *fisk.ParseContext) error {
	check := newCheckResult(sourceName(), "clock")
	defer check.GenericExit()

	return c.checkClock(check)
}

func (c *checkCmd) checkClock(check *monitor.Result) error {
	err := monitor.CheckClockSkew(fetcher(), check, opts().Timeout, monitor.CheckClockSkewOptions{
		TimeSource:   opts().TimeSource,
		SkewWarning:  c.skewWarn,
		SkewCritical: c.skewCrit,
	})
	check.UnknownIfErr(err, "invalid check configuration: %v", err)

	return nil
}

func (c *checkCmd) checkSecondAction(_ *fisk.ParseContext) error {
	check := newCheckResult(sourceName(), "second")
	defer check.GenericExit()

	return c.checkSecond(check)
}

func (c *checkCmd) checkSecond(check *monitor.Result) error {
	err := monitor.CheckSecond(fetcher(), check, opts().Timeout, monitor.CheckSecondOptions{
		TimeSource:  opts().TimeSource,
		GoodSeconds: c.goodSeconds,
		Prime:       c.prime,
		AboveSpec:   c.aboveSpec,
		BelowSpec:   c.belowSpec,
	})
	check.UnknownIfErr(err, "invalid check configuration: %v", err)

	return nil
}

func (c *checkCmd) checkValueAction(_ *fisk.ParseContext) error {
	check := newCheckResult(c.valueName, "value")
	defer check.GenericExit()

	return c.checkValue(check)
}

func (c *checkCmd) checkValue(check *monitor.Result) error {
	err := monitor.CheckValue(check, monitor.CheckValueOptions{
		Name:     c.valueName,
		Value:    c.value,
		Unit:     c.valueUnit,
		Warning:  c.valueWarn,
		Critical: c.valueCrit,
	})
	check.UnknownIfErr(err, "invalid check configuration: %v", err)

	return nil
}
