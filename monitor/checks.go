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

package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Fetcher retrieves a JSON document from a time source. The network
// client lives elsewhere so checks can be exercised against canned
// documents.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, into any) error
}

// timeDoc is the document served by jsontest style time sources.
type timeDoc struct {
	Time   string  `json:"time"`
	Millis float64 `json:"milliseconds_since_epoch"`
	Date   string  `json:"date"`
}

const timeDocLayout = "03:04:05 PM"

// CheckClockSkewOptions configures a clock skew check against a remote
// time source. Thresholds are Nagios range specs evaluated against the
// skew in seconds, positive when the local clock is ahead.
type CheckClockSkewOptions struct {
	// TimeSource is the URL of the JSON time source
	TimeSource string `json:"time_source" yaml:"time_source"`
	// SkewWarning are warning threshold ranges in seconds
	SkewWarning []string `json:"skew_warning" yaml:"skew_warning"`
	// SkewCritical are critical threshold ranges in seconds
	SkewCritical []string `json:"skew_critical" yaml:"skew_critical"`
}

// CheckClockSkew compares the local clock against the epoch reported by
// the time source and evaluates the difference against threshold ranges.
func CheckClockSkew(f Fetcher, check *Result, timeout time.Duration, opts CheckClockSkewOptions) error {
	warning, err := ParseRanges(opts.SkewWarning)
	if err != nil {
		return fmt.Errorf("invalid skew warning threshold: %w", err)
	}

	critical, err := ParseRanges(opts.SkewCritical)
	if err != nil {
		return fmt.Errorf("invalid skew critical threshold: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	doc := timeDoc{}
	err = f.FetchJSON(ctx, opts.TimeSource, &doc)
	if check.CriticalIfErr(err, "time source request failed: %v", err) {
		return nil
	}

	if doc.Millis == 0 {
		check.Critical("time source sent no epoch timestamp")
		return nil
	}

	remote := time.UnixMilli(int64(doc.Millis))
	skew := time.Since(remote).Seconds()

	check.Pd(&PerfDataItem{
		Name:  "skew",
		Value: skew,
		Unit:  "s",
		Warn:  rangesSpec(warning),
		Crit:  rangesSpec(critical),
		Help:  "Local clock skew relative to the time source",
	})

	msg := fmt.Sprintf("clock skew %ss, time source read %s", humanize.CommafWithDigits(skew, 3), humanize.Time(remote))

	switch Evaluate(skew, critical, warning) {
	case CriticalStatus:
		check.Critical("%s", msg)
	case WarningStatus:
		check.Warn("%s", msg)
	default:
		check.Ok("%s", msg)
	}

	return nil
}

func rangesSpec(ranges []*Range) string {
	if len(ranges) == 0 {
		return ""
	}

	specs := make([]string, len(ranges))
	for i, r := range ranges {
		specs[i] = r.String()
	}

	return strings.Join(specs, ",")
}

// CheckSecondOptions configures the current-second check. GoodSeconds
// holds numbers, or the keyword "all" which accepts every second.
// AboveSpec alerts when the second is at or below its thresholds,
// BelowSpec alerts when it is at or above them, both as WARN:CRIT[:unit].
type CheckSecondOptions struct {
	// TimeSource is the URL of the JSON time source
	TimeSource string `json:"time_source" yaml:"time_source"`
	// GoodSeconds are acceptable values for the current second
	GoodSeconds []string `json:"good_seconds" yaml:"good_seconds"`
	// Prime requires the current second to be a prime number
	Prime bool `json:"prime" yaml:"prime"`
	// AboveSpec alerts when the second is at or below WARN:CRIT
	AboveSpec string `json:"above" yaml:"above"`
	// BelowSpec alerts when the second is at or above WARN:CRIT
	BelowSpec string `json:"below" yaml:"below"`
}

// CheckSecond fetches the wall clock time from the time source and
// evaluates the seconds component against the configured conditions.
// Every configured condition contributes its own message so a single
// probe can raise several alerts.
func CheckSecond(f Fetcher, check *Result, timeout time.Duration, opts CheckSecondOptions) error {
	good, goodAll, err := parseGoodSeconds(opts.GoodSeconds)
	if err != nil {
		return err
	}

	var above, below *WarnCrit
	if opts.AboveSpec != "" {
		above, err = ParseWarnCrit(opts.AboveSpec)
		if err != nil {
			return err
		}
	}
	if opts.BelowSpec != "" {
		below, err = ParseWarnCrit(opts.BelowSpec)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	doc := timeDoc{}
	err = f.FetchJSON(ctx, opts.TimeSource, &doc)
	if check.CriticalIfErr(err, "time source request failed: %v", err) {
		return nil
	}

	ts, err := time.Parse(timeDocLayout, doc.Time)
	if check.CriticalIfErr(err, "time source sent unparsable time %q: %v", doc.Time, err) {
		return nil
	}

	second := ts.Second()

	check.Pd(&PerfDataItem{
		Name:  "second",
		Value: float64(second),
		Unit:  "s",
		Min:   "0",
		Max:   "59",
		Help:  "Seconds component of the time source wall clock",
	})

	if len(good) > 0 || goodAll {
		switch {
		case goodAll:
			check.Ok("all seconds are good, second is %d", second)
		case containsInt(good, second):
			check.Ok("second %d is in the good list", second)
		default:
			check.Critical("second %d is not in the good list %v", second, good)
		}
	}

	if opts.Prime {
		if isPrime(second) {
			check.Ok("second %d is prime", second)
		} else {
			check.Critical("second %d is not prime", second)
		}
	}

	if above != nil {
		switch {
		case float64(second) <= above.Crit:
			check.Critical("second %d is not above %s", second, above.describe(above.Crit))
		case float64(second) <= above.Warn:
			check.Warn("second %d is not above %s", second, above.describe(above.Warn))
		default:
			check.Ok("second %d is above %s", second, above.describe(above.Warn))
		}
	}

	if below != nil {
		switch {
		case float64(second) >= below.Crit:
			check.Critical("second %d is not below %s", second, below.describe(below.Crit))
		case float64(second) >= below.Warn:
			check.Warn("second %d is not below %s", second, below.describe(below.Warn))
		default:
			check.Ok("second %d is below %s", second, below.describe(below.Warn))
		}
	}

	if len(check.Criticals) == 0 && len(check.Warnings) == 0 && len(check.OKs) == 0 {
		check.Ok("second is %d", second)
	}

	return nil
}

func (wc *WarnCrit) describe(threshold float64) string {
	if wc.Unit == "" {
		return formatValue(threshold)
	}

	return fmt.Sprintf("%s %s", formatValue(threshold), wc.Unit)
}

func parseGoodSeconds(specs []string) ([]int, bool, error) {
	var good []int

	for _, s := range specs {
		if s == "all" {
			return nil, true, nil
		}

		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, false, fmt.Errorf("invalid good second %q: not a number", s)
		}

		good = append(good, v)
	}

	return good, false, nil
}

func containsInt(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}

	return false
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}

	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}

	return true
}

// CheckValueOptions configures a network free check of a supplied value
// against threshold ranges.
type CheckValueOptions struct {
	// Name labels the value in messages and perfdata
	Name string `json:"name" yaml:"name"`
	// Value is the measurement to evaluate
	Value float64 `json:"value" yaml:"value"`
	// Unit is an optional unit of measure for perfdata
	Unit string `json:"unit" yaml:"unit"`
	// Warning are warning threshold ranges
	Warning []string `json:"warning" yaml:"warning"`
	// Critical are critical threshold ranges
	Critical []string `json:"critical" yaml:"critical"`
}

// CheckValue evaluates a measurement against threshold ranges, critical
// ranges first. Useful for wrapping values probed by other tooling.
func CheckValue(check *Result, opts CheckValueOptions) error {
	name := opts.Name
	if name == "" {
		name = "value"
	}

	warning, err := ParseRanges(opts.Warning)
	if err != nil {
		return fmt.Errorf("invalid warning threshold: %w", err)
	}

	critical, err := ParseRanges(opts.Critical)
	if err != nil {
		return fmt.Errorf("invalid critical threshold: %w", err)
	}

	check.Pd(&PerfDataItem{
		Name:  name,
		Value: opts.Value,
		Unit:  opts.Unit,
		Warn:  rangesSpec(warning),
		Crit:  rangesSpec(critical),
	})

	switch Evaluate(opts.Value, critical, warning) {
	case CriticalStatus:
		check.Critical("%s %s", name, formatValue(opts.Value))
	case WarningStatus:
		check.Warn("%s %s", name, formatValue(opts.Value))
	default:
		check.Ok("%s %s", name, formatValue(opts.Value))
	}

	return nil
}
