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
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/timetools/clockcheck/monitor"
	"github.com/timetools/clockcheck/options"
)

func checkErr(t *testing.T, err error, format string, a ...any) {
	t.Helper()
	if err == nil {
		return
	}

	t.Fatalf(format, a...)
}

func assertListEquals(t *testing.T, list []string, items ...string) {
	t.Helper()

	sort.Strings(list)
	sort.Strings(items)

	if !cmp.Equal(list, items) {
		t.Fatalf("invalid items: %v", list)
	}
}

func assertHasPDItem(t *testing.T, check *monitor.Result, items ...string) {
	t.Helper()

	if len(items) == 0 {
		t.Fatalf("no items to assert")
	}

	pd := check.PerfData.String()
	for _, i := range items {
		if !strings.Contains(pd, i) {
			t.Fatalf("did not contain item: '%s': %s", i, pd)
		}
	}
}

type stubFetcher struct {
	body string
	url  string
}

func (f *stubFetcher) FetchJSON(_ context.Context, url string, into any) error {
	f.url = url
	return json.Unmarshal([]byte(f.body), into)
}

func setupCheckTest(fetcher monitor.Fetcher) {
	options.DefaultOptions = &options.Options{
		TimeSource:          "http://tick.example.net/",
		Timeout:             time.Second,
		PrometheusNamespace: "clockcheck",
		Fetcher:             fetcher,
	}
}

func TestCheckSecondCommand(t *testing.T) {
	fetcher := &stubFetcher{body: `{"time": "03:04:31 PM", "milliseconds_since_epoch": 1787238271000, "date": "08-23-2026"}`}
	setupCheckTest(fetcher)

	t.Run("Prime second", func(t *testing.T) {
		cmd := &checkCmd{prime: true}
		check := &monitor.Result{}

		err := cmd.checkSecond(check)
		checkErr(t, err, "check failed: %v", err)

		if fetcher.url != "http://tick.example.net/" {
			t.Fatalf("probed the wrong url: %s", fetcher.url)
		}

		assertListEquals(t, check.OKs, "second 31 is prime")
		assertHasPDItem(t, check, "second=31s;;;0;59")
	})

	t.Run("Good list miss", func(t *testing.T) {
		cmd := &checkCmd{goodSeconds: []string{"10", "20"}}
		check := &monitor.Result{}

		err := cmd.checkSecond(check)
		checkErr(t, err, "check failed: %v", err)

		assertListEquals(t, check.Criticals, "second 31 is not in the good list [10 20]")
	})

	t.Run("Invalid configuration is unknown", func(t *testing.T) {
		cmd := &checkCmd{aboveSpec: "not:a:number:at:all"}
		check := &monitor.Result{}

		err := cmd.checkSecond(check)
		checkErr(t, err, "check failed: %v", err)

		if len(check.Unknowns) != 1 {
			t.Fatalf("expected an unknown, got %v", check.Unknowns)
		}
	})
}

func TestCheckClockCommand(t *testing.T) {
	fetcher := &stubFetcher{body: `{"time": "03:04:31 PM", "milliseconds_since_epoch": 1, "date": "01-01-1970"}`}
	setupCheckTest(fetcher)

	cmd := &checkCmd{skewCrit: []string{"-60:60"}}
	check := &monitor.Result{}

	err := cmd.checkClock(check)
	checkErr(t, err, "check failed: %v", err)

	// the source reported the epoch so the skew is enormous
	if len(check.Criticals) != 1 {
		t.Fatalf("expected a critical, got %v", check.Criticals)
	}
	assertHasPDItem(t, check, "skew=")
}

func TestCheckValueCommand(t *testing.T) {
	setupCheckTest(nil)

	t.Run("Within range", func(t *testing.T) {
		cmd := &checkCmd{valueName: "load", value: 5, valueWarn: []string{"0:10"}, valueCrit: []string{"0:20"}}
		check := &monitor.Result{}

		err := cmd.checkValue(check)
		checkErr(t, err, "check failed: %v", err)

		assertListEquals(t, check.OKs, "load 5")
		assertHasPDItem(t, check, "load=5;0:10;0:20")
	})

	t.Run("Invalid range is unknown", func(t *testing.T) {
		cmd := &checkCmd{valueName: "load", value: 5, valueCrit: []string{"20:10"}}
		check := &monitor.Result{}

		err := cmd.checkValue(check)
		checkErr(t, err, "check failed: %v", err)

		if len(check.Unknowns) != 1 {
			t.Fatalf("expected an unknown, got %v", check.Unknowns)
		}
	})
}

func TestParseRenderFormat(t *testing.T) {
	cmd := &checkCmd{}

	cases := map[string]monitor.RenderFormat{
		"nagios":     monitor.NagiosFormat,
		"json":       monitor.JSONFormat,
		"prometheus": monitor.PrometheusFormat,
		"text":       monitor.TextFormat,
	}

	for text, format := range cases {
		checkRenderFormatText = text
		checkRenderFormat = monitor.NagiosFormat

		err := cmd.parseRenderFormat(nil)
		checkErr(t, err, "parse failed: %v", err)

		if checkRenderFormat != format {
			t.Fatalf("expected %q to select format %v, got %v", text, format, checkRenderFormat)
		}
	}
}

func TestSourceName(t *testing.T) {
	setupCheckTest(nil)

	if sourceName() != "tick.example.net" {
		t.Fatalf("unexpected source name %q", sourceName())
	}

	options.DefaultOptions.TimeSource = "not a url"
	if sourceName() != "not a url" {
		t.Fatalf("unexpected source name %q", sourceName())
	}
}
