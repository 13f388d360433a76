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

package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/choria-io/fisk"
	"github.com/timetools/clockcheck/cli"
)

var version = "development"

func main() {
	help := `Time source monitoring utility

Nagios and NRPE compatible checks probing JSON time sources.`

	ccli := fisk.New("clockcheck", help)
	ccli.Author("Clockcheck Authors")
	ccli.UsageWriter(os.Stdout)
	ccli.Version(getVersion())
	ccli.HelpFlag.Short('h')

	opts, err := cli.ConfigureInApp(ccli, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "UNKNOWN could not configure commands: %v\n", err)
		os.Exit(3)
	}
	cli.SetVersion(version)

	ccli.Flag("time-source", "URL of the JSON time source").Default("http://date.jsontest.com/").Envar("CLOCKCHECK_SOURCE").PlaceHolder("URL").StringVar(&opts.TimeSource)
	ccli.Flag("timeout", "Time to wait on responses from the time source").Default("10s").Envar("CLOCKCHECK_TIMEOUT").PlaceHolder("DURATION").DurationVar(&opts.Timeout)
	ccli.Flag("validate", "Validate the TLS certificate of the time source").Default("true").BoolVar(&validateTLS)
	ccli.Flag("header", "Additional HTTP headers to send").PlaceHolder("NAME:VALUE").StringMapVar(&opts.Headers)
	ccli.Flag("quiet", "Suppress OK messages in check output").UnNegatableBoolVar(&opts.Quiet)
	ccli.Flag("trace", "Trace time source requests").BoolVar(&opts.Trace)

	ccli.PreAction(func(_ *fisk.ParseContext) error {
		opts.Insecure = !validateTLS
		return nil
	})

	log.SetFlags(log.Ltime)

	fisk.MustParse(ccli.Parse(os.Args[1:]))
}

var validateTLS = true

func getVersion() string {
	if version != "development" {
		return version
	}

	nfo, ok := debug.ReadBuildInfo()
	if !ok || (nfo != nil && nfo.Main.Version == "") {
		return version
	}

	return nfo.Main.Version
}
