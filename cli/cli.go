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
	glog "log"
	"sort"
	"sync"
	"time"

	"github.com/choria-io/fisk"
	"github.com/timetools/clockcheck/internal/fetch"
	"github.com/timetools/clockcheck/monitor"
	"github.com/timetools/clockcheck/options"
)

type command struct {
	Name    string
	Order   int
	Command func(app commandHost)
}

type commandHost interface {
	Command(name string, help string) *fisk.CmdClause
}

// Logger provides a pluggable logger implementation
type Logger interface {
	Printf(format string, a ...any)
	Fatalf(format string, a ...any)
	Print(a ...any)
	Fatal(a ...any)
	Println(a ...any)
}

var (
	commands = []*command{}
	mu       sync.Mutex
	Version  = "development"
	log      Logger
)

const defaultTimeSource = "http://date.jsontest.com/"

func registerCommand(name string, order int, c func(app commandHost)) {
	mu.Lock()
	commands = append(commands, &command{name, order, c})
	mu.Unlock()
}

func SetVersion(v string) {
	mu.Lock()
	defer mu.Unlock()

	Version = v
}

// SetLogger sets a custom logger to use
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()

	log = l
}

func commonConfigure(cmd commandHost, cliOpts *options.Options, disable ...string) error {
	if cliOpts != nil {
		options.DefaultOptions = cliOpts
	} else {
		options.DefaultOptions = &options.Options{}
	}

	if options.DefaultOptions.Timeout == 0 {
		options.DefaultOptions.Timeout = 10 * time.Second
	}
	if options.DefaultOptions.TimeSource == "" {
		options.DefaultOptions.TimeSource = defaultTimeSource
	}
	if options.DefaultOptions.PrometheusNamespace == "" {
		options.DefaultOptions.PrometheusNamespace = "clockcheck"
	}

	log = goLogger{}

	sort.Slice(commands, func(i int, j int) bool {
		return commands[i].Name < commands[j].Name
	})

	shouldEnable := func(name string) bool {
		for _, d := range disable {
			if d == name {
				return false
			}
		}

		return true
	}

	for _, c := range commands {
		if shouldEnable(c.Name) {
			c.Command(cmd)
		}
	}

	return nil
}

// ConfigureInCommand attaches the cli commands to cmd. Disable is a
// list of command names to skip.
func ConfigureInCommand(cmd *fisk.CmdClause, cliOpts *options.Options, disable ...string) (*options.Options, error) {
	err := commonConfigure(cmd, cliOpts, disable...)
	if err != nil {
		return nil, err
	}

	return options.DefaultOptions, nil
}

// ConfigureInApp attaches the cli commands to app. Disable is a list of
// command names to skip.
func ConfigureInApp(app *fisk.Application, cliOpts *options.Options, disable ...string) (*options.Options, error) {
	err := commonConfigure(app, cliOpts, disable...)
	if err != nil {
		return nil, err
	}

	return options.DefaultOptions, nil
}

type goLogger struct{}

func (goLogger) Fatalf(format string, a ...any) { glog.Fatalf(format, a...) }
func (goLogger) Printf(format string, a ...any) { glog.Printf(format, a...) }
func (goLogger) Print(a ...any)                 { glog.Print(a...) }
func (goLogger) Println(a ...any)               { glog.Println(a...) }
func (goLogger) Fatal(a ...any)                 { glog.Fatal(a...) }

func opts() *options.Options {
	return options.DefaultOptions
}

// fetcher returns the prepared fetcher from the options when one is
// set, otherwise a HTTP client honoring the global flags.
func fetcher() monitor.Fetcher {
	if opts().Fetcher != nil {
		return opts().Fetcher
	}

	return &fetch.Client{
		Timeout:  opts().Timeout,
		Insecure: opts().Insecure,
		Headers:  opts().Headers,
		Trace:    opts().Trace,
		Log:      log,
	}
}
