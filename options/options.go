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

package options

import (
	"time"

	"github.com/timetools/clockcheck/monitor"
)

var DefaultOptions *Options

// Options configure the CLI
type Options struct {
	// TimeSource is the URL of the JSON time source to probe
	TimeSource string
	// Timeout is how long to wait for the time source
	Timeout time.Duration
	// Insecure disables TLS certificate validation
	Insecure bool
	// Headers are extra HTTP headers sent to the time source
	Headers map[string]string
	// Trace enables verbose request logging
	Trace bool
	// Quiet suppresses OK messages in check output
	Quiet bool
	// PrometheusNamespace is the namespace to use for prometheus format output in checks
	PrometheusNamespace string
	// Fetcher sets a prepared fetcher to probe with, used in tests
	Fetcher monitor.Fetcher
}
