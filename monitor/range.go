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
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a Nagios style threshold range parsed from a textual spec.
//
// Supported forms:
//
//	N     exact value, equivalent to N:N
//	N:    inclusive lower bound, unbounded above
//	:N    inclusive upper bound, unbounded below
//	N:M   closed interval, requires N <= M
//
// A leading "@" inverts the alerting convention: a plain range triggers
// when the measured value falls outside it, an inverted range triggers
// when the value falls inside it.
type Range struct {
	spec   string
	lower  float64
	upper  float64
	invert bool
}

// ParseRange parses a threshold range spec. It fails on an empty spec,
// more than one ":", a non numeric bound or a closed interval with the
// bounds in the wrong order.
func ParseRange(spec string) (*Range, error) {
	if spec == "" {
		return nil, fmt.Errorf("empty range specification")
	}

	r := &Range{
		spec:  spec,
		lower: math.Inf(-1),
		upper: math.Inf(1),
	}

	body := spec
	if strings.HasPrefix(body, "@") {
		r.invert = true
		body = strings.TrimPrefix(body, "@")
		if body == "" {
			return nil, fmt.Errorf("invalid range %q: no bounds", spec)
		}
	}

	parts := strings.Split(body, ":")
	switch len(parts) {
	case 1:
		v, err := parseBound(spec, parts[0])
		if err != nil {
			return nil, err
		}
		r.lower, r.upper = v, v

	case 2:
		if parts[0] == "" && parts[1] == "" {
			return nil, fmt.Errorf("invalid range %q: no bounds", spec)
		}

		if parts[0] != "" {
			v, err := parseBound(spec, parts[0])
			if err != nil {
				return nil, err
			}
			r.lower = v
		}

		if parts[1] != "" {
			v, err := parseBound(spec, parts[1])
			if err != nil {
				return nil, err
			}
			r.upper = v
		}

		if r.lower > r.upper {
			return nil, fmt.Errorf("invalid range %q: lower bound exceeds upper bound", spec)
		}

	default:
		return nil, fmt.Errorf("invalid range %q: too many ':'", spec)
	}

	return r, nil
}

// ParseRanges parses a list of range specs, the first failure wins.
func ParseRanges(specs []string) ([]*Range, error) {
	var ranges []*Range

	for _, spec := range specs {
		r, err := ParseRange(spec)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}

	return ranges, nil
}

func parseBound(spec string, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid range %q: bound %q is not a number", spec, s)
	}

	return v, nil
}

// Contains reports raw interval membership with inclusive bounds,
// ignoring inversion. NaN is never contained in any range.
func (r *Range) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}

	return v >= r.lower && v <= r.upper
}

// Matches is Contains with the inversion flag applied. NaN never
// matches: the non-match is decided before inversion so an inverted
// range does not match NaN either.
func (r *Range) Matches(v float64) bool {
	if math.IsNaN(v) {
		return false
	}

	if r.invert {
		return !r.Contains(v)
	}

	return r.Contains(v)
}

// Triggers reports whether the value raises the threshold: outside a
// plain range, or inside an @ inverted range. NaN always triggers since
// it satisfies no in-bounds condition.
func (r *Range) Triggers(v float64) bool {
	return !r.Matches(v)
}

// Inverted reports whether the spec carried a leading "@".
func (r *Range) Inverted() bool { return r.invert }

func (r *Range) String() string { return r.spec }

// Evaluate checks a measurement against the critical ranges first, then
// the warning ranges, returning the most severe tier with a triggering
// range. A tier without ranges never triggers.
func Evaluate(value float64, critical []*Range, warning []*Range) Status {
	for _, r := range critical {
		if r.Triggers(value) {
			return CriticalStatus
		}
	}

	for _, r := range warning {
		if r.Triggers(value) {
			return WarningStatus
		}
	}

	return OKStatus
}

// WarnCrit is the simple "WARN:CRIT[:unit]" threshold pair used by the
// directional second checks.
type WarnCrit struct {
	Warn float64
	Crit float64
	Unit string
}

// ParseWarnCrit parses a WARN:CRIT[:unit] spec. Blank fields are not
// allowed and both thresholds must be numeric.
func ParseWarnCrit(spec string) (*WarnCrit, error) {
	parts := strings.Split(spec, ":")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("blanks are not allowed in a threshold specification: %s", spec)
		}
	}

	if len(parts) < 2 {
		return nil, fmt.Errorf("too few thresholds in %q, at least WARN:CRIT is required", spec)
	}
	if len(parts) > 3 {
		return nil, fmt.Errorf("too many threshold specifiers in %q", spec)
	}

	warn, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid warning threshold %q: not a number", parts[0])
	}

	crit, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid critical threshold %q: not a number", parts[1])
	}

	wc := &WarnCrit{Warn: warn, Crit: crit}
	if len(parts) == 3 {
		wc.Unit = parts[2]
	}

	return wc, nil
}
