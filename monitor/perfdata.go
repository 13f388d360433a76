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
	"strconv"
	"strings"
)

// PerfDataItem is a single performance data measurement. Warn, Crit,
// Min and Max are rendered by literal interpolation, they may hold
// plain numbers or range specs.
type PerfDataItem struct {
	Help  string  `json:"-"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Warn  string  `json:"warning,omitempty"`
	Crit  string  `json:"critical,omitempty"`
	Min   string  `json:"min,omitempty"`
	Max   string  `json:"max,omitempty"`
}

type PerfData []*PerfDataItem

func (p PerfData) String() string {
	var res []string
	for _, i := range p {
		res = append(res, i.String())
	}

	return strings.TrimSpace(strings.Join(res, " "))
}

// String renders the item as name=value[unit];warn;crit;min;max with
// trailing empty fields trimmed.
func (i *PerfDataItem) String() string {
	pd := fmt.Sprintf("%s=%s%s", i.Name, formatValue(i.Value), i.Unit)

	fields := []string{i.Warn, i.Crit, i.Min, i.Max}
	last := -1
	for idx, f := range fields {
		if f != "" {
			last = idx
		}
	}

	for idx := 0; idx <= last; idx++ {
		pd += ";" + fields[idx]
	}

	return pd
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
