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

// Package monitor implements NRPE/Nagios compatible monitoring checks:
// threshold range evaluation, check results with performance data and
// checks probing a remote time source.
package monitor

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

type Status string

var (
	OKStatus       Status = "OK"
	WarningStatus  Status = "WARNING"
	CriticalStatus Status = "CRITICAL"
	UnknownStatus  Status = "UNKNOWN"
)

// ExitCode maps a status to the NRPE plugin exit code convention.
func (s Status) ExitCode() int {
	switch s {
	case OKStatus:
		return 0
	case WarningStatus:
		return 1
	case CriticalStatus:
		return 2
	default:
		return 3
	}
}

func (s Status) colored() string {
	switch s {
	case OKStatus:
		return color.GreenString(string(s))
	case WarningStatus:
		return color.YellowString(string(s))
	case CriticalStatus:
		return color.RedString(string(s))
	default:
		return color.MagentaString(string(s))
	}
}

func newTableWriter(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleRounded)
	if title != "" {
		tbl.SetTitle(title)
	}

	return tbl
}
