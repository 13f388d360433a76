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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

type RenderFormat int

const (
	NagiosFormat RenderFormat = iota
	PrometheusFormat
	TextFormat
	JSONFormat
)

// Result accumulates the outcome of a single check. Messages are
// recorded per severity tier, the final status is the most severe tier
// holding a message: critical, then unknown, then warning. A result
// with no messages at all is UNKNOWN since the check never concluded.
type Result struct {
	Output       string       `json:"output,omitempty"`
	Status       Status       `json:"status"`
	Check        string       `json:"check_suite"`
	Name         string       `json:"check_name"`
	Warnings     []string     `json:"warning,omitempty"`
	Criticals    []string     `json:"critical,omitempty"`
	OKs          []string     `json:"ok,omitempty"`
	Unknowns     []string     `json:"unknown,omitempty"`
	PerfData     PerfData     `json:"perf_data"`
	RenderFormat RenderFormat `json:"-"`
	NameSpace    string       `json:"-"`
	OutFile      string       `json:"-"`
	Quiet        bool         `json:"-"`
}

func (r *Result) Pd(pd ...*PerfDataItem) {
	r.PerfData = append(r.PerfData, pd...)
}

func (r *Result) Critical(format string, a ...any) {
	r.Criticals = append(r.Criticals, fmt.Sprintf(format, a...))
}

func (r *Result) Warn(format string, a ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, a...))
}

func (r *Result) Ok(format string, a ...any) {
	r.OKs = append(r.OKs, fmt.Sprintf(format, a...))
}

func (r *Result) Unknown(format string, a ...any) {
	r.Unknowns = append(r.Unknowns, fmt.Sprintf(format, a...))
}

func (r *Result) CriticalExit(format string, a ...any) {
	r.Critical(format, a...)
	r.GenericExit()
}

func (r *Result) UnknownExit(format string, a ...any) {
	r.Unknown(format, a...)
	r.GenericExit()
}

// CriticalIfErr records a critical when err is set and reports whether
// it did. It never exits so callers driving many checks, like the
// exporter, survive a failing probe.
func (r *Result) CriticalIfErr(err error, format string, a ...any) bool {
	if err == nil {
		return false
	}

	r.Critical(format, a...)

	return true
}

// UnknownIfErr records configuration style failures: the check could
// not run, which the monitoring agent must distinguish from a probed
// critical condition.
func (r *Result) UnknownIfErr(err error, format string, a ...any) bool {
	if err == nil {
		return false
	}

	r.Unknown(format, a...)

	return true
}

func (r *Result) resolveStatus() {
	switch {
	case len(r.Criticals) > 0:
		r.Status = CriticalStatus
	case len(r.Unknowns) > 0:
		r.Status = UnknownStatus
	case len(r.Warnings) > 0:
		r.Status = WarningStatus
	case len(r.OKs) > 0 || r.Output != "":
		r.Status = OKStatus
	default:
		r.Status = UnknownStatus
	}
}

func (r *Result) exitCode() int {
	if r.RenderFormat == PrometheusFormat {
		return 0
	}

	return r.Status.ExitCode()
}

func (r *Result) Exit() {
	os.Exit(r.exitCode())
}

func (r *Result) renderHuman() string {
	buf := bytes.NewBuffer([]byte{})

	fmt.Fprintf(buf, "%s: %s\n\n", r.Name, r.Status.colored())

	tblWriter := newTableWriter("")
	tblWriter.AppendHeader(table.Row{"Status", "Message"})
	lines := 0
	for _, ok := range r.OKs {
		tblWriter.AppendRow(table.Row{"OK", ok})
		lines++
	}
	for _, warn := range r.Warnings {
		tblWriter.AppendRow(table.Row{"Warning", warn})
		lines++
	}
	for _, crit := range r.Criticals {
		tblWriter.AppendRow(table.Row{"Critical", crit})
		lines++
	}
	for _, unknown := range r.Unknowns {
		tblWriter.AppendRow(table.Row{"Unknown", unknown})
		lines++
	}

	if lines > 0 {
		fmt.Fprintln(buf, "Status Detail")
		fmt.Fprintln(buf)
		fmt.Fprint(buf, tblWriter.Render())
		fmt.Fprintln(buf)
	}

	tblWriter = newTableWriter("")
	tblWriter.AppendHeader(table.Row{"Metric", "Value", "Unit", "Critical Threshold", "Warning Threshold", "Description"})
	lines = 0
	for _, pd := range r.PerfData {
		tblWriter.AppendRow(table.Row{pd.Name, formatValue(pd.Value), pd.Unit, pd.Crit, pd.Warn, pd.Help})
		lines++
	}
	if lines > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "Check Metrics")
		fmt.Fprintln(buf)
		fmt.Fprint(buf, tblWriter.Render())
		fmt.Fprintln(buf)
	}

	return buf.String()
}

func (r *Result) renderPrometheus() string {
	if r.Check == "" {
		r.Check = r.Name
	}

	registry := prometheus.NewRegistry()

	sname := strings.ReplaceAll(r.Name, `"`, `.`)
	for _, pd := range r.PerfData {
		gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prometheus.BuildFQName(r.NameSpace, r.Check, pd.Name),
			Help: r.pdHelp(pd),
		}, []string{"item"})
		registry.MustRegister(gauge)
		gauge.WithLabelValues(sname).Set(pd.Value)
	}

	status := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(r.NameSpace, r.Check, "status_code"),
		Help: fmt.Sprintf("Nagios compatible status code for %s", r.Check),
	}, []string{"item", "status"})
	registry.MustRegister(status)

	status.WithLabelValues(sname, string(r.Status)).Set(float64(r.Status.ExitCode()))

	var buf bytes.Buffer

	mfs, err := registry.Gather()
	if err != nil {
		panic(err)
	}

	for _, mf := range mfs {
		_, err = expfmt.MetricFamilyToText(&buf, mf)
		if err != nil {
			panic(err)
		}
	}

	return buf.String()
}

func (r *Result) pdHelp(pd *PerfDataItem) string {
	if pd.Help != "" {
		return pd.Help
	}

	return fmt.Sprintf("Data about the clockcheck check %s", r.Check)
}

// Collect emits the perfdata gauges and the nagios status code on ch,
// used when results are gathered by the prometheus exporter rather
// than rendered to a status line.
func (r *Result) Collect(ch chan<- prometheus.Metric) {
	r.resolveStatus()

	if r.Check == "" {
		r.Check = r.Name
	}

	sname := strings.ReplaceAll(r.Name, `"`, `.`)
	for _, pd := range r.PerfData {
		desc := prometheus.NewDesc(prometheus.BuildFQName(r.NameSpace, r.Check, pd.Name), r.pdHelp(pd), []string{"item"}, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, pd.Value, sname)
	}

	desc := prometheus.NewDesc(
		prometheus.BuildFQName(r.NameSpace, r.Check, "status_code"),
		fmt.Sprintf("Nagios compatible status code for %s", r.Check),
		[]string{"item", "status"}, nil)
	ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(r.Status.ExitCode()), sname, string(r.Status))
}

func (r *Result) renderJSON() string {
	res, _ := json.MarshalIndent(r, "", "  ")
	return string(res)
}

func (r *Result) renderNagios() string {
	res := []string{r.Name}
	for _, u := range r.Unknowns {
		res = append(res, fmt.Sprintf("Unknown:%s", u))
	}

	for _, c := range r.Criticals {
		res = append(res, fmt.Sprintf("Crit:%s", c))
	}

	for _, w := range r.Warnings {
		res = append(res, fmt.Sprintf("Warn:%s", w))
	}

	if r.Output != "" {
		res = append(res, r.Output)
	} else if !r.Quiet {
		for _, ok := range r.OKs {
			res = append(res, fmt.Sprintf("OK:%s", ok))
		}
	}

	if len(r.PerfData) == 0 {
		return fmt.Sprintf("%s %s", r.Status, strings.Join(res, " "))
	}

	return fmt.Sprintf("%s %s | %s", r.Status, strings.Join(res, " "), r.PerfData)
}

func (r *Result) String() string {
	if r.PerfData == nil {
		r.PerfData = PerfData{}
	}

	r.resolveStatus()

	switch r.RenderFormat {
	case JSONFormat:
		return r.renderJSON()
	case PrometheusFormat:
		return r.renderPrometheus()
	case TextFormat:
		return r.renderHuman()
	default:
		return r.renderNagios()
	}
}

// writeOutFile writes the rendered result via a temp file and rename
// so monitoring agents never read a partial file.
func (r *Result) writeOutFile() error {
	f, err := os.CreateTemp(filepath.Dir(r.OutFile), "")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	_, err = fmt.Fprintln(f, r.String())
	if err != nil {
		return err
	}

	err = f.Close()
	if err != nil {
		return err
	}

	err = os.Chmod(f.Name(), 0644)
	if err != nil {
		return err
	}

	return os.Rename(f.Name(), r.OutFile)
}

// GenericExit renders the result to STDOUT, or atomically to OutFile
// when set, and terminates with the matching exit code. Every check
// path ends here so a verdict line is always produced.
func (r *Result) GenericExit() {
	if r.OutFile != "" {
		err := r.writeOutFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "result file write failed: %s", err)
			os.Exit(1)
		}

		r.Exit()
	}

	fmt.Println(r.String())

	r.Exit()
}
