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
	"math"
	"testing"
)

func TestParseRange(t *testing.T) {
	t.Run("Valid specs", func(t *testing.T) {
		for _, spec := range []string{"10", "10:", ":10", "10:20", "-10:-5", "@10", "@10:20", "@:10", "0.5:1.5", "1e3:1e6"} {
			r, err := ParseRange(spec)
			checkErr(t, err, "parse %q failed: %v", spec, err)

			if r.String() != spec {
				t.Fatalf("expected %q to round trip, got %q", spec, r.String())
			}
		}
	})

	t.Run("Invalid specs", func(t *testing.T) {
		for _, spec := range []string{"", "@", ":", "@:", "1:2:3", "abc", "1:abc", "abc:1", "20:10", "@20:10"} {
			_, err := ParseRange(spec)
			if err == nil {
				t.Fatalf("expected %q to fail parsing", spec)
			}
		}
	})

	t.Run("Inversion flag", func(t *testing.T) {
		r, err := ParseRange("10:20")
		assertNoError(t, err)
		if r.Inverted() {
			t.Fatalf("plain range reported inverted")
		}

		r, err = ParseRange("@10:20")
		assertNoError(t, err)
		if !r.Inverted() {
			t.Fatalf("@ range not reported inverted")
		}
	})
}

func TestParseRanges(t *testing.T) {
	ranges, err := ParseRanges([]string{"10", ":20", "@5:6"})
	assertNoError(t, err)
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}

	_, err = ParseRanges([]string{"10", "bad"})
	assertError(t, err)

	ranges, err = ParseRanges(nil)
	assertNoError(t, err)
	if len(ranges) != 0 {
		t.Fatalf("expected no ranges, got %d", len(ranges))
	}
}

func TestRangeContains(t *testing.T) {
	cases := []struct {
		spec     string
		value    float64
		expected bool
	}{
		{"10", 10, true},
		{"10", 10.5, false},
		{"10", 9.999, false},
		{"10:", 10, true},
		{"10:", 9, false},
		{"10:", math.Inf(1), true},
		{":10", 10, true},
		{":10", -5, true},
		{":10", 11, false},
		{"10:20", 10, true},
		{"10:20", 20, true},
		{"10:20", 15, true},
		{"10:20", 9.99, false},
		{"10:20", 20.01, false},
		{"-10:-5", -7, true},
		{"-10:-5", 0, false},
		// @ does not change membership, only the alerting convention
		{"@10:20", 15, true},
		{"@10:20", 25, false},
	}

	for _, tc := range cases {
		r, err := ParseRange(tc.spec)
		checkErr(t, err, "parse %q failed: %v", tc.spec, err)

		if r.Contains(tc.value) != tc.expected {
			t.Fatalf("expected %q Contains(%v) to be %v", tc.spec, tc.value, tc.expected)
		}
	}
}

func TestRangeMatches(t *testing.T) {
	t.Run("Inversion law", func(t *testing.T) {
		values := []float64{-100, 0, 9.99, 10, 15, 20, 20.01, 1e9}
		for _, spec := range []string{"10:20", "10", ":10", "10:"} {
			plain, err := ParseRange(spec)
			assertNoError(t, err)
			inverted, err := ParseRange("@" + spec)
			assertNoError(t, err)

			for _, v := range values {
				if plain.Matches(v) == inverted.Matches(v) {
					t.Fatalf("expected %q and @%q to disagree on %v", spec, spec, v)
				}
			}
		}
	})

	t.Run("NaN never matches", func(t *testing.T) {
		for _, spec := range []string{"10:20", "@10:20", ":0", "@:0"} {
			r, err := ParseRange(spec)
			assertNoError(t, err)

			if r.Contains(math.NaN()) {
				t.Fatalf("%q contained NaN", spec)
			}
			if r.Matches(math.NaN()) {
				t.Fatalf("%q matched NaN", spec)
			}
			if !r.Triggers(math.NaN()) {
				t.Fatalf("%q did not trigger on NaN", spec)
			}
		}
	})
}

func TestRangeTriggers(t *testing.T) {
	cases := []struct {
		spec     string
		value    float64
		expected bool
	}{
		// plain ranges trigger outside
		{"10:20", 15, false},
		{"10:20", 10, false},
		{"10:20", 20, false},
		{"10:20", 9, true},
		{"10:20", 21, true},
		{"10", 10, false},
		{"10", 11, true},
		// inverted ranges trigger inside
		{"@10:20", 15, true},
		{"@10:20", 10, true},
		{"@10:20", 9, false},
		{"@10:20", 21, false},
	}

	for _, tc := range cases {
		r, err := ParseRange(tc.spec)
		checkErr(t, err, "parse %q failed: %v", tc.spec, err)

		if r.Triggers(tc.value) != tc.expected {
			t.Fatalf("expected %q Triggers(%v) to be %v", tc.spec, tc.value, tc.expected)
		}

		if r.Triggers(tc.value) == r.Matches(tc.value) {
			t.Fatalf("%q: Triggers and Matches agreed on %v", tc.spec, tc.value)
		}
	}
}

func TestEvaluate(t *testing.T) {
	mustRanges := func(specs ...string) []*Range {
		t.Helper()
		ranges, err := ParseRanges(specs)
		assertNoError(t, err)
		return ranges
	}

	t.Run("Critical beats warning", func(t *testing.T) {
		status := Evaluate(25, mustRanges("10:20"), mustRanges("10:20"))
		if status != CriticalStatus {
			t.Fatalf("expected CRITICAL, got %s", status)
		}
	})

	t.Run("Warning when only warning triggers", func(t *testing.T) {
		status := Evaluate(25, mustRanges("0:30"), mustRanges("10:20"))
		if status != WarningStatus {
			t.Fatalf("expected WARNING, got %s", status)
		}
	})

	t.Run("OK when nothing triggers", func(t *testing.T) {
		status := Evaluate(15, mustRanges("0:30"), mustRanges("10:20"))
		if status != OKStatus {
			t.Fatalf("expected OK, got %s", status)
		}
	})

	t.Run("Empty tiers never trigger", func(t *testing.T) {
		status := Evaluate(15, nil, nil)
		if status != OKStatus {
			t.Fatalf("expected OK, got %s", status)
		}
	})

	t.Run("Any triggering range in a tier wins", func(t *testing.T) {
		status := Evaluate(15, mustRanges("0:30", "20:25"), nil)
		if status != CriticalStatus {
			t.Fatalf("expected CRITICAL, got %s", status)
		}
	})

	t.Run("Inverted critical triggers inside", func(t *testing.T) {
		status := Evaluate(41, mustRanges("@40:50"), nil)
		if status != CriticalStatus {
			t.Fatalf("expected CRITICAL, got %s", status)
		}
	})

	t.Run("Outside inverted critical falls through to warning", func(t *testing.T) {
		status := Evaluate(60, mustRanges("@40:50"), mustRanges("35:55"))
		if status != WarningStatus {
			t.Fatalf("expected WARNING, got %s", status)
		}
	})

	t.Run("NaN triggers the most severe configured tier", func(t *testing.T) {
		status := Evaluate(math.NaN(), mustRanges("0:30"), nil)
		if status != CriticalStatus {
			t.Fatalf("expected CRITICAL, got %s", status)
		}

		status = Evaluate(math.NaN(), nil, mustRanges("0:30"))
		if status != WarningStatus {
			t.Fatalf("expected WARNING, got %s", status)
		}
	})
}

func TestParseWarnCrit(t *testing.T) {
	t.Run("Valid specs", func(t *testing.T) {
		wc, err := ParseWarnCrit("5:10")
		assertNoError(t, err)
		if wc.Warn != 5 || wc.Crit != 10 || wc.Unit != "" {
			t.Fatalf("unexpected parse: %#v", wc)
		}

		wc, err = ParseWarnCrit("5.5:10.5:seconds")
		assertNoError(t, err)
		if wc.Warn != 5.5 || wc.Crit != 10.5 || wc.Unit != "seconds" {
			t.Fatalf("unexpected parse: %#v", wc)
		}
	})

	t.Run("Invalid specs", func(t *testing.T) {
		for _, spec := range []string{"", "5", ":10", "5:", "5::s", "5:10:s:x", "a:10", "5:b"} {
			_, err := ParseWarnCrit(spec)
			if err == nil {
				t.Fatalf("expected %q to fail parsing", spec)
			}
		}
	})
}
