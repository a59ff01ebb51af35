// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"strings"
	"testing"
)

const sampleFile = `{
	"version": "5.2.4",
	"machine_info": {"node": "bench-host", "arch": "x86_64"},
	"benchmarks": [
		{
			"name": "test_x",
			"stats": {"mean": 0.002, "min": 0.0015, "max": 0.0031, "stddev": 0.0002, "rounds": 12}
		},
		{
			"name": "test_filter[person]",
			"stats": {"mean": 0.5, "min": 0.4, "max": 0.7, "stddev": 0.05, "rounds": 3}
		}
	]
}`

func TestReadResults(t *testing.T) {
	recs, meta, warns, err := ReadResults(strings.NewReader(sampleFile), "5.2.4", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Errorf("got %d warnings, want 0: %v", len(warns), warns)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	r := recs[0]
	if r.Identity != (Identity{Name: "test_x"}) {
		t.Errorf("got identity %+v, want test_x", r.Identity)
	}
	if r.Version != "5.2.4" || r.Sequence != 1 {
		t.Errorf("got version %q seq %d, want 5.2.4 1", r.Version, r.Sequence)
	}
	if r.Stats.Mean != 0.002 || r.Stats.Rounds != 12 {
		t.Errorf("got stats %+v", r.Stats)
	}

	if recs[1].Identity != (Identity{Name: "test_filter", Param: "person"}) {
		t.Errorf("got identity %+v, want test_filter[person]", recs[1].Identity)
	}

	if meta.Version != "5.2.4" {
		t.Errorf("got meta version %q, want 5.2.4", meta.Version)
	}
	if meta.MachineInfo["node"] != "bench-host" {
		t.Errorf("got machine info %v", meta.MachineInfo)
	}
}

func TestReadResultsMalformedEntries(t *testing.T) {
	// One valid entry, one with a missing field, one with a bad
	// value. The valid one must survive; the others become
	// warnings, never errors.
	const in = `{"benchmarks": [
		{"name": "good", "stats": {"mean": 1, "min": 1, "max": 1, "stddev": 0, "rounds": 2}},
		{"name": "no_mean", "stats": {"min": 1, "max": 1, "stddev": 0, "rounds": 2}},
		{"name": "bad_rounds", "stats": {"mean": 1, "min": 1, "max": 1, "stddev": 0, "rounds": 0}}
	]}`
	recs, _, warns, err := ReadResults(strings.NewReader(in), "current", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Identity.Name != "good" {
		t.Errorf("got records %+v, want only good", recs)
	}
	if len(warns) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warns), warns)
	}
	for _, w := range warns {
		if _, ok := w.(*MalformedResultError); !ok {
			t.Errorf("warning %v is %T, want *MalformedResultError", w, w)
		}
	}
}

func TestReadResultsBadFile(t *testing.T) {
	if _, _, _, err := ReadResults(strings.NewReader("not json"), "x", 1); err == nil {
		t.Error("decoding garbage succeeded, want error")
	}
}

func TestReadResultsEmptyBenchmarkList(t *testing.T) {
	// A structurally valid file with no entries decodes to zero
	// records; an empty run is not a decode failure.
	for _, in := range []string{`{"benchmarks": []}`, `{"version": "6.0.4"}`} {
		recs, _, warns, err := ReadResults(strings.NewReader(in), "6.0.4", 1)
		if err != nil {
			t.Errorf("ReadResults(%q) = %v, want nil error", in, err)
		}
		if len(recs) != 0 || len(warns) != 0 {
			t.Errorf("ReadResults(%q) = %d records, %d warnings, want none", in, len(recs), len(warns))
		}
	}
}

func TestExplicitParamWins(t *testing.T) {
	const in = `{"benchmarks": [
		{"name": "test_q[raw]", "param": "cooked",
		 "stats": {"mean": 1, "min": 1, "max": 1, "stddev": 0, "rounds": 1}}
	]}`
	recs, _, _, err := ReadResults(strings.NewReader(in), "x", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := recs[0].Identity.Param, "cooked"; got != want {
		t.Errorf("got param %q, want %q", got, want)
	}
}
