// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultfmt reads benchmark result files produced by the
// external benchmark harness.
//
// A result file is a JSON document holding the full set of benchmarks
// measured in one harness pass. Files follow the naming convention
// NNNN_<label>.json, where NNNN is a zero-padded sequence number and
// <label> is the version of the application under measurement.
//
// This package validates every record at the boundary: records with
// missing, negative, or non-finite timing fields never escape it.
package resultfmt

import (
	"fmt"
	"math"
	"strings"
)

// An Identity names what a benchmark measured, independent of the
// version it was measured against. Two records with equal identities
// are directly comparable across versions.
type Identity struct {
	// Name is the base benchmark name, without any parameter
	// signature.
	Name string

	// Param is the optional parameter signature of a
	// parameterized benchmark ("test_filter[person]" has Param
	// "person"). It is "" for unparameterized benchmarks.
	Param string
}

// String returns the full benchmark name, with the parameter
// signature as a bracketed suffix if present.
func (id Identity) String() string {
	if id.Param == "" {
		return id.Name
	}
	return id.Name + "[" + id.Param + "]"
}

// SplitName splits a full benchmark name into its base name and
// optional bracketed parameter signature. Names without a trailing
// bracketed suffix are returned unchanged with an empty param.
func SplitName(full string) (name, param string) {
	if !strings.HasSuffix(full, "]") {
		return full, ""
	}
	i := strings.Index(full, "[")
	if i < 0 {
		return full, ""
	}
	return full[:i], full[i+1 : len(full)-1]
}

// Stats holds the timing statistics of one measured benchmark.
// All times are in seconds.
type Stats struct {
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64

	// Rounds is the number of timed rounds the statistics were
	// computed over. Always >= 1 for a valid record.
	Rounds int
}

// A Record is one decoded measurement of one benchmark identity in
// one harness run. Records are pure values; they are rebuilt from the
// result directory on every invocation and never mutated.
type Record struct {
	Identity Identity

	// Version is the label of the application version this record
	// was measured against, e.g. "5.2.4" or "current".
	Version string

	// Sequence is the ordinal of the result file this record came
	// from. It orders records chronologically and breaks ties when
	// one version was measured more than once.
	Sequence int

	Stats Stats
}

// A MalformedResultError reports a benchmark entry that failed
// boundary validation. Malformed entries are skippable: one bad
// record must not abort a scan.
type MalformedResultError struct {
	Benchmark string // full benchmark name, "" if unknown
	Reason    string
}

func (e *MalformedResultError) Error() string {
	if e.Benchmark == "" {
		return "malformed result: " + e.Reason
	}
	return fmt.Sprintf("malformed result %q: %s", e.Benchmark, e.Reason)
}

// validate checks the Stats contract: all timing fields finite and
// non-negative, rounds >= 1.
func (s Stats) validate(benchmark string) error {
	check := func(field string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &MalformedResultError{benchmark, field + " is not finite"}
		}
		if v < 0 {
			return &MalformedResultError{benchmark, field + " is negative"}
		}
		return nil
	}
	if err := check("mean", s.Mean); err != nil {
		return err
	}
	if err := check("min", s.Min); err != nil {
		return err
	}
	if err := check("max", s.Max); err != nil {
		return err
	}
	if err := check("stddev", s.StdDev); err != nil {
		return err
	}
	if s.Rounds < 1 {
		return &MalformedResultError{benchmark, fmt.Sprintf("rounds is %d, want >= 1", s.Rounds)}
	}
	return nil
}
