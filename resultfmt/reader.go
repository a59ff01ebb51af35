// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"encoding/json"
	"fmt"
	"io"
)

// Meta is the run-level metadata a result file may carry alongside
// its benchmark entries.
type Meta struct {
	// Version is the version label recorded inside the file, if
	// any. The filename label takes precedence; this is only
	// informational.
	Version string

	// MachineInfo describes the machine the harness ran on. Keys
	// and value shapes are harness-defined; the pipeline treats it
	// as opaque.
	MachineInfo map[string]interface{}
}

// resultFile mirrors the harness result-file schema.
type resultFile struct {
	Version     string                 `json:"version"`
	MachineInfo map[string]interface{} `json:"machine_info"`
	Benchmarks  []benchmarkEntry       `json:"benchmarks"`
}

type benchmarkEntry struct {
	Name  string     `json:"name"`
	Param string     `json:"param"`
	Stats statsEntry `json:"stats"`
}

// statsEntry uses pointer fields so that absent statistics are
// distinguishable from zero ones.
type statsEntry struct {
	Mean   *float64 `json:"mean"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	StdDev *float64 `json:"stddev"`
	Rounds *int     `json:"rounds"`
}

// ReadResults decodes one result file and returns a Record for every
// valid benchmark entry, each tagged with the given version label and
// sequence number.
//
// Malformed entries are dropped and reported in warns so that one bad
// record cannot abort the scan. A file that cannot be decoded at all
// is reported through err; a decodable file with no benchmark entries
// yields zero records.
func ReadResults(r io.Reader, version string, seq int) (recs []Record, meta Meta, warns []error, err error) {
	var f resultFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, Meta{}, nil, fmt.Errorf("decoding result file: %w", err)
	}
	meta = Meta{Version: f.Version, MachineInfo: f.MachineInfo}

	for _, b := range f.Benchmarks {
		rec, err := newRecord(b, version, seq)
		if err != nil {
			warns = append(warns, err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, meta, warns, nil
}

func newRecord(b benchmarkEntry, version string, seq int) (Record, error) {
	if b.Name == "" {
		return Record{}, &MalformedResultError{Reason: "entry has no name"}
	}
	full := b.Name
	name, param := SplitName(full)
	if b.Param != "" {
		// An explicit param field wins over the bracketed suffix.
		param = b.Param
	}

	s := b.Stats
	for field, p := range map[string]*float64{
		"mean": s.Mean, "min": s.Min, "max": s.Max, "stddev": s.StdDev,
	} {
		if p == nil {
			return Record{}, &MalformedResultError{full, "missing " + field}
		}
	}
	if s.Rounds == nil {
		return Record{}, &MalformedResultError{full, "missing rounds"}
	}

	stats := Stats{
		Mean:   *s.Mean,
		Min:    *s.Min,
		Max:    *s.Max,
		StdDev: *s.StdDev,
		Rounds: *s.Rounds,
	}
	if err := stats.validate(full); err != nil {
		return Record{}, err
	}
	return Record{
		Identity: Identity{Name: name, Param: param},
		Version:  version,
		Sequence: seq,
		Stats:    stats,
	}, nil
}
