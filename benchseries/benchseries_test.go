// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"math"
	"reflect"
	"testing"

	"github.com/benchtrend/benchtrend/resultfmt"
)

func rec(name, version string, seq int, mean float64) resultfmt.Record {
	n, p := resultfmt.SplitName(name)
	return resultfmt.Record{
		Identity: resultfmt.Identity{Name: n, Param: p},
		Version:  version,
		Sequence: seq,
		Stats: resultfmt.Stats{
			Mean: mean, Min: mean / 2, Max: mean * 2, StdDev: mean / 10, Rounds: 5,
		},
	}
}

func versionsOf(cs *ComparisonSeries) []string {
	var vs []string
	for _, p := range cs.Points {
		vs = append(vs, p.Version)
	}
	return vs
}

func TestBuildOrdersVersions(t *testing.T) {
	// Arbitrary file order; the series must come out oldest first.
	recs := []resultfmt.Record{
		rec("test_x", "6.1.0", 1, 1),
		rec("test_x", "5.1.6", 2, 2),
		rec("test_x", "6.0.4", 3, 3),
		rec("test_x", "5.2.4", 4, 4),
	}
	all := Build(recs)
	if len(all) != 1 {
		t.Fatalf("got %d series, want 1", len(all))
	}
	want := []string{"5.1.6", "5.2.4", "6.0.4", "6.1.0"}
	if got := versionsOf(all[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("got order %v, want %v", got, want)
	}
}

func TestBuildNonNumericLabelsSortLast(t *testing.T) {
	recs := []resultfmt.Record{
		rec("test_x", "current", 1, 1),
		rec("test_x", "6.1.0", 2, 1),
		rec("test_x", "baseline", 3, 1),
		rec("test_x", "5.1.6", 4, 1),
	}
	all := Build(recs)
	want := []string{"5.1.6", "6.1.0", "current", "baseline"}
	if got := versionsOf(all[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("got order %v, want %v", got, want)
	}
}

func TestBuildPreReleaseOrdering(t *testing.T) {
	recs := []resultfmt.Record{
		rec("test_x", "6.0.4", 1, 1),
		rec("test_x", "6.0.4-b1", 2, 1),
		rec("test_x", "5.2.4", 3, 1),
	}
	all := Build(recs)
	want := []string{"5.2.4", "6.0.4-b1", "6.0.4"}
	if got := versionsOf(all[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("got order %v, want %v", got, want)
	}
}

func TestBuildDeduplicatesLastWriteWins(t *testing.T) {
	recs := []resultfmt.Record{
		rec("test_x", "5.2.4", 1, 0.9),
		rec("test_x", "5.2.4", 3, 0.1), // re-run, higher sequence wins
		rec("test_x", "5.2.4", 2, 0.5),
	}
	all := Build(recs)
	if len(all[0].Points) != 1 {
		t.Fatalf("got %d points, want 1", len(all[0].Points))
	}
	if got := all[0].Points[0].Record.Stats.Mean; got != 0.1 {
		t.Errorf("kept mean %v, want 0.1 from sequence 3", got)
	}
}

func TestBuildGroupsByIdentity(t *testing.T) {
	recs := []resultfmt.Record{
		rec("test_filter[person]", "5.2.4", 1, 1),
		rec("test_filter[event]", "5.2.4", 1, 1),
		rec("test_filter", "5.2.4", 1, 1),
	}
	all := Build(recs)
	if len(all) != 3 {
		t.Fatalf("got %d series, want 3", len(all))
	}
	// Sorted by name then param; the unparameterized variant first.
	want := []string{"test_filter", "test_filter[event]", "test_filter[person]"}
	for i, cs := range all {
		if got := cs.Identity.String(); got != want[i] {
			t.Errorf("series %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	recs := []resultfmt.Record{
		rec("test_x", "6.0.4", 2, 0.001),
		rec("test_x", "5.2.4", 1, 0.002),
		rec("test_y[p]", "current", 3, 0.5),
	}
	first := Build(recs)
	second := Build(recs)
	if !reflect.DeepEqual(first, second) {
		t.Error("two builds over the same records differ")
	}
}

func TestSummaryRelativeChange(t *testing.T) {
	recs := []resultfmt.Record{
		rec("test_x", "5.2.4", 1, 0.002),
		rec("test_x", "6.0.4", 2, 0.001),
	}
	all := Build(recs)
	sum := all[0].Summary()
	if sum.BestMean != 0.001 || sum.WorstMean != 0.002 {
		t.Errorf("got best %v worst %v", sum.BestMean, sum.WorstMean)
	}
	if math.Abs(sum.RelativeChange - -0.5) > 1e-12 {
		t.Errorf("got relative change %v, want -0.5", sum.RelativeChange)
	}
}

func TestSinglePointSeries(t *testing.T) {
	all := Build([]resultfmt.Record{rec("test_x", "current", 1, 0.25)})
	if len(all) != 1 || len(all[0].Points) != 1 {
		t.Fatalf("got %+v, want one single-point series", all)
	}
	sum := all[0].Summary()
	if sum.BestMean != 0.25 || sum.WorstMean != 0.25 || sum.RelativeChange != 0 {
		t.Errorf("got summary %+v", sum)
	}
}

func TestGeomeanChange(t *testing.T) {
	recs := []resultfmt.Record{
		rec("test_x", "5.2.4", 1, 0.002),
		rec("test_x", "6.0.4", 2, 0.001),
		rec("test_y", "5.2.4", 1, 0.004),
		rec("test_y", "6.0.4", 2, 0.002),
		rec("test_z", "current", 3, 1), // single point, excluded
	}
	change, ok := GeomeanChange(Build(recs))
	if !ok {
		t.Fatal("GeomeanChange not ok")
	}
	if math.Abs(change - -0.5) > 1e-12 {
		t.Errorf("got %v, want -0.5", change)
	}

	if _, ok := GeomeanChange(Build(recs[4:])); ok {
		t.Error("single-point input: got ok, want !ok")
	}
}
