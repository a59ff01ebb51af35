// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchseries groups benchmark records into per-identity
// comparison series ordered across application versions.
//
// A series holds at most one point per version: when a version was
// measured more than once, the record from the latest result file
// wins. Point order follows the version-ordering policy, not
// discovery order, so charts read left to right as older to newer
// even when result files were produced out of order.
package benchseries

import (
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/benchtrend/benchtrend/resultfmt"
)

// A Point is one version's measurement within a comparison series.
type Point struct {
	Version string
	Record  resultfmt.Record
}

// A ComparisonSeries is the ordered per-version measurements for one
// benchmark identity. Series are derived values: they are rebuilt
// from records on every invocation and never mutated afterwards.
type ComparisonSeries struct {
	Identity resultfmt.Identity
	Points   []Point
}

// A Summary condenses one series for the report's comparison table.
type Summary struct {
	BestMean  float64 // smallest mean across versions
	WorstMean float64 // largest mean across versions

	// RelativeChange is (last-first)/first as a fraction: -0.5
	// means the newest version runs in half the oldest's time.
	// It is 0 for single-point series.
	RelativeChange float64
}

// Summary derives the summary statistics for s.
func (s *ComparisonSeries) Summary() Summary {
	var sum Summary
	for i, p := range s.Points {
		m := p.Record.Stats.Mean
		if i == 0 {
			sum.BestMean, sum.WorstMean = m, m
			continue
		}
		if m < sum.BestMean {
			sum.BestMean = m
		}
		if m > sum.WorstMean {
			sum.WorstMean = m
		}
	}
	if len(s.Points) > 1 {
		first := s.Points[0].Record.Stats.Mean
		last := s.Points[len(s.Points)-1].Record.Stats.Mean
		if first != 0 {
			sum.RelativeChange = (last - first) / first
		}
	}
	return sum
}

// Build groups records by identity into comparison series.
//
// Within a group, duplicate versions are deduplicated last-write-wins
// on Sequence. Points are ordered by the version-ordering policy:
// parseable labels numerically ascending, unparseable labels after
// them in the order first encountered during the scan. Series are
// returned sorted by identity.
//
// Every returned series has at least one point; a single-point series
// is valid and renders as a single-bar chart.
func Build(recs []resultfmt.Record) []*ComparisonSeries {
	byIdentity := make(map[resultfmt.Identity]map[string]resultfmt.Record)
	// firstSeen orders unparseable labels by scan order.
	firstSeen := make(map[string]int)

	for _, r := range recs {
		seen, ok := firstSeen[r.Version]
		if !ok || r.Sequence < seen {
			firstSeen[r.Version] = r.Sequence
		}
		versions := byIdentity[r.Identity]
		if versions == nil {
			versions = make(map[string]resultfmt.Record)
			byIdentity[r.Identity] = versions
		}
		if prev, ok := versions[r.Version]; !ok || r.Sequence > prev.Sequence {
			versions[r.Version] = r
		}
	}

	var all []*ComparisonSeries
	for id, versions := range byIdentity {
		cs := &ComparisonSeries{Identity: id}
		for v, r := range versions {
			cs.Points = append(cs.Points, Point{Version: v, Record: r})
		}
		sortPoints(cs.Points, firstSeen)
		all = append(all, cs)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].Identity, all[j].Identity
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Param < b.Param
	})
	return all
}

func sortPoints(points []Point, firstSeen map[string]int) {
	parsed := make(map[string]parsedVersion, len(points))
	for _, p := range points {
		parsed[p.Version] = parseVersion(p.Version)
	}
	sort.SliceStable(points, func(i, j int) bool {
		a, b := parsed[points[i].Version], parsed[points[j].Version]
		switch {
		case a.ok && b.ok:
			return a.compare(b) < 0
		case a.ok:
			return true
		case b.ok:
			return false
		}
		return firstSeen[points[i].Version] < firstSeen[points[j].Version]
	})
}

// GeomeanChange returns the geometric mean of the last/first mean
// ratios across all series with at least two points, as a relative
// change fraction. ok is false when no series spans more than one
// version.
func GeomeanChange(all []*ComparisonSeries) (change float64, ok bool) {
	var ratios []float64
	for _, cs := range all {
		if len(cs.Points) < 2 {
			continue
		}
		first := cs.Points[0].Record.Stats.Mean
		last := cs.Points[len(cs.Points)-1].Record.Stats.Mean
		if first > 0 && last > 0 {
			ratios = append(ratios, last/first)
		}
	}
	if len(ratios) == 0 {
		return 0, false
	}
	return stats.GeoMean(ratios) - 1, true
}
