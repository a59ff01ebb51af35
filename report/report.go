// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report assembles comparison series and chart artifacts into
// output documents.
//
// Three formats are supported: pdf (print-oriented), html
// (interactive, self-contained: charts are inlined as data URIs) and
// md (portable markup, charts linked by relative path). Each
// invocation writes two documents: performance_comparison.<ext> with
// the run summary and cross-version comparison table, and
// benchmark_charts.<ext> with one section per benchmark containing
// its chart and per-version statistics.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/benchtrend/benchtrend/benchchart"
	"github.com/benchtrend/benchtrend/benchseries"
	"github.com/benchtrend/benchtrend/resultfmt"
)

// A Format selects a report rendering backend.
type Format string

const (
	PDF      Format = "pdf"
	HTML     Format = "html"
	Markdown Format = "md"
)

// Ext returns the file extension for documents in this format.
func (f Format) Ext() string { return string(f) }

// An UnsupportedFormatError reports a request for a format with no
// rendering backend. It is fatal: the generator never falls back to
// another format, and no partial output is written.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported report format %q", e.Format)
}

// ParseFormat validates a format selector from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PDF, HTML, Markdown:
		return Format(s), nil
	}
	return "", &UnsupportedFormatError{s}
}

// A Chart is one rendered chart artifact, keyed by the identity it
// plots.
type Chart struct {
	// Name is the artifact file name within the charts directory,
	// used by backends that link rather than embed.
	Name string

	// PNG is the rendered image, used by backends that embed.
	PNG []byte
}

// ChartSet maps each benchmark identity to its chart artifact.
type ChartSet map[resultfmt.Identity]Chart

// Metadata is the run-level information shown in every report's
// summary section.
type Metadata struct {
	Title       string
	GeneratedAt time.Time
	Platform    string

	// Files lists the result files the report covers, in sequence
	// order.
	Files []string

	// Skipped lists files or entries that failed to decode. The
	// summary always names them, even on overall success.
	Skipped []string
}

// A Report is the assembled input of one generation pass.
type Report struct {
	Series []*benchseries.ComparisonSeries
	Charts ChartSet
	Meta   Metadata
}

// DocumentNames are the two documents every backend emits.
const (
	ChartsDoc     = "benchmark_charts"
	ComparisonDoc = "performance_comparison"
)

// A Generator renders reports into an output directory.
type Generator struct {
	// OutDir is the directory documents are written into.
	OutDir string

	backends map[Format]func(*Generator, *Report) error
}

// NewGenerator returns a Generator with all built-in backends
// registered.
func NewGenerator(outDir string) *Generator {
	return &Generator{
		OutDir: outDir,
		backends: map[Format]func(*Generator, *Report) error{
			PDF:      (*Generator).pdf,
			HTML:     (*Generator).html,
			Markdown: (*Generator).markdown,
		},
	}
}

// Generate renders rep in the requested format. An unregistered
// format fails with *UnsupportedFormatError before any file is
// created.
func (g *Generator) Generate(f Format, rep *Report) error {
	backend, ok := g.backends[f]
	if !ok {
		return &UnsupportedFormatError{string(f)}
	}
	return backend(g, rep)
}

// ChartsDir is the subdirectory of the output directory that holds
// the PNG artifacts linked by the markdown backend.
const ChartsDir = "charts"

// RenderCharts renders every series' chart into outDir/charts and
// returns the chart set shared by all backends.
func RenderCharts(series []*benchseries.ComparisonSeries, outDir string) (ChartSet, error) {
	dir := filepath.Join(outDir, ChartsDir)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	charts := make(ChartSet, len(series))
	for _, cs := range series {
		png, err := benchchart.PNG(cs)
		if err != nil {
			return nil, fmt.Errorf("rendering chart for %s: %w", cs.Identity, err)
		}
		name := benchchart.Slug(cs.Identity) + ".png"
		if err := os.WriteFile(filepath.Join(dir, name), png, 0666); err != nil {
			return nil, err
		}
		charts[cs.Identity] = Chart{Name: name, PNG: png}
	}
	return charts, nil
}

// seriesView is the per-benchmark section data shared by the
// backends.
type seriesView struct {
	Title   string
	Chart   Chart
	Rows    []rowView
	Summary summaryView
}

type rowView struct {
	Version string
	Mean    string
	Min     string
	Max     string
	StdDev  string
	Rounds  int
}

type summaryView struct {
	Benchmark string
	Versions  int
	BestMean  string
	WorstMean string
	LastMean  string
	Change    string

	lastMean float64
}

func (rep *Report) seriesViews() []seriesView {
	views := make([]seriesView, 0, len(rep.Series))
	for _, cs := range rep.Series {
		v := seriesView{
			Title: cs.Identity.String(),
			Chart: rep.Charts[cs.Identity],
		}
		for _, p := range cs.Points {
			v.Rows = append(v.Rows, rowView{
				Version: p.Version,
				Mean:    fmtSeconds(p.Record.Stats.Mean),
				Min:     fmtSeconds(p.Record.Stats.Min),
				Max:     fmtSeconds(p.Record.Stats.Max),
				StdDev:  fmtSeconds(p.Record.Stats.StdDev),
				Rounds:  p.Record.Stats.Rounds,
			})
		}
		sum := cs.Summary()
		last := cs.Points[len(cs.Points)-1].Record.Stats.Mean
		v.Summary = summaryView{
			Benchmark: v.Title,
			Versions:  len(cs.Points),
			BestMean:  fmtSeconds(sum.BestMean),
			WorstMean: fmtSeconds(sum.WorstMean),
			LastMean:  fmtSeconds(last),
			Change:    fmtChange(sum.RelativeChange, len(cs.Points) > 1),
			lastMean:  last,
		}
		views = append(views, v)
	}
	return views
}

// summaryRows orders the comparison table slowest-first by the
// newest version's mean.
func summaryRows(views []seriesView) []summaryView {
	rows := make([]summaryView, len(views))
	for i, v := range views {
		rows[i] = v.Summary
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].lastMean > rows[j].lastMean
	})
	return rows
}

func (rep *Report) geomeanLine() string {
	change, ok := benchseries.GeomeanChange(rep.Series)
	if !ok {
		return ""
	}
	return fmtPercent(change)
}
