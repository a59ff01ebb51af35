// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart renders comparison series as PNG bar charts.
//
// Each chart plots one benchmark identity: one bar per version in
// series order, mean execution time on the Y axis with error bars
// derived from the standard deviation. Version order on the X axis is
// the series' order, so charts read older to newer left to right.
package benchchart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/benchtrend/benchtrend/benchseries"
	"github.com/benchtrend/benchtrend/resultfmt"
)

// Slug derives the filesystem-safe artifact name for an identity.
// Runs of characters outside [A-Za-z0-9._-], notably the parameter
// brackets, become underscores so the name is valid on all target
// filesystems.
func Slug(id resultfmt.Identity) string {
	full := id.String()
	var b strings.Builder
	b.Grow(len(full))
	for _, r := range full {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// barColor matches the original report styling.
var barColor = color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}

// PNG renders s to a PNG image and returns its bytes.
//
// Rendering an empty series is a programming error: the aggregator
// never produces one, so PNG panics rather than returning an error.
func PNG(s *benchseries.ComparisonSeries) ([]byte, error) {
	if len(s.Points) == 0 {
		panic(fmt.Sprintf("benchchart: empty series %q", s.Identity))
	}

	means := make(plotter.Values, len(s.Points))
	versions := make([]string, len(s.Points))
	for i, p := range s.Points {
		means[i] = p.Record.Stats.Mean
		versions[i] = p.Version
	}

	pl := plot.New()
	pl.Title.Text = s.Identity.String()
	pl.Title.TextStyle.Font.Size = vg.Points(14)
	pl.Y.Label.Text = "execution time (seconds)"
	pl.Y.Min = 0

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	bars, err := plotter.NewBarChart(means, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Color = color.Black
	pl.Add(bars)

	ebars, err := plotter.NewYErrorBars(meanErrors{s.Points})
	if err != nil {
		return nil, err
	}
	ebars.LineStyle.Color = color.Black
	pl.Add(ebars)

	pl.NominalX(versions...)
	pl.X.Tick.Label.Rotation = -math.Pi / 8
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft

	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(20*vg.Centimeter, 12*vg.Centimeter),
		vgimg.UseDPI(150),
		vgimg.UseBackgroundColor(color.White),
	)}
	pl.Draw(draw.New(can))

	var buf bytes.Buffer
	if _, err := can.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders s into dir as <slug>.png, creating dir if
// needed, and returns the artifact's file name within dir.
func WriteFile(s *benchseries.ComparisonSeries, dir string) (string, error) {
	png, err := PNG(s)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	name := Slug(s.Identity) + ".png"
	if err := os.WriteFile(filepath.Join(dir, name), png, 0666); err != nil {
		return "", err
	}
	return name, nil
}

// meanErrors adapts a series' points to the plotter error bar
// interfaces: X is the bar position, Y the mean, and the error range
// one standard deviation each way.
type meanErrors struct {
	points []benchseries.Point
}

func (m meanErrors) Len() int { return len(m.points) }

func (m meanErrors) XY(i int) (x, y float64) {
	return float64(i), m.points[i].Record.Stats.Mean
}

func (m meanErrors) YError(i int) (low, high float64) {
	sd := m.points[i].Record.Stats.StdDev
	return sd, sd
}
