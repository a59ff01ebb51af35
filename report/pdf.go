// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// The pdf backend produces print-oriented documents: a title page
// with the run summary, then one page per benchmark with its chart
// and per-version table.

const (
	pdfMargin     = 15.0
	pdfPageWidth  = 210.0 // A4 portrait, mm
	pdfBodyWidth  = pdfPageWidth - 2*pdfMargin
	pdfChartRatio = 12.0 / 20.0 // chart canvas height/width
)

func (g *Generator) pdf(rep *Report) error {
	views := rep.seriesViews()
	if err := g.pdfCharts(rep, views); err != nil {
		return err
	}
	return g.pdfComparison(rep, views)
}

func newPDF(title string) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)
	return doc
}

func pdfHeading(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(pdfBodyWidth, 10, text, "", 1, "L", false, 0, "")
	doc.Ln(2)
}

func pdfMetaLines(doc *fpdf.Fpdf, rep *Report) {
	doc.SetFont("Helvetica", "", 11)
	lines := []string{
		"Generated: " + rep.Meta.GeneratedAt.Format("2006-01-02 15:04:05"),
		"Platform: " + rep.Meta.Platform,
		fmt.Sprintf("Result files: %d", len(rep.Meta.Files)),
	}
	for _, l := range lines {
		doc.CellFormat(pdfBodyWidth, 6, l, "", 1, "L", false, 0, "")
	}
	doc.Ln(4)
}

func pdfFileList(doc *fpdf.Fpdf, rep *Report) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(pdfBodyWidth, 8, "Result files", "", 1, "L", false, 0, "")
	doc.SetFont("Courier", "", 9)
	for _, f := range rep.Meta.Files {
		doc.CellFormat(pdfBodyWidth, 5, f, "", 1, "L", false, 0, "")
	}
	if len(rep.Meta.Skipped) > 0 {
		doc.Ln(2)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(pdfBodyWidth, 8, "Skipped", "", 1, "L", false, 0, "")
		doc.SetFont("Courier", "", 9)
		for _, s := range rep.Meta.Skipped {
			doc.CellFormat(pdfBodyWidth, 5, s, "", 1, "L", false, 0, "")
		}
	}
}

func (g *Generator) pdfCharts(rep *Report, views []seriesView) error {
	doc := newPDF(rep.Meta.Title + ": Benchmark Charts")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(pdfBodyWidth, 14, rep.Meta.Title, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(pdfBodyWidth, 10, "Benchmark Charts", "", 1, "C", false, 0, "")
	doc.Ln(6)
	pdfMetaLines(doc, rep)
	pdfFileList(doc, rep)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for _, v := range views {
		doc.AddPage()
		pdfHeading(doc, v.Title)

		doc.RegisterImageOptionsReader(v.Title, opts, bytes.NewReader(v.Chart.PNG))
		y := doc.GetY()
		doc.ImageOptions(v.Title, pdfMargin, y, pdfBodyWidth, 0, false, opts, 0, "")
		doc.SetY(y + pdfBodyWidth*pdfChartRatio + 6)

		pdfTable(doc,
			[]string{"Version", "Mean", "Min", "Max", "StdDev", "Rounds"},
			func() [][]string {
				rows := make([][]string, len(v.Rows))
				for i, r := range v.Rows {
					rows[i] = []string{r.Version, r.Mean, r.Min, r.Max, r.StdDev, fmt.Sprint(r.Rounds)}
				}
				return rows
			}())
	}
	return doc.OutputFileAndClose(filepath.Join(g.OutDir, ChartsDoc+"."+PDF.Ext()))
}

func (g *Generator) pdfComparison(rep *Report, views []seriesView) error {
	doc := newPDF(rep.Meta.Title + ": Performance Comparison")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(pdfBodyWidth, 14, rep.Meta.Title, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(pdfBodyWidth, 10, "Performance Comparison", "", 1, "C", false, 0, "")
	doc.Ln(6)
	pdfMetaLines(doc, rep)
	pdfFileList(doc, rep)
	doc.Ln(6)

	pdfHeading(doc, "Summary")
	header := []string{"Benchmark", "Versions", "Best mean", "Worst mean", "Newest mean", "Change"}
	var rows [][]string
	for _, s := range summaryRows(views) {
		rows = append(rows, []string{
			s.Benchmark, fmt.Sprint(s.Versions), s.BestMean, s.WorstMean, s.LastMean, s.Change,
		})
	}
	pdfTable(doc, header, rows)

	if gm := rep.geomeanLine(); gm != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(pdfBodyWidth, 6, "Geometric mean of change: "+gm, "", 1, "L", false, 0, "")
	}
	return doc.OutputFileAndClose(filepath.Join(g.OutDir, ComparisonDoc+"."+PDF.Ext()))
}

func pdfTable(doc *fpdf.Fpdf, header []string, rows [][]string) {
	colWidth := pdfBodyWidth / float64(len(header))
	// The first column carries benchmark or version names; give it
	// double width when there is room to spare.
	firstWidth := colWidth
	restWidth := colWidth
	if len(header) > 2 {
		firstWidth = colWidth * 2
		restWidth = (pdfBodyWidth - firstWidth) / float64(len(header)-1)
	}
	width := func(i int) float64 {
		if i == 0 {
			return firstWidth
		}
		return restWidth
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(0x34, 0x98, 0xdb)
	doc.SetTextColor(0xff, 0xff, 0xff)
	for i, h := range header {
		doc.CellFormat(width(i), 7, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	fill := false
	doc.SetFillColor(0xf2, 0xf2, 0xf2)
	for _, row := range rows {
		for i, cell := range row {
			doc.CellFormat(width(i), 6, cell, "1", 0, "L", fill, 0, "")
		}
		doc.Ln(-1)
		fill = !fill
	}
}
