// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/google/safehtml/uncheckedconversions"
)

// The html backend inlines every chart as a base64 data URI so the
// page is self-contained and shareable without the charts directory.

const htmlChartsSrc = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Meta.Title}}: Benchmark Charts</title>
<style>
body { font-family: sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
.container { max-width: 1100px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 8px; }
h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; border-left: 4px solid #3498db; padding-left: 12px; }
.summary { background-color: #ecf0f1; padding: 16px; border-radius: 5px; }
img { max-width: 100%; border: 1px solid #ddd; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #3498db; color: white; }
tr:nth-child(even) { background-color: #f2f2f2; }
.footer { color: #7f8c8d; margin-top: 32px; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Meta.Title}}: Benchmark Charts</h1>
<div class="summary">
<p><strong>Generated:</strong> {{.Generated}}</p>
<p><strong>Platform:</strong> {{.Meta.Platform}}</p>
<p><strong>Result files:</strong> {{len .Meta.Files}}</p>
</div>
{{range .Views}}
<h2>{{.Title}}</h2>
<p><img src="{{.ChartURI}}" alt="{{.Title}}"></p>
<table>
<tr><th>Version</th><th>Mean</th><th>Min</th><th>Max</th><th>StdDev</th><th>Rounds</th></tr>
{{range .Rows}}<tr><td>{{.Version}}</td><td>{{.Mean}}</td><td>{{.Min}}</td><td>{{.Max}}</td><td>{{.StdDev}}</td><td>{{.Rounds}}</td></tr>
{{end}}</table>
{{end}}
<p class="footer">Generated by benchtrend on {{.Generated}}</p>
</div>
</body>
</html>
`

const htmlComparisonSrc = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Meta.Title}}: Performance Comparison</title>
<style>
body { font-family: sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
.container { max-width: 1100px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 8px; }
h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #3498db; color: white; }
tr:nth-child(even) { background-color: #f2f2f2; }
ul { list-style-type: none; padding-left: 0; }
li { padding: 4px 0; border-bottom: 1px solid #dee2e6; }
.skipped { color: #c0392b; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Meta.Title}}: Performance Comparison</h1>
<p><strong>Generated:</strong> {{.Generated}}</p>
<p><strong>Platform:</strong> {{.Meta.Platform}}</p>
<h2>Result files</h2>
<ul>
{{range .Meta.Files}}<li>{{.}}</li>
{{end}}</ul>
{{if .Meta.Skipped}}<h2>Skipped</h2>
<ul class="skipped">
{{range .Meta.Skipped}}<li>{{.}}</li>
{{end}}</ul>
{{end}}<h2>Summary</h2>
<table>
<tr><th>Benchmark</th><th>Versions</th><th>Best mean</th><th>Worst mean</th><th>Newest mean</th><th>Change</th></tr>
{{range .Summary}}<tr><td>{{.Benchmark}}</td><td>{{.Versions}}</td><td>{{.BestMean}}</td><td>{{.WorstMean}}</td><td>{{.LastMean}}</td><td>{{.Change}}</td></tr>
{{end}}</table>
{{if .Geomean}}<p><strong>Geometric mean of change:</strong> {{.Geomean}}</p>
{{end}}</div>
</body>
</html>
`

var (
	htmlCharts     = template.Must(template.New("charts").ParseFromTrustedTemplate(template.MakeTrustedTemplate(htmlChartsSrc)))
	htmlComparison = template.Must(template.New("comparison").ParseFromTrustedTemplate(template.MakeTrustedTemplate(htmlComparisonSrc)))
)

type htmlSeriesView struct {
	seriesView
	ChartURI safehtml.URL
}

type htmlData struct {
	Meta      Metadata
	Generated string
	Views     []htmlSeriesView
	Summary   []summaryView
	Geomean   string
}

func (g *Generator) html(rep *Report) error {
	views := rep.seriesViews()
	data := &htmlData{
		Meta:      rep.Meta,
		Generated: rep.Meta.GeneratedAt.Format("2006-01-02 15:04:05"),
		Summary:   summaryRows(views),
		Geomean:   rep.geomeanLine(),
	}
	for _, v := range views {
		data.Views = append(data.Views, htmlSeriesView{v, pngDataURI(v.Chart.PNG)})
	}

	emit := func(tmpl *template.Template, name string) error {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			// Template not matching the data structure is our bug.
			panic(err)
		}
		return os.WriteFile(filepath.Join(g.OutDir, name+"."+HTML.Ext()), buf.Bytes(), 0666)
	}
	if err := emit(htmlCharts, ChartsDoc); err != nil {
		return err
	}
	return emit(htmlComparison, ComparisonDoc)
}

// pngDataURI wraps a self-generated PNG as a data URI. The bytes come
// straight out of the chart renderer, so the URL contract holds by
// construction.
func pngDataURI(png []byte) safehtml.URL {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return uncheckedconversions.URLFromStringKnownToSatisfyTypeContract(uri)
}
