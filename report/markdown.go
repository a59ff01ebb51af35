// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"
)

// The markdown backend links chart artifacts by relative path, so
// the documents travel with the charts directory.

var markdownCharts = template.Must(template.New("charts").Parse(`# {{.Meta.Title}}: Benchmark Charts

Generated: {{.Generated}}
Platform: {{.Meta.Platform}}
Result files: {{len .Meta.Files}}
{{range .Views}}
## {{.Title}}

![{{.Title}}](charts/{{.Chart.Name}})

| Version | Mean | Min | Max | StdDev | Rounds |
|---------|------|-----|-----|--------|--------|
{{range .Rows -}}
| {{.Version}} | {{.Mean}} | {{.Min}} | {{.Max}} | {{.StdDev}} | {{.Rounds}} |
{{end}}{{end}}`))

var markdownComparison = template.Must(template.New("comparison").Parse(`# {{.Meta.Title}}: Performance Comparison

Generated: {{.Generated}}
Platform: {{.Meta.Platform}}

## Result files

{{range .Meta.Files}}- {{.}}
{{end}}{{if .Meta.Skipped}}
Skipped:

{{range .Meta.Skipped}}- {{.}}
{{end}}{{end}}
## Summary

| Benchmark | Versions | Best mean | Worst mean | Newest mean | Change |
|-----------|----------|-----------|------------|-------------|--------|
{{range .Summary -}}
| {{.Benchmark}} | {{.Versions}} | {{.BestMean}} | {{.WorstMean}} | {{.LastMean}} | {{.Change}} |
{{end}}{{if .Geomean}}
Geometric mean of change across benchmarks: {{.Geomean}}
{{end}}`))

type markdownData struct {
	Meta      Metadata
	Generated string
	Views     []seriesView
	Summary   []summaryView
	Geomean   string
}

func (g *Generator) markdown(rep *Report) error {
	views := rep.seriesViews()
	data := &markdownData{
		Meta:      rep.Meta,
		Generated: rep.Meta.GeneratedAt.Format("2006-01-02 15:04:05"),
		Views:     views,
		Summary:   summaryRows(views),
		Geomean:   rep.geomeanLine(),
	}

	emit := func(tmpl *template.Template, name string) error {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			// Template errors here mean the template does not
			// match the data structure; that is our bug.
			panic(err)
		}
		return os.WriteFile(filepath.Join(g.OutDir, name+"."+Markdown.Ext()), buf.Bytes(), 0666)
	}
	if err := emit(markdownCharts, ChartsDoc); err != nil {
		return err
	}
	return emit(markdownComparison, ComparisonDoc)
}
