// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchtrend turns benchmark result files into comparison charts and
// reports, and optionally runs the benchmarks across several versions
// first.
//
// Usage:
//
//	benchtrend [options]
//	benchtrend -run -versions v1,v2,... -worktree dir [options] -- harness command...
//	benchtrend -run -config bench.yaml
//
// In report mode (the default), benchtrend scans a directory of
// sequence-numbered result files (NNNN_<label>.json), aggregates the
// records into per-benchmark comparison series ordered by version,
// renders a PNG bar chart per benchmark, and writes two documents in
// the requested format: performance_comparison.<ext> with the
// cross-version summary table and benchmark_charts.<ext> with one
// section per benchmark. With -file a single result file is reported
// on its own, labeled by -version when the filename carries no label.
//
// In run mode (-run), benchtrend first executes the harness command
// once per requested version: it checks the worktree out at the
// version, runs the command with {result} and {version} placeholders
// substituted, and records the result file. Versions that fail are
// reported and skipped; the run only fails when every version does.
// Report generation follows using the freshly recorded results.
//
// The result directory defaults to .benchmarks/<platform> under the
// output directory, where <platform> identifies the OS, architecture,
// and toolchain so results from different machines stay separate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benchtrend/benchtrend/benchseries"
	"github.com/benchtrend/benchtrend/report"
	"github.com/benchtrend/benchtrend/resultfmt"
	"github.com/benchtrend/benchtrend/runner"
)

var exit = os.Exit // replaced during testing

func usage() {
	fmt.Fprintf(os.Stderr, "usage: benchtrend [options]\n")
	fmt.Fprintf(os.Stderr, "       benchtrend -run -versions v1,v2,... -worktree dir [options] -- command...\n")
	fmt.Fprintf(os.Stderr, "       benchtrend -run -config bench.yaml\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	exit(2)
}

var (
	flagDir     = flag.String("dir", "", "scan result `directory` (default: <out>/.benchmarks/<platform>)")
	flagFile    = flag.String("file", "", "report on a single result `file` instead of a directory")
	flagOut     = flag.String("out", "bench-report", "write report documents and charts to `directory`")
	flagFormat  = flag.String("format", "html", "report `format`: pdf, html, or md")
	flagTitle   = flag.String("title", "Benchmarks", "report `title`")
	flagVersion = flag.String("version", "current", "version `label` for result files without one")

	flagRun      = flag.Bool("run", false, "run the harness across versions before reporting")
	flagVersions = flag.String("versions", "", "comma-separated version `list` to run")
	flagWorktree = flag.String("worktree", "", "git working copy `directory` to check versions out in")
	flagConfig   = flag.String("config", "", "YAML run configuration `file`")
)

func main() {
	log.SetPrefix("benchtrend: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	// Reject an unknown format before any scanning or running; no
	// partial output for a report that cannot be written.
	if _, err := report.ParseFormat(*flagFormat); err != nil {
		log.Println(err)
		exit(1)
	}

	if *flagRun {
		runVersions()
		return
	}
	if flag.NArg() > 0 {
		flag.Usage()
	}

	sr, err := scanResults()
	if err != nil {
		log.Println(err)
		exit(1)
	}
	generate(*flagOut, sr)
}

// scanResults loads the records for report mode, from a single file
// or from the result directory.
func scanResults() (*resultfmt.ScanResult, error) {
	if *flagFile != "" {
		return resultfmt.ReadFile(*flagFile, *flagVersion)
	}
	return resultfmt.Scan(resultDir())
}

// resultDir resolves the result directory: the -dir flag, or under
// the output directory an existing per-platform directory below
// .benchmarks, falling back to this platform's default path there.
func resultDir() string {
	if *flagDir != "" {
		return *flagDir
	}
	own := filepath.Join(*flagOut, resultfmt.ResultDirName, resultfmt.PlatformID())
	if _, err := os.Stat(own); err == nil {
		return own
	}
	if dirs := resultfmt.FindResultDirs(*flagOut); len(dirs) > 0 {
		return dirs[0]
	}
	return own
}

func runVersions() {
	versions, worktree, harness := runSetup()

	r := &runner.Runner{
		Checkout:  &runner.GitWorktree{Dir: worktree},
		Harness:   &runner.CommandHarness{Argv: harness, Dir: worktree, Stdout: os.Stdout, Stderr: os.Stderr},
		ResultDir: resultDir(),
		WorkDir:   worktree,
		Warn:      log.Printf,
	}
	sum, err := r.Run(context.Background(), versions)
	if err != nil {
		log.Println(err)
		if errors.Is(err, runner.ErrAllFailed) {
			for _, f := range sum.Failed {
				log.Printf("  %v", f)
			}
		}
		exit(1)
	}
	log.Printf("recorded %d of %d versions", len(sum.Succeeded), len(versions))
	for _, f := range sum.Failed {
		log.Printf("  failed: %v", f)
	}

	sr, err := resultfmt.Scan(r.ResultDir)
	if err != nil {
		log.Println(err)
		exit(1)
	}
	generate(*flagOut, sr)
}

// runSetup merges the YAML configuration and the run-mode flags.
// Flags win where both are given; the harness command after "--"
// overrides the configured one.
func runSetup() (versions []string, worktree string, harness []string) {
	if *flagConfig != "" {
		cfg, err := runner.LoadConfig(*flagConfig)
		if err != nil {
			log.Println(err)
			exit(1)
		}
		versions, worktree, harness = cfg.Versions, cfg.Worktree, cfg.Harness
		if cfg.Output != "" {
			*flagOut = cfg.Output
		}
		if cfg.Format != "" {
			if _, err := report.ParseFormat(cfg.Format); err != nil {
				log.Println(err)
				exit(1)
			}
			*flagFormat = cfg.Format
		}
	}
	if *flagVersions != "" {
		versions = strings.Split(*flagVersions, ",")
	}
	if *flagWorktree != "" {
		worktree = *flagWorktree
	}
	if flag.NArg() > 0 {
		harness = flag.Args()
	}
	if len(versions) == 0 || worktree == "" || len(harness) == 0 {
		flag.Usage()
	}
	return versions, worktree, harness
}

func generate(outDir string, sr *resultfmt.ScanResult) {
	for _, w := range sr.Warnings {
		log.Println(w)
	}

	series := benchseries.Build(sr.Records)
	if len(series) == 0 {
		log.Printf("%v", resultfmt.ErrNoResults)
		exit(1)
	}

	charts, err := report.RenderCharts(series, outDir)
	if err != nil {
		log.Println(err)
		exit(1)
	}

	rep := &report.Report{
		Series: series,
		Charts: charts,
		Meta: report.Metadata{
			Title:       *flagTitle,
			GeneratedAt: time.Now(),
			Platform:    platformLabel(sr.Meta),
			Files:       sr.Files,
			Skipped:     skippedLines(sr.Warnings),
		},
	}
	// Parsed here rather than passed in so a format set by the
	// config file is honored too.
	format, err := report.ParseFormat(*flagFormat)
	if err != nil {
		log.Println(err)
		exit(1)
	}
	if err := report.NewGenerator(outDir).Generate(format, rep); err != nil {
		log.Println(err)
		exit(1)
	}

	log.Printf("%d benchmarks across %d result files", len(series), len(sr.Files))
	log.Printf("wrote %s", filepath.Join(outDir, report.ComparisonDoc+"."+format.Ext()))
	log.Printf("wrote %s", filepath.Join(outDir, report.ChartsDoc+"."+format.Ext()))
}

// platformLabel prefers the platform recorded in the result files so
// reports built on another machine still describe the one that ran
// the benchmarks.
func platformLabel(meta resultfmt.Meta) string {
	if p, ok := meta.MachineInfo["platform"].(string); ok && p != "" {
		return p
	}
	return resultfmt.PlatformID()
}

func skippedLines(warnings []resultfmt.Warning) []string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return lines
}
