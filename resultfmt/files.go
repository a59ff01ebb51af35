// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// ErrNoResults reports that a scan found no decodable result files.
// It is fatal to report generation; callers test for it with
// errors.Is.
var ErrNoResults = errors.New("no benchmark results found")

// ResultDirName is the directory the orchestrator writes result
// files under, relative to the output directory.
const ResultDirName = ".benchmarks"

// resultFileRE matches NNNN_<label>.json. The label may itself
// contain dots and hyphens. Repeated .json extensions are tolerated
// because some harness wrappers double them up.
var resultFileRE = regexp.MustCompile(`^(\d{4,})_(.+?)(\.json)+$`)

// ParseFileName splits a result file name into its sequence number
// and version label. It reports ok=false for names that do not follow
// the NNNN_<label>.json convention.
func ParseFileName(name string) (seq int, label string, ok bool) {
	m := resultFileRE.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	seq, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return seq, m[2], true
}

// A Warning records a file or entry that was skipped during a scan.
type Warning struct {
	File string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: skipped: %v", w.File, w.Err)
}

// A ScanResult is the outcome of scanning one result directory.
type ScanResult struct {
	// Records is the flat, unordered set of valid records from
	// every file that decoded.
	Records []Record

	// Files lists the result files that decoded successfully, in
	// filename (= sequence) order.
	Files []string

	// Meta is the metadata of the first file that carried any,
	// typically identical across a directory.
	Meta Meta

	// Warnings lists the files and entries that were skipped.
	Warnings []Warning
}

// Scan reads every result file in dir, in filename order, and decodes
// it into Records tagged with the file's version label and sequence
// number.
//
// A file that fails to decode is skipped with a Warning; one corrupt
// run must not abort the whole report. Scan fails with ErrNoResults
// only when no file decodes at all.
func Scan(dir string) (*ScanResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, _, ok := ParseFileName(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	// Numeric sequence order, not lexical: past sequence 9999 the
	// number widens and "00010_" would otherwise sort before "0002_".
	sort.Slice(names, func(i, j int) bool {
		si, _, _ := ParseFileName(names[i])
		sj, _, _ := ParseFileName(names[j])
		if si != sj {
			return si < sj
		}
		return names[i] < names[j]
	})

	sr := new(ScanResult)
	for _, name := range names {
		seq, label, _ := ParseFileName(name)
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			sr.Warnings = append(sr.Warnings, Warning{name, err})
			continue
		}
		recs, meta, warns, err := ReadResults(f, label, seq)
		f.Close()
		if err != nil {
			sr.Warnings = append(sr.Warnings, Warning{name, err})
			continue
		}
		for _, w := range warns {
			sr.Warnings = append(sr.Warnings, Warning{name, w})
		}
		sr.Records = append(sr.Records, recs...)
		sr.Files = append(sr.Files, name)
		if sr.Meta.MachineInfo == nil && sr.Meta.Version == "" {
			sr.Meta = meta
		}
	}
	if len(sr.Files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoResults, dir)
	}
	return sr, nil
}

// ReadFile decodes a single result file outside the directory
// convention, for single-file mode. The version label is taken from
// the filename when it follows the convention, otherwise fallback is
// used. The sequence number is 1.
func ReadFile(path, fallback string) (*ScanResult, error) {
	label := fallback
	if _, l, ok := ParseFileName(filepath.Base(path)); ok {
		label = l
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, meta, warns, err := ReadResults(f, label, 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sr := &ScanResult{Records: recs, Files: []string{filepath.Base(path)}, Meta: meta}
	for _, w := range warns {
		sr.Warnings = append(sr.Warnings, Warning{filepath.Base(path), w})
	}
	return sr, nil
}

// FindResultDirs locates the per-platform result directories under
// root/.benchmarks, sorted by name. It returns nil if none exist.
func FindResultDirs(root string) []string {
	base := filepath.Join(root, ResultDirName)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(base, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs
}

// PlatformID returns the descriptive string identifying the execution
// environment, used as the result directory's path segment.
func PlatformID() string {
	goos := runtime.GOOS
	if goos != "" {
		goos = strings.ToUpper(goos[:1]) + goos[1:]
	}
	return fmt.Sprintf("%s-%s-%s", goos, runtime.GOARCH, runtime.Version())
}

// NextSequence returns the sequence number the next result file in
// dir should use: one past the highest existing sequence, starting
// at 1 for an empty or missing directory.
func NextSequence(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	max := 0
	for _, e := range entries {
		if seq, _, ok := ParseFileName(e.Name()); ok && seq > max {
			max = seq
		}
	}
	return max + 1
}

// FileName formats a result file name from a sequence number and
// version label.
func FileName(seq int, label string) string {
	return fmt.Sprintf("%04d_%s.json", seq, label)
}
