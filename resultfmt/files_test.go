// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeResult(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0666); err != nil {
		t.Fatal(err)
	}
}

func oneBench(name string, mean float64) string {
	return `{"benchmarks": [{"name": "` + name + `",
		"stats": {"mean": ` + formatFloat(mean) + `, "min": 0.0001, "max": 1, "stddev": 0.0001, "rounds": 5}}]}`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		in    string
		seq   int
		label string
		ok    bool
	}{
		{"0001_5.2.4.json", 1, "5.2.4", true},
		{"0042_current.json", 42, "current", true},
		{"0002_6.0.4-b1.json", 2, "6.0.4-b1", true},
		{"0003_baseline.json.json", 3, "baseline", true},
		{"00010_v.json", 10, "v", true},
		{"1_x.json", 0, "", false},
		{"0001_.json", 0, "", false},
		{"0001_x.txt", 0, "", false},
		{"notes.json", 0, "", false},
	}
	for _, test := range tests {
		seq, label, ok := ParseFileName(test.in)
		if seq != test.seq || label != test.label || ok != test.ok {
			t.Errorf("ParseFileName(%q) = %d, %q, %v, want %d, %q, %v",
				test.in, seq, label, ok, test.seq, test.label, test.ok)
		}
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	// Written out of order; scan order must follow filenames.
	writeResult(t, dir, "0002_6.0.4.json", oneBench("test_x", 0.001))
	writeResult(t, dir, "0001_5.2.4.json", oneBench("test_x", 0.002))
	writeResult(t, dir, "README", "not a result file")

	sr, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sr.Warnings) != 0 {
		t.Errorf("got warnings %v, want none", sr.Warnings)
	}
	wantFiles := []string{"0001_5.2.4.json", "0002_6.0.4.json"}
	if len(sr.Files) != 2 || sr.Files[0] != wantFiles[0] || sr.Files[1] != wantFiles[1] {
		t.Errorf("got files %v, want %v", sr.Files, wantFiles)
	}
	if len(sr.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(sr.Records))
	}
	if sr.Records[0].Version != "5.2.4" || sr.Records[0].Sequence != 1 {
		t.Errorf("first record: got version %q seq %d", sr.Records[0].Version, sr.Records[0].Sequence)
	}
	if sr.Records[1].Version != "6.0.4" || sr.Records[1].Sequence != 2 {
		t.Errorf("second record: got version %q seq %d", sr.Records[1].Version, sr.Records[1].Sequence)
	}
}

func TestScanWideSequenceOrder(t *testing.T) {
	dir := t.TempDir()
	// A five-digit sequence sorts lexically before "0002_"; the scan
	// must still report files in sequence order.
	writeResult(t, dir, "00010_6.1.json", oneBench("test_x", 0.001))
	writeResult(t, dir, "0002_5.2.4.json", oneBench("test_x", 0.002))

	sr, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	wantFiles := []string{"0002_5.2.4.json", "00010_6.1.json"}
	if len(sr.Files) != 2 || sr.Files[0] != wantFiles[0] || sr.Files[1] != wantFiles[1] {
		t.Errorf("got files %v, want %v", sr.Files, wantFiles)
	}
	if sr.Records[0].Sequence != 2 || sr.Records[1].Sequence != 10 {
		t.Errorf("got sequences %d, %d, want 2, 10", sr.Records[0].Sequence, sr.Records[1].Sequence)
	}
}

func TestScanEmptyBenchmarkList(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "0001_5.2.4.json", `{"benchmarks": []}`)
	writeResult(t, dir, "0002_6.0.4.json", oneBench("test_x", 0.001))

	sr, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	// The empty file decodes: it counts as a scanned file with zero
	// records, not as a skip.
	if len(sr.Warnings) != 0 {
		t.Errorf("got warnings %v, want none", sr.Warnings)
	}
	if len(sr.Files) != 2 {
		t.Errorf("got files %v, want both", sr.Files)
	}
	if len(sr.Records) != 1 || sr.Records[0].Version != "6.0.4" {
		t.Errorf("got records %+v, want one for 6.0.4", sr.Records)
	}
}

func TestScanSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "0001_5.2.4.json", "{{{ not json")
	writeResult(t, dir, "0002_6.0.4.json", oneBench("test_x", 0.001))

	sr, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sr.Warnings) != 1 || sr.Warnings[0].File != "0001_5.2.4.json" {
		t.Errorf("got warnings %v, want one for 0001_5.2.4.json", sr.Warnings)
	}
	if len(sr.Records) != 1 || sr.Records[0].Version != "6.0.4" {
		t.Errorf("got records %+v, want one for 6.0.4", sr.Records)
	}
}

func TestScanNoResults(t *testing.T) {
	dir := t.TempDir()
	if _, err := Scan(dir); !errors.Is(err, ErrNoResults) {
		t.Errorf("empty dir: got %v, want ErrNoResults", err)
	}

	writeResult(t, dir, "0001_x.json", "garbage")
	if _, err := Scan(dir); !errors.Is(err, ErrNoResults) {
		t.Errorf("all corrupt: got %v, want ErrNoResults", err)
	}
}

func TestReadFileLabel(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "0001_baseline.json", oneBench("test_x", 0.5))
	writeResult(t, dir, "run.json", oneBench("test_x", 0.5))

	sr, err := ReadFile(filepath.Join(dir, "0001_baseline.json"), "current")
	if err != nil {
		t.Fatal(err)
	}
	if sr.Records[0].Version != "baseline" {
		t.Errorf("got version %q, want label from filename", sr.Records[0].Version)
	}

	sr, err = ReadFile(filepath.Join(dir, "run.json"), "current")
	if err != nil {
		t.Fatal(err)
	}
	if sr.Records[0].Version != "current" {
		t.Errorf("got version %q, want fallback", sr.Records[0].Version)
	}
}

func TestNextSequence(t *testing.T) {
	dir := t.TempDir()
	if got := NextSequence(dir); got != 1 {
		t.Errorf("empty dir: got %d, want 1", got)
	}
	writeResult(t, dir, "0001_a.json", "x")
	writeResult(t, dir, "0007_b.json", "x")
	if got := NextSequence(dir); got != 8 {
		t.Errorf("got %d, want 8", got)
	}
	if got := FileName(8, "6.1.0"); got != "0008_6.1.0.json" {
		t.Errorf("FileName = %q", got)
	}
}

func TestFindResultDirs(t *testing.T) {
	root := t.TempDir()
	if dirs := FindResultDirs(root); dirs != nil {
		t.Errorf("got %v, want nil", dirs)
	}
	platform := filepath.Join(root, ResultDirName, "Linux-amd64-go1.18")
	if err := os.MkdirAll(platform, 0777); err != nil {
		t.Fatal(err)
	}
	dirs := FindResultDirs(root)
	if len(dirs) != 1 || dirs[0] != platform {
		t.Errorf("got %v, want [%s]", dirs, platform)
	}
}
