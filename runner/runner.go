// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner orchestrates benchmark runs across multiple versions
// of the target application.
//
// For each requested version the runner checks out the working copy,
// invokes the external benchmark harness, and records the result file
// under the sequence-numbered naming convention. A failure in one
// version never aborts the others; the run only fails outright when
// every version failed.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benchtrend/benchtrend/resultfmt"
)

// ErrAllFailed reports that no requested version produced a result.
// The partial Summary returned alongside it still lists the
// per-version failures.
var ErrAllFailed = errors.New("all versions failed")

// A Checkout switches the working copy to a named version.
type Checkout interface {
	Checkout(ctx context.Context, version string) error
}

// A Harness runs the external benchmark command against the currently
// checked-out version and writes its results to resultPath.
type Harness interface {
	Run(ctx context.Context, version, resultPath string) error
}

// A Stage names the step of a per-version run that failed.
type Stage string

const (
	StageCheckout Stage = "checkout"
	StageRun      Stage = "run"
	StageRecord   Stage = "record"
)

// A VersionFailure records one version's failed run. It wraps the
// underlying checkout or harness error.
type VersionFailure struct {
	Version string
	Stage   Stage
	Err     error
}

func (e *VersionFailure) Error() string {
	return fmt.Sprintf("version %s: %s failed: %v", e.Version, e.Stage, e.Err)
}

func (e *VersionFailure) Unwrap() error { return e.Err }

// A Summary is the outcome of a multi-version run.
type Summary struct {
	// Succeeded lists the versions that produced a result, in run
	// order.
	Succeeded []string

	// Failed lists the versions that did not, with the stage and
	// cause of each failure.
	Failed []*VersionFailure

	// Files lists the result files written, parallel to Succeeded.
	Files []string
}

// A Runner drives the per-version state machine.
type Runner struct {
	Checkout Checkout
	Harness  Harness

	// ResultDir is where result files are written. It is created if
	// missing.
	ResultDir string

	// WorkDir is the working copy directory. While a version runs the
	// runner holds an exclusive lease on it (a lock file), so
	// concurrent runs against the same copy fail fast instead of
	// racing the checkout. Empty disables leasing.
	WorkDir string

	// Warn is called with log-style arguments for per-version
	// failures as they happen. Nil suppresses warnings.
	Warn func(format string, args ...interface{})
}

// LockFile is the lease file name created in WorkDir for the duration
// of each version's run.
const LockFile = ".benchtrend.lock"

// Run executes versions in order and returns the run summary.
//
// Per-version failures are recorded in the summary and do not abort
// the remaining versions. Run returns ErrAllFailed (with the summary)
// when no version succeeded, and a bare error only for conditions
// that invalidate the whole run: an empty version list, an
// unavailable result directory, a held lease, or context
// cancellation.
func (r *Runner) Run(ctx context.Context, versions []string) (*Summary, error) {
	if len(versions) == 0 {
		return nil, errors.New("no versions requested")
	}
	if err := os.MkdirAll(r.ResultDir, 0777); err != nil {
		return nil, err
	}

	seq := resultfmt.NextSequence(r.ResultDir)
	sum := new(Summary)
	for _, v := range versions {
		file, err := r.runVersion(ctx, v, seq)
		if err != nil {
			var vf *VersionFailure
			if !errors.As(err, &vf) {
				return nil, err
			}
			r.warnf("%v", vf)
			sum.Failed = append(sum.Failed, vf)
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			continue
		}
		sum.Succeeded = append(sum.Succeeded, v)
		sum.Files = append(sum.Files, file)
		seq++
	}
	if len(sum.Succeeded) == 0 {
		return sum, ErrAllFailed
	}
	return sum, nil
}

// runVersion runs the checkout → run → record sequence for one
// version and returns the result file name it recorded.
func (r *Runner) runVersion(ctx context.Context, version string, seq int) (string, error) {
	if r.WorkDir != "" {
		l, err := acquireLease(r.WorkDir)
		if err != nil {
			return "", err
		}
		defer l.release()
	}

	if err := r.Checkout.Checkout(ctx, version); err != nil {
		return "", &VersionFailure{version, StageCheckout, err}
	}

	name := resultfmt.FileName(seq, version)
	path := filepath.Join(r.ResultDir, name)
	if err := r.Harness.Run(ctx, version, path); err != nil {
		return "", &VersionFailure{version, StageRun, err}
	}

	// The harness owns writing the file; a clean exit without one is
	// still a failed run.
	if _, err := os.Stat(path); err != nil {
		return "", &VersionFailure{version, StageRecord, fmt.Errorf("harness wrote no result file: %w", err)}
	}
	return name, nil
}

func (r *Runner) warnf(format string, args ...interface{}) {
	if r.Warn != nil {
		r.Warn(format, args...)
	}
}

// A lease is exclusive ownership of a working copy, backed by a lock
// file created with O_EXCL.
type lease struct {
	path string
}

func acquireLease(dir string) (*lease, error) {
	path := filepath.Join(dir, LockFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0666)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("working copy %s is in use (remove %s if stale)", dir, path)
		}
		return nil, err
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return &lease{path}, nil
}

func (l *lease) release() { os.Remove(l.path) }
