// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Placeholders substituted into harness argv elements before each run.
const (
	ResultPlaceholder  = "{result}"
	VersionPlaceholder = "{version}"
)

// A CommandHarness runs an external benchmark command. Occurrences of
// ResultPlaceholder and VersionPlaceholder in Argv are replaced per
// run; the command is expected to write its results to the
// substituted result path.
type CommandHarness struct {
	// Argv is the command and its arguments.
	Argv []string

	// Dir is the command's working directory, typically the checked
	// out working copy. Empty means the current directory.
	Dir string

	// Env, if non-nil, replaces the command's environment.
	Env []string

	// Stdout and Stderr receive the command's output. Nil discards.
	Stdout, Stderr io.Writer
}

func (h *CommandHarness) Run(ctx context.Context, version, resultPath string) error {
	if len(h.Argv) == 0 {
		return fmt.Errorf("harness command is empty")
	}
	argv := make([]string, len(h.Argv))
	for i, a := range h.Argv {
		a = strings.ReplaceAll(a, ResultPlaceholder, resultPath)
		a = strings.ReplaceAll(a, VersionPlaceholder, version)
		argv[i] = a
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = h.Dir
	cmd.Env = h.Env
	cmd.Stdout = h.Stdout
	cmd.Stderr = h.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
