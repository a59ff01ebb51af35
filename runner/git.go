// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"context"
	"fmt"
	"os/exec"
)

// A GitWorktree checks out versions in a git working copy. Version
// labels are passed to git verbatim, so tags, branches, and commit
// hashes all work.
type GitWorktree struct {
	// Dir is the root of the working copy.
	Dir string
}

func (g *GitWorktree) Checkout(ctx context.Context, version string) error {
	cmd := exec.CommandContext(ctx, "git", "-C", g.Dir, "checkout", "--quiet", version)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git checkout %s: %v: %s", version, err, out)
	}
	return nil
}
