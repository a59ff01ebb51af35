// Copyright 2024 The benchtrend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// A Config is the YAML run configuration, an alternative to spelling
// a multi-version run out in command-line flags.
//
//	versions: ["5.1.6", "5.2.4", "6.0.4"]
//	worktree: /src/app
//	harness: ["python", "-m", "pytest", "--benchmark-json", "{result}"]
//	output: bench-out
//	format: html
type Config struct {
	Versions []string `yaml:"versions"`
	Worktree string   `yaml:"worktree"`
	Harness  []string `yaml:"harness"`
	Output   string   `yaml:"output"`
	Format   string   `yaml:"format"`
}

// LoadConfig reads and validates a run configuration. Unknown fields
// are rejected so typos fail loudly instead of silently running with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(cfg.Versions) == 0 {
		return nil, fmt.Errorf("%s: no versions listed", path)
	}
	if len(cfg.Harness) == 0 {
		return nil, fmt.Errorf("%s: no harness command", path)
	}
	return cfg, nil
}
