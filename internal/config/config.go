// Package config loads the optional .loxrc.yaml file that holds REPL
// affordances (prompt string, color, history file). It never carries
// language semantics: scanning, parsing, resolution and evaluation behave
// identically with or without a config file present.
package config

import (
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Version is the running lox build's version, checked against a config
// file's Requires field. Set by cmd/lox at build time in a real release;
// pinned here to a development placeholder otherwise.
var Version = "v0.1.0"

// Config is the decoded shape of .loxrc.yaml.
type Config struct {
	Prompt      string `yaml:"prompt"`
	NoColor     bool   `yaml:"no_color"`
	HistoryFile string `yaml:"history_file"`
	Requires    string `yaml:"requires"`
}

// Default returns the configuration used when no .loxrc.yaml is found.
func Default() *Config {
	return &Config{Prompt: "> "}
}

// Load reads and validates path. A missing file is not an error: Load
// returns Default(). A present-but-unparsable file, or one whose Requires
// range excludes the running Version, is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Requires != "" {
		if err := checkRequires(cfg.Requires, Version); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return cfg, nil
}

// checkRequires validates that version satisfies a minimum-version
// constraint expressed as a bare semver (">= " is implicit, matching the
// teacher's decorator-parameter version gate).
func checkRequires(requires, version string) error {
	req := requires
	if len(req) > 0 && req[0] != 'v' {
		req = "v" + req
	}
	ver := version
	if len(ver) > 0 && ver[0] != 'v' {
		ver = "v" + ver
	}

	if !semver.IsValid(req) {
		return fmt.Errorf("invalid requires version %q", requires)
	}
	if !semver.IsValid(ver) {
		return fmt.Errorf("invalid lox version %q", version)
	}

	if semver.Compare(ver, req) < 0 {
		return fmt.Errorf("requires lox %s or newer, running %s", requires, version)
	}
	return nil
}
