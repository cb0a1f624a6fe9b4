// Package config loads Floyd's datafile format: a TOML document describing
// grammar compilation options, extern bindings, and REPL/CLI defaults. It
// follows the same "read file, detect type, toml.Decode into a typed
// struct" shape as the teacher's tqw resource-bundle loader, simplified
// since Floyd's datafiles do not nest via manifests.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileInfo is the minimal header every Floyd datafile must carry, used to
// validate the file before decoding the rest of it.
type FileInfo struct {
	Format string `toml:"format"`
}

const expectedFormat = "floyd-datafile"

// Datafile is the full decoded contents of a Floyd datafile: where to find
// grammar source, which extern bindings to wire, and default runtime
// options for the CLI/REPL.
type Datafile struct {
	Format string `toml:"format"`

	// Grammar names the .peg/.floyd grammar source file, relative to the
	// datafile's own directory.
	Grammar string `toml:"grammar"`

	// StartingRule names a rule to start from instead of the grammar's first
	// rule, if set.
	StartingRule string `toml:"starting_rule"`

	Externs ExternsConfig `toml:"externs"`
	Limits  LimitsConfig  `toml:"limits"`
}

// ExternsConfig lists the extern names a grammar declares and (for
// documentation/validation purposes) what kind of binding the host program
// is expected to supply for each; Floyd itself only compiles the grammar and
// records which are needed (§3.3's externs field) -- actually wiring Go
// closures to them is left to the embedding program.
type ExternsConfig struct {
	Consts []string `toml:"consts"`
	Funcs  []string `toml:"funcs"`
	PFuncs []string `toml:"pfuncs"`
}

// LimitsConfig carries the recursion ceiling and step-count cutoff used to
// keep a pathological grammar from running forever (SPEC_FULL.md §C.1).
type LimitsConfig struct {
	MaxRecursionDepth int `toml:"max_recursion_depth"`
	MaxSteps          int `toml:"max_steps"`
}

// DefaultLimits returns the limits Floyd applies when a datafile does not
// specify its own.
func DefaultLimits() LimitsConfig {
	return LimitsConfig{MaxRecursionDepth: 5000, MaxSteps: 50_000_000}
}

// Load reads and decodes the datafile at path.
func Load(path string) (*Datafile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read datafile: %w", err)
	}

	var info FileInfo
	if _, err := toml.Decode(string(raw), &info); err != nil {
		return nil, fmt.Errorf("parse datafile header: %w", err)
	}
	if info.Format != "" && info.Format != expectedFormat {
		return nil, fmt.Errorf("unsupported datafile format %q (expected %q)", info.Format, expectedFormat)
	}

	var df Datafile
	if _, err := toml.Decode(string(raw), &df); err != nil {
		return nil, fmt.Errorf("parse datafile: %w", err)
	}

	if df.Limits == (LimitsConfig{}) {
		df.Limits = DefaultLimits()
	}

	return &df, nil
}
