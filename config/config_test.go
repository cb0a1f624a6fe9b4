package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeDatafile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.floyd.toml")
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func Test_Load_fullDatafile(t *testing.T) {
	path := writeDatafile(t, `
format = "floyd-datafile"
grammar = "expr.peg"
starting_rule = "Start"

[externs]
consts = ["PI"]
funcs = ["lookup_var"]
pfuncs = ["has_side_effect"]

[limits]
max_recursion_depth = 100
max_steps = 1000
`)

	df, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "expr.peg", df.Grammar)
	assert.Equal(t, "Start", df.StartingRule)
	assert.Equal(t, []string{"PI"}, df.Externs.Consts)
	assert.Equal(t, []string{"lookup_var"}, df.Externs.Funcs)
	assert.Equal(t, []string{"has_side_effect"}, df.Externs.PFuncs)
	assert.Equal(t, 100, df.Limits.MaxRecursionDepth)
	assert.Equal(t, 1000, df.Limits.MaxSteps)
}

func Test_Load_missingLimitsGetsDefaults(t *testing.T) {
	path := writeDatafile(t, `
format = "floyd-datafile"
grammar = "expr.peg"
`)

	df, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, DefaultLimits(), df.Limits)
}

func Test_Load_wrongFormatErrors(t *testing.T) {
	path := writeDatafile(t, `format = "something-else"`)

	_, err := Load(path)
	assert.Error(t, err)
}

func Test_Load_missingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
