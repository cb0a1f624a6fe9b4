// Package floyd compiles PEG grammar source into a runnable grammar and
// parses input text against it, tying together package parser (grammar
// syntax), package analyzer (the fixed decoration passes), and package
// interp (the packrat runtime) behind the single entry point described by
// spec.md §6.2.
package floyd

import (
	"golang.org/x/sync/errgroup"

	"github.com/dekarrin/floyd/analyzer"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/interp"
	"github.com/dekarrin/floyd/parser"
)

// Grammar is a compiled, analysis-decorated grammar ready to parse input.
type Grammar struct {
	g *grammar.Grammar
}

// Compile parses and analyzes grammar source, returning a Grammar ready for
// repeated Parse/ParseString calls. path is used only for error messages.
func Compile(src, path string) (*Grammar, error) {
	root, text, err := parser.Parse(src, path)
	if err != nil {
		return nil, err
	}
	g, err := analyzer.Analyze(root, text)
	if err != nil {
		return nil, err
	}
	return &Grammar{g: g}, nil
}

// CompileAll compiles a batch of named grammar sources concurrently,
// returning the first error encountered (if any) and a map of every source
// that compiled successfully. Grounded on golang.org/x/sync/errgroup's
// fan-out/first-error pattern, useful for an embedding environment that
// wants to validate a whole pack of grammars at startup without paying for
// them one at a time.
func CompileAll(sources map[string]string) (map[string]*Grammar, error) {
	var eg errgroup.Group
	results := make(map[string]*Grammar, len(sources))
	type compiled struct {
		name string
		g    *Grammar
	}
	out := make(chan compiled, len(sources))

	for name, src := range sources {
		name, src := name, src
		eg.Go(func() error {
			g, err := Compile(src, name)
			if err != nil {
				return err
			}
			out <- compiled{name: name, g: g}
			return nil
		})
	}

	err := eg.Wait()
	close(out)
	for c := range out {
		results[c.name] = c.g
	}
	if err != nil {
		return results, err
	}
	return results, nil
}

// Result is the outcome of a single parse: the value the starting rule
// produced, or the error if the input did not match or a host expression
// raised.
type Result = interp.Result

// Options configures a single Parse call: which rule to start from (the
// grammar's declared starting rule if empty), bound externs, and optional
// resource ceilings (spec §5).
type Options = interp.Options

// ExternFunc and ExternPFunc are the two callable extern shapes a caller may
// bind in Options.Externs; a %externs const entry is bound with a plain
// value.Value instead of either.
type ExternFunc = interp.ExternFunc
type ExternPFunc = interp.ExternPFunc

// Parse runs g against src, starting at opts.Start (or the grammar's
// declared starting rule) and returns the match result.
func (g *Grammar) Parse(src string, opts Options) Result {
	return interp.Parse(g.g, src, opts)
}

// ParseString is a convenience wrapper over Parse for the common case of no
// externs, default starting rule, and default resource ceilings.
func (g *Grammar) ParseString(src string) Result {
	return interp.Parse(g.g, src, Options{})
}

// NeedsBuiltinFunction reports whether the analyzed grammar actually calls
// the named builtin function from a host expression, per the
// needed_builtin_functions feature flag (§3.3); useful for an embedding
// environment deciding whether to link a given builtin's dependencies.
func (g *Grammar) NeedsBuiltinFunction(name string) bool {
	return g.g.NeededBuiltinFunctions[name]
}

// StartingRule returns the grammar's declared starting rule name.
func (g *Grammar) StartingRule() string {
	return g.g.StartingRule
}
