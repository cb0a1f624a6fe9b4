package interp

import (
	"fmt"

	"github.com/dekarrin/floyd/ferr"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/source"
)

// Result is the outcome of one parse, mirroring §6.2's `{val, err, pos}`.
type Result struct {
	Val any
	Err error
	Pos int
}

// Options configures a single parse invocation.
type Options struct {
	Path        string
	Start       string // overrides g.StartingRule when non-empty
	Externs     map[string]any
	MaxRecDepth int // 0 disables the ceiling
	MaxSteps    int // 0 disables the ceiling
}

// Parse runs g against text starting at offset 0, implementing the public
// parse() entry point of §6.2. A const extern left unbound in opts.Externs
// uses its declared default; a func or pfunc extern left unbound makes Parse
// return an error before any input is matched.
func Parse(g *grammar.Grammar, src string, opts Options) Result {
	text := source.New(src, opts.Path)

	start := opts.Start
	if start == "" {
		start = g.StartingRule
	}
	if _, ok := g.Rules[start]; !ok {
		return Result{Err: fmt.Errorf("undefined starting rule %q", start)}
	}

	for name, ext := range g.Externs {
		if _, ok := opts.Externs[name]; ok {
			continue
		}
		if ext.Kind == grammar.ExternConst {
			continue // a const extern always has a usable (possibly null) default
		}
		return Result{Err: fmt.Errorf("extern %q is declared but not bound", name)}
	}

	rt := newRuntime(g, text, opts.Externs, opts.MaxRecDepth, opts.MaxSteps)

	err := rt.applyRule(start)
	if err != nil {
		return Result{Err: formatHostError(err, text), Pos: rt.pos}
	}
	if rt.failed {
		return Result{Err: formatParseFailure(text, rt.errpos), Pos: rt.errpos}
	}

	return Result{Val: rt.val, Pos: rt.pos}
}

func formatHostError(err error, text *source.Text) error {
	if he, ok := err.(*HostError); ok {
		return ferr.NewHostErrorAt(he.Message, text, he.Pos, he)
	}
	return err
}

// formatParseFailure renders the standard "<path>:<line> Unexpected <thing>
// at column <col>" message required by §6.2/§7 for an ordinary PEG failure.
func formatParseFailure(text *source.Text, errpos int) error {
	what := "end of input"
	if errpos < text.Len() {
		what = fmt.Sprintf("character %q", string(text.At(errpos)))
	}
	return ferr.NewParseErrorAt(what, text, errpos, errpos)
}
