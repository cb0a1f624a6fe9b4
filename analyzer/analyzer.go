// Package analyzer runs the fixed pass sequence (spec §4.3) that turns a raw
// grammar AST into a decorated tree plus the *grammar.Grammar metadata
// record the interpreter needs. Passes run in the order the package's
// exported Analyze function lists them; later passes depend on attributes
// earlier passes install, so the order is load-bearing.
package analyzer

import (
	"fmt"

	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/ferr"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/source"
)

// Analyze runs every pass over root in order and returns the resulting
// grammar metadata. root is mutated in place (attributes installed,
// operator rules rewritten, filler inserted, labels materialized).
func Analyze(root *ast.Node, text *source.Text) (*grammar.Grammar, error) {
	g := grammar.New()

	precClasses, err := collectPragmasAndRules(root, text, g)
	if err != nil {
		return nil, err
	}
	if err := resolveIdentifiers(g, text); err != nil {
		return nil, err
	}
	if err := validateExterns(g); err != nil {
		return nil, err
	}
	if err := detectLeftRecursion(g); err != nil {
		return nil, err
	}
	if err := rewriteOperators(g, text, precClasses); err != nil {
		return nil, err
	}
	installFiller(g)
	assignLabels(g)
	propagateCanFail(g)
	if err := typeCheckHostExpressions(g, text); err != nil {
		return nil, err
	}
	computeFeatureFlags(g)

	return g, nil
}

func grammarErr(text *source.Text, off int, format string, args ...any) error {
	if text == nil {
		return ferr.NewGrammarError(fmt.Sprintf(format, args...), 0, 0, "", "")
	}
	return ferr.NewGrammarErrorAt(fmt.Sprintf(format, args...), text, off)
}
