package analyzer

import (
	"fmt"

	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
)

// assignLabels materializes positional `$1`, `$2`, ... labels over every
// rule alternative, in declaration order, skipping action/predicate/pragma
// items (§4.3 pass 7). Items already given an explicit `expr:name` label
// are left as-is; the positional index still counts them, matching the
// grammar surface's "assigned in declaration order" rule.
//
// This implementation does not synthesize explicit `scope` AST nodes for
// outer-label-escape detection: instead, package interp pushes and pops one
// binding frame per rule-body execution unconditionally (including once
// per left-recursion/operator-climb iteration). Labels are therefore scoped
// per rule body, not per alternative: a binding made by an alternative that
// later fails stays visible to the alternatives tried after it in the same
// rule body. `scope` nodes remain part of the
// AST's closed kind set for constructs that want an explicit nested frame,
// but ordinary rule bodies never need one synthesized.
func assignLabels(g *grammar.Grammar) {
	for _, name := range g.RuleOrder {
		root := g.Rules[name]
		switch root.Kind {
		case ast.KindLeftrec, ast.KindOperator:
			choice := root.Ch[0]
			for i, alt := range choice.Ch {
				choice.Ch[i] = labelAlternative(alt)
			}
		case ast.KindChoice:
			for i, alt := range root.Ch {
				root.Ch[i] = labelAlternative(alt)
			}
		default:
			g.Rules[name] = labelAlternative(root)
		}
	}
}

// labelAlternative assigns positional labels across one alternative (a
// `seq` or a single bare item), returning the possibly-replaced node.
func labelAlternative(n *ast.Node) *ast.Node {
	if n.Kind == ast.KindSeq {
		idx := 0
		for i, c := range n.Ch {
			if !isPositionalCandidate(c) {
				continue
			}
			idx++
			if c.Kind == ast.KindLabel {
				continue
			}
			n.Ch[i] = wrapPositional(c, idx)
		}
		return n
	}

	if !isPositionalCandidate(n) || n.Kind == ast.KindLabel {
		return n
	}
	return wrapPositional(n, 1)
}

func wrapPositional(n *ast.Node, idx int) *ast.Node {
	wrapped := ast.New(ast.KindLabel, n)
	wrapped.V.Str = fmt.Sprintf("$%d", idx)
	wrapped.Span = n.Span
	return wrapped
}
