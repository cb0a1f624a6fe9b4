package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/builtins"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/source"
)

// resolveIdentifiers classifies every e_ident in every rule's host
// expressions as "label" (a name bound by an explicit `expr:name` or a
// positional `$N`), "extern", or "function" (built-in), rejecting anything
// that resolves to none of those (§4.3 pass 2). The callee name of every
// e_call gets the same "extern" or "function" resolution; a call to a name
// that is neither is not rejected here and fails when evaluated. The scope
// an identifier resolves against is every label name declared anywhere in
// the owning rule: Floyd's label scoping (one binding frame per rule-body
// execution at runtime; pass 7 installs no `scope` nodes) is rule-local, so
// a flat per-rule name set is sufficient here.
func resolveIdentifiers(g *grammar.Grammar, text *source.Text) error {
	for _, name := range g.RuleOrder {
		body := g.Rules[name]
		labels := map[string]bool{}
		collectLabelNames(body, labels)
		maxPositional := countPositionalSlots(body)

		var walkErr error
		walkHostExprs(body, func(expr *ast.Node) {
			if walkErr != nil {
				return
			}
			walkErr = resolveInExpr(expr, labels, maxPositional, g, text)
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}

func resolveInExpr(root *ast.Node, labels map[string]bool, maxPositional int, g *grammar.Grammar, text *source.Text) error {
	var err error
	walkExpr(root, func(n *ast.Node) bool {
		if err != nil {
			return false
		}
		if n.Kind == ast.KindECall {
			if _, ok := g.Externs[n.V.Str]; ok {
				n.SetAttr("resolution", "extern")
			} else if _, ok := builtins.Lookup(n.V.Str); ok {
				n.SetAttr("resolution", "function")
			}
			return true
		}
		if n.Kind != ast.KindEIdent {
			return true
		}
		name := n.V.Str
		if len(name) > 0 && name[0] == '$' {
			idx := 0
			for _, r := range name[1:] {
				idx = idx*10 + int(r-'0')
			}
			if idx < 1 || idx > maxPositional {
				err = grammarErr(text, n.Span.Start, "undefined positional label %s", name)
				return false
			}
			n.SetAttr("resolution", "label")
			return true
		}
		if labels[name] {
			n.SetAttr("resolution", "label")
			return true
		}
		if _, ok := g.Externs[name]; ok {
			n.SetAttr("resolution", "extern")
			return true
		}
		if _, ok := builtins.Lookup(name); ok {
			n.SetAttr("resolution", "function")
			return true
		}
		err = grammarErr(text, n.Span.Start, "undefined identifier %q", name)
		return false
	})
	return err
}

// collectLabelNames walks a rule body and records every explicit label
// name, ignoring positional labels (those are validated by count instead,
// via countPositionalSlots).
func collectLabelNames(n *ast.Node, out map[string]bool) {
	if n == nil {
		return
	}
	if n.Kind == ast.KindLabel {
		out[n.V.Str] = true
	}
	for _, c := range n.Ch {
		collectLabelNames(c, out)
	}
}

// countPositionalSlots counts the matching items in a rule body that would
// receive an implicit $1, $2, ... label: every non-filler matching node
// that is a direct item of a seq (or the rule's sole body item), in
// left-to-right order. This mirrors the set pass 7 later materializes.
func countPositionalSlots(body *ast.Node) int {
	switch body.Kind {
	case ast.KindSeq:
		n := 0
		for _, c := range body.Ch {
			if isPositionalCandidate(c) {
				n++
			}
		}
		return n
	case ast.KindChoice:
		max := 0
		for _, c := range body.Ch {
			if n := countPositionalSlots(c); n > max {
				max = n
			}
		}
		return max
	default:
		if isPositionalCandidate(body) {
			return 1
		}
		return 0
	}
}

func isPositionalCandidate(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindAction, ast.KindPred, ast.KindPragma:
		return false
	default:
		return true
	}
}

// walkHostExprs invokes fn once per top-level host-expression subtree found
// anywhere under n (inside action/pred/equals nodes), without descending
// into an expression once found (the expr subtree itself is walked
// separately by the caller via walkExpr).
func walkHostExprs(n *ast.Node, fn func(*ast.Node)) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindAction, ast.KindPred, ast.KindEquals:
		fn(n.Ch[0])
		return
	}
	for _, c := range n.Ch {
		walkHostExprs(c, fn)
	}
}

// walkExpr calls visit on n and, if visit returns true, recursively on every
// child.
func walkExpr(n *ast.Node, visit func(*ast.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Ch {
		walkExpr(c, visit)
	}
}
