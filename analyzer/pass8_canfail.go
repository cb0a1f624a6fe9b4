package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
)

// propagateCanFail computes, bottom-up, whether each node can ever fail to
// match and stores it under the "can_fail" attribute (§4.3 pass 8). Code
// generation backends use this to elide dead failure branches; the
// interpreter itself does not depend on it, so a conservative answer (true)
// is always safe where exact computation would require whole-grammar fixed
// point analysis (e.g. `apply`, which would need each referenced rule
// analyzed first regardless of declaration order).
func propagateCanFail(g *grammar.Grammar) {
	visited := map[*ast.Node]bool{}
	for _, name := range g.RuleOrder {
		computeCanFail(g.Rules[name], visited)
	}
}

func computeCanFail(n *ast.Node, visited map[*ast.Node]bool) bool {
	if n == nil {
		return true
	}
	if visited[n] {
		if v, ok := n.Attr("can_fail"); ok {
			b, _ := v.(bool)
			return b
		}
		return true
	}
	visited[n] = true

	var result bool
	switch n.Kind {
	case ast.KindOpt, ast.KindStar:
		computeCanFail(n.Ch[0], visited)
		result = false
	case ast.KindAction:
		computeCanFail(n.Ch[0], visited)
		result = false
	case ast.KindEmpty:
		result = false
	case ast.KindSeq:
		result = false
		for _, c := range n.Ch {
			if computeCanFail(c, visited) {
				result = true
			}
		}
	case ast.KindChoice:
		result = true
		for _, c := range n.Ch {
			if !computeCanFail(c, visited) {
				result = false
			}
		}
	case ast.KindPlus, ast.KindRun, ast.KindLabel, ast.KindScope, ast.KindParen, ast.KindLeftrec, ast.KindOperator, ast.KindRuleWrapper:
		result = computeCanFail(n.Ch[0], visited)
	case ast.KindCount:
		computeCanFail(n.Ch[0], visited)
		result = n.V.Num > 0
	default:
		for _, c := range n.Ch {
			computeCanFail(c, visited)
		}
		result = true
	}

	n.SetAttr("can_fail", result)
	return result
}
