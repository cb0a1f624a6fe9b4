package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
)

// computeFeatureFlags walks the fully decorated tree and sets the
// capability flags and dependency sets the interpreter (and any external
// code-generation backend) uses to decide what runtime state to materialize
// (§4.3 pass 10).
func computeFeatureFlags(g *grammar.Grammar) {
	for _, name := range g.RuleOrder {
		scanNode(g.Rules[name], g)
	}
	if fillerBody, ok := g.Rules[fillerRuleName]; ok {
		scanNode(fillerBody, g)
	}

	g.LeftrecNeeded = len(g.LeftRec) > 0
	g.SeedsNeeded = len(g.LeftRec) > 0 || len(g.Operators) > 0

	if g.HasFiller {
		g.NeededBuiltinRules[fillerRuleName] = true
	}
	for name, table := range g.Operators {
		g.NeededBuiltinRules[table.OperandRule] = true
		for _, class := range table.Classes {
			for _, op := range class.Ops {
				g.NeededOperators[name+" "+op.Literal] = true
			}
		}
	}
}

// scanNode records the structural and host-expression capability flags
// triggered by n, recursing through every child.
func scanNode(n *ast.Node, g *grammar.Grammar) {
	if n == nil {
		return
	}

	switch n.Kind {
	case ast.KindRegexp:
		g.ReNeeded = true
	case ast.KindUnicat:
		g.UnicodedataNeeded = true
	case ast.KindEGetItem, ast.KindEGetItemInfix:
		g.LookupNeeded = true
	case ast.KindECall, ast.KindECallInfix:
		if res, ok := n.Attr("resolution"); ok && res == "function" {
			g.NeededBuiltinFunctions[n.V.Str] = true
		}
		if isUnicodeFunction(n.V.Str) {
			g.UnicodedataNeeded = true
		}
	}

	for _, c := range n.Ch {
		scanNode(c, g)
	}
}

func isUnicodeFunction(name string) bool {
	switch name {
	case "ucategory", "ulookup", "uname":
		return true
	default:
		return false
	}
}
