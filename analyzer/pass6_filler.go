package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
)

// fillerRuleName is the synthetic rule installed in g.Rules (but not
// g.RuleOrder, since it is never a direct entry point) holding the
// whitespace/comment alternation, repeated, that gets inlined before every
// literal-matching site in a non-token rule.
const fillerRuleName = "$filler"

var fillerLiteralKinds = map[ast.Kind]bool{
	ast.KindLit:    true,
	ast.KindRange:  true,
	ast.KindSet:    true,
	ast.KindRegexp: true,
	ast.KindUnicat: true,
	// `end` itself consumes nothing, but §4.1.7 requires filler to run once
	// before it at the grammar root so trailing whitespace/comments ahead of
	// end-of-input are absorbed rather than failing the match.
	ast.KindEnd: true,
}

// installFiller synthesizes the filler rule from %whitespace/%comment and
// inlines a reference to it before every literal-matching node in every
// non-token rule (§4.1.7 / §4.3 pass 6). It is a no-op when neither pragma
// was declared.
func installFiller(g *grammar.Grammar) {
	if !g.HasFiller {
		return
	}

	var alt *ast.Node
	switch {
	case g.Whitespace != nil && g.Comment != nil:
		alt = ast.New(ast.KindChoice, g.Whitespace, g.Comment)
	case g.Whitespace != nil:
		alt = g.Whitespace
	default:
		alt = g.Comment
	}
	fillerBody := ast.New(ast.KindStar, alt)
	g.Rules[fillerRuleName] = fillerBody

	for _, name := range g.RuleOrder {
		if g.IsToken(name) {
			continue
		}
		g.Rules[name] = insertFiller(g.Rules[name])
	}
}

func fillerApply() *ast.Node {
	n := ast.New(ast.KindApply)
	n.V.Str = fillerRuleName
	return n
}

func insertFiller(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if fillerLiteralKinds[n.Kind] {
		return ast.New(ast.KindSeq, fillerApply(), n)
	}
	for i, c := range n.Ch {
		n.Ch[i] = insertFiller(c)
	}
	return n
}
