package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/source"
)

// collectPragmasAndRules drains every top-level %-node into grammar
// metadata and records every rule body, in declaration order (§4.3 pass 1).
// It returns the raw %prec declarations for pass 5 to consume; they are not
// stashed on *grammar.Grammar itself because only the specific rules that use
// them should carry operator metadata, and are not package-level scratch
// state because Analyze may run concurrently across grammars (see
// floyd.CompileAll).
func collectPragmasAndRules(root *ast.Node, text *source.Text, g *grammar.Grammar) ([]grammar.PrecClass, error) {
	var precClasses []grammar.PrecClass
	assocRight := map[string]bool{}

	for _, child := range root.Ch {
		switch child.Kind {
		case ast.KindRule:
			name := child.V.Str
			if _, exists := g.Rules[name]; exists {
				return nil, grammarErr(text, child.Span.Start, "rule %q redeclared", name)
			}
			body := child.Ch[1]
			g.Rules[name] = body
			g.RuleOrder = append(g.RuleOrder, name)
			if g.StartingRule == "" {
				g.StartingRule = name
			}
		case ast.KindPragma:
			switch child.V.Str {
			case "whitespace":
				g.Whitespace = child.Ch[0]
				g.HasFiller = true
			case "comment":
				g.Comment = child.Ch[0]
				g.HasFiller = true
			case "tokens":
				for _, idNode := range child.Ch {
					g.Tokens[idNode.V.Str] = true
				}
			case "externs":
				if err := collectExtern(child, text, g); err != nil {
					return nil, err
				}
			case "prec":
				var ops []grammar.OpEntry
				for _, litNode := range child.Ch {
					ops = append(ops, grammar.OpEntry{Literal: litNode.V.Str})
				}
				precClasses = append(precClasses, grammar.PrecClass{
					Level: len(precClasses),
					Ops:   ops,
				})
			case "assoc":
				op := child.Ch[0].V.Str
				assocRight[op] = child.V.Bool
			}
		}
	}

	// Stash the raw precedence declarations and associativity overrides as
	// grammar-wide defaults; operator rewriting (pass 5) attaches them to
	// the specific rules whose alternatives use them.
	g.NeededOperators = map[string]bool{}
	for _, pc := range precClasses {
		for i := range pc.Ops {
			if right, ok := assocRight[pc.Ops[i].Literal]; ok {
				pc.Ops[i].RAssoc = right
			}
			g.NeededOperators[pc.Ops[i].Literal] = true
		}
	}
	g.Operators = map[string]*grammar.OperatorTable{}

	if g.StartingRule == "" {
		return nil, grammarErr(text, root.Span.Start, "grammar defines no rules")
	}
	return precClasses, nil
}

func collectExtern(node *ast.Node, text *source.Text, g *grammar.Grammar) error {
	name := node.Ch[0].V.Str
	defaultNode := node.Ch[1]

	kind := grammar.ExternConst
	var def any

	switch {
	case defaultNode.Kind == ast.KindEIdent && defaultNode.V.Str == "func":
		kind = grammar.ExternFunc
	case defaultNode.Kind == ast.KindEIdent && defaultNode.V.Str == "pfunc":
		kind = grammar.ExternPFunc
	default:
		def = literalValueOf(defaultNode)
	}

	g.Externs[name] = grammar.Extern{Name: name, Kind: kind, Default: def}
	return nil
}

func literalValueOf(n *ast.Node) any {
	switch n.Kind {
	case ast.KindENum:
		if n.V.IsFloat {
			return n.V.Float
		}
		return n.V.Num
	case ast.KindELit:
		return n.V.Str
	case ast.KindEConst:
		if n.V.Null {
			return nil
		}
		return n.V.Bool
	default:
		return nil
	}
}
