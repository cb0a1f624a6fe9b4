package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/source"
)

// exprType is analysis's coarse approximation of the host-expression type
// lattice (§4.3 pass 9: `null | bool | int | float | str | list[T] |
// dict[str, T] | any`). Only literal-headed expressions carry a type more
// specific than "any": labels, externs, and built-in/function calls may
// hold any runtime value as far as static analysis can tell, since Floyd
// does not track per-rule return types across `apply` boundaries.
type exprType int

const (
	tyAny exprType = iota
	tyNull
	tyBool
	tyInt
	tyFloat
	tyStr
	tyList
	tyDict
)

// typeCheckHostExpressions infers a coarse type for every host-expression
// node (stored under the "type" attribute) and rejects only the mismatches
// that are statically certain: a string operand combined with a numeric one
// under `+`/`-` (§4.3 pass 9).
func typeCheckHostExpressions(g *grammar.Grammar, text *source.Text) error {
	for _, name := range g.RuleOrder {
		var err error
		walkHostExprs(g.Rules[name], func(expr *ast.Node) {
			if err != nil {
				return
			}
			_, err = inferType(expr, text)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func inferType(n *ast.Node, text *source.Text) (exprType, error) {
	switch n.Kind {
	case ast.KindENum:
		t := tyInt
		if n.V.IsFloat {
			t = tyFloat
		}
		n.SetAttr("type", t)
		return t, nil
	case ast.KindELit:
		n.SetAttr("type", tyStr)
		return tyStr, nil
	case ast.KindEConst:
		t := tyBool
		if n.V.Null {
			t = tyNull
		}
		n.SetAttr("type", t)
		return t, nil
	case ast.KindEArr:
		for _, c := range n.Ch {
			if _, err := inferType(c, text); err != nil {
				return tyAny, err
			}
		}
		n.SetAttr("type", tyList)
		return tyList, nil
	case ast.KindEParen:
		t, err := inferType(n.Ch[0], text)
		if err != nil {
			return tyAny, err
		}
		n.SetAttr("type", t)
		return t, nil
	case ast.KindENot:
		if _, err := inferType(n.Ch[0], text); err != nil {
			return tyAny, err
		}
		n.SetAttr("type", tyBool)
		return tyBool, nil
	case ast.KindEQual:
		if _, err := inferType(n.Ch[0], text); err != nil {
			return tyAny, err
		}
		if _, err := inferType(n.Ch[1], text); err != nil {
			return tyAny, err
		}
		n.SetAttr("type", tyBool)
		return tyBool, nil
	case ast.KindEPlus, ast.KindEMinus:
		lt, err := inferType(n.Ch[0], text)
		if err != nil {
			return tyAny, err
		}
		rt, err := inferType(n.Ch[1], text)
		if err != nil {
			return tyAny, err
		}
		mixed := isDefinitelyString(lt) && isDefinitelyNumeric(rt) || isDefinitelyNumeric(lt) && isDefinitelyString(rt)
		if mixed {
			return tyAny, grammarErr(text, n.Span.Start, "cannot combine str and numeric operands")
		}
		if lt == tyFloat || rt == tyFloat {
			n.SetAttr("type", tyFloat)
			return tyFloat, nil
		}
		if lt == tyStr && rt == tyStr {
			n.SetAttr("type", tyStr)
			return tyStr, nil
		}
		n.SetAttr("type", tyInt)
		return tyInt, nil
	case ast.KindEGetItem, ast.KindEGetItemInfix, ast.KindECall, ast.KindECallInfix, ast.KindEIdent:
		for _, c := range n.Ch {
			if _, err := inferType(c, text); err != nil {
				return tyAny, err
			}
		}
		n.SetAttr("type", tyAny)
		return tyAny, nil
	default:
		n.SetAttr("type", tyAny)
		return tyAny, nil
	}
}

func isDefinitelyString(t exprType) bool  { return t == tyStr }
func isDefinitelyNumeric(t exprType) bool { return t == tyInt || t == tyFloat }
