package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/source"
)

// rewriteOperators finds rules whose body is a choice in which every
// "operator alternative" has the shape `self OP self` (self being an
// `apply` of the owning rule), and rewrites them into `operator` nodes
// driven by the %prec/%assoc tables collected in pass 1 (§4.3 pass 5). A
// rule qualifies only if it was already marked left-recursive by pass 4
// (an operator rule is a specialization of left recursion); rewriting
// supersedes the plain `leftrec` wrapper with an `operator` one, since the
// precedence climber subsumes the generic fixed-point loop for these rules.
//
// Base (non-operator) alternatives are collected into a synthesized operand
// rule, named "<rule>~operand", appended to the grammar so the interpreter
// can `apply` it like any other rule.
func rewriteOperators(g *grammar.Grammar, text *source.Text, precClasses []grammar.PrecClass) error {
	for _, name := range g.RuleOrder {
		if !g.LeftRec[name] {
			continue
		}
		wrapper := g.Rules[name]
		if wrapper.Kind != ast.KindLeftrec {
			continue
		}
		choice := wrapper.Ch[0]
		if choice.Kind != ast.KindChoice {
			continue
		}

		var opAlts []*ast.Node
		var baseAlts []*ast.Node
		opLiterals := map[string]bool{}
		for _, alt := range choice.Ch {
			lit, ok := operatorAltLiteral(alt, name)
			if ok {
				opAlts = append(opAlts, alt)
				opLiterals[lit] = true
			} else {
				baseAlts = append(baseAlts, alt)
			}
		}

		if len(opAlts) == 0 || len(baseAlts) == 0 {
			continue
		}

		classes := filterPrecClasses(precClasses, opLiterals)
		if len(classes) == 0 {
			continue
		}

		operandName := name + "~operand"
		var operandBody *ast.Node
		if len(baseAlts) == 1 {
			operandBody = baseAlts[0]
		} else {
			operandBody = ast.New(ast.KindChoice, baseAlts...)
		}
		g.Rules[operandName] = operandBody
		g.RuleOrder = append(g.RuleOrder, operandName)

		for ci := range classes {
			for oi := range classes[ci].Ops {
				classes[ci].Ops[oi].RHSRule = name
			}
		}

		g.Operators[name] = &grammar.OperatorTable{
			Classes:     classes,
			OperandRule: operandName,
		}

		delete(g.LeftRec, name)
		opNode := ast.New(ast.KindOperator, wrapper.Ch...)
		opNode.V.Str = name
		opNode.Span = wrapper.Span
		g.Rules[name] = opNode
	}
	return nil
}

// operatorAltLiteral reports whether alt has the shape `self OP self`
// (a 3-item seq: apply(selfName), lit(op), apply(selfName)), returning the
// operator literal on success.
func operatorAltLiteral(alt *ast.Node, selfName string) (string, bool) {
	if alt.Kind != ast.KindSeq || len(alt.Ch) != 3 {
		return "", false
	}
	lhs, op, rhs := alt.Ch[0], alt.Ch[1], alt.Ch[2]
	if lhs.Kind != ast.KindApply || lhs.V.Str != selfName {
		return "", false
	}
	if rhs.Kind != ast.KindApply || rhs.V.Str != selfName {
		return "", false
	}
	if op.Kind != ast.KindLit {
		return "", false
	}
	return op.V.Str, true
}

// filterPrecClasses returns the subset of declared precedence classes that
// mention at least one of wanted's operator literals, preserving the
// original high-to-low declaration order and each class's internal
// declaration order.
func filterPrecClasses(all []grammar.PrecClass, wanted map[string]bool) []grammar.PrecClass {
	var out []grammar.PrecClass
	for _, pc := range all {
		var ops []grammar.OpEntry
		for _, op := range pc.Ops {
			if wanted[op.Literal] {
				ops = append(ops, op)
			}
		}
		if len(ops) > 0 {
			out = append(out, grammar.PrecClass{Level: len(out), Ops: ops})
		}
	}
	return out
}
