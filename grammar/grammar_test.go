package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/floyd/ast"
)

func Test_New_initializesAllMaps(t *testing.T) {
	g := New()

	assert.NotNil(t, g.Rules)
	assert.NotNil(t, g.Tokens)
	assert.NotNil(t, g.LeftRec)
	assert.NotNil(t, g.Externs)
	assert.NotNil(t, g.Operators)
	assert.NotNil(t, g.NeededBuiltinFunctions)
	assert.NotNil(t, g.NeededBuiltinRules)
	assert.NotNil(t, g.NeededOperators)
}

func Test_IsToken(t *testing.T) {
	g := New()
	g.Tokens["Ident"] = true

	assert.True(t, g.IsToken("Ident"))
	assert.False(t, g.IsToken("Expr"))
}

func Test_IsLeftRecursive_and_LeftAssoc(t *testing.T) {
	g := New()
	g.LeftRec["Sum"] = true
	g.LeftRec["Pow"] = false

	assert.True(t, g.IsLeftRecursive("Sum"))
	assert.True(t, g.LeftAssoc("Sum"))

	assert.True(t, g.IsLeftRecursive("Pow"))
	assert.False(t, g.LeftAssoc("Pow"))

	assert.False(t, g.IsLeftRecursive("Other"))
}

func Test_IsOperatorRule(t *testing.T) {
	g := New()
	g.Operators["Expr"] = &OperatorTable{OperandRule: "ExprOperand"}

	assert.True(t, g.IsOperatorRule("Expr"))
	assert.False(t, g.IsOperatorRule("Other"))
}

func Test_ExternKind_String(t *testing.T) {
	assert.Equal(t, "const", ExternConst.String())
	assert.Equal(t, "func", ExternFunc.String())
	assert.Equal(t, "pfunc", ExternPFunc.String())
	assert.Equal(t, "unknown", ExternKind(99).String())
}

func Test_Grammar_holdsRulesByName(t *testing.T) {
	g := New()
	root := ast.New(ast.KindRule)
	g.Rules["Start"] = root
	g.RuleOrder = append(g.RuleOrder, "Start")
	g.StartingRule = "Start"

	assert.Same(t, root, g.Rules["Start"])
	assert.Equal(t, []string{"Start"}, g.RuleOrder)
	assert.Equal(t, "Start", g.StartingRule)
}
