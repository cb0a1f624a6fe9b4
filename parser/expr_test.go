package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/source"
)

func parseExpr(t *testing.T, src string) *ast.Node {
	t.Helper()
	text := source.New(src, "g")
	ep, err := newExprParser(text, 0)
	assert.NoError(t, err)
	n, err := ep.parseExpression(0)
	assert.NoError(t, err)
	return n
}

func Test_parseExpression_literals(t *testing.T) {
	n := parseExpr(t, "42")
	assert.Equal(t, ast.KindENum, n.Kind)
	assert.Equal(t, 42, n.V.Num)

	n = parseExpr(t, "3.5")
	assert.Equal(t, ast.KindENum, n.Kind)
	assert.True(t, n.V.IsFloat)
	assert.Equal(t, 3.5, n.V.Float)

	n = parseExpr(t, `"hi"`)
	assert.Equal(t, ast.KindELit, n.Kind)
	assert.Equal(t, "hi", n.V.Str)

	n = parseExpr(t, "null")
	assert.Equal(t, ast.KindEConst, n.Kind)
	assert.True(t, n.V.Null)

	n = parseExpr(t, "true")
	assert.Equal(t, ast.KindEConst, n.Kind)
	assert.True(t, n.V.Bool)
}

func Test_parseExpression_labelRef(t *testing.T) {
	n := parseExpr(t, "$1")
	assert.Equal(t, ast.KindEIdent, n.Kind)
	assert.Equal(t, "$1", n.V.Str)
}

func Test_parseExpression_arithmeticPrecedence(t *testing.T) {
	// `+`/`-` bind tighter than `==`, so `$1 + 1 == $2` parses as
	// `($1 + 1) == $2`.
	n := parseExpr(t, "$1 + 1 == $2")
	assert.Equal(t, ast.KindEQual, n.Kind)
	assert.Equal(t, ast.KindEPlus, n.Ch[0].Kind)
	assert.Equal(t, ast.KindEIdent, n.Ch[1].Kind)
}

func Test_parseExpression_parenGrouping(t *testing.T) {
	n := parseExpr(t, "(1 + 2)")
	assert.Equal(t, ast.KindEParen, n.Kind)
	assert.Equal(t, ast.KindEPlus, n.Ch[0].Kind)
}

func Test_parseExpression_arrayLiteral(t *testing.T) {
	n := parseExpr(t, "[1, 2, 3]")
	assert.Equal(t, ast.KindEArr, n.Kind)
	assert.Len(t, n.Ch, 3)
}

func Test_parseExpression_emptyArrayLiteral(t *testing.T) {
	n := parseExpr(t, "[]")
	assert.Equal(t, ast.KindEArr, n.Kind)
	assert.Empty(t, n.Ch)
}

func Test_parseExpression_functionCallPrefixAndInfix(t *testing.T) {
	n := parseExpr(t, "len(x)")
	assert.Equal(t, ast.KindECall, n.Kind)
	assert.Equal(t, "len", n.V.Str)
	assert.Len(t, n.Ch, 1)

	n = parseExpr(t, "f()(1)")
	assert.Equal(t, ast.KindECallInfix, n.Kind)
	assert.Equal(t, ast.KindECall, n.Ch[0].Kind)
}

func Test_parseExpression_getItemPrefixAndInfix(t *testing.T) {
	n := parseExpr(t, "x[0]")
	assert.Equal(t, ast.KindEGetItem, n.Kind)

	n = parseExpr(t, "x[0][1]")
	assert.Equal(t, ast.KindEGetItemInfix, n.Kind)
	assert.Equal(t, ast.KindEGetItem, n.Ch[0].Kind)
}

func Test_parseExpression_not(t *testing.T) {
	n := parseExpr(t, "!x")
	assert.Equal(t, ast.KindENot, n.Kind)
	assert.Equal(t, ast.KindEIdent, n.Ch[0].Kind)
}

func Test_parseExpression_bareIdentifier(t *testing.T) {
	n := parseExpr(t, "myvar")
	assert.Equal(t, ast.KindEIdent, n.Kind)
	assert.Equal(t, "myvar", n.V.Str)
}

func Test_parseExpression_errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "unclosed paren", src: "(1 + 2"},
		{name: "unclosed bracket", src: "[1, 2"},
		{name: "unclosed call args", src: "f(1, 2"},
		{name: "dangling operator", src: "=="},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			text := source.New(tc.src, "g")
			ep, err := newExprParser(text, 0)
			assert.NoError(t, err)
			_, err = ep.parseExpression(0)
			assert.Error(t, err)
		})
	}
}
