package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/floyd/parser"
)

func Test_Analyze_simpleGrammar_setsStartingRule(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a"`, "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.Equal(t, "Start", g.StartingRule)
	assert.Contains(t, g.Rules, "Start")
}

func Test_Analyze_undefinedIdentifierErrors(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a" -> nonexistent_name`, "g")
	assert.NoError(t, err)

	_, err = Analyze(root, text)
	assert.Error(t, err)
}

func Test_Analyze_labelResolvesInAction(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a":x -> x`, "g")
	assert.NoError(t, err)

	_, err = Analyze(root, text)
	assert.NoError(t, err)
}

func Test_Analyze_positionalLabelOutOfRangeErrors(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a" -> $2`, "g")
	assert.NoError(t, err)

	_, err = Analyze(root, text)
	assert.Error(t, err)
}

func Test_Analyze_builtinFunctionResolves(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a" -> len("x")`, "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.True(t, g.NeededBuiltinFunctions["len"])
}

func Test_Analyze_externResolves(t *testing.T) {
	root, text, err := parser.Parse("%externs greeting -> \"hello\"\nStart = \"a\" -> greeting", "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.Contains(t, g.Externs, "greeting")
}

func Test_Analyze_simpleLeftRecursionDetected(t *testing.T) {
	root, text, err := parser.Parse("Expr = Expr \"+\" Num | Num\nNum = /[0-9]+/", "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.True(t, g.IsLeftRecursive("Expr"))
	assert.True(t, g.LeftAssoc("Expr"))
	assert.False(t, g.IsLeftRecursive("Num"))
}

func Test_Analyze_fillerInstalledWhenWhitespaceDeclared(t *testing.T) {
	root, text, err := parser.Parse("%whitespace = \" \"+\nStart = \"a\" \"b\"", "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.True(t, g.HasFiller)
	assert.Contains(t, g.Rules, "$filler")
	assert.True(t, g.NeededBuiltinRules["$filler"])
}

func Test_Analyze_noFillerWithoutPragma(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a" "b"`, "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.False(t, g.HasFiller)
	assert.NotContains(t, g.Rules, "$filler")
}

func Test_Analyze_operatorRewriting_withPrecAndAssoc(t *testing.T) {
	src := `
%prec '*' '/'
%prec '+' '-'
%assoc '+' left
Expr = Expr "+" Expr | Expr "-" Expr | Expr "*" Expr | Expr "/" Expr | Num
Num = /[0-9]+/
`
	root, text, err := parser.Parse(src, "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.True(t, g.IsOperatorRule("Expr"))
	assert.False(t, g.IsLeftRecursive("Expr"))

	table := g.Operators["Expr"]
	assert.Len(t, table.Classes, 2)
	assert.Contains(t, g.Rules, table.OperandRule)
}

func Test_Analyze_tokensRuleSkipsFiller(t *testing.T) {
	src := "%whitespace = \" \"+\n%tokens Ident\nIdent = /[a-z]+/\nStart = Ident Ident"
	root, text, err := parser.Parse(src, "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.True(t, g.IsToken("Ident"))
}

func Test_Analyze_regexpAndUnicodeFlagsComputed(t *testing.T) {
	root, text, err := parser.Parse(`Start = /[0-9]+/ -> ucategory("a")`, "g")
	assert.NoError(t, err)

	g, err := Analyze(root, text)
	assert.NoError(t, err)
	assert.True(t, g.ReNeeded)
	assert.True(t, g.UnicodedataNeeded)
}

func Test_Analyze_stringPlusNumberMismatchErrors(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a" -> "x" + 1`, "g")
	assert.NoError(t, err)

	_, err = Analyze(root, text)
	assert.Error(t, err)
}

func Test_Analyze_stringConcatenationTypeChecks(t *testing.T) {
	root, text, err := parser.Parse(`Start = "a" -> "x" + "y"`, "g")
	assert.NoError(t, err)

	_, err = Analyze(root, text)
	assert.NoError(t, err)
}

func Test_Analyze_duplicateRuleErrors(t *testing.T) {
	root, text, err := parser.Parse("Start = \"a\"\nStart = \"b\"", "g")
	assert.NoError(t, err)

	_, err = Analyze(root, text)
	assert.Error(t, err)
}
