// Package grammar holds the decorated-grammar metadata record produced by
// analysis (spec §3.3). It is kept separate from package analyzer so that
// package interp can depend on the metadata shape without creating an
// analyzer/interp import cycle: analyzer produces a *Grammar, interp
// consumes one.
package grammar

import "github.com/dekarrin/floyd/ast"

// ExternKind classifies a caller-supplied hook.
type ExternKind int

const (
	ExternConst ExternKind = iota
	ExternFunc
	ExternPFunc
)

func (k ExternKind) String() string {
	switch k {
	case ExternConst:
		return "const"
	case ExternFunc:
		return "func"
	case ExternPFunc:
		return "pfunc"
	default:
		return "unknown"
	}
}

// Extern describes one declared %externs entry.
type Extern struct {
	Name    string
	Kind    ExternKind
	Default any // literal default value, or nil for func/pfunc with no default
}

// OpEntry is one operator literal within a single precedence class: the
// literal text, whether it is right-associative, and the subrule that
// matches "operator + right-hand-side" for it.
type OpEntry struct {
	Literal  string
	RAssoc   bool
	RHSRule  string
}

// PrecClass is one %prec-declared precedence level for an operator rule,
// highest precedence first across the slice that owns it.
type PrecClass struct {
	Level int
	Ops   []OpEntry
}

// OperatorTable is the per-rule precedence-climbing metadata built by the
// operator-rewriting pass (§4.3 step 5).
type OperatorTable struct {
	// Classes is ordered highest-precedence first.
	Classes []PrecClass

	// OperandRule is the generated subrule name matching operands that do
	// not themselves start with a recognized operator.
	OperandRule string
}

// Grammar is the fully analyzed grammar: rule bodies plus every derived
// metadata table the interpreter and any external code-generation backend
// need (§3.3).
type Grammar struct {
	// Rules is an ordered mapping from rule name to root AST node. Order
	// matches declaration order in the source, with StartingRule first.
	RuleOrder []string
	Rules     map[string]*ast.Node

	StartingRule string

	// Tokens is the set of rule names marked via %tokens (no filler
	// insertion around their literals).
	Tokens map[string]bool

	// LeftRec is the set of rule names the left-recursion pass marked
	// leftrec, each mapped to whether it runs left-associative (true) or
	// right-associative (false).
	LeftRec map[string]bool

	Externs map[string]Extern

	Operators map[string]*OperatorTable

	Whitespace *ast.Node
	Comment    *ast.Node
	// HasFiller reports whether either %whitespace or %comment was
	// declared; filler insertion is disabled entirely otherwise (§4.1.7).
	HasFiller bool

	NeededBuiltinFunctions map[string]bool
	NeededBuiltinRules     map[string]bool
	NeededOperators        map[string]bool

	ReNeeded           bool
	LeftrecNeeded      bool
	SeedsNeeded        bool
	LookupNeeded       bool
	UnicodedataNeeded  bool
}

// New returns an empty Grammar with every map initialized, ready for the
// analyzer passes to populate incrementally.
func New() *Grammar {
	return &Grammar{
		Rules:                  map[string]*ast.Node{},
		Tokens:                 map[string]bool{},
		LeftRec:                map[string]bool{},
		Externs:                map[string]Extern{},
		Operators:              map[string]*OperatorTable{},
		NeededBuiltinFunctions: map[string]bool{},
		NeededBuiltinRules:     map[string]bool{},
		NeededOperators:        map[string]bool{},
	}
}

// IsToken reports whether name was declared in %tokens.
func (g *Grammar) IsToken(name string) bool {
	return g.Tokens[name]
}

// IsLeftRecursive reports whether name was marked leftrec by analysis.
func (g *Grammar) IsLeftRecursive(name string) bool {
	_, ok := g.LeftRec[name]
	return ok
}

// LeftAssoc reports the associativity of a left-recursive rule; only
// meaningful if IsLeftRecursive(name) is true.
func (g *Grammar) LeftAssoc(name string) bool {
	return g.LeftRec[name]
}

// IsOperatorRule reports whether name was rewritten into precedence-climbing
// form by the operator-rewriting pass.
func (g *Grammar) IsOperatorRule(name string) bool {
	_, ok := g.Operators[name]
	return ok
}
