// Package interp implements the packrat PEG interpreter core: the memoized
// cooperative state machine that walks an analyzed grammar against an input
// text, including left-recursion fixed-point seeding, operator-precedence
// climbing, filler handling, and the embedded host-expression evaluator
// (spec §4.1).
package interp

import (
	"fmt"

	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/source"
	"github.com/dekarrin/floyd/value"
)

// ExternFunc is a caller-supplied pure function hook (an %externs entry
// declared with kind "func").
type ExternFunc func(args []value.Value) (value.Value, error)

// ExternPFunc is a caller-supplied hook that additionally receives the
// running parse as its implicit first argument (an %externs entry declared
// with kind "pfunc").
type ExternPFunc func(rt *Runtime, args []value.Value) (value.Value, error)

// memoEntry is one cache/seed table slot: the triple (val, failed, newPos)
// an operator produced at a given (offset, ruleName) key (§3.4).
type memoEntry struct {
	val     value.Value
	failed  bool
	newPos  int
	present bool
}

// operatorState is a rule's precedence-climbing working state, shared across
// every seed-table probe for that rule within one parse (§4.1.6).
type operatorState struct {
	currentDepth int
}

// Runtime is the mutable state of a single parse invocation (§3.4). It is
// never shared across parses.
type Runtime struct {
	g    *grammar.Grammar
	text *source.Text

	pos    int
	val    value.Value
	failed bool
	errpos int

	cache map[int]map[string]*memoEntry
	seeds map[int]map[string]*memoEntry

	blocked map[string]bool

	scopes []map[string]value.Value

	opState map[string]*operatorState

	matchers *compiledMatchers

	externs map[string]any

	// steps counts rule applications (every applyRule and applyOperator
	// call, memo hits included), enforced against Options.MaxSteps as the
	// "work counter" the resource model allows (§5).
	steps       int
	maxSteps    int
	maxRecDepth int
	recDepth    int
}

// HostError is the fatal, parse-aborting signal distinct from ordinary PEG
// backtracking failure (§4.1.9, §7): an unresolved identifier, a predicate
// that didn't evaluate to a bool, or an extern/throw() call.
type HostError struct {
	Message string
	Pos     int
}

func (e *HostError) Error() string { return e.Message }

// newRuntime constructs a fresh Runtime bound to text, ready to execute g.
func newRuntime(g *grammar.Grammar, text *source.Text, externs map[string]any, maxRecDepth, maxSteps int) *Runtime {
	return &Runtime{
		g:           g,
		text:        text,
		cache:       map[int]map[string]*memoEntry{},
		seeds:       map[int]map[string]*memoEntry{},
		blocked:     map[string]bool{},
		scopes:      nil,
		opState:     map[string]*operatorState{},
		matchers:    newCompiledMatchers(),
		externs:     externs,
		maxSteps:    maxSteps,
		maxRecDepth: maxRecDepth,
	}
}

// Pos implements builtins.Context: the current absolute code-point offset.
func (rt *Runtime) Pos() int { return rt.pos }

// Colno implements builtins.Context: the 1-based column of the current
// offset, with colno() at end-of-input resolving one past the last column
// of its line (§4.1.8).
func (rt *Runtime) Colno() int {
	return rt.text.PosAt(rt.pos).Col
}

// Call implements builtins.Context, dispatching to another built-in or
// extern by name (used by map/map_items).
func (rt *Runtime) Call(name string, args []value.Value) (value.Value, error) {
	return rt.callFunction(name, args)
}

func (rt *Runtime) pushScope() {
	rt.scopes = append(rt.scopes, map[string]value.Value{})
}

func (rt *Runtime) popScope() {
	rt.scopes = rt.scopes[:len(rt.scopes)-1]
}

// bind assigns name to v in the innermost scope frame.
func (rt *Runtime) bind(name string, v value.Value) {
	if len(rt.scopes) == 0 {
		rt.pushScope()
	}
	rt.scopes[len(rt.scopes)-1][name] = v
}

// lookup resolves name against the scope stack innermost-first, per
// §4.1.8's "innermost scope, outer scopes" resolution order.
func (rt *Runtime) lookup(name string) (value.Value, bool) {
	for i := len(rt.scopes) - 1; i >= 0; i-- {
		if v, ok := rt.scopes[i][name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// markFail records a local operator failure at the current position,
// keeping errpos monotone (§4.1.1, §4.1.9).
func (rt *Runtime) markFail() {
	rt.failed = true
	rt.val = value.NewNull()
	if rt.pos > rt.errpos {
		rt.errpos = rt.pos
	}
}

// markSuccess records a local operator success.
func (rt *Runtime) markSuccess(v value.Value) {
	rt.failed = false
	rt.val = v
}

func (rt *Runtime) memoFor(tbl map[int]map[string]*memoEntry, pos int, name string) *memoEntry {
	byName, ok := tbl[pos]
	if !ok {
		byName = map[string]*memoEntry{}
		tbl[pos] = byName
	}
	e, ok := byName[name]
	if !ok {
		e = &memoEntry{}
		byName[name] = e
	}
	return e
}

func hostErrorf(rt *Runtime, format string, args ...any) error {
	return &HostError{Message: fmt.Sprintf(format, args...), Pos: rt.pos}
}
