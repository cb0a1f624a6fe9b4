// Package builtins implements the closed set of ~60 pure functions callable
// from host expressions (spec §4.4, §6.3). Each function has a fixed arity
// contract; callers supplying the wrong arity get a host error from the
// evaluator before Call is ever invoked (see package interp).
package builtins

import (
	"sort"

	"github.com/dekarrin/floyd/value"
)

// Context is the minimal surface a builtin needs from the running parse in
// order to implement the handful of functions that are not pure (pos,
// colno) or that recurse back into function dispatch (map, map_items). It is
// satisfied by the interpreter's runtime state; declaring it here (rather
// than importing package interp) keeps builtins a leaf package.
type Context interface {
	// Pos returns the current absolute code-point offset in the input.
	Pos() int

	// Colno returns the 1-based column of the current offset.
	Colno() int

	// Call invokes another builtin or extern by name (used by map/map_items
	// to apply a caller-named function to each element).
	Call(name string, args []value.Value) (value.Value, error)
}

// Signature describes a builtin's calling contract for validation purposes;
// it intentionally does not carry the implementation (mirrors the teacher's
// separation of syntax.Function's catalog entry from tunascript's funcInfo
// wrapper around the Go closure).
type Signature struct {
	Name         string
	RequiredArgs int
	OptionalArgs int // -1 means unlimited (variadic)
}

// Variadic reports whether the signature accepts an unbounded argument tail.
func (s Signature) Variadic() bool {
	return s.OptionalArgs < 0
}

// Accepts reports whether n arguments satisfy the signature's arity.
func (s Signature) Accepts(n int) bool {
	if n < s.RequiredArgs {
		return false
	}
	if s.Variadic() {
		return true
	}
	return n <= s.RequiredArgs+s.OptionalArgs
}

// Impl is the Go implementation behind a catalog entry.
type Impl func(ctx Context, args []value.Value) (value.Value, error)

// entry bundles a catalog signature with its implementation.
type entry struct {
	Signature
	fn Impl
}

// Catalog is the full, closed built-in function library of spec §6.3. An
// implementation that drops ucategory/ulookup/uname must fail analysis when
// a grammar needs them (§6.3); Catalog always carries all three, so Floyd
// never needs that escape hatch.
var Catalog = map[string]entry{}

func register(name string, required, optional int, fn Impl) {
	Catalog[name] = entry{Signature: Signature{Name: name, RequiredArgs: required, OptionalArgs: optional}, fn: fn}
}

// Lookup returns the signature for name, and whether it exists.
func Lookup(name string) (Signature, bool) {
	e, ok := Catalog[name]
	return e.Signature, ok
}

// Names returns the sorted set of every built-in function name.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for n := range Catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call invokes the named builtin. It is the evaluator's job (package interp)
// to have already validated arity via Lookup/Accepts; Call itself trusts its
// caller, matching the teacher's Function.Call contract ("the Call function
// is literally not allowed to fail [on arity]").
func Call(ctx Context, name string, args []value.Value) (value.Value, error) {
	e, ok := Catalog[name]
	if !ok {
		return value.Value{}, &UnknownFunctionError{Name: name}
	}
	return e.fn(ctx, args)
}

// UnknownFunctionError is raised when analysis or evaluation references a
// builtin name not present in Catalog and not overridden by an extern.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return "unknown built-in function: " + e.Name
}
