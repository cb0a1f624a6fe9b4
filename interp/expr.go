package interp

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/builtins"
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/value"
)

// evalExpr evaluates a host-expression subtree against the current binding
// scope, implementing §4.1.8. A non-nil error is always a fatal host error.
func (rt *Runtime) evalExpr(n *ast.Node) (value.Value, error) {
	switch n.Kind {
	case ast.KindEConst:
		if n.V.Null {
			return value.NewNull(), nil
		}
		return value.NewBool(n.V.Bool), nil

	case ast.KindENum:
		if n.V.IsFloat {
			return value.NewFloat(n.V.Float), nil
		}
		return value.NewInt(n.V.Num), nil

	case ast.KindELit:
		return value.NewStr(n.V.Str), nil

	case ast.KindEIdent:
		return rt.evalIdent(n)

	case ast.KindEArr:
		items := make([]value.Value, len(n.Ch))
		for i, c := range n.Ch {
			v, err := rt.evalExpr(c)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.NewList(items), nil

	case ast.KindEParen:
		return rt.evalExpr(n.Ch[0])

	case ast.KindENot:
		v, err := rt.evalExpr(n.Ch[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.Not(v), nil

	case ast.KindEQual:
		l, err := rt.evalExpr(n.Ch[0])
		if err != nil {
			return value.Value{}, err
		}
		r, err := rt.evalExpr(n.Ch[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(l.Equal(r)), nil

	case ast.KindEPlus:
		return rt.evalArith(n, true)
	case ast.KindEMinus:
		return rt.evalArith(n, false)

	case ast.KindEGetItem, ast.KindEGetItemInfix:
		return rt.evalGetItem(n)

	case ast.KindECall, ast.KindECallInfix:
		return rt.evalCall(n)

	default:
		return value.Value{}, hostErrorf(rt, "cannot evaluate node kind %s as a host expression", n.Kind)
	}
}

// evalIdent resolves an identifier per §4.1.8's order: innermost scope
// (which subsumes "outer" scopes, since lookup walks the whole stack),
// then externs, then built-in functions. pos() and colno() resolve as
// ordinary zero-arg function calls rather than identifiers; bare use as a
// name (not a call) falls through to the function-call path with no args
// when the analyzer classified it as "function".
func (rt *Runtime) evalIdent(n *ast.Node) (value.Value, error) {
	name := n.V.Str

	if v, ok := rt.lookup(name); ok {
		return v, nil
	}

	if ext, ok := rt.g.Externs[name]; ok {
		return rt.resolveExtern(name, ext, nil)
	}

	if _, ok := builtins.Lookup(name); ok {
		return rt.callFunction(name, nil)
	}

	return value.Value{}, hostErrorf(rt, "unresolved identifier %q", name)
}

// evalArith implements e_plus/e_minus per §4.1.8 via the value package's
// shared Add/Sub, which already encode the numeric-promotion and
// string-concatenation rules.
func (rt *Runtime) evalArith(n *ast.Node, isPlus bool) (value.Value, error) {
	l, err := rt.evalExpr(n.Ch[0])
	if err != nil {
		return value.Value{}, err
	}
	r, err := rt.evalExpr(n.Ch[1])
	if err != nil {
		return value.Value{}, err
	}

	var result value.Value
	if isPlus {
		result, err = value.Add(l, r)
	} else {
		result, err = value.Sub(l, r)
	}
	if err != nil {
		return value.Value{}, hostErrorf(rt, "%s", err)
	}
	return result, nil
}

// evalGetItem implements e_getitem/e_getitem_infix: integer key indexes a
// list, string key indexes a dict.
func (rt *Runtime) evalGetItem(n *ast.Node) (value.Value, error) {
	base, err := rt.evalExpr(n.Ch[0])
	if err != nil {
		return value.Value{}, err
	}
	key, err := rt.evalExpr(n.Ch[1])
	if err != nil {
		return value.Value{}, err
	}

	switch base.Type() {
	case value.List:
		v, ok := base.Index(key.Int())
		if !ok {
			return value.Value{}, hostErrorf(rt, "list index %d out of range", key.Int())
		}
		return v, nil
	case value.Dict:
		v, ok := base.Get(key.String())
		if !ok {
			return value.Value{}, hostErrorf(rt, "dict has no key %q", key.String())
		}
		return v, nil
	default:
		return value.Value{}, hostErrorf(rt, "cannot index a %s", base.Type())
	}
}

// evalCall implements e_call/e_call_infix: a prefix call's Ch is the
// argument list; an infix (chained postfix) call's Ch[0] is the callee
// expression and the remaining children are arguments.
func (rt *Runtime) evalCall(n *ast.Node) (value.Value, error) {
	var name string
	var argNodes []*ast.Node

	if n.Kind == ast.KindECall {
		name = n.V.Str
		argNodes = n.Ch
	} else {
		if n.Ch[0].Kind != ast.KindEIdent {
			return value.Value{}, hostErrorf(rt, "call target must be a named function or extern")
		}
		name = n.Ch[0].V.Str
		argNodes = n.Ch[1:]
	}

	args := make([]value.Value, len(argNodes))
	for i, an := range argNodes {
		v, err := rt.evalExpr(an)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	return rt.callFunction(name, args)
}

// callFunction dispatches name to an extern override or the built-in
// catalog; externs take priority, matching "caller-provided externs may
// override any built-in by name" (§4.4).
func (rt *Runtime) callFunction(name string, args []value.Value) (value.Value, error) {
	if ext, ok := rt.g.Externs[name]; ok {
		return rt.resolveExtern(name, ext, args)
	}

	sig, ok := builtins.Lookup(name)
	if !ok {
		return value.Value{}, hostErrorf(rt, "unknown function %q", name)
	}
	if !sig.Accepts(len(args)) {
		return value.Value{}, hostErrorf(rt, "function %q given %d arguments", name, len(args))
	}
	return builtins.Call(rt, name, args)
}

func (rt *Runtime) resolveExtern(name string, ext grammar.Extern, args []value.Value) (value.Value, error) {
	bound, ok := rt.externs[name]
	switch ext.Kind {
	case grammar.ExternConst:
		if !ok {
			return nativeToValue(ext.Default), nil
		}
		v, ok := bound.(value.Value)
		if !ok {
			return value.Value{}, hostErrorf(rt, "extern %q is not bound to a value", name)
		}
		return v, nil

	case grammar.ExternFunc:
		if !ok {
			return value.Value{}, hostErrorf(rt, "extern function %q is not bound", name)
		}
		fn, ok := bound.(ExternFunc)
		if !ok {
			return value.Value{}, hostErrorf(rt, "extern %q is not bound to a func", name)
		}
		return fn(args)

	case grammar.ExternPFunc:
		if !ok {
			return value.Value{}, hostErrorf(rt, "extern pfunc %q is not bound", name)
		}
		fn, ok := bound.(ExternPFunc)
		if !ok {
			return value.Value{}, hostErrorf(rt, "extern %q is not bound to a pfunc", name)
		}
		return fn(rt, args)

	default:
		return value.Value{}, hostErrorf(rt, "extern %q has unknown kind", name)
	}
}

// nativeToValue converts a grammar.Extern's literal default (stashed as a
// plain Go value by the analyzer's pragma pass, since that pass cannot
// import package value without creating an import cycle) into the
// host-expression value domain.
func nativeToValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.NewNull()
	case bool:
		return value.NewBool(t)
	case int:
		return value.NewInt(t)
	case float64:
		return value.NewFloat(t)
	case string:
		return value.NewStr(t)
	default:
		return value.NewNull()
	}
}
