package interp

import (
	"unicode"

	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/value"
)

// exec runs node n against rt starting at rt.pos, implementing the operator
// contract of §4.1.1: on success it sets rt.val, advances rt.pos, and
// returns nil; on local failure it sets rt.failed, updates rt.errpos, and
// returns nil (the caller inspects rt.failed); a non-nil error is always a
// fatal host error that aborts the parse immediately (§4.1.9).
func (rt *Runtime) exec(n *ast.Node) error {
	switch n.Kind {

	// Primitive matchers (§4.1.2)
	case ast.KindAny:
		return rt.execAny()
	case ast.KindEnd:
		return rt.execEnd()
	case ast.KindLit:
		return rt.execLit(n.V.Str)
	case ast.KindRange:
		return rt.execRange(rune(n.V.Num), rune(n.V.Num2))
	case ast.KindSet:
		return rt.execSet(n)
	case ast.KindRegexp:
		return rt.execRegexp(n)
	case ast.KindUnicat:
		return rt.execUnicat(n)

	// Composite matchers (§4.1.3)
	case ast.KindSeq:
		return rt.execSeq(n)
	case ast.KindChoice:
		return rt.execChoice(n)
	case ast.KindOpt:
		return rt.execOpt(n)
	case ast.KindStar:
		return rt.execStar(n)
	case ast.KindPlus:
		return rt.execPlus(n)
	case ast.KindCount:
		return rt.execCount(n)
	case ast.KindNot:
		return rt.execNot(n)
	case ast.KindNotOne:
		return rt.execNotOne(n)
	case ast.KindEndsIn:
		return rt.execEndsIn(n)
	case ast.KindRun:
		return rt.execRun(n)
	case ast.KindEquals:
		return rt.execEquals(n)
	case ast.KindLabel:
		return rt.execLabel(n)
	case ast.KindScope:
		return rt.execScope(n)
	case ast.KindAction:
		return rt.execAction(n)
	case ast.KindPred:
		return rt.execPred(n)
	case ast.KindEmpty:
		rt.markSuccess(value.NewNull())
		return nil
	case ast.KindParen, ast.KindRuleWrapper:
		return rt.exec(n.Ch[0])
	case ast.KindApply:
		return rt.applyRule(n.V.Str)

	default:
		return hostErrorf(rt, "no executable semantics for node kind %s", n.Kind)
	}
}

func (rt *Runtime) execAny() error {
	if rt.pos >= rt.text.Len() {
		rt.markFail()
		return nil
	}
	r := rt.text.At(rt.pos)
	rt.pos++
	rt.markSuccess(value.NewStr(string(r)))
	return nil
}

func (rt *Runtime) execEnd() error {
	if rt.pos == rt.text.Len() {
		rt.markSuccess(value.NewNull())
		return nil
	}
	rt.markFail()
	return nil
}

func (rt *Runtime) execLit(s string) error {
	if !rt.text.HasPrefix(rt.pos, s) {
		// The failure is recorded at the first mismatching character.
		start := rt.pos
		for _, r := range s {
			if rt.pos >= rt.text.Len() || rt.text.At(rt.pos) != r {
				break
			}
			rt.pos++
		}
		rt.markFail()
		rt.pos = start
		return nil
	}
	rt.pos += len([]rune(s))
	rt.markSuccess(value.NewStr(s))
	return nil
}

func (rt *Runtime) execRange(lo, hi rune) error {
	if rt.pos >= rt.text.Len() {
		rt.markFail()
		return nil
	}
	r := rt.text.At(rt.pos)
	if r < lo || r > hi {
		rt.markFail()
		return nil
	}
	rt.pos++
	rt.markSuccess(value.NewStr(string(r)))
	return nil
}

func (rt *Runtime) execSet(n *ast.Node) error {
	if rt.pos >= rt.text.Len() {
		rt.markFail()
		return nil
	}
	r := rt.text.At(rt.pos)
	if !rt.matchers.set(n).matches(r) {
		rt.markFail()
		return nil
	}
	rt.pos++
	rt.markSuccess(value.NewStr(string(r)))
	return nil
}

func (rt *Runtime) execRegexp(n *ast.Node) error {
	re, err := rt.matchers.regexp(n)
	if err != nil {
		return err
	}
	remaining := rt.text.Slice(rt.pos, rt.text.Len())
	loc := re.FindStringIndex(remaining)
	if loc == nil {
		rt.markFail()
		return nil
	}
	matched := remaining[:loc[1]]
	rt.pos += len([]rune(matched))
	rt.markSuccess(value.NewStr(matched))
	return nil
}

func (rt *Runtime) execUnicat(n *ast.Node) error {
	if rt.pos >= rt.text.Len() {
		rt.markFail()
		return nil
	}
	rtab, ok := rt.matchers.unicat(n)
	if !ok {
		return hostErrorf(rt, "unknown unicode category %q", n.V.Str)
	}
	r := rt.text.At(rt.pos)
	if !unicode.Is(rtab, r) {
		rt.markFail()
		return nil
	}
	rt.pos++
	rt.markSuccess(value.NewStr(string(r)))
	return nil
}

// execSeq runs every child in order, failing immediately on the first
// child failure with no positional restore (the enclosing operator owns
// that); its own value is the value of the last child it ran, which is the
// action/pred/equals node when the sequence ends in one.
func (rt *Runtime) execSeq(n *ast.Node) error {
	var last value.Value
	for _, c := range n.Ch {
		if err := rt.exec(c); err != nil {
			return err
		}
		if rt.failed {
			return nil
		}
		last = rt.val
	}
	rt.markSuccess(last)
	return nil
}

func (rt *Runtime) execChoice(n *ast.Node) error {
	for _, c := range n.Ch {
		savedPos := rt.pos
		if err := rt.exec(c); err != nil {
			return err
		}
		if !rt.failed {
			return nil
		}
		rt.pos = savedPos
	}
	rt.markFail()
	return nil
}

func (rt *Runtime) execOpt(n *ast.Node) error {
	savedPos := rt.pos
	if err := rt.exec(n.Ch[0]); err != nil {
		return err
	}
	if rt.failed {
		rt.pos = savedPos
		rt.markSuccess(value.NewList(nil))
		return nil
	}
	rt.markSuccess(value.NewList([]value.Value{rt.val}))
	return nil
}

func (rt *Runtime) execStar(n *ast.Node) error {
	var items []value.Value
	for {
		before := rt.pos
		if err := rt.exec(n.Ch[0]); err != nil {
			return err
		}
		if rt.failed {
			rt.pos = before
			break
		}
		if rt.pos == before {
			break
		}
		items = append(items, rt.val)
	}
	rt.markSuccess(value.NewList(items))
	return nil
}

func (rt *Runtime) execPlus(n *ast.Node) error {
	if err := rt.exec(n.Ch[0]); err != nil {
		return err
	}
	if rt.failed {
		return nil
	}
	items := []value.Value{rt.val}
	for {
		before := rt.pos
		if err := rt.exec(n.Ch[0]); err != nil {
			return err
		}
		if rt.failed {
			rt.pos = before
			break
		}
		if rt.pos == before {
			break
		}
		items = append(items, rt.val)
	}
	rt.markSuccess(value.NewList(items))
	return nil
}

func (rt *Runtime) execCount(n *ast.Node) error {
	min := n.V.Num
	max := n.V.Num2
	if !n.V.HasNum2 {
		max = min
	}
	var items []value.Value
	for len(items) < max {
		before := rt.pos
		if err := rt.exec(n.Ch[0]); err != nil {
			return err
		}
		if rt.failed {
			rt.pos = before
			break
		}
		items = append(items, rt.val)
	}
	if len(items) < min {
		rt.markFail()
		return nil
	}
	rt.markSuccess(value.NewList(items))
	return nil
}

func (rt *Runtime) execNot(n *ast.Node) error {
	savedPos := rt.pos
	savedErrpos := rt.errpos
	if err := rt.exec(n.Ch[0]); err != nil {
		return err
	}
	rt.pos = savedPos
	if rt.failed {
		rt.errpos = savedErrpos
		rt.markSuccess(value.NewNull())
		return nil
	}
	rt.markFail()
	return nil
}

func (rt *Runtime) execNotOne(n *ast.Node) error {
	if err := rt.execNot(n); err != nil {
		return err
	}
	if rt.failed {
		return nil
	}
	return rt.execAny()
}

// execEndsIn scans forward one code point at a time until the child matches
// at the current position without being consumed (a lookahead), returning
// the skipped prefix as its value.
func (rt *Runtime) execEndsIn(n *ast.Node) error {
	start := rt.pos
	for {
		probe := rt.pos
		if err := rt.exec(n.Ch[0]); err != nil {
			return err
		}
		rt.pos = probe
		if !rt.failed {
			rt.markSuccess(value.NewStr(rt.text.Slice(start, rt.pos)))
			return nil
		}
		if rt.pos >= rt.text.Len() {
			rt.markFail()
			return nil
		}
		rt.pos++
	}
}

func (rt *Runtime) execRun(n *ast.Node) error {
	start := rt.pos
	if err := rt.exec(n.Ch[0]); err != nil {
		return err
	}
	if rt.failed {
		return nil
	}
	rt.markSuccess(value.NewStr(rt.text.Slice(start, rt.pos)))
	return nil
}

func (rt *Runtime) execEquals(n *ast.Node) error {
	v, err := rt.evalExpr(n.Ch[0])
	if err != nil {
		return err
	}
	return rt.execLit(v.String())
}

func (rt *Runtime) execLabel(n *ast.Node) error {
	if err := rt.exec(n.Ch[0]); err != nil {
		return err
	}
	if rt.failed {
		return nil
	}
	rt.bind(n.V.Str, rt.val)
	return nil
}

func (rt *Runtime) execScope(n *ast.Node) error {
	rt.pushScope()
	err := rt.exec(n.Ch[0])
	rt.popScope()
	return err
}

func (rt *Runtime) execAction(n *ast.Node) error {
	v, err := rt.evalExpr(n.Ch[0])
	if err != nil {
		return err
	}
	rt.markSuccess(v)
	return nil
}

func (rt *Runtime) execPred(n *ast.Node) error {
	v, err := rt.evalExpr(n.Ch[0])
	if err != nil {
		return err
	}
	if v.Type() != value.Bool {
		return hostErrorf(rt, "predicate did not evaluate to a bool (got %s)", v.Type())
	}
	if v.Bool() {
		rt.markSuccess(value.NewNull())
		return nil
	}
	rt.markFail()
	return nil
}
