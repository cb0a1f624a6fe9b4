package interp

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/value"
)

// applyRule invokes ruleName at rt.pos, dispatching to plain memoized
// execution, the left-recursion fixed-point algorithm, or the operator
// precedence climber depending on how analysis classified the rule
// (§4.1.4, §4.1.5, §4.1.6). Every rule-body execution gets its own binding
// frame, pushed and popped here, so that outer-scope label lookups see
// exactly the rule invocations currently on the call stack.
func (rt *Runtime) applyRule(name string) error {
	rt.steps++
	if rt.maxSteps > 0 && rt.steps > rt.maxSteps {
		return hostErrorf(rt, "exceeded maximum step count (%d)", rt.maxSteps)
	}

	body, ok := rt.g.Rules[name]
	if !ok {
		return hostErrorf(rt, "apply of undefined rule %q", name)
	}

	switch body.Kind {
	case ast.KindLeftrec:
		return rt.applyLeftRec(name, body)
	case ast.KindOperator:
		return rt.applyOperator(name)
	}

	if e := rt.memoFor(rt.cache, rt.pos, name); e.present {
		rt.pos = e.newPos
		rt.failed = e.failed
		rt.val = e.val
		return nil
	}

	startPos := rt.pos
	rt.recDepth++
	if rt.maxRecDepth > 0 && rt.recDepth > rt.maxRecDepth {
		rt.recDepth--
		return hostErrorf(rt, "exceeded maximum recursion depth (%d)", rt.maxRecDepth)
	}
	if err := rt.runRuleBody(body); err != nil {
		rt.recDepth--
		return err
	}
	rt.recDepth--

	e := rt.memoFor(rt.cache, startPos, name)
	e.present = true
	e.failed = rt.failed
	e.val = rt.val
	e.newPos = rt.pos
	return nil
}

// runRuleBody pushes a fresh binding frame, executes body, and pops the
// frame, per-invocation scoping (see assignLabels's doc comment in analyzer/pass7_labels.go
// for why no explicit `scope` nodes are synthesized around rule bodies).
func (rt *Runtime) runRuleBody(body *ast.Node) error {
	rt.pushScope()
	err := rt.exec(body)
	rt.popScope()
	return err
}

// applyLeftRec runs the fixed-point seeding algorithm of §4.1.5.
func (rt *Runtime) applyLeftRec(name string, wrapper *ast.Node) error {
	pos0 := rt.pos

	if seed := rt.memoFor(rt.seeds, pos0, name); seed.present {
		rt.pos = seed.newPos
		rt.failed = seed.failed
		rt.val = seed.val
		return nil
	}

	if rt.blocked[name] {
		rt.pos = pos0
		rt.markFail()
		return nil
	}

	seed := rt.memoFor(rt.seeds, pos0, name)
	seed.present = true
	seed.failed = true
	seed.val = value.NewNull()
	seed.newPos = pos0

	leftAssoc := wrapper.V.Bool
	if leftAssoc {
		rt.blocked[name] = true
	}

	body := wrapper.Ch[0]
	for {
		rt.pos = pos0
		if err := rt.runRuleBody(body); err != nil {
			if leftAssoc {
				delete(rt.blocked, name)
			}
			delete(rt.seeds[pos0], name)
			return err
		}
		if !rt.failed && rt.pos > seed.newPos {
			seed.failed = false
			seed.val = rt.val
			seed.newPos = rt.pos
			continue
		}
		break
	}

	if leftAssoc {
		delete(rt.blocked, name)
	}

	rt.failed = seed.failed
	rt.val = seed.val
	rt.pos = seed.newPos
	delete(rt.seeds[pos0], name)
	return nil
}
