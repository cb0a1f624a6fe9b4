package interp

import (
	"github.com/dekarrin/floyd/grammar"
	"github.com/dekarrin/floyd/value"
)

// fillerRuleName mirrors the synthetic rule name analyzer/pass6_filler.go
// installs; the two packages don't share the constant directly (it is
// unexported there) but they agree on the name by construction, since pass6
// is the only place that rule gets created.
const fillerRuleName = "$filler"

// applyOperator runs the precedence-climbing algorithm of §4.1.6 for a rule
// rewritten into operator form by analysis. The seed-table mechanics are
// shared with left recursion (§4.1.5): a climb in progress at a given start
// offset registers a failure seed, so a recursive use of the rule at the
// same offset fails rather than re-descending; the seed is not grown while
// the climb runs.
//
// There is no action on an individual operator alternative once analysis
// has collapsed them into a precedence table (the grammar surface has no
// room left to attach one), so each accepted operator application produces
// a 3-element list `[left, "<op>", right]`: a lossless, uninterpreted
// record of what matched. A grammar wanting a computed value reduces that
// list itself in a surrounding action.
func (rt *Runtime) applyOperator(name string) error {
	rt.steps++
	if rt.maxSteps > 0 && rt.steps > rt.maxSteps {
		return hostErrorf(rt, "exceeded maximum step count (%d)", rt.maxSteps)
	}

	pos0 := rt.pos
	if seed := rt.memoFor(rt.seeds, pos0, name); seed.present {
		rt.pos = seed.newPos
		rt.failed = seed.failed
		rt.val = seed.val
		return nil
	}

	seed := rt.memoFor(rt.seeds, pos0, name)
	seed.present = true
	seed.failed = true
	seed.val = value.NewNull()
	seed.newPos = pos0

	st := rt.opState[name]
	if st == nil {
		st = &operatorState{}
		rt.opState[name] = st
	}
	st.currentDepth++

	table := rt.g.Operators[name]
	if err := rt.climb(name, table, len(table.Classes)); err != nil {
		st.currentDepth--
		return err
	}
	if !rt.failed && rt.pos > seed.newPos {
		seed.failed = false
		seed.val = rt.val
		seed.newPos = rt.pos
	}

	st.currentDepth--

	rt.failed = seed.failed
	rt.val = seed.val
	rt.pos = seed.newPos
	delete(rt.seeds[pos0], name)
	return nil
}

// climb parses one operand followed by a left-to-right chain of operators
// whose precedence class is tight enough to be admitted under maxLevel
// (classes are ordered tightest-binding first, at index 0). After binding a
// left-associative operator, the right-hand operand's climb is restricted
// to strictly tighter classes (maxLevel decreases); a right-associative
// operator allows the same class again, producing right-leaning chains.
func (rt *Runtime) climb(name string, table *grammar.OperatorTable, maxLevel int) error {
	if err := rt.applyRule(table.OperandRule); err != nil {
		return err
	}
	if rt.failed {
		return nil
	}
	left := rt.val

	for {
		matched := false
		for _, class := range table.Classes {
			if class.Level > maxLevel {
				continue
			}
			for _, op := range class.Ops {
				saved := rt.pos
				ok, err := rt.matchOperatorToken(name, op.Literal)
				if err != nil {
					return err
				}
				if !ok {
					rt.pos = saved
					continue
				}
				nextMax := class.Level - 1
				if op.RAssoc {
					nextMax = class.Level
				}
				if err := rt.climb(name, table, nextMax); err != nil {
					return err
				}
				if rt.failed {
					rt.pos = saved
					continue
				}
				left = value.NewList([]value.Value{left, value.NewStr(op.Literal), rt.val})
				matched = true
				break
			}
			if matched {
				break
			}
		}
		if !matched {
			break
		}
	}

	rt.markSuccess(left)
	return nil
}

// matchOperatorToken matches an operator literal at the current position,
// first running the filler rule when the owning rule isn't a token (the
// same treatment every other literal in a non-token rule receives, per
// §4.1.7 — operator literals are declared via %prec/%assoc rather than as
// ordinary `lit` nodes, so filler insertion can't reach them structurally
// and the climber applies it manually instead).
func (rt *Runtime) matchOperatorToken(ruleName, literal string) (bool, error) {
	if rt.g.HasFiller && !rt.g.IsToken(ruleName) {
		if err := rt.applyRule(fillerRuleName); err != nil {
			return false, err
		}
	}
	if !rt.text.HasPrefix(rt.pos, literal) {
		return false, nil
	}
	rt.pos += len([]rune(literal))
	return true, nil
}
