package interp

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/dekarrin/floyd/ast"
)

// compiledMatchers caches the lazily-built matcher for a `set`/`regexp`/
// `unicat` node, keyed by the node pointer. Each Runtime builds its own
// cache, so it lives for one parse only and matchers are recompiled per
// parse; storing it on the Runtime avoids a global.
type compiledMatchers struct {
	sets    map[*ast.Node]*charSet
	regexps map[*ast.Node]*regexp.Regexp
	unicats map[*ast.Node]*unicode.RangeTable
}

func newCompiledMatchers() *compiledMatchers {
	return &compiledMatchers{
		sets:    map[*ast.Node]*charSet{},
		regexps: map[*ast.Node]*regexp.Regexp{},
		unicats: map[*ast.Node]*unicode.RangeTable{},
	}
}

// charSet is a compiled `[...]` character class: a set of single runes plus
// a set of inclusive ranges, with an optional negation flag.
type charSet struct {
	negate bool
	runes  map[rune]bool
	ranges [][2]rune
}

func (cs *charSet) matches(r rune) bool {
	hit := cs.runes[r]
	if !hit {
		for _, rg := range cs.ranges {
			if r >= rg[0] && r <= rg[1] {
				hit = true
				break
			}
		}
	}
	if cs.negate {
		return !hit
	}
	return hit
}

// compileSet parses a `[abc]`/`[^a-z]` pattern body (sans brackets, as kept
// by the grammar parser) into a charSet.
func compileSet(pattern string) *charSet {
	cs := &charSet{runes: map[rune]bool{}}
	runes := []rune(pattern)
	i := 0
	if i < len(runes) && runes[i] == '^' {
		cs.negate = true
		i++
	}
	for i < len(runes) {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			i++
			r = unescapeSetRune(runes[i])
		}
		if i+2 < len(runes) && runes[i+1] == '-' && runes[i+2] != ']' {
			hi := runes[i+2]
			if runes[i+2] == '\\' && i+3 < len(runes) {
				hi = unescapeSetRune(runes[i+3])
				i++
			}
			cs.ranges = append(cs.ranges, [2]rune{r, hi})
			i += 3
			continue
		}
		cs.runes[r] = true
		i++
	}
	return cs
}

func unescapeSetRune(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}

func (cm *compiledMatchers) set(n *ast.Node) *charSet {
	if cs, ok := cm.sets[n]; ok {
		return cs
	}
	cs := compileSet(n.V.Str)
	cm.sets[n] = cs
	return cs
}

func (cm *compiledMatchers) regexp(n *ast.Node) (*regexp.Regexp, error) {
	if re, ok := cm.regexps[n]; ok {
		return re, nil
	}
	re, err := regexp.Compile("^(?:" + n.V.Str + ")")
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression /%s/: %w", n.V.Str, err)
	}
	cm.regexps[n] = re
	return re, nil
}

func (cm *compiledMatchers) unicat(n *ast.Node) (*unicode.RangeTable, bool) {
	if rt, ok := cm.unicats[n]; ok {
		return rt, true
	}
	rt, ok := unicode.Categories[n.V.Str]
	if !ok {
		rt, ok = unicode.Scripts[n.V.Str]
	}
	if !ok {
		return nil, false
	}
	cm.unicats[n] = rt
	return rt, true
}
