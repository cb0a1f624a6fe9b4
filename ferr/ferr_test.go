package ferr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/floyd/source"
)

func Test_GrammarError_Error(t *testing.T) {
	e := NewGrammarError("unresolved rule reference", 3, 5, "a <- b", "g.peg")
	assert.Equal(t, "g.peg:3 unresolved rule reference at column 5", e.Error())
	assert.Equal(t, 3, e.Line())
	assert.Equal(t, 5, e.Position())

	noPos := NewGrammarError("top level error", 0, 0, "", "")
	assert.Equal(t, "top level error", noPos.Error())
}

func Test_GrammarError_FullMessage_hasCursor(t *testing.T) {
	e := NewGrammarError("bad token", 1, 3, "a <- b", "g.peg")
	full := e.FullMessage()
	assert.Contains(t, full, "a <- b")
	assert.Contains(t, full, "^")
	assert.Contains(t, full, "bad token")
}

func Test_NewGrammarErrorAt_usesSourcePositionAndPath(t *testing.T) {
	text := source.New("first\nsecond", "g.peg")
	e := NewGrammarErrorAt("oops", text, 6)
	assert.Equal(t, 2, e.Line())
	assert.Equal(t, 1, e.Position())
	assert.Equal(t, "g.peg:2 oops at column 1", e.Error())
	assert.Equal(t, "second", e.FullMessage()[:6])
}

func Test_ParseError_Error_and_Furthest(t *testing.T) {
	e := NewParseError(`character "x"`, 2, 4, "xyz", "g.peg", 10)
	assert.Equal(t, `g.peg:2 Unexpected character "x" at column 4`, e.Error())
	assert.Equal(t, 10, e.Furthest())
}

func Test_ParseError_noPositionOmitsLocation(t *testing.T) {
	e := NewParseError("end of input", 0, 0, "", "", 0)
	assert.Equal(t, "Unexpected end of input", e.Error())
}

func Test_NewParseErrorAt_formatsPathLineColumn(t *testing.T) {
	// Mirrors spec.md's literal S6 scenario: `g = 'ab' | 'ac'` on input "ad"
	// fails at the second character, column 2.
	text := source.New("ad", "g")
	e := NewParseErrorAt(`character "d"`, text, 1, 1)
	assert.Equal(t, `g:1 Unexpected character "d" at column 2`, e.Error())
}

func Test_HostError_unwrapsCause(t *testing.T) {
	cause := errors.New("division by zero")
	e := NewHostError("builtin failed", 1, 1, "1 / 0", "g", cause)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "g:1 builtin failed at column 1", e.Error())
}

func Test_HostError_noPositionOmitsLocation(t *testing.T) {
	e := NewHostError("generic failure", 0, 0, "", "", nil)
	assert.Equal(t, "generic failure", e.Error())
	assert.Nil(t, e.Unwrap())
}

func Test_NewHostErrorAt_usesSourcePath(t *testing.T) {
	text := source.New("1 / 0", "g")
	e := NewHostErrorAt("division by zero", text, 0, nil)
	assert.Equal(t, "g:1 division by zero at column 1", e.Error())
}
