// Package ferr defines the three error families raised while compiling a
// grammar and while running it against input text: GrammarError (malformed
// or inconsistent grammar source), ParseError (input text did not match),
// and HostError (a host expression or builtin function raised during
// evaluation). All three share the same line/column/cursor rendering
// convention as the teacher's tunascript.SyntaxError.
package ferr

import (
	"fmt"

	"github.com/dekarrin/floyd/source"
)

// GrammarError reports a problem discovered while parsing or analyzing
// grammar source: syntax errors, undefined identifiers, duplicate rules,
// statically certain type mismatches, and the like.
type GrammarError struct {
	sourceLine string
	path       string
	line       int
	pos        int
	message    string
}

// NewGrammarError constructs a GrammarError at the given 1-indexed line/pos
// with the offending source line for cursor rendering.
func NewGrammarError(msg string, line, pos int, sourceLine, path string) *GrammarError {
	return &GrammarError{message: msg, line: line, pos: pos, sourceLine: sourceLine, path: path}
}

// Error renders §6.2's `"<path>:<line> <message> at column <col>"` format.
// When no location is known (line == 0) it falls back to the bare message.
func (e *GrammarError) Error() string {
	if e.line == 0 {
		return e.message
	}
	return fmt.Sprintf("%s:%d %s at column %d", e.path, e.line, e.message, e.pos)
}

// NewGrammarErrorAt builds a GrammarError located at off within t.
func NewGrammarErrorAt(msg string, t *source.Text, off int) *GrammarError {
	p := t.PosAt(off)
	return NewGrammarError(msg, p.Line, p.Col, t.LineText(p.Line), t.Path())
}

func (e *GrammarError) Line() int          { return e.line }
func (e *GrammarError) Position() int      { return e.pos }
func (e *GrammarError) Source() string     { return e.path }
func (e *GrammarError) FullMessage() string { return withCursor(e.Error(), e.sourceLine, e.pos) }

// ParseError reports that input text could not be matched by a compiled
// grammar: the starting rule failed to match. A match that stops before the
// end of the input is not an error; a grammar requires full consumption by
// ending its starting rule with `end`.
type ParseError struct {
	sourceLine string
	path       string
	line       int
	pos        int
	thing      string
	furthest   int
}

// NewParseError constructs a ParseError. thing names what was found at pos
// (e.g. `character "d"` or `end of input`), rendered into §6.2's "Unexpected
// <thing>" wording by Error(). furthest is the deepest absolute offset any
// alternative reached before failing, used by callers that want to report
// the "furthest failure position" heuristic in addition to the final
// reported position.
func NewParseError(thing string, line, pos int, sourceLine, path string, furthest int) *ParseError {
	return &ParseError{thing: thing, line: line, pos: pos, sourceLine: sourceLine, path: path, furthest: furthest}
}

// Error renders the exact `"<path>:<line> Unexpected <thing> at column
// <col>"` format §6.2 requires for Result.err.
func (e *ParseError) Error() string {
	if e.line == 0 {
		return fmt.Sprintf("Unexpected %s", e.thing)
	}
	return fmt.Sprintf("%s:%d Unexpected %s at column %d", e.path, e.line, e.thing, e.pos)
}

// NewParseErrorAt builds a ParseError located at off within t, with
// furthestOff recorded as the deepest offset any alternative reached.
func NewParseErrorAt(thing string, t *source.Text, off, furthestOff int) *ParseError {
	p := t.PosAt(off)
	return NewParseError(thing, p.Line, p.Col, t.LineText(p.Line), t.Path(), furthestOff)
}

func (e *ParseError) Line() int          { return e.line }
func (e *ParseError) Position() int      { return e.pos }
func (e *ParseError) Source() string     { return e.path }
func (e *ParseError) Furthest() int      { return e.furthest }
func (e *ParseError) FullMessage() string { return withCursor(e.Error(), e.sourceLine, e.pos) }

// HostError reports a failure raised from within a host expression: a
// builtin or extern function call that errored, an explicit throw(), or a
// type mismatch the evaluator could not coerce around.
type HostError struct {
	sourceLine string
	path       string
	line       int
	pos        int
	message    string
	cause      error
}

// NewHostError constructs a HostError, optionally wrapping an underlying Go
// error raised by a builtin or extern implementation.
func NewHostError(msg string, line, pos int, sourceLine, path string, cause error) *HostError {
	return &HostError{message: msg, line: line, pos: pos, sourceLine: sourceLine, path: path, cause: cause}
}

func (e *HostError) Error() string {
	if e.line == 0 {
		return e.message
	}
	return fmt.Sprintf("%s:%d %s at column %d", e.path, e.line, e.message, e.pos)
}

// NewHostErrorAt builds a HostError located at off within t, wrapping cause.
func NewHostErrorAt(msg string, t *source.Text, off int, cause error) *HostError {
	p := t.PosAt(off)
	return NewHostError(msg, p.Line, p.Col, t.LineText(p.Line), t.Path(), cause)
}

func (e *HostError) Unwrap() error       { return e.cause }
func (e *HostError) Line() int           { return e.line }
func (e *HostError) Position() int       { return e.pos }
func (e *HostError) FullMessage() string { return withCursor(e.Error(), e.sourceLine, e.pos) }

func withCursor(errMsg, sourceLine string, pos int) string {
	if sourceLine == "" {
		return errMsg
	}
	cursor := make([]byte, 0, pos)
	for i := 0; i < pos-1; i++ {
		cursor = append(cursor, ' ')
	}
	cursor = append(cursor, '^')
	return sourceLine + "\n" + string(cursor) + "\n" + errMsg
}
