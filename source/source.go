// Package source provides a character-indexed view of parser input with
// on-demand line/column computation from absolute code-point offsets.
package source

import "unicode/utf8"

// Pos is a 1-indexed line/column pair within some source text.
type Pos struct {
	Line int
	Col  int
}

// Text is a code-point-indexed view of a UTF-8 input. Offsets into Text are
// counted in code points, not bytes, so that interpreter operators never need
// to reason about multi-byte runes.
type Text struct {
	runes []rune
	path  string

	// lineStarts[i] is the code-point offset of the first rune of line i+1.
	lineStarts []int
}

// New builds a Text from s. path is an arbitrary label (typically a filename)
// used in formatted error messages; it may be empty.
func New(s string, path string) *Text {
	t := &Text{
		runes: []rune(s),
		path:  path,
	}
	t.lineStarts = []int{0}
	for i, r := range t.runes {
		if r == '\n' {
			t.lineStarts = append(t.lineStarts, i+1)
		}
	}
	return t
}

// Path returns the label this Text was constructed with.
func (t *Text) Path() string {
	return t.path
}

// Len returns the number of code points in the text.
func (t *Text) Len() int {
	return len(t.runes)
}

// At returns the code point at offset pos. Panics if pos is out of range;
// callers are expected to check pos < t.Len() first (this mirrors the PEG
// "any" operator's own bounds check).
func (t *Text) At(pos int) rune {
	return t.runes[pos]
}

// Slice returns the text between [start, end) as a string.
func (t *Text) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(t.runes) {
		end = len(t.runes)
	}
	if start >= end {
		return ""
	}
	return string(t.runes[start:end])
}

// HasPrefix reports whether the text starting at pos begins with s.
func (t *Text) HasPrefix(pos int, s string) bool {
	want := []rune(s)
	if pos+len(want) > len(t.runes) {
		return false
	}
	for i, r := range want {
		if t.runes[pos+i] != r {
			return false
		}
	}
	return true
}

// PosAt computes the 1-indexed line/column of the given code-point offset.
// An offset equal to Len() (end of input) is given the column one past the
// last rune of its line, per §4.1.8's "colno() at end-of-input" rule.
func (t *Text) PosAt(offset int) Pos {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.runes) {
		offset = len(t.runes)
	}

	line := binarySearchLine(t.lineStarts, offset)
	col := offset - t.lineStarts[line] + 1

	return Pos{Line: line + 1, Col: col}
}

// LineText returns the full text of the given 1-indexed line, without its
// trailing newline. Used by error formatting to render a cursor under the
// offending column.
func (t *Text) LineText(line int) string {
	if line < 1 || line > len(t.lineStarts) {
		return ""
	}
	start := t.lineStarts[line-1]
	end := len(t.runes)
	if line < len(t.lineStarts) {
		end = t.lineStarts[line] - 1 // exclude the newline itself
	}
	if end < start {
		end = start
	}
	return string(t.runes[start:end])
}

// binarySearchLine returns the greatest index i such that lineStarts[i] <= offset.
func binarySearchLine(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// RuneLen returns the number of code points represented by s, which is useful
// for callers that only have byte offsets (e.g. from a regexp match against a
// decoded string) and need to convert to a code-point count.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
