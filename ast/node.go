// Package ast defines the uniform grammar AST node record used by every
// stage of the pipeline: the grammar parser produces it, the analyzer
// decorates it in place, and the interpreter walks it.
package ast

import (
	"fmt"
	"strings"

	"github.com/dekarrin/floyd/source"
	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rosed"
)

// Value holds the node's literal payload. Exactly one field is meaningful,
// selected by the owning Node's Kind (§3.1: "v is interpreted per kind").
type Value struct {
	Str      string // lit text, identifier name, regexp/set pattern, pragma name
	Num      int    // numeric literal int part, or count's min
	Num2     int    // range's upper bound, or count's max
	HasNum2  bool
	IsFloat  bool
	Float    float64
	Bool     bool // e.g. forced-string / quoted flag on a literal node
	Null     bool
}

// Node is the uniform AST record: {kind, v, ch, attrs}. Attrs is populated
// during analysis and is intentionally untyped (any) because distinct passes
// write distinct attribute shapes (see package analyzer for typed accessors).
type Node struct {
	Kind  Kind
	V     Value
	Ch    []*Node
	Attrs map[string]any

	Span Span
}

// Span is the source range a node was parsed from, used for error reporting
// and for round-tripping diagnostics.
type Span struct {
	Start, End int // code-point offsets into the grammar source
}

// New creates a Node of the given kind with the given children. Ch is never
// nil, matching the §3.1 invariant even when len(children) == 0.
func New(k Kind, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Kind: k, Ch: children, Attrs: map[string]any{}}
}

// Attr fetches an analysis attribute, returning (nil, false) if unset.
func (n *Node) Attr(name string) (any, bool) {
	if n.Attrs == nil {
		return nil, false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// SetAttr installs an analysis attribute, allocating the map on first use.
func (n *Node) SetAttr(name string, v any) {
	if n.Attrs == nil {
		n.Attrs = map[string]any{}
	}
	n.Attrs[name] = v
}

// BoolAttr is a convenience accessor for boolean-valued attributes, such as
// can_fail (§4.3 pass 8). Returns false if unset or not a bool.
func (n *Node) BoolAttr(name string) bool {
	v, ok := n.Attr(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Equal reports whether n and o are structurally identical: same Kind, same
// V, same children recursively. Attrs and Span are deliberately excluded,
// mirroring the teacher's ASTNode.Equal contract ("does not consider
// Source").
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	if n.V != o.V {
		return false
	}
	if len(n.Ch) != len(o.Ch) {
		return false
	}
	for i := range n.Ch {
		if !n.Ch[i].Equal(o.Ch[i]) {
			return false
		}
	}
	return true
}

// Dump returns a prettified, indented structural rendering of the tree
// suitable for line-by-line test comparisons, in the style of the teacher's
// ASTNode.String() family. Long literal text is wrapped via rosed the same
// way ExpTextNode.String() wraps text.
func (n *Node) Dump() string {
	return n.dump("", "")
}

func (n *Node) dump(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	sb.WriteString(n.headline())

	for i := range n.Ch {
		sb.WriteRune('\n')
		var nextFirst, nextCont string
		if i+1 < len(n.Ch) {
			nextFirst = contPrefix + "├─ "
			nextCont = contPrefix + "│  "
		} else {
			nextFirst = contPrefix + "└─ "
			nextCont = contPrefix + "   "
		}
		sb.WriteString(n.Ch[i].dump(nextFirst, nextCont))
	}

	return sb.String()
}

func (n *Node) headline() string {
	switch {
	case n.Kind == KindLit || n.Kind == KindELit:
		text := n.V.Str
		if len(text) > 60 {
			text = rosed.Edit(text).Wrap(60).String()
		}
		return fmt.Sprintf("[%s %q]", n.Kind, text)
	case n.Kind == KindEIdent || n.Kind == KindApply || n.Kind == KindPragma:
		return fmt.Sprintf("[%s %s]", n.Kind, n.V.Str)
	case n.Kind == KindENum:
		if n.V.IsFloat {
			return fmt.Sprintf("[%s %g]", n.Kind, n.V.Float)
		}
		return fmt.Sprintf("[%s %d]", n.Kind, n.V.Num)
	case n.Kind == KindRange:
		return fmt.Sprintf("[%s %d..%d]", n.Kind, n.V.Num, n.V.Num2)
	case n.Kind == KindCount:
		if n.V.HasNum2 {
			return fmt.Sprintf("[%s {%d,%d}]", n.Kind, n.V.Num, n.V.Num2)
		}
		return fmt.Sprintf("[%s {%d}]", n.Kind, n.V.Num)
	default:
		return fmt.Sprintf("[%s]", n.Kind)
	}
}

// AtOffset reports whether off lies within this node's span.
func (n *Node) AtOffset(off int) bool {
	return off >= n.Span.Start && off < n.Span.End
}

// PosIn returns the human-readable line/column of this node's start within t.
func (n *Node) PosIn(t *source.Text) source.Pos {
	return t.PosAt(n.Span.Start)
}

// MarshalBinary serializes the node (and its subtree) using rezi, so that an
// out-of-scope code-generation backend can consume an analyzed grammar
// without re-running the analyzer. Attrs are not encoded at all: they are a
// re-derivable analysis cache, not load-bearing wire data.
func (n *Node) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncBinary(int(n.Kind))...)
	data = append(data, rezi.EncBinary(n.V)...)
	data = append(data, rezi.EncBinary(n.Span.Start)...)
	data = append(data, rezi.EncBinary(n.Span.End)...)
	data = append(data, rezi.EncBinary(len(n.Ch))...)
	for _, c := range n.Ch {
		data = append(data, rezi.EncBinary(c)...)
	}
	return data, nil
}

// UnmarshalBinary is the inverse of MarshalBinary. Attrs start empty; callers
// that need decorated attributes must re-run the analyzer.
func (n *Node) UnmarshalBinary(data []byte) error {
	var kindVal int
	nRead, err := rezi.DecBinary(data, &kindVal)
	if err != nil {
		return err
	}
	data = data[nRead:]
	n.Kind = Kind(kindVal)

	nRead, err = rezi.DecBinary(data, &n.V)
	if err != nil {
		return err
	}
	data = data[nRead:]

	nRead, err = rezi.DecBinary(data, &n.Span.Start)
	if err != nil {
		return err
	}
	data = data[nRead:]

	nRead, err = rezi.DecBinary(data, &n.Span.End)
	if err != nil {
		return err
	}
	data = data[nRead:]

	var childCount int
	nRead, err = rezi.DecBinary(data, &childCount)
	if err != nil {
		return err
	}
	data = data[nRead:]

	n.Ch = make([]*Node, 0, childCount)
	for i := 0; i < childCount; i++ {
		child := &Node{}
		nRead, err = rezi.DecBinary(data, child)
		if err != nil {
			return err
		}
		data = data[nRead:]
		n.Ch = append(n.Ch, child)
	}

	n.Attrs = map[string]any{}
	return nil
}
