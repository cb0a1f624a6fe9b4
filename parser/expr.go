// Package parser turns grammar source text into the uniform AST (spec
// §4.2). It is split into two cooperating parts: exprParser, a Pratt
// (nud/led) parser over lexer.Token for the embedded host-expression
// language, and the grammar-structure parser in grammar.go, which scans
// grammar syntax directly off a source.Text cursor and calls into
// exprParser wherever an action/predicate/literal-from-expression block is
// expected.
package parser

import (
	"fmt"

	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/lexer"
	"github.com/dekarrin/floyd/source"
)

// left-binding power table, highest binds tightest. Comparison (==) binds
// looser than the additive operators so that `$1 + 1 == $2` parses as
// `($1 + 1) == $2`.
var lbp = map[lexer.Class]int{
	lexer.TEq:       10,
	lexer.TPlus:     20,
	lexer.TMinus:    20,
	lexer.TLParen:   30,
	lexer.TLBracket: 30,
}

// exprParser drives a Pratt parse of one host expression starting at a
// given offset into text. It reads tokens lazily from a lexer.Lexer so
// callers can bound the expression by whatever delimiter the surrounding
// grammar syntax uses (`}`, trailing newline, etc.) simply by stopping
// consumption once the Pratt loop runs out of bindable tokens; the grammar
// parser is still responsible for checking that the expected closing
// delimiter follows.
type exprParser struct {
	lx   *lexer.Lexer
	text *source.Text
	cur  lexer.Token
}

func newExprParser(text *source.Text, pos int) (*exprParser, error) {
	ep := &exprParser{lx: lexer.New(text, pos), text: text}
	return ep, ep.advance()
}

func (ep *exprParser) advance() error {
	t, err := ep.lx.Next()
	if err != nil {
		return err
	}
	// A TError lookahead (a rune such as `|` or `}` that cannot continue an
	// expression) binds nothing, so it ends the expression; it is reported
	// only if nud has to consume it.
	ep.cur = t
	return nil
}

func (ep *exprParser) errAt(off int, msg string) error {
	return grammarErrorAt(ep.text, off, msg)
}

// pos returns the offset of the unconsumed lookahead token, for callers that
// need to resume structural scanning immediately after the expression.
func (ep *exprParser) pos() int {
	return ep.cur.Start
}

// parseExpression parses a full host expression with the given minimum
// right-binding power (0 for a top-level expression).
func (ep *exprParser) parseExpression(rbp int) (*ast.Node, error) {
	t := ep.cur
	if err := ep.advance(); err != nil {
		return nil, err
	}

	left, err := ep.nud(t)
	if err != nil {
		return nil, err
	}

	for rbp < lbp[ep.cur.Class] {
		t = ep.cur
		if err := ep.advance(); err != nil {
			return nil, err
		}
		left, err = ep.led(t, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (ep *exprParser) nud(t lexer.Token) (*ast.Node, error) {
	switch t.Class {
	case lexer.TNum:
		n := ast.New(ast.KindENum)
		n.V.Num = t.Num
		n.Span = ast.Span{Start: t.Start, End: t.End}
		return n, nil
	case lexer.TFloat:
		n := ast.New(ast.KindENum)
		n.V.IsFloat = true
		n.V.Float = t.Float
		n.Span = ast.Span{Start: t.Start, End: t.End}
		return n, nil
	case lexer.TStr:
		n := ast.New(ast.KindELit)
		n.V.Str = t.Text
		n.Span = ast.Span{Start: t.Start, End: t.End}
		return n, nil
	case lexer.TLabelRef:
		n := ast.New(ast.KindEIdent)
		n.V.Str = "$" + t.Text
		n.Span = ast.Span{Start: t.Start, End: t.End}
		return n, nil
	case lexer.TBang:
		operand, err := ep.parseExpression(40)
		if err != nil {
			return nil, err
		}
		n := ast.New(ast.KindENot, operand)
		n.Span = ast.Span{Start: t.Start, End: operand.Span.End}
		return n, nil
	case lexer.TLParen:
		inner, err := ep.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if ep.cur.Class != lexer.TRParen {
			return nil, ep.errAt(ep.cur.Start, fmt.Sprintf("expected ')', found %s", ep.cur.Class))
		}
		end := ep.cur.End
		if err := ep.advance(); err != nil {
			return nil, err
		}
		n := ast.New(ast.KindEParen, inner)
		n.Span = ast.Span{Start: t.Start, End: end}
		return n, nil
	case lexer.TLBracket:
		var elems []*ast.Node
		for ep.cur.Class != lexer.TRBracket {
			e, err := ep.parseExpression(0)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if ep.cur.Class == lexer.TComma {
				if err := ep.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if ep.cur.Class != lexer.TRBracket {
			return nil, ep.errAt(ep.cur.Start, fmt.Sprintf("expected ']', found %s", ep.cur.Class))
		}
		end := ep.cur.End
		if err := ep.advance(); err != nil {
			return nil, err
		}
		n := ast.New(ast.KindEArr, elems...)
		n.Span = ast.Span{Start: t.Start, End: end}
		return n, nil
	case lexer.TIdent:
		return ep.nudIdent(t)
	case lexer.TError:
		return nil, ep.errAt(t.Start, t.Text)
	default:
		return nil, ep.errAt(t.Start, fmt.Sprintf("unexpected %s at the start of an expression", t.Class))
	}
}

// nudIdent handles a bare identifier, and the two prefix-position
// postfix forms that can follow it directly: ident(args) (e_call) and
// ident[idx] (e_getitem).
func (ep *exprParser) nudIdent(t lexer.Token) (*ast.Node, error) {
	switch {
	case t.Text == "null":
		n := ast.New(ast.KindEConst)
		n.V.Null = true
		n.Span = ast.Span{Start: t.Start, End: t.End}
		return n, nil
	case t.Text == "true" || t.Text == "false":
		n := ast.New(ast.KindEConst)
		n.V.Bool = t.Text == "true"
		n.Span = ast.Span{Start: t.Start, End: t.End}
		return n, nil
	}

	if ep.cur.Class == lexer.TLParen {
		if err := ep.advance(); err != nil {
			return nil, err
		}
		args, err := ep.parseArgs()
		if err != nil {
			return nil, err
		}
		end := ep.cur.End
		if err := ep.advance(); err != nil {
			return nil, err
		}
		n := ast.New(ast.KindECall, args...)
		n.V.Str = t.Text
		n.Span = ast.Span{Start: t.Start, End: end}
		return n, nil
	}

	if ep.cur.Class == lexer.TLBracket {
		if err := ep.advance(); err != nil {
			return nil, err
		}
		idx, err := ep.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if ep.cur.Class != lexer.TRBracket {
			return nil, ep.errAt(ep.cur.Start, fmt.Sprintf("expected ']', found %s", ep.cur.Class))
		}
		end := ep.cur.End
		if err := ep.advance(); err != nil {
			return nil, err
		}
		base := ast.New(ast.KindEIdent)
		base.V.Str = t.Text
		base.Span = ast.Span{Start: t.Start, End: t.End}
		n := ast.New(ast.KindEGetItem, base, idx)
		n.Span = ast.Span{Start: t.Start, End: end}
		return n, nil
	}

	n := ast.New(ast.KindEIdent)
	n.V.Str = t.Text
	n.Span = ast.Span{Start: t.Start, End: t.End}
	return n, nil
}

func (ep *exprParser) parseArgs() ([]*ast.Node, error) {
	var args []*ast.Node
	for ep.cur.Class != lexer.TRParen {
		a, err := ep.parseExpression(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if ep.cur.Class == lexer.TComma {
			if err := ep.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if ep.cur.Class != lexer.TRParen {
		return nil, ep.errAt(ep.cur.Start, fmt.Sprintf("expected ')', found %s", ep.cur.Class))
	}
	return args, nil
}

// led continues a parse after a left operand, dispatching on the operator
// token just consumed.
func (ep *exprParser) led(t lexer.Token, left *ast.Node) (*ast.Node, error) {
	switch t.Class {
	case lexer.TPlus:
		right, err := ep.parseExpression(lbp[lexer.TPlus])
		if err != nil {
			return nil, err
		}
		n := ast.New(ast.KindEPlus, left, right)
		n.Span = ast.Span{Start: left.Span.Start, End: right.Span.End}
		return n, nil
	case lexer.TMinus:
		right, err := ep.parseExpression(lbp[lexer.TMinus])
		if err != nil {
			return nil, err
		}
		n := ast.New(ast.KindEMinus, left, right)
		n.Span = ast.Span{Start: left.Span.Start, End: right.Span.End}
		return n, nil
	case lexer.TEq:
		right, err := ep.parseExpression(lbp[lexer.TEq])
		if err != nil {
			return nil, err
		}
		n := ast.New(ast.KindEQual, left, right)
		n.Span = ast.Span{Start: left.Span.Start, End: right.Span.End}
		return n, nil
	case lexer.TLParen:
		args, err := ep.parseArgs()
		if err != nil {
			return nil, err
		}
		end := ep.cur.End
		if err := ep.advance(); err != nil {
			return nil, err
		}
		children := append([]*ast.Node{left}, args...)
		n := ast.New(ast.KindECallInfix, children...)
		n.Span = ast.Span{Start: left.Span.Start, End: end}
		return n, nil
	case lexer.TLBracket:
		idx, err := ep.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if ep.cur.Class != lexer.TRBracket {
			return nil, ep.errAt(ep.cur.Start, fmt.Sprintf("expected ']', found %s", ep.cur.Class))
		}
		end := ep.cur.End
		if err := ep.advance(); err != nil {
			return nil, err
		}
		n := ast.New(ast.KindEGetItemInfix, left, idx)
		n.Span = ast.Span{Start: left.Span.Start, End: end}
		return n, nil
	default:
		return nil, ep.errAt(t.Start, fmt.Sprintf("%s cannot follow an expression", t.Class))
	}
}
