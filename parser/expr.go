/*
File    : parser/expr.go

The shunting-yard/precedence-climbing engine proper. parseExprTokens
consumes an entire token slice (one logical line's expression portion, or
a bracketed sub-list recovered by the cursor) and must exhaust it exactly;
leftover tokens are a parser error.
*/
package parser

import (
	"strconv"

	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
)

// precedence gives each binary operator its binding power. Higher binds
// tighter. All are left-associative except those in rightAssoc (`**`).
// Operators not present here (assignment, dot, unary) are handled
// outside this table.
var precedence = map[lexer.Kind]int{
	lexer.Or:     2,
	lexer.And:    3,
	lexer.Eq:     4,
	lexer.Ne:     4,
	lexer.KwIn:   4,
	lexer.Lt:     5,
	lexer.Le:     5,
	lexer.Gt:     5,
	lexer.Ge:     5,
	lexer.Plus:   6,
	lexer.Minus:  6,
	lexer.Star:   7,
	lexer.Slash:  7,
	lexer.DSlash: 7,
	lexer.Pow:    8,
}

var rightAssoc = map[lexer.Kind]bool{lexer.Pow: true}

type cursor struct {
	toks []lexer.Token
	pos  int
}

func (c *cursor) peek() lexer.Token {
	if c.pos >= len(c.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return c.toks[c.pos]
}

func (c *cursor) atEnd() bool { return c.pos >= len(c.toks) }

func (c *cursor) advance() lexer.Token {
	t := c.peek()
	c.pos++
	return t
}

func (c *cursor) last() lexer.Token {
	if c.pos == 0 {
		return lexer.Token{}
	}
	return c.toks[c.pos-1]
}

// parseExprTokens parses toks as a single expression and requires the
// whole slice to be consumed.
func parseExprTokens(toks []lexer.Token) (*Node, *diag.Error) {
	if len(toks) == 0 {
		return nil, diag.New(diag.Parser, diag.Position{}, "expected an expression, found end of line")
	}
	c := &cursor{toks: toks}
	n, err := parseBinary(c, 0)
	if err != nil {
		return nil, err
	}
	if !c.atEnd() {
		return nil, perr(c.peek(), "unexpected token %s following expression", c.peek().Kind)
	}
	return n, nil
}

func parseBinary(c *cursor, minPrec int) (*Node, *diag.Error) {
	left, err := parseUnary(c)
	if err != nil {
		return nil, err
	}
	for {
		opTok := c.peek()
		prec, ok := precedence[opTok.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		c.advance()
		nextMin := prec + 1
		if rightAssoc[opTok.Kind] {
			nextMin = prec
		}
		right, err := parseBinary(c, nextMin)
		if err != nil {
			return nil, err
		}
		left = NewBinOp(left, opTok.Kind, right, posOf(opTok))
	}
}

// parseUnary rewrites +, -, ! seen in operand position into the unary
// node kinds UPlus/UMinus/Not; this is the automaton's "expect_operand"
// state made implicit in which parse function is active.
func parseUnary(c *cursor) (*Node, *diag.Error) {
	t := c.peek()
	switch t.Kind {
	case lexer.Plus, lexer.Minus, lexer.Not:
		c.advance()
		op := t.Kind
		switch op {
		case lexer.Plus:
			op = lexer.UPlus
		case lexer.Minus:
			op = lexer.UMinus
		}
		operand, err := parseUnary(c)
		if err != nil {
			return nil, err
		}
		return NewUnaryOp(op, operand, posOf(t)), nil
	default:
		base, err := parsePrimary(c)
		if err != nil {
			return nil, err
		}
		return parsePostfix(c, base)
	}
}

// parsePostfix chains `.field`, `[index]` and `{args}` onto an already
// parsed operand, in source order, folding consecutive index brackets
// into a single Index node and eagerly resolving `.` so field access
// binds tighter than subscripting or application.
func parsePostfix(c *cursor, base *Node) (*Node, *diag.Error) {
	for {
		switch c.peek().Kind {
		case lexer.Dot:
			dotTok := c.advance()
			nameTok := c.advance()
			if nameTok.Kind != lexer.Ident {
				return nil, perr(nameTok, "member access requires an identifier after '.'")
			}
			if base.Kind == FieldAccess {
				base.Fields = append(base.Fields, nameTok.Lexeme)
			} else {
				base = NewFieldAccess(base, []string{nameTok.Lexeme}, posOf(dotTok))
			}
		case lexer.LBracket:
			bracketTok := c.peek()
			idx, err := parseBracketedOne(c)
			if err != nil {
				return nil, err
			}
			if base.Kind == Index {
				base.Indices = append(base.Indices, idx)
			} else {
				base = NewIndex(base, []*Node{idx}, posOf(bracketTok))
			}
		case lexer.LBrace:
			braceTok := c.peek()
			args, err := parseBracedArgs(c)
			if err != nil {
				return nil, err
			}
			base = NewCall(base, args, posOf(braceTok))
		default:
			return base, nil
		}
	}
}

func parsePrimary(c *cursor) (*Node, *diag.Error) {
	t := c.peek()
	switch t.Kind {
	case lexer.IntLit:
		c.advance()
		v, err := parseInt(t.Lexeme)
		if err != nil {
			return nil, perr(t, "invalid integer literal %q", t.Lexeme)
		}
		return NewIntLit(v, posOf(t)), nil
	case lexer.FloatLit:
		c.advance()
		v, err := parseFloat(t.Lexeme)
		if err != nil {
			return nil, perr(t, "invalid float literal %q", t.Lexeme)
		}
		return NewFloatLit(v, posOf(t)), nil
	case lexer.StringLit:
		c.advance()
		return NewStringLit(t.Lexeme, posOf(t)), nil
	case lexer.KwTrue:
		c.advance()
		return NewBoolLit(true, posOf(t)), nil
	case lexer.KwFalse:
		c.advance()
		return NewBoolLit(false, posOf(t)), nil
	case lexer.KwNone:
		c.advance()
		return NewNoneLit(posOf(t)), nil
	case lexer.Ident:
		c.advance()
		return NewIdentifier(t.Lexeme, posOf(t)), nil
	case lexer.LParen:
		c.advance()
		inner, err := parseBinary(c, 0)
		if err != nil {
			return nil, err
		}
		if c.peek().Kind != lexer.RParen {
			return nil, perr(c.peek(), "expected ')' to close grouped expression")
		}
		c.advance()
		return inner, nil
	case lexer.LBracket:
		return parseArrayLiteral(c)
	default:
		return nil, perr(t, "token %s cannot start an expression", t.Kind)
	}
}

// parseArrayLiteral handles `[` seen in operand position: a comma
// separated element list, re-entering the top of the precedence climb
// per element, closed by a matching `]`.
func parseArrayLiteral(c *cursor) (*Node, *diag.Error) {
	open := c.advance() // '['
	var elems []*Node
	if c.peek().Kind == lexer.RBracket {
		c.advance()
		return NewArrayLit(elems, posOf(open)), nil
	}
	for {
		e, err := parseBinary(c, 0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		switch c.peek().Kind {
		case lexer.Comma:
			c.advance()
			continue
		case lexer.RBracket:
			c.advance()
			return NewArrayLit(elems, posOf(open)), nil
		default:
			return nil, perr(c.peek(), "expected ',' or ']' in array literal")
		}
	}
}

// parseBracedArgs handles `{` seen after an operand: a call argument
// list with the same comma/depth discipline as an array literal, closed
// by `}`.
func parseBracedArgs(c *cursor) ([]*Node, *diag.Error) {
	open := c.advance() // '{'
	var args []*Node
	if c.peek().Kind == lexer.RBrace {
		c.advance()
		return args, nil
	}
	for {
		a, err := parseBinary(c, 0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		switch c.peek().Kind {
		case lexer.Comma:
			c.advance()
			continue
		case lexer.RBrace:
			c.advance()
			return args, nil
		default:
			return nil, perr(c.peek(), "expected ',' or '}' in call argument list, got token at %s", open.Kind)
		}
	}
}

// parseBracketedOne handles `[` seen after an operand: exactly one index
// expression between matching brackets.
func parseBracketedOne(c *cursor) (*Node, *diag.Error) {
	c.advance() // '['
	idx, err := parseBinary(c, 0)
	if err != nil {
		return nil, err
	}
	if c.peek().Kind != lexer.RBracket {
		return nil, perr(c.peek(), "expected ']' to close index expression")
	}
	c.advance()
	return idx, nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	// Numeric literals may have a leading or trailing '.' (".5", "5.");
	// ParseFloat accepts both forms directly.
	return strconv.ParseFloat(s, 64)
}
