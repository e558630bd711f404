/*
File    : parser/parser.go

The expression parser: split tokens into logical lines, dispatch each line
to a keyword handler or to the shunting-yard expression routine, and
produce one flat AST node per line. Control constructs (If/For/While/...)
come out of this pass with an empty Body — nesting them into real block
structures is the control-flow parser's job (package controlflow).

The expression routine is a precedence-climbing restatement of
shunting-yard: a left-to-right scan maintains an implicit operand/operator
state (which parse function is active disambiguates the two, so unary
`+`/`-`/`!` are rewritten to UPlus/UMinus/Not exactly when the scanner is
in operand position) and resolves precedence via recursion depth rather
than an explicit operator stack.
*/
package parser

import (
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
)

// Parse runs the full expression-parser pass over a token stream, in one
// line-at-a-time sweep, and returns the flat (not yet block-nested) list
// of statement-level nodes.
func Parse(toks []lexer.Token) ([]*Node, *diag.Error) {
	lines := splitLines(toks)
	out := make([]*Node, 0, len(lines))
	for _, line := range lines {
		n, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// splitLines partitions tokens into logical lines: runs of tokens sharing
// a source line number, further cut at explicit `;` separators. Empty
// logical lines are discarded.
func splitLines(toks []lexer.Token) [][]lexer.Token {
	var lines [][]lexer.Token
	var cur []lexer.Token
	lastLine := -1
	for _, t := range toks {
		if t.Kind == lexer.Semi {
			if len(cur) > 0 {
				lines = append(lines, cur)
			}
			cur = nil
			lastLine = -1
			continue
		}
		if lastLine != -1 && t.Line != lastLine {
			if len(cur) > 0 {
				lines = append(lines, cur)
			}
			cur = nil
		}
		cur = append(cur, t)
		lastLine = t.Line
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func posOf(t lexer.Token) diag.Position {
	return diag.Position{Line: t.Line, ColStart: t.ColStart, ColEnd: t.ColEnd}
}

func perr(tok lexer.Token, format string, args ...interface{}) *diag.Error {
	return diag.New(diag.Parser, posOf(tok), format, args...)
}

func parseLine(line []lexer.Token) (*Node, *diag.Error) {
	head := line[0]
	switch head.Kind {
	case lexer.KwIf:
		return parseCondHeader(If, line)
	case lexer.KwElif:
		return parseCondHeader(Elif, line)
	case lexer.KwElse:
		if len(line) != 1 {
			return nil, perr(line[1], "'else' takes no expression")
		}
		return NewElse(posOf(head)), nil
	case lexer.KwFor:
		return parseFor(line)
	case lexer.KwWhile:
		cond, err := parseExprTokens(line[1:])
		if err != nil {
			return nil, err
		}
		return NewWhile(cond, posOf(head)), nil
	case lexer.KwBreak:
		if len(line) != 1 {
			return nil, perr(line[1], "'break' must appear alone on its line")
		}
		return NewBreak(posOf(head)), nil
	case lexer.KwContinue:
		if len(line) != 1 {
			return nil, perr(line[1], "'continue' must appear alone on its line")
		}
		return NewContinue(posOf(head)), nil
	case lexer.KwEnd:
		if len(line) != 1 {
			return nil, perr(line[1], "'end' must appear alone on its line")
		}
		return NewEnd(posOf(head)), nil
	case lexer.KwFn:
		return parseFn(line)
	case lexer.KwData:
		return parseData(line)
	case lexer.KwReturn:
		expr, err := parseExprTokens(line[1:])
		if err != nil {
			return nil, err
		}
		return NewReturn(expr, posOf(head)), nil
	default:
		return parseExprOrAssignment(line)
	}
}

func parseCondHeader(kind Kind, line []lexer.Token) (*Node, *diag.Error) {
	if len(line) < 2 {
		return nil, perr(line[0], "%s requires a condition expression", line[0].Kind)
	}
	cond, err := parseExprTokens(line[1:])
	if err != nil {
		return nil, err
	}
	if kind == Elif {
		return NewElif(cond, posOf(line[0])), nil
	}
	return NewIf(cond, posOf(line[0])), nil
}

func parseFor(line []lexer.Token) (*Node, *diag.Error) {
	if len(line) < 3 || line[1].Kind != lexer.Ident {
		return nil, perr(line[0], "malformed 'for' header: expected 'for IDENT <expr>'")
	}
	v := NewIdentifier(line[1].Lexeme, posOf(line[1]))
	bound, err := parseExprTokens(line[2:])
	if err != nil {
		return nil, err
	}
	return NewFor(v, bound, posOf(line[0])), nil
}

func parseFn(line []lexer.Token) (*Node, *diag.Error) {
	if len(line) != 3 || line[1].Kind != lexer.Ident || line[2].Kind != lexer.Ident {
		return nil, perr(line[0], "malformed 'fn' header: expected 'fn IDENT IDENT'")
	}
	return NewFunctionDecl(line[1].Lexeme, line[2].Lexeme, posOf(line[0])), nil
}

func parseData(line []lexer.Token) (*Node, *diag.Error) {
	if len(line) < 4 || line[1].Kind != lexer.Ident || line[2].Kind != lexer.LBracket {
		return nil, perr(line[0], "malformed 'data' header: expected 'data IDENT [IDENT, ...]'")
	}
	name := line[1].Lexeme
	rest := line[3:]
	var fields []string
	seen := map[string]bool{}
	expectIdent := true
	closed := false
	for i := 0; i < len(rest); i++ {
		t := rest[i]
		if t.Kind == lexer.RBracket {
			closed = true
			if i != len(rest)-1 {
				return nil, perr(rest[i+1], "unexpected token after 'data' field list")
			}
			break
		}
		if expectIdent {
			if t.Kind != lexer.Ident {
				return nil, perr(t, "expected field name in 'data' declaration")
			}
			if !seen[t.Lexeme] {
				seen[t.Lexeme] = true
				fields = append(fields, t.Lexeme)
			}
			expectIdent = false
			continue
		}
		if t.Kind != lexer.Comma {
			return nil, perr(t, "expected ',' between 'data' field names")
		}
		expectIdent = true
	}
	if !closed {
		return nil, perr(line[len(line)-1], "missing ']' closing 'data' field list")
	}
	return NewDataClassDecl(name, fields, posOf(line[0])), nil
}

var assignOps = map[lexer.Kind]bool{
	lexer.Assign: true, lexer.PlusEq: true, lexer.MinusEq: true,
	lexer.StarEq: true, lexer.SlashEq: true,
}

func parseExprOrAssignment(line []lexer.Token) (*Node, *diag.Error) {
	splitAt := -1
	depth := 0
	for i, t := range line {
		switch t.Kind {
		case lexer.LParen, lexer.LBracket, lexer.LBrace:
			depth++
		case lexer.RParen, lexer.RBracket, lexer.RBrace:
			depth--
		}
		if depth == 0 && assignOps[t.Kind] {
			splitAt = i
			break
		}
	}
	if splitAt == -1 {
		expr, err := parseExprTokens(line)
		if err != nil {
			return nil, err
		}
		return NewExpression(expr, posOf(line[0])), nil
	}

	opTok := line[splitAt]
	lhsToks, rhsToks := line[:splitAt], line[splitAt+1:]
	if len(lhsToks) == 0 || len(rhsToks) == 0 {
		return nil, perr(opTok, "assignment is missing an operand")
	}

	depth = 0
	for _, t := range rhsToks {
		switch t.Kind {
		case lexer.LParen, lexer.LBracket, lexer.LBrace:
			depth++
		case lexer.RParen, lexer.RBracket, lexer.RBrace:
			depth--
		}
		if depth == 0 && assignOps[t.Kind] {
			return nil, perr(t, "chained assignment is not permitted on a single line")
		}
	}

	lhs, err := parseExprTokens(lhsToks)
	if err != nil {
		return nil, err
	}
	if !isValidLvalue(lhs) {
		return nil, perr(opTok, "invalid assignment target")
	}
	rhs, err := parseExprTokens(rhsToks)
	if err != nil {
		return nil, err
	}
	return NewAssignment(lhs, opTok.Kind, rhs, posOf(opTok)), nil
}

func isValidLvalue(n *Node) bool {
	switch n.Kind {
	case Identifier, Index, FieldAccess:
		return true
	case ArrayLit:
		for _, e := range n.Elements {
			if !isValidLvalue(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
