package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_OperatorsAndLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected []Kind
	}{
		{`123 + 2 - 4.5`, []Kind{IntLit, Plus, IntLit, Minus, FloatLit}},
		{`a == b != c`, []Kind{Ident, Eq, Ident, Ne, Ident}},
		{`x <= y >= z < w > v`, []Kind{Ident, Le, Ident, Ge, Ident, Lt, Ident, Gt, Ident}},
		{`a && b || !c`, []Kind{Ident, And, Ident, Or, Not, Ident}},
		{`x += 1; y -= 2`, []Kind{Ident, PlusEq, IntLit, Semi, Ident, MinusEq, IntLit}},
		{`a // b ** c / d * e`, []Kind{Ident, DSlash, Ident, Pow, Ident, Slash, Ident, Star, Ident}},
		{`[1, 2]{x}(y)`, []Kind{LBracket, IntLit, Comma, IntLit, RBracket, LBrace, Ident, RBrace, LParen, Ident, RParen}},
		{`p.x`, []Kind{Ident, Dot, Ident}},
	}
	for _, tt := range tests {
		toks, err := Tokenize(tt.input)
		require.Nil(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, kinds(toks), "input %q", tt.input)
	}
}

func TestTokenize_Keywords(t *testing.T) {
	toks, err := Tokenize("if elif else for while break continue return end fn in data true false none")
	require.Nil(t, err)
	assert.Equal(t, []Kind{
		KwIf, KwElif, KwElse, KwFor, KwWhile, KwBreak, KwContinue,
		KwReturn, KwEnd, KwFn, KwIn, KwData, KwTrue, KwFalse, KwNone,
	}, kinds(toks))
}

func TestTokenize_IdentifiersAreNotKeywords(t *testing.T) {
	toks, err := Tokenize("iffy _end data2 __x")
	require.Nil(t, err)
	assert.Equal(t, []Kind{Ident, Ident, Ident, Ident}, kinds(toks))
	assert.Equal(t, "iffy", toks[0].Lexeme)
	assert.Equal(t, "__x", toks[3].Lexeme)
}

func TestTokenize_Strings(t *testing.T) {
	toks, err := Tokenize(`x = "hello  world" + "a#b"`)
	require.Nil(t, err)
	require.Equal(t, 5, len(toks))
	assert.Equal(t, StringLit, toks[2].Kind)
	assert.Equal(t, "hello  world", toks[2].Lexeme)
	assert.Equal(t, "a#b", toks[4].Lexeme)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize("x = \"oops\ny = 1")
	// the quote may be closed on a later line, so the error only fires
	// at end of input
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unterminated")
}

func TestTokenize_Numbers(t *testing.T) {
	toks, err := Tokenize("1 1.5 .5 5.")
	require.Nil(t, err)
	assert.Equal(t, []Kind{IntLit, FloatLit, FloatLit, FloatLit}, kinds(toks))
	assert.Equal(t, ".5", toks[2].Lexeme)
	assert.Equal(t, "5.", toks[3].Lexeme)
}

func TestTokenize_DoubleDecimalPoint(t *testing.T) {
	_, err := Tokenize("x = 1.2.3")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "decimal")
}

func TestTokenize_Comments(t *testing.T) {
	toks, err := Tokenize("x = 1 # trailing comment\n# whole line\ny = 2")
	require.Nil(t, err)
	assert.Equal(t, []Kind{Ident, Assign, IntLit, Ident, Assign, IntLit}, kinds(toks))
	assert.Equal(t, 3, toks[3].Line)
}

func TestTokenize_UnknownCharacter(t *testing.T) {
	_, err := Tokenize("x = 1 @ 2")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unknown character")
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize("ab + c\n  xyz")
	require.Nil(t, err)
	require.Equal(t, 4, len(toks))

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].ColStart)
	assert.Equal(t, 3, toks[0].ColEnd)

	assert.Equal(t, 4, toks[1].ColStart)
	assert.Equal(t, 6, toks[2].ColStart)

	assert.Equal(t, 2, toks[3].Line)
	assert.Equal(t, 3, toks[3].ColStart)
	assert.Equal(t, 6, toks[3].ColEnd)
}

func TestTokenize_MonotonicPositions(t *testing.T) {
	src := "x = 1\nfor i range{3}\nprint{i + x}\nend\n"
	toks, err := Tokenize(src)
	require.Nil(t, err)
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		if cur.Line == prev.Line {
			assert.GreaterOrEqual(t, cur.ColStart, prev.ColEnd)
		} else {
			assert.Greater(t, cur.Line, prev.Line)
		}
	}
}

func TestTokenize_EmptySource(t *testing.T) {
	toks, err := Tokenize("")
	require.Nil(t, err)
	assert.Empty(t, toks)

	toks, err = Tokenize("   \n\t# only a comment\n")
	require.Nil(t, err)
	assert.Empty(t, toks)
}
