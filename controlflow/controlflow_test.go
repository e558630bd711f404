package controlflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/parser"
)

func buildSource(t *testing.T, src string) ([]*parser.Node, *diag.Error) {
	t.Helper()
	toks, lerr := lexer.Tokenize(src)
	require.Nil(t, lerr)
	nodes, perr := parser.Parse(toks)
	require.Nil(t, perr)
	return Build(nodes)
}

func TestBuild_FlatStatementsStayAtRoot(t *testing.T) {
	roots, err := buildSource(t, "x = 1\ny = 2\nprint{x}")
	require.Nil(t, err)
	require.Equal(t, 3, len(roots))
	assert.Equal(t, parser.Assignment, roots[0].Kind)
	assert.Equal(t, parser.Expression, roots[2].Kind)
}

func TestBuild_NestsLoopBody(t *testing.T) {
	roots, err := buildSource(t, "for i range{3}\nx = i\nend")
	require.Nil(t, err)
	require.Equal(t, 1, len(roots))
	loop := roots[0]
	assert.Equal(t, parser.For, loop.Kind)
	require.Equal(t, 1, len(loop.Body.Elements))
	assert.Equal(t, parser.Assignment, loop.Body.Elements[0].Kind)
}

func TestBuild_NestedConstructs(t *testing.T) {
	roots, err := buildSource(t, "while x\nif y\nz = 1\nend\nend")
	require.Nil(t, err)
	require.Equal(t, 1, len(roots))
	loop := roots[0]
	require.Equal(t, 1, len(loop.Body.Elements))
	cond := loop.Body.Elements[0]
	assert.Equal(t, parser.If, cond.Kind)
	assert.Equal(t, 1, len(cond.Body.Elements))
}

func TestBuild_ElifAndElseAttachToIf(t *testing.T) {
	// each elif/else closes with its own end, then the if closes
	roots, err := buildSource(t, "if a\nx = 1\nelif b\nx = 2\nend\nelse\nx = 3\nend\nend")
	require.Nil(t, err)
	require.Equal(t, 1, len(roots))
	cond := roots[0]
	require.Equal(t, parser.If, cond.Kind)
	require.Equal(t, 1, len(cond.ElifBlock))
	assert.Equal(t, parser.Elif, cond.ElifBlock[0].Kind)
	require.NotNil(t, cond.ElseBlock)
	assert.Equal(t, parser.Else, cond.ElseBlock.Kind)
	assert.Equal(t, 1, len(cond.ElseBlock.Body.Elements))
}

func TestBuild_StrayEnd(t *testing.T) {
	_, err := buildSource(t, "x = 1\nend")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "'end'")
	assert.Equal(t, diag.Parser, err.Kind)
}

func TestBuild_MissingEnd(t *testing.T) {
	_, err := buildSource(t, "while x\ny = 1")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "missing 'end'")
}

func TestBuild_ElifWithoutIf(t *testing.T) {
	_, err := buildSource(t, "elif x\ny = 1\nend")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "governing 'if'")
}

func TestBuild_ElseWithoutIf(t *testing.T) {
	_, err := buildSource(t, "for i 3\nelse\nend\nend")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "governing 'if'")
}

func TestBuild_ReturnRequiresFunction(t *testing.T) {
	_, err := buildSource(t, "return 1")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "function")

	_, err = buildSource(t, "while x\nreturn 1\nend")
	require.NotNil(t, err)

	roots, err := buildSource(t, "fn f args\nwhile x\nreturn 1\nend\nend")
	require.Nil(t, err)
	assert.Equal(t, parser.FunctionDecl, roots[0].Kind)
}

func TestBuild_EmptyProgram(t *testing.T) {
	roots, err := Build(nil)
	require.Nil(t, err)
	assert.Empty(t, roots)
}
