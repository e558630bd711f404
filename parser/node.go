/*
File    : parser/node.go

Package parser converts a Bang token stream into an AST. node.go defines
the AST as a single tagged struct rather than one Go type per node kind:
a Kind enum picks out which fields are meaningful, and every pass (control
flow nesting, semantic analysis, evaluation) walks the tree with a switch
over Kind instead of a visitor interface. This keeps node-kind
exhaustiveness a single switch statement instead of a family of types
that each need their own Accept method.
*/
package parser

import (
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
)

type Kind int

const (
	IntLit Kind = iota
	FloatLit
	StringLit
	BoolLit
	NoneLit
	Identifier
	ArrayLit
	BinOp
	UnaryOp
	Index
	FieldAccess
	Call
	Expression // wrapper: "this subtree is a fully parsed expression"

	Assignment
	If
	Elif
	Else
	For
	While
	Break
	Continue
	End
	Return
	FunctionDecl
	DataClassDecl
	Block
)

// Node is the single AST node type. Only the fields relevant to Kind are
// populated; the rest are left at their zero value.
type Node struct {
	Kind Kind
	Pos  diag.Position

	// Literals
	IntVal    int64
	FloatVal  float64
	StringVal string
	BoolVal   bool

	// Identifier / For.var / FunctionDecl.name / DataClassDecl.name
	Name string

	// ArrayLit.elements / Block.children
	Elements []*Node

	// BinOp.left, BinOp.right / Assignment.lhs, Assignment.rhs
	Left, Right *Node
	Op          lexer.Kind

	// UnaryOp.operand
	Operand *Node

	// Index.base, FieldAccess.base
	Base *Node
	// Index.indices (non-empty)
	Indices []*Node
	// FieldAccess.field_chain (non-empty, dotted names collapsed into one node)
	Fields []string

	// Call.callee, Call.args
	Callee *Node
	Args   []*Node

	// Expression.root / Return.expr / For.bound
	Root *Node

	// If/Elif/While.cond
	Cond *Node
	// If/Elif/For/While/FunctionDecl.body (a Block node)
	Body *Node
	// If.elif_block (Elif nodes only) / If.else_block (Else node, may be nil)
	ElifBlock []*Node
	ElseBlock *Node

	// For.var
	Var *Node

	// FunctionDecl.arg_list_name
	ArgListName string

	// DataClassDecl.fields, deduplicated
	FieldNames []string
}

func node(kind Kind, pos diag.Position) *Node { return &Node{Kind: kind, Pos: pos} }

func NewIntLit(v int64, pos diag.Position) *Node {
	n := node(IntLit, pos)
	n.IntVal = v
	return n
}

func NewFloatLit(v float64, pos diag.Position) *Node {
	n := node(FloatLit, pos)
	n.FloatVal = v
	return n
}

func NewStringLit(v string, pos diag.Position) *Node {
	n := node(StringLit, pos)
	n.StringVal = v
	return n
}

func NewBoolLit(v bool, pos diag.Position) *Node {
	n := node(BoolLit, pos)
	n.BoolVal = v
	return n
}

func NewNoneLit(pos diag.Position) *Node { return node(NoneLit, pos) }

func NewIdentifier(name string, pos diag.Position) *Node {
	n := node(Identifier, pos)
	n.Name = name
	return n
}

func NewArrayLit(elements []*Node, pos diag.Position) *Node {
	n := node(ArrayLit, pos)
	n.Elements = elements
	return n
}

func NewBinOp(left *Node, op lexer.Kind, right *Node, pos diag.Position) *Node {
	n := node(BinOp, pos)
	n.Left, n.Op, n.Right = left, op, right
	return n
}

func NewUnaryOp(op lexer.Kind, operand *Node, pos diag.Position) *Node {
	n := node(UnaryOp, pos)
	n.Op, n.Operand = op, operand
	return n
}

func NewIndex(base *Node, indices []*Node, pos diag.Position) *Node {
	n := node(Index, pos)
	n.Base, n.Indices = base, indices
	return n
}

func NewFieldAccess(base *Node, fields []string, pos diag.Position) *Node {
	n := node(FieldAccess, pos)
	n.Base, n.Fields = base, fields
	return n
}

func NewCall(callee *Node, args []*Node, pos diag.Position) *Node {
	n := node(Call, pos)
	n.Callee, n.Args = callee, args
	return n
}

func NewExpression(root *Node, pos diag.Position) *Node {
	n := node(Expression, pos)
	n.Root = root
	return n
}

func NewAssignment(lhs *Node, op lexer.Kind, rhs *Node, pos diag.Position) *Node {
	n := node(Assignment, pos)
	n.Left, n.Op, n.Right = lhs, op, rhs
	return n
}

func NewIf(cond *Node, pos diag.Position) *Node {
	n := node(If, pos)
	n.Cond = cond
	n.Body = NewBlock(nil, pos)
	return n
}

func NewElif(cond *Node, pos diag.Position) *Node {
	n := node(Elif, pos)
	n.Cond = cond
	n.Body = NewBlock(nil, pos)
	return n
}

func NewElse(pos diag.Position) *Node {
	n := node(Else, pos)
	n.Body = NewBlock(nil, pos)
	return n
}

func NewFor(v *Node, bound *Node, pos diag.Position) *Node {
	n := node(For, pos)
	n.Var, n.Root = v, bound
	n.Body = NewBlock(nil, pos)
	return n
}

func NewWhile(cond *Node, pos diag.Position) *Node {
	n := node(While, pos)
	n.Cond = cond
	n.Body = NewBlock(nil, pos)
	return n
}

func NewBreak(pos diag.Position) *Node    { return node(Break, pos) }
func NewContinue(pos diag.Position) *Node { return node(Continue, pos) }
func NewEnd(pos diag.Position) *Node      { return node(End, pos) }

func NewReturn(expr *Node, pos diag.Position) *Node {
	n := node(Return, pos)
	n.Root = expr
	return n
}

func NewFunctionDecl(name, argListName string, pos diag.Position) *Node {
	n := node(FunctionDecl, pos)
	n.Name, n.ArgListName = name, argListName
	n.Body = NewBlock(nil, pos)
	return n
}

func NewDataClassDecl(name string, fields []string, pos diag.Position) *Node {
	n := node(DataClassDecl, pos)
	n.Name, n.FieldNames = name, fields
	return n
}

func NewBlock(children []*Node, pos diag.Position) *Node {
	n := node(Block, pos)
	n.Elements = children
	return n
}
