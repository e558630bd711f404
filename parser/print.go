/*
File    : parser/print.go

Human-readable dumps of the parser's two intermediate shapes: the
post-split logical token lines (--tokens) and the block-nested AST
(--ast). Display-only; nothing in the pipeline consumes this output.
*/
package parser

import (
	"fmt"
	"strings"

	"github.com/Geetur/Bang-PL/lexer"
)

var kindNames = map[Kind]string{
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	StringLit:     "StringLit",
	BoolLit:       "BoolLit",
	NoneLit:       "NoneLit",
	Identifier:    "Identifier",
	ArrayLit:      "ArrayLit",
	BinOp:         "BinOp",
	UnaryOp:       "UnaryOp",
	Index:         "Index",
	FieldAccess:   "FieldAccess",
	Call:          "Call",
	Expression:    "Expression",
	Assignment:    "Assignment",
	If:            "If",
	Elif:          "Elif",
	Else:          "Else",
	For:           "For",
	While:         "While",
	Break:         "Break",
	Continue:      "Continue",
	End:           "End",
	Return:        "Return",
	FunctionDecl:  "FunctionDecl",
	DataClassDecl: "DataClassDecl",
	Block:         "Block",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// SplitLines exposes the logical-line partition for the CLI's --tokens
// dump.
func SplitLines(toks []lexer.Token) [][]lexer.Token {
	return splitLines(toks)
}

// DumpLines renders the post-split token groups, one logical line per
// output line.
func DumpLines(lines [][]lexer.Token) string {
	var sb strings.Builder
	for _, line := range lines {
		parts := make([]string, len(line))
		for i, t := range line {
			parts[i] = t.String()
		}
		fmt.Fprintf(&sb, "[%s]\n", strings.Join(parts, " "))
	}
	return sb.String()
}

// Dump renders a block-nested AST as an indented tree.
func Dump(roots []*Node) string {
	var sb strings.Builder
	for _, r := range roots {
		dumpNode(&sb, r, 0)
	}
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	pad := strings.Repeat("  ", depth)

	switch n.Kind {
	case IntLit:
		fmt.Fprintf(sb, "%sIntLit(%d)\n", pad, n.IntVal)
	case FloatLit:
		fmt.Fprintf(sb, "%sFloatLit(%g)\n", pad, n.FloatVal)
	case StringLit:
		fmt.Fprintf(sb, "%sStringLit(%q)\n", pad, n.StringVal)
	case BoolLit:
		fmt.Fprintf(sb, "%sBoolLit(%t)\n", pad, n.BoolVal)
	case NoneLit:
		fmt.Fprintf(sb, "%sNoneLit\n", pad)
	case Identifier:
		fmt.Fprintf(sb, "%sIdentifier(%s)\n", pad, n.Name)

	case ArrayLit:
		fmt.Fprintf(sb, "%sArrayLit\n", pad)
		for _, el := range n.Elements {
			dumpNode(sb, el, depth+1)
		}

	case BinOp:
		fmt.Fprintf(sb, "%sBinOp(%s)\n", pad, n.Op)
		dumpNode(sb, n.Left, depth+1)
		dumpNode(sb, n.Right, depth+1)

	case UnaryOp:
		fmt.Fprintf(sb, "%sUnaryOp(%s)\n", pad, n.Op)
		dumpNode(sb, n.Operand, depth+1)

	case Index:
		fmt.Fprintf(sb, "%sIndex\n", pad)
		dumpNode(sb, n.Base, depth+1)
		for _, idx := range n.Indices {
			dumpNode(sb, idx, depth+1)
		}

	case FieldAccess:
		fmt.Fprintf(sb, "%sFieldAccess(.%s)\n", pad, strings.Join(n.Fields, "."))
		dumpNode(sb, n.Base, depth+1)

	case Call:
		fmt.Fprintf(sb, "%sCall\n", pad)
		dumpNode(sb, n.Callee, depth+1)
		for _, a := range n.Args {
			dumpNode(sb, a, depth+1)
		}

	case Expression:
		fmt.Fprintf(sb, "%sExpression\n", pad)
		dumpNode(sb, n.Root, depth+1)

	case Assignment:
		fmt.Fprintf(sb, "%sAssignment(%s)\n", pad, n.Op)
		dumpNode(sb, n.Left, depth+1)
		dumpNode(sb, n.Right, depth+1)

	case If, Elif, While:
		fmt.Fprintf(sb, "%s%s\n", pad, n.Kind)
		dumpNode(sb, n.Cond, depth+1)
		dumpNode(sb, n.Body, depth+1)
		if n.Kind == If {
			for _, el := range n.ElifBlock {
				dumpNode(sb, el, depth+1)
			}
			dumpNode(sb, n.ElseBlock, depth+1)
		}

	case Else:
		fmt.Fprintf(sb, "%sElse\n", pad)
		dumpNode(sb, n.Body, depth+1)

	case For:
		fmt.Fprintf(sb, "%sFor(%s)\n", pad, n.Var.Name)
		dumpNode(sb, n.Root, depth+1)
		dumpNode(sb, n.Body, depth+1)

	case Break, Continue, End:
		fmt.Fprintf(sb, "%s%s\n", pad, n.Kind)

	case Return:
		fmt.Fprintf(sb, "%sReturn\n", pad)
		dumpNode(sb, n.Root, depth+1)

	case FunctionDecl:
		fmt.Fprintf(sb, "%sFunctionDecl(%s %s)\n", pad, n.Name, n.ArgListName)
		dumpNode(sb, n.Body, depth+1)

	case DataClassDecl:
		fmt.Fprintf(sb, "%sDataClassDecl(%s [%s])\n", pad, n.Name, strings.Join(n.FieldNames, ", "))

	case Block:
		fmt.Fprintf(sb, "%sBlock\n", pad)
		for _, c := range n.Elements {
			dumpNode(sb, c, depth+1)
		}
	}
}
