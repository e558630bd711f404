/*
File    : controlflow/controlflow.go

Package controlflow is the third pipeline pass: it consumes the flat,
line-level node list the expression parser produces and nests control
constructs into real block structures using a construct stack, exactly
mirroring the line-oriented shape of the source (one push per opened
construct, one pop per `end`).
*/
package controlflow

import (
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/parser"
)

// Build nests a flat line-level node sequence into block structure and
// returns the top-level (unnested) roots.
func Build(lines []*parser.Node) ([]*parser.Node, *diag.Error) {
	var stack []*parser.Node
	var roots []*parser.Node

	isConstruct := func(n *parser.Node) bool {
		switch n.Kind {
		case parser.If, parser.Elif, parser.Else, parser.For, parser.While, parser.FunctionDecl:
			return true
		default:
			return false
		}
	}
	isDependent := func(n *parser.Node) bool {
		return n.Kind == parser.Elif || n.Kind == parser.Else
	}
	appendTo := func(n *parser.Node) {
		if len(stack) == 0 {
			roots = append(roots, n)
			return
		}
		top := stack[len(stack)-1]
		top.Body.Elements = append(top.Body.Elements, n)
	}

	for _, n := range lines {
		switch {
		case isConstruct(n):
			stack = append(stack, n)

		case n.Kind == parser.End:
			if len(stack) == 0 {
				return nil, diag.New(diag.Parser, n.Pos, "'end' has no matching construct")
			}
			construct := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if isDependent(construct) {
				if len(stack) == 0 || stack[len(stack)-1].Kind != parser.If {
					return nil, diag.New(diag.Parser, construct.Pos, "%s has no governing 'if'", constructLabel(construct))
				}
				owner := stack[len(stack)-1]
				if construct.Kind == parser.Elif {
					owner.ElifBlock = append(owner.ElifBlock, construct)
				} else {
					owner.ElseBlock = construct
				}
			} else {
				appendTo(construct)
			}

		case n.Kind == parser.Return:
			inFunction := false
			for _, s := range stack {
				if s.Kind == parser.FunctionDecl {
					inFunction = true
					break
				}
			}
			if !inFunction {
				return nil, diag.New(diag.Parser, n.Pos, "'return' outside any function")
			}
			appendTo(n)

		default:
			appendTo(n)
		}
	}

	if len(stack) > 0 {
		missing := stack[len(stack)-1]
		return nil, diag.New(diag.Parser, missing.Pos, "missing 'end' for %s", constructLabel(missing))
	}
	return roots, nil
}

func constructLabel(n *parser.Node) string {
	switch n.Kind {
	case parser.If:
		return "'if'"
	case parser.Elif:
		return "'elif'"
	case parser.Else:
		return "'else'"
	case parser.For:
		return "'for'"
	case parser.While:
		return "'while'"
	case parser.FunctionDecl:
		return "'fn'"
	default:
		return "construct"
	}
}
