/*
File    : eval/eval_assignments.go

Assignment execution, dispatched on the left-hand shape: plain
identifiers, index chains, field chains, and destructuring array
literals. Compound operators expand to `lhs = lhs OP rhs` before
dispatch; destructuring applies the operator per element instead.
*/
package eval

import (
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/objects"
	"github.com/Geetur/Bang-PL/parser"
)

// assignToNormalOp strips the "=" off a compound-assignment operator.
func assignToNormalOp(op lexer.Kind) (lexer.Kind, bool) {
	switch op {
	case lexer.PlusEq:
		return lexer.Plus, true
	case lexer.MinusEq:
		return lexer.Minus, true
	case lexer.StarEq:
		return lexer.Star, true
	case lexer.SlashEq:
		return lexer.Slash, true
	default:
		return op, false
	}
}

func (e *Evaluator) execAssignment(n *parser.Node) *diag.Error {
	rhs, err := e.evalExpr(n.Right)
	if err != nil {
		return err
	}

	normalOp, compound := assignToNormalOp(n.Op)
	if compound && n.Left.Kind != parser.ArrayLit {
		cur, err := e.evalExpr(n.Left)
		if err != nil {
			return err
		}
		rhs, err = applyBinOp(n, cur, normalOp, rhs)
		if err != nil {
			return err
		}
	}

	return e.assignTo(n.Left, n.Op, rhs, n)
}

func (e *Evaluator) assignTo(lhs *parser.Node, op lexer.Kind, v objects.Value, at *parser.Node) *diag.Error {
	switch lhs.Kind {
	case parser.Identifier:
		e.initializeVar(lhs.Name, v)
		return nil
	case parser.Index:
		return e.assignIndex(lhs, v, at)
	case parser.FieldAccess:
		return e.assignField(lhs, v)
	case parser.ArrayLit:
		return e.assignMulti(lhs, op, v, at)
	default:
		return rerr(at, "invalid assignment target")
	}
}

// assignIndex walks all-but-the-last subscript to locate the target
// container, then writes through the final key. The base expression's
// value is the stored container itself, so the write mutates in place.
func (e *Evaluator) assignIndex(lhs *parser.Node, v objects.Value, at *parser.Node) *diag.Error {
	target, err := e.evalExpr(lhs.Base)
	if err != nil {
		return err
	}
	for _, idxExpr := range lhs.Indices[:len(lhs.Indices)-1] {
		key, err := e.evalExpr(idxExpr)
		if err != nil {
			return err
		}
		target, err = indexValue(target, key, at)
		if err != nil {
			return err
		}
	}
	key, err := e.evalExpr(lhs.Indices[len(lhs.Indices)-1])
	if err != nil {
		return err
	}
	return setIndex(target, key, v, at)
}

func setIndex(target, key, v objects.Value, at *parser.Node) *diag.Error {
	switch c := target.(type) {
	case *objects.Array:
		i, ok := intKey(key)
		if !ok {
			return rerr(at, "index out of bounds")
		}
		i, ok = wrapIndex(i, int64(len(c.Elements)))
		if !ok {
			return rerr(at, "index out of bounds")
		}
		c.Elements[i] = v
		return nil
	case *objects.Dict:
		h, ok := key.(objects.Hashable)
		if !ok {
			return rerr(at, "index out of bounds")
		}
		c.Set(h, v)
		return nil
	default:
		// strings are immutable; everything else isn't index-writable
		return rerr(at, "index out of bounds")
	}
}

func (e *Evaluator) assignField(lhs *parser.Node, v objects.Value) *diag.Error {
	base, err := e.evalExpr(lhs.Base)
	if err != nil {
		return err
	}
	for _, name := range lhs.Fields[:len(lhs.Fields)-1] {
		inst, ok := base.(*objects.Instance)
		if !ok {
			return rerr(lhs, "field access is only performable on instances of classes")
		}
		fv, ok := inst.Values[name]
		if !ok {
			return rerr(lhs, "%s has no field %s", inst.Class.Name, name)
		}
		base = fv
	}

	final := lhs.Fields[len(lhs.Fields)-1]
	inst, ok := base.(*objects.Instance)
	if !ok {
		return rerr(lhs, "field access is only performable on instances of classes")
	}
	if _, ok := inst.Values[final]; !ok {
		return rerr(lhs, "%s has no field %s", inst.Class.Name, final)
	}
	inst.Values[final] = v
	return nil
}

// assignMulti destructures: the right side must be an array at least
// as long as the target list, and each element dispatches through the
// ordinary assignment forms. A compound operator applies per element;
// nested array-literal targets recurse with it intact, while leaf
// targets get the already-combined value with a plain '='.
func (e *Evaluator) assignMulti(lhs *parser.Node, op lexer.Kind, v objects.Value, at *parser.Node) *diag.Error {
	arr, ok := v.(*objects.Array)
	if !ok {
		return rerr(at, "multi-variable assignment right hand must be type list")
	}
	if len(lhs.Elements) > len(arr.Elements) {
		return rerr(at, "not enough values to unpack")
	}

	normalOp, compound := assignToNormalOp(op)
	for i, elt := range lhs.Elements {
		val := arr.Elements[i]
		childOp := op
		if elt.Kind != parser.ArrayLit {
			if compound {
				cur, err := e.evalExpr(elt)
				if err != nil {
					return err
				}
				combined, err := applyBinOp(at, cur, normalOp, val)
				if err != nil {
					return err
				}
				val = combined
			}
			childOp = lexer.Assign
		}
		if err := e.assignTo(elt, childOp, val, at); err != nil {
			return err
		}
	}
	return nil
}
