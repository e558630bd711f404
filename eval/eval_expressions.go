/*
File    : eval/eval_expressions.go

Expression-level evaluation: literals, identifiers, array literals,
indexing (with negative wrap-around), field access, unary operators,
and calls (user closures, dataclass construction, builtins).
*/
package eval

import (
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/function"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/objects"
	"github.com/Geetur/Bang-PL/parser"
	"github.com/Geetur/Bang-PL/std"
)

func (e *Evaluator) evalExpr(n *parser.Node) (objects.Value, *diag.Error) {
	switch n.Kind {
	case parser.Expression:
		return e.evalExpr(n.Root)

	case parser.IntLit:
		return &objects.Integer{Value: n.IntVal}, nil
	case parser.FloatLit:
		return &objects.Float{Value: n.FloatVal}, nil
	case parser.StringLit:
		return &objects.String{Value: n.StringVal}, nil
	case parser.BoolLit:
		return &objects.Bool{Value: n.BoolVal}, nil
	case parser.NoneLit:
		return objects.NoneValue, nil

	case parser.Identifier:
		v, ok := e.Scp.LookUp(n.Name)
		if !ok {
			return nil, rerr(n, "variable %s not found in current scope", n.Name)
		}
		return v, nil

	case parser.ArrayLit:
		elems := make([]objects.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.evalExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &objects.Array{Elements: elems}, nil

	case parser.BinOp:
		return e.evalBinOp(n)

	case parser.UnaryOp:
		return e.evalUnaryOp(n)

	case parser.Index:
		base, err := e.evalExpr(n.Base)
		if err != nil {
			return nil, err
		}
		for _, idxExpr := range n.Indices {
			key, err := e.evalExpr(idxExpr)
			if err != nil {
				return nil, err
			}
			base, err = indexValue(base, key, n)
			if err != nil {
				return nil, err
			}
		}
		return base, nil

	case parser.FieldAccess:
		base, err := e.evalExpr(n.Base)
		if err != nil {
			return nil, err
		}
		for _, name := range n.Fields {
			inst, ok := base.(*objects.Instance)
			if !ok {
				return nil, rerr(n, "field access is only performable on instances of classes")
			}
			fv, ok := inst.Values[name]
			if !ok {
				return nil, rerr(n, "%s has no field %s", inst.Class.Name, name)
			}
			base = fv
		}
		return base, nil

	case parser.Call:
		return e.evalCall(n)

	default:
		return nil, rerr(n, "unexpected expression")
	}
}

// indexValue resolves one subscript hop. Arrays and strings take
// integer keys with Python-style negative wrap; dicts take any
// hashable key. Every failure mode surfaces as the same out-of-bounds
// diagnostic at the indexing node.
func indexValue(base, key objects.Value, n *parser.Node) (objects.Value, *diag.Error) {
	switch c := base.(type) {
	case *objects.Array:
		i, ok := intKey(key)
		if !ok {
			return nil, rerr(n, "index out of bounds")
		}
		i, ok = wrapIndex(i, int64(len(c.Elements)))
		if !ok {
			return nil, rerr(n, "index out of bounds")
		}
		return c.Elements[i], nil

	case *objects.String:
		runes := []rune(c.Value)
		i, ok := intKey(key)
		if !ok {
			return nil, rerr(n, "index out of bounds")
		}
		i, ok = wrapIndex(i, int64(len(runes)))
		if !ok {
			return nil, rerr(n, "index out of bounds")
		}
		return &objects.String{Value: string(runes[i])}, nil

	case *objects.Dict:
		h, ok := key.(objects.Hashable)
		if !ok {
			return nil, rerr(n, "index out of bounds")
		}
		v, found := c.Get(h)
		if !found {
			return nil, rerr(n, "index out of bounds")
		}
		return v, nil

	default:
		return nil, rerr(n, "index out of bounds")
	}
}

func intKey(key objects.Value) (int64, bool) {
	switch k := key.(type) {
	case *objects.Integer:
		return k.Value, true
	case *objects.Bool:
		if k.Value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func wrapIndex(i, n int64) (int64, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func (e *Evaluator) evalUnaryOp(n *parser.Node) (objects.Value, *diag.Error) {
	operand, err := e.evalExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case lexer.Not:
		return &objects.Bool{Value: !objects.Truthy(operand)}, nil
	case lexer.UMinus:
		switch v := operand.(type) {
		case *objects.Integer:
			return &objects.Integer{Value: -v.Value}, nil
		case *objects.Float:
			return &objects.Float{Value: -v.Value}, nil
		}
		return nil, rerr(n, "unary negation not supported on type %s", operand.Type())
	case lexer.UPlus:
		switch operand.(type) {
		case *objects.Integer, *objects.Float:
			return operand, nil
		}
		return nil, rerr(n, "unary plus not supported on type %s", operand.Type())
	default:
		return nil, rerr(n, "unsupported unary operator %s", n.Op)
	}
}

// evalCall evaluates the callee and arguments left-to-right, then
// dispatches on what the callee turned out to be: a dataclass
// descriptor constructs an instance, a closure runs as a user call,
// and a builtin invokes its callback with the evaluator's writer.
func (e *Evaluator) evalCall(n *parser.Node) (objects.Value, *diag.Error) {
	callee, err := e.evalExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]objects.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch c := callee.(type) {
	case *objects.DataClass:
		vals := make(map[string]objects.Value, len(c.Fields))
		for i, f := range c.Fields {
			if i < len(args) {
				vals[f] = args[i]
			} else {
				vals[f] = &objects.Integer{Value: 0}
			}
		}
		return &objects.Instance{Class: c, Values: vals}, nil

	case *function.Closure:
		return e.callClosure(c, args)

	case *std.Builtin:
		v, callErr := c.Call(e.Writer, args)
		if callErr != nil {
			return nil, rerr(n, "%s", callErr)
		}
		return v, nil

	default:
		return nil, rerr(n, "attempt to call non-function (type %s)", callee.Type())
	}
}
