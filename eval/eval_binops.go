/*
File    : eval/eval_binops.go

The binary-operator matrix: one handler per same-type family (numeric,
string, list, set, dict) plus a cross-type fallback, dispatched on the
operand type pair. && and || short-circuit before the right operand is
evaluated and return the deciding operand's value, not a coerced bool.
*/
package eval

import (
	"math"
	"strings"

	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/objects"
	"github.com/Geetur/Bang-PL/parser"
)

func (e *Evaluator) evalBinOp(n *parser.Node) (objects.Value, *diag.Error) {
	if n.Op == lexer.And || n.Op == lexer.Or {
		left, err := e.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op == lexer.And && !objects.Truthy(left) {
			return left, nil
		}
		if n.Op == lexer.Or && objects.Truthy(left) {
			return left, nil
		}
		return e.evalExpr(n.Right)
	}

	left, err := e.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	return applyBinOp(n, left, n.Op, right)
}

// applyBinOp is the pure operator core, shared with compound
// assignment and element-wise list operations.
func applyBinOp(n *parser.Node, left objects.Value, op lexer.Kind, right objects.Value) (objects.Value, *diag.Error) {
	if objects.IsNumeric(left) && objects.IsNumeric(right) {
		return numericBinOp(n, left, op, right)
	}
	switch l := left.(type) {
	case *objects.String:
		if r, ok := right.(*objects.String); ok {
			return stringBinOp(n, l, op, r)
		}
	case *objects.Array:
		if r, ok := right.(*objects.Array); ok {
			return arrayBinOp(n, l, op, r)
		}
	case *objects.Set:
		if r, ok := right.(*objects.Set); ok {
			return setBinOp(n, l, op, r)
		}
	case *objects.Dict:
		if r, ok := right.(*objects.Dict); ok {
			return dictBinOp(n, l, op, r)
		}
	}
	return mixedBinOp(n, left, op, right)
}

func opErr(n *parser.Node, left objects.Value, op lexer.Kind, right objects.Value) *diag.Error {
	return rerr(n, "operation '%s' not supported between %s and %s", op, left.Type(), right.Type())
}

func isIntLike(v objects.Value) bool {
	switch v.(type) {
	case *objects.Integer, *objects.Bool:
		return true
	default:
		return false
	}
}

func numericBinOp(n *parser.Node, left objects.Value, op lexer.Kind, right objects.Value) (objects.Value, *diag.Error) {
	bothInt := isIntLike(left) && isIntLike(right)
	fl, fr := objects.AsFloat64(left), objects.AsFloat64(right)

	switch op {
	case lexer.Plus, lexer.Minus, lexer.Star:
		if bothInt {
			a, _ := intKey(left)
			b, _ := intKey(right)
			switch op {
			case lexer.Plus:
				return &objects.Integer{Value: a + b}, nil
			case lexer.Minus:
				return &objects.Integer{Value: a - b}, nil
			default:
				return &objects.Integer{Value: a * b}, nil
			}
		}
		switch op {
		case lexer.Plus:
			return &objects.Float{Value: fl + fr}, nil
		case lexer.Minus:
			return &objects.Float{Value: fl - fr}, nil
		default:
			return &objects.Float{Value: fl * fr}, nil
		}

	case lexer.Slash:
		if fr == 0 {
			return nil, rerr(n, "division by zero")
		}
		return &objects.Float{Value: fl / fr}, nil

	case lexer.DSlash:
		if fr == 0 {
			return nil, rerr(n, "division by zero")
		}
		if bothInt {
			a, _ := intKey(left)
			b, _ := intKey(right)
			q := a / b
			if a%b != 0 && (a < 0) != (b < 0) {
				q--
			}
			return &objects.Integer{Value: q}, nil
		}
		return &objects.Float{Value: math.Floor(fl / fr)}, nil

	case lexer.Pow:
		if bothInt {
			a, _ := intKey(left)
			b, _ := intKey(right)
			if b >= 0 {
				var out int64 = 1
				for i := int64(0); i < b; i++ {
					out *= a
				}
				return &objects.Integer{Value: out}, nil
			}
		}
		return &objects.Float{Value: math.Pow(fl, fr)}, nil

	case lexer.Eq:
		return &objects.Bool{Value: fl == fr}, nil
	case lexer.Ne:
		return &objects.Bool{Value: fl != fr}, nil
	case lexer.Lt:
		return &objects.Bool{Value: fl < fr}, nil
	case lexer.Le:
		return &objects.Bool{Value: fl <= fr}, nil
	case lexer.Gt:
		return &objects.Bool{Value: fl > fr}, nil
	case lexer.Ge:
		return &objects.Bool{Value: fl >= fr}, nil

	default:
		return nil, opErr(n, left, op, right)
	}
}

func stringBinOp(n *parser.Node, left *objects.String, op lexer.Kind, right *objects.String) (objects.Value, *diag.Error) {
	switch op {
	case lexer.Plus:
		return &objects.String{Value: left.Value + right.Value}, nil

	case lexer.Minus:
		// subtraction removes every occurrence of the right substring
		return &objects.String{Value: strings.ReplaceAll(left.Value, right.Value, "")}, nil

	case lexer.Slash:
		// division splits; an empty divisor splits into characters
		if right.Value == "" {
			var out []objects.Value
			for _, r := range left.Value {
				out = append(out, &objects.String{Value: string(r)})
			}
			return &objects.Array{Elements: out}, nil
		}
		parts := strings.Split(left.Value, right.Value)
		out := make([]objects.Value, len(parts))
		for i, p := range parts {
			out[i] = &objects.String{Value: p}
		}
		return &objects.Array{Elements: out}, nil

	case lexer.Lt:
		return &objects.Bool{Value: left.Value < right.Value}, nil
	case lexer.Le:
		return &objects.Bool{Value: left.Value <= right.Value}, nil
	case lexer.Gt:
		return &objects.Bool{Value: left.Value > right.Value}, nil
	case lexer.Ge:
		return &objects.Bool{Value: left.Value >= right.Value}, nil
	case lexer.Eq:
		return &objects.Bool{Value: left.Value == right.Value}, nil
	case lexer.Ne:
		return &objects.Bool{Value: left.Value != right.Value}, nil

	case lexer.KwIn:
		return &objects.Bool{Value: strings.Contains(right.Value, left.Value)}, nil

	default:
		return nil, opErr(n, left, op, right)
	}
}

func arrayBinOp(n *parser.Node, left *objects.Array, op lexer.Kind, right *objects.Array) (objects.Value, *diag.Error) {
	switch op {
	case lexer.Plus:
		out := make([]objects.Value, 0, len(left.Elements)+len(right.Elements))
		out = append(out, left.Elements...)
		out = append(out, right.Elements...)
		return &objects.Array{Elements: out}, nil

	case lexer.Minus:
		var out []objects.Value
		for _, x := range left.Elements {
			removed := false
			for _, y := range right.Elements {
				if objects.Equals(x, y) {
					removed = true
					break
				}
			}
			if !removed {
				out = append(out, x)
			}
		}
		return &objects.Array{Elements: out}, nil

	case lexer.Star, lexer.Slash, lexer.DSlash:
		return elementWise(n, left, op, right)

	case lexer.Lt, lexer.Le, lexer.Gt, lexer.Ge:
		c, err := objects.Compare(left, right)
		if err != nil {
			return nil, rerr(n, "%s", err)
		}
		var v bool
		switch op {
		case lexer.Lt:
			v = c < 0
		case lexer.Le:
			v = c <= 0
		case lexer.Gt:
			v = c > 0
		default:
			v = c >= 0
		}
		return &objects.Bool{Value: v}, nil

	case lexer.Eq:
		return &objects.Bool{Value: objects.Equals(left, right)}, nil
	case lexer.Ne:
		return &objects.Bool{Value: !objects.Equals(left, right)}, nil

	case lexer.KwIn:
		for _, y := range right.Elements {
			if objects.Equals(left, y) {
				return &objects.Bool{Value: true}, nil
			}
		}
		return &objects.Bool{Value: false}, nil

	default:
		return nil, opErr(n, left, op, right)
	}
}

// elementWise applies *, /, // pairwise between equal-length lists, or
// broadcasts the single element of a length-1 list across the other
// side. Division by a zero element is an error at the offending pair.
func elementWise(n *parser.Node, left *objects.Array, op lexer.Kind, right *objects.Array) (objects.Value, *diag.Error) {
	la, lb := len(left.Elements), len(right.Elements)
	if la == lb {
		out := make([]objects.Value, la)
		for i := range left.Elements {
			v, err := applyBinOp(n, left.Elements[i], op, right.Elements[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &objects.Array{Elements: out}, nil
	}
	if la != 1 && lb != 1 {
		return nil, rerr(n, "list element-wise %s is not supported between lists of different lengths where one length is not one", op)
	}
	scalar := left.Elements[0]
	seq := right.Elements
	if lb == 1 {
		scalar = right.Elements[0]
		seq = left.Elements
	}
	out := make([]objects.Value, len(seq))
	for i, x := range seq {
		v, err := applyBinOp(n, x, op, scalar)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &objects.Array{Elements: out}, nil
}

func setBinOp(n *parser.Node, left *objects.Set, op lexer.Kind, right *objects.Set) (objects.Value, *diag.Error) {
	switch op {
	case lexer.Plus:
		out := objects.NewSet()
		for _, m := range left.Values() {
			out.Add(m.(objects.Hashable))
		}
		for _, m := range right.Values() {
			out.Add(m.(objects.Hashable))
		}
		return out, nil

	case lexer.Minus:
		out := objects.NewSet()
		for _, m := range left.Values() {
			if !right.Has(m.(objects.Hashable)) {
				out.Add(m.(objects.Hashable))
			}
		}
		return out, nil

	case lexer.Lt, lexer.Le, lexer.Gt, lexer.Ge:
		sub := left.SubsetOf(right)
		sup := right.SubsetOf(left)
		var v bool
		switch op {
		case lexer.Lt:
			v = sub && left.Len() < right.Len()
		case lexer.Le:
			v = sub
		case lexer.Gt:
			v = sup && left.Len() > right.Len()
		default:
			v = sup
		}
		return &objects.Bool{Value: v}, nil

	case lexer.Eq:
		return &objects.Bool{Value: objects.Equals(left, right)}, nil
	case lexer.Ne:
		return &objects.Bool{Value: !objects.Equals(left, right)}, nil

	default:
		return nil, opErr(n, left, op, right)
	}
}

func dictBinOp(n *parser.Node, left *objects.Dict, op lexer.Kind, right *objects.Dict) (objects.Value, *diag.Error) {
	switch op {
	case lexer.Plus:
		out := objects.NewDict()
		for _, d := range []*objects.Dict{left, right} {
			for _, k := range d.Keys() {
				v, _ := d.Get(k.(objects.Hashable))
				out.Set(k.(objects.Hashable), v)
			}
		}
		return out, nil

	case lexer.Minus:
		out := objects.NewDict()
		for _, k := range left.Keys() {
			if _, in := right.Get(k.(objects.Hashable)); !in {
				v, _ := left.Get(k.(objects.Hashable))
				out.Set(k.(objects.Hashable), v)
			}
		}
		return out, nil

	case lexer.Eq:
		return &objects.Bool{Value: objects.Equals(left, right)}, nil
	case lexer.Ne:
		return &objects.Bool{Value: !objects.Equals(left, right)}, nil

	default:
		return nil, opErr(n, left, op, right)
	}
}

// mixedBinOp covers the documented cross-type rules: sequence
// repetition on *, universally-defined equality, and `in` probing the
// right operand as a container.
func mixedBinOp(n *parser.Node, left objects.Value, op lexer.Kind, right objects.Value) (objects.Value, *diag.Error) {
	switch op {
	case lexer.Star:
		if arr, ok := left.(*objects.Array); ok && isIntLike(right) {
			count, _ := intKey(right)
			return repeatArray(arr, count), nil
		}
		if arr, ok := right.(*objects.Array); ok && isIntLike(left) {
			count, _ := intKey(left)
			return repeatArray(arr, count), nil
		}
		if s, ok := left.(*objects.String); ok && isIntLike(right) {
			count, _ := intKey(right)
			return repeatString(s, count), nil
		}
		if s, ok := right.(*objects.String); ok && isIntLike(left) {
			count, _ := intKey(left)
			return repeatString(s, count), nil
		}

	case lexer.Eq:
		return &objects.Bool{Value: objects.Equals(left, right)}, nil
	case lexer.Ne:
		return &objects.Bool{Value: !objects.Equals(left, right)}, nil

	case lexer.KwIn:
		switch c := right.(type) {
		case *objects.Array:
			for _, y := range c.Elements {
				if objects.Equals(left, y) {
					return &objects.Bool{Value: true}, nil
				}
			}
			return &objects.Bool{Value: false}, nil
		case *objects.Set:
			h, ok := left.(objects.Hashable)
			if !ok {
				return nil, rerr(n, "in binary operation not supported between %s and %s", left.Type(), right.Type())
			}
			return &objects.Bool{Value: c.Has(h)}, nil
		case *objects.Dict:
			h, ok := left.(objects.Hashable)
			if !ok {
				return nil, rerr(n, "in binary operation not supported between %s and %s", left.Type(), right.Type())
			}
			_, in := c.Get(h)
			return &objects.Bool{Value: in}, nil
		}
		return nil, rerr(n, "in binary operation not supported between %s and %s", left.Type(), right.Type())
	}
	return nil, opErr(n, left, op, right)
}

// repeatArray repeats element-wise ([1,2]*2 is [1,1,2,2]) with
// deep-copied elements so mutating one copy never aliases another.
func repeatArray(arr *objects.Array, count int64) *objects.Array {
	var out []objects.Value
	for _, el := range arr.Elements {
		for i := int64(0); i < count; i++ {
			out = append(out, objects.DeepCopy(el))
		}
	}
	return &objects.Array{Elements: out}
}

func repeatString(s *objects.String, count int64) *objects.String {
	if count < 0 {
		count = 0
	}
	return &objects.String{Value: strings.Repeat(s.Value, int(count))}
}
