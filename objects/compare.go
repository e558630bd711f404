/*
File    : objects/compare.go

Value-level equality, ordering, and deep copy. These live here rather
than in the evaluator because the builtins need them too (min/max/sort
compare, set/dict membership) and std must not import eval.
*/
package objects

import "fmt"

// Equals implements Bang's deep equality: numeric-like values compare
// by numeric value across int/float/bool, containers compare
// element-wise, instances compare by class and fields, and everything
// else (closures, dataclass descriptors) compares by identity.
func Equals(a, b Value) bool {
	if IsNumeric(a) && IsNumeric(b) {
		return AsFloat64(a) == AsFloat64(b)
	}
	switch x := a.(type) {
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *None:
		_, ok := b.(*None)
		return ok
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equals(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *Set:
		y, ok := b.(*Set)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.order {
			if _, in := y.members[k]; !in {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, hk := range x.order {
			yv, in := y.vals[hk]
			if !in || !Equals(x.vals[hk], yv) {
				return false
			}
		}
		return true
	case *Instance:
		y, ok := b.(*Instance)
		if !ok || x.Class.Name != y.Class.Name {
			return false
		}
		for _, f := range x.Class.Fields {
			if !Equals(x.Values[f], y.Values[f]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Compare orders two values: numerically for numeric-like pairs,
// lexicographically for strings and (recursively) for arrays. Anything
// else is unordered and reports an error.
func Compare(a, b Value) (int, error) {
	if IsNumeric(a) && IsNumeric(b) {
		fa, fb := AsFloat64(a), AsFloat64(b)
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if sa, ok := a.(*String); ok {
		if sb, ok := b.(*String); ok {
			switch {
			case sa.Value < sb.Value:
				return -1, nil
			case sa.Value > sb.Value:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	if la, ok := a.(*Array); ok {
		if lb, ok := b.(*Array); ok {
			n := len(la.Elements)
			if len(lb.Elements) < n {
				n = len(lb.Elements)
			}
			for i := 0; i < n; i++ {
				c, err := Compare(la.Elements[i], lb.Elements[i])
				if err != nil {
					return 0, err
				}
				if c != 0 {
					return c, nil
				}
			}
			return len(la.Elements) - len(lb.Elements), nil
		}
	}
	return 0, fmt.Errorf("comparison not supported between %s and %s", a.Type(), b.Type())
}

// DeepCopy clones containers and instances recursively; scalar values
// are immutable and shared.
func DeepCopy(v Value) Value {
	switch x := v.(type) {
	case *Array:
		out := make([]Value, len(x.Elements))
		for i, e := range x.Elements {
			out[i] = DeepCopy(e)
		}
		return &Array{Elements: out}
	case *Set:
		cp := NewSet()
		for _, m := range x.Values() {
			cp.Add(m.(Hashable))
		}
		return cp
	case *Dict:
		cp := NewDict()
		for _, hk := range x.order {
			cp.Set(x.keys[hk].(Hashable), DeepCopy(x.vals[hk]))
		}
		return cp
	case *Instance:
		vals := make(map[string]Value, len(x.Values))
		for f, fv := range x.Values {
			vals[f] = DeepCopy(fv)
		}
		return &Instance{Class: x.Class, Values: vals}
	default:
		return v
	}
}
