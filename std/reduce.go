/*
File    : std/reduce.go

The reduction builtins: sum, min, max, sort. They share the same
argument convention — a single array or set argument is the sequence, a
single anything-else is returned unchanged, and otherwise the spread
argument list is the sequence.
*/
package std

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Geetur/Bang-PL/objects"
)

func init() {
	register(
		&Builtin{Name: "sum", Call: builtinSum},
		&Builtin{Name: "min", Call: builtinMin},
		&Builtin{Name: "max", Call: builtinMax},
		&Builtin{Name: "sort", Call: builtinSort},
	)
}

// sequenceArgs resolves the shared argument convention. When the single
// argument is not a sequence it comes back as passthrough and the
// caller returns it unchanged.
func sequenceArgs(args []objects.Value) (seq []objects.Value, passthrough objects.Value) {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case *objects.Array:
			return v.Elements, nil
		case *objects.Set:
			return v.Values(), nil
		default:
			return nil, args[0]
		}
	}
	return args, nil
}

func builtinSum(_ io.Writer, args []objects.Value) (objects.Value, error) {
	seq, single := sequenceArgs(args)
	if single != nil {
		return single, nil
	}
	if len(seq) == 0 {
		return &objects.Integer{Value: 0}, nil
	}

	expected := seq[0].Type()
	for _, v := range seq {
		if v.Type() != expected {
			return nil, fmt.Errorf("sum function expects argument list of homogenous type")
		}
	}

	switch expected {
	case objects.IntegerType, objects.BoolType:
		var total int64
		for _, v := range seq {
			total += asInt64(v)
		}
		return &objects.Integer{Value: total}, nil
	case objects.FloatType:
		var total float64
		for _, v := range seq {
			total += v.(*objects.Float).Value
		}
		return &objects.Float{Value: total}, nil
	case objects.StringType:
		var sb strings.Builder
		for _, v := range seq {
			sb.WriteString(v.(*objects.String).Value)
		}
		return &objects.String{Value: sb.String()}, nil
	case objects.ArrayType:
		var out []objects.Value
		for _, v := range seq {
			out = append(out, v.(*objects.Array).Elements...)
		}
		return &objects.Array{Elements: out}, nil
	case objects.SetType:
		union := objects.NewSet()
		for _, v := range seq {
			for _, m := range v.(*objects.Set).Values() {
				union.Add(m.(objects.Hashable))
			}
		}
		return union, nil
	case objects.DictType:
		merged := objects.NewDict()
		for _, v := range seq {
			d := v.(*objects.Dict)
			for _, k := range d.Keys() {
				val, _ := d.Get(k.(objects.Hashable))
				merged.Set(k.(objects.Hashable), val)
			}
		}
		return merged, nil
	default:
		return nil, fmt.Errorf("sum function does not support %s elements", expected)
	}
}

func asInt64(v objects.Value) int64 {
	switch x := v.(type) {
	case *objects.Integer:
		return x.Value
	case *objects.Bool:
		if x.Value {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func reduceExtreme(name string, args []objects.Value, wantLess bool) (objects.Value, error) {
	seq, single := sequenceArgs(args)
	if single != nil {
		return single, nil
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("%s function expects atleast one arg", name)
	}

	expected := seq[0].Type()
	best := seq[0]
	for _, v := range seq[1:] {
		if v.Type() != expected {
			return nil, fmt.Errorf("%s function expects argument list of homogenous type", name)
		}
		c, err := objects.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if (wantLess && c < 0) || (!wantLess && c > 0) {
			best = v
		}
	}
	return best, nil
}

func builtinMin(_ io.Writer, args []objects.Value) (objects.Value, error) {
	return reduceExtreme("min", args, true)
}

func builtinMax(_ io.Writer, args []objects.Value) (objects.Value, error) {
	return reduceExtreme("max", args, false)
}

// builtinSort returns a new sorted array; the input is never mutated.
func builtinSort(_ io.Writer, args []objects.Value) (objects.Value, error) {
	seq, single := sequenceArgs(args)
	if single != nil {
		return single, nil
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("sort function expects atleast one arg")
	}

	out := make([]objects.Value, len(seq))
	copy(out, seq)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := objects.Compare(out[i], out[j])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, fmt.Errorf("sort function expects argument list of homogenous, sortable type")
	}
	return &objects.Array{Elements: out}, nil
}
