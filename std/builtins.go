/*
File    : std/builtins.go

Package std holds Bang's builtin functions. Each builtin is itself a
runtime value (callable with the same `name{args}` syntax as user
functions) carrying a Go callback; the evaluator seeds all of them into
frame 0 of the runtime scope stack, mirroring the type-level seeding the
semantic analyzer does.

builtins.go defines the registry plus print, len, and range; the
reduction builtins (sum/min/max/sort) live in reduce.go and the
container builders (set/dict) in collections.go.
*/
package std

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Geetur/Bang-PL/objects"
)

// Callback is the signature every builtin implements. The writer is the
// evaluator's output sink (print is the only builtin that writes).
// Errors come back position-free; the evaluator pins them to the call
// node.
type Callback func(w io.Writer, args []objects.Value) (objects.Value, error)

// Builtin is a callable runtime value backed by a Go function.
type Builtin struct {
	Name string
	Call Callback
}

func (b *Builtin) Type() objects.Type { return objects.FunctionType }
func (b *Builtin) String() string     { return fmt.Sprintf("<builtin %s>", b.Name) }

// Builtins lists every builtin; files in this package register their
// group at init time, the evaluator binds them all into its root scope.
var Builtins = make([]*Builtin, 0)

func register(bs ...*Builtin) {
	Builtins = append(Builtins, bs...)
}

func init() {
	register(
		&Builtin{Name: "print", Call: builtinPrint},
		&Builtin{Name: "len", Call: builtinLen},
		&Builtin{Name: "range", Call: builtinRange},
	)
}

// builtinPrint writes its arguments separated by spaces, followed by a
// newline.
func builtinPrint(w io.Writer, args []objects.Value) (objects.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
	return objects.NoneValue, nil
}

func builtinLen(_ io.Writer, args []objects.Value) (objects.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len expects exactly one arg")
	}
	var n int
	switch v := args[0].(type) {
	case *objects.String:
		n = utf8.RuneCountInString(v.Value)
	case *objects.Array:
		n = len(v.Elements)
	case *objects.Set:
		n = v.Len()
	case *objects.Dict:
		n = v.Len()
	case *objects.Instance:
		n = len(v.Class.Fields)
	default:
		return nil, fmt.Errorf("len expects iterable not %s", args[0].Type())
	}
	return &objects.Integer{Value: int64(n)}, nil
}

// builtinRange materializes range{end} / range{start, end} /
// range{start, end, step} as an ordered array of integers. A single
// array argument is unpacked into the argument list first.
func builtinRange(_ io.Writer, args []objects.Value) (objects.Value, error) {
	if len(args) == 1 {
		if arr, ok := args[0].(*objects.Array); ok {
			args = arr.Elements
		}
	}
	if len(args) == 0 {
		return &objects.Array{}, nil
	}
	if len(args) > 3 {
		return nil, fmt.Errorf("range function expects three args only")
	}

	ints := make([]int64, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *objects.Integer:
			ints[i] = v.Value
		case *objects.Bool:
			if v.Value {
				ints[i] = 1
			}
		default:
			return nil, fmt.Errorf("start, jump, and end arguments must be int type")
		}
	}

	var start, end, jmp int64 = 0, 0, 1
	switch len(ints) {
	case 1:
		end = ints[0]
	case 2:
		start, end = ints[0], ints[1]
	case 3:
		start, end, jmp = ints[0], ints[1], ints[2]
	}
	if jmp == 0 {
		return nil, fmt.Errorf("jump arg (arg 3) can't be zero due to infinite evaluation")
	}

	var out []objects.Value
	if jmp > 0 {
		for i := start; i < end; i += jmp {
			out = append(out, &objects.Integer{Value: i})
		}
	} else {
		for i := start; i > end; i += jmp {
			out = append(out, &objects.Integer{Value: i})
		}
	}
	return &objects.Array{Elements: out}, nil
}
