/*
File    : std/collections.go

The container builders: set and dict. Both accept either a single
array/set argument (treated as the element list) or the spread argument
list, and both reject unhashable members/keys at construction.
*/
package std

import (
	"fmt"
	"io"

	"github.com/Geetur/Bang-PL/objects"
)

func init() {
	register(
		&Builtin{Name: "set", Call: builtinSet},
		&Builtin{Name: "dict", Call: builtinDict},
	)
}

func spreadCollection(args []objects.Value) []objects.Value {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case *objects.Array:
			return v.Elements
		case *objects.Set:
			return v.Values()
		}
	}
	return args
}

func builtinSet(_ io.Writer, args []objects.Value) (objects.Value, error) {
	members := spreadCollection(args)
	out := objects.NewSet()
	for _, m := range members {
		h, ok := m.(objects.Hashable)
		if !ok {
			return nil, fmt.Errorf("set expects hashable types only")
		}
		out.Add(h)
	}
	return out, nil
}

func builtinDict(_ io.Writer, args []objects.Value) (objects.Value, error) {
	pairs := spreadCollection(args)
	out := objects.NewDict()
	for i := 0; i < len(pairs); i += 2 {
		if i+1 >= len(pairs) {
			return nil, fmt.Errorf("every key must be paired with a value")
		}
		k, ok := pairs[i].(objects.Hashable)
		if !ok {
			return nil, fmt.Errorf("dict initalization expects key to be hashable")
		}
		out.Set(k, pairs[i+1])
	}
	return out, nil
}
