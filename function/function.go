/*
File    : function/function.go

Package function defines Closure, the runtime value produced by a `fn`
declaration. Closures live in their own package, separate from objects,
so that a closure can hold a *scope.Scope (which in turn depends on
objects.Value) without objects importing scope — Closure satisfies
objects.Value structurally.
*/
package function

import (
	"fmt"

	"github.com/Geetur/Bang-PL/objects"
	"github.com/Geetur/Bang-PL/parser"
	"github.com/Geetur/Bang-PL/scope"
)

// Closure is a user-defined function. Bang functions take a single
// named argument list (`fn NAME ARGNAME`) rather than a fixed
// parameter list: every call site's argument values are collected into
// one Array and bound to ArgName in the call frame.
type Closure struct {
	Name    string
	ArgName string
	Body    *parser.Node // Block
	Env     *scope.Scope // defining scope chain; cloned per call, see scope.CloneChain
}

func (c *Closure) Type() objects.Type { return objects.FunctionType }

func (c *Closure) String() string {
	return fmt.Sprintf("<function %s(%s)>", c.Name, c.ArgName)
}
