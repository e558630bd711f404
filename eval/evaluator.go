/*
File    : eval/evaluator.go

Package eval is the final pipeline pass: a tree-walking interpreter
over the block-nested AST. It runs against a runtime scope chain whose
root frame is pre-seeded with the builtins, exactly mirroring the
scope-stack discipline of the semantic analyzer.

break/continue/return are modeled as an explicit flow sum threaded
through block execution rather than unwinding signals: every statement
walker returns a flow, loops inspect it, and function calls convert
flowReturn into the call's value. A non-normal flow can therefore never
escape its designated catch point — the type system has nowhere for it
to go.
*/
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/objects"
	"github.com/Geetur/Bang-PL/parser"
	"github.com/Geetur/Bang-PL/scope"
	"github.com/Geetur/Bang-PL/std"
)

type flowKind int

const (
	flowNormal flowKind = iota
	flowBreak
	flowContinue
	flowReturn
)

// flow is the result of executing one statement: either fall through
// to the next statement, or unwind to the nearest loop (break,
// continue) or function call (return, carrying a value).
type flow struct {
	kind  flowKind
	value objects.Value
}

var normal = flow{kind: flowNormal}

// Evaluator executes a program against a persistent scope chain. One
// Evaluator can run many root lists in sequence (the REPL relies on
// this); bindings survive between runs.
type Evaluator struct {
	Scp    *scope.Scope
	Writer io.Writer // sink for print
	Trace  io.Writer // when non-nil, statement-level trace output
}

func New() *Evaluator {
	root := scope.New(nil)
	for _, b := range std.Builtins {
		root.Bind(b.Name, b)
	}
	return &Evaluator{Scp: root, Writer: os.Stdout}
}

// SetWriter redirects print output, mainly so tests can capture it.
func (e *Evaluator) SetWriter(w io.Writer) { e.Writer = w }

// Run executes a block-nested program. The control-flow parser rejects
// a return outside any function and the semantic analyzer rejects
// break/continue outside a loop, so on a checked program any flow
// coming back is normal.
func (e *Evaluator) Run(roots []*parser.Node) *diag.Error {
	for _, r := range roots {
		if _, err := e.execStmt(r); err != nil {
			return err
		}
	}
	return nil
}

// EvalExpr evaluates a single expression subtree against the current
// scope chain. The REPL uses this to echo expression-statement values.
func (e *Evaluator) EvalExpr(n *parser.Node) (objects.Value, *diag.Error) {
	return e.evalExpr(n)
}

func (e *Evaluator) push() { e.Scp = scope.New(e.Scp) }
func (e *Evaluator) pop()  { e.Scp = e.Scp.Parent }

// initializeVar writes to the innermost frame already holding name,
// falling back to creating the binding in the current frame.
func (e *Evaluator) initializeVar(name string, v objects.Value) {
	if !e.Scp.Assign(name, v) {
		e.Scp.Bind(name, v)
	}
}

func (e *Evaluator) trace(n *parser.Node) {
	if e.Trace == nil {
		return
	}
	fmt.Fprintf(e.Trace, "trace: line %d: %s\n", n.Pos.Line, n.Kind)
}

func rerr(n *parser.Node, format string, args ...interface{}) *diag.Error {
	return diag.New(diag.Evaluator, n.Pos, format, args...)
}
