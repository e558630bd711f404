/*
File    : eval/eval_statements.go

Statement-level execution: the per-kind dispatch, block walking,
conditionals, loops, and the function/dataclass declarations.
*/
package eval

import (
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/function"
	"github.com/Geetur/Bang-PL/objects"
	"github.com/Geetur/Bang-PL/parser"
	"github.com/Geetur/Bang-PL/scope"
)

func (e *Evaluator) execStmt(n *parser.Node) (flow, *diag.Error) {
	e.trace(n)
	switch n.Kind {
	case parser.Expression:
		_, err := e.evalExpr(n.Root)
		return normal, err

	case parser.Assignment:
		return normal, e.execAssignment(n)

	case parser.If:
		return e.execIf(n)

	case parser.For:
		return e.execFor(n)

	case parser.While:
		return e.execWhile(n)

	case parser.Break:
		return flow{kind: flowBreak}, nil

	case parser.Continue:
		return flow{kind: flowContinue}, nil

	case parser.Return:
		v, err := e.evalExpr(n.Root)
		if err != nil {
			return normal, err
		}
		return flow{kind: flowReturn, value: v}, nil

	case parser.FunctionDecl:
		e.declareFunction(n)
		return normal, nil

	case parser.DataClassDecl:
		e.initializeVar(n.Name, &objects.DataClass{Name: n.Name, Fields: n.FieldNames})
		return normal, nil

	case parser.Block:
		return e.execBlock(n)

	default:
		return normal, rerr(n, "unexpected statement")
	}
}

// execBlock runs children in the current frame, stopping at the first
// error or non-normal flow, which propagates to the enclosing
// construct.
func (e *Evaluator) execBlock(n *parser.Node) (flow, *diag.Error) {
	for _, c := range n.Elements {
		fl, err := e.execStmt(c)
		if err != nil {
			return normal, err
		}
		if fl.kind != flowNormal {
			return fl, nil
		}
	}
	return normal, nil
}

// execIf runs exactly one branch: the if body on a truthy condition,
// else the first truthy elif, else the else body if present. Each
// branch gets its own frame.
func (e *Evaluator) execIf(n *parser.Node) (flow, *diag.Error) {
	runBranch := func(body *parser.Node) (flow, *diag.Error) {
		e.push()
		fl, err := e.execBlock(body)
		e.pop()
		return fl, err
	}

	cond, err := e.evalExpr(n.Cond)
	if err != nil {
		return normal, err
	}
	if objects.Truthy(cond) {
		return runBranch(n.Body)
	}
	for _, el := range n.ElifBlock {
		cond, err := e.evalExpr(el.Cond)
		if err != nil {
			return normal, err
		}
		if objects.Truthy(cond) {
			return runBranch(el.Body)
		}
	}
	if n.ElseBlock != nil {
		return runBranch(n.ElseBlock.Body)
	}
	return normal, nil
}

// execFor iterates an integer bound from 0 toward the bound
// (exclusive, stepping toward it), or any iterable value element by
// element. The loop owns a single frame; the loop variable is rebound
// in it each iteration.
func (e *Evaluator) execFor(n *parser.Node) (flow, *diag.Error) {
	bound, err := e.evalExpr(n.Root)
	if err != nil {
		return normal, err
	}

	items, err := iterationItems(bound, n)
	if err != nil {
		return normal, err
	}

	e.push()
	defer e.pop()
	for _, item := range items {
		e.Scp.Bind(n.Var.Name, item)
		fl, err := e.execBlock(n.Body)
		if err != nil {
			return normal, err
		}
		switch fl.kind {
		case flowBreak:
			return normal, nil
		case flowContinue:
			continue
		case flowReturn:
			return fl, nil
		}
	}
	return normal, nil
}

// iterationItems materializes a for bound as its sequence of loop
// values: counting for integers, elements for arrays, members for
// sets, keys for dicts, one-character strings for strings.
func iterationItems(bound objects.Value, n *parser.Node) ([]objects.Value, *diag.Error) {
	switch v := bound.(type) {
	case *objects.Integer:
		var step int64 = 1
		if v.Value < 0 {
			step = -1
		}
		var out []objects.Value
		for i := int64(0); i != v.Value; i += step {
			out = append(out, &objects.Integer{Value: i})
		}
		return out, nil
	case *objects.Array:
		return v.Elements, nil
	case *objects.Set:
		return v.Values(), nil
	case *objects.Dict:
		return v.Keys(), nil
	case *objects.String:
		var out []objects.Value
		for _, r := range v.Value {
			out = append(out, &objects.String{Value: string(r)})
		}
		return out, nil
	default:
		return nil, rerr(n, "bound not iterable")
	}
}

func (e *Evaluator) execWhile(n *parser.Node) (flow, *diag.Error) {
	e.push()
	defer e.pop()
	for {
		cond, err := e.evalExpr(n.Cond)
		if err != nil {
			return normal, err
		}
		if !objects.Truthy(cond) {
			return normal, nil
		}
		fl, err := e.execBlock(n.Body)
		if err != nil {
			return normal, err
		}
		switch fl.kind {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return fl, nil
		}
	}
}

// declareFunction binds the closure before capturing the chain, so the
// captured frames (shared by reference until call time) already hold
// the function's own name and recursion works.
func (e *Evaluator) declareFunction(n *parser.Node) {
	cl := &function.Closure{Name: n.Name, ArgName: n.ArgListName, Body: n.Body}
	e.initializeVar(n.Name, cl)
	cl.Env = e.Scp
}

// callClosure runs a user function: clone every captured frame, push a
// fresh frame binding the whole argument list to the closure's
// arg-list name, execute the body, and convert a return flow into the
// call's value. Normal completion yields integer 0.
func (e *Evaluator) callClosure(cl *function.Closure, args []objects.Value) (objects.Value, *diag.Error) {
	saved := e.Scp
	e.Scp = scope.New(cl.Env.CloneChain())
	e.Scp.Bind(cl.ArgName, &objects.Array{Elements: args})
	fl, err := e.execBlock(cl.Body)
	e.Scp = saved
	if err != nil {
		return nil, err
	}
	if fl.kind == flowReturn {
		return fl.value, nil
	}
	return &objects.Integer{Value: 0}, nil
}
