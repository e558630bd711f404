/*
File    : semantics/semantics.go

The walker mirrors controlflow.Build's shape: one case per Kind, a scope
stack of type maps instead of value maps, and the same push-on-body /
pop-on-exit discipline the evaluator later applies with real scopes.
*/
package semantics

import (
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/parser"
)

type frame map[string]Type

// Analyzer holds the scope-stack of types and loop/function nesting
// counters used to validate break/continue/return placement.
type Analyzer struct {
	stack     []frame
	loopDepth int
	funcDepth int
}

func New() *Analyzer {
	a := &Analyzer{}
	a.stack = []frame{builtinFrame()}
	return a
}

func builtinFrame() frame {
	f := frame{}
	for _, name := range []string{"print", "len", "sum", "min", "max", "sort", "range"} {
		f[name] = FunctionT()
	}
	f["set"] = SetT()
	f["dict"] = DictT()
	return f
}

// Check runs the static pass over a program's top-level statements,
// halting and returning the first diagnostic it finds.
func Check(roots []*parser.Node) *diag.Error {
	return New().Check(roots)
}

// Check on an Analyzer keeps its scope stack alive between calls, so
// the REPL can feed it one line at a time and bindings carry over.
func (a *Analyzer) Check(roots []*parser.Node) *diag.Error {
	for _, r := range roots {
		if err := a.walkStmt(r); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) push()               { a.stack = append(a.stack, frame{}) }
func (a *Analyzer) pop()                { a.stack = a.stack[:len(a.stack)-1] }
func (a *Analyzer) top() frame          { return a.stack[len(a.stack)-1] }

// define writes into the innermost frame that already holds name,
// falling back to creating it in the current frame.
func (a *Analyzer) define(name string, t Type) {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if _, ok := a.stack[i][name]; ok {
			a.stack[i][name] = t
			return
		}
	}
	a.top()[name] = t
}

func (a *Analyzer) lookup(name string) (Type, bool) {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if t, ok := a.stack[i][name]; ok {
			return t, true
		}
	}
	return Type{}, false
}

func serr(n *parser.Node, format string, args ...interface{}) *diag.Error {
	return diag.New(diag.Semantic, n.Pos, format, args...)
}

func (a *Analyzer) walkStmt(n *parser.Node) *diag.Error {
	switch n.Kind {
	case parser.Expression:
		_, err := a.walkExpr(n.Root)
		return err

	case parser.Assignment:
		return a.walkAssignment(n)

	case parser.If:
		return a.walkIf(n)

	case parser.For:
		return a.walkFor(n)

	case parser.While:
		return a.walkWhile(n)

	case parser.Break:
		if a.loopDepth == 0 {
			return serr(n, "'break' used outside of a loop")
		}
		return nil

	case parser.Continue:
		if a.loopDepth == 0 {
			return serr(n, "'continue' used outside of a loop")
		}
		return nil

	case parser.Return:
		if a.funcDepth == 0 {
			return serr(n, "'return' used outside of a function")
		}
		_, err := a.walkExpr(n.Root)
		return err

	case parser.FunctionDecl:
		return a.walkFunctionDecl(n)

	case parser.DataClassDecl:
		a.define(n.Name, Type{Kind: DataClass, Fields: n.FieldNames, ClassName: n.Name})
		return nil

	case parser.Block:
		return a.walkBlock(n)

	default:
		return serr(n, "unexpected statement")
	}
}

func (a *Analyzer) walkBlock(n *parser.Node) *diag.Error {
	for _, c := range n.Elements {
		if err := a.walkStmt(c); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) walkIf(n *parser.Node) *diag.Error {
	if _, err := a.walkExpr(n.Cond); err != nil {
		return err
	}
	a.push()
	err := a.walkBlock(n.Body)
	a.pop()
	if err != nil {
		return err
	}
	for _, el := range n.ElifBlock {
		if _, err := a.walkExpr(el.Cond); err != nil {
			return err
		}
		a.push()
		err := a.walkBlock(el.Body)
		a.pop()
		if err != nil {
			return err
		}
	}
	if n.ElseBlock != nil {
		a.push()
		err := a.walkBlock(n.ElseBlock.Body)
		a.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) walkFor(n *parser.Node) *diag.Error {
	if _, err := a.walkExpr(n.Root); err != nil {
		return err
	}
	a.loopDepth++
	a.push()
	a.define(n.Var.Name, Dyn())
	err := a.walkBlock(n.Body)
	a.pop()
	a.loopDepth--
	return err
}

func (a *Analyzer) walkWhile(n *parser.Node) *diag.Error {
	if _, err := a.walkExpr(n.Cond); err != nil {
		return err
	}
	a.loopDepth++
	a.push()
	err := a.walkBlock(n.Body)
	a.pop()
	a.loopDepth--
	return err
}

func (a *Analyzer) walkFunctionDecl(n *parser.Node) *diag.Error {
	a.define(n.Name, FunctionT())
	a.funcDepth++
	a.push()
	a.define(n.ArgListName, Dyn())
	err := a.walkBlock(n.Body)
	a.pop()
	a.funcDepth--
	return err
}

// assignToNormalOp strips the "=" suffix off a compound-assignment
// operator, reporting whether n.Op was compound at all.
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

func (a *Analyzer) walkAssignment(n *parser.Node) *diag.Error {
	rhsType, err := a.walkExpr(n.Right)
	if err != nil {
		return err
	}
	normalOp, isCompound := assignToNormalOp(n.Op)

	switch n.Left.Kind {
	case parser.Identifier:
		if isCompound {
			lhsType, ok := a.lookup(n.Left.Name)
			if !ok {
				return serr(n, "variable '%s' used before assignment", n.Left.Name)
			}
			if err := a.checkArith(n, lhsType, normalOp, rhsType); err != nil {
				return err
			}
		}
		a.define(n.Left.Name, rhsType)
		return nil

	case parser.Index:
		baseType, err := a.walkExpr(n.Left)
		if err != nil {
			return err
		}
		if isCompound {
			if err := a.checkArith(n, baseType, normalOp, rhsType); err != nil {
				return err
			}
		}
		return nil

	case parser.FieldAccess:
		_, err := a.walkExpr(n.Left)
		return err

	case parser.ArrayLit:
		return a.walkDestructure(n.Left, rhsType, n)

	default:
		return serr(n, "invalid assignment target")
	}
}

// checkArith validates a compound assignment's implied binary operation
// without needing the actual result type (the evaluator recomputes it).
func (a *Analyzer) checkArith(n *parser.Node, l Type, op lexer.Kind, r Type) *diag.Error {
	if l.IsDynamic() || r.IsDynamic() {
		return nil
	}
	if l.IsNumeric() && r.IsNumeric() {
		return nil
	}
	if l.Kind == r.Kind {
		return nil
	}
	if _, ok := crossException(l, r, op); ok {
		return nil
	}
	return serr(n, "invalid operation %s between %s and %s", op, l.Kind, r.Kind)
}

// crossException covers the cross-type '*' rules: string*number and
// array*number (both orders) are legal despite the mismatched kinds.
func crossException(l, r Type, op lexer.Kind) (Type, bool) {
	if op != lexer.Star {
		return Type{}, false
	}
	switch {
	case l.Kind == String && r.IsNumeric():
		return StringT(), true
	case l.IsNumeric() && r.Kind == String:
		return StringT(), true
	case l.Kind == Array && r.IsNumeric():
		return ArrayT(l.Elements, l.Known), true
	case l.IsNumeric() && r.Kind == Array:
		return ArrayT(r.Elements, r.Known), true
	}
	return Type{}, false
}

func (a *Analyzer) walkDestructure(lhs *parser.Node, rhsType Type, assignNode *parser.Node) *diag.Error {
	if !rhsType.IsDynamic() {
		if rhsType.Kind != Array {
			return serr(assignNode, "multi-assignment right-hand side must be an array")
		}
		if rhsType.Known && len(lhs.Elements) > len(rhsType.Elements) {
			return serr(assignNode, "not enough values to unpack")
		}
	}
	for i, elt := range lhs.Elements {
		var elemType Type
		switch {
		case rhsType.IsDynamic(), !rhsType.Known, i >= len(rhsType.Elements):
			elemType = Dyn()
		default:
			elemType = rhsType.Elements[i]
		}
		switch elt.Kind {
		case parser.Identifier:
			a.define(elt.Name, elemType)
		case parser.Index, parser.FieldAccess:
			if _, err := a.walkExpr(elt); err != nil {
				return err
			}
		case parser.ArrayLit:
			if err := a.walkDestructure(elt, elemType, assignNode); err != nil {
				return err
			}
		default:
			return serr(assignNode, "invalid destructuring target")
		}
	}
	return nil
}

func (a *Analyzer) walkExpr(n *parser.Node) (Type, *diag.Error) {
	switch n.Kind {
	case parser.IntLit:
		return IntLitT(n.IntVal), nil
	case parser.FloatLit:
		return NumberT(), nil
	case parser.StringLit:
		return StringLitT(n.StringVal), nil
	case parser.BoolLit:
		return BoolT(), nil
	case parser.NoneLit:
		return NoneT(), nil

	case parser.Identifier:
		t, ok := a.lookup(n.Name)
		if !ok {
			return Dyn(), serr(n, "variable '%s' used before assignment", n.Name)
		}
		return t, nil

	case parser.ArrayLit:
		elems := make([]Type, len(n.Elements))
		for i, el := range n.Elements {
			t, err := a.walkExpr(el)
			if err != nil {
				return Dyn(), err
			}
			elems[i] = t
		}
		return ArrayT(elems, true), nil

	case parser.BinOp:
		return a.walkBinOp(n)

	case parser.UnaryOp:
		return a.walkUnary(n)

	case parser.Index:
		return a.walkIndex(n)

	case parser.FieldAccess:
		return a.walkFieldAccess(n)

	case parser.Call:
		return a.walkCall(n)

	case parser.Expression:
		return a.walkExpr(n.Root)

	default:
		return Dyn(), serr(n, "unexpected expression")
	}
}

func (a *Analyzer) walkUnary(n *parser.Node) (Type, *diag.Error) {
	t, err := a.walkExpr(n.Operand)
	if err != nil {
		return Dyn(), err
	}
	switch n.Op {
	case lexer.Not:
		return BoolT(), nil
	case lexer.UPlus, lexer.UMinus:
		if t.IsDynamic() || t.IsNumeric() {
			return NumberT(), nil
		}
		return Dyn(), serr(n, "unary %s requires a number, got %s", n.Op, t.Kind)
	default:
		return Dyn(), serr(n, "unsupported unary operator %s", n.Op)
	}
}

func (a *Analyzer) walkBinOp(n *parser.Node) (Type, *diag.Error) {
	left, err := a.walkExpr(n.Left)
	if err != nil {
		return Dyn(), err
	}
	right, err := a.walkExpr(n.Right)
	if err != nil {
		return Dyn(), err
	}
	if left.IsDynamic() || right.IsDynamic() {
		return Dyn(), nil
	}

	switch n.Op {
	case lexer.Plus, lexer.Minus, lexer.Star, lexer.Slash, lexer.DSlash, lexer.Pow:
		if left.IsNumeric() && right.IsNumeric() {
			return NumberT(), nil
		}
		if left.Kind == right.Kind {
			return Type{Kind: left.Kind}, nil
		}
		if t, ok := crossException(left, right, n.Op); ok {
			return t, nil
		}
		return Dyn(), serr(n, "invalid operation %s between %s and %s", n.Op, left.Kind, right.Kind)

	case lexer.Eq, lexer.Ne, lexer.Lt, lexer.Le, lexer.Gt, lexer.Ge:
		return BoolT(), nil

	case lexer.And, lexer.Or:
		// Runtime returns whichever operand's value is last evaluated,
		// not a coerced bool, but statically either branch is possible.
		return BoolT(), nil

	case lexer.KwIn:
		switch right.Kind {
		case String:
			// substring containment: both sides must be strings
			if left.Kind != String {
				return Dyn(), serr(n, "'in' on a string requires a string on the left, got %s", left.Kind)
			}
			return BoolT(), nil
		case Array, Set, Dict:
			return BoolT(), nil
		default:
			return Dyn(), serr(n, "'in' requires an array, string, set, or dict on the right, got %s", right.Kind)
		}

	default:
		return Dyn(), serr(n, "unsupported operator %s", n.Op)
	}
}

func (a *Analyzer) walkIndex(n *parser.Node) (Type, *diag.Error) {
	base, err := a.walkExpr(n.Base)
	if err != nil {
		return Dyn(), err
	}

	idxTypes := make([]Type, len(n.Indices))
	for i, idxExpr := range n.Indices {
		t, err := a.walkExpr(idxExpr)
		if err != nil {
			return Dyn(), err
		}
		idxTypes[i] = t
	}

	if base.IsDynamic() {
		return Dyn(), nil
	}
	switch base.Kind {
	case Dict:
		// dict keys may be any hashable value; nothing further is
		// statically knowable
		return Dyn(), nil
	case Array, String:
		for _, t := range idxTypes {
			if !t.IsDynamic() && !t.IsNumeric() {
				return Dyn(), serr(n, "index must be a number, got %s", t.Kind)
			}
		}
	default:
		return Dyn(), serr(n, "value of type %s is not indexable", base.Kind)
	}

	cur := base
	for _, idx := range idxTypes {
		if cur.Kind == Dict {
			return Dyn(), nil
		}
		if cur.Kind != Array && cur.Kind != String {
			return Dyn(), nil
		}
		if !idx.HasIntLit {
			return Dyn(), nil
		}
		i := idx.IntLit
		switch {
		case cur.Kind == Array && cur.Known:
			n2 := int64(len(cur.Elements))
			real := i
			if real < 0 {
				real += n2
			}
			if real < 0 || real >= n2 {
				return Dyn(), serr(n, "index out of bounds")
			}
			cur = cur.Elements[real]
		case cur.Kind == String && cur.HasStrLit:
			n2 := int64(len([]rune(cur.StrLit)))
			real := i
			if real < 0 {
				real += n2
			}
			if real < 0 || real >= n2 {
				return Dyn(), serr(n, "index out of bounds")
			}
			cur = StringT()
		default:
			return Dyn(), nil
		}
	}
	return cur, nil
}

func (a *Analyzer) walkFieldAccess(n *parser.Node) (Type, *diag.Error) {
	cur, err := a.walkExpr(n.Base)
	if err != nil {
		return Dyn(), err
	}
	for _, f := range n.Fields {
		if cur.IsDynamic() {
			return Dyn(), nil
		}
		if cur.Kind != Instance {
			return Dyn(), serr(n, "'%s' is not a field of %s", f, cur.Kind)
		}
		ft, ok := cur.FieldTypes[f]
		if !ok {
			return Dyn(), serr(n, "%s has no field '%s'", cur.ClassName, f)
		}
		cur = ft
	}
	return cur, nil
}

func (a *Analyzer) walkCall(n *parser.Node) (Type, *diag.Error) {
	if n.Callee.Kind == parser.Identifier {
		switch n.Callee.Name {
		case "set":
			if _, ok := a.lookup("set"); ok {
				return a.walkSetCall(n)
			}
		case "dict":
			if _, ok := a.lookup("dict"); ok {
				return a.walkDictCall(n)
			}
		}
	}

	calleeType, err := a.walkExpr(n.Callee)
	if err != nil {
		return Dyn(), err
	}

	if calleeType.Kind == DataClass {
		if len(n.Args) > len(calleeType.Fields) {
			return Dyn(), serr(n, "%s takes at most %d arguments", calleeType.ClassName, len(calleeType.Fields))
		}
		fieldTypes := make(map[string]Type, len(calleeType.Fields))
		for i, f := range calleeType.Fields {
			if i < len(n.Args) {
				t, err := a.walkExpr(n.Args[i])
				if err != nil {
					return Dyn(), err
				}
				fieldTypes[f] = t
			} else {
				fieldTypes[f] = NumberT()
			}
		}
		return Type{Kind: Instance, FieldTypes: fieldTypes, ClassName: calleeType.ClassName}, nil
	}

	for _, arg := range n.Args {
		if _, err := a.walkExpr(arg); err != nil {
			return Dyn(), err
		}
	}
	if !calleeType.IsDynamic() && calleeType.Kind != Function {
		return Dyn(), serr(n, "value of type %s is not callable", calleeType.Kind)
	}
	return Dyn(), nil
}

func (a *Analyzer) walkSetCall(n *parser.Node) (Type, *diag.Error) {
	if len(n.Args) == 1 {
		t, err := a.walkExpr(n.Args[0])
		if err != nil {
			return Dyn(), err
		}
		if t.Kind == Array || t.Kind == Set || t.IsDynamic() {
			return SetT(), nil
		}
		if unhashable(t) {
			return Dyn(), serr(n, "set expects hashable values, got %s", t.Kind)
		}
		return SetT(), nil
	}
	for _, arg := range n.Args {
		t, err := a.walkExpr(arg)
		if err != nil {
			return Dyn(), err
		}
		if unhashable(t) {
			return Dyn(), serr(n, "set expects hashable values, got %s", t.Kind)
		}
	}
	return SetT(), nil
}

func (a *Analyzer) walkDictCall(n *parser.Node) (Type, *diag.Error) {
	if len(n.Args) == 1 {
		t, err := a.walkExpr(n.Args[0])
		if err != nil {
			return Dyn(), err
		}
		if t.Kind == Array && t.Known && len(t.Elements)%2 != 0 {
			return Dyn(), serr(n, "dict requires an even number of elements")
		}
		return DictT(), nil
	}
	if len(n.Args)%2 != 0 {
		return Dyn(), serr(n, "dict expects key/value pairs")
	}
	for i := 0; i < len(n.Args); i += 2 {
		kt, err := a.walkExpr(n.Args[i])
		if err != nil {
			return Dyn(), err
		}
		if unhashable(kt) {
			return Dyn(), serr(n, "dict keys must be hashable, got %s", kt.Kind)
		}
		if _, err := a.walkExpr(n.Args[i+1]); err != nil {
			return Dyn(), err
		}
	}
	return DictT(), nil
}
