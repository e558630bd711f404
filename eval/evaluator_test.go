package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geetur/Bang-PL/controlflow"
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/parser"
	"github.com/Geetur/Bang-PL/semantics"
)

// runProgram drives the full pipeline the way the CLI does and returns
// whatever print produced plus the first diagnostic of any pass.
func runProgram(t *testing.T, src string) (string, *diag.Error) {
	t.Helper()
	toks, lerr := lexer.Tokenize(src)
	if lerr != nil {
		return "", lerr
	}
	nodes, perr := parser.Parse(toks)
	if perr != nil {
		return "", perr
	}
	roots, cerr := controlflow.Build(nodes)
	if cerr != nil {
		return "", cerr
	}
	if serr := semantics.Check(roots); serr != nil {
		return "", serr
	}

	var buf bytes.Buffer
	ev := New()
	ev.SetWriter(&buf)
	derr := ev.Run(roots)
	return buf.String(), derr
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	out, err := runProgram(t, src)
	require.Nil(t, err, "program %q", src)
	return out
}

func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"addition", "x = 1\ny = 2\nprint{x+y}\n", "3\n"},
		{"indexing", "arr = [10,20,30]\nprint{arr[1]}\n", "20\n"},
		{"function", "fn add args\nreturn args[0]+args[1]\nend\nprint{add{2,3}}\n", "5\n"},
		{"dataclass", "data P [x,y]\np=P{1,2}\nprint{p.x + p.y}\n", "3\n"},
		{"for range", "for i range{3}\nprint{i}\nend\n", "0\n1\n2\n"},
		{"recursion", "fn f args\nif args[0]<2\nreturn args[0]\nend\nreturn f{args[0]-1}+f{args[0]-2}\nend\nprint{f{6}}\n", "8\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustRun(t, tt.src))
		})
	}
}

func TestDivisionByZeroIsEvaluatorError(t *testing.T) {
	_, err := runProgram(t, "x=5\ny=0\nz=x/y\n")
	require.NotNil(t, err)
	assert.Equal(t, diag.Evaluator, err.Kind)
	assert.Equal(t, 4, err.Kind.ExitCode())
	assert.Contains(t, err.Message, "division by zero")
}

func TestStaticOutOfBoundsIsSemanticError(t *testing.T) {
	_, err := runProgram(t, "arr=[1]\nx=arr[2]\n")
	require.NotNil(t, err)
	assert.Equal(t, diag.Semantic, err.Kind)
	assert.Equal(t, 3, err.Kind.ExitCode())
}

func TestEmptyProgramIsANoOp(t *testing.T) {
	assert.Equal(t, "", mustRun(t, ""))
	assert.Equal(t, "", mustRun(t, "# just a comment\n"))
}

func TestArithmetic(t *testing.T) {
	tests := []struct{ src, want string }{
		{"print{7 // 2}", "3\n"},
		{"print{-7 // 2}", "-4\n"},
		{"print{6 / 2}", "3.0\n"},
		{"print{5 / 2}", "2.5\n"},
		{"print{2 ** 10}", "1024\n"},
		{"print{2 ** -1}", "0.5\n"},
		{"print{2.5 + 1}", "3.5\n"},
		{"print{true + true}", "2\n"},
		{"print{10 - 4 - 3}", "3\n"},
		{"print{1 < 2}", "true\n"},
		{"print{2 <= 1}", "false\n"},
		{"print{1 == 1.0}", "true\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestShortCircuitReturnsOperand(t *testing.T) {
	tests := []struct{ src, want string }{
		{`print{0 || "x"}`, "x\n"},
		{`print{"a" || "b"}`, "a\n"},
		{`print{0 && "x"}`, "0\n"},
		{`print{1 && "x"}`, "x\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	// the right side would divide by zero if evaluated
	out := mustRun(t, "x = 0\ny = x && 1/x\nprint{y}")
	assert.Equal(t, "0\n", out)
}

func TestStringOperators(t *testing.T) {
	tests := []struct{ src, want string }{
		{`print{"ab" + "cd"}`, "abcd\n"},
		{`print{"banana" - "an"}`, "ba\n"},
		{`print{"a,b,c" / ","}`, "[a, b, c]\n"},
		{`print{"ab" / ""}`, "[a, b]\n"},
		{`print{"ab" * 3}`, "ababab\n"},
		{`print{2 * "ab"}`, "abab\n"},
		{`print{"a" in "abc"}`, "true\n"},
		{`print{"z" in "abc"}`, "false\n"},
		{`print{"a" < "b"}`, "true\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestListOperators(t *testing.T) {
	tests := []struct{ src, want string }{
		{"print{[1,2] + [3]}", "[1, 2, 3]\n"},
		{"print{[1,2,3,2] - [2]}", "[1, 3]\n"},
		{"print{[1,2] * [3,4]}", "[3, 8]\n"},
		{"print{[2,4] * [3]}", "[6, 12]\n"},
		{"print{[4,8] / [2]}", "[2.0, 4.0]\n"},
		{"print{[4,9] // [2]}", "[2, 4]\n"},
		{"print{[1,2] * 2}", "[1, 1, 2, 2]\n"},
		{"print{[1,2] == [1,2]}", "true\n"},
		{"print{1 in [1,2]}", "true\n"},
		{"print{3 in [1,2]}", "false\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestListLengthMismatch(t *testing.T) {
	_, err := runProgram(t, "x = [1,2] * [1,2,3]")
	require.NotNil(t, err)
	assert.Equal(t, diag.Evaluator, err.Kind)
}

func TestListDivisionByZeroElement(t *testing.T) {
	_, err := runProgram(t, "x = [1,2] / [0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "division by zero")
}

func TestSetOperators(t *testing.T) {
	tests := []struct{ src, want string }{
		{"print{len{set{1,2} + set{2,3}}}", "3\n"},
		{"print{len{set{1,2,3} - set{2}}}", "2\n"},
		{"print{set{1} <= set{1,2}}", "true\n"},
		{"print{set{1} < set{1}}", "false\n"},
		{"print{set{1,2} >= set{2}}", "true\n"},
		{"print{set{1,2} == set{2,1}}", "true\n"},
		{"print{1 in set{1,2}}", "true\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestDictOperators(t *testing.T) {
	out := mustRun(t, `a = dict{"x", 1}
b = dict{"y", 2}
c = a + b
print{len{c}, c["x"], c["y"]}
d = c - b
print{len{d}, "x" in d, "y" in d}`)
	assert.Equal(t, "2 1 2\n1 true false\n", out)
}

func TestIndexingRuntime(t *testing.T) {
	tests := []struct{ src, want string }{
		{"arr = [10, 20, 30]\nprint{arr[-1]}", "30\n"},
		{"s = \"hello\"\nprint{s[1], s[-1]}", "e o\n"},
		{"m = [[1,2],[3,4]]\nprint{m[1][0]}", "3\n"},
		{"d = dict{\"k\", 7}\nprint{d[\"k\"]}", "7\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestRuntimeIndexOutOfBounds(t *testing.T) {
	// the bound is dynamic, so only the evaluator can catch it
	_, err := runProgram(t, "arr = range{3}\nx = arr[5]")
	require.NotNil(t, err)
	assert.Equal(t, diag.Evaluator, err.Kind)
	assert.Contains(t, err.Message, "out of bounds")

	_, err = runProgram(t, "d = dict{\"k\", 1}\nx = d[\"missing\"]")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "out of bounds")
}

func TestAssignments(t *testing.T) {
	tests := []struct{ src, want string }{
		{"x = 1\nx += 2\nprint{x}", "3\n"},
		{"x = 10\nx /= 4\nprint{x}", "2.5\n"},
		{"arr = [1,2,3]\narr[0] = 9\nprint{arr}", "[9, 2, 3]\n"},
		{"arr = [1,2,3]\narr[-1] = 9\nprint{arr}", "[1, 2, 9]\n"},
		{"arr = [1,2,3]\narr[1] += 10\nprint{arr}", "[1, 12, 3]\n"},
		{"m = [[1,2],[3,4]]\nm[1][0] = 9\nprint{m}", "[[1, 2], [9, 4]]\n"},
		{"d = dict{}\nd[\"k\"] = 1\nprint{d[\"k\"]}", "1\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestDestructuring(t *testing.T) {
	tests := []struct{ src, want string }{
		{"[a, b] = [1, 2]\nprint{a, b}", "1 2\n"},
		{"[a, b] = [1, 2, 3]\nprint{a, b}", "1 2\n"},
		{"[a, [b, c]] = [1, [2, 3]]\nprint{a, b, c}", "1 2 3\n"},
		{"a = 1\nb = 2\n[a, b] = [10, 20]\nprint{a, b}", "10 20\n"},
		{"a = 1\nb = 2\n[a, b] += [10, 20]\nprint{a, b}", "11 22\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestDestructuringRuntimeErrors(t *testing.T) {
	_, err := runProgram(t, "[a, b] = range{1}")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unpack")

	_, err = runProgram(t, "[a, b] = sum{1}")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "list")
}

func TestFieldAssignment(t *testing.T) {
	out := mustRun(t, `data P [x, y]
data Line [a, b]
p = P{1, 2}
p.x = 9
l = Line{p, P{3, 4}}
l.b.y = 99
print{p.x, p.y}
print{l.b.x, l.b.y}`)
	assert.Equal(t, "9 2\n3 99\n", out)
}

func TestDataclassDefaults(t *testing.T) {
	out := mustRun(t, "data P [x, y, z]\np = P{7}\nprint{p.x, p.y, p.z}")
	assert.Equal(t, "7 0 0\n", out)
}

func TestIfElifElse(t *testing.T) {
	src := func(n int) string {
		return strings.ReplaceAll(`x = N
if x < 2
print{"small"}
elif x < 5
print{"mid"}
end
else
print{"big"}
end
end`, "N", map[int]string{1: "1", 3: "3", 9: "9"}[n])
	}
	assert.Equal(t, "small\n", mustRun(t, src(1)))
	assert.Equal(t, "mid\n", mustRun(t, src(3)))
	assert.Equal(t, "big\n", mustRun(t, src(9)))
}

func TestWhileWithBreakContinue(t *testing.T) {
	out := mustRun(t, `i = 0
while true
i += 1
if i == 2
continue
end
if i > 4
break
end
print{i}
end`)
	assert.Equal(t, "1\n3\n4\n", out)
}

func TestBreakOnlyExitsInnerLoop(t *testing.T) {
	out := mustRun(t, `for i range{2}
for j range{5}
if j == 1
break
end
print{i, j}
end
end`)
	assert.Equal(t, "0 0\n1 0\n", out)
}

func TestForBounds(t *testing.T) {
	assert.Equal(t, "0\n1\n2\n", mustRun(t, "for i 3\nprint{i}\nend"))
	assert.Equal(t, "0\n-1\n-2\n", mustRun(t, "for i -3\nprint{i}\nend"))
	assert.Equal(t, "", mustRun(t, "for i 0\nprint{i}\nend"))
	assert.Equal(t, "a\nb\n", mustRun(t, "for c \"ab\"\nprint{c}\nend"))
	assert.Equal(t, "10\n20\n", mustRun(t, "for v [10, 20]\nprint{v}\nend"))
	assert.Equal(t, "k\n", mustRun(t, "for k dict{\"k\", 1}\nprint{k}\nend"))
}

func TestForBoundNotIterable(t *testing.T) {
	_, err := runProgram(t, "x = none\nfor i x\nprint{i}\nend")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "not iterable")
}

func TestReturnUnwindsThroughLoops(t *testing.T) {
	out := mustRun(t, `fn firstEven args
for x args[0]
if x - x // 2 * 2 == 0
return x
end
end
return -1
end
print{firstEven{[3, 5, 8, 9]}}`)
	assert.Equal(t, "8\n", out)
}

func TestFunctionReturnsZeroByDefault(t *testing.T) {
	assert.Equal(t, "0\n", mustRun(t, "fn f args\nx = 1\nend\nprint{f{}}"))
}

func TestClosureWritesStayInsideCall(t *testing.T) {
	out := mustRun(t, `x = 1
fn bump args
x = x + 1
return x
end
print{bump{}}
print{x}`)
	assert.Equal(t, "2\n1\n", out)
}

func TestClosureSeesReassignmentsInCapturedFrames(t *testing.T) {
	// capture is by frame reference: x is rebound after f is declared,
	// and the call observes the new value
	out := mustRun(t, `x = 0
fn f args
return x
end
x = 42
print{f{}}`)
	assert.Equal(t, "42\n", out)
}

func TestCallingNonCallableAtRuntime(t *testing.T) {
	_, err := runProgram(t, "fn f args\nreturn 1\nend\ng = f{}\ng{2}")
	require.NotNil(t, err)
	assert.Equal(t, diag.Evaluator, err.Kind)
	assert.Contains(t, err.Message, "non-function")
}

func TestFunctionValuesAreFirstClass(t *testing.T) {
	out := mustRun(t, `fn double args
return args[0] * 2
end
fn apply args
return args[0]{args[1]}
end
print{apply{double, 5}}`)
	assert.Equal(t, "10\n", out)
}

func TestBuiltinsThroughPrograms(t *testing.T) {
	tests := []struct{ src, want string }{
		{"print{len{\"abc\"}, len{[1,2]}}", "3 2\n"},
		{"print{sum{[1,2,3]}}", "6\n"},
		{"print{min{3,1,2}, max{3,1,2}}", "1 3\n"},
		{"print{sort{[3,1,2]}}", "[1, 2, 3]\n"},
		{"print{sort{\"b\", \"a\"}}", "[a, b]\n"},
		{"print{len{set{1, 1.0, true, 2}}}", "2\n"},
		{"print{range{2, 8, 2}}", "[2, 4, 6]\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestBuiltinErrorsCarryCallPosition(t *testing.T) {
	_, err := runProgram(t, "x = 1\ny = range{1, 2, 0}")
	require.NotNil(t, err)
	assert.Equal(t, diag.Evaluator, err.Kind)
	assert.Equal(t, 2, err.Pos.Line)
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct{ src, want string }{
		{"print{-3 + 4}", "1\n"},
		{"print{!0, !1, !\"\"}", "true false true\n"},
		{"x = 5\nprint{-x}", "-5\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src), "src %q", tt.src)
	}
}

func TestUnaryMinusRejectsNonNumbers(t *testing.T) {
	// sum of a single value returns it unchanged but types as dynamic,
	// so only the evaluator can reject the negation
	_, err := runProgram(t, "x = sum{\"a\"}\ny = -x")
	require.NotNil(t, err)
	assert.Equal(t, diag.Evaluator, err.Kind)
}

func TestNoneSemantics(t *testing.T) {
	out := mustRun(t, "x = none\nprint{x}\nif x\nprint{\"yes\"}\nend\nprint{x == none}")
	assert.Equal(t, "none\ntrue\n", out)
}

func TestListRepetitionDeepCopies(t *testing.T) {
	out := mustRun(t, `row = [[0]] * 2
row[0][0] = 9
print{row}`)
	assert.Equal(t, "[[9], [0]]\n", out)
}

func TestEvaluatorStatePersistsAcrossRuns(t *testing.T) {
	var buf bytes.Buffer
	ev := New()
	ev.SetWriter(&buf)

	run := func(src string) {
		toks, _ := lexer.Tokenize(src)
		nodes, _ := parser.Parse(toks)
		roots, _ := controlflow.Build(nodes)
		require.Nil(t, ev.Run(roots))
	}
	run("x = 41")
	run("x = x + 1")
	run("print{x}")
	assert.Equal(t, "42\n", buf.String())
}

func TestTraceOutput(t *testing.T) {
	var out, trace bytes.Buffer
	ev := New()
	ev.SetWriter(&out)
	ev.Trace = &trace

	toks, _ := lexer.Tokenize("x = 1\nprint{x}")
	nodes, _ := parser.Parse(toks)
	roots, _ := controlflow.Build(nodes)
	require.Nil(t, ev.Run(roots))

	assert.Contains(t, trace.String(), "line 1: Assignment")
	assert.Contains(t, trace.String(), "line 2: Expression")
}

func TestPureRunsAreDeterministic(t *testing.T) {
	src := "s = set{3, 1, 2}\nprint{sort{s}}\nprint{sum{s}}"
	first := mustRun(t, src)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, mustRun(t, src))
	}
}
