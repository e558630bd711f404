/*
File    : repl/repl.go

Package repl implements Bang's interactive session: readline-backed
line editing with history, colored feedback, and a persistent
interpreter — the semantic analyzer and evaluator both live across
lines, so bindings made on one line are visible on the next.

Each entered line runs the full pipeline. Multi-line constructs are
entered on a single line using ';' separators (the logical-line
splitter treats ';' exactly like a newline):

    Bang >>> fn double args; return args[0]*2; end
    Bang >>> print{double{21}}
    42
*/
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/Geetur/Bang-PL/controlflow"
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/eval"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/objects"
	"github.com/Geetur/Bang-PL/parser"
	"github.com/Geetur/Bang-PL/semantics"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl bundles the session's visual configuration with its persistent
// interpreter state.
type Repl struct {
	Banner  string
	Version string
	Line    string
	Prompt  string

	analyzer  *semantics.Analyzer
	evaluator *eval.Evaluator
}

func New(banner, version, line, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Line: line, Prompt: prompt}
}

func (r *Repl) printBanner(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", r.Line)
	greenColor.Fprintf(w, "%s\n", r.Banner)
	blueColor.Fprintf(w, "%s\n", r.Line)
	yellowColor.Fprintln(w, "Bang "+r.Version)
	cyanColor.Fprintln(w, "Type your code and press enter; use ';' to separate statements")
	cyanColor.Fprintln(w, "Type '.exit' to quit")
	blueColor.Fprintf(w, "%s\n", r.Line)
}

// Start runs the loop until '.exit' or EOF. Program output and
// feedback go to w; input editing goes through readline.
func (r *Repl) Start(w io.Writer) {
	r.printBanner(w)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	r.analyzer = semantics.New()
	r.evaluator = eval.New()
	r.evaluator.SetWriter(w)

	for {
		line, err := rl.Readline()
		if err != nil {
			w.Write([]byte("Good Bye!\n"))
			return
		}
		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			w.Write([]byte("Good Bye!\n"))
			return
		}
		rl.SaveHistory(line)
		r.execute(w, line)
	}
}

// execute runs one entered line through the full pipeline. Errors are
// rendered and the session continues.
func (r *Repl) execute(w io.Writer, line string) {
	report := func(e *diag.Error) {
		redColor.Fprintf(w, "%s\n", e.Render(line))
	}

	toks, lerr := lexer.Tokenize(line)
	if lerr != nil {
		report(lerr)
		return
	}
	nodes, perr := parser.Parse(toks)
	if perr != nil {
		report(perr)
		return
	}
	roots, cerr := controlflow.Build(nodes)
	if cerr != nil {
		report(cerr)
		return
	}
	if serr := r.analyzer.Check(roots); serr != nil {
		report(serr)
		return
	}

	for _, root := range roots {
		// bare expressions echo their value, everything else just runs
		if root.Kind == parser.Expression {
			v, err := r.evaluator.EvalExpr(root.Root)
			if err != nil {
				report(err)
				return
			}
			if v != objects.NoneValue {
				yellowColor.Fprintf(w, "%s\n", v.String())
			}
			continue
		}
		if err := r.evaluator.Run([]*parser.Node{root}); err != nil {
			report(err)
			return
		}
	}
}
