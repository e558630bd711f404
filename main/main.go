/*
File    : main/main.go

Package main is the bang CLI:

	bang <path> [--tokens] [--ast] [--trace]   run a Bang source file
	bang                                       start the interactive REPL

Exit codes follow the diagnostic contract: 0 success, 1 lexer error,
2 parser error, 3 semantic error, 4 evaluator error. A file that
cannot be read at all exits 1.
*/
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Geetur/Bang-PL/controlflow"
	"github.com/Geetur/Bang-PL/diag"
	"github.com/Geetur/Bang-PL/eval"
	"github.com/Geetur/Bang-PL/file"
	"github.com/Geetur/Bang-PL/lexer"
	"github.com/Geetur/Bang-PL/parser"
	"github.com/Geetur/Bang-PL/repl"
	"github.com/Geetur/Bang-PL/semantics"
)

var VERSION = "v1.0.0"

var BANNER = `
 ▄▄▄▄▄     ▄▄▄    ▄▄▄  ▄▄   ▄▄▄▄▄▄   ▄▄
 ██  ██   ██ ██   ███  ██  ██    ▀▀  ██
 █████▀  ██   ██  ██ █ ██  ██  ▄▄▄▄  ██
 ██  ██  ███████  ██  ███  ██    ██
 █████▀  ██   ██  ██   ██   ██████▀  ▀▀
`

var LINE = "----------------------------------------------------------------"

var PROMPT = "Bang >>> "

var (
	redColor  = color.New(color.FgRed)
	cyanColor = color.New(color.FgCyan)
)

var (
	showTokens bool
	showAST    bool
	traceEval  bool
)

func main() {
	root := &cobra.Command{
		Use:     "bang [path]",
		Short:   "Bang language runner",
		Long:    "Run a Bang source file, or start an interactive session when no path is given.",
		Version: VERSION,
		Args:    cobra.MaximumNArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,

		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				repl.New(BANNER, VERSION, LINE, PROMPT).Start(os.Stdout)
				return
			}
			os.Exit(runFile(args[0]))
		},
	}

	root.Flags().BoolVar(&showTokens, "tokens", false, "print the post-split token groups before running")
	root.Flags().BoolVar(&showAST, "ast", false, "print the block-nested AST before running")
	root.Flags().BoolVar(&traceEval, "trace", false, "trace statement evaluation to stderr")

	if err := root.Execute(); err != nil {
		redColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFile drives the four-pass pipeline over one source file and
// returns the process exit code.
func runFile(path string) int {
	src, err := file.Load(path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] %v\n", err)
		return 1
	}
	if !file.IsBangFile(path) {
		cyanColor.Fprintf(os.Stderr, "note: %q has no %s extension; running anyway\n", path, file.Ext)
	}

	report := func(e *diag.Error) int {
		redColor.Fprintln(os.Stderr, e.Render(src))
		return e.Kind.ExitCode()
	}

	toks, lerr := lexer.Tokenize(src)
	if lerr != nil {
		return report(lerr)
	}
	if showTokens {
		fmt.Print(parser.DumpLines(parser.SplitLines(toks)))
	}

	nodes, perr := parser.Parse(toks)
	if perr != nil {
		return report(perr)
	}
	roots, cerr := controlflow.Build(nodes)
	if cerr != nil {
		return report(cerr)
	}
	if showAST {
		fmt.Print(parser.Dump(roots))
	}

	if serr := semantics.Check(roots); serr != nil {
		return report(serr)
	}

	ev := eval.New()
	if traceEval {
		ev.Trace = os.Stderr
	}
	if derr := ev.Run(roots); derr != nil {
		return report(derr)
	}
	return 0
}
