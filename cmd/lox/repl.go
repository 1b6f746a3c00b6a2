package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/interpreter"
	"github.com/aledsdavies/lox/internal/lexer"
	"github.com/aledsdavies/lox/internal/parser"
	"github.com/aledsdavies/lox/internal/resolver"
)

// runRepl reads one line at a time, running it through the full pipeline
// against a single long-lived Interpreter so variables, functions and
// classes declared on one line are visible on the next. Each line gets its
// own Sink, so a bad line never poisons the error state of later ones; the
// REPL loops until stdin closes and never exits the process on its own.
func runRepl(cmd *cobra.Command) error {
	cfg := loadConfig()
	color := useColor() && !cfg.NoColor

	interp := interpreter.New(diagnostics.NewSink(os.Stderr, color), os.Stdout)

	prompt := diagnostics.Colorize(cfg.Prompt, diagnostics.ColorGray, color)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, prompt)
	for scanner.Scan() {
		line := scanner.Text()

		sink := diagnostics.NewSink(os.Stderr, color)
		sink.Debug = flagDebug
		sink.Source = line
		interp.SetSink(sink)

		toks := lexer.New(line, sink).ScanTokens()
		stmts := parser.New(toks, sink).ParseRepl()
		if !sink.HadError {
			locals := resolver.New(sink).Resolve(stmts)
			if !sink.HadError {
				interp.Interpret(stmts, locals)
			}
		}

		if cfg.HistoryFile != "" {
			appendHistory(cfg.HistoryFile, line)
		}

		fmt.Fprint(os.Stdout, prompt)
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

func appendHistory(path, line string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}
