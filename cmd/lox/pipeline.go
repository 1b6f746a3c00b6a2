package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/interpreter"
	"github.com/aledsdavies/lox/internal/lexer"
	"github.com/aledsdavies/lox/internal/parser"
	"github.com/aledsdavies/lox/internal/resolver"
)

// parseAndResolve runs the scanner, parser and resolver stages. Each stage
// reports its errors into sink and keeps going, so a single source file can
// surface more than one static error per run. The scanner's tokens always
// reach the parser; the resolver runs only if scanning and parsing reported
// no error.
func parseAndResolve(source string, sink *diagnostics.Sink) ([]ast.Stmt, resolver.Locals) {
	sink.Debug = flagDebug
	sink.Source = source

	toks := lexer.New(source, sink).ScanTokens()
	if flagDebug {
		fmt.Fprintf(os.Stderr, "debug: scanned %d tokens\n", len(toks))
	}

	stmts := parser.New(toks, sink).Parse()
	if sink.HadError {
		return stmts, nil
	}

	locals := resolver.New(sink).Resolve(stmts)
	if flagDebug {
		fmt.Fprintf(os.Stderr, "debug: resolved %d local bindings\n", len(locals))
	}
	return stmts, locals
}

// runSource runs the full pipeline including evaluation and returns the
// process exit code: 65 for a static error, 70 for a runtime error, 0
// otherwise.
func runSource(source string, stdout io.Writer, sink *diagnostics.Sink) int {
	stmts, locals := parseAndResolve(source, sink)
	if sink.HadError {
		return exitDataErr
	}

	interp := interpreter.New(sink, stdout)
	interp.Interpret(stmts, locals)
	if sink.HadRuntimeError {
		return exitSoft
	}
	return exitOK
}
