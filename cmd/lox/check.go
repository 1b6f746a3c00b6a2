package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/lox/internal/astfmt"
	"github.com/aledsdavies/lox/internal/diagnostics"
)

// runCheck runs the scanner, parser and resolver only (no evaluation) and
// reports static errors, mirroring the teacher's dry-run execution mode
// mapped onto the lox pipeline.
func runCheck(cmd *cobra.Command, path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Colorize("Error: "+err.Error(), diagnostics.ColorRed, useColor()))
		return exitSoft
	}

	sink := diagnostics.NewSink(os.Stderr, useColor())
	stmts, _ := parseAndResolve(string(source), sink)
	if sink.HadError {
		return exitDataErr
	}

	if flagEmitAST {
		encoded, err := astfmt.EncodeProgram(stmts)
		if err != nil {
			fmt.Fprintln(os.Stderr, diagnostics.Colorize("Error: "+err.Error(), diagnostics.ColorRed, useColor()))
			return exitSoft
		}
		full, short := astfmt.ContentHash(encoded)
		fmt.Printf("ast-hash: %s\n", hex.EncodeToString(full[:]))
		fmt.Printf("ast-id: %s\n", hex.EncodeToString(short[:]))
		fmt.Printf("ast-bytes: %d\n", len(encoded))
		fmt.Printf("ast: %s\n", hex.EncodeToString(encoded))
	}

	return exitOK
}
