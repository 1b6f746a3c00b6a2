// Command lox is the CLI entrypoint: a REPL when invoked with no
// arguments, or `lox run FILE` / `lox check FILE` for file-mode execution
// and static analysis. Built on cobra, in the teacher's CLI-entrypoint
// style (one root command, flags for cross-cutting concerns, subcommands
// for distinct modes).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/lox/internal/config"
	"github.com/aledsdavies/lox/internal/diagnostics"
)

// Exit codes follow the reference Lox CLI convention: 65 for a static
// (scan/parse/resolve) error, 70 for an uncaught runtime error.
const (
	exitOK      = 0
	exitDataErr = 65
	exitSoft    = 70
)

var (
	flagNoColor bool
	flagDebug   bool
	flagConfig  string
	flagWatch   bool
	flagEmitAST bool
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	code := exitOK

	root := &cobra.Command{
		Use:           "lox",
		Short:         "lox is a tree-walking interpreter for the Lox language",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd)
		},
	}
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored diagnostic output")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable verbose per-stage tracing")
	root.PersistentFlags().StringVar(&flagConfig, "config", ".loxrc.yaml", "path to REPL config file")

	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "execute a lox source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := runFile(cmd, args[0])
			code = status
			if status != exitOK {
				return fmt.Errorf("exit %d", status)
			}
			return nil
		},
	}
	runCmd.Flags().BoolVar(&flagWatch, "watch", false, "re-run on file change")

	checkCmd := &cobra.Command{
		Use:   "check FILE",
		Short: "run the scanner, parser and resolver without evaluating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := runCheck(cmd, args[0])
			code = status
			if status != exitOK {
				return fmt.Errorf("exit %d", status)
			}
			return nil
		},
	}
	checkCmd.Flags().BoolVar(&flagEmitAST, "emit-ast", false, "dump the canonical AST encoding and its content hash")

	root.AddCommand(runCmd, checkCmd)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if code == exitOK {
			code = exitSoft
		}
	}
	return code
}

func useColor() bool {
	if flagNoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func loadConfig() *config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Colorize(err.Error(), diagnostics.ColorYellow, useColor()))
		return config.Default()
	}
	return cfg
}
