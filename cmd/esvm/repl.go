package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// runREPL starts an interactive read-eval-print loop. Unlike runFile/
// runSource, it builds a single engine up front and reuses it across
// every line, so bindings created by one line persist into the next —
// the same environment-per-session behavior pkg/eval gives the single
// Evaluator its realm already carries (§8's REPL-driven scenarios).
func runREPL() {
	en, err := newEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return
	}

	fmt.Println("esvm repl - Ctrl+D to exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("esvm> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			break
		}

		out, err := en.run(line, "<repl>")
		if err != nil {
			fmt.Println(err)

			continue
		}
		fmt.Println(out)
	}
}
