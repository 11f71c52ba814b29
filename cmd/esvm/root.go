// Package main implements the esvm command-line interface: a small
// host around the engine core, wiring a source file or inline
// expression through pkg/lexer, pkg/parser, and pkg/eval against a
// freshly bootstrapped realm.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	evalExprFlag  string
	interactive   bool
	noGC          bool
	printInternal bool
	configPath    string
)

var rootCmd = &cobra.Command{
	Use:     "esvm [file]",
	Short:   "A minimal ECMAScript execution core",
	Version: "0.1.0",
	Long: `esvm parses and evaluates a small, intentionally non-conformant
subset of ECMAScript, built around a structure-of-arrays heap and a
tri-color mark-compact garbage collector (see DESIGN.md for exactly
what is and is not supported).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case evalExprFlag != "":
			return runSource(evalExprFlag, "<expr>")
		case interactive:
			runREPL()

			return nil
		case len(args) == 1:
			return runFile(args[0])
		default:
			return cmd.Help()
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&evalExprFlag, "eval", "e", "", "Evaluate an inline expression")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Start an interactive REPL")
	rootCmd.PersistentFlags().BoolVar(&noGC, "no-gc", false, "Disable garbage collection for this run")
	rootCmd.PersistentFlags().BoolVar(&printInternal, "print-internals", false, "Print collector and parser diagnostics")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".esvmrc", "Path to an optional .esvmrc config file")

	rootCmd.AddCommand(newParseCmd())
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}
