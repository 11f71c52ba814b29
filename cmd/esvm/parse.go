package main

import (
	"fmt"
	"os"

	"github.com/conneroisu/esvm/pkg/lexer"
	"github.com/conneroisu/esvm/pkg/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and report syntax errors without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args[0])
		},
	}
}

func runParse(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	l := lexer.New(string(content))
	p := parser.New(l)
	prog, err := p.Parse()
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	fmt.Printf("%s: ok, %d top-level statements\n", path, len(prog.Body))

	return nil
}
