package main

import (
	"fmt"
	"os"

	"github.com/conneroisu/esvm/internal/config"
	"github.com/conneroisu/esvm/internal/diag"
	"github.com/conneroisu/esvm/internal/gcscope"
	"github.com/conneroisu/esvm/internal/heap"
	"github.com/conneroisu/esvm/internal/realm"
	"github.com/conneroisu/esvm/pkg/eval"
	"github.com/conneroisu/esvm/pkg/lexer"
	"github.com/conneroisu/esvm/pkg/parser"
)

// engine bundles one run's heap, realm, and bootstrapped evaluator —
// freshly built per invocation for the file/expr modes, and once for
// the lifetime of a REPL session so bindings persist across lines.
type engine struct {
	ev     *eval.Evaluator
	logger *diag.Logger
	noGC   bool
}

func newEngine() (*engine, error) {
	opts, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if noGC {
		opts.DisableGC = true
	}
	if printInternal {
		opts.PrintInternals = true
	}

	h := heap.NewHeap()
	r := realm.NewRealm(h)

	return &engine{
		ev:     eval.Bootstrap(r),
		logger: diag.New(opts.PrintInternals),
		noGC:   opts.DisableGC,
	}, nil
}

// run parses source (named sourceName for diagnostics) and evaluates it
// against e's realm, returning the last statement's display string.
func (e *engine) run(source, sourceName string) (string, error) {
	e.logger.Parse(sourceName, len(source))

	l := lexer.New(source)
	p := parser.New(l)
	prog, err := p.Parse()
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	type outcome struct {
		out string
		err error
	}

	res := realm.RunInRealm(e.ev.Realm, func(scope *gcscope.GCScope) outcome {
		if e.noGC {
			scope = scope.NoGC()
		}

		r := e.ev.RunProgram(scope, prog)
		if r.IsException() {
			thrown, _ := r.Thrown().(heap.Value)

			return outcome{err: fmt.Errorf("uncaught exception: %s", e.ev.ToDisplayString(thrown))}
		}
		if r.IsKilled() {
			return outcome{err: fmt.Errorf("execution was killed")}
		}

		// The host drains the job queue after the script runs to
		// completion (§5's "Host jobs"): FinalizationRegistry cleanups
		// enqueued during evaluation run here, not synchronously inside
		// the collection cycle that discovered them.
		if jr := e.ev.Jobs.DrainAll(); jr.IsException() {
			thrown, _ := jr.Thrown().(heap.Value)

			return outcome{err: fmt.Errorf("uncaught exception in a queued job: %s", e.ev.ToDisplayString(thrown))}
		}

		return outcome{out: e.ev.ToDisplayString(r.Value())}
	})

	return res.out, res.err
}

func runSource(source, sourceName string) error {
	en, err := newEngine()
	if err != nil {
		return err
	}

	out, err := en.run(source, sourceName)
	if err != nil {
		return err
	}
	fmt.Println(out)

	return nil
}

func runFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return runSource(string(content), path)
}
