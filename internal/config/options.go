package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Options controls the Agent-level behavior spec.md §6 names: whether
// the collector ever runs at all, and whether internal diagnostics are
// printed.
type Options struct {
	// DisableGC, when true, makes Reborrow() never report a collection
	// due, regardless of the allocation watermark. Intended for tests and
	// short-lived one-shot script runs where leaking is cheaper than
	// paying for a cycle that will never matter.
	DisableGC bool `json:"disableGC"`
	// PrintInternals gates internal/diag output (collector cycles, parse
	// summaries) on the CLI.
	PrintInternals bool `json:"printInternals"`
}

// Default returns the engine's out-of-the-box Options: GC enabled,
// internals silent.
func Default() Options {
	return Options{DisableGC: false, PrintInternals: false}
}

// Load reads an optional .esvmrc file at path, overlaying any fields it
// sets onto Default(). A missing file is not an error — it returns
// Default() unchanged, since .esvmrc is opt-in configuration, not a
// required manifest.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}

		return opts, fmt.Errorf("config: reading %s: %w", path, err)
	}

	clean := jsonc.ToJSON(data)
	if err := json.Unmarshal(clean, &opts); err != nil {
		return opts, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return opts, nil
}
