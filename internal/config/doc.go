// Package config loads the engine's Options and optional .esvmrc file.
// Options{DisableGC, PrintInternals} mirror spec.md §6's Agent
// constructor parameters; .esvmrc is JSON-with-comments, preprocessed
// with github.com/tidwall/jsonc before stdlib encoding/json unmarshals
// it, the same two-step strict/jsonc split the pack's JSON-config
// adapter uses for its own config surface.
package config
