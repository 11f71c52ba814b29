package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.esvmrc"))
	if err != nil {
		t.Fatalf("unexpected error for a missing config file: %v", err)
	}
	if opts != Default() {
		t.Fatalf("Load() for a missing file = %+v, want Default()", opts)
	}
}

func TestLoadParsesJSONCWithCommentsAndTrailingCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".esvmrc")
	contents := `{
		// disable the collector for short-lived scripts
		"disableGC": true,
		"printInternals": true,
	}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading jsonc config: %v", err)
	}
	if !opts.DisableGC || !opts.PrintInternals {
		t.Fatalf("Load() = %+v, want both fields true", opts)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".esvmrc")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for invalid config contents")
	}
}
