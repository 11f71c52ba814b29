// Package diag centralizes the engine's internal diagnostic output — the
// "print_internals" ambient-logging surface (§6's Options.PrintInternals)
// — so that scattered fmt.Println calls throughout the core funnel
// through one gate instead.
package diag
