// Package model defines the domain types and value objects for the
// gopherlings CLI.
//
// This package contains pure data structures with no external dependencies.
// Exercises are loaded once from the catalog and never mutated afterwards;
// verification results (VerifyState) and watch outcomes (WatchStatus) are
// transient values produced fresh by every pass.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
