// Package model defines the domain types for the gopherlings CLI.
//
// All entities in this package are shared between the catalog loader,
// the verification engine, and the watch-mode orchestrator.
//
// Key design decision: an Exercise is immutable once the catalog is loaded.
// The only state that changes during a session is the content of the
// exercise files on disk, which is why "looks done" is computed on demand
// rather than stored.
package model

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Mode determines how an exercise is checked by the Go toolchain.
type Mode string

const (
	// ModeRun builds and runs the exercise as a main package.
	// The exercise passes when `go run` exits with code 0.
	ModeRun Mode = "run"

	// ModeTest runs the exercise's package tests with `go test`.
	ModeTest Mode = "test"

	// ModeVet runs `go vet` on the exercise package. These exercises
	// compile fine but contain code the vet analyzers reject.
	ModeVet Mode = "vet"
)

// String returns the string representation of Mode.
// This method satisfies the fmt.Stringer interface.
func (m Mode) String() string {
	return string(m)
}

// IsValid checks whether the Mode value is one of the predefined modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeRun, ModeTest, ModeVet:
		return true
	default:
		return false
	}
}

// ParseMode converts a string to a Mode.
// Returns an error if the string does not match any valid mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid exercise mode: %q (valid: run, test, vet)", s)
	}
	return mode, nil
}

// Exercise is a single graded unit of source code. It is the primary
// entity of the catalog.
//
// Exercises are owned by the registry; every other component only
// borrows pointers to them and never modifies their fields.
type Exercise struct {
	// Name is the unique identifier for this exercise (e.g., "variables1").
	Name string `json:"name" yaml:"name"`

	// Path is the exercise's source file, relative to the project root
	// (e.g., "exercises/variables/variables1/main.go").
	Path string `json:"path" yaml:"path"`

	// Mode selects the toolchain command used to check the exercise.
	Mode Mode `json:"mode" yaml:"mode"`

	// Hint is shown on demand when the learner is stuck.
	Hint string `json:"hint,omitempty" yaml:"hint"`
}

// notDoneRegex matches the marker line learners delete once they are
// happy with their solution. Spacing and case inside the comment are
// tolerated so that "//i am not done" still counts.
var notDoneRegex = regexp.MustCompile(`(?mi)^\s*//\s*I\s+AM\s+NOT\s+DONE`)

// NotDoneMarker is the canonical spelling of the marker written into
// fresh exercise files.
const NotDoneMarker = "// I AM NOT DONE"

// String returns the exercise name so that exercises print naturally
// in status lines and error messages.
func (e *Exercise) String() string {
	return e.Name
}

// LooksDone reports whether the exercise file no longer contains the
// not-done marker.
//
// The check reads the current file content every time it is called.
// I/O errors are returned to the caller instead of being mapped to
// "not done", because a missing exercise file is a setup problem the
// learner must fix.
func (e *Exercise) LooksDone() (bool, error) {
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read exercise %s at %s: %w", e.Name, e.Path, err)
	}
	return !notDoneRegex.Match(data), nil
}

// Validate checks that the exercise has the fields required to run it.
func (e *Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("exercise: name must not be empty")
	}
	if strings.ContainsAny(e.Name, " \t\n") {
		return fmt.Errorf("exercise %q: name must not contain whitespace", e.Name)
	}
	if e.Path == "" {
		return fmt.Errorf("exercise %q: path must not be empty", e.Name)
	}
	if !e.Mode.IsValid() {
		return fmt.Errorf("exercise %q: invalid mode %q (valid: run, test, vet)", e.Name, e.Mode)
	}
	return nil
}

// VerifyState is the terminal result of one verification pass.
// It is either AllDone (Failed == nil) or Failed carrying the first
// exercise that did not pass.
type VerifyState struct {
	// Failed is the exercise that stopped the pass, or nil when every
	// exercise in the sequence succeeded.
	Failed *Exercise
}

// AllDone returns the VerifyState for a pass in which every exercise succeeded.
func AllDone() VerifyState {
	return VerifyState{}
}

// FailedAt returns the VerifyState for a pass that stopped at ex.
func FailedAt(ex *Exercise) VerifyState {
	return VerifyState{Failed: ex}
}

// IsAllDone reports whether the pass ended without a failing exercise.
func (s VerifyState) IsAllDone() bool {
	return s.Failed == nil
}

// String returns a short human-readable summary of the state.
func (s VerifyState) String() string {
	if s.IsAllDone() {
		return "all exercises done"
	}
	return fmt.Sprintf("failed at %s", s.Failed.Name)
}

// WatchStatus is the terminal status of a watch-mode session.
type WatchStatus string

const (
	// WatchFinished means every exercise passed.
	WatchFinished WatchStatus = "finished"

	// WatchUnfinished means the learner quit before completing the catalog.
	WatchUnfinished WatchStatus = "unfinished"
)

// String returns the string representation of WatchStatus.
func (s WatchStatus) String() string {
	return string(s)
}

// ExitCode defines standard CLI exit codes.
// These codes allow scripts and CI systems to programmatically determine
// the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	// A watch session ended by "quit" also exits with this code.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitExercisesNotFound indicates the exercises directory or the
	// catalog file was not found in the current directory.
	ExitExercisesNotFound ExitCode = 2

	// ExitToolchainMissing indicates the Go toolchain is not on PATH.
	ExitToolchainMissing ExitCode = 3

	// ExitWatchFailed indicates the file watcher could not be set up.
	ExitWatchFailed ExitCode = 4

	// ExitVerifyFailed indicates at least one exercise did not pass.
	ExitVerifyFailed ExitCode = 5

	// ExitExerciseNotFound indicates the named exercise does not exist.
	ExitExerciseNotFound ExitCode = 6

	// ExitDockerNotRunning indicates the Docker daemon is not accessible
	// while the docker runner is selected.
	ExitDockerNotRunning ExitCode = 7

	// ExitGitError indicates a git operation (exercise reset) failed.
	ExitGitError ExitCode = 8
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
