package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// Result is the outcome of checking one exercise.
type Result struct {
	// Success is true when the toolchain command exited with code 0.
	Success bool

	// Output is the combined stdout/stderr of the command.
	Output string
}

// Runner checks a single exercise. Implementations must be safe to call
// repeatedly from one goroutine; the verification engine never calls a
// Runner concurrently.
type Runner interface {
	Run(ctx context.Context, ex *model.Exercise) (Result, error)
}

// CommandArgs returns the go subcommand and package pattern used to
// check ex, relative to root. Each exercise lives in its own directory,
// so the package is the directory containing the exercise file.
//
// Example:
//
//	{Mode: test, Path: "exercises/tests/tests1/tests1_test.go"}
//	  → ["test", "-count=1", "./exercises/tests/tests1"]
func CommandArgs(root string, ex *model.Exercise) ([]string, error) {
	dir := filepath.Dir(ex.Path)
	if filepath.IsAbs(dir) {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return nil, fmt.Errorf("exercise %s is outside the project root: %w", ex.Name, err)
		}
		dir = rel
	}
	if dir == ".." || strings.HasPrefix(dir, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("exercise %s is outside the project root %s", ex.Name, root)
	}
	pkg := "./" + filepath.ToSlash(dir)

	switch ex.Mode {
	case model.ModeRun:
		return []string{"run", pkg}, nil
	case model.ModeTest:
		// -count=1 disables the test cache so an edit that only touches
		// testdata still re-runs the tests.
		return []string{"test", "-count=1", pkg}, nil
	case model.ModeVet:
		return []string{"vet", pkg}, nil
	default:
		return nil, fmt.Errorf("exercise %s has unsupported mode %q", ex.Name, ex.Mode)
	}
}

// LocalRunner runs exercises with the Go toolchain installed on the host.
type LocalRunner struct {
	// Root is the project root; commands run with it as working directory.
	Root string

	// GoBinary is the toolchain executable, "go" unless configured.
	GoBinary string

	// Logger receives debug output about executed commands. May be nil.
	Logger *slog.Logger
}

// NewLocalRunner creates a LocalRunner for the project at root.
func NewLocalRunner(root, goBinary string, logger *slog.Logger) *LocalRunner {
	if goBinary == "" {
		goBinary = "go"
	}
	return &LocalRunner{Root: root, GoBinary: goBinary, Logger: logger}
}

// CheckToolchain verifies that the configured Go binary can be found.
// Returns a CLIError with ExitToolchainMissing otherwise.
func (r *LocalRunner) CheckToolchain() error {
	if _, err := exec.LookPath(r.GoBinary); err != nil {
		return model.WrapCLIError(
			model.ExitToolchainMissing,
			fmt.Sprintf("Failed to find `%s`.\nDid you already install Go?\nTry running `%s version` to diagnose the problem.", r.GoBinary, r.GoBinary),
			err,
		)
	}
	return nil
}

// Run executes the toolchain command for ex and captures its output.
//
// A non-zero exit status is reported as an unsuccessful Result. Any other
// failure to start or wait for the process (binary missing, context
// cancelled) is returned as an error.
func (r *LocalRunner) Run(ctx context.Context, ex *model.Exercise) (Result, error) {
	args, err := CommandArgs(r.Root, ex)
	if err != nil {
		return Result{}, err
	}

	// #nosec G204: args are built from the catalog, not from free-form input
	cmd := exec.CommandContext(ctx, r.GoBinary, args...)
	cmd.Dir = r.Root
	cmd.Env = os.Environ()

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if r.Logger != nil {
		r.Logger.Debug("running exercise",
			slog.String("exercise", ex.Name),
			slog.String("command", r.GoBinary+" "+strings.Join(args, " ")),
		)
	}

	err = cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return Result{Success: false, Output: out.String()}, nil
		}
		return Result{}, fmt.Errorf("%s %s failed to run: %w", r.GoBinary, strings.Join(args, " "), err)
	}
	return Result{Success: true, Output: out.String()}, nil
}
