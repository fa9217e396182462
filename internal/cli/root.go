// Package cli implements the cobra-based CLI commands for gopherlings.
//
// Each subcommand (verify, watch, run, hint, list, reset) is defined in its
// own file within this package. This file defines the root command that
// serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/ui"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// Only list and the error printer honour it; watch mode is interactive.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool

	// configPath names an explicit settings file. Empty means
	// .gopherlings.jsonc in the working directory, if present.
	configPath string

	// runnerName overrides the "runner" setting when non-empty.
	runnerName string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// Run without a subcommand, gopherlings prints the welcome banner and an
// introduction to the course.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gopherlings",
		Short: "Small exercises to get you used to reading and writing Go code",
		Long: `gopherlings is a collection of small, broken Go programs. Fix each one
to move on to the next. Run "gopherlings watch" to start: every time you
save an exercise, gopherlings re-checks your progress.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd.OutOrStdout())
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a settings file (default: ./.gopherlings.jsonc)")
	rootCmd.PersistentFlags().StringVar(&runnerName, "runner", "", "Exercise runner: local or docker (overrides the settings file)")

	rootCmd.AddCommand(NewVerifyCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewHintCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewResetCommand())

	return rootCmd
}

// runRoot prints the banner, then the intro once the project layout has
// been confirmed.
func runRoot(out io.Writer) error {
	fmt.Fprintf(out, "\n%s\n\n", ui.Welcome)

	s, err := loadSettings()
	if err != nil {
		return err
	}
	if err := checkExercisesDir(s); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n\n", ui.Intro)
	return nil
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// This is used throughout the CLI for debug/trace output that helps
// users understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// newLogger returns the structured logger handed to the runner, watcher and
// orchestrator. Without --verbose only warnings reach stderr.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
