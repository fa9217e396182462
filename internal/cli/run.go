package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gopherlings/internal/exercise"
	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/ui"
)

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <name|next>",
		Short: "Run or test a single exercise",
		Long: `Run or test a single exercise. "next" selects the first exercise
that still carries its "// I AM NOT DONE" marker.

Examples:
  gopherlings run variables1
  gopherlings run next`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			return runRun(cmd.Context(), cmd.OutOrStdout(), p, args[0])
		},
	}
}

func runRun(ctx context.Context, out io.Writer, p *project, name string) error {
	ex, err := findExercise(out, p.registry, name)
	if err != nil || ex == nil {
		return err
	}

	r, closeRunner, err := p.newRunner(ctx)
	if err != nil {
		return err
	}
	defer closeRunner()

	printer := ui.NewPrinter(out)
	printer.Mutedf("Checking %s (%s)...", ex.Name, ex.Path)
	res, err := r.Run(ctx, ex)
	if err != nil {
		return err
	}
	printer.Output(res.Output)

	if !res.Success {
		printer.Failf("Ran %s with errors", ex.Name)
		return model.NewCLIError(model.ExitVerifyFailed, fmt.Sprintf("Exercise %s failed", ex.Name))
	}
	printer.Successf("Successfully ran %s", ex.Name)
	return nil
}

// findExercise resolves name, including "next". When every exercise is
// done it prints a congratulation and returns a nil exercise and nil error.
func findExercise(out io.Writer, reg *exercise.Registry, name string) (*model.Exercise, error) {
	ex, err := reg.Find(name)
	if errors.Is(err, exercise.ErrAllDone) {
		fmt.Fprintln(out, "🎉 Congratulations! You have done all the exercises!")
		fmt.Fprintln(out, "🔚 There are no more exercises to do next!")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	VerboseLog("Selected exercise %s at %s", ex.Name, ex.Path)
	return ex, nil
}
