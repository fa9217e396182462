package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/ui"
	"github.com/shinji-kodama/gopherlings/internal/watch"
)

// NewWatchCommand creates the "watch" cobra command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rerun verify when files were edited",
		Long: `Verify all exercises, then keep watching the exercises directory.
Every time you save a file, the exercises that are still unsolved (and the
one you just edited) are checked again.

Type "help" while watch mode runs to see the available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), p)
		},
	}
}

func runWatch(ctx context.Context, in io.Reader, out io.Writer, p *project) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r, closeRunner, err := p.newRunner(ctx)
	if err != nil {
		return err
	}
	defer closeRunner()

	s := p.settings
	orch := watch.New(watch.Config{
		Exercises:       p.registry.All(),
		Root:            s.ExercisesPath(),
		Runner:          r,
		AwaitCompletion: s.AwaitCompletion,
		Debounce:        s.Debounce,
		PollInterval:    s.PollInterval,
		Extension:       s.Extension,
		In:              in,
		Out:             out,
		Logger:          p.logger,
	})

	status, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(out, "Error: Could not watch your progress. Error message was %v.\n", err)
		fmt.Fprintln(out, "Most likely you've run out of disk space or your 'inotify limit' has been reached.")
		return model.WrapCLIError(model.ExitWatchFailed, "watch mode failed", err)
	}

	switch status {
	case model.WatchFinished:
		fmt.Fprintln(out, "🎉 All exercises completed! 🎉")
		fmt.Fprintf(out, "\n%s\n\n", ui.FinishLine)
	default:
		fmt.Fprintln(out, ui.KeepGoing)
	}
	return nil
}
