package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/ui"
	"github.com/shinji-kodama/gopherlings/internal/verify"
)

// NewVerifyCommand creates the "verify" cobra command, which checks every
// exercise in order and stops at the first one that fails.
func NewVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify all exercises according to the recommended order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			return runVerify(cmd.Context(), cmd.OutOrStdout(), p)
		},
	}
}

func runVerify(ctx context.Context, out io.Writer, p *project) error {
	r, closeRunner, err := p.newRunner(ctx)
	if err != nil {
		return err
	}
	defer closeRunner()

	engine := &verify.Engine{
		Runner:          r,
		Printer:         ui.NewPrinter(out),
		AwaitCompletion: p.settings.AwaitCompletion,
		Logger:          p.logger,
	}
	exercises := p.registry.All()
	state, err := engine.Verify(ctx, exercises, verify.Progress{Done: 0, Total: len(exercises)})
	if err != nil {
		return err
	}
	if !state.IsAllDone() {
		done, err := p.registry.CountDone()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, FormatProgress(done, p.registry.Len()))
		return model.NewCLIError(model.ExitVerifyFailed, fmt.Sprintf("Exercise %s failed", state.Failed.Name))
	}

	fmt.Fprintln(out, "All exercises done!")
	return nil
}
