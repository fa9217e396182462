// Package verify evaluates exercises in catalog order and stops at the
// first one that does not pass.
//
// The same Engine drives the one-shot "verify" command, the initial pass of
// watch mode and every incremental pass over a pending subset. Exercises
// build on each other, so a failure ends the pass: later exercises are not
// attempted.
package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/runner"
	"github.com/shinji-kodama/gopherlings/internal/ui"
)

// Progress is the overall completion counter shown while a pass runs.
// Done counts exercises already solved before the pass started; Total is
// the size of the whole catalog.
type Progress struct {
	Done  int
	Total int
}

// Engine runs verification passes.
type Engine struct {
	// Runner performs the compile+test operation for one exercise.
	Runner runner.Runner

	// Printer receives the incremental status output. Required.
	Printer *ui.Printer

	// AwaitCompletion keeps a passing exercise pending while its file still
	// carries the not-done marker.
	AwaitCompletion bool

	// Logger receives debug output. May be nil.
	Logger *slog.Logger
}

// Verify evaluates exercises in order and returns Failed for the first one
// that does not pass, or AllDone if they all do.
//
// The returned error is reserved for infrastructure failures from the
// Runner or from reading an exercise file; an exercise that fails to
// compile is reported through the VerifyState, not as an error.
func (e *Engine) Verify(ctx context.Context, exercises []*model.Exercise, progress Progress) (model.VerifyState, error) {
	for i, ex := range exercises {
		e.Printer.Progress(progress.Done+i, progress.Total)
		e.Printer.Mutedf("%s %s...", verb(ex.Mode), ex.Name)

		res, err := e.Runner.Run(ctx, ex)
		if err != nil {
			return model.VerifyState{}, fmt.Errorf("failed to check exercise %s: %w", ex.Name, err)
		}
		e.debug("exercise checked", ex, slog.Bool("success", res.Success))

		if !res.Success {
			e.Printer.Failf("%s %s failed! Please try again. Here's the output:", verb(ex.Mode), ex.Name)
			e.Printer.Output(res.Output)
			return model.FailedAt(ex), nil
		}

		e.Printer.Successf("Successfully %s %s!", past(ex.Mode), ex.Name)

		if e.AwaitCompletion {
			done, err := ex.LooksDone()
			if err != nil {
				return model.VerifyState{}, err
			}
			if !done {
				e.Printer.Output(res.Output)
				e.Printer.Warnf("You can keep working on this exercise, or jump into the next one by removing the `%s` comment from %s",
					model.NotDoneMarker, ex.Path)
				return model.FailedAt(ex), nil
			}
		}
	}
	return model.AllDone(), nil
}

func (e *Engine) debug(msg string, ex *model.Exercise, attrs ...slog.Attr) {
	if e.Logger == nil {
		return
	}
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("exercise", ex.Name))
	for _, a := range attrs {
		args = append(args, a)
	}
	e.Logger.Debug(msg, args...)
}

func verb(m model.Mode) string {
	switch m {
	case model.ModeTest:
		return "Testing"
	case model.ModeVet:
		return "Vetting"
	default:
		return "Compiling"
	}
}

func past(m model.Mode) string {
	switch m {
	case model.ModeTest:
		return "tested"
	case model.ModeVet:
		return "vetted"
	default:
		return "ran"
	}
}
