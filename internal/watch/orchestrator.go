package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/runner"
	"github.com/shinji-kodama/gopherlings/internal/ui"
	"github.com/shinji-kodama/gopherlings/internal/verify"
)

// WatcherFunc starts an event source on root. Start is the production
// implementation; tests substitute a fake.
type WatcherFunc func(root string, opts Options) (EventSource, error)

// StartFS adapts Start to WatcherFunc.
func StartFS(root string, opts Options) (EventSource, error) {
	w, err := Start(root, opts)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Defaults used when the corresponding Config field is zero.
const (
	DefaultDebounce     = time.Second
	DefaultPollInterval = time.Second
	DefaultExtension    = ".go"
)

// Config wires an Orchestrator.
type Config struct {
	// Exercises is the full catalog in order.
	Exercises []*model.Exercise

	// Root is the directory tree to watch.
	Root string

	// Runner checks one exercise.
	Runner runner.Runner

	// AwaitCompletion is passed through to the verification engine.
	AwaitCompletion bool

	Debounce     time.Duration
	PollInterval time.Duration
	Extension    string

	// In and Out are the shell's input and the session's output.
	In  io.Reader
	Out io.Writer

	// StartWatcher defaults to StartFS.
	StartWatcher WatcherFunc

	// Hint and Quit are created when nil.
	Hint *HintState
	Quit *QuitFlag

	Logger *slog.Logger
}

// Orchestrator runs one watch-mode session.
type Orchestrator struct {
	cfg     Config
	out     io.Writer
	printer *ui.Printer
	engine  *verify.Engine
	hint    *HintState
	quit    *QuitFlag
	logger  *slog.Logger
}

// New creates an Orchestrator, filling defaults for zero Config fields.
func New(cfg Config) *Orchestrator {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.StartWatcher == nil {
		cfg.StartWatcher = StartFS
	}
	if cfg.Hint == nil {
		cfg.Hint = &HintState{}
	}
	if cfg.Quit == nil {
		cfg.Quit = &QuitFlag{}
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	out := &syncWriter{w: cfg.Out}
	printer := ui.NewPrinterWithTerminal(out, cfg.Out)
	return &Orchestrator{
		cfg:     cfg,
		out:     out,
		printer: printer,
		engine: &verify.Engine{
			Runner:          cfg.Runner,
			Printer:         printer,
			AwaitCompletion: cfg.AwaitCompletion,
			Logger:          logger,
		},
		hint:   cfg.Hint,
		quit:   cfg.Quit,
		logger: logger,
	}
}

// Run executes the session until every exercise passes (WatchFinished), the
// learner quits or ctx is cancelled (WatchUnfinished), or a fatal error
// occurs.
//
// Fatal errors are: the watcher cannot be registered, an exercise file
// cannot be read, or the runner fails for reasons other than a broken
// exercise. The watcher is started before anything else, so a registration
// failure is reported before the first verification pass.
func (o *Orchestrator) Run(ctx context.Context) (model.WatchStatus, error) {
	src, err := o.cfg.StartWatcher(o.cfg.Root, Options{
		Debounce:  o.cfg.Debounce,
		Extension: o.cfg.Extension,
		Logger:    o.logger,
	})
	if err != nil {
		return "", err
	}
	defer func() {
		if err := src.Close(); err != nil {
			o.logger.Warn("closing watcher", slog.String("error", err.Error()))
		}
	}()

	o.logger.Info("watch mode starting",
		slog.String("root", o.cfg.Root),
		slog.Int("exercises", len(o.cfg.Exercises)),
		slog.Duration("debounce", o.cfg.Debounce),
		slog.Duration("poll_interval", o.cfg.PollInterval),
	)

	o.printer.ClearScreen()
	state, err := o.engine.Verify(ctx, o.cfg.Exercises, verify.Progress{Done: 0, Total: len(o.cfg.Exercises)})
	if err != nil {
		return o.abort(ctx, err)
	}
	if state.IsAllDone() {
		return model.WatchFinished, nil
	}
	o.hint.Set(state.Failed.Hint)

	o.printer.Infof("%s", ui.WatchWelcome)
	if o.cfg.In != nil {
		shell := &Shell{In: o.cfg.In, Out: o.out, Hint: o.hint, Quit: o.quit}
		go shell.Run()
	}

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("watch mode interrupted")
			return model.WatchUnfinished, nil

		case batch := <-src.Events():
			finished, err := o.handleBatch(ctx, batch)
			if err != nil {
				return o.abort(ctx, err)
			}
			if finished {
				return model.WatchFinished, nil
			}

		case <-ticker.C:
		}

		if o.quit.IsSet() {
			o.logger.Info("quit requested")
			return model.WatchUnfinished, nil
		}
	}
}

// handleBatch runs the Recomputing and Verifying steps for one batch and
// reports whether every exercise now passes.
func (o *Orchestrator) handleBatch(ctx context.Context, batch Batch) (bool, error) {
	if batch.Err != nil {
		o.logger.Warn("watch error", slog.String("error", batch.Err.Error()))
		o.printer.Warnf("watch error: %v", batch.Err)
		return false, nil
	}

	changed := o.relevant(batch.Events)
	if len(changed) == 0 {
		return false, nil
	}
	if !matchesAny(o.cfg.Exercises, changed) {
		o.logger.Debug("changed files belong to no exercise", slog.Any("paths", changed))
	}

	pending, err := RecomputePending(o.cfg.Exercises, changed)
	if err != nil {
		return false, err
	}
	total := len(o.cfg.Exercises)
	done := NumDone(total, pending)
	o.logger.Debug("recomputed pending exercises",
		slog.Int("pending", len(pending)),
		slog.Int("done", done),
	)

	o.printer.ClearScreen()
	state, err := o.engine.Verify(ctx, pending, verify.Progress{Done: done, Total: total})
	if err != nil {
		return false, err
	}
	if state.IsAllDone() {
		return true, nil
	}
	o.hint.Set(state.Failed.Hint)
	return false, nil
}

// relevant keeps the paths of modified files with the source extension.
func (o *Orchestrator) relevant(events []Event) []string {
	paths := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Kind != KindModified || filepath.Ext(ev.Path) != o.cfg.Extension {
			continue
		}
		paths = append(paths, ev.Path)
	}
	return paths
}

// abort treats any failure after ctx was cancelled as an interrupted
// session. A cancelled toolchain process surfaces as a plain exec error, so
// the error itself cannot be inspected for context.Canceled.
func (o *Orchestrator) abort(ctx context.Context, err error) (model.WatchStatus, error) {
	if ctx.Err() != nil {
		return model.WatchUnfinished, nil
	}
	return "", fmt.Errorf("watch mode stopped: %w", err)
}
