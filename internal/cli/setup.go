package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shinji-kodama/gopherlings/internal/config"
	"github.com/shinji-kodama/gopherlings/internal/exercise"
	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/runner"
)

// project is the state every exercise command starts from: resolved
// settings and the loaded catalog.
type project struct {
	settings *config.Settings
	registry *exercise.Registry
	logger   *slog.Logger
}

// loadSettings resolves the settings for the working directory and applies
// the --runner override.
func loadSettings() (*config.Settings, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	s, err := config.Load(root, configPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load settings", err)
	}
	if runnerName != "" {
		s.Runner = runnerName
		if err := s.Validate(); err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "invalid --runner flag", err)
		}
	}
	VerboseLog("Project root: %s (runner: %s)", s.Root, s.Runner)
	return s, nil
}

// checkExercisesDir fails with ExitExercisesNotFound unless the exercises
// directory exists.
func checkExercisesDir(s *config.Settings) error {
	info, err := os.Stat(s.ExercisesPath())
	if err != nil || !info.IsDir() {
		return model.NewCLIError(model.ExitExercisesNotFound, fmt.Sprintf(
			"the `%s` directory wasn't found in the current directory.\n"+
				"Run gopherlings from the root of the course checkout.", s.ExercisesDir))
	}
	return nil
}

// openProject loads settings and the catalog after checking the layout.
func openProject() (*project, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if err := checkExercisesDir(s); err != nil {
		return nil, err
	}

	reg, err := exercise.Load(s.CatalogPath())
	if err != nil {
		return nil, err
	}
	VerboseLog("Loaded %d exercises from %s", reg.Len(), s.Catalog)

	return &project{settings: s, registry: reg, logger: newLogger()}, nil
}

// newRunner builds the configured compile+test runner. The returned close
// function releases the Docker client, if any, and must always be called.
func (p *project) newRunner(ctx context.Context) (runner.Runner, func(), error) {
	s := p.settings

	switch s.Runner {
	case config.RunnerDocker:
		cli, err := runner.Connect(ctx, p.logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = cli.Close() }
		VerboseLog("Connected to Docker daemon at %s (API %s)", cli.Host(), cli.APIVersion())

		dr := runner.NewDockerRunner(cli, s.Root, s.Image, p.logger)
		n, err := dr.PruneStale(ctx)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		if n > 0 {
			VerboseLog("Removed %d stale exercise containers", n)
		}
		return dr, closeFn, nil

	default:
		lr := runner.NewLocalRunner(s.Root, s.GoBinary, p.logger)
		if err := lr.CheckToolchain(); err != nil {
			return nil, nil, err
		}
		return lr, func() {}, nil
	}
}
