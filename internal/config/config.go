// Package config loads the optional gopherlings settings file.
//
// Settings live in .gopherlings.jsonc at the project root. The file is
// JSONC (JSON with Comments), so this package uses github.com/tidwall/jsonc
// to strip comments and trailing commas before parsing with the standard
// encoding/json library. A missing file is not an error: every field has a
// default, and command-line flags override whatever the file says.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/jsonc"
)

// FileName is the settings file looked up in the project root.
const FileName = ".gopherlings.jsonc"

// Runner names accepted by the "runner" setting.
const (
	RunnerLocal  = "local"
	RunnerDocker = "docker"
)

// Default values applied when neither the file nor a flag sets a field.
const (
	DefaultExercisesDir = "exercises"
	DefaultCatalog      = "info.yaml"
	DefaultExtension    = ".go"
	DefaultDebounce     = time.Second
	DefaultPollInterval = time.Second
	DefaultImage        = "golang:1.25"
	DefaultGoBinary     = "go"
)

// Duration is a time.Duration that unmarshals from a Go duration string
// such as "1s" or "750ms".
type Duration time.Duration

// UnmarshalJSON parses a quoted duration string.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"1s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// rawSettings mirrors the JSON structure of the settings file. Pointer
// fields distinguish "absent" from the zero value so defaults only fill
// gaps.
type rawSettings struct {
	ExercisesDir    *string   `json:"exercisesDir"`
	Catalog         *string   `json:"catalog"`
	Extension       *string   `json:"extension"`
	Debounce        *Duration `json:"debounce"`
	PollInterval    *Duration `json:"pollInterval"`
	Runner          *string   `json:"runner"`
	Image           *string   `json:"image"`
	GoBinary        *string   `json:"goBinary"`
	AwaitCompletion *bool     `json:"awaitCompletion"`
}

// Settings holds the resolved configuration for one invocation.
type Settings struct {
	// Root is the project root all relative paths are resolved against.
	Root string

	// ExercisesDir is the directory watched in watch mode.
	ExercisesDir string

	// Catalog is the exercise catalog file name.
	Catalog string

	// Extension is the source-file extension that triggers re-verification.
	Extension string

	// Debounce is the quiet window used to coalesce file events.
	Debounce time.Duration

	// PollInterval bounds how long the watch loop waits for events before
	// checking whether the learner asked to quit.
	PollInterval time.Duration

	// Runner selects the compile+test backend: "local" or "docker".
	Runner string

	// Image is the container image used by the docker runner.
	Image string

	// GoBinary is the Go toolchain binary used by the local runner.
	GoBinary string

	// AwaitCompletion makes a passing exercise still count as pending
	// until the learner removes its not-done marker.
	AwaitCompletion bool
}

// Default returns the settings used when no file is present.
func Default(root string) *Settings {
	return &Settings{
		Root:            root,
		ExercisesDir:    DefaultExercisesDir,
		Catalog:         DefaultCatalog,
		Extension:       DefaultExtension,
		Debounce:        DefaultDebounce,
		PollInterval:    DefaultPollInterval,
		Runner:          RunnerLocal,
		Image:           DefaultImage,
		GoBinary:        DefaultGoBinary,
		AwaitCompletion: true,
	}
}

// Load reads the settings file at path and merges it over the defaults
// for root. When path is empty, root/.gopherlings.jsonc is used and a
// missing file yields the defaults. An explicitly named file must exist.
func Load(root, path string) (*Settings, error) {
	s := Default(root)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var raw rawSettings
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	s.apply(&raw)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// apply copies every field present in raw over s.
func (s *Settings) apply(raw *rawSettings) {
	if raw.ExercisesDir != nil {
		s.ExercisesDir = *raw.ExercisesDir
	}
	if raw.Catalog != nil {
		s.Catalog = *raw.Catalog
	}
	if raw.Extension != nil {
		s.Extension = *raw.Extension
	}
	if raw.Debounce != nil {
		s.Debounce = time.Duration(*raw.Debounce)
	}
	if raw.PollInterval != nil {
		s.PollInterval = time.Duration(*raw.PollInterval)
	}
	if raw.Runner != nil {
		s.Runner = *raw.Runner
	}
	if raw.Image != nil {
		s.Image = *raw.Image
	}
	if raw.GoBinary != nil {
		s.GoBinary = *raw.GoBinary
	}
	if raw.AwaitCompletion != nil {
		s.AwaitCompletion = *raw.AwaitCompletion
	}
}

// Validate rejects settings the watch loop or runners cannot work with.
func (s *Settings) Validate() error {
	if s.ExercisesDir == "" {
		return fmt.Errorf("exercisesDir must not be empty")
	}
	if s.Catalog == "" {
		return fmt.Errorf("catalog must not be empty")
	}
	if s.Extension == "" || s.Extension[0] != '.' {
		return fmt.Errorf("extension %q must start with a dot", s.Extension)
	}
	if s.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", s.Debounce)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("pollInterval must be positive, got %s", s.PollInterval)
	}
	switch s.Runner {
	case RunnerLocal:
		if s.GoBinary == "" {
			return fmt.Errorf("goBinary must not be empty for the local runner")
		}
	case RunnerDocker:
		if s.Image == "" {
			return fmt.Errorf("image must not be empty for the docker runner")
		}
	default:
		return fmt.Errorf("unknown runner %q (valid: local, docker)", s.Runner)
	}
	return nil
}

// ExercisesPath returns the absolute-or-root-relative exercises directory.
func (s *Settings) ExercisesPath() string {
	return filepath.Join(s.Root, s.ExercisesDir)
}

// CatalogPath returns the path of the exercise catalog file.
func (s *Settings) CatalogPath() string {
	return filepath.Join(s.Root, s.Catalog)
}
