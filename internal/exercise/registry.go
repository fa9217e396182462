// Package exercise loads the ordered exercise catalog.
//
// The catalog is an info.yaml file at the project root, parsed with
// gopkg.in/yaml.v3. Catalog order is significant: it defines the order
// in which exercises are verified and what "next" means. The Registry
// is immutable after Load, so it can be shared freely between the watch
// loop and the interactive shell without locking.
package exercise

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// NextName is the pseudo exercise name that resolves to the first
// exercise that does not look done yet.
const NextName = "next"

// ErrAllDone is returned by Find(NextName) when every exercise looks done.
var ErrAllDone = errors.New("all exercises are done")

// catalogFile mirrors the YAML structure of info.yaml.
type catalogFile struct {
	Exercises []model.Exercise `yaml:"exercises"`
}

// Registry is the ordered, read-only sequence of exercises.
type Registry struct {
	exercises []*model.Exercise
	byName    map[string]*model.Exercise
}

// Load reads and validates the catalog at path. Relative exercise paths
// are kept as written; they are resolved against the process working
// directory, which the CLI requires to be the project root.
//
// Returns a CLIError with ExitExercisesNotFound if the catalog is missing.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitExercisesNotFound,
				fmt.Sprintf("exercise catalog not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read exercise catalog: %w", err)
	}
	return Parse(data, filepath.Base(path))
}

// Parse builds a Registry from raw catalog YAML. source is used only in
// error messages.
func Parse(data []byte, source string) (*Registry, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if len(cf.Exercises) == 0 {
		return nil, fmt.Errorf("%s defines no exercises", source)
	}
	// Modes are case-insensitive in the catalog file. Unknown modes are
	// left as written for Validate to report.
	for i := range cf.Exercises {
		if m, err := model.ParseMode(string(cf.Exercises[i].Mode)); err == nil {
			cf.Exercises[i].Mode = m
		}
	}
	return New(cf.Exercises)
}

// New builds a Registry from an in-memory list, validating every entry
// and rejecting duplicate names.
func New(exercises []model.Exercise) (*Registry, error) {
	r := &Registry{
		exercises: make([]*model.Exercise, 0, len(exercises)),
		byName:    make(map[string]*model.Exercise, len(exercises)),
	}
	for i := range exercises {
		ex := exercises[i]
		if err := ex.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
		if ex.Name == NextName {
			return nil, fmt.Errorf("catalog entry %d: %q is reserved", i+1, NextName)
		}
		if _, dup := r.byName[ex.Name]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate exercise name %q", i+1, ex.Name)
		}
		p := &ex
		r.exercises = append(r.exercises, p)
		r.byName[ex.Name] = p
	}
	return r, nil
}

// All returns the exercises in catalog order. The slice is a copy; the
// exercises themselves are shared and must not be modified.
func (r *Registry) All() []*model.Exercise {
	out := make([]*model.Exercise, len(r.exercises))
	copy(out, r.exercises)
	return out
}

// Len returns the number of exercises in the catalog.
func (r *Registry) Len() int {
	return len(r.exercises)
}

// Find looks up an exercise by name. NextName resolves to the first
// exercise that does not look done; ErrAllDone is returned when there
// is none. Unknown names yield a CLIError with ExitExerciseNotFound.
func (r *Registry) Find(name string) (*model.Exercise, error) {
	if name == NextName {
		return r.Next()
	}
	ex, ok := r.byName[name]
	if !ok {
		return nil, model.NewCLIError(model.ExitExerciseNotFound,
			fmt.Sprintf("No exercise found for '%s'!", name))
	}
	return ex, nil
}

// Next returns the first exercise in catalog order that does not look done.
func (r *Registry) Next() (*model.Exercise, error) {
	for _, ex := range r.exercises {
		done, err := ex.LooksDone()
		if err != nil {
			return nil, err
		}
		if !done {
			return ex, nil
		}
	}
	return nil, ErrAllDone
}

// CountDone returns how many exercises currently look done.
func (r *Registry) CountDone() (int, error) {
	n := 0
	for _, ex := range r.exercises {
		done, err := ex.LooksDone()
		if err != nil {
			return 0, err
		}
		if done {
			n++
		}
	}
	return n, nil
}
