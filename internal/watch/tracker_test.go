package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

const (
	doneSource    = "package main\n\nfunc main() {}\n"
	pendingSource = "package main\n\n// I AM NOT DONE\n\nfunc main() {}\n"
)

// writeExercise creates dir/exercises/<name>/main.go and returns its
// catalog entry.
func writeExercise(t *testing.T, dir, name, content string) *model.Exercise {
	t.Helper()
	path := filepath.Join(dir, "exercises", name, "main.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return &model.Exercise{Name: name, Path: path, Mode: model.ModeRun, Hint: "hint for " + name}
}

func names(exs []*model.Exercise) []string {
	out := make([]string, 0, len(exs))
	for _, ex := range exs {
		out = append(out, ex.Name)
	}
	return out
}

// TestRecomputePending covers the unsolved rule, the changed-path rule and
// their union.
func TestRecomputePending(t *testing.T) {
	dir := t.TempDir()
	ex1 := writeExercise(t, dir, "ex1", doneSource)
	ex2 := writeExercise(t, dir, "ex2", pendingSource)
	ex3 := writeExercise(t, dir, "ex3", pendingSource)
	ex4 := writeExercise(t, dir, "ex4", doneSource)
	all := []*model.Exercise{ex1, ex2, ex3, ex4}

	tests := []struct {
		name    string
		changed []string
		want    []string
	}{
		{
			name:    "no changes yields all unsolved",
			changed: nil,
			want:    []string{"ex2", "ex3"},
		},
		{
			name:    "touched solved exercise is included in catalog order",
			changed: []string{ex4.Path},
			want:    []string{"ex2", "ex3", "ex4"},
		},
		{
			name:    "several touched exercises",
			changed: []string{ex4.Path, ex1.Path},
			want:    []string{"ex1", "ex2", "ex3", "ex4"},
		},
		{
			name:    "touching an unsolved exercise adds nothing",
			changed: []string{ex2.Path},
			want:    []string{"ex2", "ex3"},
		},
		{
			name:    "unrelated file",
			changed: []string{filepath.Join(dir, "exercises", "notes.go")},
			want:    []string{"ex2", "ex3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecomputePending(all, tt.changed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))

			again, err := RecomputePending(all, tt.changed)
			require.NoError(t, err)
			assert.Equal(t, got, again, "same input and disk state give the same set")
		})
	}
}

// TestRecomputePending_ScenarioB: a change to a solved exercise while a
// later one is unsolved.
func TestRecomputePending_ScenarioB(t *testing.T) {
	dir := t.TempDir()
	ex1 := writeExercise(t, dir, "ex1", doneSource)
	ex2 := writeExercise(t, dir, "ex2", pendingSource)
	ex3 := writeExercise(t, dir, "ex3", doneSource)

	got, err := RecomputePending([]*model.Exercise{ex1, ex2, ex3}, []string{ex1.Path})
	require.NoError(t, err)
	assert.Equal(t, []string{"ex1", "ex2"}, names(got))
	assert.Equal(t, 1, NumDone(3, got))
}

// TestRecomputePending_RelativeCatalogPaths matches absolute event paths
// against root-relative catalog paths.
func TestRecomputePending_RelativeCatalogPaths(t *testing.T) {
	dir := t.TempDir()
	abs := writeExercise(t, dir, "ex1", doneSource)
	rel := &model.Exercise{Name: "ex1", Path: filepath.Join("exercises", "ex1", "main.go"), Mode: model.ModeRun}

	t.Chdir(dir)

	got, err := RecomputePending([]*model.Exercise{rel}, []string{abs.Path})
	require.NoError(t, err)
	assert.Equal(t, []string{"ex1"}, names(got))
}

// TestRecomputePending_ReadError propagates I/O errors.
func TestRecomputePending_ReadError(t *testing.T) {
	missing := &model.Exercise{Name: "gone", Path: filepath.Join(t.TempDir(), "gone.go"), Mode: model.ModeRun}

	_, err := RecomputePending([]*model.Exercise{missing}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPathEndsWith(t *testing.T) {
	tests := []struct {
		path   string
		suffix string
		want   bool
	}{
		{"/course/exercises/a/main.go", "exercises/a/main.go", true},
		{"/course/exercises/a/main.go", "./exercises/a/main.go", true},
		{"/course/exercises/a/main.go", "a/main.go", true},
		{"/course/exercises/ab/main.go", "b/main.go", false},
		{"/course/exercises/a/main.go", "exercises/b/main.go", false},
		{"main.go", "exercises/a/main.go", false},
		{"/course/exercises/a/main.go", "/course/exercises/a/main.go", true},
		{"/other/exercises/a/main.go", "/course/exercises/a/main.go", false},
		{"/course/exercises/a/main.go", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+"~"+tt.suffix, func(t *testing.T) {
			assert.Equal(t, tt.want, pathEndsWith(tt.path, tt.suffix))
		})
	}
}

func TestNumDone(t *testing.T) {
	assert.Equal(t, 3, NumDone(5, make([]*model.Exercise, 2)))
	assert.Equal(t, 0, NumDone(1, make([]*model.Exercise, 2)))
}
