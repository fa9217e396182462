package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMode_IsValid checks that only defined modes pass validation.
func TestMode_IsValid(t *testing.T) {
	assert.True(t, ModeRun.IsValid())
	assert.True(t, ModeTest.IsValid())
	assert.True(t, ModeVet.IsValid())
	assert.False(t, Mode("compile").IsValid())
	assert.False(t, Mode("").IsValid())
}

// TestParseMode verifies string-to-mode conversion,
// including case normalization and error cases.
func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		hasError bool
	}{
		{"run", ModeRun, false},
		{"test", ModeTest, false},
		{"vet", ModeVet, false},
		{"TEST", ModeTest, false}, // case insensitive
		{"clippy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseMode(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// writeExercise writes content to a fresh file and returns an Exercise
// pointing at it.
func writeExercise(t *testing.T, content string) *Exercise {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return &Exercise{Name: "ex", Path: path, Mode: ModeRun}
}

// TestExercise_LooksDone covers the marker detection rules.
func TestExercise_LooksDone(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"canonical marker", "package main\n\n// I AM NOT DONE\n\nfunc main() {}\n", false},
		{"indented marker", "package main\n\t//   I AM NOT DONE\n", false},
		{"lowercase marker", "package main\n//i am not done\n", false},
		{"marker removed", "package main\n\nfunc main() {}\n", true},
		{"marker inside string does not count", "package main\nvar s = \"// I AM NOT DONE\"\n", true},
		{"empty file", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := writeExercise(t, tt.content)
			done, err := ex.LooksDone()
			require.NoError(t, err)
			assert.Equal(t, tt.want, done)
		})
	}
}

// TestExercise_LooksDoneMissingFile ensures I/O errors surface instead of
// being reported as "not done".
func TestExercise_LooksDoneMissingFile(t *testing.T) {
	ex := &Exercise{Name: "ghost", Path: filepath.Join(t.TempDir(), "missing.go"), Mode: ModeRun}
	_, err := ex.LooksDone()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "ghost")
}

// TestExercise_Validate checks required catalog fields.
func TestExercise_Validate(t *testing.T) {
	tests := []struct {
		name     string
		ex       Exercise
		hasError bool
	}{
		{"valid", Exercise{Name: "intro1", Path: "exercises/intro1/main.go", Mode: ModeRun}, false},
		{"empty name", Exercise{Path: "a.go", Mode: ModeRun}, true},
		{"name with space", Exercise{Name: "intro 1", Path: "a.go", Mode: ModeRun}, true},
		{"empty path", Exercise{Name: "intro1", Mode: ModeRun}, true},
		{"bad mode", Exercise{Name: "intro1", Path: "a.go", Mode: "compile"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ex.Validate()
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestVerifyState covers both terminal shapes.
func TestVerifyState(t *testing.T) {
	done := AllDone()
	assert.True(t, done.IsAllDone())
	assert.Equal(t, "all exercises done", done.String())

	ex := &Exercise{Name: "structs2"}
	failed := FailedAt(ex)
	assert.False(t, failed.IsAllDone())
	assert.Same(t, ex, failed.Failed)
	assert.Equal(t, "failed at structs2", failed.String())
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitExerciseNotFound, "No exercise found for 'foo'!")
		assert.Equal(t, ExitExerciseNotFound, err.Code)
		assert.Equal(t, "No exercise found for 'foo'!", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("too many open files")
		err := WrapCLIError(ExitWatchFailed, "could not watch your progress", inner)
		assert.Equal(t, ExitWatchFailed, err.Code)
		assert.Contains(t, err.Error(), "too many open files")
		assert.Equal(t, inner, err.Unwrap())
		assert.True(t, errors.Is(err, inner))
	})
}
