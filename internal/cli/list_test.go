// list_test.go contains unit tests for the pure formatting and filtering
// functions used by the list command.

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// TestFormatProgress verifies the summary line under the list.
func TestFormatProgress(t *testing.T) {
	tests := []struct {
		name  string
		done  int
		total int
		want  string
	}{
		{
			name:  "none done",
			done:  0,
			total: 4,
			want:  "Progress: You completed 0 / 4 exercises (0.0 %).",
		},
		{
			name:  "fraction is rounded to one decimal",
			done:  1,
			total: 3,
			want:  "Progress: You completed 1 / 3 exercises (33.3 %).",
		},
		{
			name:  "all done",
			done:  8,
			total: 8,
			want:  "Progress: You completed 8 / 8 exercises (100.0 %).",
		},
		{
			name:  "empty catalog",
			done:  0,
			total: 0,
			want:  "Progress: You completed 0 / 0 exercises (0.0 %).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatProgress(tt.done, tt.total))
		})
	}
}

func TestSplitFilter(t *testing.T) {
	assert.Equal(t, []string{"vars", "structs"}, splitFilter(" Vars, ,STRUCTS ,"))
	assert.Nil(t, splitFilter(""))
}

// TestBuildListResult covers the solved/unsolved and filter combinations.
func TestBuildListResult(t *testing.T) {
	dir := t.TempDir()
	exs := []*model.Exercise{
		writeTestExercise(t, dir, "variables1", true),
		writeTestExercise(t, dir, "variables2", false),
		writeTestExercise(t, dir, "structs1", false),
		writeTestExercise(t, dir, "Generics1", false),
	}

	tests := []struct {
		name  string
		flags listFlags
		want  []string
	}{
		{
			name:  "no flags lists everything",
			flags: listFlags{},
			want:  []string{"variables1", "variables2", "structs1", "Generics1"},
		},
		{
			name:  "solved",
			flags: listFlags{solved: true},
			want:  []string{"variables1"},
		},
		{
			name:  "unsolved",
			flags: listFlags{unsolved: true},
			want:  []string{"variables2", "structs1", "Generics1"},
		},
		{
			name:  "solved and unsolved together list everything",
			flags: listFlags{solved: true, unsolved: true},
			want:  []string{"variables1", "variables2", "structs1", "Generics1"},
		},
		{
			name:  "filter matches names case-insensitively",
			flags: listFlags{filter: "STRUCTS", filterSet: true},
			want:  []string{"structs1"},
		},
		{
			name:  "lowercase filter matches mixed-case names",
			flags: listFlags{filter: "generics", filterSet: true},
			want:  []string{"Generics1"},
		},
		{
			name:  "comma separated filter",
			flags: listFlags{filter: "structs,variables2", filterSet: true},
			want:  []string{"variables2", "structs1"},
		},
		{
			name:  "filter combined with unsolved",
			flags: listFlags{filter: "variables", filterSet: true, unsolved: true},
			want:  []string{"variables2"},
		},
		{
			name:  "explicit blank filter matches nothing",
			flags: listFlags{filter: " , ", filterSet: true},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := buildListResult(exs, &tt.flags)
			require.NoError(t, err)

			got := make([]string, 0, len(res.Exercises))
			for _, e := range res.Exercises {
				got = append(got, e.Name)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, res.Done, "progress always covers the whole catalog")
			assert.Equal(t, 4, res.Total)
		})
	}
}

// TestPrintListResultText checks the three text layouts.
func TestPrintListResultText(t *testing.T) {
	res := &listResult{
		Exercises: []listEntry{
			{Name: "variables1", Path: "exercises/variables1/main.go", Status: statusDone},
		},
		Done:  1,
		Total: 2,
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		printListResultText(&buf, res, &listFlags{})
		assert.Equal(t,
			"Name             \tPath                                          \tStatus \n"+
				"variables1       \texercises/variables1/main.go                  \tDone   \n"+
				"Progress: You completed 1 / 2 exercises (50.0 %).\n",
			buf.String())
	})

	t.Run("names", func(t *testing.T) {
		var buf bytes.Buffer
		printListResultText(&buf, res, &listFlags{names: true})
		assert.Equal(t, "variables1\nProgress: You completed 1 / 2 exercises (50.0 %).\n", buf.String())
	})

	t.Run("paths", func(t *testing.T) {
		var buf bytes.Buffer
		printListResultText(&buf, res, &listFlags{paths: true})
		assert.Equal(t, "exercises/variables1/main.go\nProgress: You completed 1 / 2 exercises (50.0 %).\n", buf.String())
	})
}

// TestTableRow pads by display width, so wide characters count twice.
func TestTableRow(t *testing.T) {
	row := tableRow("変数1", "p", "Done")
	assert.Equal(t, "変数1"+strings.Repeat(" ", 12)+"\tp"+strings.Repeat(" ", 45)+"\tDone   ", row)
}
