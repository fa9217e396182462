package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gopherlings/internal/model"
	"github.com/shinji-kodama/gopherlings/internal/ui"
)

// openTestProject sets up a course checkout and loads it the way every
// exercise command does, with a short poll interval.
func openTestProject(t *testing.T) (string, *project) {
	t.Helper()
	dir := setupProject(t)
	p, err := openProject()
	require.NoError(t, err)
	p.settings.PollInterval = 10 * time.Millisecond
	p.settings.Debounce = 10 * time.Millisecond
	return dir, p
}

func TestRunWatch_WatcherFailure(t *testing.T) {
	dir, p := openTestProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "exercises")))

	var out bytes.Buffer
	err := runWatch(context.Background(), nil, &out, p)
	requireExitCode(t, err, model.ExitWatchFailed)
	assert.Contains(t, out.String(), "Error: Could not watch your progress.")
	assert.Contains(t, out.String(), "'inotify limit' has been reached")
	assert.NotContains(t, out.String(), ui.KeepGoing)
}

func TestRunWatch_QuitKeepsGoing(t *testing.T) {
	_, p := openTestProject(t)

	var out bytes.Buffer
	err := runWatch(context.Background(), strings.NewReader("quit\n"), &out, p)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Bye!")
	assert.Contains(t, out.String(), ui.KeepGoing)
	assert.NotContains(t, out.String(), ui.FinishLine)
}

func TestRunWatch_FinishedBanner(t *testing.T) {
	dir := setupProject(t)
	onlyDone := "exercises:\n  - name: intro1\n    path: exercises/intro1/main.go\n    mode: run\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.yaml"), []byte(onlyDone), 0644))
	p, err := openProject()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runWatch(context.Background(), nil, &out, p))
	assert.Contains(t, out.String(), "All exercises completed!")
	assert.Contains(t, out.String(), ui.FinishLine)
	assert.NotContains(t, out.String(), ui.KeepGoing)
}
