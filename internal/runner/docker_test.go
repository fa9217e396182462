package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// fakeAPI records calls and plays back canned responses. It implements
// containerAPI without a Docker daemon.
type fakeAPI struct {
	exitCode  int64
	stdout    string
	stderr    string
	createErr error
	listed    []container.Summary

	created    []*container.Config
	hostConfig *container.HostConfig
	started    []string
	removed    []string
}

func (f *fakeAPI) ContainerCreate(_ context.Context, cfg *container.Config, hostCfg *container.HostConfig,
	_ *network.NetworkingConfig, _ *ocispec.Platform, _ string) (container.CreateResponse, error) {
	if f.createErr != nil {
		return container.CreateResponse{}, f.createErr
	}
	f.created = append(f.created, cfg)
	f.hostConfig = hostCfg
	return container.CreateResponse{ID: "0123456789abcdef0123"}, nil
}

func (f *fakeAPI) ContainerStart(_ context.Context, id string, _ container.StartOptions) error {
	f.started = append(f.started, id)
	return nil
}

func (f *fakeAPI) ContainerWait(_ context.Context, _ string, _ container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)
	statusCh <- container.WaitResponse{StatusCode: f.exitCode}
	return statusCh, errCh
}

func (f *fakeAPI) ContainerLogs(_ context.Context, _ string, _ container.LogsOptions) (io.ReadCloser, error) {
	// The daemon multiplexes stdout and stderr into framed chunks.
	var buf bytes.Buffer
	_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(f.stdout))
	_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(f.stderr))
	return io.NopCloser(&buf), nil
}

func (f *fakeAPI) ContainerRemove(_ context.Context, id string, _ container.RemoveOptions) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeAPI) ContainerList(_ context.Context, _ container.ListOptions) ([]container.Summary, error) {
	return f.listed, nil
}

func (f *fakeAPI) ImagePull(_ context.Context, _ string, _ image.PullOptions) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

// TestDockerRunner_Success verifies the container lifecycle for a passing
// exercise: create with labels and mounts, start, wait, logs, remove.
func TestDockerRunner_Success(t *testing.T) {
	api := &fakeAPI{exitCode: 0, stdout: "ok  \t./exercises/tests/tests1\n"}
	r := newDockerRunner(api, "/home/gopher/course", "golang:1.25", nil)
	ex := &model.Exercise{Name: "tests1", Path: "exercises/tests/tests1/tests1_test.go", Mode: model.ModeTest}

	res, err := r.Run(context.Background(), ex)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Contains(t, res.Output, "ok")

	require.Len(t, api.created, 1)
	cfg := api.created[0]
	assert.Equal(t, "golang:1.25", cfg.Image)
	assert.Equal(t, []string{"go", "test", "-count=1", "./exercises/tests/tests1"}, []string(cfg.Cmd))
	assert.Equal(t, "/work", cfg.WorkingDir)
	assert.Equal(t, "tests1", cfg.Labels[LabelExercise])
	assert.Contains(t, api.hostConfig.Binds, "/home/gopher/course:/work")

	assert.Equal(t, []string{"0123456789abcdef0123"}, api.started)
	assert.Equal(t, []string{"0123456789abcdef0123"}, api.removed, "container is removed after the check")
}

// TestDockerRunner_Failure maps a non-zero exit code to a failed Result
// and keeps both output streams.
func TestDockerRunner_Failure(t *testing.T) {
	api := &fakeAPI{exitCode: 1, stdout: "building\n", stderr: "undefined: x\n"}
	r := newDockerRunner(api, "/p", "golang:1.25", nil)
	ex := &model.Exercise{Name: "variables1", Path: "exercises/variables1/main.go", Mode: model.ModeRun}

	res, err := r.Run(context.Background(), ex)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Output, "building")
	assert.Contains(t, res.Output, "undefined: x")
	assert.Len(t, api.removed, 1)
}

// TestDockerRunner_CreateError surfaces daemon errors as CLIErrors.
func TestDockerRunner_CreateError(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("connection refused")}
	r := newDockerRunner(api, "/p", "golang:1.25", nil)
	ex := &model.Exercise{Name: "variables1", Path: "exercises/variables1/main.go", Mode: model.ModeRun}

	_, err := r.Run(context.Background(), ex)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitDockerNotRunning, cliErr.Code)
	assert.Empty(t, api.removed, "nothing to remove when create fails")
}

// TestDockerRunner_PruneStale removes only gopherlings containers.
func TestDockerRunner_PruneStale(t *testing.T) {
	api := &fakeAPI{listed: []container.Summary{
		{ID: "aaa", Labels: map[string]string{LabelManagedBy: ManagedByValue, LabelExercise: "intro1"}},
		{ID: "bbb", Labels: map[string]string{LabelManagedBy: "other"}},
		{ID: "ccc", Labels: map[string]string{LabelManagedBy: ManagedByValue, LabelExercise: "intro2"}},
	}}
	r := newDockerRunner(api, "/p", "golang:1.25", nil)

	n, err := r.PruneStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"aaa", "ccc"}, api.removed)
}

// TestShortID truncates long IDs only.
func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
}
