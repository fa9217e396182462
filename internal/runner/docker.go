// docker.go implements the container-backed runner. Each exercise check
// creates a short-lived container from the configured Go image, runs the
// same toolchain command the LocalRunner would run, collects the logs, and
// removes the container again.
//
// Every container is labelled (see label.go) so that PruneStale can clean
// up containers left behind when a session is killed mid-check.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

const (
	// containerWorkdir is where the project is mounted inside the container.
	containerWorkdir = "/work"

	// cacheVolume is the named volume holding the Go build and module
	// caches, shared by all gopherlings containers so that repeated checks
	// do not rebuild the standard library.
	cacheVolume = "gopherlings-gocache"

	// cacheMount is the mount point of cacheVolume inside the container.
	cacheMount = "/gocache"
)

// containerAPI is the subset of the Docker SDK client used by DockerRunner.
// *client.Client satisfies it; tests substitute a fake.
type containerAPI interface {
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
}

// DockerRunner checks exercises inside throwaway containers.
type DockerRunner struct {
	api    containerAPI
	root   string
	image  string
	logger *slog.Logger
}

// NewDockerRunner creates a runner that uses cli to start containers from
// img with the project at root mounted. root should be absolute, since
// Docker resolves bind mounts on the daemon side.
func NewDockerRunner(cli *Client, root, img string, logger *slog.Logger) *DockerRunner {
	return newDockerRunner(cli.Inner(), root, img, logger)
}

func newDockerRunner(api containerAPI, root, img string, logger *slog.Logger) *DockerRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DockerRunner{api: api, root: root, image: img, logger: logger}
}

// Run executes the toolchain command for ex in a fresh container.
//
// The container exit code decides success. Docker API failures are returned
// as CLIErrors with ExitDockerNotRunning, since they almost always mean the
// daemon went away.
func (r *DockerRunner) Run(ctx context.Context, ex *model.Exercise) (Result, error) {
	args, err := CommandArgs(r.root, ex)
	if err != nil {
		return Result{}, err
	}

	id, err := r.create(ctx, ex, args)
	if err != nil {
		return Result{}, err
	}
	// Remove with a fresh context so cleanup still happens after ctx is
	// cancelled by Ctrl-C.
	defer r.remove(context.WithoutCancel(ctx), id)

	if err := r.api.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return Result{}, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container for exercise %s", ex.Name), err)
	}

	statusCh, errCh := r.api.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	var exitCode int64
	select {
	case err := <-errCh:
		if err != nil {
			return Result{}, model.WrapCLIError(model.ExitDockerNotRunning,
				fmt.Sprintf("failed waiting for exercise %s", ex.Name), err)
		}
	case status := <-statusCh:
		if status.Error != nil && status.Error.Message != "" {
			return Result{}, model.NewCLIError(model.ExitDockerNotRunning,
				fmt.Sprintf("container for exercise %s failed: %s", ex.Name, status.Error.Message))
		}
		exitCode = status.StatusCode
	}

	output, err := r.logs(ctx, id)
	if err != nil {
		return Result{}, err
	}

	r.logger.Debug("container finished",
		slog.String("exercise", ex.Name),
		slog.String("container", shortID(id)),
		slog.Int64("exit_code", exitCode),
	)

	return Result{Success: exitCode == 0, Output: output}, nil
}

// create makes the container for one check, pulling the image once if
// the daemon does not have it yet.
func (r *DockerRunner) create(ctx context.Context, ex *model.Exercise, args []string) (string, error) {
	cfg := &container.Config{
		Image:      r.image,
		Cmd:        append([]string{"go"}, args...),
		WorkingDir: containerWorkdir,
		Labels:     BuildLabels(ex, r.root),
		Env: []string{
			"GOCACHE=" + cacheMount + "/build",
			"GOMODCACHE=" + cacheMount + "/mod",
			"GOFLAGS=-buildvcs=false",
		},
	}
	hostCfg := &container.HostConfig{
		Binds: []string{
			filepath.ToSlash(r.root) + ":" + containerWorkdir,
			cacheVolume + ":" + cacheMount,
		},
	}

	resp, err := r.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, "")
	if err != nil && client.IsErrNotFound(err) {
		if pullErr := r.pull(ctx); pullErr != nil {
			return "", pullErr
		}
		resp, err = r.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, "")
	}
	if err != nil {
		return "", model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create container for exercise %s", ex.Name), err)
	}
	for _, w := range resp.Warnings {
		r.logger.Warn("docker warning", slog.String("warning", w))
	}
	return resp.ID, nil
}

// pull downloads the configured image, draining the progress stream.
func (r *DockerRunner) pull(ctx context.Context) error {
	r.logger.Info("pulling image", slog.String("image", r.image))
	rc, err := r.api.ImagePull(ctx, r.image, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull image %q", r.image), err)
	}
	defer rc.Close()
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("failed to pull image %q: %w", r.image, err)
	}
	return nil
}

// logs collects stdout and stderr of a finished container. The daemon
// multiplexes both streams, so stdcopy is used to split the frames.
func (r *DockerRunner) logs(ctx context.Context, id string) (string, error) {
	rc, err := r.api.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to read logs of container %s", shortID(id)), err)
	}
	defer rc.Close()

	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, rc); err != nil {
		return "", fmt.Errorf("failed to decode logs of container %s: %w", shortID(id), err)
	}
	return out.String(), nil
}

// remove force-removes a container, logging instead of failing because
// the check result is already known.
func (r *DockerRunner) remove(ctx context.Context, id string) {
	if err := r.api.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		r.logger.Warn("failed to remove container",
			slog.String("container", shortID(id)),
			slog.String("error", err.Error()),
		)
	}
}

// PruneStale removes gopherlings containers for this project that are
// still present from an earlier, interrupted session. It returns the
// number of containers removed.
func (r *DockerRunner) PruneStale(ctx context.Context) (int, error) {
	containers, err := r.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: ManagedFilter(r.root),
	})
	if err != nil {
		return 0, model.WrapCLIError(model.ExitDockerNotRunning,
			"failed to list Docker containers", err)
	}

	removed := 0
	for _, c := range containers {
		name, err := ParseExerciseLabel(c.Labels)
		if err != nil {
			r.logger.Debug("skipping container", slog.String("container", shortID(c.ID)), slog.String("reason", err.Error()))
			continue
		}
		if err := r.api.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true}); err != nil {
			return removed, model.WrapCLIError(model.ExitDockerNotRunning,
				fmt.Sprintf("failed to remove stale container for exercise %s", name), err)
		}
		removed++
	}
	return removed, nil
}

// shortID truncates a container ID to the 12 characters docker ps shows.
func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
