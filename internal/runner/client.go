package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// connectTimeout bounds the initial ping. Docker Desktop on macOS can take
// a few seconds to answer the first request after waking up.
const connectTimeout = 5 * time.Second

// windowsPipe is the Docker Desktop named pipe on Windows.
const windowsPipe = `//./pipe/docker_engine`

// Client is a connected Docker Engine client. Obtain one with Connect; a
// Client always refers to a daemon that answered a ping.
type Client struct {
	inner      *client.Client
	host       string
	apiVersion string
}

// Connect resolves the Docker host, creates the SDK client and pings the
// daemon. Every failure is a model.CLIError with ExitDockerNotRunning, so
// commands can return it unchanged.
//
// The host comes from DOCKER_HOST when set. Otherwise the platform's
// default socket locations are probed in order.
func Connect(ctx context.Context, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	host, err := resolveHost(os.Getenv("DOCKER_HOST"), runtime.GOOS)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning,
			"Docker is required for the docker runner, but no daemon socket was found", err)
	}

	inner, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host), err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	ping, err := inner.Ping(pingCtx)
	if err != nil {
		_ = inner.Close()
		return nil, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("Docker daemon at %s is not responding (is Docker running?)", host), err)
	}

	c := &Client{inner: inner, host: host, apiVersion: ping.APIVersion}
	logger.Debug("connected to Docker daemon",
		slog.String("host", c.host),
		slog.String("api_version", c.apiVersion),
	)
	return c, nil
}

// Host returns the daemon address the client is connected to.
func (c *Client) Host() string { return c.host }

// APIVersion returns the API version reported by the daemon's ping.
func (c *Client) APIVersion() string { return c.apiVersion }

// Close releases the SDK client. It is safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the SDK client, which DockerRunner uses as its containerAPI.
func (c *Client) Inner() *client.Client {
	return c.inner
}

// resolveHost picks the Docker host URI: env when non-empty, otherwise the
// first existing default socket for goos.
func resolveHost(env, goos string) (string, error) {
	if env != "" {
		return env, nil
	}
	if goos == "windows" {
		// os.Stat does not work on named pipes, so probe with a dial.
		conn, err := net.DialTimeout("pipe", windowsPipe, time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", windowsPipe, err)
		}
		_ = conn.Close()
		return "npipe://" + windowsPipe, nil
	}

	home, _ := os.UserHomeDir()
	candidates := socketCandidates(goos, home)
	if len(candidates) == 0 {
		return "", fmt.Errorf("unsupported platform: %s", goos)
	}
	return firstSocket(candidates)
}

// socketCandidates lists the default Unix socket paths for goos, most
// common first. Rootless and Desktop installs keep theirs under home.
func socketCandidates(goos, home string) []string {
	switch goos {
	case "linux":
		paths := []string{"/var/run/docker.sock"}
		if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
			paths = append(paths, filepath.Join(runtimeDir, "docker.sock"))
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, ".docker", "desktop", "docker.sock"))
		}
		return paths
	case "darwin":
		paths := []string{"/var/run/docker.sock"}
		if home != "" {
			paths = append(paths, filepath.Join(home, ".docker", "run", "docker.sock"))
		}
		return paths
	default:
		return nil
	}
}

// firstSocket returns the unix:// URI of the first path that exists.
func firstSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("no Docker socket at any of: %v (is Docker running?)", paths)
}
