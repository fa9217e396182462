package vcs

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/gopherlings/internal/model"
)

// Manager provides git operations by invoking the git CLI.
//
// It is stateless; all methods receive the repository path as a parameter.
// All errors from git commands are wrapped in model.CLIError with
// ExitGitError to enable proper CLI exit code handling.
type Manager struct{}

// NewManager creates a new git Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// GetRepoRoot returns the absolute path to the top-level directory of the
// git repository containing the given path.
func (m *Manager) GetRepoRoot(path string) (string, error) {
	output, err := runGit(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// IsTracked reports whether file is tracked by the repository at repoPath.
// file may be absolute or relative to repoPath.
//
// `git ls-files --error-unmatch` exits non-zero for untracked paths, so only
// the exit status matters.
func (m *Manager) IsTracked(repoPath, file string) bool {
	_, err := runGit(repoPath, "ls-files", "--error-unmatch", "--", file)
	return err == nil
}

// IsModified reports whether file differs from the version in HEAD.
func (m *Manager) IsModified(repoPath, file string) (bool, error) {
	output, err := runGit(repoPath, "status", "--porcelain", "--", file)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

// Restore overwrites file with its committed version, discarding the
// learner's edits. The file must be tracked.
//
// `git checkout HEAD -- <file>` is used rather than `git restore` so that
// older git versions (before 2.23) work too.
func (m *Manager) Restore(repoPath, file string) error {
	if !m.IsTracked(repoPath, file) {
		return model.NewCLIError(model.ExitGitError,
			fmt.Sprintf("%s is not tracked by git, so there is no original version to restore", file))
	}
	_, err := runGit(repoPath, "checkout", "HEAD", "--", filepath.ToSlash(file))
	return err
}

// runGit executes a git command with the given arguments in the specified directory.
//
// On success it returns stdout. On failure it returns a model.CLIError with
// ExitGitError that includes stderr for diagnostics.
//
// The repoPath is passed to git via -C instead of changing the process
// working directory.
func runGit(repoPath string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)

	// #nosec G204: args are constructed internally, not from user input
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}
