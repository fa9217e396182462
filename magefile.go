//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the binary
var Default = Build

const (
	binary  = "bin/gopherlings"
	mainPkg = "./cmd/gopherlings"
)

// Build builds the gopherlings binary with version information
func Build() error {
	version := envOr("VERSION", "dev")
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "none"
	}
	ldflags := strings.Join([]string{
		"-X main.version=" + version,
		"-X main.commit=" + commit,
		"-X main.date=" + time.Now().UTC().Format(time.RFC3339),
	}, " ")
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binary, mainPkg)
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll("bin")
}

// Test namespace for test targets
type Test mg.Namespace

// All runs every unit test
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the tests with the race detector; watch mode is concurrent
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint namespace for static checks
type Lint mg.Namespace

// All runs format and vet checks
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet)
}

// Format fails when gofmt would change a file
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// QA runs lint and tests
func QA() {
	mg.SerialDeps(Lint.All, Test.All)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
