//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/dkoosis/taskr/internal/dispatch"
)

const (
	modulePath = "github.com/dkoosis/taskr"
	binPath    = "bin/taskr"
)

// Default target - build the binary
var Default = Build

// Build builds the taskr binary with version information stamped in.
func Build() error {
	header("Build")

	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "unknown"
	}
	date := time.Now().UTC().Format(time.RFC3339)

	ldflags := strings.Join([]string{
		"-s", "-w",
		fmt.Sprintf("-X '%s/internal/version.Version=%s'", modulePath, version),
		fmt.Sprintf("-X '%s/internal/version.CommitHash=%s'", modulePath, commit),
		fmt.Sprintf("-X '%s/internal/version.BuildDate=%s'", modulePath, date),
	}, " ")

	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/taskr"); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Printf("Built: %s\n", binPath)
	return nil
}

// Clean removes build artifacts
func Clean() error {
	header("Clean")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	return sh.Rm("coverage.out")
}

// QA runs formatting, vet, linters and the race-enabled test suite.
func QA() {
	mg.SerialDeps(Lint.All, Test.Race)
}

type Lint mg.Namespace

// All runs every linter; missing optional tools are skipped with a warning.
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Staticcheck, Lint.Golangci)
}

// Format runs go fmt
func (Lint) Format() error {
	header("Go Format")
	return sh.RunV("go", "fmt", "./...")
}

// Vet runs go vet
func (Lint) Vet() error {
	header("Go Vet")
	return sh.RunV("go", "vet", "./...")
}

// Staticcheck runs staticcheck when installed.
func (Lint) Staticcheck() error {
	header("Staticcheck")
	return optional(sh.RunV("staticcheck", "./..."),
		"staticcheck", "honnef.co/go/tools/cmd/staticcheck@latest")
}

// Golangci runs golangci-lint when installed.
func (Lint) Golangci() error {
	header("Golangci-lint")
	return optional(sh.RunV("golangci-lint", "run", "--timeout=5m", "./..."),
		"golangci-lint", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest")
}

type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	header("Tests")
	return sh.RunV("go", "test", "./...")
}

// Coverage runs tests with coverage and prints the per-function summary.
func (Test) Coverage() error {
	header("Test Coverage")
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Race runs tests with the race detector
func (Test) Race() error {
	header("Race Detector")
	return sh.RunV("go", "test", "-race", "./...")
}

func header(title string) {
	fmt.Printf("\n== %s ==\n", title)
}

// optional turns a missing tool into a warning.
func optional(err error, tool, pkg string) error {
	if err != nil && dispatch.IsCommandNotFound(err) {
		fmt.Fprintf(os.Stderr, "Warning: %s not found (install: go install %s)\n", tool, pkg)
		return nil
	}
	return err
}
