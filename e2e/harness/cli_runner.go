package harness

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/artpar/gallery/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes CLI commands against the harness config.
type CLIRunner struct {
	harness *E2EHarness
}

// Run executes a CLI command with the given arguments.
func (r *CLIRunner) Run(args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.timeout)
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--config", r.harness.ConfigPath()}, args...))

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.ExitCode = 1
	}

	return result, err
}

// Favorites runs a favorites subcommand.
func (r *CLIRunner) Favorites(args ...string) (*CLIResult, error) {
	return r.Run(append([]string{"favorites"}, args...)...)
}

// Download runs the download command.
func (r *CLIRunner) Download(url string, opts ...string) (*CLIResult, error) {
	args := append([]string{"download"}, opts...)
	return r.Run(append(args, url)...)
}

// Feed prints a walk of the given length as JSON.
func (r *CLIRunner) Feed(steps int, opts ...string) (*CLIResult, error) {
	args := []string{"feed", "--json", "--steps", strconv.Itoa(steps)}
	return r.Run(append(args, opts...)...)
}
