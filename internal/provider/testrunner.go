package provider

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// LocalTestRunner fills the test-runner capability by executing the
// configured Python test command in the generated project directory.
type LocalTestRunner struct {
	command string
	timeout time.Duration

	lookPath func(string) (string, error)
}

// NewLocalTestRunner constructs the provider from capability options.
func NewLocalTestRunner(options map[string]string) (Provider, error) {
	r := &LocalTestRunner{
		command:  "pytest",
		timeout:  5 * time.Minute,
		lookPath: exec.LookPath,
	}
	if v := options["command"]; v != "" {
		r.command = v
	}
	if v := options["timeout"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid test-runner timeout %q: %w", v, err)
		}
		r.timeout = d
	}
	return r, nil
}

func (r *LocalTestRunner) Name() string           { return "local-exec" }
func (r *LocalTestRunner) Capability() Capability { return CapabilityTestRunner }

// ValidateConnection checks the test command's binary is on PATH so a
// missing interpreter surfaces as capability-unavailable, not as a
// failed stage mid-run.
func (r *LocalTestRunner) ValidateConnection(context.Context) error {
	fields := strings.Fields(r.command)
	if len(fields) == 0 {
		return fmt.Errorf("test command is blank")
	}
	if _, err := r.lookPath(fields[0]); err != nil {
		return fmt.Errorf("test command %q not found: %w", fields[0], err)
	}
	return nil
}

// Execute runs the test command inside req.Dir.
func (r *LocalTestRunner) Execute(ctx context.Context, req Request) (Result, error) {
	command := req.Option("command", r.command)
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Result{}, fmt.Errorf("empty test command")
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, fields[0], fields[1:]...)
	cmd.Dir = req.Dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	tail := lastLines(output.String(), 20)
	if err != nil {
		return Result{}, fmt.Errorf("test command %q failed: %w\n%s", command, err, tail)
	}

	return Result{
		Summary: "tests passed",
		Details: map[string]string{
			"command": command,
			"output":  tail,
		},
	}, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
