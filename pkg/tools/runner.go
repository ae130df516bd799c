// Package tools discovers and invokes the external programs the converters delegate to.
package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output is what a finished process left behind. A non-zero ExitCode is
// reported here, not as an error.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports a zero exit status
func (o *Output) Success() bool {
	return o != nil && o.ExitCode == 0
}

// Runner starts a program and waits for it. It returns an error only when
// the program could not be started or ctx ended first.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Output, error)
}

// ExecRunner runs real processes
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}

	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if exitErr != nil {
		out.ExitCode = exitErr.ExitCode()
	}
	return out, nil
}
