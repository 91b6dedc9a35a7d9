// Package environment runs shell command lines for tools.
package environment

import (
	"context"
	"io"
	"time"
)

// Environment executes tool command lines.
type Environment interface {
	// Name returns the environment name (e.g., "local").
	Name() string

	// Exec executes a command line, streaming stdout and stderr to the provided writers.
	// Returns the exit code or error on failure.
	Exec(ctx context.Context, cmd string, stdout, stderr io.Writer, opts ExecOptions) (int, error)
}

// ExecOptions configures command execution.
type ExecOptions struct {
	Env     map[string]string
	Timeout time.Duration
	WorkDir string
}
