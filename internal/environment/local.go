package environment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"time"
)

// Local runs command lines as processes on this machine through a POSIX shell.
type Local struct {
	Shell string // defaults to "sh"
}

// NewLocal creates a local environment using sh.
func NewLocal() *Local {
	return &Local{Shell: "sh"}
}

func (l *Local) Name() string { return "local" }

// Exec runs cmd with "sh -c". A non-zero exit is reported through the exit
// code, not the error.
func (l *Local) Exec(ctx context.Context, cmd string, stdout, stderr io.Writer, opts ExecOptions) (int, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	shell := l.Shell
	if shell == "" {
		shell = "sh"
	}

	execCmd := exec.CommandContext(ctx, shell, "-c", cmd)
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr
	execCmd.Dir = opts.WorkDir
	// Children of the shell may hold the output pipes open after it is killed.
	execCmd.WaitDelay = waitDelay

	if len(opts.Env) > 0 {
		keys := make([]string, 0, len(opts.Env))
		for k := range opts.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		env := os.Environ()
		for _, k := range keys {
			env = append(env, fmt.Sprintf("%s=%s", k, opts.Env[k]))
		}
		execCmd.Env = env
	}

	slog.Debug("executing command", "cmd", cmd, "dir", opts.WorkDir)

	err := execCmd.Run()
	if err != nil {
		// Check for context timeout
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return -1, ErrTimeout
		}
		// Try to extract exit code
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("executing command: %w", err)
	}

	return 0, nil
}

const waitDelay = 2 * time.Second

// ErrTimeout is returned by Exec when the command outlives its timeout.
var ErrTimeout = errors.New("command timed out")
