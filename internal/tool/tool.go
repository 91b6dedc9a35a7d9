// Package tool binds parameter definitions to the executables that consume
// them and runs configured invocations.
package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spachava753/sprout/internal/environment"
	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/task"
	"github.com/spachava753/sprout/internal/util"
)

// ExecutableLoader resolves an executable name, optionally constrained by
// package name and version requirement, to a filesystem path.
type ExecutableLoader interface {
	LoadExecutable(ctx context.Context, name, pkgName, pkgVersion string) (string, error)
}

// Definition is a tool type: its declared parameters plus the executable
// descriptor new tools start with.
type Definition struct {
	*task.Definition
	Executable string
	PkgName    string
	PkgVersion string
}

// Bind attaches the executable descriptor of a parsed tool.toml to the
// parameters declared from it.
func Bind(def *task.Definition, cfg models.ToolConfig) *Definition {
	return &Definition{
		Definition: def,
		Executable: cfg.Executable,
		PkgName:    cfg.PkgName,
		PkgVersion: cfg.PkgVersion,
	}
}

// New creates a tool with the definition's defaults. loader may be nil for
// tools that are only serialized.
func (d *Definition) New(loader ExecutableLoader, opts ...Option) *Tool {
	t := &Tool{
		Instance:   d.Definition.New(),
		Executable: d.Executable,
		PkgName:    d.PkgName,
		PkgVersion: d.PkgVersion,
		env:        environment.NewLocal(),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loader:     loader,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tool is one configured invocation. The descriptor fields may be
// overridden before Execute.
type Tool struct {
	*task.Instance
	Executable string
	PkgName    string
	PkgVersion string

	env    environment.Environment
	exec   environment.ExecOptions
	stdout io.Writer
	stderr io.Writer
	loader ExecutableLoader
}

// Option configures a Tool.
type Option func(*Tool)

// WithEnvironment runs the tool in env instead of a local shell.
func WithEnvironment(env environment.Environment) Option {
	return func(t *Tool) { t.env = env }
}

// WithOutput redirects the tool's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(t *Tool) {
		t.stdout = stdout
		t.stderr = stderr
	}
}

// WithExecOptions sets the working directory, environment variables and
// timeout of the process.
func WithExecOptions(opts environment.ExecOptions) Option {
	return func(t *Tool) { t.exec = opts }
}

// Result describes a finished invocation.
type Result struct {
	Path     string
	Command  string
	ExitCode int
}

// ExitError is returned when the tool exits non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Type returns ErrExecutionFailed.
func (e *ExitError) Type() models.ErrorType { return models.ErrExecutionFailed }

func (e *ExitError) Is(target error) bool { return target == models.ErrExecutionFailed }

// ResolveExecutable asks the loader for the executable path.
func (t *Tool) ResolveExecutable(ctx context.Context) (string, error) {
	if t.Executable == "" {
		return "", fmt.Errorf("%w: %s has no executable", models.ErrToolInvalid, t.Definition().Name())
	}
	if t.loader == nil {
		return "", fmt.Errorf("%w: no executable loader for %s", models.ErrExecutableNotFound, t.Executable)
	}

	path, err := t.loader.LoadExecutable(ctx, t.Executable, t.PkgName, t.PkgVersion)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrExecutableNotFound, err)
	}
	return path, nil
}

// CommandLine returns the shell command line running path with the tool's
// arguments.
func (t *Tool) CommandLine(path string) string {
	args := t.ToShell()
	if args == "" {
		return util.EscapeSpaces(path)
	}
	return strings.Join([]string{util.EscapeSpaces(path), args}, " ")
}

// Execute validates the parameters, resolves the executable and runs it.
func (t *Tool) Execute(ctx context.Context) error {
	_, err := t.Run(ctx)
	return err
}

// Run is Execute returning the invocation details. The Result is returned
// whenever the process was started, including on a non-zero exit.
func (t *Tool) Run(ctx context.Context) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrToolInvalid, err)
	}

	path, err := t.ResolveExecutable(ctx)
	if err != nil {
		return nil, err
	}

	if err := ensureExecutable(path); err != nil {
		return nil, err
	}

	res := &Result{Path: path, Command: t.CommandLine(path)}
	slog.Debug("executing tool", "tool", t.Definition().Name(), "environment", t.env.Name(), "command", res.Command)

	code, err := t.env.Exec(ctx, res.Command, t.stdout, t.stderr, t.exec)
	if err != nil {
		if errors.Is(err, environment.ErrTimeout) {
			return nil, fmt.Errorf("%w: %w", models.ErrExecutionTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", models.ErrExecutionFailed, err)
	}
	res.ExitCode = code
	if code != 0 {
		return res, &ExitError{Command: t.Executable, Code: code}
	}
	return res, nil
}

// ensureExecutable adds execute bits to a resolved file that has none.
// Package archives do not always preserve file modes.
func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrExecutableNotFound, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", models.ErrExecutableNotFound, path)
	}

	mode := info.Mode().Perm()
	if mode&0o111 != 0 {
		return nil
	}

	updated := mode | 0o111
	slog.Info("updating executable file mode", "path", path, "from", mode, "to", updated)
	if err := os.Chmod(path, updated); err != nil {
		return fmt.Errorf("updating file mode of %s: %w", path, err)
	}
	return nil
}
