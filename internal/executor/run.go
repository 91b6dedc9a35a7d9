package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spachava753/sprout/internal/catalog"
	"github.com/spachava753/sprout/internal/environment"
	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/tool"
)

// DefaultRunExecutor runs a single tool invocation from the catalog.
type DefaultRunExecutor struct {
	Catalog *catalog.Catalog
	Loader  tool.ExecutableLoader
	Env     environment.Environment
	Timeout time.Duration
	DryRun  bool   // resolve and record the command line without running it
	BaseDir string // relative work dirs resolve against it
}

// Execute runs the tool and returns the result. Failures are recorded in the
// result rather than returned.
func (e *DefaultRunExecutor) Execute(ctx context.Context, run models.Run) (*models.RunResult, error) {
	result := &models.RunResult{
		ID:         run.ID,
		Name:       run.Config.DisplayName(),
		Tool:       run.Config.Tool,
		StartedAt:  time.Now(),
		Executable: run.Config.Executable,
	}

	defer func() {
		result.EndedAt = time.Now()
		result.DurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	t, closeOutput, err := e.configure(run)
	if err != nil {
		result.Error = runError(err)
		return result, nil
	}
	defer closeOutput()

	if e.DryRun {
		path, err := t.ResolveExecutable(ctx)
		if err != nil {
			slog.Warn("executable not resolved", "run", result.Name, "executable", t.Executable, "error", err)
			path = t.Executable
		}
		result.Executable = path
		result.Command = t.CommandLine(path)
		return result, nil
	}

	res, err := t.Run(ctx)
	if res != nil {
		result.Executable = res.Path
		result.Command = res.Command
		code := res.ExitCode
		result.ExitCode = &code
	}
	if err != nil {
		result.Error = runError(err)
	}
	return result, nil
}

// configure creates the tool for run with its params applied and its output
// directed to the run directory.
func (e *DefaultRunExecutor) configure(run models.Run) (*tool.Tool, func(), error) {
	def, err := e.Catalog.Get(run.Config.Tool)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", models.ErrToolInvalid, err)
	}

	stdout, stderr := io.Discard, io.Discard
	closeOutput := func() {}
	if !e.DryRun && run.OutputDir != "" {
		outFile, err := os.Create(filepath.Join(run.OutputDir, "stdout.txt"))
		if err != nil {
			return nil, nil, fmt.Errorf("creating stdout file: %w", err)
		}
		errFile, err := os.Create(filepath.Join(run.OutputDir, "stderr.txt"))
		if err != nil {
			outFile.Close()
			return nil, nil, fmt.Errorf("creating stderr file: %w", err)
		}
		stdout, stderr = outFile, errFile
		closeOutput = func() {
			outFile.Close()
			errFile.Close()
		}
	}

	workDir := run.Config.WorkDir
	if workDir != "" && !filepath.IsAbs(workDir) && e.BaseDir != "" {
		workDir = filepath.Join(e.BaseDir, workDir)
	}

	opts := []tool.Option{
		tool.WithOutput(stdout, stderr),
		tool.WithExecOptions(environment.ExecOptions{
			Env:     run.Config.Env,
			Timeout: e.Timeout,
			WorkDir: workDir,
		}),
	}
	if e.Env != nil {
		opts = append(opts, tool.WithEnvironment(e.Env))
	}

	t := def.New(e.Loader, opts...)
	if run.Config.Executable != "" {
		t.Executable = run.Config.Executable
	}
	if run.Config.PkgName != "" {
		t.PkgName = run.Config.PkgName
	}
	if run.Config.PkgVersion != "" {
		t.PkgVersion = run.Config.PkgVersion
	}

	if err := t.Apply(run.Config.Params); err != nil {
		closeOutput()
		return nil, nil, fmt.Errorf("configuring %s: %w", run.Config.Tool, err)
	}
	return t, closeOutput, nil
}

func runError(err error) *models.RunError {
	return &models.RunError{Type: models.TypeOf(err), Message: err.Error()}
}

// runDirName turns a run name into a directory-safe lowercase name.
func runDirName(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if len(s) > maxRunDirLength {
		s = strings.TrimRight(s[:maxRunDirLength], "-")
	}
	if s == "" {
		return "run"
	}
	return s
}

const maxRunDirLength = 63
