package executor_test

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/sprout/internal/executor"
	"github.com/spachava753/sprout/internal/models"
)

var testBuildsDir = flag.String("test.buildsdir", "", "directory to preserve test build outputs (default: temp dir)")

// getBuildsDir returns the builds directory for tests.
// If -test.buildsdir flag is set, uses that directory, otherwise creates a temp dir.
func getBuildsDir(t *testing.T) string {
	if *testBuildsDir != "" {
		absPath, err := filepath.Abs(*testBuildsDir)
		require.NoError(t, err, "getting absolute path for builds dir")
		require.NoError(t, os.MkdirAll(absPath, 0755), "creating builds dir")

		return absPath
	}

	return t.TempDir()
}

// mockRunExecutor succeeds unless the tool is named "fail".
type mockRunExecutor struct {
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu   sync.Mutex
	seen []string
}

func (m *mockRunExecutor) Execute(ctx context.Context, run models.Run) (*models.RunResult, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxSeen.Load()
		if n <= cur || m.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(m.delay)

	m.mu.Lock()
	m.seen = append(m.seen, run.Config.DisplayName())
	m.mu.Unlock()

	if run.Config.Tool == "error" {
		return nil, fmt.Errorf("executor broke")
	}

	code := 0
	result := &models.RunResult{
		ID:       run.ID,
		Name:     run.Config.DisplayName(),
		Tool:     run.Config.Tool,
		ExitCode: &code,
	}
	if run.Config.Tool == "fail" {
		code = 1
		result.Error = &models.RunError{Type: models.ErrExecutionFailed, Message: "fail exited with code 1"}
	}
	return result, nil
}

func buildConfig(dir, name string, tools ...string) models.BuildConfig {
	cfg := models.BuildConfig{
		Name:        &name,
		OutputDir:   dir,
		NConcurrent: 1,
	}
	for i, tool := range tools {
		cfg.Runs = append(cfg.Runs, models.RunConfig{Tool: tool, Name: fmt.Sprintf("%s %d", tool, i)})
	}
	return cfg
}

func TestBuildAggregatesResults(t *testing.T) {
	dir := getBuildsDir(t)
	cfg := buildConfig(dir, "test-aggregate", "mxmlc", "mxmlc", "fail", "error")

	result, err := executor.NewBuildOrchestrator(cfg, &mockRunExecutor{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRuns)
	assert.Equal(t, 2, result.SucceededRuns)
	assert.Equal(t, 2, result.FailedRuns)
	assert.False(t, result.Cancelled)

	mxmlc, ok := result.Tools["mxmlc"]
	require.True(t, ok, "mxmlc tool summary not found")
	assert.Equal(t, 2, mxmlc.TotalRuns)
	assert.Equal(t, 2, mxmlc.SucceededRuns)

	// Results keep build.yaml order
	wantErrors := []models.ErrorType{"", "", models.ErrExecutionFailed, models.ErrInternalError}
	require.Len(t, result.Results, len(wantErrors))
	for i, r := range result.Results {
		var got models.ErrorType
		if r.Error != nil {
			got = *r.Error
		}
		assert.Equal(t, wantErrors[i], got, "results[%d].Error", i)
	}

	// Aggregate and per-run result files
	buildDir := filepath.Join(dir, "test-aggregate")
	data, err := os.ReadFile(filepath.Join(buildDir, "result.json"))
	require.NoError(t, err, "reading build result")
	var saved models.BuildResult
	require.NoError(t, json.Unmarshal(data, &saved), "parsing build result")
	assert.Equal(t, 4, saved.TotalRuns)

	for _, sub := range []string{"00__mxmlc-0", "02__fail-2", "03__error-3"} {
		assert.FileExists(t, filepath.Join(buildDir, sub, "result.json"))
	}
	assert.FileExists(t, filepath.Join(buildDir, "02__fail-2", "error.txt"))
	assert.FileExists(t, filepath.Join(buildDir, "config.json"))
}

func TestBuildConcurrencyLimit(t *testing.T) {
	cfg := buildConfig(getBuildsDir(t), "test-concurrency", "a", "b", "c", "d", "e", "f")
	cfg.NConcurrent = 2

	mock := &mockRunExecutor{delay: 20 * time.Millisecond}
	result, err := executor.NewBuildOrchestrator(cfg, mock).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalRuns)
	assert.LessOrEqual(t, mock.maxSeen.Load(), int32(2), "at most 2 concurrent runs")
}

func TestBuildCancelled(t *testing.T) {
	cfg := buildConfig(getBuildsDir(t), "test-cancelled", "a", "b", "c")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := executor.NewBuildOrchestrator(cfg, &mockRunExecutor{}).Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Equal(t, 3, result.SkippedRuns)
	assert.Equal(t, 0, result.TotalRuns)
}

func TestBuildDirectoryOverwriteProtection(t *testing.T) {
	ctx := context.Background()
	cfg := buildConfig(getBuildsDir(t), "test-overwrite-protection", "mxmlc")

	// First run - should succeed
	result, err := executor.NewBuildOrchestrator(cfg, &mockRunExecutor{}).Run(ctx)
	require.NoError(t, err, "first run")
	assert.Equal(t, 1, result.TotalRuns)

	// Second run with same build name - should fail
	result2, err := executor.NewBuildOrchestrator(cfg, &mockRunExecutor{}).Run(ctx)
	require.Error(t, err)
	assert.Nil(t, result2, "expected nil result on error")
	assert.ErrorContains(t, err, "already exists")
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating directory")
	require.NoError(t, os.WriteFile(path, []byte(content), perm), "writing %s", path)
}

func TestRunFromConfigDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.json"), `[
  {"name": "sprout-flex3sdk", "version": "0.9", "executables": [{"name": "mxmlc", "path": "bin/mxmlc"}]},
  {"name": "sprout-flex3sdk", "version": "1.0.pre", "executables": [{"name": "mxmlc", "path": "bin/mxmlc"}]},
  {"name": "sprout-flex3sdk", "version": "1.2", "executables": [{"name": "mxmlc", "path": "bin/mxmlc"}]}
]`, 0644)
	writeFile(t, filepath.Join(dir, "build.yaml"), `
name: dry
index:
  path: index.json
runs:
  - tool: mxmlc
    params:
      debug: true
      source_path: [src]
      input: src/Main.as
  - tool: mxmlc
    name: pinned
    pkg_version: "< 1.2"
    params:
      input: src/Main.as
`, 0644)

	result, err := executor.RunFromConfig(context.Background(), filepath.Join(dir, "build.yaml"), executor.RunOptions{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalRuns, "unexpected result: %+v", result)
	require.Equal(t, 0, result.FailedRuns, "unexpected result: %+v", result)

	// The newest compatible package wins unless the run pins an older one.
	assert.Equal(t, filepath.Join(dir, "sprout-flex3sdk-1.2", "bin", "mxmlc")+" -debug -source-path+=src src/Main.as", result.Results[0].Command)
	assert.Equal(t, filepath.Join(dir, "sprout-flex3sdk-1.0.pre", "bin", "mxmlc")+" src/Main.as", result.Results[1].Command)

	_, err = os.Stat(filepath.Join(dir, "builds"))
	assert.True(t, os.IsNotExist(err), "dry run must not write output, stat error: %v", err)
}

func TestRunFromConfigExecutes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "pkgs", "greeter", "greet")
	writeFile(t, script, "#!/bin/sh\necho \"$@\"\n", 0644)

	writeFile(t, filepath.Join(dir, "index.json"), fmt.Sprintf(`[
  {"name": "greeter", "version": "1.0", "executables": [{"name": "greet", "path": %q}]}
]`, script), 0644)
	writeFile(t, filepath.Join(dir, "tools", "greet", "tool.toml"), `
executable = "greet"
pkg_name = "greeter"

[[param]]
name = "loud"
type = "boolean"
hidden_value = true

[[param]]
name = "message"
type = "string"
`, 0644)
	writeFile(t, filepath.Join(dir, "build.yaml"), `
name: integration
output_dir: out
index:
  path: index.json
runs:
  - tool: greet
    name: Greet World
    params:
      loud: true
      message: hello world
  - tool: greet
    params:
      bogus: 1
  - tool: missing
`, 0644)

	result, err := executor.RunFromConfig(context.Background(), filepath.Join(dir, "build.yaml"), executor.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRuns)
	assert.Equal(t, 1, result.SucceededRuns)

	wantErrors := []models.ErrorType{"", models.ErrUsage, models.ErrToolInvalid}
	require.Len(t, result.Results, len(wantErrors))
	for i, r := range result.Results {
		var got models.ErrorType
		if r.Error != nil {
			got = *r.Error
		}
		assert.Equal(t, wantErrors[i], got, "results[%d].Error", i)
	}

	runDir := filepath.Join(dir, "out", "integration", "00__greet-world")
	stdout, err := os.ReadFile(filepath.Join(runDir, "stdout.txt"))
	require.NoError(t, err, "reading stdout")
	assert.Equal(t, "-loud -message=hello world\n", string(stdout))

	data, err := os.ReadFile(filepath.Join(runDir, "result.json"))
	require.NoError(t, err, "reading run result")
	var run models.RunResult
	require.NoError(t, json.Unmarshal(data, &run), "parsing run result")
	require.NotNil(t, run.ExitCode)
	assert.Equal(t, 0, *run.ExitCode)
	assert.Equal(t, script, run.Executable)
	assert.Equal(t, script+` -loud -message=hello\ world`, run.Command)
}
