package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spachava753/sprout/internal/catalog"
	"github.com/spachava753/sprout/internal/config"
	"github.com/spachava753/sprout/internal/executable"
	"github.com/spachava753/sprout/internal/feature"
	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/registry"
)

// RunExecutor executes a single run and returns the result.
type RunExecutor interface {
	Execute(ctx context.Context, run models.Run) (*models.RunResult, error)
}

// BuildOrchestrator coordinates the execution of all runs in a build.
type BuildOrchestrator struct {
	cfg      models.BuildConfig
	executor RunExecutor
	dryRun   bool
}

// OrchestratorOption configures a BuildOrchestrator.
type OrchestratorOption func(*BuildOrchestrator)

// WithDryRun skips writing build output. The executor is expected to be in
// dry-run mode as well.
func WithDryRun() OrchestratorOption {
	return func(o *BuildOrchestrator) { o.dryRun = true }
}

// NewBuildOrchestrator creates a new build orchestrator.
func NewBuildOrchestrator(cfg models.BuildConfig, executor RunExecutor, opts ...OrchestratorOption) *BuildOrchestrator {
	o := &BuildOrchestrator{cfg: cfg, executor: executor}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes all runs defined by the build configuration. Runs are
// independent; a failed run does not stop the others.
func (o *BuildOrchestrator) Run(ctx context.Context) (*models.BuildResult, error) {
	startTime := time.Now()

	buildName := startTime.Format("2006-01-02__15-04-05")
	if o.cfg.Name != nil {
		buildName = *o.cfg.Name
	}
	buildDir := filepath.Join(o.cfg.OutputDir, buildName)

	runs := make([]models.Run, len(o.cfg.Runs))
	for i, rc := range o.cfg.Runs {
		runs[i] = models.Run{
			ID:        uuid.NewString(),
			Index:     i,
			Config:    rc,
			OutputDir: filepath.Join(buildDir, fmt.Sprintf("%02d__%s", i, runDirName(rc.DisplayName()))),
		}
	}

	if !o.dryRun {
		if _, err := os.Stat(buildDir); err == nil {
			return nil, fmt.Errorf("build directory already exists: %s (will not overwrite existing results)", buildDir)
		}

		if err := os.MkdirAll(buildDir, 0755); err != nil {
			return nil, fmt.Errorf("creating build directory: %w", err)
		}

		// Save build config
		cfgJSON, _ := json.MarshalIndent(o.cfg, "", "  ")
		os.WriteFile(filepath.Join(buildDir, "config.json"), cfgJSON, 0644)
	}

	results := o.runConcurrent(ctx, runs)

	buildResult := o.aggregateResults(buildName, runs, results, startTime)
	if buildResult.SkippedRuns > 0 {
		buildResult.Cancelled = true
	}

	if !o.dryRun {
		buildResultJSON, _ := json.MarshalIndent(buildResult, "", "  ")
		os.WriteFile(filepath.Join(buildDir, "result.json"), buildResultJSON, 0644)
	}

	return buildResult, nil
}

// runConcurrent executes runs with at most NConcurrent in flight. The result
// of a run that never started because ctx was cancelled is nil.
func (o *BuildOrchestrator) runConcurrent(ctx context.Context, runs []models.Run) []*models.RunResult {
	results := make([]*models.RunResult, len(runs))

	var g errgroup.Group
	g.SetLimit(max(o.cfg.NConcurrent, 1))

	for i, run := range runs {
		if ctx.Err() != nil {
			slog.Info("build cancelled, skipping remaining runs", "skipped", len(runs)-i)
			break
		}
		g.Go(func() error {
			// Cancellation may arrive while waiting for a slot.
			if ctx.Err() != nil {
				return nil
			}
			results[i] = o.execute(ctx, run)
			return nil
		})
	}
	g.Wait()

	return results
}

func (o *BuildOrchestrator) execute(ctx context.Context, run models.Run) *models.RunResult {
	if !o.dryRun {
		os.MkdirAll(run.OutputDir, 0755)
	}

	slog.Debug("starting run", "run", run.Config.DisplayName(), "id", run.ID)
	result, err := o.executor.Execute(ctx, run)
	if err != nil {
		result = &models.RunResult{
			ID:   run.ID,
			Name: run.Config.DisplayName(),
			Tool: run.Config.Tool,
			Error: &models.RunError{
				Type:    models.ErrInternalError,
				Message: err.Error(),
			},
		}
	}

	if result.Failed() {
		slog.Warn("run failed", "run", result.Name, "type", result.Error.Type, "error", result.Error.Message)
	} else {
		slog.Info("run finished", "run", result.Name, "duration_sec", result.DurationSec)
	}

	if !o.dryRun {
		resultJSON, _ := json.MarshalIndent(result, "", "  ")
		os.WriteFile(filepath.Join(run.OutputDir, "result.json"), resultJSON, 0644)

		if result.Error != nil {
			os.WriteFile(filepath.Join(run.OutputDir, "error.txt"), []byte(result.Error.Message), 0644)
		}
	}

	return result
}

func (o *BuildOrchestrator) aggregateResults(buildName string, runs []models.Run, results []*models.RunResult, startTime time.Time) *models.BuildResult {
	br := &models.BuildResult{
		BuildName: buildName,
		StartedAt: startTime,
		EndedAt:   time.Now(),
		Tools:     make(map[string]models.ToolSummary),
		Results:   make([]models.RunSummary, 0, len(results)),
	}

	br.TotalDurationSec = br.EndedAt.Sub(br.StartedAt).Seconds()

	for i, r := range results {
		if r == nil {
			br.SkippedRuns++
			slog.Debug("run skipped", "run", runs[i].Config.DisplayName())
			continue
		}
		br.TotalRuns++

		ts := br.Tools[r.Tool]
		ts.TotalRuns++
		ts.TotalSec += r.DurationSec

		summary := models.RunSummary{
			ID:       r.ID,
			Name:     r.Name,
			Tool:     r.Tool,
			Command:  r.Command,
			ExitCode: r.ExitCode,
		}
		if r.Failed() {
			br.FailedRuns++
			ts.FailedRuns++
			errType := r.Error.Type
			summary.Error = &errType
		} else {
			br.SucceededRuns++
			ts.SucceededRuns++
		}

		br.Tools[r.Tool] = ts
		br.Results = append(br.Results, summary)
	}

	return br
}

// RunOptions configures RunFromConfig.
type RunOptions struct {
	DryRun bool
}

// RunFromConfig loads a build config file and executes the build. Relative
// paths in the file resolve against its directory.
func RunFromConfig(ctx context.Context, configPath string, opts RunOptions) (*models.BuildResult, error) {
	cfg, err := config.LoadBuildConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading build config: %w", err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(baseDir, cfg.OutputDir)
	}

	exec, err := NewRunExecutor(ctx, cfg, baseDir)
	if err != nil {
		return nil, err
	}
	exec.DryRun = opts.DryRun

	var oopts []OrchestratorOption
	if opts.DryRun {
		oopts = append(oopts, WithDryRun())
	}
	return NewBuildOrchestrator(cfg, exec, oopts...).Run(ctx)
}

// NewRunExecutor wires the tool catalog and executable registry described by
// cfg. The catalog and package index are loaded concurrently.
func NewRunExecutor(ctx context.Context, cfg models.BuildConfig, baseDir string) (*DefaultRunExecutor, error) {
	var (
		tools *catalog.Catalog
		pkgs  []registry.Package
		root  string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		toolsDir := cfg.ToolsDir
		if !filepath.IsAbs(toolsDir) {
			toolsDir = filepath.Join(baseDir, toolsDir)
		}
		if _, err := os.Stat(toolsDir); err != nil {
			slog.Debug("no tools directory, using built-in tools", "path", toolsDir)
			tools = catalog.New()
			return nil
		}
		c, err := catalog.NewLoader().LoadFromPath(gctx, toolsDir)
		if err != nil {
			return fmt.Errorf("loading tools: %w", err)
		}
		tools = c
		return nil
	})
	g.Go(func() error {
		var err error
		pkgs, root, err = loadIndex(gctx, cfg.Index, baseDir)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var eopts []executable.Option
	if cfg.Platform != "" {
		eopts = append(eopts, executable.WithPlatform(cfg.Platform))
	}
	exes := executable.NewRegistry(eopts...)

	var reqs []feature.Requirer
	if len(pkgs) > 0 {
		reqs = append(reqs, registry.NewIndexRequirer(pkgs, root, exes))
	}
	reqs = append(reqs, executable.NewPathRequirer(exes))
	exes.SetRequirer(executable.Chain(reqs...))

	return &DefaultRunExecutor{
		Catalog: tools,
		Loader:  exes,
		Timeout: time.Duration(cfg.TimeoutSec * float64(time.Second)),
		BaseDir: baseDir,
	}, nil
}

func loadIndex(ctx context.Context, ref *models.IndexRef, baseDir string) ([]registry.Package, string, error) {
	if ref == nil {
		return nil, "", nil
	}

	if ref.URL != nil && *ref.URL != "" {
		pkgs, err := registry.LoadFromURL(ctx, *ref.URL)
		if err != nil {
			return nil, "", fmt.Errorf("loading index from %s: %w", *ref.URL, err)
		}
		return pkgs, baseDir, nil
	}

	path := *ref.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	pkgs, err := registry.LoadFromPath(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading index from %s: %w", path, err)
	}
	slog.Debug("loaded package index", "path", path, "packages", len(pkgs))
	return pkgs, filepath.Dir(path), nil
}
