package models

import "time"

// BuildConfig represents the parsed build.yaml configuration.
type BuildConfig struct {
	Name        *string     `yaml:"name,omitempty" json:"name,omitempty"`
	OutputDir   string      `yaml:"output_dir" json:"output_dir"`
	LogLevel    string      `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	NConcurrent int         `yaml:"n_concurrent" json:"n_concurrent"`
	TimeoutSec  float64     `yaml:"timeout_sec" json:"timeout_sec"`
	ToolsDir    string      `yaml:"tools_dir,omitempty" json:"tools_dir,omitempty"`
	Platform    string      `yaml:"platform,omitempty" json:"platform,omitempty"`
	Index       *IndexRef   `yaml:"index,omitempty" json:"index,omitempty"`
	Runs        []RunConfig `yaml:"runs" json:"runs"`
}

// IndexRef points at a package index file, either local or remote.
type IndexRef struct {
	Path *string `yaml:"path,omitempty" json:"path,omitempty"`
	URL  *string `yaml:"url,omitempty" json:"url,omitempty"`
}

// RunConfig is one tool invocation in build.yaml.
type RunConfig struct {
	Name       string            `yaml:"name,omitempty" json:"name,omitempty"`
	Tool       string            `yaml:"tool" json:"tool"`
	PkgName    string            `yaml:"pkg_name,omitempty" json:"pkg_name,omitempty"`
	PkgVersion string            `yaml:"pkg_version,omitempty" json:"pkg_version,omitempty"`
	Executable string            `yaml:"executable,omitempty" json:"executable,omitempty"`
	WorkDir    string            `yaml:"work_dir,omitempty" json:"work_dir,omitempty"`
	Env        map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Params     map[string]any    `yaml:"params,omitempty" json:"params,omitempty"`
}

// DisplayName returns the run name, falling back to the tool name.
func (r RunConfig) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Tool
}

// Run is a single scheduled tool invocation.
type Run struct {
	ID        string // unique identifier
	Index     int    // position in build.yaml
	Config    RunConfig
	OutputDir string // path to run output directory
}

// RunResult contains the outcome of a run.
type RunResult struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tool        string    `json:"tool"`
	Executable  string    `json:"executable,omitempty"`
	Command     string    `json:"command"`
	ExitCode    *int      `json:"exit_code"`
	Error       *RunError `json:"error"`
	DurationSec float64   `json:"duration_sec"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// Failed reports whether the run ended with an error.
func (r *RunResult) Failed() bool {
	return r.Error != nil
}

type RunError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// BuildResult contains aggregate outcomes across all runs.
type BuildResult struct {
	BuildName        string                 `json:"build_name"`
	Cancelled        bool                   `json:"cancelled"`
	TotalRuns        int                    `json:"total_runs"`
	SucceededRuns    int                    `json:"succeeded_runs"`
	FailedRuns       int                    `json:"failed_runs"`
	SkippedRuns      int                    `json:"skipped_runs"`
	TotalDurationSec float64                `json:"total_duration_sec"`
	StartedAt        time.Time              `json:"started_at"`
	EndedAt          time.Time              `json:"ended_at"`
	Tools            map[string]ToolSummary `json:"tools"`
	Results          []RunSummary           `json:"results"`
}

type ToolSummary struct {
	TotalRuns     int     `json:"total_runs"`
	SucceededRuns int     `json:"succeeded_runs"`
	FailedRuns    int     `json:"failed_runs"`
	TotalSec      float64 `json:"total_sec"`
}

type RunSummary struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Tool     string     `json:"tool"`
	Command  string     `json:"command,omitempty"`
	ExitCode *int       `json:"exit_code"`
	Error    *ErrorType `json:"error,omitempty"`
}
