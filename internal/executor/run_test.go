package executor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/sprout/internal/catalog"
	"github.com/spachava753/sprout/internal/models"
)

func TestRunDirName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple name",
			input:    "mxmlc",
			expected: "mxmlc",
		},
		{
			name:     "uppercase to lowercase",
			input:    "Compile-App",
			expected: "compile-app",
		},
		{
			name:     "special chars to hyphens",
			input:    "compile app.swf",
			expected: "compile-app-swf",
		},
		{
			name:     "consecutive special chars",
			input:    "my___app",
			expected: "my-app",
		},
		{
			name:     "leading/trailing special chars",
			input:    "_my-app_",
			expected: "my-app",
		},
		{
			name:     "empty after sanitizing",
			input:    "___",
			expected: "run",
		},
		{
			name:     "truncation removes trailing hyphen",
			input:    strings.Repeat("a", 62) + "-b",
			expected: strings.Repeat("a", 62),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runDirName(tt.input)
			assert.Equal(t, tt.expected, result)
			assert.LessOrEqual(t, len(result), maxRunDirLength)
		})
	}
}

type fixedLoader string

func (f fixedLoader) LoadExecutable(context.Context, string, string, string) (string, error) {
	return string(f), nil
}

func TestDryRunCommandLine(t *testing.T) {
	e := &DefaultRunExecutor{Catalog: catalog.New(), Loader: fixedLoader("/opt/flex/bin/mxmlc"), DryRun: true}
	run := models.Run{
		ID: "run-1",
		Config: models.RunConfig{
			Tool:       "mxmlc",
			Executable: "compc",
			Params: map[string]any{
				"debug":       true,
				"source_path": []any{"src", "lib/src"},
				"input":       "src/Main.as",
			},
		},
	}

	result, err := e.Execute(context.Background(), run)
	require.NoError(t, err)
	require.Nil(t, result.Error)

	assert.Equal(t, "/opt/flex/bin/mxmlc -debug -source-path+=src -source-path+=lib/src src/Main.as", result.Command)
	assert.Nil(t, result.ExitCode, "dry run must not report an exit code")
}

func TestExecuteConfigurationErrors(t *testing.T) {
	e := &DefaultRunExecutor{Catalog: catalog.New(), DryRun: true}

	tests := []struct {
		name string
		cfg  models.RunConfig
		want models.ErrorType
	}{
		{"unknown tool", models.RunConfig{Tool: "compc"}, models.ErrToolInvalid},
		{"unknown param", models.RunConfig{Tool: "mxmlc", Params: map[string]any{"bogus": 1}}, models.ErrUsage},
		{"wrong shape", models.RunConfig{Tool: "mxmlc", Params: map[string]any{"source_path": "src"}}, models.ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Execute(context.Background(), models.Run{ID: "x", Config: tt.cfg})
			require.NoError(t, err)
			require.NotNil(t, result.Error)
			assert.Equal(t, tt.want, result.Error.Type)
		})
	}
}
