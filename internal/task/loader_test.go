package task_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/sprout/internal/models"
	"github.com/spachava753/sprout/internal/param"
	"github.com/spachava753/sprout/internal/task"
)

const mxmlcToml = `name = "mxmlc"
pkg_name = "sprout-flex3sdk"
pkg_version = ">= 1.0.pre"

[[param]]
name = "debug"
type = "boolean"
hidden_value = true

[[param]]
name = "source_path"
type = "paths"
aliases = ["sp"]

[[param]]
name = "input"
type = "file"
hidden_name = true
`

func writeTool(t *testing.T, dir, name, content string) string {
	t.Helper()
	toolDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(toolDir, 0755), "creating tool dir")
	require.NoError(t, os.WriteFile(filepath.Join(toolDir, "tool.toml"), []byte(content), 0644), "writing tool.toml")
	return toolDir
}

func TestLoadTool(t *testing.T) {
	toolDir := writeTool(t, t.TempDir(), "mxmlc", mxmlcToml)

	loader := task.NewLoader()
	src, err := loader.LoadTool(context.Background(), toolDir)
	require.NoError(t, err)
	assert.Equal(t, "mxmlc", src.Name)
	assert.Equal(t, "mxmlc", src.Config.Executable)
	assert.NoError(t, loader.ValidateTool(src))

	def, err := loader.Build(src)
	require.NoError(t, err)

	tool := def.New()
	require.NoError(t, tool.Set("debug", true))
	require.NoError(t, tool.Append("sp", "src"))
	require.NoError(t, tool.Set("input", "src/Main.as"))
	assert.Equal(t, "-debug -source-path+=src src/Main.as", tool.ToShell())
}

func TestLoadToolNameFromDirectory(t *testing.T) {
	toolDir := writeTool(t, t.TempDir(), "compc", "executable = \"compc\"\n")

	src, err := task.NewLoader().LoadTool(context.Background(), toolDir)
	require.NoError(t, err)
	assert.Equal(t, "compc", src.Name)
	assert.Equal(t, "compc", src.Config.Name, "name comes from the directory")
}

func TestValidateTool(t *testing.T) {
	loader := task.NewLoader()

	tests := []struct {
		name    string
		src     models.ToolSource
		wantErr bool
	}{
		{"valid", models.ToolSource{Name: "t", Config: models.ToolConfig{Executable: "t"}}, false},
		{"no executable", models.ToolSource{Name: "t"}, true},
		{"param without name", models.ToolSource{Name: "t", Config: models.ToolConfig{
			Executable: "t", Params: []models.ParamConfig{{Type: "string"}}}}, true},
		{"param without type", models.ToolSource{Name: "t", Config: models.ToolConfig{
			Executable: "t", Params: []models.ParamConfig{{Name: "a"}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.ValidateTool(&tt.src)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromConfigUnknownType(t *testing.T) {
	cfg := models.ToolConfig{
		Name:       "broken",
		Executable: "broken",
		Params: []models.ParamConfig{
			{Name: "ok", Type: "string"},
			{Name: "broken_param", Type: "unknown_type"},
		},
	}

	_, err := task.FromConfig(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUsage)
}

func TestBuildUsesLoaderFactory(t *testing.T) {
	f := param.NewFactory()
	require.NoError(t, f.Register("swc_param", func() param.Value { return param.NewPath() }))

	src := &models.ToolSource{Name: "compc", Config: models.ToolConfig{
		Name:       "compc",
		Executable: "compc",
		Params:     []models.ParamConfig{{Name: "library", Type: "swc"}},
	}}

	_, err := task.NewLoader().Build(src)
	assert.ErrorIs(t, err, models.ErrUsage, "the default factory has no swc type")

	def, err := task.NewLoader(task.WithFactory(f)).Build(src)
	require.NoError(t, err)
	tool := def.New()
	require.NoError(t, tool.Set("library", "lib/core.swc"))
	assert.Equal(t, "-library=lib/core.swc", tool.ToShell())
}

func TestFromConfigDefaults(t *testing.T) {
	cfg := models.ToolConfig{
		Name: "asdoc",
		Params: []models.ParamConfig{
			{Name: "main_title", Type: "string", Default: "API Docs"},
			{Name: "doc_sources", Type: "paths", Default: []any{"src"}},
		},
	}

	def, err := task.FromConfig(cfg)
	require.NoError(t, err)

	tool := def.New()
	assert.Equal(t, "API Docs", tool.String("main_title"))
	assert.Empty(t, tool.ToShell(), "defaults are omitted")
}
