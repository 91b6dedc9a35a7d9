package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromPath(t *testing.T) {
	// Create a temporary index file
	tmpDir := t.TempDir()
	indexPath := filepath.Join(tmpDir, "index.json")

	pkgs := []Package{
		{
			Name:        "sprout-flex3sdk",
			Version:     "1.0.pre",
			Description: "Flex 3 SDK",
			Executables: []ExecutableRef{
				{Name: "mxmlc", Path: "bin/mxmlc"},
				{Name: "compc", Path: "bin/compc"},
			},
		},
	}

	data, err := json.Marshal(pkgs)
	require.NoError(t, err, "marshaling test data")
	require.NoError(t, os.WriteFile(indexPath, data, 0644), "writing test index")

	loaded, err := LoadFromPath(indexPath)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "sprout-flex3sdk", loaded[0].Name)
	assert.Len(t, loaded[0].Executables, 2)
}

func TestLoadFromPath_NotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/index.json")
	assert.Error(t, err, "expected error for nonexistent file")
}

func TestLoadFromPath_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	indexPath := filepath.Join(tmpDir, "index.json")
	require.NoError(t, os.WriteFile(indexPath, []byte("invalid json"), 0644))

	_, err := LoadFromPath(indexPath)
	assert.Error(t, err, "expected error for invalid JSON")
}

func TestLoadFromURL(t *testing.T) {
	pkgs := []Package{
		{
			Name:        "sprout-flex4sdk",
			Version:     "4.6",
			Platform:    "linux",
			Executables: []ExecutableRef{{Name: "mxmlc", Path: "/opt/flex4/bin/mxmlc"}},
		},
	}

	data, err := json.Marshal(pkgs)
	require.NoError(t, err, "marshaling test data")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer server.Close()

	loaded, err := LoadFromURL(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "linux", loaded[0].Platform)
}

func TestLoadFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := LoadFromURL(context.Background(), server.URL)
	assert.Error(t, err, "expected error for HTTP 404")
}
