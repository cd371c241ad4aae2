package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"target-platform/internal/types"
)

func TestTargetFileAdapterLoadTarget(t *testing.T) {
	dir := t.TempDir()
	content := `name: demo
execution_environment: JavaSE-1.7
environments:
  - os: linux
    ws: gtk
    arch: x86_64
locations:
  - name: main
    include_mode: Planner
    repositories:
      - location: repos/ee
      - id: remote
        location: https://example.invalid/repo/
      - location: /abs/repo
    units:
      - id: dom-client
        version: 0.0.1.SNAPSHOT
`
	path := filepath.Join(dir, "demo.target.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	def, err := NewTargetFileAdapter().LoadTarget(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", def.Name)
	assert.Equal(t, "JavaSE-1.7", def.ExecutionEnvironment)
	require.Len(t, def.Locations, 1)
	loc := def.Locations[0]
	assert.Equal(t, types.IncludeModePlanner, loc.IncludeMode)
	want := []types.RepositoryRef{
		{Location: filepath.Join(dir, "repos/ee")},
		{ID: "remote", Location: "https://example.invalid/repo/"},
		{Location: "/abs/repo"},
	}
	if diff := cmp.Diff(want, loc.Repositories); diff != "" {
		t.Fatalf("repositories mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []types.SeedUnit{{ID: "dom-client", Version: "0.0.1.SNAPSHOT"}}, loc.Units)
	assert.Equal(t, []types.Environment{{OS: "linux", WS: "gtk", Arch: "x86_64"}}, def.Environments)
}

func TestTargetFileAdapterErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewTargetFileAdapter().LoadTarget(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locations: [\n"), 0644))
	_, err = NewTargetFileAdapter().LoadTarget(path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
