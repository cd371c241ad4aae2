package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"target-platform/tests/testutil"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	root := testutil.RepoRoot(t)
	binary := filepath.Join(t.TempDir(), "target-platform")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/target-platform")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return binary
}

func TestResolveCommandE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e in short mode")
	}
	root := testutil.RepoRoot(t)
	binary := buildBinary(t)
	outDir := t.TempDir()

	cmd := exec.Command(binary, "resolve",
		"--target", "fixtures/target-ee.yaml",
		"--output", outDir,
		"--sbom",
	)
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "resolved: ee-demo (2 units")

	require.FileExists(t, filepath.Join(outDir, "target-platform.yaml"))
	require.FileExists(t, filepath.Join(outDir, "units.lock"))
	require.FileExists(t, filepath.Join(outDir, "resolution.report"))
	require.FileExists(t, filepath.Join(outDir, "target-platform.spdx.json"))

	inspect := exec.Command(binary, "inspect", "--output", outDir)
	inspect.Dir = root
	out, err = inspect.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "synthetic: a.jre.javase/1.7.0")
}

func TestExitCodesE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e in short mode")
	}
	root := testutil.RepoRoot(t)
	binary := buildBinary(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{
			name: "unsatisfiable location",
			args: []string{"resolve", "--target", "fixtures/target-unsat.yaml", "--output", t.TempDir()},
			code: 4,
		},
		{
			name: "unknown execution environment",
			args: []string{"validate", "--target", "fixtures/target-ee.yaml", "--execution-environment", "Nope-1.0"},
			code: 2,
		},
		{
			name: "missing repository",
			args: []string{"resolve", "--target", writeMissingRepositoryTarget(t), "--output", t.TempDir(), "--http-retries", "1"},
			code: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binary, tt.args...)
			cmd.Dir = root
			out, err := cmd.CombinedOutput()
			var exitErr *exec.ExitError
			require.True(t, errors.As(err, &exitErr), string(out))
			assert.Equal(t, tt.code, exitErr.ExitCode(), string(out))
		})
	}
}

func TestProfilesCommandE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e in short mode")
	}
	root := testutil.RepoRoot(t)
	binary := buildBinary(t)

	cmd := exec.Command(binary, "profiles", "JavaSE-1.8")
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "JavaSE-1.8 (auto)", lines[0])
	assert.Contains(t, string(out), "- package:java.util.stream")
}

func writeMissingRepositoryTarget(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return testutil.WriteFile(t, dir, "target.yaml", `name: missing
locations:
  - include_mode: slicer
    repositories:
      - location: does-not-exist
    units:
      - id: anything
`)
}
