package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"target-platform/internal/core"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"validate", "resolve", "lock", "inspect", "profiles"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestResolveCommandFlags(t *testing.T) {
	for _, cmd := range []*cobra.Command{newResolveCommand(), newLockCommand()} {
		flags := []string{
			"target", "execution-environment", "output", "profiles-file",
			"jre-prefix", "parallelism", "metrics-textfile", "sbom",
			"http-user", "http-api-key", "http-timeout", "http-retries",
			"http-retry-delay-ms",
		}
		for _, name := range flags {
			flag := cmd.Flags().Lookup(name)
			assert.NotNil(t, flag, "%s: missing flag: %s", cmd.Name(), name)
		}
	}
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := newValidateCommand()
	assert.NotNil(t, cmd.Flags().Lookup("target"))
	assert.NotNil(t, cmd.Flags().Lookup("execution-environment"))
	assert.NotNil(t, cmd.Flags().Lookup("profiles-file"))
}

func TestProfilesCommandArgs(t *testing.T) {
	cmd := newProfilesCommand()
	require.NoError(t, cmd.Args(cmd, []string{"JavaSE-1.7"}))
	require.Error(t, cmd.Args(cmd, []string{"a", "b"}))
}

func TestResolveCommandWritesOutputs(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	outputDir := t.TempDir()

	cmd := newRootCommand()
	cmd.SetArgs([]string{
		"resolve",
		"--target", filepath.Join(root, "fixtures", "target-ee.yaml"),
		"--output", outputDir,
		"--log-level", "error",
	})
	require.NoError(t, cmd.ExecuteContext(t.Context()))
	assert.FileExists(t, filepath.Join(outputDir, "units.lock"))
	assert.FileExists(t, filepath.Join(outputDir, "target-platform.yaml"))
	assert.FileExists(t, filepath.Join(outputDir, "resolution.report"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestResolveInt(t *testing.T) {
	got := resolveInt(nil, 42, "test_key", "test-flag")
	assert.Equal(t, 42, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	unsatisfiable := &core.ResolutionError{Kind: core.KindUnsatisfiable, Msg: "no unit matches seed"}
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "already exists",
			err: errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("dup"),
			expected: 2,
		},
		{
			name: "failed precondition",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("something else failed"),
			expected: 4,
		},
		{
			name: "permission denied",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("nope"),
			expected: 3,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("file missing"),
			expected: 5,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown environment",
			err:      &core.ResolutionError{Kind: core.KindUnknownEnvironment},
			expected: 2,
		},
		{
			name:     "invalid definition",
			err:      &core.ResolutionError{Kind: core.KindInvalidDefinition},
			expected: 2,
		},
		{
			name:     "unsatisfiable location",
			err:      &core.ResolutionError{Kind: core.KindLocationResolutionFailed, LocationIndex: 1, Cause: unsatisfiable},
			expected: 4,
		},
		{
			name:     "repository unavailable",
			err:      &core.ResolutionError{Kind: core.KindLocationResolutionFailed, Cause: &core.ResolutionError{Kind: core.KindRepositoryUnavailable}},
			expected: 5,
		},
		{
			name:     "cancelled",
			err:      &core.ResolutionError{Kind: core.KindCancelled, Cause: context.Canceled},
			expected: 130,
		},
		{
			name:     "wrapped context cancellation",
			err:      fmt.Errorf("resolve: %w", context.Canceled),
			expected: 130,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
