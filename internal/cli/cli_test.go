package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanmeadows/spwguard/internal/runs"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		workDir = ""
		configJSONFlag = false
		specJSONFlag = false
		runsStrictFlag = false
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestConfigGet(t *testing.T) {
	t.Setenv("SPW_ENFORCEMENT_MODE", "")
	t.Setenv("SPW_HOOKS_ENABLED", "")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".spec-workflow", "spw-config.toml"), `[hooks]
enforcement_mode = "block"

[statusline]
base_branches = ["trunk", "dev"]

[skills.design]
required = ["a"]
`)

	out, _, err := execute(t, "", "config", "get", "hooks.enforcement_mode", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "block\n", out)

	out, _, err = execute(t, "", "config", "get", "statusline.base_branches", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "trunk,dev\n", out)

	out, _, err = execute(t, "", "config", "get", "hooks.recent_run_window_minutes", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "30\n", out)

	out, _, err = execute(t, "", "config", "get", "skills.design.required", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "a\n", out)

	_, _, err = execute(t, "", "config", "get", "hooks.nope", "-C", dir)
	assert.Error(t, err)
}

func TestConfigShowJSON(t *testing.T) {
	t.Setenv("SPW_ENFORCEMENT_MODE", "")
	t.Setenv("SPW_HOOKS_ENABLED", "")
	dir := t.TempDir()

	out, _, err := execute(t, "", "config", "show", "--json", "-C", dir)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "missing", got["provenance"].(map[string]any)["source"])
	assert.Equal(t, "warn", got["hooks"].(map[string]any)["enforcement_mode"])
}

func TestHookGuardPathsBlocks(t *testing.T) {
	t.Setenv("SPW_ENFORCEMENT_MODE", "block")
	t.Setenv("SPW_HOOKS_ENABLED", "")
	dir := t.TempDir()

	input := `{"cwd": "` + dir + `", "tool_input": {"file_path": "PRD.md"}}`
	_, stderr, err := execute(t, input, "hook", "guard-paths")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, stderr, "[guard] SPW artifact path violation")
}

func TestRunsInspect(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "run-001")
	require.NoError(t, os.MkdirAll(filepath.Join(run, "sa"), 0755))

	out, _, err := execute(t, "", "runs", "inspect", "run-001", "-C", dir)
	require.NoError(t, err)

	var in runs.Inspection
	require.NoError(t, json.Unmarshal([]byte(out), &in))
	assert.False(t, in.Complete)
	assert.Contains(t, in.Issues, "missing _handoff.md")

	_, _, err = execute(t, "", "runs", "inspect", "run-001", "--strict", "-C", dir)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)

	_, _, err = execute(t, "", "runs", "inspect", "missing", "-C", dir)
	assert.True(t, errors.Is(err, runs.ErrRunDirMissing))
}

func TestRunsLatestUnfinished(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "", "runs", "latest-unfinished", "nope", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"reason": "phase_dir_missing"`)
}
