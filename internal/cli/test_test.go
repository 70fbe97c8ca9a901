package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const failingScenario = `name: too_many_launches
description: "Expects launches that never happen"
collections:
  orders:
    - {_id: 1}
input:
  - find orders
  - "n"
  - compare
  - exit
expect:
  launches: 5
`

func writeScenario(t *testing.T, dir, file, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644))
}

func TestTestCommandRunsScenarios(t *testing.T) {
	stdout, _, err := execute(t, &RootOptions{}, "", "test", harnessScenarios)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ orders_pairwise")
	assert.Contains(t, stdout, "✓ audit_decline")
	assert.Contains(t, stdout, "Test Summary: 3 passed, 0 failed, 3 total")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	stdout, _, err := execute(t, &RootOptions{}, "", "test", harnessScenarios, "--filter", "orders_*")
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ orders_pairwise")
	assert.NotContains(t, stdout, "audit_decline")
	assert.Contains(t, stdout, "1 total")
}

func TestTestCommandMissingDir(t *testing.T) {
	_, _, err := execute(t, &RootOptions{}, "", "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, &RootOptions{}, "", "test")
	require.Error(t, err)
}

func TestTestCommandEmptyDir(t *testing.T) {
	stdout, _, err := execute(t, &RootOptions{}, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", stdout)
}

func TestTestCommandFailure(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "too_many_launches.yaml", failingScenario)

	stdout, _, err := execute(t, &RootOptions{}, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ too_many_launches")
	assert.Contains(t, stdout, "1 failed")
}

func TestTestCommandFailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "too_many_launches.yaml", failingScenario)

	stdout, _, err := execute(t, &RootOptions{}, "", "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nunknown_key: 1\n")

	_, _, err := execute(t, &RootOptions{}, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandGoldenLifecycle(t *testing.T) {
	golden := filepath.Join(t.TempDir(), "golden")

	_, _, err := execute(t, &RootOptions{}, "", "test", harnessScenarios, "--golden", golden, "--update")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(golden, "orders_pairwise.golden"))

	_, _, err = execute(t, &RootOptions{}, "", "test", harnessScenarios, "--golden", golden)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(golden, "audit_decline.golden"), []byte("stale\n"), 0o644))
	stdout, _, err := execute(t, &RootOptions{}, "", "test", harnessScenarios, "--golden", golden)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ audit_decline")
	assert.Contains(t, stdout, "does not match golden file")
}

func TestTestCommandUpdateNeedsGoldenDir(t *testing.T) {
	_, _, err := execute(t, &RootOptions{}, "", "test", harnessScenarios, "--update")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
