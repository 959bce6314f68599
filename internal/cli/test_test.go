package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../../testdata/scenarios"

const failingScenario = `name: failing
description: "expects the wrong outcome"
flow:
  - invoke: customer.delete
    args: { id: 99, confirm: true }
`

func TestTestCommand_RunsScenarios(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("test", scenariosDir)
	assert.Contains(t, out, "✓ invoice_payment")
	assert.Contains(t, out, "Test Summary: 6 passed, 0 failed, 6 total")
	assert.Contains(t, out, "✓ All scenarios passed")
	assert.Empty(t, env.backend.Keys(""), "the configured store is not touched")
}

func TestTestCommand_Filter(t *testing.T) {
	env := newTestEnv(t)

	var res TestResult
	decodeData(t, env.mustRun("test", scenariosDir, "--filter", "invoice_*", "--format", "json"), &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Passed)
	require.Len(t, res.Scenarios, 1)
	assert.Equal(t, "invoice_payment", res.Scenarios[0].Name)
}

func TestTestCommand_FailureExitsOne(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "failing.yaml"), []byte(failingScenario), 0o644))

	out, err := env.run("test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")

	out, err = env.run("test", dir, "--format", "json")
	require.Error(t, err)
	resp := decodeEnvelope(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommand_UpdateWritesGolden(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	body, err := os.ReadFile(filepath.Join(scenariosDir, "invoice_payment.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice_payment.yaml"), body, 0o644))

	out := env.mustRun("test", dir, "--update")
	assert.Contains(t, out, "✓ invoice_payment (golden updated)")

	golden := filepath.Join(dir, "golden", "invoice_payment.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scenario: invoice_payment")

	env.mustRun("test", dir)

	require.NoError(t, os.WriteFile(golden, []byte("stale\n"), 0o644))
	out, err = env.run("test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_MissingDir(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.False(t, IsReported(err))
}

func TestTestCommand_NoScenarios(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("test", t.TempDir())
	assert.Equal(t, "No scenarios found.\n", out)
}
