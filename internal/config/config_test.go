package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, Default().Backend, cfg.Backend)
	assert.Equal(t, "aquaflow.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, "PK", cfg.Phone.Region)
	assert.False(t, cfg.Phone.Strict)
	assert.Empty(t, cfg.Thresholds)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
backend: memory
page_size: 10
actor: Ops
phone:
  strict: true
thresholds:
  high_balance: 7000
`)
	t.Setenv("AQUAFLOW_PAGE_SIZE", "20")
	t.Setenv("AQUAFLOW_THRESHOLDS_CASH_TOLERANCE", "25")

	cfg, err := Load(Options{ConfigFile: path, EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "Ops", cfg.Actor)
	assert.True(t, cfg.Phone.Strict)
	assert.Equal(t, map[string]int64{"high_balance": 7000, "cash_tolerance": 25}, cfg.Thresholds)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "AQUAFLOW_REDIS_ADDR=cache:6380\nAQUAFLOW_BACKEND=redis\n")
	t.Setenv("AQUAFLOW_REDIS_ADDR", "")
	os.Unsetenv("AQUAFLOW_REDIS_ADDR")
	t.Setenv("AQUAFLOW_BACKEND", "")
	os.Unsetenv("AQUAFLOW_BACKEND")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Backend = "postgres"
	cfg.PageSize = 0
	cfg.Thresholds = map[string]int64{"low_stock": -1}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `backend "postgres"`)
	assert.Contains(t, err.Error(), "page_size must be > 0")
	assert.Contains(t, err.Error(), "thresholds.low_stock")

	require.NoError(t, Default().Validate())
}
