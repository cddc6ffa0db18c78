package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(50<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, time.Hour, cfg.Postgres.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Seed.Enabled)
	assert.Equal(t, "테스트", cfg.Guestbook.TestPrefix)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "ledger.yaml")
	yaml := []byte(`
server:
  addr: ":8080"
  read_timeout: 3s
postgres:
  host: db
  dbname: ledger
seed:
  enabled: true
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("COUPON_LEDGER_CONFIG", path)
	t.Setenv("LEDGER_POSTGRES_HOST", "db.internal")
	t.Setenv("LEDGER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "ledger", cfg.Postgres.DBName)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("COUPON_LEDGER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
