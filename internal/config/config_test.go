package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv removes every variable Load looks at for the duration of the
// test. t.Setenv registers the restore; Unsetenv then removes the value, so
// env-default tags apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "ENV", "LOG_LEVEL", "CMS_PROMPT",
		"STORAGE_DRIVER", "STORAGE_PATH", "DATABASE_NAME",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "P14_8-CMS.txt", cfg.Storage.Path)
	assert.Equal(t, "StudentRecords", cfg.Storage.DatabaseName)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: prod
log_level: info
storage:
  driver: sqlite
  path: /var/lib/cms/students.db
  database_name: Cohort2024
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/cms/students.db", cfg.Storage.Path)
	assert.Equal(t, "Cohort2024", cfg.Storage.DatabaseName)
	assert.Equal(t, ">> CMS: ", cfg.Prompt, "default kept for keys missing from the file")
}

func TestLoadPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: records.txt\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "records.txt", cfg.Storage.Path)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: from-file.txt\n"), 0o644))
	t.Setenv("STORAGE_PATH", "from-env.txt")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.txt", cfg.Storage.Path)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown storage driver")
	})
}
