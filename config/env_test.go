package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { os.Unsetenv(key) })
}

func TestLoadEnvSkipsMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadEnvSetsUnsetVariables(t *testing.T) {
	unsetEnv(t, "FASHIONSHOW_ENV_TEST_ASSETS")
	t.Setenv("FASHIONSHOW_ENV_TEST_CONFIG", "from-shell.yaml")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"FASHIONSHOW_ENV_TEST_ASSETS=/srv/show\nFASHIONSHOW_ENV_TEST_CONFIG=from-file.yaml\n"), 0o644))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "/srv/show", os.Getenv("FASHIONSHOW_ENV_TEST_ASSETS"))
	assert.Equal(t, "from-shell.yaml", os.Getenv("FASHIONSHOW_ENV_TEST_CONFIG"), "existing variables win")
}

func TestLoadEnvReportsMalformedFile(t *testing.T) {
	unsetEnv(t, "FASHIONSHOW_ENV_TEST_BROKEN")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FASHIONSHOW_ENV_TEST_BROKEN=\"never closed\n"), 0o644))

	err := LoadEnv(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, path)
}
