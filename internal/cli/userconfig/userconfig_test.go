package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "agrimarket")
	t.Setenv("AGRIMARKET_CONFIG_DIR", dir)
	return dir
}

func TestLoad_Missing(t *testing.T) {
	useTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &UserConfig{}, cfg)
}

func TestRememberLogin(t *testing.T) {
	dir := useTempDir(t)

	require.NoError(t, RememberLogin("ann@farm.test", "FARMER"))
	require.NoError(t, RememberLogin("bob@buyer.test", ""))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bob@buyer.test", cfg.LastEmail)
	assert.Equal(t, "FARMER", cfg.PreferredUserType)

	info, err := os.Stat(filepath.Join(dir, configFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_Corrupt(t *testing.T) {
	dir := useTempDir(t)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("{"), 0600))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse user config file")
}

func TestGetConfigDir_Env(t *testing.T) {
	t.Setenv("AGRIMARKET_CONFIG_DIR", "/custom/dir")

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/dir", dir)
}
