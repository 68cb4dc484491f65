package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimarket/agrimarket/internal/storage"
)

// clearEnv unsets every override for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"AGRIMARKET_API_URL", "AGRIMARKET_STORAGE", "AGRIMARKET_STORAGE_PATH",
		"AGRIMARKET_PASSPHRASE", "AGRIMARKET_REDIS_ADDR", "AGRIMARKET_LOG_LEVEL",
		"AGRIMARKET_LOG_FORMAT", "AGRIMARKET_TIMEOUT", "AGRIMARKET_OFFLINE",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadFromDir_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, storage.BackendDefault, cfg.Storage.Backend)
	assert.False(t, cfg.Offline)
	assert.Empty(t, cfg.Path)
}

func TestLoadFromDir_FindsFileUpward(t *testing.T) {
	clearEnv(t)

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	content := `api_url: https://market.example.com/api
timeout: 5s
offline: true
storage:
  backend: sqlite
  path: /tmp/agrimarket.db
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(content), 0644))

	cfg, err := LoadFromDir(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), cfg.Path)
	assert.Equal(t, "https://market.example.com/api", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Offline)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// untouched fields keep their defaults
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
}

func TestLoadFromDir_EnvOverrides(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("api_url: http://file.example/api\n"), 0644))

	t.Setenv("AGRIMARKET_API_URL", "http://env.example:9000/api")
	t.Setenv("AGRIMARKET_STORAGE", "memory")
	t.Setenv("AGRIMARKET_TIMEOUT", "2s")
	t.Setenv("AGRIMARKET_OFFLINE", "true")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example:9000/api", cfg.APIURL)
	assert.Equal(t, storage.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.Offline)
}

func TestLoadFromDir_DotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AGRIMARKET_LOG_LEVEL=error\n"), 0644))
	// godotenv never overrides variables that are already set
	require.NoError(t, os.Unsetenv("AGRIMARKET_LOG_LEVEL"))
	t.Cleanup(func() { os.Unsetenv("AGRIMARKET_LOG_LEVEL") })

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadFromDir_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad yaml", file: "api_url: [", wantErr: "failed to parse config file"},
		{name: "bad url", file: "api_url: localhost", wantErr: "invalid api_url"},
		{name: "bad timeout env", env: map[string]string{"AGRIMARKET_TIMEOUT": "soon"}, wantErr: "invalid AGRIMARKET_TIMEOUT"},
		{name: "zero timeout", file: "timeout: 0s", wantErr: "invalid timeout"},
		{name: "bad offline env", env: map[string]string{"AGRIMARKET_OFFLINE": "maybe"}, wantErr: "invalid AGRIMARKET_OFFLINE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			if tt.file != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(tt.file), 0644))
			}

			_, err := LoadFromDir(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindConfigFile_NotFound(t *testing.T) {
	_, err := FindConfigFile(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestStorageOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIURL = "https://Market.Example.com:8443/api"
	cfg.Storage.Passphrase = "s3cret"

	opts := cfg.StorageOptions("/home/me/.config/agrimarket")
	assert.Equal(t, storage.BackendDefault, opts.Backend)
	assert.Equal(t, "/home/me/.config/agrimarket", opts.Dir)
	assert.Equal(t, "s3cret", opts.Passphrase)
	assert.Equal(t, "market.example.com:8443", opts.Scope)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := DefaultConfig()
	cfg.APIURL = "https://saved.example/api"

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.APIURL, loaded.APIURL)
	assert.Equal(t, cfg.Timeout, loaded.Timeout)
}
