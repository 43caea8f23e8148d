package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ALERTA_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://10.0.2.2:8000", cfg.API.BaseURL)
	require.Zero(t, cfg.API.Timeout)
	require.Equal(t, filepath.Join(home, ".local", "share", "alerta", "alerta.db"), cfg.Database.Path)
	require.False(t, cfg.Auth.LegacyLogin)
	require.False(t, cfg.Auth.CheckPasswordConfirm)
	require.Equal(t, int64(8<<20), cfg.Media.MaxBytes)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[api]
base_url = "http://example.test:9000/"
timeout = "15s"

[auth]
legacy_login = true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("HOME", dir)
	t.Setenv("ALERTA_CONFIG", path)
	t.Setenv("ALERTA_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://example.test:9000", cfg.API.BaseURL)
	require.Equal(t, 15*time.Second, cfg.API.Timeout)
	require.True(t, cfg.Auth.LegacyLogin)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ALERTA_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	_, err := Load()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv("HOME", dir)
	t.Setenv("ALERTA_CONFIG", path)

	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected missing file error before save")
	}
	cfg = Config{
		API:      APIConfig{BaseURL: "http://api.test", Timeout: 3 * time.Second},
		Database: DatabaseConfig{Path: filepath.Join(dir, "a.db")},
		Log:      LogConfig{Path: filepath.Join(dir, "a.log"), Level: "warn", Format: "json"},
		Auth:     AuthConfig{CheckPasswordConfirm: true},
		Media:    MediaConfig{MaxBytes: 1024},
		UI:       UIConfig{DateFormat: "2006-01-02"},
	}
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
