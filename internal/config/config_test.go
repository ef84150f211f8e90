package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("RAGIFY_SERVER_URL", "")
	t.Setenv("RAGIFY_TOKEN", "")
	t.Setenv("RAGIFY_DEBUG", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Empty(t, cfg.Token)
	assert.False(t, cfg.Debug)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("RAGIFY_SERVER_URL", "")
	t.Setenv("RAGIFY_TOKEN", "")
	t.Setenv("RAGIFY_DEBUG", "")

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	in := &Config{ServerURL: "https://ragify.example.com/api/v1", Token: "tok", Theme: "dark"}
	require.NoError(t, in.Save(path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.ServerURL, out.ServerURL)
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, "dark", out.Theme)
}

func TestEnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	in := &Config{ServerURL: "https://file.example.com", Token: "file-token"}
	require.NoError(t, in.Save(path))

	t.Setenv("RAGIFY_SERVER_URL", "https://env.example.com")
	t.Setenv("RAGIFY_TOKEN", "env-token")
	t.Setenv("RAGIFY_DEBUG", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.True(t, cfg.Debug)
}
