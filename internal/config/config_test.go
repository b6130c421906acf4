package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	fs.Duration("timeout", 0, "")
	fs.String("user-id", "", "")
	fs.String("ui", UIAuto, "")
	fs.Bool("debug", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, UIAuto, cfg.UI.Mode)
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.False(t, cfg.History.Enabled)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "threadchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://file.example/api
  timeout: 30s
user:
  id: from-file
history:
  enabled: true
`), 0644))

	t.Setenv("THREADCHAT_USER_ID", "from-env")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--ui", "line", "--debug"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "http://file.example/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "from-env", cfg.User.ID)
	assert.Equal(t, UILine, cfg.UI.Mode)
	assert.True(t, cfg.Log.Debug)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threadchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file.example/api\n"), 0644))

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--api-url", "http://flag.example/api"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example/api", cfg.API.BaseURL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{API: APIConfig{BaseURL: "http://x"}, UI: UIConfig{Mode: "gui"}}
	assert.Error(t, cfg.Validate())

	cfg.UI.Mode = UITUI
	assert.NoError(t, cfg.Validate())

	cfg.API.Timeout = -time.Second
	assert.Error(t, cfg.Validate())

	cfg.API.Timeout = 0
	cfg.API.BaseURL = ""
	assert.Error(t, cfg.Validate())
}
