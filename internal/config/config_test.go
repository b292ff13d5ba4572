package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "cars2017.csv", cfg.Data.File)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "scene1", cfg.Scenes.Default)
	assert.False(t, cfg.Scenes.ComputedAnnotations)
	assert.True(t, cfg.MetricsEnabled())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Zero(t, cfg.Server.RateLimit)
	assert.Zero(t, cfg.Server.RateBurst)
}

func TestLoadFile(t *testing.T) {
	path := writeYAML(t, `
server:
  host: 127.0.0.1
  port: 9090
  shutdown_timeout: 3s
data:
  file: /data/cars.csv
logging:
  level: DEBUG
  format: text
scenes:
  default: scene3
  computed_annotations: true
metrics:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "/data/cars.csv", cfg.Data.File)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "scene3", cfg.Scenes.Default)
	assert.True(t, cfg.Scenes.ComputedAnnotations)
	assert.False(t, cfg.MetricsEnabled())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeYAML(t, "server:\n  port: 9090\ndata:\n  file: a.csv\n")
	t.Setenv("MPG_SERVER_PORT", "7070")
	t.Setenv("MPG_SERVER_READ_TIMEOUT", "2s")
	t.Setenv("MPG_SCENES_COMPUTED_ANNOTATIONS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "a.csv", cfg.Data.File)
	assert.True(t, cfg.Scenes.ComputedAnnotations)
}

func TestLoadValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad port", "server:\n  port: 70000\n", "Port"},
		{"bad level", "logging:\n  level: loud\n", "Level"},
		{"bad scene", "scenes:\n  default: scene9\n", "Default"},
		{"bad metrics path", "metrics:\n  path: metrics\n", "Path"},
		{"negative rate limit", "server:\n  rate_limit: -1\n", "RateLimit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeYAML(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeYAML(t, "server:\n  prot: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("MPG_SERVER_PORT", "eighty")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from env")
}

func TestLoadRateLimitBurstDefault(t *testing.T) {
	t.Setenv("MPG_SERVER_RATE_LIMIT", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 10, cfg.Server.RateBurst)
}
