package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, DefaultStrategy, cfg.Inpaint.Strategy)
	assert.Equal(t, 3, cfg.Inpaint.Radius)
	assert.Equal(t, 95, cfg.Inpaint.JPEGQuality)
	assert.Equal(t, 30*time.Second, cfg.Inpaint.QueueTimeout)
	assert.Equal(t, 40_000_000, cfg.Inpaint.MaxPixels)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, int64(20*1024*1024), cfg.Upload.MaxSize)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9090"
  mode: release
cors:
  allowed_origins: ["https://slides.example.com"]
inpaint:
  radius: 5
  queue_timeout: 5s
redis:
  enabled: true
  ttl: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, []string{"https://slides.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.Inpaint.Radius)
	assert.Equal(t, 5*time.Second, cfg.Inpaint.QueueTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	// untouched keys keep their defaults
	assert.Equal(t, 95, cfg.Inpaint.JPEGQuality)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CLEANSLIDE_SERVER_PORT", ":7070")
	t.Setenv("CLEANSLIDE_INPAINT_RADIUS", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Port)
	assert.Equal(t, 7, cfg.Inpaint.Radius)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "opencv strategy", mutate: func(c *Config) { c.Inpaint.Strategy = StrategyOpenCV }},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Inpaint.Strategy = "navier_stokes" },
			wantErr: "unknown inpaint strategy",
		},
		{
			name:    "learned without endpoint",
			mutate:  func(c *Config) { c.Inpaint.Strategy = StrategyLearned },
			wantErr: "model.endpoint",
		},
		{
			name: "learned with endpoint",
			mutate: func(c *Config) {
				c.Inpaint.Strategy = StrategyLearned
				c.Model.Endpoint = "http://localhost:9000/inpaint"
			},
		},
		{name: "radius zero", mutate: func(c *Config) { c.Inpaint.Radius = 0 }, wantErr: "inpaint.radius"},
		{name: "radius too large", mutate: func(c *Config) { c.Inpaint.Radius = 101 }, wantErr: "inpaint.radius"},
		{name: "quality zero", mutate: func(c *Config) { c.Inpaint.JPEGQuality = 0 }, wantErr: "jpeg_quality"},
		{name: "max size zero", mutate: func(c *Config) { c.Upload.MaxSize = 0 }, wantErr: "upload.max_size"},
		{name: "max pixels zero", mutate: func(c *Config) { c.Inpaint.MaxPixels = 0 }, wantErr: "inpaint.max_pixels"},
		{name: "no origins", mutate: func(c *Config) { c.CORS.AllowedOrigins = nil }, wantErr: "cors.allowed_origins"},
		{
			name:    "origin without scheme",
			mutate:  func(c *Config) { c.CORS.AllowedOrigins = []string{"slides.example.com"} },
			wantErr: "cors origin",
		},
		{
			name:   "explicit origins",
			mutate: func(c *Config) { c.CORS.AllowedOrigins = []string{"https://slides.example.com", "http://localhost:5173"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
