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

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 5, cfg.PollMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.False(t, cfg.RedisEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
BACKEND_URL: "https://hotel.example.com/api"
POLL_MAX_ATTEMPTS: 3
POLL_INTERVAL: 2s
CORS_ORIGINS: "https://hotel.example.com, https://www.hotel.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://hotel.example.com/api", cfg.BackendURL)
	assert.Equal(t, 3, cfg.PollMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, []string{"https://hotel.example.com", "https://www.hotel.example.com"}, cfg.Origins())
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("POLL_MAX_ATTEMPTS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.PollMaxAttempts)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", modify: func(c *Config) {}},
		{name: "relative backend url", modify: func(c *Config) { c.BackendURL = "/api" }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.BackendTimeout = 0 }, wantErr: true},
		{name: "zero rps", modify: func(c *Config) { c.BackendRPS = 0 }, wantErr: true},
		{name: "no attempts", modify: func(c *Config) { c.PollMaxAttempts = 0 }, wantErr: true},
		{name: "zero interval", modify: func(c *Config) { c.PollInterval = 0 }, wantErr: true},
		{name: "zero lock ttl", modify: func(c *Config) { c.SubmitLockTTL = 0 }, wantErr: true},
		{name: "no request budget", modify: func(c *Config) { c.MaxRequestsPerMin = 0 }, wantErr: true},
		{name: "proxy list", modify: func(c *Config) { c.TrustedProxies = "10.0.0.1, 172.16.0.0/12" }},
		{name: "bad proxy", modify: func(c *Config) { c.TrustedProxies = "10.0.0.1, lb.internal" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				BackendURL:        "http://localhost:3000/api",
				BackendTimeout:    time.Second,
				BackendRPS:        1,
				PollMaxAttempts:   5,
				PollInterval:      time.Second,
				SubmitLockTTL:     time.Second,
				MaxRequestsPerMin: 10,
			}
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProxies(t *testing.T) {
	assert.Empty(t, (&Config{}).Proxies())
	cfg := Config{TrustedProxies: " 10.0.0.1 ,, 172.16.0.0/12"}
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.Proxies())
}

func TestOriginsDefaultsToWildcard(t *testing.T) {
	cfg := Config{CORSOrigins: " , "}
	assert.Equal(t, []string{"*"}, cfg.Origins())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
