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
	t.Setenv("APP_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "fletes", cfg.Database.Database)
	assert.Equal(t, 0.19, cfg.Pricing.TasaIVA)
	assert.Equal(t, 15, cfg.Pricing.ValidezDias)
	assert.Equal(t, 60*time.Second, cfg.Scheduler.Interval)
	assert.False(t, cfg.Scheduler.AutoIniciarViajes)
	assert.False(t, cfg.Messaging.Enabled)
	assert.False(t, cfg.Maps.Enabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PRICING_TASA_IVA", "0")
	t.Setenv("SCHEDULER_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.cl, https://b.cl")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 0.0, cfg.Pricing.TasaIVA)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, []string{"https://a.cl", "https://b.cl"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoadFromYAML(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	dir := t.TempDir()
	content := "MONGODB_DATABASE: fletes_yaml\nAPP_PORT: 7000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, "fletes_yaml", cfg.Database.Database)
		assert.Equal(t, 7000, cfg.App.Port)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("APP_PORT", "7100")
		cfg, err := LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, 7100, cfg.App.Port)
	})
}

func TestLoadFromMissingFileIsIgnored(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
}

func TestConfigValidate(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.App.Port = 70000 }, wantErr: "invalid port"},
		{name: "missing uri", mutate: func(c *Config) { c.Database.URI = "" }, wantErr: "MONGODB_URI"},
		{name: "missing database", mutate: func(c *Config) { c.Database.Database = "" }, wantErr: "MONGODB_DATABASE"},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Provider = "ftp" }, wantErr: "invalid storage provider"},
		{name: "negative tax", mutate: func(c *Config) { c.Pricing.TasaIVA = -0.1 }, wantErr: "invalid tax rate"},
		{name: "tiny interval", mutate: func(c *Config) { c.Scheduler.Interval = time.Millisecond }, wantErr: "invalid scheduler interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cr3t")
	_, err = Load()
	assert.NoError(t, err)
}
