package config

import (
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "change-me", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL())
	assert.False(t, cfg.Auth.SessionRevalidate)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Login.Window)
	assert.Equal(t, 10*time.Minute, cfg.Login.LockDuration)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{
		"ENV":                  "production",
		"JWT_SECRET":           "s3cr3t",
		"JWT_EXPIRATION":       "120",
		"SESSION_REVALIDATE":   "true",
		"DB_DRIVER":            "mongo",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.Equal(t, 120*time.Second, cfg.Auth.TokenTTL())
	assert.True(t, cfg.Auth.SessionRevalidate)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFrom_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadFrom(envconfig.MapLookuper(map[string]string{"DB_DRIVER": "sqlite"}))
	require.Error(t, err)
}

func TestLoadFrom_TrustedProxies(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxyNets())

	cfg, err = LoadFrom(envconfig.MapLookuper(map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8,192.168.1.1/32"}))
	require.NoError(t, err)
	nets := cfg.TrustedProxyNets()
	require.Len(t, nets, 2)
	assert.Equal(t, "10.0.0.0/8", nets[0].String())

	_, err = LoadFrom(envconfig.MapLookuper(map[string]string{"TRUSTED_PROXIES": "not-a-cidr"}))
	assert.ErrorContains(t, err, "TRUSTED_PROXIES")
}

func TestParseTokenTTL(t *testing.T) {
	cases := map[string]time.Duration{
		"":      time.Hour,
		"3600":  time.Hour,
		"3600s": time.Hour,
		"90":    90 * time.Second,
		"15m":   15 * time.Minute,
		" 60s ": time.Minute,
		"0":     time.Hour,
		"-5":    time.Hour,
		"-5s":   time.Hour,
		"soon":  time.Hour,
		"1h30m": 90 * time.Minute,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseTokenTTL(raw), "input %q", raw)
	}
}
