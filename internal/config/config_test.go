package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Empty(t, cfg.Bloom.Path)
	assert.Equal(t, uint32(1<<21), cfg.Bloom.Bits)
	assert.Equal(t, 16, cfg.Bloom.Hashes)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("BLOOM_FILTER_PATH", "/var/lib/keysmith/weak.bloom")
	t.Setenv("BLOOM_HASHES", "8")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "/var/lib/keysmith/weak.bloom", cfg.Bloom.Path)
	assert.Equal(t, 8, cfg.Bloom.Hashes)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
}

func TestLoadRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInsecureJWTSecret)

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "tomorrow")

	_, err := Load()
	assert.Error(t, err)
}
