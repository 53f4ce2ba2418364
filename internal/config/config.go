package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const devJWTSecret = "dev-secret-change-in-production"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	Env         string        `envconfig:"ENV" default:"development"`
	DBDriver    string        `envconfig:"DATABASE_DRIVER" default:"mysql"`
	DatabaseDSN string        `envconfig:"DATABASE_DSN" default:"root:password@tcp(127.0.0.1:3306)/keysmith?parseTime=true"`
	JWTSecret   string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	JWTExpiry   time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
	Bloom       BloomConfig
	RateLimit   RateLimitConfig
}

// BloomConfig selects the weak password filter. Path names a serialized
// filter; CorpusPath a plain password list built at startup with Bits and
// Hashes. With neither set the embedded password list is used.
type BloomConfig struct {
	Path       string `envconfig:"BLOOM_FILTER_PATH"`
	CorpusPath string `envconfig:"BLOOM_CORPUS_PATH"`
	Bits       uint32 `envconfig:"BLOOM_BITS" default:"2097152"`
	Hashes     int    `envconfig:"BLOOM_HASHES" default:"16"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"RATE_LIMIT_RPS" default:"5"`
	Burst             int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrInsecureJWTSecret
	}

	return cfg, nil
}
