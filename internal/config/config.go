// Package config loads the bookstore settings from the environment.
//
// Variables use the BOOKSTORE_ prefix and map onto flat koanf keys, e.g.
// BOOKSTORE_MONGO_URI -> mongo_uri. Values found in .env or .env.local are
// applied first but never override what the runtime already exported.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BOOKSTORE_"

type Config struct {
	Env             string        `koanf:"env" validate:"required,oneof=local development staging production test"`
	Addr            string        `koanf:"addr" validate:"required"`
	MongoURI        string        `koanf:"mongo_uri" validate:"required,startswith=mongodb"`
	MongoDatabase   string        `koanf:"mongo_database" validate:"required"`
	MongoCollection string        `koanf:"mongo_collection" validate:"required"`
	QueryTimeout    time.Duration `koanf:"query_timeout" validate:"gt=0"`
	LogLevel        string        `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
	LogFormat       string        `koanf:"log_format" validate:"required,oneof=console json"`
	RateLimitRPS    float64       `koanf:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst  int           `koanf:"rate_limit_burst" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// TrustProxy keys the rate limiter on X-Forwarded-For. Enable only
	// behind a proxy that overwrites the header.
	TrustProxy bool `koanf:"trust_proxy"`
}

// LoadEnvFiles applies .env and .env.local without overriding the
// environment provided by the runtime (e.g. Docker).
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads BOOKSTORE_* variables, fills in defaults and validates the
// result.
func Load() (*Config, error) {
	LoadEnvFiles()

	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if raw := k.String("cors_origins"); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Env = withDefault(c.Env, "local")
	c.Addr = withDefault(c.Addr, ":8080")
	c.MongoURI = withDefault(c.MongoURI, "mongodb://localhost:27017")
	c.MongoDatabase = withDefault(c.MongoDatabase, "plp_bookstore")
	c.MongoCollection = withDefault(c.MongoCollection, "books")
	c.LogLevel = withDefault(c.LogLevel, "info")
	if c.IsLocal() {
		c.LogFormat = withDefault(c.LogFormat, "console")
	} else {
		c.LogFormat = withDefault(c.LogFormat, "json")
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 5 * time.Second
	}
	if c.RateLimitRPS == 0 {
		c.RateLimitRPS = 10
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = 20
	}
}

// IsLocal reports whether the process runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
