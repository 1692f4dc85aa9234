package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "plp_bookstore", cfg.MongoDatabase)
	assert.Equal(t, "books", cfg.MongoCollection)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.True(t, cfg.IsLocal())
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOOKSTORE_ENV", "production")
	t.Setenv("BOOKSTORE_MONGO_URI", "mongodb+srv://cluster.example.net")
	t.Setenv("BOOKSTORE_MONGO_DATABASE", "library")
	t.Setenv("BOOKSTORE_QUERY_TIMEOUT", "750ms")
	t.Setenv("BOOKSTORE_RATE_LIMIT_RPS", "2.5")
	t.Setenv("BOOKSTORE_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BOOKSTORE_TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "mongodb+srv://cluster.example.net", cfg.MongoURI)
	assert.Equal(t, "library", cfg.MongoDatabase)
	assert.Equal(t, 750*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "json", cfg.LogFormat, "non-local environments log JSON by default")
	assert.False(t, cfg.IsLocal())
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Run("log level", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("BOOKSTORE_LOG_LEVEL", "verbose")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("mongo uri scheme", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("BOOKSTORE_MONGO_URI", "postgres://localhost:5432/books")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")
	require.NoError(t, os.WriteFile(p, []byte("BOOKSTORE_MONGO_DATABASE=from_file\n"), 0644))

	t.Setenv("BOOKSTORE_MONGO_DATABASE", "from_env")
	t.Chdir(tmp)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.MongoDatabase)
}
