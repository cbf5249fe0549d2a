package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	return tmp
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 3000, cfg.EnrichBatchSize)
	assert.Equal(t, "tripadvisor16.p.rapidapi.com", cfg.RapidAPIHost)
	assert.Empty(t, cfg.FavoritesWebhookURL)
	assert.False(t, cfg.EnableHSTS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_QUERY_TIMEOUT", "750ms")
	t.Setenv("FAVORITES_WEBHOOK_URL", "https://u:p@crm.example.com/hook")
	t.Setenv("ENRICH_BATCH_SIZE", "25")
	t.Setenv("ENABLE_HSTS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 750*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, "https://u:p@crm.example.com/hook", cfg.FavoritesWebhookURL)
	assert.Equal(t, 25, cfg.EnrichBatchSize)
	assert.True(t, cfg.EnableHSTS)
}

func TestLoad_EnvFileDoesNotOverrideRuntimeEnv(t *testing.T) {
	tmp := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nLOG_LEVEL=debug\n"), 0o644))
	t.Setenv("DB_DSN", "from_env")
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.DatabaseDSN)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidFormat(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	assert.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{CORSOrigins: " http://a.test ,,http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestRedactDSN(t *testing.T) {
	tests := map[string]string{
		"postgres://user:secret@db:5432/x": "postgres://***@db:5432/x",
		"postgres://db:5432/x":             "postgres://db:5432/x",
		"not a dsn":                        "not a dsn",
	}
	for in, want := range tests {
		assert.Equal(t, want, RedactDSN(in))
	}
}
