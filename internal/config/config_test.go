package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "spartacus"
redis_host = "localhost"
redis_port = "6379"
prom_metrics_host = "localhost"
prom_metrics_port = "2112"
recommendations_rate_limit_per_min = 10

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/spartacus/service.log"
sentry_enabled = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "spartacus"
redis_host = "localhost"
redis_port = "6379"
prom_metrics_host = "localhost"
prom_metrics_port = "2112"
recommendations_rate_limit_per_min = 30
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.False(t, cfg.SentryEnabled)
	assert.Equal(t, "spartacus", cfg.PostgresDBName)
	assert.Equal(t, 10, cfg.RecommendationsRateLimitPerMin)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, "/var/log/spartacus/service.log", cfg.LogsPath)
	assert.Equal(t, 30, cfg.RecommendationsRateLimitPerMin)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	assert.Error(t, err)
}
