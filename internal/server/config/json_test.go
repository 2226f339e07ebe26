package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"endpoint_addr_http":              "0.0.0.0:80",
		"endpoint_addr_grpc":              "0.0.0.0:81",
		"storage":                         "memory",
		"database_dsn":                    "postgres://json",
		"secret_key":                      "a2V5",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": 3_600_000_000_000,
		"bcrypt_cost":                     12,
		"kafka_brokers":                   []string{"k:9092"},
		"kafka_topic":                     "topic",
		"log_level":                       "warn",
		"cleanup_interval":                "5m",
	})
	partial := writeTempJSON(t, dir, "partial.json", map[string]any{
		"log_level": "debug",
	})

	t.Run("loads every field", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", full}))

		assert.Equal(t, "0.0.0.0:80", cfg.EndpointAddrHTTP)
		assert.Equal(t, "0.0.0.0:81", cfg.EndpointAddrGRPC)
		assert.Equal(t, "memory", cfg.Storage)
		assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
		assert.Equal(t, "a2V5", cfg.SecretKey)
		assert.Equal(t, time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, time.Hour, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, []string{"k:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, "topic", cfg.KafkaTopic)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", partial}))

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234"}
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))
		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		assert.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}))
	})
}
