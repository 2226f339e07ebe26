package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, StoragePostgres, c.Storage)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 720*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, bcrypt.DefaultCost, c.BcryptCost)
	assert.Equal(t, "auth_events", c.KafkaTopic)
	assert.Empty(t, c.KafkaBrokers)
	assert.Equal(t, time.Hour, c.CleanupInterval)
}

func TestLoadConfig_FailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig([]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORAGE", StorageMemory)

	cfg, err := LoadConfig([]string{"-a", ":9100", "-t", "5"})
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.EndpointAddrHTTP)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenValidityDuration)
}

func TestSigningKey(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{name: "ok", secret: testSecret},
		{name: "missing", secret: "", wantErr: "not set"},
		{name: "not base64", secret: "!!!not-base64!!!", wantErr: "base64"},
		{name: "too short", secret: base64.StdEncoding.EncodeToString([]byte("short")), wantErr: "at least 32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{SecretKey: tt.secret}
			key, err := c.SigningKey()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, 32)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		c.SecretKey = testSecret
		return c
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero access ttl", func(c *Config) { c.AccessTokenValidityDuration = 0 }},
		{"negative refresh ttl", func(c *Config) { c.RefreshTokenValidityDuration = -time.Second }},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 1 }},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 99 }},
		{"unknown storage", func(c *Config) { c.Storage = "redis" }},
		{"postgres without dsn", func(c *Config) { c.DatabaseDSN = "" }},
		{"zero cleanup interval", func(c *Config) { c.CleanupInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	t.Run("memory without dsn", func(t *testing.T) {
		c := valid()
		c.Storage = StorageMemory
		c.DatabaseDSN = ""
		assert.NoError(t, c.Validate())
	})
}

func TestCSV(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
	assert.Empty(t, CSV(""))
}
