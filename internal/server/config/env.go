package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads ./.env when present (without overriding variables already
// set in the process) and applies the recognised variables:
//
//	HTTP_ADDR, GRPC_ADDR, STORAGE, DATABASE_DSN, JWT_SECRET,
//	ACCESS_TOKEN_TTL, REFRESH_TOKEN_TTL, CLEANUP_INTERVAL (Go durations),
//	BCRYPT_COST, KAFKA_BROKERS (comma separated), KAFKA_TOPIC, LOG_LEVEL.
func parseEnv(config *Config) error {
	_ = godotenv.Load(".env")

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.Storage, "STORAGE")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "JWT_SECRET")
	envString(&config.KafkaTopic, "KAFKA_TOPIC")
	envString(&config.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		config.KafkaBrokers = CSV(v)
	}

	for name, dst := range map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_TTL": &config.RefreshTokenValidityDuration,
		"CLEANUP_INTERVAL":  &config.CleanupInterval,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	return nil
}

func envString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// CSV splits a comma separated list, dropping blanks.
func CSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
