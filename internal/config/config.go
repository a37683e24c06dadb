/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	DBBackend   DatabaseBackend
	DBDSN       string
	MetricsBind string

	// Publish runs many statements in one transaction; big drafts need a
	// longer leash than ordinary requests.
	PublishTimeout time.Duration

	// Monthly overview cache
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	OverviewCacheTTL time.Duration

	// Bearer-token verification for actor attribution
	JWTSigningKey string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:      getEnv("STUDIOCAST_ENV", "development"),
		HTTPBind:         getEnv("STUDIOCAST_HTTP_BIND", "0.0.0.0"),
		HTTPPort:         getEnvInt("STUDIOCAST_HTTP_PORT", 8080),
		DBBackend:        DatabaseBackend(getEnv("STUDIOCAST_DB_BACKEND", string(DatabasePostgres))),
		DBDSN:            getEnv("STUDIOCAST_DB_DSN", ""),
		MetricsBind:      getEnv("STUDIOCAST_METRICS_BIND", "127.0.0.1:9100"),
		PublishTimeout:   time.Duration(getEnvInt("STUDIOCAST_PUBLISH_TIMEOUT_SECONDS", 60)) * time.Second,
		RedisAddr:        getEnv("STUDIOCAST_REDIS_ADDR", ""),
		RedisPassword:    getEnv("STUDIOCAST_REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("STUDIOCAST_REDIS_DB", 0),
		OverviewCacheTTL: time.Duration(getEnvInt("STUDIOCAST_OVERVIEW_CACHE_TTL_SECONDS", 300)) * time.Second,
		JWTSigningKey:    getEnv("STUDIOCAST_JWT_SIGNING_KEY", ""),
	}

	switch cfg.DBBackend {
	case DatabasePostgres, DatabaseMySQL:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("STUDIOCAST_DB_DSN is required for backend %s", cfg.DBBackend)
		}
	case DatabaseSQLite:
		if cfg.DBDSN == "" {
			cfg.DBDSN = "./studiocast.db"
		}
	default:
		return nil, fmt.Errorf("unknown database backend: %s", cfg.DBBackend)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PublishTimeout <= 0 {
		return nil, fmt.Errorf("publish timeout must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
