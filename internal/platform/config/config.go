// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a development default; production deployments
// override via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures server-level configuration.
type Config struct {
	Addr          string
	JWTSigningKey string
	PostgresDSN   string
	Redis         RedisConfig
	Kafka         KafkaConfig
	DebugLog      bool

	// CatalogCacheTTL bounds staleness of the feature-catalog cache.
	CatalogCacheTTL time.Duration
}

// RedisConfig controls the optional Redis-backed feature-catalog cache.
// An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig controls the optional audit event publisher.
// Empty brokers disable it.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("EVENTDESK_ADDR", ":8080"),
		JWTSigningKey: envOr("EVENTDESK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresDSN:   os.Getenv("EVENTDESK_POSTGRES_DSN"),
		DebugLog:      os.Getenv("EVENTDESK_DEBUG") == "true",
		Redis: RedisConfig{
			URL:          os.Getenv("EVENTDESK_REDIS_URL"),
			PoolSize:     envInt("EVENTDESK_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("EVENTDESK_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			AuditTopic: envOr("EVENTDESK_AUDIT_TOPIC", "eventdesk.audit"),
		},
		CatalogCacheTTL: envDuration("EVENTDESK_CATALOG_CACHE_TTL", 5*time.Minute),
	}
	if brokers := os.Getenv("EVENTDESK_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitCSV(brokers)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
