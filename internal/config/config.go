package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr          string
	DatabaseURL   string
	RunMigrations bool

	JWTSecret string
	TokenTTL  time.Duration

	// Optional backends. Empty means the in-process fallback is used.
	RedisAddr string
	AMQPURL   string

	CORSAllowOrigins []string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is not set")
)

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:          getenv("APP_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RunMigrations: envBool("RUN_MIGRATIONS", true),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  parseDuration(getenv("TOKEN_TTL", "168h"), 7*24*time.Hour),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		AMQPURL:   os.Getenv("AMQP_URL"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),

		AdminName:     getenv("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return cfg, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingJWTSecret
	}
	return cfg, nil
}

// SeedAdmin reports whether a bootstrap admin account should be upserted.
func (c Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
