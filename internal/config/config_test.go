package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/store")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ADDR", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("RUN_MIGRATIONS", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.True(t, cfg.RunMigrations)
	require.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/store")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ADMIN_EMAIL", "admin@store.test")
	t.Setenv("ADMIN_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.False(t, cfg.RunMigrations)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	require.True(t, cfg.SeedAdmin())
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	require.ErrorIs(t, err, ErrMissingDatabaseURL)

	t.Setenv("DATABASE_URL", "postgres://localhost/store")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestParseDuration_Fallback(t *testing.T) {
	require.Equal(t, time.Minute, parseDuration("nonsense", time.Minute))
}
