package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCOUNTD_AUTH_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, "accountd", cfg.TokenIssuer)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Empty(t, cfg.DatabaseDSN)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACCOUNTD_AUTH_SECRET", "test-secret")
	t.Setenv("ACCOUNTD_LISTEN_ADDR", ":9090")
	t.Setenv("ACCOUNTD_PG_DSN", "postgres://localhost/accountd")
	t.Setenv("ACCOUNTD_TOKEN_ISSUER", "staging")
	t.Setenv("ACCOUNTD_TOKEN_TTL", "1h")
	t.Setenv("ACCOUNTD_BCRYPT_COST", "12")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, "postgres://localhost/accountd", cfg.DatabaseDSN)
	require.Equal(t, "staging", cfg.TokenIssuer)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("ACCOUNTD_AUTH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("ACCOUNTD_AUTH_SECRET", "test-secret")
	t.Setenv("ACCOUNTD_TOKEN_TTL", "-5m")

	_, err := Load()
	require.Error(t, err)
}
