package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("MissingDBURL", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_URL")
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_URL", "postgresql://u:p@localhost/ns")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.ListenAddress)
		assert.Equal(t, "*", cfg.CORSAllowOrigin)
		assert.Equal(t, "postgresql://u:p@localhost/ns", cfg.DatabaseURL)
		assert.False(t, cfg.Debug)
		assert.Equal(t, "neuroquery-backend", cfg.OtelServiceName)
	})

	t.Run("NormalizesLegacyScheme", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://u:p@localhost/ns")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgresql://u:p@localhost/ns", cfg.DatabaseURL)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("DB_URL", "postgresql://u:p@localhost/ns")
		t.Setenv("LISTEN_ADDRESS", ":9999")
		t.Setenv("DEBUG", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.ListenAddress)
		assert.True(t, cfg.Debug)
	})
}

func TestNormalizeDatabaseURL(t *testing.T) {
	assert.Equal(t, "postgresql://x", NormalizeDatabaseURL("postgres://x"))
	assert.Equal(t, "postgresql://x", NormalizeDatabaseURL("postgresql://x"))
	assert.Equal(t, "mysql://x", NormalizeDatabaseURL("mysql://x"))
}
