package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Run("catalog", func(t *testing.T) {
		cfg, err := Load("catalog")
		require.NoError(t, err)

		assert.Equal(t, "8082", cfg.Server.Port)
		assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
		assert.Equal(t, StorageMemory, cfg.Catalog.Storage)
		assert.Equal(t, StorageMemory, cfg.Comparison.Storage)
		assert.Equal(t, "./data", cfg.Comparison.SQLiteDir)
		assert.True(t, cfg.Metrics.Enabled)
	})

	t.Run("quote", func(t *testing.T) {
		cfg, err := Load("quote")
		require.NoError(t, err)

		assert.Equal(t, "8083", cfg.Server.Port)
		assert.Equal(t, "http://localhost:8082", cfg.Quote.CatalogURL)
		assert.Equal(t, int64(9000), cfg.Quote.InstallationFee)
		assert.Equal(t, 5, cfg.RateLimit.QuotePerMin)
	})

	t.Run("gateway", func(t *testing.T) {
		cfg, err := Load("gateway")
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 8760*time.Hour, cfg.Visitor.TTL)
		assert.Equal(t, "http://localhost:8083", cfg.Gateway.QuoteURL)
	})
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CLIMA_SERVER_PORT", "9090")
	t.Setenv("CLIMA_COMPARISON_STORAGE", "sqlite")
	t.Setenv("CLIMA_COMPARISON_SQLITE_DIR", "/var/lib/clima")
	t.Setenv("CLIMA_METRICS_TOKEN", "scrape-token")

	cfg, err := Load("catalog")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StorageSQLite, cfg.Comparison.Storage)
	assert.Equal(t, "/var/lib/clima", cfg.Comparison.SQLiteDir)
	assert.Equal(t, "scrape-token", cfg.Metrics.Token)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		service string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown environment",
			service: "catalog",
			env:     map[string]string{"CLIMA_SERVER_ENVIRONMENT": "staging"},
			wantErr: "server environment",
		},
		{
			name:    "unknown comparison storage",
			service: "catalog",
			env:     map[string]string{"CLIMA_COMPARISON_STORAGE": "redis"},
			wantErr: "comparison storage must be one of",
		},
		{
			name:    "postgres without dsn",
			service: "catalog",
			env:     map[string]string{"CLIMA_CATALOG_STORAGE": "postgres"},
			wantErr: "catalog postgres_dsn is required",
		},
		{
			name:    "catalog does not allow sqlite",
			service: "catalog",
			env:     map[string]string{"CLIMA_CATALOG_STORAGE": "sqlite"},
			wantErr: "catalog storage must be one of",
		},
		{
			name:    "quote rate limit",
			service: "quote",
			env:     map[string]string{"CLIMA_RATELIMIT_QUOTE_PER_MIN": "0"},
			wantErr: "quote_per_min",
		},
		{
			name:    "production gateway without secret",
			service: "gateway",
			env:     map[string]string{"CLIMA_SERVER_ENVIRONMENT": "production"},
			wantErr: "visitor secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(tt.service)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
