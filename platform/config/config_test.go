package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("GOOGLE_CREDENTIALS_JSON", `{"type":"service_account"}`)
	t.Setenv("GOOGLE_CREDENTIALS_FILE", "")
	t.Setenv("GSHEET_NAME", "Kasir")
	t.Setenv("GSHEET_ID", "")
	t.Setenv("SHEETS_ENDPOINT", "")
	t.Setenv("CATALOG_SOURCE", "sheets")
	t.Setenv("CATALOG_FILE", "")
	t.Setenv("CATALOG_CACHE_TTL", "600s")
	t.Setenv("SINK_BACKEND", "sheets")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SESSION_IDLE_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://localhost:8080")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Master", cfg.GetMasterSheetName())
	assert.Equal(t, "Log", cfg.GetLogSheetName())
	assert.Equal(t, 600*time.Second, cfg.GetCatalogCacheTTL())
	assert.Equal(t, "Tenant", cfg.GetCatalogColumnTenant())
	assert.Equal(t, "Produk", cfg.GetCatalogColumnProduct())
	assert.Equal(t, "Harga_Jual", cfg.GetCatalogColumnPrice())
	assert.True(t, cfg.GetResetAfterSubmit())
	assert.Equal(t, 2*time.Hour, cfg.GetSessionIdleTTL())
	assert.True(t, cfg.UsesSheets())
}

func TestLoadWildcardOriginAllowsAll(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CORS_ORIGINS", "*")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.GetCORSAllowAll())
}

func TestLoadFileCatalogWithPostgresSkipsSheets(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GOOGLE_CREDENTIALS_JSON", "")
	t.Setenv("GSHEET_NAME", "")
	t.Setenv("CATALOG_SOURCE", "file")
	t.Setenv("CATALOG_FILE", "testdata/catalog.yaml")
	t.Setenv("SINK_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://kasir@localhost/kasir")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.UsesSheets())
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "unknown sink", env: map[string]string{"SINK_BACKEND": "kafka"}, want: "unsupported SINK_BACKEND"},
		{name: "unknown source", env: map[string]string{"CATALOG_SOURCE": "csv"}, want: "unsupported CATALOG_SOURCE"},
		{name: "file source without path", env: map[string]string{"CATALOG_SOURCE": "file"}, want: "CATALOG_FILE"},
		{name: "postgres without url", env: map[string]string{"SINK_BACKEND": "postgres"}, want: "DATABASE_URL"},
		{name: "sheets without credentials", env: map[string]string{"GOOGLE_CREDENTIALS_JSON": ""}, want: "GOOGLE_CREDENTIALS"},
		{name: "sheets without spreadsheet", env: map[string]string{"GSHEET_NAME": ""}, want: "GSHEET_NAME"},
		{name: "bad ttl", env: map[string]string{"CATALOG_CACHE_TTL": "ten minutes"}, want: "CATALOG_CACHE_TTL"},
		{name: "credentials with wildcard cors", env: map[string]string{"CORS_ORIGINS": "*", "CORS_ALLOW_CREDENTIALS": "true"}, want: "CORS_ALLOW_CREDENTIALS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
