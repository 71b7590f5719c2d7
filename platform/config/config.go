// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog source and sink backend identifiers.
const (
	CatalogSourceSheets = "sheets"
	CatalogSourceFile   = "file"

	SinkBackendSheets   = "sheets"
	SinkBackendPostgres = "postgres"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SheetsConfig provides settings for the Google Sheets client.
type SheetsConfig interface {
	GetGoogleCredentialsJSON() []byte
	GetSpreadsheetName() string
	GetSpreadsheetID() string
	GetSheetsEndpoint() string
}

// CatalogConfig provides settings for the product catalog.
type CatalogConfig interface {
	GetCatalogSource() string
	GetCatalogFile() string
	GetMasterSheetName() string
	GetCatalogCacheTTL() time.Duration
	GetCatalogColumnTenant() string
	GetCatalogColumnProduct() string
	GetCatalogColumnPrice() string
}

// SinkConfig provides settings for the transaction log.
type SinkConfig interface {
	GetSinkBackend() string
	GetLogSheetName() string
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// RedisConfig provides settings for the shared catalog cache.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisKeyPrefix() string
}

// CashierConfig provides settings for cashier sessions.
type CashierConfig interface {
	GetSessionIdleTTL() time.Duration
	GetResetAfterSubmit() bool
	GetSubmitRatePerMinute() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	GoogleCredentialsJSON []byte
	SpreadsheetName       string
	SpreadsheetID         string
	SheetsEndpoint        string
	MasterSheetName       string
	LogSheetName          string
	CatalogSource         string
	CatalogFile           string
	CatalogCacheTTL       time.Duration
	CatalogColumnTenant   string
	CatalogColumnProduct  string
	CatalogColumnPrice    string
	SinkBackend           string
	DatabaseURL           string
	RedisURL              string
	RedisKeyPrefix        string
	SessionIdleTTL        time.Duration
	ResetAfterSubmit      bool
	SubmitRatePerMinute   int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SheetsConfig implementation
func (c *Config) GetGoogleCredentialsJSON() []byte { return c.GoogleCredentialsJSON }
func (c *Config) GetSpreadsheetName() string       { return c.SpreadsheetName }
func (c *Config) GetSpreadsheetID() string         { return c.SpreadsheetID }
func (c *Config) GetSheetsEndpoint() string        { return c.SheetsEndpoint }

// CatalogConfig implementation
func (c *Config) GetCatalogSource() string          { return c.CatalogSource }
func (c *Config) GetCatalogFile() string            { return c.CatalogFile }
func (c *Config) GetMasterSheetName() string        { return c.MasterSheetName }
func (c *Config) GetCatalogCacheTTL() time.Duration { return c.CatalogCacheTTL }
func (c *Config) GetCatalogColumnTenant() string    { return c.CatalogColumnTenant }
func (c *Config) GetCatalogColumnProduct() string   { return c.CatalogColumnProduct }
func (c *Config) GetCatalogColumnPrice() string     { return c.CatalogColumnPrice }

// SinkConfig implementation
func (c *Config) GetSinkBackend() string  { return c.SinkBackend }
func (c *Config) GetLogSheetName() string { return c.LogSheetName }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisKeyPrefix() string { return c.RedisKeyPrefix }

// CashierConfig implementation
func (c *Config) GetSessionIdleTTL() time.Duration { return c.SessionIdleTTL }
func (c *Config) GetResetAfterSubmit() bool        { return c.ResetAfterSubmit }
func (c *Config) GetSubmitRatePerMinute() int      { return c.SubmitRatePerMinute }

// UsesSheets reports whether any component talks to Google Sheets.
func (c *Config) UsesSheets() bool {
	return c.CatalogSource == CatalogSourceSheets || c.SinkBackend == SinkBackendSheets
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	credentials, err := loadCredentials(getEnv("GOOGLE_CREDENTIALS_JSON", ""), getEnv("GOOGLE_CREDENTIALS_FILE", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		GoogleCredentialsJSON: credentials,
		SpreadsheetName:       strings.TrimSpace(getEnv("GSHEET_NAME", "")),
		SpreadsheetID:         strings.TrimSpace(getEnv("GSHEET_ID", "")),
		SheetsEndpoint:        getEnv("SHEETS_ENDPOINT", ""),
		MasterSheetName:       getEnv("MASTER_SHEET_NAME", "Master"),
		LogSheetName:          getEnv("LOG_SHEET_NAME", "Log"),
		CatalogSource:         strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceSheets)),
		CatalogFile:           getEnv("CATALOG_FILE", ""),
		CatalogCacheTTL:       mustDuration(getEnv("CATALOG_CACHE_TTL", "600s")),
		CatalogColumnTenant:   getEnv("CATALOG_COLUMN_TENANT", "Tenant"),
		CatalogColumnProduct:  getEnv("CATALOG_COLUMN_PRODUCT", "Produk"),
		CatalogColumnPrice:    getEnv("CATALOG_COLUMN_PRICE", "Harga_Jual"),
		SinkBackend:           strings.ToLower(getEnv("SINK_BACKEND", SinkBackendSheets)),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisKeyPrefix:        getEnv("REDIS_KEY_PREFIX", "kasir"),
		SessionIdleTTL:        mustDuration(getEnv("SESSION_IDLE_TTL", "2h")),
		ResetAfterSubmit:      strings.EqualFold(getEnv("RESET_AFTER_SUBMIT", "true"), "true"),
		SubmitRatePerMinute:   mustInt(getEnv("SUBMIT_RATE_PER_MINUTE", "30")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.CatalogSource {
	case CatalogSourceSheets:
	case CatalogSourceFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE is file")
		}
	default:
		return fmt.Errorf("unsupported CATALOG_SOURCE %q", c.CatalogSource)
	}

	switch c.SinkBackend {
	case SinkBackendSheets:
		if c.LogSheetName == "" {
			return fmt.Errorf("LOG_SHEET_NAME is required")
		}
	case SinkBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when SINK_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("unsupported SINK_BACKEND %q", c.SinkBackend)
	}

	if c.UsesSheets() {
		if len(c.GoogleCredentialsJSON) == 0 && c.SheetsEndpoint == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON is required")
		}
		if c.SpreadsheetName == "" && c.SpreadsheetID == "" {
			return fmt.Errorf("GSHEET_NAME or GSHEET_ID is required")
		}
	}
	if c.CatalogSource == CatalogSourceSheets && c.MasterSheetName == "" {
		return fmt.Errorf("MASTER_SHEET_NAME is required")
	}
	if c.CatalogCacheTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be a positive duration")
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be a positive duration")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func loadCredentials(inline, path string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read GOOGLE_CREDENTIALS_FILE: %w", err)
	}
	return data, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
