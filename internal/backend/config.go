package backend

import (
	"fmt"

	"govis/internal/config"
	"govis/internal/schema"
	"govis/internal/sources/google"
)

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type    BackendType
	Variant schema.Variant

	// SQLite: data for the sqlite backend, state store for every backend
	SQLiteDBPath string

	// PostgreSQL specific
	PostgresURL      string
	PostgresMaxConns int

	// Google Sheets specific
	Google google.Config

	// Memory backend specific
	MemorySeedFile string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	variant := schema.Variant(appConfig.SchemaVariant)
	if !variant.IsValid() {
		return Config{}, fmt.Errorf("invalid schema variant in config: %s", appConfig.SchemaVariant)
	}

	return Config{
		Type:    backendType,
		Variant: variant,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		PostgresURL:      appConfig.PostgresURL,
		PostgresMaxConns: appConfig.PostgresMaxConns,

		Google: google.Config{
			SpreadsheetID:    appConfig.GoogleSpreadsheetID,
			ExpenditureRange: appConfig.GoogleExpenditureRange,
			ExpenseRange:     appConfig.GoogleExpenseRange,
			CredentialsJSON:  appConfig.GoogleCredentialsJSON,
			CredentialsFile:  appConfig.GoogleCredentialsFile,
		},

		MemorySeedFile: appConfig.MemorySeedFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s (valid: %v)", c.Type, GetBackendTypes())
	}
	if !c.Variant.IsValid() {
		return fmt.Errorf("invalid schema variant: %s", c.Variant)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case PostgresBackend:
		if c.PostgresURL == "" {
			return fmt.Errorf("Postgres URL is required for postgres backend")
		}

	case SheetsBackend:
		if c.Google.SpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.Google.ExpenditureRange == "" {
			return fmt.Errorf("Google expenditure range is required for sheets backend")
		}
		if c.Google.CredentialsFile == "" && c.Google.CredentialsJSON == "" {
			return fmt.Errorf("either CredentialsFile or CredentialsJSON must be provided for sheets backend")
		}

	case MemoryBackend:
		// An empty seed file yields an empty store
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend, PostgresBackend, SheetsBackend}
}
