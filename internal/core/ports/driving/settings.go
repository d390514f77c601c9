package driving

import "github.com/custodia-labs/recall/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses and stores a single setting by its dotted key.
	// Returns domain.ErrInvalidSetting for unknown keys or bad values.
	Set(key, value string) error

	// Value returns the effective value of key as Set would accept it.
	// Returns domain.ErrInvalidSetting for unknown keys.
	Value(key string) (string, error)

	// Keys returns the recognised setting keys in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
