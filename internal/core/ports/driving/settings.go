package driving

import "github.com/custodia-labs/pagelayout/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting from its string form, e.g. "layout.header_fraction".
	Set(key, value string) error

	// Reset restores every setting to its default.
	Reset() error

	// Keys returns the names of all settable keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
