package driven

// ConfigStore holds settings as dotted keys such as "cache.mode".
// Values keep the type they were stored with; getters return the zero value
// for missing keys or values of another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns a string value.
	GetString(key string) string

	// GetInt returns an integer value.
	GetInt(key string) int

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Path returns where the configuration is stored.
	Path() string
}
