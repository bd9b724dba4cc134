package driven

// ConfigStore provides access to persisted application settings: the
// library location and allow-lists, embedding provider credentials, and
// import tokens. Keys use dot notation ("library.base_dir").
type ConfigStore interface {
	// Get retrieves a raw value by key. The boolean reports whether
	// the key is set.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when the key is
	// unset or holds another type.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 when the key is unset
	// or holds another type.
	GetInt(key string) int

	// GetBool returns the value as a bool, or false when the key is
	// unset or holds another type.
	GetBool(key string) bool

	// GetStringSlice returns the value as a string slice, or nil when
	// the key is unset or holds another type.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current settings to storage.
	Save() error

	// Load replaces the current settings with the stored ones.
	Load() error

	// Path returns the location of the backing settings file.
	Path() string
}
