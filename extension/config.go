package extension

import "time"

// Config holds the rowguard extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.rowguard" or "rowguard" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// CacheTTL enables the in-memory decision cache with the given TTL.
	// Zero leaves caching off unless a cache is injected via engine options.
	CacheTTL time.Duration `json:"cache_ttl" mapstructure:"cache_ttl" yaml:"cache_ttl"`

	// CacheSize caps the number of cached decisions when CacheTTL enables
	// the built-in cache.
	CacheSize int `json:"cache_size" mapstructure:"cache_size" yaml:"cache_size"`

	// DisableOwnerStamp stops the gateway from filling a single unset owner
	// column with the acting actor's ID on insert.
	DisableOwnerStamp bool `json:"disable_owner_stamp" mapstructure:"disable_owner_stamp" yaml:"disable_owner_stamp"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheSize: 4096,
	}
}
