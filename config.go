package rowguard

import "time"

// Config holds configuration for the rowguard engine.
type Config struct {
	// CacheTTL is the time-to-live for cached check results. It applies
	// when the extension auto-constructs a cache; injecting a cache via
	// WithCache carries its own TTL.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// EnableAudit appends every decision to the audit store.
	// Defaults to true; checks still run without an audit store.
	EnableAudit *bool `json:"enable_audit,omitempty"`

	// AuditAllowed includes ALLOW decisions in the audit log. When false,
	// only denials are appended. Defaults to true.
	AuditAllowed *bool `json:"audit_allowed,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	t := true
	return Config{
		EnableAudit:  &t,
		AuditAllowed: &t,
	}
}

func (c Config) auditEnabled() bool { return c.EnableAudit == nil || *c.EnableAudit }

func (c Config) auditAllowedEnabled() bool { return c.AuditAllowed == nil || *c.AuditAllowed }
