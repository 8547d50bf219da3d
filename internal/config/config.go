// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// RefreshIntervalSec drives the periodic refresh loop. 0 disables it;
	// refreshes are then triggered only via POST /api/refresh.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// StatTypes lists the stats projected per player each cycle.
	StatTypes []string `koanf:"stat_types"`

	// Baselines maps stat types to their baseline expected rate per match.
	Baselines map[string]float64 `koanf:"baselines"`

	// DefaultBaseline is used for stat types absent from Baselines.
	DefaultBaseline float64 `koanf:"default_baseline"`

	// FormClampMin and FormClampMax bound form and team multipliers.
	FormClampMin float64 `koanf:"form_clamp_min"`
	FormClampMax float64 `koanf:"form_clamp_max"`

	// FormSampleMin and TeamSampleMin are the sample sizes a signal needs
	// before it earns a confidence bonus.
	FormSampleMin int `koanf:"form_sample_min"`
	TeamSampleMin int `koanf:"team_sample_min"`

	// MovementAbsThreshold and MovementRelThreshold classify a line
	// movement as significant when either test passes.
	MovementAbsThreshold float64 `koanf:"movement_abs_threshold"`
	MovementRelThreshold float64 `koanf:"movement_rel_threshold"`

	// OpportunityThresholds maps stat types to the projection/line gap
	// needed to flag a value opportunity.
	OpportunityThresholds map[string]float64 `koanf:"opportunity_thresholds"`

	// OpportunityDefaultThreshold applies to stat types without an override.
	OpportunityDefaultThreshold float64 `koanf:"opportunity_default_threshold"`

	// ConfidenceFloor is the minimum projection confidence that may
	// produce an opportunity.
	ConfidenceFloor float64 `koanf:"confidence_floor"`

	// HistoryMaxEntries caps the per-key line history length.
	HistoryMaxEntries int `koanf:"history_max_entries"`

	// HistoryRetentionHours prunes line history older than this.
	HistoryRetentionHours int `koanf:"history_retention_hours"`

	// ProviderCacheTTLSec bounds how long provider signals are cached.
	ProviderCacheTTLSec int `koanf:"provider_cache_ttl_sec"`

	// CORSOrigins lists allowed origins for the dashboard.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8090",
		RefreshIntervalSec: 300,
		StatTypes:          []string{"kills", "headshots"},
		Baselines: map[string]float64{
			"kills":     32.0,
			"headshots": 16.0,
		},
		DefaultBaseline:      20.0,
		FormClampMin:         0.85,
		FormClampMax:         1.15,
		FormSampleMin:        5,
		TeamSampleMin:        10,
		MovementAbsThreshold: 1.0,
		MovementRelThreshold: 0.08,
		OpportunityThresholds: map[string]float64{
			"kills":     3.0,
			"headshots": 2.0,
		},
		OpportunityDefaultThreshold: 1.5,
		ConfidenceFloor:             60,
		HistoryMaxEntries:           50,
		HistoryRetentionHours:       24,
		ProviderCacheTTLSec:         3600,
		CORSOrigins:                 []string{"*"},
	}
}
