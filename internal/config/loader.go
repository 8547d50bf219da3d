package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PROPSIGHT_CONFIG is set
//  3. env (prefix PROPSIGHT_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PROPSIGHT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: PROPSIGHT_ADDR, PROPSIGHT_REFRESH_INTERVAL_SEC, ...
	// Map env keys like PROPSIGHT_CONFIDENCE_FLOOR -> confidence_floor (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PROPSIGHT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "propsight_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.FormClampMin <= 0 || cfg.FormClampMax < cfg.FormClampMin {
		return nil, fmt.Errorf("%w: form clamp bounds must satisfy 0 < min <= max", ErrInvalidConfig)
	}
	if cfg.MovementRelThreshold < 0 || cfg.MovementAbsThreshold < 0 {
		return nil, fmt.Errorf("%w: movement thresholds must not be negative", ErrInvalidConfig)
	}
	return &cfg, nil
}
