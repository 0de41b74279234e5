package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "TYPETEST_"

// ParseEnv loads configuration from environment variables whose names carry prefix.
func ParseEnv(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads the TYPETEST_* practice overrides.
func LoadEnv() (PracticeConfig, error) {
	var cfg PracticeConfig
	if err := ParseEnv(&cfg, EnvPrefix); err != nil {
		return PracticeConfig{}, err
	}
	return cfg, nil
}
