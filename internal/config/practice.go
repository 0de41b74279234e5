package config

import (
	"fmt"

	"github.com/verte-zerg/typetest/internal/model"
)

const (
	DefaultWords   = 10
	DefaultTime    = 15
	DefaultWordSet = "common200"
)

// Defaults returns the built-in practice settings.
func Defaults() model.Config {
	return model.Config{
		Mode:    model.ModeWords,
		Words:   DefaultWords,
		Time:    DefaultTime,
		WordSet: DefaultWordSet,
		Save:    true,
	}
}

// Merge overlays every non-nil field of layer onto cfg.
func Merge(cfg model.Config, layer PracticeConfig) model.Config {
	if layer.Mode != nil {
		cfg.Mode = model.Mode(*layer.Mode)
	}
	if layer.Words != nil {
		cfg.Words = *layer.Words
	}
	if layer.Time != nil {
		cfg.Time = *layer.Time
	}
	if layer.WordSet != nil {
		cfg.WordSet = *layer.WordSet
	}
	if layer.WordsFile != nil {
		cfg.WordsFile = *layer.WordsFile
	}
	if layer.Save != nil {
		cfg.Save = *layer.Save
	}
	return cfg
}

// Validate checks resolved practice settings. Word set membership is checked
// by the caller once the sets are loaded.
func Validate(cfg model.Config) error {
	if !cfg.Mode.Valid() {
		return fmt.Errorf("--mode must be %q or %q", model.ModeWords, model.ModeTime)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Time <= 0 {
		return fmt.Errorf("--time must be > 0")
	}
	if cfg.WordSet == "" {
		return fmt.Errorf("--word-set must not be empty")
	}
	return nil
}
