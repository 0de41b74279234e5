// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings. The same struct is filled
// from the [practice] table and from TYPETEST_* environment variables; nil
// fields are unset.
type PracticeConfig struct {
	Mode      *string `toml:"mode" env:"MODE"`
	Words     *int    `toml:"words" env:"WORDS"`
	Time      *int    `toml:"time" env:"TIME"`
	WordSet   *string `toml:"word-set" env:"WORD_SET"`
	WordsFile *string `toml:"words-file" env:"WORDS_FILE"`
	Save      *bool   `toml:"save" env:"SAVE"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
