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
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Upper          *bool    `toml:"upper"`
	Middle         *bool    `toml:"middle"`
	Lower          *bool    `toml:"lower"`
	Hands          *string  `toml:"hands"`
	NormalShift    *bool    `toml:"normal-shift"`
	DisableNoShift *bool    `toml:"disable-no-shift"`
	CrossShift     *bool    `toml:"cross-shift"`
	AllChars       *bool    `toml:"all-chars"`
	Length         *int     `toml:"length"`
	WordMode       *bool    `toml:"word-mode"`
	WordFile       *string  `toml:"word-file"`
	Blind          *bool    `toml:"blind"`
	Highlight      *bool    `toml:"highlight"`
	OutputDir      *string  `toml:"output-dir"`
	FocusWeak      *bool    `toml:"focus-weak"`
	WeakTop        *int     `toml:"weak-top"`
	WeakFactor     *float64 `toml:"weak-factor"`
	WeakWindow     *int     `toml:"weak-window"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
