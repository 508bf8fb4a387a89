package config

import (
	"fmt"
)

// LoadSettings loads tool settings with priority: CLI flags > settings file
// > defaults. The flag layer is applied by the caller after this returns;
// this function resolves the file layer.
//
// An empty configPath falls back to searching the standard locations, and
// uses the defaults when nothing is found.
func LoadSettings(configPath string) (*Settings, error) {
	if configPath == "" {
		configPath = FindSettingsFile()
	}

	if configPath == "" {
		return DefaultSettings(), nil
	}

	settings, err := LoadSettingsFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings file %s: %w", configPath, err)
	}

	return settings, nil
}
