package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSettingsFile loads tool settings from a YAML file, layered over the
// defaults.
func LoadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return settings, nil
}

// FindSettingsFile searches the standard locations for a settings file.
// Returns empty string if none exists (non-fatal).
func FindSettingsFile() string {
	locations := []string{
		"./jumpstamper.yaml",
		"./jumpstamper.yml",
		filepath.Join(os.Getenv("HOME"), ".jumpstamper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".jumpstamper", "config.yml"),
		"/etc/jumpstamper/config.yaml",
		"/etc/jumpstamper/config.yml",
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveSettingsFile writes tool settings to a YAML file, creating the
// directory if needed.
func SaveSettingsFile(settings *Settings, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
