package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/id01t/smarttask-ai/pkg/provider"
)

const settingsDirName = ".smarttask"

// Settings represents the main application settings
type Settings struct {
	StorePath       string           `json:"store_path"`                 // SQLite database location
	DefaultProvider string           `json:"default_provider,omitempty"` // provider used when none is chosen
	LogLevel        string           `json:"log_level"`
	Providers       ProviderSettings `json:"providers"`
	Export          ExportSettings   `json:"export"`
}

// ProviderSettings contains per-provider model and endpoint configuration.
// API keys are not settings; they live in the persistence store.
type ProviderSettings struct {
	OpenAIModel       string `json:"openai_model,omitempty"`
	ClaudeModel       string `json:"claude_model,omitempty"`
	GeminiModel       string `json:"gemini_model,omitempty"`
	CustomEndpointURL string `json:"custom_endpoint_url,omitempty"`
}

// ExportSettings contains transcript export configuration
type ExportSettings struct {
	FontPath string `json:"font_path,omitempty"` // TTF font for Unicode PDF output
}

// LoadSettings loads application settings from a JSON file
func LoadSettings(configPath string) (*Settings, error) {
	if configPath == "" {
		configPath = findSettingsFile()
		if configPath == "" {
			return createDefaultSettingsFile()
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		settings := GetDefaultSettings()
		if err := SaveSettings(configPath, settings); err != nil {
			return nil, err
		}
		return settings, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	applyDefaults(&settings)
	return &settings, nil
}

// SaveSettings saves application settings to a JSON file
func SaveSettings(configPath string, settings *Settings) error {
	if configPath == "" {
		configPath = findSettingsFile()
		if configPath == "" {
			configPath = filepath.Join(settingsDirName, "settings.json")
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// GetDefaultSettings returns default application settings
func GetDefaultSettings() *Settings {
	return &Settings{
		StorePath:       "smarttask.db",
		DefaultProvider: provider.OpenAI,
		LogLevel:        "info",
	}
}

// findSettingsFile searches for a settings file in order of preference:
// the local settings directory, then the user's home directory.
func findSettingsFile() string {
	local := filepath.Join(settingsDirName, "settings.json")
	if _, err := os.Stat(local); err == nil {
		return local
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, settingsDirName, "settings.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// createDefaultSettingsFile writes defaults to the local settings path and
// returns them.
func createDefaultSettingsFile() (*Settings, error) {
	settings := GetDefaultSettings()
	configPath := filepath.Join(settingsDirName, "settings.json")
	if err := SaveSettings(configPath, settings); err != nil {
		// Still usable in-memory when the directory is not writable
		return settings, nil
	}
	return settings, nil
}

// applyDefaults fills in missing fields with default values
func applyDefaults(settings *Settings) {
	defaults := GetDefaultSettings()

	if settings.StorePath == "" {
		settings.StorePath = defaults.StorePath
	}
	if settings.DefaultProvider == "" {
		settings.DefaultProvider = defaults.DefaultProvider
	}
	if settings.LogLevel == "" {
		settings.LogLevel = defaults.LogLevel
	}
}
