package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds user-tunable timer preferences.
type Settings struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	LongBreakEvery     int
	CadenceWindow      int
	Bell               bool
	DesktopNotify      bool
	LogLevel           string
}

type yamlSettings struct {
	WorkMinutes       int    `yaml:"work_minutes"`
	ShortBreakMinutes int    `yaml:"short_break_minutes"`
	LongBreakMinutes  int    `yaml:"long_break_minutes"`
	LongBreakEvery    int    `yaml:"long_break_every"`
	CadenceWindow     int    `yaml:"cadence_window"`
	Bell              *bool  `yaml:"bell"`
	DesktopNotify     *bool  `yaml:"desktop_notify"`
	LogLevel          string `yaml:"log_level"`
}

// DefaultSettings returns the built-in preferences.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:       WorkDuration,
		ShortBreakDuration: ShortBreakDuration,
		LongBreakDuration:  LongBreakDuration,
		LongBreakEvery:     LongBreakEvery,
		CadenceWindow:      CadenceWindow,
		Bell:               true,
		DesktopNotify:      true,
		LogLevel:           "info",
	}
}

// LoadSettings reads preferences from a YAML file.
// A missing file yields the defaults without error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes preferences to a YAML file, creating parent directories.
func SaveSettings(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	bell := settings.Bell
	desktop := settings.DesktopNotify
	fileData := yamlSettings{
		WorkMinutes:       int(settings.WorkDuration / time.Minute),
		ShortBreakMinutes: int(settings.ShortBreakDuration / time.Minute),
		LongBreakMinutes:  int(settings.LongBreakDuration / time.Minute),
		LongBreakEvery:    settings.LongBreakEvery,
		CadenceWindow:     settings.CadenceWindow,
		Bell:              &bell,
		DesktopNotify:     &desktop,
		LogLevel:          settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// SettingsPath returns the default settings location for the app.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, SettingsFileName), nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.LongBreakEvery > 0 {
		settings.LongBreakEvery = fileData.LongBreakEvery
	}
	if fileData.CadenceWindow >= 0 {
		settings.CadenceWindow = fileData.CadenceWindow
	}
	if fileData.Bell != nil {
		settings.Bell = *fileData.Bell
	}
	if fileData.DesktopNotify != nil {
		settings.DesktopNotify = *fileData.DesktopNotify
	}
	if level := strings.TrimSpace(fileData.LogLevel); level != "" {
		settings.LogLevel = strings.ToLower(level)
	}
}
