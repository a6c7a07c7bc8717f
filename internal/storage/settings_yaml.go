package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"syncbreath/internal/core/model"
	"syncbreath/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Mode                 string            `yaml:"mode"`
	CustomPattern        []int             `yaml:"custom_pattern,flow"`
	SessionLengthMinutes *int              `yaml:"session_length_minutes"`
	SoundEnabled         *bool             `yaml:"sound_enabled"`
	Volume               *float64          `yaml:"volume"`
	Sounds               map[string]string `yaml:"sounds,omitempty"`
	ShowProgress         *bool             `yaml:"show_progress"`
	LaunchAtLogin        bool              `yaml:"launch_at_login"`
	DeviceEnabled        bool              `yaml:"device_enabled"`
	DeviceAddress        string            `yaml:"device_address"`
	MotorIntensity       *float64          `yaml:"motor_intensity"`
	PumpIntensity        *float64          `yaml:"pump_intensity"`
}

// LoadSettings reads user preferences for appName from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from configPath.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	rawData, err := os.ReadFile(configPath)
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

// SaveSettings writes user preferences for appName to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	lengthMinutes := int(settings.SessionLength / time.Minute)
	fileData := yamlSettings{
		Mode:                 string(settings.Mode),
		SessionLengthMinutes: &lengthMinutes,
		SoundEnabled:         &settings.SoundEnabled,
		Volume:               &settings.Volume,
		ShowProgress:         &settings.ShowProgress,
		LaunchAtLogin:        settings.LaunchAtLogin,
		DeviceEnabled:        settings.DeviceEnabled,
		DeviceAddress:        settings.DeviceAddress,
		MotorIntensity:       &settings.MotorIntensity,
		PumpIntensity:        &settings.PumpIntensity,
	}
	if pattern := settings.CustomPattern; !pattern.IsZero() {
		fileData.CustomPattern = []int{pattern.Inhale(), pattern.Hold1(), pattern.Exhale(), pattern.Hold2()}
	}
	if len(settings.Sounds) > 0 {
		fileData.Sounds = make(map[string]string, len(settings.Sounds))
		for mode, file := range settings.Sounds {
			fileData.Sounds[string(mode)] = file
		}
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// DataPath returns a file location next to the settings file.
func DataPath(appName, fileName string) (string, error) {
	settingsPath, err := SettingsPath(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(settingsPath), fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Mode != "" {
		settings.Mode = model.ModeID(fileData.Mode)
	}
	if len(fileData.CustomPattern) == 4 {
		values := fileData.CustomPattern
		if pattern, err := model.NewBreathPattern(values[0], values[1], values[2], values[3]); err == nil {
			settings.CustomPattern = pattern
		}
	}
	// Zero minutes is stored explicitly and means no session limit.
	if fileData.SessionLengthMinutes != nil && *fileData.SessionLengthMinutes >= 0 {
		settings.SessionLength = time.Duration(*fileData.SessionLengthMinutes) * time.Minute
	}
	applyLevel(&settings.Volume, fileData.Volume)
	applyLevel(&settings.MotorIntensity, fileData.MotorIntensity)
	applyLevel(&settings.PumpIntensity, fileData.PumpIntensity)
	if fileData.DeviceAddress != "" {
		settings.DeviceAddress = fileData.DeviceAddress
	}
	for mode, file := range fileData.Sounds {
		settings.Sounds[model.ModeID(mode)] = file
	}

	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.ShowProgress != nil {
		settings.ShowProgress = *fileData.ShowProgress
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin
	settings.DeviceEnabled = fileData.DeviceEnabled
}

// applyLevel copies a stored 0..1 level; absent or out-of-range values keep
// the default.
func applyLevel(target *float64, value *float64) {
	if value != nil && *value >= 0 && *value <= 1 {
		*target = *value
	}
}
