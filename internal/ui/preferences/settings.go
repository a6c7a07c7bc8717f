package preferences

import (
	"time"

	"go.uber.org/zap"

	"syncbreath/internal/core/model"
	"syncbreath/internal/core/session"
	"syncbreath/internal/device"
)

// Settings defines editable user preferences.
type Settings struct {
	Mode          model.ModeID
	CustomPattern model.BreathPattern
	SessionLength time.Duration

	SoundEnabled bool
	Volume       float64
	// Sounds maps a mode to the file name of its selected track.
	Sounds       map[model.ModeID]string
	ShowProgress bool
	// LaunchAtLogin registers the app with the desktop session.
	LaunchAtLogin bool

	DeviceEnabled  bool
	DeviceAddress  string
	MotorIntensity float64
	PumpIntensity  float64
}

// DefaultSettings returns default settings for SyncBreath.
func DefaultSettings() Settings {
	intensity := device.DefaultIntensity()
	return Settings{
		Mode:           model.ModeBambooGrove,
		CustomPattern:  model.MustBreathPattern(4, 4, 4, 0),
		SessionLength:  15 * time.Minute,
		SoundEnabled:   true,
		Volume:         0.5,
		Sounds:         map[model.ModeID]string{},
		ShowProgress:   true,
		DeviceEnabled:  false,
		DeviceAddress:  "127.0.0.1:7420",
		MotorIntensity: intensity.Motor,
		PumpIntensity:  intensity.Pump,
	}
}

// PatternFor returns the pattern to breathe in mode, honouring the custom
// pattern for user-editable modes.
func (settings Settings) PatternFor(mode model.Mode) model.BreathPattern {
	if mode.Custom && !settings.CustomPattern.IsZero() {
		return settings.CustomPattern
	}
	return mode.Pattern
}

// SoundFor returns the selected track of mode.
func (settings Settings) SoundFor(mode model.Mode) (model.SoundOption, bool) {
	if file, ok := settings.Sounds[mode.ID]; ok {
		if option, found := mode.Sound(file); found {
			return option, true
		}
	}
	return mode.DefaultSound()
}

// WithSound returns a copy of settings with file selected for mode.
func (settings Settings) WithSound(mode model.ModeID, file string) Settings {
	sounds := make(map[model.ModeID]string, len(settings.Sounds)+1)
	for id, selected := range settings.Sounds {
		sounds[id] = selected
	}
	sounds[mode] = file
	settings.Sounds = sounds
	return settings
}

// SessionConfig converts settings to a session.Config.
func (settings Settings) SessionConfig(logger *zap.Logger) session.Config {
	return session.Config{
		TickInterval: session.DefaultTickInterval,
		Length:       settings.SessionLength,
		Logger:       logger,
	}
}

// DeviceIntensity converts settings to device actuator levels.
func (settings Settings) DeviceIntensity() device.Intensity {
	return device.Intensity{
		Motor: settings.MotorIntensity,
		Pump:  settings.PumpIntensity,
	}
}
