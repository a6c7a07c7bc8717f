package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncbreath/internal/core/model"
)

var seasonMode = model.Mode{
	ID:      model.ModeSeasonCycle,
	Pattern: model.MustBreathPattern(4, 4, 4, 0),
	Custom:  true,
	Sounds: []model.SoundOption{
		{Name: "Spring Breeze", File: "season_spring"},
		{Name: "Winter Snow", File: "season_winter"},
	},
}

func TestPatternForHonoursCustomModes(t *testing.T) {
	settings := DefaultSettings()
	settings.CustomPattern = model.MustBreathPattern(2, 0, 2, 0)

	assert.Equal(t, "2-0-2-0", settings.PatternFor(seasonMode).String())

	fixed := seasonMode
	fixed.Custom = false
	assert.Equal(t, "4-4-4-0", settings.PatternFor(fixed).String())
}

func TestSoundForFallsBackToDefault(t *testing.T) {
	settings := DefaultSettings()
	option, ok := settings.SoundFor(seasonMode)
	require.True(t, ok)
	assert.Equal(t, "season_spring", option.File)

	updated := settings.WithSound(model.ModeSeasonCycle, "season_winter")
	option, _ = updated.SoundFor(seasonMode)
	assert.Equal(t, "season_winter", option.File)
	assert.Empty(t, settings.Sounds, "WithSound must not mutate the receiver")

	stale := settings.WithSound(model.ModeSeasonCycle, "removed_track")
	option, _ = stale.SoundFor(seasonMode)
	assert.Equal(t, "season_spring", option.File)
}

func TestParsePattern(t *testing.T) {
	pattern, err := ParsePattern("4", "7", "8", "0")
	require.NoError(t, err)
	assert.Equal(t, "4-7-8-0", pattern.String())

	_, err = ParsePattern("0", "0", "0", "0")
	assert.ErrorIs(t, err, model.ErrInvalidPattern)

	_, err = ParsePattern("4", "x", "4", "0")
	assert.ErrorIs(t, err, model.ErrInvalidPattern)
}

func TestSessionConfigCarriesLength(t *testing.T) {
	settings := DefaultSettings()
	config := settings.SessionConfig(nil)
	assert.Equal(t, settings.SessionLength, config.Length)
	assert.Equal(t, 0.8, settings.DeviceIntensity().Pump)
}
