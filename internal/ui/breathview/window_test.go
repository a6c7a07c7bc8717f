package breathview

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncbreath/internal/core/model"
	"syncbreath/resources"
)

func TestFormatSecondsRoundsUp(t *testing.T) {
	assert.Equal(t, "4", formatSeconds(3200*time.Millisecond))
	assert.Equal(t, "1", formatSeconds(time.Millisecond))
	assert.Equal(t, "3", formatSeconds(3*time.Second))
	assert.Equal(t, "", formatSeconds(0))
}

func TestPagerKeepsSelectedSound(t *testing.T) {
	app := test.NewTempApp(t)
	modes := resources.MustModes()
	selected := map[model.ModeID]model.SoundOption{}

	view := New(app, modes, model.ModeBambooGrove, Callbacks{
		OnSoundChange: func(mode model.Mode, option model.SoundOption) {
			selected[mode.ID] = option
		},
		SoundFor: func(mode model.Mode) (model.SoundOption, bool) {
			option, ok := selected[mode.ID]
			return option, ok
		},
	})
	assert.Equal(t, "Morning Dew", view.soundSelect.Selected)

	view.soundSelect.SetSelected("Bamboo Wind")
	require.Equal(t, "bamboo_wind", selected[model.ModeBambooGrove].File)

	view.step(1)
	assert.Equal(t, model.ModeCloudReturn, view.Mode().ID)
	assert.Equal(t, "Floating Clouds", view.soundSelect.Selected)

	view.step(-1)
	assert.Equal(t, model.ModeBambooGrove, view.Mode().ID)
	assert.Equal(t, "Bamboo Wind", view.soundSelect.Selected)
	assert.Len(t, selected, 1)
}
