package terminal

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncbreath/internal/core/model"
	"syncbreath/internal/core/session"
	"syncbreath/internal/ui/animation"
)

type fakeController struct {
	snapshot session.Snapshot
	toggles  int
}

func (controller *fakeController) Snapshot() session.Snapshot { return controller.snapshot }
func (controller *fakeController) Toggle()                    { controller.toggles++ }

func TestBarWidthIsConstant(t *testing.T) {
	config := animation.DefaultConfig()
	for _, scale := range []float64{0, 0.6, 0.73, 0.9, 1, 2} {
		bar := Bar(scale, config, 40)
		assert.Equal(t, 40, utf8.RuneCountInString(bar), "scale %v", scale)
	}
	assert.Equal(t, 2, strings.Count(Bar(0.6, config, 40), "█"))
	assert.Equal(t, 40, strings.Count(Bar(1, config, 40), "█"))
}

func TestUpdateHandlesKeysAndFrames(t *testing.T) {
	controller := &fakeController{snapshot: session.Snapshot{
		Phase:          model.PhaseExhale,
		Progress:       0.25,
		Running:        true,
		Cycle:          1,
		PhaseRemaining: 3 * time.Second,
	}}
	m := New(controller, model.Mode{Title: "Zen Moment"})

	next, cmd := m.Update(frameMsg(time.Now()))
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.Equal(t, "Exhale", m.frame.Label)
	assert.Contains(t, m.View(), "Zen Moment")
	assert.Contains(t, m.View(), "cycle 2")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	assert.Equal(t, 1, controller.toggles)

	next, _ = m.Update(CompletedMsg{Cycles: 12})
	assert.Contains(t, next.(Model).View(), "Session complete, 12 cycles")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
