package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusText(t *testing.T) {
	manager := New(nil, nil, "", Callbacks{})
	assert.Equal(t, "Status: ready (paused)", manager.StatusText())

	manager.SetRunning(true)
	manager.SetStatus("Inhale, cycle 3")
	assert.Equal(t, "Status: Inhale, cycle 3", manager.StatusText())
}
