package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBreathPatternRejectsAllZero(t *testing.T) {
	_, err := NewBreathPattern(0, 0, 0, 0)
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestNewBreathPatternRejectsNegative(t *testing.T) {
	_, err := NewBreathPattern(4, -1, 4, 0)
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestPhasesSkipZeroDurations(t *testing.T) {
	pattern := MustBreathPattern(4, 0, 4, 0)
	assert.Equal(t, []Phase{PhaseInhale, PhaseExhale}, pattern.Phases())
	assert.Equal(t, 8*time.Second, pattern.CycleDuration())
}

func TestFirstPhaseWhenInhaleIsZero(t *testing.T) {
	pattern := MustBreathPattern(0, 2, 3, 0)
	assert.Equal(t, PhaseHold1, pattern.FirstPhase())
}

func TestNextWrapsInCycleOrder(t *testing.T) {
	pattern := MustBreathPattern(4, 7, 8, 0)

	tests := []struct {
		current Phase
		next    Phase
		wrapped bool
	}{
		{PhaseInhale, PhaseHold1, false},
		{PhaseHold1, PhaseExhale, false},
		{PhaseExhale, PhaseInhale, true},
	}
	for _, tc := range tests {
		t.Run(tc.current.String(), func(t *testing.T) {
			next, wrapped := pattern.Next(tc.current)
			assert.Equal(t, tc.next, next)
			assert.Equal(t, tc.wrapped, wrapped)
		})
	}
}

func TestNextSinglePhaseAlwaysWraps(t *testing.T) {
	pattern := MustBreathPattern(0, 0, 5, 0)
	next, wrapped := pattern.Next(PhaseExhale)
	assert.Equal(t, PhaseExhale, next)
	assert.True(t, wrapped)
}

func TestPatternString(t *testing.T) {
	assert.Equal(t, "4-7-8-0", MustBreathPattern(4, 7, 8, 0).String())
}

func TestCatalogueFind(t *testing.T) {
	catalogue := Catalogue{
		{ID: ModeZenMoment, Pattern: MustBreathPattern(5, 5, 5, 0)},
	}
	mode, err := catalogue.Find(ModeZenMoment)
	require.NoError(t, err)
	assert.Equal(t, "5-5-5-0", mode.Pattern.String())

	_, err = catalogue.Find("missing")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, -1, catalogue.Index("missing"))
}
