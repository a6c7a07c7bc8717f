package breath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncbreath/internal/core/model"
)

func newRunningEngine(t *testing.T, pattern model.BreathPattern) (*Engine, *[]Event) {
	t.Helper()
	engine, err := New(pattern)
	require.NoError(t, err)
	var events []Event
	engine.Observe(func(event Event) {
		events = append(events, event)
	})
	engine.Start()
	return engine, &events
}

func TestNewRejectsZeroPattern(t *testing.T) {
	_, err := New(model.BreathPattern{})
	require.ErrorIs(t, err, model.ErrInvalidPattern)
}

func TestStartResetsState(t *testing.T) {
	engine, events := newRunningEngine(t, model.MustBreathPattern(4, 4, 4, 0))
	engine.Tick(9 * time.Second)
	engine.Pause()
	engine.Start()

	assert.True(t, engine.Running())
	assert.Equal(t, model.PhaseInhale, engine.Phase())
	assert.Zero(t, engine.Progress())
	assert.Zero(t, engine.CycleCount())
	assert.Equal(t, EventStarted, (*events)[len(*events)-1].Type)
}

func TestStartIsIdempotent(t *testing.T) {
	engine, events := newRunningEngine(t, model.MustBreathPattern(4, 0, 4, 0))
	engine.Tick(time.Second)
	before := len(*events)

	engine.Start()

	assert.Equal(t, time.Second, engine.PhaseElapsed())
	assert.Len(t, *events, before)
}

func TestFullCyclesReturnToFirstPhase(t *testing.T) {
	patterns := []model.BreathPattern{
		model.MustBreathPattern(4, 0, 4, 0),
		model.MustBreathPattern(4, 7, 8, 0),
		model.MustBreathPattern(3, 1, 2, 5),
		model.MustBreathPattern(0, 2, 3, 0),
	}
	for _, pattern := range patterns {
		t.Run(pattern.String(), func(t *testing.T) {
			engine, _ := newRunningEngine(t, pattern)
			const cycles = 3
			total := cycles * pattern.CycleDuration()
			step := 250 * time.Millisecond
			for fed := time.Duration(0); fed < total; fed += step {
				engine.Tick(step)
			}

			assert.Equal(t, uint64(cycles), engine.CycleCount())
			assert.Equal(t, pattern.FirstPhase(), engine.Phase())
			assert.Zero(t, engine.Progress())
		})
	}
}

func TestPauseTwiceMatchesPauseOnce(t *testing.T) {
	engine, events := newRunningEngine(t, model.MustBreathPattern(4, 4, 4, 4))
	engine.Tick(5 * time.Second)

	engine.Pause()
	phase, elapsed, cycles, count := engine.Phase(), engine.PhaseElapsed(), engine.CycleCount(), len(*events)
	engine.Pause()

	assert.False(t, engine.Running())
	assert.Equal(t, phase, engine.Phase())
	assert.Equal(t, elapsed, engine.PhaseElapsed())
	assert.Equal(t, cycles, engine.CycleCount())
	assert.Len(t, *events, count)
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	engine, _ := newRunningEngine(t, model.MustBreathPattern(4, 0, 4, 0))
	engine.Pause()
	engine.Tick(3 * time.Second)
	assert.Zero(t, engine.PhaseElapsed())
}

func TestProgressMonotonicWithinPhase(t *testing.T) {
	engine, _ := newRunningEngine(t, model.MustBreathPattern(4, 0, 4, 0))
	last := engine.Progress()
	for i := 0; i < 39; i++ {
		engine.Tick(100 * time.Millisecond)
		require.Equal(t, model.PhaseInhale, engine.Phase())
		current := engine.Progress()
		assert.Greater(t, current, last)
		assert.Less(t, current, 1.0)
		last = current
	}
}

func TestSkippedPhasesNeverEntered(t *testing.T) {
	engine, _ := newRunningEngine(t, model.MustBreathPattern(4, 0, 4, 0))
	seen := map[model.Phase]bool{engine.Phase(): true}
	for i := 0; i < 400; i++ {
		engine.Tick(70 * time.Millisecond)
		seen[engine.Phase()] = true
	}
	assert.Equal(t, map[model.Phase]bool{model.PhaseInhale: true, model.PhaseExhale: true}, seen)
}

func TestLargeTickFastForwards(t *testing.T) {
	engine, events := newRunningEngine(t, model.MustBreathPattern(4, 0, 4, 0))
	*events = nil

	engine.Tick(10 * time.Second)

	assert.Equal(t, model.PhaseInhale, engine.Phase())
	assert.InDelta(t, 0.5, engine.Progress(), 1e-9)
	assert.Equal(t, uint64(1), engine.CycleCount())

	require.Len(t, *events, 2)
	assert.Equal(t, Event{Type: EventPhaseChanged, Phase: model.PhaseExhale, Cycle: 0, Pattern: engine.Pattern()}, (*events)[0])
	assert.Equal(t, Event{Type: EventPhaseChanged, Phase: model.PhaseInhale, Cycle: 1, Pattern: engine.Pattern()}, (*events)[1])
}

func TestTickWithinPhaseEmitsProgress(t *testing.T) {
	engine, events := newRunningEngine(t, model.MustBreathPattern(4, 0, 4, 0))
	*events = nil

	engine.Tick(time.Second)

	require.Len(t, *events, 1)
	assert.Equal(t, EventProgress, (*events)[0].Type)
	assert.InDelta(t, 0.25, (*events)[0].Progress, 1e-9)
}

func TestSetPatternRejectsInvalidAndKeepsState(t *testing.T) {
	original := model.MustBreathPattern(4, 4, 4, 0)
	engine, _ := newRunningEngine(t, original)
	engine.Tick(5 * time.Second)

	err := engine.SetPattern(model.BreathPattern{})
	require.ErrorIs(t, err, model.ErrInvalidPattern)

	_, err = model.NewBreathPattern(0, 0, 0, 0)
	require.ErrorIs(t, err, model.ErrInvalidPattern)

	assert.Equal(t, original, engine.Pattern())
	assert.Equal(t, model.PhaseHold1, engine.Phase())
	assert.Equal(t, time.Second, engine.PhaseElapsed())
}

func TestSetPatternRestartsCycle(t *testing.T) {
	engine, events := newRunningEngine(t, model.MustBreathPattern(4, 0, 10, 0))
	engine.Tick(4*time.Second + 7*time.Second)
	require.Equal(t, model.PhaseExhale, engine.Phase())
	require.InDelta(t, 0.7, engine.Progress(), 1e-9)
	*events = nil

	require.NoError(t, engine.SetPattern(model.MustBreathPattern(6, 3, 6, 0)))

	assert.Equal(t, model.PhaseInhale, engine.Phase())
	assert.Zero(t, engine.Progress())
	assert.Zero(t, engine.CycleCount())
	require.Len(t, *events, 1)
	assert.Equal(t, EventPatternChanged, (*events)[0].Type)
}

func TestPhaseRemaining(t *testing.T) {
	engine, _ := newRunningEngine(t, model.MustBreathPattern(4, 7, 8, 0))
	engine.Tick(5 * time.Second)
	assert.Equal(t, model.PhaseHold1, engine.Phase())
	assert.Equal(t, 6*time.Second, engine.PhaseRemaining())
}
