package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"syncbreath/internal/core/model"
	"syncbreath/internal/core/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScaleFollowsPhases(t *testing.T) {
	config := DefaultConfig()

	assert.InDelta(t, 0.6, config.Scale(model.PhaseInhale, 0), 1e-9)
	assert.InDelta(t, 0.8, config.Scale(model.PhaseInhale, 0.5), 1e-9)
	assert.InDelta(t, 1.0, config.Scale(model.PhaseHold1, 0.3), 1e-9)
	assert.InDelta(t, 1.0, config.Scale(model.PhaseExhale, 0), 1e-9)
	assert.InDelta(t, 0.6, config.Scale(model.PhaseHold2, 0.9), 1e-9)
	assert.InDelta(t, 1.0, config.Scale(model.PhaseInhale, 7), 1e-9)
}

func TestScaleMonotonicDuringInhale(t *testing.T) {
	config := DefaultConfig()
	last := config.Scale(model.PhaseInhale, 0)
	for step := 1; step < 100; step++ {
		current := config.Scale(model.PhaseInhale, float64(step)/100)
		assert.Greater(t, current, last)
		last = current
	}
}

func TestGlowStaysInRange(t *testing.T) {
	config := DefaultConfig()
	for _, phase := range []model.Phase{model.PhaseInhale, model.PhaseHold1, model.PhaseExhale, model.PhaseHold2} {
		for step := 0; step <= 20; step++ {
			glow := config.Glow(phase, float64(step)/20)
			assert.GreaterOrEqual(t, glow, 0.0)
			assert.LessOrEqual(t, glow, 1.0)
		}
	}
}

type staticSource struct {
	snapshot session.Snapshot
}

func (source staticSource) Snapshot() session.Snapshot { return source.snapshot }

func TestEngineDeliversFrames(t *testing.T) {
	var mu sync.Mutex
	var frames []Frame
	engine := New(Config{FrameInterval: time.Millisecond, MinScale: 0.5, MaxScale: 1}, func(frame Frame) {
		mu.Lock()
		frames = append(frames, frame)
		mu.Unlock()
	})

	engine.Start(context.Background(), staticSource{snapshot: session.Snapshot{
		Phase:    model.PhaseExhale,
		Progress: 0.5,
		Cycle:    3,
		Running:  true,
	}})
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(frames) >= 3
	}, time.Second, time.Millisecond)
	engine.Stop()
	engine.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Exhale", frames[0].Label)
	assert.InDelta(t, 0.75, frames[0].Scale, 1e-9)
	assert.Equal(t, uint64(3), frames[0].Cycle)
}
