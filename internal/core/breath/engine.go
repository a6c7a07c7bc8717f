// Package breath implements the breathing cycle state machine.
//
// The engine does no scheduling of its own. An owner feeds it elapsed
// wall-clock time through Tick and must serialize every call; see the
// session package for the ticker-driven owner used by the application.
package breath

import (
	"fmt"
	"time"

	"syncbreath/internal/core/model"
)

// Engine advances through the phases of a BreathPattern.
type Engine struct {
	pattern   model.BreathPattern
	phase     model.Phase
	elapsed   time.Duration
	cycles    uint64
	running   bool
	observers []Observer
}

// New creates a stopped engine positioned at the first phase of pattern.
func New(pattern model.BreathPattern) (*Engine, error) {
	if pattern.IsZero() {
		return nil, fmt.Errorf("new engine: %w", model.ErrInvalidPattern)
	}
	return &Engine{
		pattern: pattern,
		phase:   pattern.FirstPhase(),
	}, nil
}

// Observe registers an observer. Observers run on the caller of the
// mutating method and must not call back into the engine.
func (engine *Engine) Observe(observer Observer) {
	if observer == nil {
		return
	}
	engine.observers = append(engine.observers, observer)
}

// Start begins a fresh cycle. It does nothing if already running.
func (engine *Engine) Start() {
	if engine.running {
		return
	}
	engine.running = true
	engine.phase = engine.pattern.FirstPhase()
	engine.elapsed = 0
	engine.cycles = 0

	engine.notify(Event{
		Type:    EventStarted,
		Phase:   engine.phase,
		Pattern: engine.pattern,
	})
}

// Pause stops the cycle and keeps phase, elapsed time and cycle count.
// A later Start restarts from the first phase.
func (engine *Engine) Pause() {
	if !engine.running {
		return
	}
	engine.running = false

	engine.notify(Event{
		Type:     EventPaused,
		Phase:    engine.phase,
		Progress: engine.Progress(),
		Cycle:    engine.cycles,
		Pattern:  engine.pattern,
	})
}

// SetPattern replaces the active pattern and restarts at its first phase.
// An invalid pattern is rejected and leaves the engine untouched.
func (engine *Engine) SetPattern(pattern model.BreathPattern) error {
	if pattern.IsZero() {
		return fmt.Errorf("set pattern: %w", model.ErrInvalidPattern)
	}
	engine.pattern = pattern
	engine.phase = pattern.FirstPhase()
	engine.elapsed = 0

	if engine.running {
		engine.notify(Event{
			Type:    EventPatternChanged,
			Phase:   engine.phase,
			Cycle:   engine.cycles,
			Pattern: pattern,
		})
	}
	return nil
}

// Tick advances the engine by delta. A delta spanning several phase
// boundaries walks through each of them in order.
func (engine *Engine) Tick(delta time.Duration) {
	if !engine.running {
		return
	}
	if delta < 0 {
		delta = 0
	}
	engine.elapsed += delta

	crossed := false
	for {
		current := engine.pattern.Duration(engine.phase)
		if engine.elapsed < current {
			break
		}
		engine.elapsed -= current

		next, wrapped := engine.pattern.Next(engine.phase)
		engine.phase = next
		if wrapped {
			engine.cycles++
		}
		crossed = true

		engine.notify(Event{
			Type:    EventPhaseChanged,
			Phase:   engine.phase,
			Cycle:   engine.cycles,
			Pattern: engine.pattern,
		})
	}

	if !crossed {
		engine.notify(Event{
			Type:     EventProgress,
			Phase:    engine.phase,
			Progress: engine.Progress(),
			Cycle:    engine.cycles,
			Pattern:  engine.pattern,
		})
	}
}

// Progress returns the completed fraction of the current phase in [0, 1).
func (engine *Engine) Progress() float64 {
	total := engine.pattern.Duration(engine.phase)
	if total <= 0 {
		return 0
	}
	return float64(engine.elapsed) / float64(total)
}

func (engine *Engine) Phase() model.Phase           { return engine.phase }
func (engine *Engine) CycleCount() uint64           { return engine.cycles }
func (engine *Engine) Running() bool                { return engine.running }
func (engine *Engine) Pattern() model.BreathPattern { return engine.pattern }

// PhaseElapsed returns the time spent in the current phase.
func (engine *Engine) PhaseElapsed() time.Duration {
	return engine.elapsed
}

// PhaseRemaining returns the time left in the current phase.
func (engine *Engine) PhaseRemaining() time.Duration {
	return engine.pattern.Duration(engine.phase) - engine.elapsed
}

func (engine *Engine) notify(event Event) {
	for _, observer := range engine.observers {
		observer(event)
	}
}
