package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPattern indicates a pattern with no positive phase duration.
var ErrInvalidPattern = errors.New("invalid breath pattern")

// Phase is one stage of a breathing cycle.
type Phase int

const (
	PhaseInhale Phase = iota
	PhaseHold1
	PhaseExhale
	PhaseHold2
)

// phaseOrder is the fixed cyclic order of a breathing cycle.
var phaseOrder = [...]Phase{PhaseInhale, PhaseHold1, PhaseExhale, PhaseHold2}

// String returns the lowercase phase name.
func (phase Phase) String() string {
	switch phase {
	case PhaseInhale:
		return "inhale"
	case PhaseHold1:
		return "hold1"
	case PhaseExhale:
		return "exhale"
	case PhaseHold2:
		return "hold2"
	default:
		return "unknown"
	}
}

// Label returns the phase name shown to the user.
func (phase Phase) Label() string {
	switch phase {
	case PhaseInhale:
		return "Inhale"
	case PhaseHold1, PhaseHold2:
		return "Hold"
	case PhaseExhale:
		return "Exhale"
	default:
		return ""
	}
}

// IsHold reports whether the phase is one of the two hold phases.
func (phase Phase) IsHold() bool {
	return phase == PhaseHold1 || phase == PhaseHold2
}

// BreathPattern holds per-phase durations in whole seconds.
// Values are only obtainable through NewBreathPattern, so a
// BreathPattern always has at least one positive duration.
type BreathPattern struct {
	inhale int
	hold1  int
	exhale int
	hold2  int
}

// NewBreathPattern validates and builds a pattern.
func NewBreathPattern(inhale, hold1, exhale, hold2 int) (BreathPattern, error) {
	if inhale < 0 || hold1 < 0 || exhale < 0 || hold2 < 0 {
		return BreathPattern{}, fmt.Errorf("%w: negative duration %d-%d-%d-%d", ErrInvalidPattern, inhale, hold1, exhale, hold2)
	}
	if inhale == 0 && hold1 == 0 && exhale == 0 && hold2 == 0 {
		return BreathPattern{}, fmt.Errorf("%w: all durations are zero", ErrInvalidPattern)
	}
	return BreathPattern{inhale: inhale, hold1: hold1, exhale: exhale, hold2: hold2}, nil
}

// MustBreathPattern is NewBreathPattern for compile-time constants.
func MustBreathPattern(inhale, hold1, exhale, hold2 int) BreathPattern {
	pattern, err := NewBreathPattern(inhale, hold1, exhale, hold2)
	if err != nil {
		panic(err)
	}
	return pattern
}

func (pattern BreathPattern) Inhale() int { return pattern.inhale }
func (pattern BreathPattern) Hold1() int  { return pattern.hold1 }
func (pattern BreathPattern) Exhale() int { return pattern.exhale }
func (pattern BreathPattern) Hold2() int  { return pattern.hold2 }

// IsZero reports whether the pattern is the unset zero value.
func (pattern BreathPattern) IsZero() bool {
	return pattern == BreathPattern{}
}

// Duration returns the length of a phase; zero means the phase is skipped.
func (pattern BreathPattern) Duration(phase Phase) time.Duration {
	var seconds int
	switch phase {
	case PhaseInhale:
		seconds = pattern.inhale
	case PhaseHold1:
		seconds = pattern.hold1
	case PhaseExhale:
		seconds = pattern.exhale
	case PhaseHold2:
		seconds = pattern.hold2
	}
	return time.Duration(seconds) * time.Second
}

// CycleDuration returns the length of one full cycle.
func (pattern BreathPattern) CycleDuration() time.Duration {
	return time.Duration(pattern.inhale+pattern.hold1+pattern.exhale+pattern.hold2) * time.Second
}

// Phases returns the reachable phases in cycle order.
func (pattern BreathPattern) Phases() []Phase {
	phases := make([]Phase, 0, len(phaseOrder))
	for _, phase := range phaseOrder {
		if pattern.Duration(phase) > 0 {
			phases = append(phases, phase)
		}
	}
	return phases
}

// FirstPhase returns the phase a cycle starts with.
func (pattern BreathPattern) FirstPhase() Phase {
	for _, phase := range phaseOrder {
		if pattern.Duration(phase) > 0 {
			return phase
		}
	}
	return PhaseInhale
}

// Next returns the phase following current and whether the step wrapped
// back to the start of the cycle.
func (pattern BreathPattern) Next(current Phase) (Phase, bool) {
	index := int(current)
	for step := 1; step <= len(phaseOrder); step++ {
		candidate := (index + step) % len(phaseOrder)
		if pattern.Duration(phaseOrder[candidate]) > 0 {
			return phaseOrder[candidate], index+step >= len(phaseOrder)
		}
	}
	return current, true
}

// String formats the pattern as inhale-hold1-exhale-hold2.
func (pattern BreathPattern) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", pattern.inhale, pattern.hold1, pattern.exhale, pattern.hold2)
}
