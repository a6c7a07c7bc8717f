package animation

import (
	"math"
	"time"

	"syncbreath/internal/core/model"
)

// Config contains animation timing and geometry values.
type Config struct {
	FrameInterval time.Duration
	MinScale      float64
	MaxScale      float64
	// GlowPulse is how far the glow breathes during holds.
	GlowPulse float64
}

// Frame is everything a renderer needs to draw one frame.
type Frame struct {
	Phase     model.Phase
	Label     string
	Progress  float64
	Scale     float64
	Glow      float64
	Cycle     uint64
	Remaining time.Duration
	Running   bool
}

// Scale returns the circle size for a phase position. The circle grows
// during inhale, stays full during the first hold, shrinks during exhale
// and stays small during the second hold.
func (config Config) Scale(phase model.Phase, progress float64) float64 {
	progress = clamp01(progress)
	span := config.MaxScale - config.MinScale
	switch phase {
	case model.PhaseInhale:
		return config.MinScale + span*easeInOut(progress)
	case model.PhaseHold1:
		return config.MaxScale
	case model.PhaseExhale:
		return config.MaxScale - span*easeInOut(progress)
	default:
		return config.MinScale
	}
}

// Glow returns the halo intensity in [0, 1]. Holds pulse gently so the
// visual never looks frozen.
func (config Config) Glow(phase model.Phase, progress float64) float64 {
	progress = clamp01(progress)
	switch phase {
	case model.PhaseInhale:
		return 0.4 + 0.6*progress
	case model.PhaseExhale:
		return 1 - 0.6*progress
	default:
		base := 1.0
		if phase == model.PhaseHold2 {
			base = 0.4
		}
		pulse := config.GlowPulse * math.Sin(progress*2*math.Pi)
		return clamp01(base - config.GlowPulse + pulse)
	}
}

func easeInOut(t float64) float64 {
	return 0.5 - 0.5*math.Cos(math.Pi*t)
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
