package animation

import "time"

// DefaultConfig returns defaults tuned for a 30fps circle.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 33 * time.Millisecond,
		MinScale:      0.6,
		MaxScale:      1.0,
		GlowPulse:     0.1,
	}
}
