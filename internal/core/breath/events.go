package breath

import "syncbreath/internal/core/model"

// EventType defines the type of engine notification.
type EventType string

const (
	EventStarted        EventType = "started"
	EventPaused         EventType = "paused"
	EventPhaseChanged   EventType = "phase_changed"
	EventProgress       EventType = "progress"
	EventPatternChanged EventType = "pattern_changed"
)

// Event is a state change reported to engine observers.
type Event struct {
	Type     EventType
	Phase    model.Phase
	Progress float64
	Cycle    uint64
	Pattern  model.BreathPattern
}

// Observer receives engine events synchronously.
type Observer func(Event)
