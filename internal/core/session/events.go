package session

import (
	"time"

	"syncbreath/internal/core/breath"
)

// EventCompleted is emitted once the configured session length is reached.
const EventCompleted breath.EventType = "completed"

// Event is an engine notification stamped by the controller.
type Event struct {
	breath.Event
	At      time.Time
	Elapsed time.Duration
}

// Transitions lists every event type except progress updates, for
// subscribers that only react to state changes.
func Transitions() []breath.EventType {
	return []breath.EventType{
		breath.EventStarted,
		breath.EventPaused,
		breath.EventPhaseChanged,
		breath.EventPatternChanged,
		EventCompleted,
	}
}
