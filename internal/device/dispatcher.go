package device

import (
	"context"

	"go.uber.org/zap"

	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/session"
)

// Intensity holds the actuator levels sent when a session starts, 0..1.
type Intensity struct {
	Motor float64
	Pump  float64
}

// DefaultIntensity matches the wearable's factory levels.
func DefaultIntensity() Intensity {
	return Intensity{Motor: 1.0, Pump: 0.8}
}

// Dispatcher turns session events into device commands. Writes are
// fire-and-forget: a failed or skipped write is logged and dropped.
type Dispatcher struct {
	link      Link
	logger    *zap.Logger
	intensity Intensity
}

// NewDispatcher creates a dispatcher writing to link.
func NewDispatcher(link Link, intensity Intensity, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		link:      link,
		logger:    logger.Named("device"),
		intensity: intensity,
	}
}

// Run handles events until the channel closes or ctx is done.
func (dispatcher *Dispatcher) Run(ctx context.Context, events <-chan session.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			dispatcher.Handle(event)
		}
	}
}

// Handle sends the commands for a single event.
func (dispatcher *Dispatcher) Handle(event session.Event) {
	for _, command := range Commands(event.Event, dispatcher.intensity) {
		dispatcher.send(command)
	}
}

// Commands maps an engine event to the frames the device expects.
func Commands(event breath.Event, intensity Intensity) []Command {
	switch event.Type {
	case breath.EventStarted:
		return []Command{
			MotorIntensity(intensity.Motor),
			PumpIntensity(intensity.Pump),
			BreathingStart(),
			ForPhase(event.Phase),
		}
	case breath.EventPhaseChanged, breath.EventPatternChanged:
		return []Command{ForPhase(event.Phase)}
	case breath.EventPaused:
		// A completed session pauses its engine first, so this also
		// covers session.EventCompleted.
		return []Command{BreathingStop()}
	default:
		return nil
	}
}

func (dispatcher *Dispatcher) send(command Command) {
	if dispatcher.link == nil || !dispatcher.link.Connected() {
		dispatcher.logger.Debug("cannot send command: device not connected", zap.Stringer("command", command))
		return
	}
	if err := dispatcher.link.Write(command.Encode()); err != nil {
		dispatcher.logger.Warn("device write failed", zap.Stringer("command", command), zap.Error(err))
		return
	}
	dispatcher.logger.Debug("device command sent", zap.Stringer("command", command))
}
