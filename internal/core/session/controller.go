package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/model"
)

// DefaultTickInterval keeps progress smooth enough for per-frame rendering.
const DefaultTickInterval = 100 * time.Millisecond

// Config contains runtime options for a Controller.
type Config struct {
	TickInterval time.Duration
	// Length ends the session automatically; zero runs until paused.
	Length time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

// Snapshot is a consistent read of the session for renderers.
type Snapshot struct {
	Phase          model.Phase
	Progress       float64
	Cycle          uint64
	Running        bool
	Pattern        model.BreathPattern
	PhaseRemaining time.Duration
	Elapsed        time.Duration
	Length         time.Duration
}

// Controller owns a breath engine and drives it from a ticker. It is the
// single writer the engine requires: every engine call happens under mu.
type Controller struct {
	mu       sync.Mutex
	engine   *breath.Engine
	options  Config
	logger   *zap.Logger
	events   []subscriber
	stopCh   chan struct{}
	doneCh   chan struct{}
	ticking  bool
	lastTick time.Time
	elapsed  time.Duration
}

// New creates a paused controller for pattern.
func New(pattern model.BreathPattern, options Config) (*Controller, error) {
	if options.TickInterval <= 0 {
		options.TickInterval = DefaultTickInterval
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	engine, err := breath.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	controller := &Controller{
		engine:  engine,
		options: options,
		logger:  options.Logger.Named("session"),
	}
	engine.Observe(controller.forwardLocked)
	return controller, nil
}

type subscriber struct {
	ch    chan Event
	types []breath.EventType
}

func (sub subscriber) wants(kind breath.EventType) bool {
	if len(sub.types) == 0 {
		return true
	}
	for _, t := range sub.types {
		if t == kind {
			return true
		}
	}
	return false
}

// Subscribe registers a new observer channel. With types, only events of
// those types are delivered. Sends never block; a full channel drops the
// event.
func (controller *Controller) Subscribe(buffer int, types ...breath.EventType) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	controller.events = append(controller.events, subscriber{ch: ch, types: types})
	controller.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (controller *Controller) Unsubscribe(events <-chan Event) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	for i, sub := range controller.events {
		if sub.ch == events {
			controller.events = append(controller.events[:i], controller.events[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

// Start begins a new cycle from the first phase and launches the ticker.
func (controller *Controller) Start() {
	controller.mu.Lock()
	if controller.engine.Running() {
		controller.mu.Unlock()
		return
	}
	controller.lastTick = controller.options.Now()
	controller.elapsed = 0
	controller.engine.Start()

	controller.stopCh = make(chan struct{})
	controller.doneCh = make(chan struct{})
	controller.ticking = true
	stopCh, doneCh := controller.stopCh, controller.doneCh
	controller.mu.Unlock()

	controller.logger.Info("session started",
		zap.Stringer("pattern", controller.Pattern()),
		zap.Duration("length", controller.options.Length))

	go controller.run(stopCh, doneCh)
}

// Pause stops the ticker and keeps the engine state for display.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	controller.engine.Pause()
	doneCh := controller.stopLoopLocked()
	controller.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
}

// Toggle pauses a running session or starts a paused one.
func (controller *Controller) Toggle() {
	controller.mu.Lock()
	running := controller.engine.Running()
	controller.mu.Unlock()

	if running {
		controller.Pause()
	} else {
		controller.Start()
	}
}

// SetPattern swaps the pattern and restarts the cycle.
func (controller *Controller) SetPattern(pattern model.BreathPattern) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if err := controller.engine.SetPattern(pattern); err != nil {
		return err
	}
	controller.logger.Debug("pattern changed", zap.Stringer("pattern", pattern))
	return nil
}

// SetLength changes the session length; it applies to the running session.
func (controller *Controller) SetLength(length time.Duration) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if length < 0 {
		length = 0
	}
	controller.options.Length = length
}

// Stop pauses the session and closes all observers.
func (controller *Controller) Stop() {
	controller.Pause()

	controller.mu.Lock()
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, sub := range events {
		close(sub.ch)
	}
}

// Snapshot returns the current state.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return Snapshot{
		Phase:          controller.engine.Phase(),
		Progress:       controller.engine.Progress(),
		Cycle:          controller.engine.CycleCount(),
		Running:        controller.engine.Running(),
		Pattern:        controller.engine.Pattern(),
		PhaseRemaining: controller.engine.PhaseRemaining(),
		Elapsed:        controller.elapsed,
		Length:         controller.options.Length,
	}
}

// Pattern returns the active pattern.
func (controller *Controller) Pattern() model.BreathPattern {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.engine.Pattern()
}

func (controller *Controller) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(controller.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			controller.advance(controller.options.Now())
		}
	}
}

// advance feeds the wall time since the previous tick into the engine.
// Measuring instead of assuming TickInterval keeps the cycle aligned with
// wall time when ticks are late or the process was suspended.
func (controller *Controller) advance(now time.Time) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.engine.Running() {
		return
	}

	delta := now.Sub(controller.lastTick)
	controller.lastTick = now
	if delta <= 0 {
		return
	}

	length := controller.options.Length
	if length > 0 && controller.elapsed+delta >= length {
		delta = length - controller.elapsed
		controller.elapsed = length
		controller.engine.Tick(delta)
		controller.completeLocked(now)
		return
	}

	controller.elapsed += delta
	controller.engine.Tick(delta)
}

func (controller *Controller) completeLocked(now time.Time) {
	cycles := controller.engine.CycleCount()
	controller.engine.Pause()
	controller.stopLoopLocked()

	controller.emitLocked(Event{
		Event: breath.Event{
			Type:    EventCompleted,
			Phase:   controller.engine.Phase(),
			Cycle:   cycles,
			Pattern: controller.engine.Pattern(),
		},
		At:      now,
		Elapsed: controller.elapsed,
	})
	controller.logger.Info("session completed",
		zap.Uint64("cycles", cycles),
		zap.Duration("elapsed", controller.elapsed))
}

// stopLoopLocked signals the ticker goroutine and returns its done channel.
func (controller *Controller) stopLoopLocked() chan struct{} {
	if !controller.ticking {
		return nil
	}
	controller.ticking = false
	close(controller.stopCh)
	return controller.doneCh
}

func (controller *Controller) forwardLocked(event breath.Event) {
	if event.Type == breath.EventPhaseChanged {
		controller.logger.Debug("phase changed",
			zap.Stringer("phase", event.Phase),
			zap.Uint64("cycle", event.Cycle))
	}
	controller.emitLocked(Event{
		Event:   event,
		At:      controller.options.Now(),
		Elapsed: controller.elapsed,
	})
}

func (controller *Controller) emitLocked(event Event) {
	for _, sub := range controller.events {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			controller.logger.Debug("subscriber full, event dropped", zap.String("type", string(event.Type)))
		}
	}
}
