package device

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/session"
)

const (
	dialTimeout  = 5 * time.Second
	writeTimeout = time.Second
	// eventBuffer absorbs transitions while a write waits on its deadline.
	eventBuffer = 64
)

// EventSource is the part of the session controller a Runner listens to.
type EventSource interface {
	Subscribe(buffer int, types ...breath.EventType) <-chan session.Event
	Unsubscribe(events <-chan session.Event)
}

// DialFunc opens a link to address.
type DialFunc func(ctx context.Context, address string) (Link, error)

// Runner keeps one dispatcher connected to the wearable bridge and
// reconnects when the address or intensity changes. A failed dial is
// retried on the next Apply.
type Runner struct {
	ctx    context.Context
	source EventSource
	dial   DialFunc
	logger *zap.Logger

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
	address    string
	intensity  Intensity
}

// NewRunner creates a runner bound to ctx. A nil dial uses DialNet.
func NewRunner(ctx context.Context, source EventSource, dial DialFunc, logger *zap.Logger) *Runner {
	if dial == nil {
		dial = func(ctx context.Context, address string) (Link, error) {
			return DialNet(ctx, address, writeTimeout)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{ctx: ctx, source: source, dial: dial, logger: logger.Named("device")}
}

// Apply connects to address, or disconnects when address is empty.
func (runner *Runner) Apply(address string, intensity Intensity) {
	runner.mu.Lock()
	defer runner.mu.Unlock()

	if address == runner.address && intensity == runner.intensity && (runner.cancel != nil || address == "") {
		return
	}
	runner.stopLocked()
	runner.address = address
	runner.intensity = intensity
	if address == "" {
		return
	}

	ctx, cancel := context.WithCancel(runner.ctx)
	runner.cancel = cancel
	runner.generation++
	generation := runner.generation
	events := runner.source.Subscribe(eventBuffer, session.Transitions()...)

	go func() {
		defer runner.source.Unsubscribe(events)
		dialCtx, dialCancel := context.WithTimeout(ctx, dialTimeout)
		link, err := runner.dial(dialCtx, address)
		dialCancel()
		if err != nil {
			runner.logger.Warn("connect device", zap.String("address", address), zap.Error(err))
			runner.forget(generation)
			return
		}
		defer link.Close()
		runner.logger.Info("device connected", zap.String("address", address))
		NewDispatcher(link, intensity, runner.logger).Run(ctx, events)
	}()
}

// Stop disconnects.
func (runner *Runner) Stop() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.stopLocked()
	runner.address = ""
}

// forget clears a failed connection so the next Apply dials again.
func (runner *Runner) forget(generation uint64) {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if generation != runner.generation {
		return
	}
	runner.stopLocked()
	runner.address = ""
}

func (runner *Runner) stopLocked() {
	if runner.cancel != nil {
		runner.cancel()
		runner.cancel = nil
	}
}
