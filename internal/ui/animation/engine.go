package animation

import (
	"context"
	"sync"
	"time"

	"syncbreath/internal/core/session"
)

// Source provides session state once per frame.
type Source interface {
	Snapshot() session.Snapshot
}

// Engine polls a Source and turns each snapshot into a Frame.
type Engine struct {
	mu     sync.Mutex
	config Config
	update func(Frame)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new animation engine delivering frames to update.
func New(config Config, update func(Frame)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Engine{
		config: config,
		update: update,
	}
}

// FrameFor computes the frame for a snapshot.
func (engine *Engine) FrameFor(snapshot session.Snapshot) Frame {
	return Frame{
		Phase:     snapshot.Phase,
		Label:     snapshot.Phase.Label(),
		Progress:  snapshot.Progress,
		Scale:     engine.config.Scale(snapshot.Phase, snapshot.Progress),
		Glow:      engine.config.Glow(snapshot.Phase, snapshot.Progress),
		Cycle:     snapshot.Cycle,
		Remaining: snapshot.PhaseRemaining,
		Running:   snapshot.Running,
	}
}

// Start begins rendering frames from source, replacing any previous run.
func (engine *Engine) Start(ctx context.Context, source Source) {
	engine.Stop()

	engine.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(engine.config.FrameInterval)
		defer ticker.Stop()

		engine.update(engine.FrameFor(source.Snapshot()))
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				engine.update(engine.FrameFor(source.Snapshot()))
			}
		}
	}()
}

// Stop terminates the frame loop and waits for it to exit.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
