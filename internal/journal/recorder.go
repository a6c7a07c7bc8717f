package journal

import (
	"context"

	"go.uber.org/zap"

	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/session"
)

// Recorder turns session events into journal records. A session is
// recorded when it is paused; a completion right after the pause marks it
// completed.
type Recorder struct {
	journal *Journal
	mode    func() string
	logger  *zap.Logger

	current *Record
	pending *Record
}

// NewRecorder writes to journal, naming each record with mode().
func NewRecorder(journal *Journal, mode func() string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		journal: journal,
		mode:    mode,
		logger:  logger.Named("journal"),
	}
}

// Run consumes events until the channel closes or ctx is done, then flushes
// any session still waiting to be written.
func (recorder *Recorder) Run(ctx context.Context, events <-chan session.Event) {
	defer recorder.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			recorder.Handle(event)
		}
	}
}

// Handle applies one event.
func (recorder *Recorder) Handle(event session.Event) {
	switch event.Type {
	case breath.EventStarted:
		recorder.Flush()
		record := NewRecord(recorder.mode(), event.Pattern.String(), event.At)
		recorder.current = &record
	case breath.EventPaused:
		recorder.Flush()
		if recorder.current == nil {
			return
		}
		recorder.current.EndedAt = event.At
		recorder.current.Cycles = event.Cycle
		recorder.pending, recorder.current = recorder.current, nil
	case session.EventCompleted:
		if recorder.pending == nil {
			return
		}
		recorder.pending.Completed = true
		recorder.pending.Cycles = event.Cycle
		recorder.Flush()
	}
}

// Flush writes the paused session, if any.
func (recorder *Recorder) Flush() {
	if recorder.pending == nil {
		return
	}
	record := *recorder.pending
	recorder.pending = nil
	if err := recorder.journal.Append(record); err != nil {
		recorder.logger.Warn("append session record", zap.Error(err))
		return
	}
	recorder.logger.Debug("session recorded",
		zap.String("id", record.ID),
		zap.Uint64("cycles", record.Cycles),
		zap.Bool("completed", record.Completed))
}
