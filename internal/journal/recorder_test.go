package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/model"
	"syncbreath/internal/core/session"
)

func sessionEvent(kind breath.EventType, at time.Time, cycle uint64) session.Event {
	return session.Event{
		Event: breath.Event{
			Type:    kind,
			Cycle:   cycle,
			Pattern: model.MustBreathPattern(4, 7, 8, 0),
		},
		At: at,
	}
}

func TestRecorderWritesPausedAndCompletedSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.cbor")
	journal, err := Open(path)
	require.NoError(t, err)

	recorder := NewRecorder(journal, func() string { return "starry_night" }, nil)
	start := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

	events := make(chan session.Event, 8)
	events <- sessionEvent(breath.EventStarted, start, 0)
	events <- sessionEvent(breath.EventPhaseChanged, start.Add(4*time.Second), 0)
	events <- sessionEvent(breath.EventPaused, start.Add(40*time.Second), 2)
	events <- sessionEvent(breath.EventStarted, start.Add(time.Minute), 0)
	events <- sessionEvent(breath.EventPaused, start.Add(16*time.Minute), 47)
	events <- sessionEvent(session.EventCompleted, start.Add(16*time.Minute), 47)
	close(events)

	recorder.Run(context.Background(), events)
	require.NoError(t, journal.Close())

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "starry_night", records[0].Mode)
	assert.Equal(t, "4-7-8-0", records[0].Pattern)
	assert.Equal(t, 40*time.Second, records[0].Duration())
	assert.Equal(t, uint64(2), records[0].Cycles)
	assert.False(t, records[0].Completed)

	assert.Equal(t, 15*time.Minute, records[1].Duration())
	assert.Equal(t, uint64(47), records[1].Cycles)
	assert.True(t, records[1].Completed)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestRecorderFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.cbor")
	journal, err := Open(path)
	require.NoError(t, err)

	recorder := NewRecorder(journal, func() string { return "zen_moment" }, nil)
	start := time.Now()
	recorder.Handle(sessionEvent(breath.EventPaused, start, 3))
	recorder.Handle(sessionEvent(breath.EventStarted, start, 0))
	recorder.Handle(sessionEvent(breath.EventPaused, start.Add(time.Minute), 4))

	events := make(chan session.Event)
	close(events)
	recorder.Run(context.Background(), events)
	require.NoError(t, journal.Close())

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(4), records[0].Cycles)
}
