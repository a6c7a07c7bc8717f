package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.cbor")
	journal, err := Open(path)
	require.NoError(t, err)

	started := time.Date(2025, 1, 10, 14, 0, 0, 123, time.UTC)
	first := NewRecord("bamboo_grove", "4-4-4-0", started)
	first.EndedAt = started.Add(15 * time.Minute)
	first.Cycles = 75
	first.Completed = true
	second := NewRecord("starry_night", "4-7-8-0", started.Add(time.Hour))
	second.EndedAt = second.StartedAt.Add(38 * time.Second)
	second.Cycles = 2

	require.NoError(t, journal.Append(first))
	require.NoError(t, journal.Append(second))
	require.NoError(t, journal.Close())
	assert.ErrorIs(t, journal.Append(first), os.ErrClosed)

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.True(t, records[0].StartedAt.Equal(started))
	assert.Equal(t, 15*time.Minute, records[0].Duration())
	assert.True(t, records[0].Completed)
	assert.Equal(t, "starry_night", records[1].Mode)
	assert.Equal(t, uint64(2), records[1].Cycles)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestReadAllMissingFile(t *testing.T) {
	records, err := ReadAll(filepath.Join(t.TempDir(), "missing.cbor"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadAllCorruptTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.cbor")
	journal, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, journal.Append(NewRecord("zen_moment", "5-5-5-0", time.Now())))
	require.NoError(t, journal.Close())

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = file.Write([]byte{0xa7, 0x01})
	require.NoError(t, err)
	require.NoError(t, file.Close())

	records, err := ReadAll(path)
	assert.Error(t, err)
	assert.Len(t, records, 1)
}
