// Package journal keeps an append-only history of finished sessions.
//
// Records are CBOR encoded back to back in a single file.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("journal: cbor encoder mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyQuiet,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("journal: cbor decoder mode: %v", err))
	}
}

// Record describes one breathing session.
type Record struct {
	ID        string    `cbor:"1,keyasint"`
	Mode      string    `cbor:"2,keyasint"`
	Pattern   string    `cbor:"3,keyasint"`
	StartedAt time.Time `cbor:"4,keyasint"`
	EndedAt   time.Time `cbor:"5,keyasint"`
	Cycles    uint64    `cbor:"6,keyasint"`
	Completed bool      `cbor:"7,keyasint"`
}

// NewRecord starts a record with a fresh id.
func NewRecord(mode, pattern string, startedAt time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Mode:      mode,
		Pattern:   pattern,
		StartedAt: startedAt,
	}
}

// Duration returns how long the session lasted.
func (record Record) Duration() time.Duration {
	if record.EndedAt.Before(record.StartedAt) {
		return 0
	}
	return record.EndedAt.Sub(record.StartedAt)
}

// Journal appends records to a file. It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// Open opens path for appending, creating it if needed.
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{file: file, encoder: encMode.NewEncoder(file)}, nil
}

// Append writes one record.
func (journal *Journal) Append(record Record) error {
	journal.mu.Lock()
	defer journal.mu.Unlock()
	if journal.closed {
		return os.ErrClosed
	}
	if err := journal.encoder.Encode(record); err != nil {
		return fmt.Errorf("append journal record: %w", err)
	}
	return nil
}

// Close closes the file. Later appends fail with os.ErrClosed.
func (journal *Journal) Close() error {
	journal.mu.Lock()
	defer journal.mu.Unlock()
	if journal.closed {
		return nil
	}
	journal.closed = true
	return journal.file.Close()
}

// ReadAll decodes every record in path. A missing file yields no records.
func ReadAll(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads records until EOF.
func Decode(reader io.Reader) ([]Record, error) {
	decoder := decMode.NewDecoder(reader)
	var records []Record
	for {
		var record Record
		if err := decoder.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("decode journal record %d: %w", len(records), err)
		}
		records = append(records, record)
	}
}
