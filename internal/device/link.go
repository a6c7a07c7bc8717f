package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// ErrNotConnected indicates a write to a link without a peer.
var ErrNotConnected = errors.New("device not connected")

// Link delivers encoded frames to the wearable.
type Link interface {
	Write(frame []byte) error
	Connected() bool
	Close() error
}

// WriterLink writes frames to a stream such as a serial port device file.
type WriterLink struct {
	mu     sync.Mutex
	writer io.Writer
	closer io.Closer
	closed bool
}

// NewWriterLink wraps writer. If writer is also an io.Closer it is closed
// with the link.
func NewWriterLink(writer io.Writer) *WriterLink {
	link := &WriterLink{writer: writer}
	if closer, ok := writer.(io.Closer); ok {
		link.closer = closer
	}
	return link
}

// Write sends one frame.
func (link *WriterLink) Write(frame []byte) error {
	link.mu.Lock()
	defer link.mu.Unlock()
	if link.closed || link.writer == nil {
		return ErrNotConnected
	}
	if _, err := link.writer.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Connected reports whether writes can be attempted.
func (link *WriterLink) Connected() bool {
	link.mu.Lock()
	defer link.mu.Unlock()
	return !link.closed && link.writer != nil
}

// Close releases the underlying stream. It is safe to call more than once.
func (link *WriterLink) Close() error {
	link.mu.Lock()
	defer link.mu.Unlock()
	if link.closed {
		return nil
	}
	link.closed = true
	if link.closer != nil {
		return link.closer.Close()
	}
	return nil
}

// NetLink sends frames to a BLE bridge over TCP.
type NetLink struct {
	WriterLink
	conn         net.Conn
	writeTimeout time.Duration
}

// DialNet connects to a bridge at address.
func DialNet(ctx context.Context, address string, writeTimeout time.Duration) (*NetLink, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial device bridge %s: %w", address, err)
	}
	if writeTimeout <= 0 {
		writeTimeout = time.Second
	}
	return &NetLink{
		WriterLink:   WriterLink{writer: conn, closer: conn},
		conn:         conn,
		writeTimeout: writeTimeout,
	}, nil
}

// Write sends one frame with a write deadline.
func (link *NetLink) Write(frame []byte) error {
	if !link.Connected() {
		return ErrNotConnected
	}
	if err := link.conn.SetWriteDeadline(time.Now().Add(link.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return link.WriterLink.Write(frame)
}

// RemoteAddr returns the bridge address.
func (link *NetLink) RemoteAddr() string {
	return link.conn.RemoteAddr().String()
}
