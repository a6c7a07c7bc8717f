package device

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/model"
	"syncbreath/internal/core/session"
)

func TestCommandEncoding(t *testing.T) {
	tests := []struct {
		name    string
		command Command
		want    []byte
	}{
		{"start", BreathingStart(), []byte{0x01}},
		{"stop", BreathingStop(), []byte{0x02}},
		{"inhale", ForPhase(model.PhaseInhale), []byte{0x03}},
		{"hold1", ForPhase(model.PhaseHold1), []byte{0x04}},
		{"hold2", ForPhase(model.PhaseHold2), []byte{0x04}},
		{"exhale", ForPhase(model.PhaseExhale), []byte{0x05}},
		{"motor", MotorIntensity(0.75), []byte{0x06, 75}},
		{"pump", PumpIntensity(1), []byte{0x07, 100}},
		{"clamped low", MotorIntensity(-2), []byte{0x06, 0}},
		{"clamped high", PumpIntensity(3), []byte{0x07, 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.command.Encode())
		})
	}
}

func TestDecode(t *testing.T) {
	command, err := Decode([]byte{0x06, 42})
	require.NoError(t, err)
	assert.Equal(t, Command{Op: OpMotorIntensity, Percent: 42}, command)
	assert.Equal(t, "SET_MOTOR_INTENSITY(42%)", command.String())

	command, err = Decode([]byte{0x05})
	require.NoError(t, err)
	assert.Equal(t, OpBreathingExhale, command.Op)

	for _, frame := range [][]byte{nil, {0x00}, {0x08}, {0x03, 0x01}, {0x07}} {
		_, err := Decode(frame)
		assert.ErrorIs(t, err, ErrUnknownCommand, "frame %x", frame)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("link lost") }

func TestDispatcherSendsPhaseCommands(t *testing.T) {
	var buf bytes.Buffer
	dispatcher := NewDispatcher(NewWriterLink(&buf), Intensity{Motor: 0.5, Pump: 0.2}, nil)

	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventStarted, Phase: model.PhaseInhale}})
	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventProgress, Phase: model.PhaseInhale}})
	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventPhaseChanged, Phase: model.PhaseHold1}})
	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventPhaseChanged, Phase: model.PhaseExhale}})
	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventPaused, Phase: model.PhaseExhale}})

	assert.Equal(t, []byte{0x06, 50, 0x07, 20, 0x01, 0x03, 0x04, 0x05, 0x02}, buf.Bytes())
}

func TestDispatcherDropsFailedWrites(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := NewDispatcher(NewWriterLink(failingWriter{}), DefaultIntensity(), zap.New(core))

	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventPhaseChanged, Phase: model.PhaseExhale}})
	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventPhaseChanged, Phase: model.PhaseInhale}})

	assert.Equal(t, 2, logs.FilterMessage("device write failed").Len())
}

func TestDispatcherSkipsClosedLink(t *testing.T) {
	var buf bytes.Buffer
	link := NewWriterLink(&buf)
	require.NoError(t, link.Close())
	require.NoError(t, link.Close())

	dispatcher := NewDispatcher(link, DefaultIntensity(), nil)
	dispatcher.Handle(session.Event{Event: breath.Event{Type: breath.EventPhaseChanged, Phase: model.PhaseExhale}})

	assert.Zero(t, buf.Len())
	assert.ErrorIs(t, link.Write([]byte{0x01}), ErrNotConnected)
}

func TestDispatcherRunStopsOnClose(t *testing.T) {
	var buf bytes.Buffer
	dispatcher := NewDispatcher(NewWriterLink(&buf), DefaultIntensity(), nil)
	events := make(chan session.Event, 2)
	events <- session.Event{Event: breath.Event{Type: breath.EventPhaseChanged, Phase: model.PhaseHold2}}
	close(events)

	dispatcher.Run(context.Background(), events)
	assert.Equal(t, []byte{0x04}, buf.Bytes())
}

func TestNetLinkWritesToBridge(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	link, err := DialNet(ctx, listener.Addr().String(), time.Second)
	require.NoError(t, err)
	assert.True(t, link.Connected())
	require.NoError(t, link.Write(MotorIntensity(0.3).Encode()))
	require.NoError(t, link.Close())
	assert.ErrorIs(t, link.Write([]byte{0x01}), ErrNotConnected)

	select {
	case data := <-received:
		assert.Equal(t, []byte{0x06, 30}, data)
	case <-time.After(time.Second):
		t.Fatal("bridge did not receive frame")
	}
}
