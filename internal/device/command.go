// Package device encodes breathing commands for the wearable and delivers
// them over a Link.
//
// Every frame starts with a one-byte opcode. The two intensity commands
// carry one extra byte: the intensity as a whole percentage.
package device

import (
	"errors"
	"fmt"

	"syncbreath/internal/core/model"
)

// ErrUnknownCommand indicates a frame that does not decode to a command.
var ErrUnknownCommand = errors.New("unknown device command")

// Opcode is the first byte of every command frame.
type Opcode byte

const (
	OpBreathingStart  Opcode = 0x01
	OpBreathingStop   Opcode = 0x02
	OpBreathingInhale Opcode = 0x03
	OpBreathingHold   Opcode = 0x04
	OpBreathingExhale Opcode = 0x05
	OpMotorIntensity  Opcode = 0x06
	OpPumpIntensity   Opcode = 0x07
)

// String returns a readable opcode name.
func (op Opcode) String() string {
	switch op {
	case OpBreathingStart:
		return "BREATHING_START"
	case OpBreathingStop:
		return "BREATHING_STOP"
	case OpBreathingInhale:
		return "BREATHING_INHALE"
	case OpBreathingHold:
		return "BREATHING_HOLD"
	case OpBreathingExhale:
		return "BREATHING_EXHALE"
	case OpMotorIntensity:
		return "SET_MOTOR_INTENSITY"
	case OpPumpIntensity:
		return "SET_PUMP_INTENSITY"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", byte(op))
	}
}

func (op Opcode) hasPayload() bool {
	return op == OpMotorIntensity || op == OpPumpIntensity
}

// Command is a single write to the device.
type Command struct {
	Op Opcode
	// Percent is the payload of intensity commands, 0..100.
	Percent uint8
}

func BreathingStart() Command { return Command{Op: OpBreathingStart} }
func BreathingStop() Command  { return Command{Op: OpBreathingStop} }

// MotorIntensity builds a vibration intensity command; intensity is 0..1.
func MotorIntensity(intensity float64) Command {
	return Command{Op: OpMotorIntensity, Percent: toPercent(intensity)}
}

// PumpIntensity builds an air pump intensity command; intensity is 0..1.
func PumpIntensity(intensity float64) Command {
	return Command{Op: OpPumpIntensity, Percent: toPercent(intensity)}
}

// ForPhase returns the command announcing phase. Both holds share one opcode.
func ForPhase(phase model.Phase) Command {
	switch phase {
	case model.PhaseInhale:
		return Command{Op: OpBreathingInhale}
	case model.PhaseExhale:
		return Command{Op: OpBreathingExhale}
	default:
		return Command{Op: OpBreathingHold}
	}
}

// Encode returns the wire frame.
func (command Command) Encode() []byte {
	if command.Op.hasPayload() {
		return []byte{byte(command.Op), command.Percent}
	}
	return []byte{byte(command.Op)}
}

// String formats the command for logs.
func (command Command) String() string {
	if command.Op.hasPayload() {
		return fmt.Sprintf("%s(%d%%)", command.Op, command.Percent)
	}
	return command.Op.String()
}

// Decode parses a wire frame.
func Decode(frame []byte) (Command, error) {
	if len(frame) == 0 {
		return Command{}, fmt.Errorf("%w: empty frame", ErrUnknownCommand)
	}
	op := Opcode(frame[0])
	if op < OpBreathingStart || op > OpPumpIntensity {
		return Command{}, fmt.Errorf("%w: opcode 0x%02x", ErrUnknownCommand, frame[0])
	}
	want := 1
	if op.hasPayload() {
		want = 2
	}
	if len(frame) != want {
		return Command{}, fmt.Errorf("%w: %s frame has %d bytes, want %d", ErrUnknownCommand, op, len(frame), want)
	}
	command := Command{Op: op}
	if op.hasPayload() {
		command.Percent = frame[1]
	}
	return command, nil
}

func toPercent(intensity float64) uint8 {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return uint8(intensity * 100)
}
