package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"syncbreath/internal/core/model"
	"syncbreath/internal/device"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <command> [intensity]",
	Short: "Print the device frame for a command",
	Long: `Print the bytes sent to the wearable for a command, as hex.

Commands: start, stop, inhale, hold, exhale, motor <0..1>, pump <0..1>.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Describe a device frame given as hex",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	command, err := parseCommand(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hex.EncodeToString(command.Encode()), command)
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	frame, err := hex.DecodeString(strings.TrimPrefix(strings.ReplaceAll(args[0], " ", ""), "0x"))
	if err != nil {
		return fmt.Errorf("parse frame: %w", err)
	}
	command, err := device.Decode(frame)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), command)
	return nil
}

func parseCommand(args []string) (device.Command, error) {
	name := strings.ToLower(args[0])
	switch name {
	case "start", "stop", "inhale", "hold", "exhale":
		if len(args) != 1 {
			return device.Command{}, fmt.Errorf("%s takes no intensity", name)
		}
	case "motor", "pump":
		if len(args) != 2 {
			return device.Command{}, fmt.Errorf("%s needs an intensity between 0 and 1", name)
		}
	default:
		return device.Command{}, fmt.Errorf("%w: %s", device.ErrUnknownCommand, name)
	}

	switch name {
	case "start":
		return device.BreathingStart(), nil
	case "stop":
		return device.BreathingStop(), nil
	case "inhale":
		return device.ForPhase(model.PhaseInhale), nil
	case "hold":
		return device.ForPhase(model.PhaseHold1), nil
	case "exhale":
		return device.ForPhase(model.PhaseExhale), nil
	}

	intensity, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return device.Command{}, fmt.Errorf("parse intensity %q: %w", args[1], err)
	}
	if name == "motor" {
		return device.MotorIntensity(intensity), nil
	}
	return device.PumpIntensity(intensity), nil
}
