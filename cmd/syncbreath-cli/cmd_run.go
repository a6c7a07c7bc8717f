package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/model"
	"syncbreath/internal/core/session"
	"syncbreath/internal/device"
	"syncbreath/internal/journal"
	"syncbreath/internal/storage"
	"syncbreath/internal/ui/preferences"
	"syncbreath/internal/ui/terminal"
	"syncbreath/resources"
)

var (
	runMode      string
	runPattern   string
	runLength    time.Duration
	runDevice    string
	runPlain     bool
	runNoHistory bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a breathing session",
	Long: `Run a breathing session in the terminal.

The mode, pattern and length default to the saved settings. With --device
the phase commands are also sent to a wearable bridge at host:port.`,
	Example: `  syncbreath-cli run --mode starry_night
  syncbreath-cli run --pattern 4-7-8 --length 5m --plain`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	runCmd.Flags().StringVarP(&runMode, "mode", "m", "", "Meditation mode id (see \"modes\")")
	runCmd.Flags().StringVarP(&runPattern, "pattern", "p", "", "Breathing pattern in seconds, inhale-hold-exhale[-hold]")
	runCmd.Flags().DurationVarP(&runLength, "length", "l", 0, "Session length, 0 runs until stopped")
	runCmd.Flags().StringVar(&runDevice, "device", "", "Wearable bridge address host:port")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "Print phase changes as lines instead of the animated view")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Do not record the session in the journal")
}

func runSession(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	settings, err := storage.LoadSettingsFile(path)
	if err != nil {
		logger.Warn("load settings, using defaults", zap.Error(err))
	}

	modes, err := resources.Modes()
	if err != nil {
		return err
	}
	modeID := settings.Mode
	if runMode != "" {
		modeID = model.ModeID(runMode)
	}
	mode, err := modes.Find(modeID)
	if err != nil {
		return err
	}

	pattern := settings.PatternFor(mode)
	if runPattern != "" {
		pattern, err = parsePatternFlag(runPattern)
		if err != nil {
			return err
		}
	}

	sessionLogger := logger
	if !runPlain {
		sessionLogger = fileLogger()
	}
	config := settings.SessionConfig(sessionLogger)
	if cmd.Flags().Changed("length") {
		config.Length = runLength
	}
	controller, err := session.New(pattern, config)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := runDevice
	if address == "" && settings.DeviceEnabled {
		address = settings.DeviceAddress
	}
	if address != "" {
		linkCtx, cancelLink := context.WithCancel(ctx)
		defer cancelLink()
		startDevice(linkCtx, controller, address, settings.DeviceIntensity(), sessionLogger)
	}

	recorded := startRecorder(controller, mode, sessionLogger)
	defer func() {
		controller.Stop()
		<-recorded
	}()

	if runPlain {
		return runPlainSession(ctx, cmd.OutOrStdout(), controller, mode)
	}
	return runTerminalSession(ctx, controller, mode)
}

func runTerminalSession(ctx context.Context, controller *session.Controller, mode model.Mode) error {
	program := tea.NewProgram(terminal.New(controller, mode), tea.WithContext(ctx))
	events := controller.Subscribe(8, session.EventCompleted)
	go func() {
		for event := range events {
			if event.Type == session.EventCompleted {
				program.Send(terminal.CompletedMsg{Cycles: event.Cycle})
			}
		}
	}()

	controller.Start()
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal view: %w", err)
	}
	return nil
}

func runPlainSession(ctx context.Context, out io.Writer, controller *session.Controller, mode model.Mode) error {
	events := controller.Subscribe(32, session.Transitions()...)
	controller.Start()
	fmt.Fprintf(out, "%s (%s)\n", mode.Title, controller.Pattern())

	for {
		select {
		case <-ctx.Done():
			controller.Pause()
			fmt.Fprintln(out, "stopped")
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			switch event.Type {
			case breath.EventStarted, breath.EventPhaseChanged, breath.EventPatternChanged:
				fmt.Fprintf(out, "%-8s %4s  cycle %d\n",
					event.Phase.Label(), event.Pattern.Duration(event.Phase), event.Cycle+1)
			case session.EventCompleted:
				fmt.Fprintf(out, "session complete: %d cycles in %s\n",
					event.Cycle, event.Elapsed.Round(time.Second))
				return nil
			}
		}
	}
}

func startDevice(ctx context.Context, controller *session.Controller, address string, intensity device.Intensity, log *zap.Logger) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	link, err := device.DialNet(dialCtx, address, time.Second)
	if err != nil {
		log.Warn("connect device", zap.String("address", address), zap.Error(err))
		return
	}
	events := controller.Subscribe(64, session.Transitions()...)
	go func() {
		defer link.Close()
		device.NewDispatcher(link, intensity, log).Run(ctx, events)
	}()
}

// startRecorder returns a channel closed once the session has been written.
func startRecorder(controller *session.Controller, mode model.Mode, log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if runNoHistory {
		close(done)
		return done
	}
	path, err := resolveJournalPath()
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	var history *journal.Journal
	if err == nil {
		history, err = journal.Open(path)
	}
	if err != nil {
		log.Warn("open journal", zap.Error(err))
		close(done)
		return done
	}

	recorder := journal.NewRecorder(history, func() string { return string(mode.ID) }, log)
	events := controller.Subscribe(64, session.Transitions()...)
	go func() {
		defer close(done)
		recorder.Run(context.Background(), events)
		_ = history.Close()
	}()
	return done
}

// fileLogger keeps log lines out of the animated view.
func fileLogger() *zap.Logger {
	path, err := storage.DataPath(appName, "syncbreath-cli.log")
	if err != nil {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(logger.Level())
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	fileLog, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return fileLog
}

// parsePatternFlag reads "4-7-8" or "4-7-8-0".
func parsePatternFlag(value string) (model.BreathPattern, error) {
	parts := strings.Split(value, "-")
	if len(parts) == 3 {
		parts = append(parts, "0")
	}
	if len(parts) != 4 {
		return model.BreathPattern{}, fmt.Errorf("%w: %q, want inhale-hold-exhale[-hold]", model.ErrInvalidPattern, value)
	}
	return preferences.ParsePattern(parts[0], parts[1], parts[2], parts[3])
}
