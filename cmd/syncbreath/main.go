package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"

	"syncbreath/internal/audio"
	"syncbreath/internal/core/breath"
	"syncbreath/internal/core/model"
	"syncbreath/internal/core/session"
	"syncbreath/internal/device"
	"syncbreath/internal/journal"
	"syncbreath/internal/platform"
	"syncbreath/internal/storage"
	"syncbreath/internal/ui/animation"
	"syncbreath/internal/ui/breathview"
	"syncbreath/internal/ui/preferences"
	"syncbreath/internal/ui/tray"
	"syncbreath/resources"
)

const appName = "SyncBreath"

// state is shared between the fyne thread and the event goroutines.
type state struct {
	mu       sync.Mutex
	settings preferences.Settings
	mode     model.Mode
}

func (st *state) get() (preferences.Settings, model.Mode) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.settings, st.mode
}

func (st *state) set(settings preferences.Settings, mode model.Mode) {
	st.mu.Lock()
	st.settings = settings
	st.mode = mode
	st.mu.Unlock()
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if err := platform.ActivateRunning(appName); err != nil {
				logger.Warn("activate running instance", zap.Error(err))
			}
			return
		}
		logger.Error("single instance", zap.Error(err))
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", zap.Error(err))
	}
	modes := resources.MustModes()
	mode, err := modes.Find(settings.Mode)
	if err != nil {
		logger.Warn("unknown mode in settings", zap.String("mode", string(settings.Mode)))
		mode = modes[0]
		settings.Mode = mode.ID
	}
	shared := &state{settings: settings, mode: mode}

	controller, err := session.New(settings.PatternFor(mode), settings.SessionConfig(logger))
	if err != nil {
		logger.Error("create session", zap.Error(err))
		return
	}

	mixer := audio.NewMixer(audio.SpeakerLoader{Dir: soundsDir(logger)}, audio.Config{Logger: logger})
	mixer.SetVolume(settings.Volume)
	for _, entry := range modes {
		if option, ok := settings.SoundFor(entry); ok {
			mixer.Select(entry.ID, option)
		}
	}

	fyneApp := app.NewWithID("com.syncbreath.app")

	var trayManager *tray.Manager
	save := func(updated preferences.Settings) {
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("save settings", zap.Error(err))
		}
	}

	changeMode := func(next model.Mode) {
		current, _ := shared.get()
		current.Mode = next.ID
		shared.set(current, next)
		if err := controller.SetPattern(current.PatternFor(next)); err != nil {
			logger.Warn("set pattern", zap.Error(err))
		}
		if _, playing := mixer.Playing(); playing {
			if option, ok := mixer.Selection(next); ok {
				go crossFade(ctx, mixer, next.ID, option, logger)
			}
		}
		if trayManager != nil {
			trayManager.SetMode(next.ID)
		}
		save(current)
	}

	view := breathview.New(fyneApp, modes, mode.ID, breathview.Callbacks{
		OnToggle: controller.Toggle,
		OnModeChange: func(next model.Mode) {
			changeMode(next)
		},
		OnSoundChange: func(target model.Mode, option model.SoundOption) {
			current, active := shared.get()
			current = current.WithSound(target.ID, option.File)
			shared.set(current, active)
			mixer.Select(target.ID, option)
			if _, playing := mixer.Playing(); playing && target.ID == active.ID {
				go crossFade(ctx, mixer, target.ID, option, logger)
			}
			save(current)
		},
		SoundFor: mixer.Selection,
	})
	view.SetShowProgress(settings.ShowProgress)
	if option, ok := mixer.Selection(mode); ok {
		view.SetSound(option)
	}
	view.Window().SetCloseIntercept(func() {
		if trayManager == nil {
			fyneApp.Quit()
			return
		}
		view.Window().Hide()
	})

	devices := device.NewRunner(ctx, controller, nil, logger)
	applyDevice := func(updated preferences.Settings) {
		address := ""
		if updated.DeviceEnabled {
			address = updated.DeviceAddress
		}
		devices.Apply(address, updated.DeviceIntensity())
	}
	applyDevice(settings)

	loginItem, err := platform.NewLoginItem(appName)
	if err != nil {
		logger.Warn("login item", zap.Error(err))
	}
	syncLogin := func(enabled bool) {
		if loginItem == nil {
			return
		}
		if err := loginItem.Apply(enabled); err != nil {
			logger.Warn("launch at login", zap.Bool("enabled", enabled), zap.Error(err))
		}
	}
	syncLogin(settings.LaunchAtLogin)

	var prefsWindow *preferences.Window
	applySettings := func(updated preferences.Settings) {
		previous, _ := shared.get()
		next, err := modes.Find(updated.Mode)
		if err != nil {
			_, next = shared.get()
			updated.Mode = next.ID
		}
		shared.set(updated, next)
		controller.SetLength(updated.SessionLength)
		if err := controller.SetPattern(updated.PatternFor(next)); err != nil {
			logger.Warn("set pattern", zap.Error(err))
		}
		mixer.SetVolume(updated.Volume)
		switch {
		case !updated.SoundEnabled:
			go fadeOut(ctx, mixer, logger)
		case !previous.SoundEnabled && controller.Snapshot().Running:
			if err := mixer.Resume(next); err != nil {
				logger.Warn("resume sound", zap.Error(err))
			}
		}
		view.SetShowProgress(updated.ShowProgress)
		view.SetMode(next.ID)
		applyDevice(updated)
		syncLogin(updated.LaunchAtLogin)
	}

	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		applySettings(updated)
		save(updated)
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, modes, mode.ID, tray.Callbacks{
			OnShow:        view.Show,
			OnPreferences: prefsWindow.Show,
			OnToggle:      controller.Toggle,
			OnMode: func(id model.ModeID) {
				next, err := modes.Find(id)
				if err != nil {
					return
				}
				view.SetMode(id)
				changeMode(next)
			},
			OnQuit: fyneApp.Quit,
		})
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	if configPath, err := storage.SettingsPath(appName); err == nil {
		err := storage.WatchSettingsFile(ctx, configPath, logger, func(updated preferences.Settings) {
			fyne.Do(func() {
				applySettings(updated)
				prefsWindow.UpdateSettings(updated)
			})
		})
		if err != nil {
			logger.Warn("watch settings", zap.Error(err))
		}
	}

	recorded := make(chan struct{})
	if recorder, history := openRecorder(shared, logger); recorder != nil {
		events := controller.Subscribe(64, session.Transitions()...)
		go func() {
			defer close(recorded)
			recorder.Run(context.Background(), events)
			_ = history.Close()
		}()
	} else {
		close(recorded)
	}

	go handleEvents(ctx, controller.Subscribe(64, session.Transitions()...), shared, mixer, view, func(apply func(*tray.Manager)) {
		if trayManager == nil {
			return
		}
		fyne.Do(func() {
			apply(trayManager)
		})
	}, logger)

	animationEngine := animation.New(animation.DefaultConfig(), view.SetFrame)
	animationEngine.Start(ctx, controller)

	go guard.Serve(ctx, func() {
		fyne.Do(view.Show)
	})

	view.Show()
	fyneApp.Run()

	animationEngine.Stop()
	controller.Stop()
	<-recorded
	cancel()
	mixer.Stop()
	devices.Stop()
}

// handleEvents keeps sound, window and tray in step with the session.
func handleEvents(ctx context.Context, events <-chan session.Event, shared *state, mixer *audio.Mixer, view *breathview.Window, withTray func(func(*tray.Manager)), logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case breath.EventStarted:
				view.SetRunning(true)
				withTray(func(manager *tray.Manager) { manager.SetRunning(true) })
				if settings, mode := shared.get(); settings.SoundEnabled {
					playSelection(mixer, mode, logger)
				}
			case breath.EventPaused:
				view.SetRunning(false)
				withTray(func(manager *tray.Manager) { manager.SetRunning(false) })
				go fadeOut(ctx, mixer, logger)
			case breath.EventPhaseChanged:
				status := fmt.Sprintf("%s, cycle %d", event.Phase.Label(), event.Cycle+1)
				withTray(func(manager *tray.Manager) { manager.SetStatus(status) })
			case session.EventCompleted:
				status := fmt.Sprintf("session complete, %d cycles", event.Cycle)
				withTray(func(manager *tray.Manager) { manager.SetStatus(status) })
			}
		}
	}
}

func playSelection(mixer *audio.Mixer, mode model.Mode, logger *zap.Logger) {
	option, ok := mixer.Selection(mode)
	if !ok {
		return
	}
	if err := mixer.Play(mode.ID, option); err != nil {
		logger.Warn("play sound", zap.Error(err))
	}
}

func fadeOut(ctx context.Context, mixer *audio.Mixer, logger *zap.Logger) {
	if err := mixer.FadeOut(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("fade out", zap.Error(err))
	}
}

func crossFade(ctx context.Context, mixer *audio.Mixer, mode model.ModeID, option model.SoundOption, logger *zap.Logger) {
	if err := mixer.CrossFade(ctx, mode, option); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("cross fade", zap.Error(err))
	}
}

func soundsDir(logger *zap.Logger) string {
	dir, err := storage.DataPath(appName, "sounds")
	if err != nil {
		logger.Warn("resolve sounds directory", zap.Error(err))
		return "sounds"
	}
	return dir
}

// openRecorder returns nil when the journal cannot be opened; sessions then
// simply go unrecorded.
func openRecorder(shared *state, logger *zap.Logger) (*journal.Recorder, *journal.Journal) {
	path, err := storage.DataPath(appName, "history.cbor")
	if err != nil {
		logger.Warn("resolve journal path", zap.Error(err))
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("create data directory", zap.Error(err))
		return nil, nil
	}
	history, err := journal.Open(path)
	if err != nil {
		logger.Warn("open journal", zap.Error(err))
		return nil, nil
	}
	recorder := journal.NewRecorder(history, func() string {
		_, mode := shared.get()
		return string(mode.ID)
	}, logger)
	return recorder, history
}
