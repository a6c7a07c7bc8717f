// Package audio plays the ambient track of the current meditation mode.
//
// The mixer is independent of the breathing engine: it is keyed by mode,
// never by phase.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"go.uber.org/zap"

	"syncbreath/internal/core/model"
)

const (
	DefaultVolume       = 0.5
	DefaultFadeDuration = time.Second
	DefaultFadeSteps    = 50
)

// Config contains mixer options.
type Config struct {
	Volume       float64
	FadeDuration time.Duration
	FadeSteps    int
	Logger       *zap.Logger
}

// Mixer owns the active track and the per-mode sound selection.
type Mixer struct {
	mu         sync.Mutex
	loader     Loader
	config     Config
	logger     *zap.Logger
	volume     float64
	active     Player
	activeFile string
	selections map[model.ModeID]model.SoundOption
}

// NewMixer creates a mixer that opens tracks through loader.
func NewMixer(loader Loader, config Config) *Mixer {
	if config.FadeDuration <= 0 {
		config.FadeDuration = DefaultFadeDuration
	}
	if config.FadeSteps <= 0 {
		config.FadeSteps = DefaultFadeSteps
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	volume := DefaultVolume
	if config.Volume > 0 {
		volume = clampVolume(config.Volume)
	}
	return &Mixer{
		loader:     loader,
		config:     config,
		logger:     config.Logger.Named("audio"),
		volume:     volume,
		selections: make(map[model.ModeID]model.SoundOption),
	}
}

// Select remembers option as the sound for mode.
func (mixer *Mixer) Select(mode model.ModeID, option model.SoundOption) {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	mixer.selections[mode] = option
}

// Selection returns the remembered sound for mode, falling back to the
// mode's first option.
func (mixer *Mixer) Selection(mode model.Mode) (model.SoundOption, bool) {
	mixer.mu.Lock()
	selected, ok := mixer.selections[mode.ID]
	mixer.mu.Unlock()
	if ok {
		return selected, true
	}
	return mode.DefaultSound()
}

// Selections returns a copy of every remembered selection.
func (mixer *Mixer) Selections() map[model.ModeID]model.SoundOption {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	out := make(map[model.ModeID]model.SoundOption, len(mixer.selections))
	for id, option := range mixer.selections {
		out[id] = option
	}
	return out
}

// Play stops the current track and starts option for mode at full volume.
// A missing track is logged and ignored.
func (mixer *Mixer) Play(mode model.ModeID, option model.SoundOption) error {
	player, err := mixer.load(option)
	if err != nil || player == nil {
		return err
	}

	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	mixer.stopLocked()
	player.SetVolume(mixer.volume)
	if err := player.Play(); err != nil {
		return fmt.Errorf("play %s: %w", option.File, err)
	}
	mixer.active = player
	mixer.activeFile = option.File
	mixer.selections[mode] = option
	mixer.logger.Debug("sound playing", zap.String("mode", string(mode)), zap.String("file", option.File))
	return nil
}

// Resume starts the selected track for mode unless a track is already
// playing.
func (mixer *Mixer) Resume(mode model.Mode) error {
	if _, playing := mixer.Playing(); playing {
		return nil
	}
	option, ok := mixer.Selection(mode)
	if !ok {
		return nil
	}
	return mixer.Play(mode.ID, option)
}

// Stop ends the current track immediately.
func (mixer *Mixer) Stop() {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	mixer.stopLocked()
}

// SetVolume sets the playback volume and applies it to the active track.
func (mixer *Mixer) SetVolume(volume float64) {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	mixer.volume = clampVolume(volume)
	if mixer.active != nil {
		mixer.active.SetVolume(mixer.volume)
	}
}

// Volume returns the configured playback volume.
func (mixer *Mixer) Volume() float64 {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	return mixer.volume
}

// Playing returns the file name of the active track, if any.
func (mixer *Mixer) Playing() (string, bool) {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	return mixer.activeFile, mixer.active != nil
}

// FadeOut ramps the active track to silence and stops it. Cancelling ctx
// stops the track immediately.
func (mixer *Mixer) FadeOut(ctx context.Context) error {
	mixer.mu.Lock()
	player := mixer.active
	mixer.active = nil
	mixer.activeFile = ""
	mixer.mu.Unlock()
	if player == nil {
		return nil
	}
	defer player.Stop()

	step := player.Volume() / float64(mixer.config.FadeSteps)
	return mixer.ramp(ctx, func() {
		player.SetVolume(player.Volume() - step)
	})
}

// CrossFade fades the active track out while fading option in for mode.
func (mixer *Mixer) CrossFade(ctx context.Context, mode model.ModeID, option model.SoundOption) error {
	next, err := mixer.load(option)
	if err != nil || next == nil {
		return err
	}
	next.SetVolume(0)
	if err := next.Play(); err != nil {
		return fmt.Errorf("play %s: %w", option.File, err)
	}

	mixer.mu.Lock()
	previous := mixer.active
	mixer.active = next
	mixer.activeFile = option.File
	mixer.selections[mode] = option
	target := mixer.volume
	mixer.mu.Unlock()

	inStep := target / float64(mixer.config.FadeSteps)
	var outStep float64
	if previous != nil {
		outStep = previous.Volume() / float64(mixer.config.FadeSteps)
		defer previous.Stop()
	}

	err = mixer.ramp(ctx, func() {
		next.SetVolume(next.Volume() + inStep)
		if previous != nil {
			previous.SetVolume(previous.Volume() - outStep)
		}
	})
	if err != nil {
		next.SetVolume(target)
	}
	return err
}

func (mixer *Mixer) ramp(ctx context.Context, step func()) error {
	ticker := time.NewTicker(mixer.config.FadeDuration / time.Duration(mixer.config.FadeSteps))
	defer ticker.Stop()
	for i := 0; i < mixer.config.FadeSteps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			step()
		}
	}
	return nil
}

func (mixer *Mixer) load(option model.SoundOption) (Player, error) {
	if mixer.loader == nil {
		return nil, nil
	}
	player, err := mixer.loader.Load(option)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			mixer.logger.Warn("could not find sound file", zap.String("file", option.File))
			return nil, nil
		}
		return nil, err
	}
	return player, nil
}

func (mixer *Mixer) stopLocked() {
	if mixer.active == nil {
		return
	}
	mixer.active.Stop()
	mixer.active = nil
	mixer.activeFile = ""
}
