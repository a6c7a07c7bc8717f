package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"syncbreath/internal/core/model"
)

// Player is a looping track with adjustable volume.
type Player interface {
	Play() error
	Stop()
	SetVolume(volume float64)
	Volume() float64
}

// Loader opens the track for a sound option.
type Loader interface {
	Load(option model.SoundOption) (Player, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(option model.SoundOption) (Player, error)

// Load calls fn.
func (fn LoaderFunc) Load(option model.SoundOption) (Player, error) {
	return fn(option)
}

// SilentPlayer tracks play state and volume without producing sound.
type SilentPlayer struct {
	mu      sync.Mutex
	name    string
	volume  float64
	playing bool
}

// NewSilentPlayer returns a stopped silent player.
func NewSilentPlayer(name string) *SilentPlayer {
	return &SilentPlayer{name: name}
}

func (player *SilentPlayer) Play() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.playing = true
	return nil
}

func (player *SilentPlayer) Stop() {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.playing = false
}

func (player *SilentPlayer) SetVolume(volume float64) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.volume = clampVolume(volume)
}

func (player *SilentPlayer) Volume() float64 {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.volume
}

// Playing reports whether Play was called without a later Stop.
func (player *SilentPlayer) Playing() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.playing
}

// SilentLoader resolves tracks under a directory and plays them silently.
// It is used on hosts without an audio backend.
type SilentLoader struct {
	Dir string
	Ext string
}

// Load checks that the track file exists.
func (loader SilentLoader) Load(option model.SoundOption) (Player, error) {
	ext := loader.Ext
	if ext == "" {
		ext = ".mp3"
	}
	path := filepath.Join(loader.Dir, option.File+ext)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("load sound %s: %w", option.File, err)
	}
	return NewSilentPlayer(option.File), nil
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
