package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"syncbreath/internal/core/model"
)

// outputRate is the rate the speaker is opened at; tracks are resampled to it.
const outputRate beep.SampleRate = 44100

var errPlayerStopped = errors.New("player stopped")

var (
	speakerOnce sync.Once
	speakerErr  error
)

func openSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(outputRate, outputRate.N(100*time.Millisecond))
	})
	return speakerErr
}

// SpeakerLoader decodes mp3 tracks under Dir and plays them on the default
// output device.
type SpeakerLoader struct {
	Dir string
}

// Load opens and decodes the track. The output device is opened on first use.
func (loader SpeakerLoader) Load(option model.SoundOption) (Player, error) {
	file, err := os.Open(filepath.Join(loader.Dir, option.File+".mp3"))
	if err != nil {
		return nil, fmt.Errorf("load sound %s: %w", option.File, err)
	}
	stream, format, err := mp3.Decode(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("decode sound %s: %w", option.File, err)
	}
	if err := openSpeaker(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	return newSpeakerPlayer(stream, format.SampleRate), nil
}

// speakerPlayer loops one decoded track. It can be played once; Stop
// releases the decoder.
type speakerPlayer struct {
	mu      sync.Mutex
	stream  beep.StreamSeekCloser
	ctrl    *beep.Ctrl
	gain    *effects.Volume
	level   float64
	started bool
	stopped bool
}

func newSpeakerPlayer(stream beep.StreamSeekCloser, rate beep.SampleRate) *speakerPlayer {
	var source beep.Streamer = beep.Loop(-1, stream)
	if rate != outputRate {
		source = beep.Resample(4, rate, outputRate, source)
	}
	gain := &effects.Volume{Streamer: source, Base: 2, Silent: true}
	return &speakerPlayer{
		stream: stream,
		gain:   gain,
		ctrl:   &beep.Ctrl{Streamer: gain},
	}
}

func (player *speakerPlayer) Play() error {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.stopped {
		return errPlayerStopped
	}
	if !player.started {
		player.started = true
		speaker.Play(player.ctrl)
	}
	return nil
}

func (player *speakerPlayer) Stop() {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.stopped {
		return
	}
	player.stopped = true
	speaker.Lock()
	player.ctrl.Streamer = nil
	speaker.Unlock()
	_ = player.stream.Close()
}

func (player *speakerPlayer) SetVolume(volume float64) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.level = clampVolume(volume)
	exponent, silent := gainFor(player.level)
	speaker.Lock()
	player.gain.Volume = exponent
	player.gain.Silent = silent
	speaker.Unlock()
}

func (player *speakerPlayer) Volume() float64 {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.level
}

// gainFor maps a linear 0..1 level to a base-2 volume exponent.
func gainFor(level float64) (float64, bool) {
	if level <= 0 {
		return 0, true
	}
	return math.Log2(level), false
}
