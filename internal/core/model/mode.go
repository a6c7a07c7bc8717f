package model

import (
	"errors"
	"fmt"
)

// ErrUnknownMode indicates a mode id missing from the catalogue.
var ErrUnknownMode = errors.New("unknown meditation mode")

// ModeID identifies a meditation mode.
type ModeID string

const (
	ModeBambooGrove    ModeID = "bamboo_grove"
	ModeCloudReturn    ModeID = "cloud_return"
	ModeStarryNight    ModeID = "starry_night"
	ModeMountainSpring ModeID = "mountain_spring"
	ModeZenMoment      ModeID = "zen_moment"
	ModeSeasonCycle    ModeID = "season_cycle"
)

// SoundOption is one ambient track available to a mode.
type SoundOption struct {
	Name string
	File string
}

// Mode describes a meditation mode and its default breathing pattern.
type Mode struct {
	ID          ModeID
	Title       string
	Description string
	Pattern     BreathPattern
	Sounds      []SoundOption

	// Custom modes accept a user-defined pattern override.
	Custom bool
}

// DefaultSound returns the first sound option of the mode.
func (mode Mode) DefaultSound() (SoundOption, bool) {
	if len(mode.Sounds) == 0 {
		return SoundOption{}, false
	}
	return mode.Sounds[0], true
}

// Sound looks up a sound option by file name.
func (mode Mode) Sound(file string) (SoundOption, bool) {
	for _, option := range mode.Sounds {
		if option.File == file {
			return option, true
		}
	}
	return SoundOption{}, false
}

// Catalogue is an ordered set of modes.
type Catalogue []Mode

// Find returns the mode with the given id.
func (catalogue Catalogue) Find(id ModeID) (Mode, error) {
	for _, mode := range catalogue {
		if mode.ID == id {
			return mode, nil
		}
	}
	return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, id)
}

// Index returns the position of id, or -1.
func (catalogue Catalogue) Index(id ModeID) int {
	for index, mode := range catalogue {
		if mode.ID == id {
			return index
		}
	}
	return -1
}
