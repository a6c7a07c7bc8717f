package resources

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"syncbreath/internal/core/model"
)

//go:embed modes.yaml
var modesYAML []byte

var (
	catalogueOnce sync.Once
	catalogue     model.Catalogue
	catalogueErr  error
)

type yamlSound struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

type yamlMode struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Pattern     []int       `yaml:"pattern"`
	Custom      bool        `yaml:"custom"`
	Sounds      []yamlSound `yaml:"sounds"`
}

type yamlCatalogue struct {
	Modes []yamlMode `yaml:"modes"`
}

// Modes returns the built-in mode catalogue.
func Modes() (model.Catalogue, error) {
	catalogueOnce.Do(func() {
		catalogue, catalogueErr = ParseModes(modesYAML)
	})
	return catalogue, catalogueErr
}

// MustModes returns the built-in catalogue or panics on error.
func MustModes() model.Catalogue {
	modes, err := Modes()
	if err != nil {
		panic(err)
	}
	return modes
}

// ParseModes decodes a YAML mode catalogue.
func ParseModes(data []byte) (model.Catalogue, error) {
	var fileData yamlCatalogue
	if err := yaml.Unmarshal(data, &fileData); err != nil {
		return nil, fmt.Errorf("parse modes yaml: %w", err)
	}

	modes := make(model.Catalogue, 0, len(fileData.Modes))
	seen := make(map[string]bool, len(fileData.Modes))
	for _, entry := range fileData.Modes {
		if entry.ID == "" {
			return nil, fmt.Errorf("mode %q: missing id", entry.Title)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("mode %q: duplicate id", entry.ID)
		}
		seen[entry.ID] = true

		pattern, err := patternFromList(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("mode %q: %w", entry.ID, err)
		}

		mode := model.Mode{
			ID:          model.ModeID(entry.ID),
			Title:       entry.Title,
			Description: entry.Description,
			Pattern:     pattern,
			Custom:      entry.Custom,
		}
		for _, sound := range entry.Sounds {
			mode.Sounds = append(mode.Sounds, model.SoundOption{Name: sound.Name, File: sound.File})
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

func patternFromList(values []int) (model.BreathPattern, error) {
	if len(values) < 3 || len(values) > 4 {
		return model.BreathPattern{}, fmt.Errorf("pattern needs 3 or 4 durations, got %d", len(values))
	}
	hold2 := 0
	if len(values) == 4 {
		hold2 = values[3]
	}
	return model.NewBreathPattern(values[0], values[1], values[2], hold2)
}
