package spritepaint

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config controls where sheets come from, where color mods go, and how the
// per-tick pipeline runs.
type Config struct {
	// SourceFolder is the root that logical sheet paths resolve against.
	SourceFolder string `toml:"source_folder"`
	// DestinationFolder receives the recolored sheets. Empty disables writing.
	DestinationFolder string `toml:"destination_folder"`
	// PreviewSize is the maximum side of preview thumbnails in pixels.
	PreviewSize int `toml:"preview_size"`
	// CellWidth and CellHeight define the default grid layout of a sheet.
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`
	// Workers bounds how many sheets are processed in parallel in one tick.
	// Values below 1 mean 1.
	Workers int `toml:"workers"`
	// Debug enables per-tick stats and warnings on stderr.
	Debug bool `toml:"debug"`
	// Choices holds initial colors by sheet destination, then by palette
	// index (as a decimal string key), as "#rrggbb" values.
	Choices map[string]map[string]string `toml:"choices"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		SourceFolder:      ".",
		DestinationFolder: "",
		PreviewSize:       64,
		CellWidth:         128,
		CellHeight:        128,
		Workers:           1,
	}
}

// LoadConfig reads a TOML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("spritepaint: read config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("spritepaint: parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PreviewSize < 0 {
		return fmt.Errorf("spritepaint: preview_size must not be negative, got %d", c.PreviewSize)
	}
	if c.CellWidth < 0 || c.CellHeight < 0 {
		return fmt.Errorf("spritepaint: cell size must not be negative, got %dx%d", c.CellWidth, c.CellHeight)
	}
	for sheet, byIndex := range c.Choices {
		if _, err := parseChoiceOverrides(byIndex); err != nil {
			return fmt.Errorf("spritepaint: choices for %q: %w", sheet, err)
		}
	}
	return nil
}

// choiceOverrides returns the configured initial colors for destination.
func (c Config) choiceOverrides(destination string) map[int]RGB {
	byIndex, ok := c.Choices[destination]
	if !ok {
		return nil
	}
	out, err := parseChoiceOverrides(byIndex)
	if err != nil {
		return nil
	}
	return out
}

func parseChoiceOverrides(byIndex map[string]string) (map[int]RGB, error) {
	out := make(map[int]RGB, len(byIndex))
	for key, hex := range byIndex {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid palette index %q", key)
		}
		c, err := ParseHex(hex)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
