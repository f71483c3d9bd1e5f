package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"volunteermap/internal/domain"
)

// MapSettings controls the map screen's initial viewport and marker fitting.
type MapSettings struct {
	DefaultRegion domain.Region      `yaml:"default_region"`
	EdgePadding   domain.EdgePadding `yaml:"edge_padding"`
}

// DefaultMapSettings returns the built-in settings.
func DefaultMapSettings() *MapSettings {
	return &MapSettings{
		DefaultRegion: domain.DefaultRegion,
		EdgePadding:   domain.EdgePadding{Top: 0.1, Right: 0.1, Bottom: 0.1, Left: 0.1},
	}
}

// Normalize fills zero values with defaults.
func (m *MapSettings) Normalize() {
	if m.DefaultRegion == (domain.Region{}) {
		m.DefaultRegion = domain.DefaultRegion
	}
	if m.DefaultRegion.LatitudeDelta <= 0 {
		m.DefaultRegion.LatitudeDelta = domain.DefaultRegion.LatitudeDelta
	}
	if m.DefaultRegion.LongitudeDelta <= 0 {
		m.DefaultRegion.LongitudeDelta = domain.DefaultRegion.LongitudeDelta
	}
}

// LoadMapSettings reads YAML map settings from path.
// An empty path or a missing file yields the defaults.
func LoadMapSettings(path string) (*MapSettings, error) {
	if path == "" {
		return DefaultMapSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultMapSettings(), nil
		}
		return nil, err
	}

	settings := DefaultMapSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse map settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}
