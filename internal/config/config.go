package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Rendition describes one simulated output track.
type Rendition struct {
	// Fingerprint identifies the rendition, conventionally
	// "codec_resolution_fps".
	Fingerprint string `toml:"fingerprint"`
	// EveryNth encodes every Nth source frame (1 = full rate).
	EveryNth int `toml:"every_nth"`
	// LagEvery injects a lagged frame every N inputs; 0 disables.
	LagEvery int `toml:"lag_every"`
	// DropEvery injects a dropped frame every N inputs; 0 disables.
	DropEvery int `toml:"drop_every"`
}

// Capture configures the optional payload capture store.
type Capture struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config centralizes every knob the CLI needs.
type Config struct {
	MaxTracks        int         `toml:"max_tracks"`
	Frames           int         `toml:"frames"`
	KeyframeInterval int         `toml:"keyframe_interval"`
	ReportInterval   int         `toml:"report_interval"`
	LogLevel         string      `toml:"log_level"`
	LogFormat        string      `toml:"log_format"`
	Renditions       []Rendition `toml:"renditions"`
	Capture          Capture     `toml:"capture"`
}

// Load parses and validates a configuration file. A missing path keeps the
// repository defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s does not exist", path)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sample returns the embedded sample configuration text.
func Sample() string {
	return sampleConfig
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
