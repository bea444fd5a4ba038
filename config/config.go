package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

// ViewConfig stores zoom and terminal-cell geometry preferences.
type ViewConfig struct {
	MinZoom     float64 `json:"minZoom,omitempty"`     // pixels per second
	MaxZoom     float64 `json:"maxZoom,omitempty"`     // pixels per second
	DefaultZoom float64 `json:"defaultZoom,omitempty"` // pixels per second
	CellPixels  float64 `json:"cellPixels,omitempty"`  // virtual pixels one terminal cell spans
}

// EditConfig stores editing defaults.
type EditConfig struct {
	Quantize bool `json:"quantize"`
}

// PreviewConfig selects where note previews sound.
type PreviewConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  int    `json:"channel,omitempty"` // 1-16
	Synth    bool   `json:"synth,omitempty"`   // builtin sine synth instead of MIDI
}

// ThemeConfig points at an optional GIMP palette file.
type ThemeConfig struct {
	PalettePath string `json:"palettePath,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	View    ViewConfig    `json:"view,omitempty"`
	Edit    EditConfig    `json:"edit,omitempty"`
	Preview PreviewConfig `json:"preview,omitempty"`
	Theme   ThemeConfig   `json:"theme,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		View: ViewConfig{
			MinZoom:     10,
			MaxZoom:     1000,
			DefaultZoom: 100,
			CellPixels:  10,
		},
		Edit: EditConfig{
			Quantize: true,
		},
		Preview: PreviewConfig{
			Channel: 1,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("cannot resolve home directory"))
	}
	return filepath.Join(home, ".config", "noteroll"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk. Missing file or unreadable home
// yield the defaults; fields absent from the file keep their defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fault.Wrap(err, fmsg.With("cannot read config file"))
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.With("cannot parse config file"))
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fault.Wrap(err, fmsg.With("cannot create config directory"))
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("cannot serialize config"))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("cannot write config file"))
	}
	return nil
}
