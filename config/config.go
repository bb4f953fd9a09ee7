package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/juju/errors"

	"synth-tools/sequencer"
)

// ArpConfig holds arpeggiator defaults
type ArpConfig struct {
	Root           int     `json:"root"`
	Chord          string  `json:"chord"`
	OctaveDistance int     `json:"octaveDistance"`
	OctaveRange    int     `json:"octaveRange"`
	Gate           float64 `json:"gate"`
	Correction     string  `json:"correction,omitempty"`
}

// StepConfig holds step sequencer defaults
type StepConfig struct {
	Root       int     `json:"root"`
	Notes      []int   `json:"notes"` // offsets from root, one per step
	Gate       float64 `json:"gate"`
	Correction string  `json:"correction,omitempty"`
}

// TrigConfig holds trigger sequencer defaults
type TrigConfig struct {
	Kit        string   `json:"kit"`
	Pattern    []string `json:"pattern"` // one row per track, "x" = hit
	Correction string   `json:"correction,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Tempo        float64    `json:"tempo"`
	StepsPerBeat float64    `json:"stepsPerBeat"`
	Channel      int        `json:"channel"`
	Debug        bool       `json:"debug,omitempty"`
	Arp          ArpConfig  `json:"arp"`
	Step         StepConfig `json:"step"`
	Trig         TrigConfig `json:"trig"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo:        120,
		StepsPerBeat: 4,
		Channel:      1,
		Arp: ArpConfig{
			Root:           48,
			Chord:          "major",
			OctaveDistance: 12,
			OctaveRange:    1,
			Gate:           0.5,
		},
		Step: StepConfig{
			Root:  36,
			Notes: []int{0, 0, 0, 0, 2, 2, -4, -4, 0, 0, 5, 5, 7, 7, 12, 12},
			Gate:  0.3,
		},
		Trig: TrigConfig{
			Kit: sequencer.DefaultKit,
			Pattern: []string{
				"x...x...x...x..x", // kick
				"..x...x...x...x.", // snare
				"xxxxxxxxxxxxxxx.", // closed hat
				"...............x", // open hat
			},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Trace(err)
	}
	return filepath.Join(home, ".config", "synth-tools"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Annotatef(err, "cannot read config")
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Annotatef(err, "cannot parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Annotatef(err, "bad config %s", path)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Trace(err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.WriteFile(path, data, 0644))
}

// Validate checks the values the engines would reject.
func (c *Config) Validate() error {
	if _, err := sequencer.NewTempo(c.StepsPerBeat, c.Tempo); err != nil {
		return errors.Trace(err)
	}
	if c.Channel < 1 || c.Channel > 16 {
		return errors.NotValidf("channel %d", c.Channel)
	}
	if c.Arp.OctaveRange < 1 {
		return errors.NotValidf("octave range %d", c.Arp.OctaveRange)
	}
	if _, err := sequencer.Chord(c.Arp.Root, c.Arp.Chord); err != nil {
		return errors.Trace(err)
	}
	if _, err := sequencer.GetKit(c.Trig.Kit); err != nil {
		return errors.Trace(err)
	}
	for _, name := range []string{c.Arp.Correction, c.Step.Correction, c.Trig.Correction} {
		if name == "" {
			continue
		}
		if _, err := sequencer.ParseCorrection(name); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Correction resolves a configured policy name, falling back to def when
// none is set.
func Correction(name string, def sequencer.Correction) sequencer.Correction {
	if name == "" {
		return def
	}
	c, err := sequencer.ParseCorrection(name)
	if err != nil {
		return def
	}
	return c
}
