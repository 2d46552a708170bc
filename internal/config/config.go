// Package config loads the YAML configuration recognized by §6: server
// url, hardware port lists and join hints, rack policy, and the plugin
// whitelist. Struct tags follow the style of 0h41-pulsekontrol's
// configuration types.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaban/rackless/pkg/chain"
)

type ServerConfig struct {
	URL string `yaml:"url"`
}

type HardwareConfig struct {
	Inputs           []string `yaml:"inputs"`
	Outputs          []string `yaml:"outputs"`
	JoinAudioInputs  bool     `yaml:"join_audio_inputs"`
	JoinAudioOutputs bool     `yaml:"join_audio_outputs"`
}

type RackConfig struct {
	SlotsLimit     int    `yaml:"slots_limit"`
	RoutingMode    string `yaml:"routing_mode"`
	ExternalPolicy string `yaml:"external_policy"`
}

type PluginEntry struct {
	Name    string `yaml:"name"`
	URI     string `yaml:"uri"`
	Category string `yaml:"category"`

	Inputs      []string `yaml:"inputs"`
	Outputs     []string `yaml:"outputs"`
	MIDIInputs  []string `yaml:"midi_inputs"`
	MIDIOutputs []string `yaml:"midi_outputs"`

	JoinAudioInputs  bool `yaml:"join_audio_inputs"`
	JoinAudioOutputs bool `yaml:"join_audio_outputs"`
	JoinMIDIInputs   bool `yaml:"join_midi_inputs"`
	JoinMIDIOutputs  bool `yaml:"join_midi_outputs"`
}

// Config is the top-level document shape.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Hardware HardwareConfig  `yaml:"hardware"`
	Rack     RackConfig      `yaml:"rack"`
	Plugins  []PluginEntry   `yaml:"plugins"`
}

// Default returns a Config with the defaults named in §6/§10: hard_bypass
// routing and mirror policy.
func Default() Config {
	return Config{
		Rack: RackConfig{
			RoutingMode:    "hard_bypass",
			ExternalPolicy: "mirror",
		},
	}
}

// Load reads and parses the YAML file at path, filling in defaults for any
// missing rack.* key.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Rack.RoutingMode == "" {
		cfg.Rack.RoutingMode = "hard_bypass"
	}
	if cfg.Rack.ExternalPolicy == "" {
		cfg.Rack.ExternalPolicy = "mirror"
	}

	return cfg, nil
}

// RoutingMode translates the configured string to a chain.Mode.
func (c Config) RoutingMode() chain.Mode {
	return chain.ParseMode(c.Rack.RoutingMode)
}

// Catalog builds a chain.Catalog from the configured plugin whitelist.
func (c Config) Catalog() *chain.Catalog {
	entries := make([]chain.PluginConfig, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		entries = append(entries, chain.PluginConfig{
			Name:         p.Name,
			URI:          p.URI,
			Category:     p.Category,
			AudioInputs:  nilIfEmpty(p.Inputs),
			AudioOutputs: nilIfEmpty(p.Outputs),
			MIDIInputs:   nilIfEmpty(p.MIDIInputs),
			MIDIOutputs:  nilIfEmpty(p.MIDIOutputs),
			Hints: chain.RoutingHints{
				JoinAudioInputs:  p.JoinAudioInputs,
				JoinAudioOutputs: p.JoinAudioOutputs,
				JoinMIDIInputs:   p.JoinMIDIInputs,
				JoinMIDIOutputs:  p.JoinMIDIOutputs,
			},
		})
	}
	return chain.NewCatalog(entries)
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
