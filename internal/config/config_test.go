package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shaban/rackless/pkg/chain"
)

func TestDefaultUsesHardBypassAndMirror(t *testing.T) {
	cfg := Default()
	if cfg.Rack.RoutingMode != "hard_bypass" {
		t.Fatalf("Default().Rack.RoutingMode = %q, want hard_bypass", cfg.Rack.RoutingMode)
	}
	if cfg.Rack.ExternalPolicy != "mirror" {
		t.Fatalf("Default().Rack.ExternalPolicy = %q, want mirror", cfg.Rack.ExternalPolicy)
	}
	if cfg.RoutingMode() != chain.HardBypass {
		t.Fatalf("RoutingMode() = %v, want HardBypass", cfg.RoutingMode())
	}
}

func TestLoadFillsMissingRackDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rackless.yaml")
	yamlDoc := `
server:
  url: ws://localhost:9000
hardware:
  inputs: ["capture_1", "capture_2"]
  outputs: ["playback_1", "playback_2"]
plugins:
  - name: DS1
    uri: urn:ds1
    category: distortion
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	if cfg.Rack.RoutingMode != "hard_bypass" {
		t.Fatalf("RoutingMode not defaulted: %q", cfg.Rack.RoutingMode)
	}
	if cfg.Rack.ExternalPolicy != "mirror" {
		t.Fatalf("ExternalPolicy not defaulted: %q", cfg.Rack.ExternalPolicy)
	}
	if cfg.Server.URL != "ws://localhost:9000" {
		t.Fatalf("Server.URL = %q, want ws://localhost:9000", cfg.Server.URL)
	}
	if len(cfg.Hardware.Inputs) != 2 {
		t.Fatalf("Hardware.Inputs = %v, want 2 entries", cfg.Hardware.Inputs)
	}
}

func TestLoadRespectsExplicitRackValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rackless.yaml")
	yamlDoc := `
rack:
  slots_limit: 4
  routing_mode: dual_track
  external_policy: enforce
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	if cfg.Rack.RoutingMode != "dual_track" || cfg.RoutingMode() != chain.DualTrack {
		t.Fatalf("explicit routing_mode not respected: %+v", cfg.Rack)
	}
	if cfg.Rack.ExternalPolicy != "enforce" {
		t.Fatalf("explicit external_policy not respected: %q", cfg.Rack.ExternalPolicy)
	}
	if cfg.Rack.SlotsLimit != 4 {
		t.Fatalf("SlotsLimit = %d, want 4", cfg.Rack.SlotsLimit)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load("/nonexistent/rackless.yaml"); err == nil {
		t.Fatal("Load(missing file) = nil error, want error")
	}
}

func TestCatalogAppliesPortOverridesAndNil(t *testing.T) {
	cfg := Config{
		Plugins: []PluginEntry{
			{Name: "DS1", URI: "urn:ds1", Category: "distortion", Inputs: []string{"in"}, Outputs: []string{"out"}},
			{Name: "Bare", URI: "urn:bare"},
		},
	}
	cat := cfg.Catalog()

	ds1, ok := cat.Lookup("urn:ds1")
	if !ok {
		t.Fatal("urn:ds1 not found in catalog")
	}
	if len(ds1.AudioInputs) != 1 || ds1.AudioInputs[0] != "in" {
		t.Fatalf("ds1 AudioInputs = %v, want [in]", ds1.AudioInputs)
	}

	bare, ok := cat.Lookup("urn:bare")
	if !ok {
		t.Fatal("urn:bare not found in catalog")
	}
	if bare.AudioInputs != nil {
		t.Fatalf("bare AudioInputs = %v, want nil (no override, fall through to HOST-reported ports)", bare.AudioInputs)
	}
}
