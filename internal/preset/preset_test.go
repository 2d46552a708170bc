package preset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaban/rackless/internal/logx"
	"github.com/shaban/rackless/pkg/chain"
	"github.com/shaban/rackless/pkg/dispatcher"
	"github.com/shaban/rackless/pkg/orchestrator"
	"github.com/shaban/rackless/pkg/transport"
)

func newTestRig(t *testing.T) (*orchestrator.Orchestrator, func()) {
	t.Helper()
	log := logx.New(logx.LevelDebug, 0)
	mt := transport.NewMockTransport(map[string]transport.MockPlugin{
		"urn:ds1": {
			Name: "DS1",
			Ports: chain.HostPorts{
				AudioInputs: []string{"in"}, AudioOutputs: []string{"out"},
				Controls: []chain.Control{
					{Symbol: "drive", Name: "Drive", Value: 0.5, Default: 0.5, Min: 0, Max: 1},
				},
			},
		},
		"urn:mverb": {
			Name: "MVerb",
			Ports: chain.HostPorts{
				AudioInputs: []string{"in"}, AudioOutputs: []string{"out"},
				Controls: []chain.Control{
					{Symbol: "mix", Name: "Mix", Value: 0.3, Default: 0.3, Min: 0, Max: 1},
				},
			},
		},
	}, []string{"capture_1"}, []string{"playback_1"})

	d := dispatcher.New(log)
	orch := orchestrator.New(log, mt, d, chain.NewCatalog([]chain.PluginConfig{
		{Name: "DS1", URI: "urn:ds1", Category: "distortion"},
		{Name: "MVerb", URI: "urn:mverb", Category: "reverb"},
	}), orchestrator.Config{
		Mode:            chain.HardBypass,
		ExternalPolicy:  orchestrator.Mirror,
		RequestTimeout:  time.Second,
		HardwareInputs:  mt.HardwareInputs,
		HardwareOutputs: mt.HardwareOutputs,
	})
	d.SetReconciler(orch)
	go d.Run(mt.Events())
	return orch, func() { d.Stop() }
}

func slotKey(v orchestrator.SlotView) (string, float64, bool) {
	var controlValue float64
	for _, c := range v.Controls {
		controlValue += c.Value
	}
	return v.URI, controlValue, v.Bypassed
}

func TestSaveClearLoadRoundTrip(t *testing.T) {
	orch, stop := newTestRig(t)
	defer stop()

	if _, err := orch.RequestAdd("urn:ds1", nil); err != nil {
		t.Fatalf("RequestAdd(ds1) = %v", err)
	}
	if _, err := orch.RequestAdd("urn:mverb", nil); err != nil {
		t.Fatalf("RequestAdd(mverb) = %v", err)
	}
	if err := orch.RequestSetParam("ds1_0", "drive", 0.9); err != nil {
		t.Fatalf("RequestSetParam = %v", err)
	}
	if err := orch.RequestSetBypass("mverb_0", true); err != nil {
		t.Fatalf("RequestSetBypass = %v", err)
	}

	before := orch.Slots()
	beforeKeys := make([]struct {
		uri      string
		control  float64
		bypassed bool
	}, len(before))
	for i, v := range before {
		uri, control, bypassed := slotKey(v)
		beforeKeys[i] = struct {
			uri      string
			control  float64
			bypassed bool
		}{uri, control, bypassed}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "preset.json")
	if err := Save(orch, path); err != nil {
		t.Fatalf("Save = %v", err)
	}

	if err := LoadAndApply(orch, path); err != nil {
		t.Fatalf("LoadAndApply = %v", err)
	}

	after := orch.Slots()
	if len(after) != len(before) {
		t.Fatalf("slot count after round-trip = %d, want %d", len(after), len(before))
	}
	for i, v := range after {
		uri, control, bypassed := slotKey(v)
		want := beforeKeys[i]
		if uri != want.uri || control != want.control || bypassed != want.bypassed {
			t.Fatalf("slot %d after round-trip = (%s, %v, %v), want (%s, %v, %v)",
				i, uri, control, bypassed, want.uri, want.control, want.bypassed)
		}
	}
}

func TestLoadAndApplyMissingFile(t *testing.T) {
	orch, stop := newTestRig(t)
	defer stop()

	if err := LoadAndApply(orch, "/nonexistent/preset.json"); err == nil {
		t.Fatal("LoadAndApply(missing file) = nil error, want error")
	}
}

func TestApplyRejectsUnknownURI(t *testing.T) {
	orch, stop := newTestRig(t)
	defer stop()

	err := Apply(orch, []Entry{{URI: "urn:unknown"}})
	if err == nil {
		t.Fatal("Apply with unknown uri = nil error, want error")
	}
}

func TestLoadParsesSavedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.json")
	data := `[{"index":0,"uri":"urn:ds1","controls":{"drive":0.7},"bypassed":false}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	if len(entries) != 1 || entries[0].URI != "urn:ds1" || entries[0].Controls["drive"] != 0.7 {
		t.Fatalf("Load() = %+v, unexpected", entries)
	}
}
