// Package preset implements save/load of the JSON preset format named in
// §6, grounded on modep_rig/rig.py's get_state/set_state/save_preset/
// load_preset: a preset is the ordered list of slot URIs plus their
// control values and bypass state, reloadable into an empty chain.
package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shaban/rackless/pkg/orchestrator"
)

// Entry is one slot's persisted state.
type Entry struct {
	Index    int                `json:"index"`
	URI      string             `json:"uri"`
	Controls map[string]float64 `json:"controls"`
	Bypassed bool               `json:"bypassed"`
}

// Snapshot captures the Orchestrator's current slots in preset form, the
// Go equivalent of rig.py's get_state.
func Snapshot(o *orchestrator.Orchestrator) []Entry {
	views := o.Slots()
	out := make([]Entry, 0, len(views))
	for _, v := range views {
		if v.Empty {
			continue
		}
		controls := make(map[string]float64, len(v.Controls))
		for symbol, c := range v.Controls {
			controls[symbol] = c.Value
		}
		out = append(out, Entry{Index: v.Index, URI: v.URI, Controls: controls, Bypassed: v.Bypassed})
	}
	return out
}

// Save writes a Snapshot to path as JSON, mirroring rig.py's save_preset.
func Save(o *orchestrator.Orchestrator, path string) error {
	data, err := json.MarshalIndent(Snapshot(o), "", "  ")
	if err != nil {
		return fmt.Errorf("preset: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("preset: write %s: %w", path, err)
	}
	return nil
}

// Load reads a preset file and returns its entries without applying them,
// letting the caller decide how to clear/rebuild the chain (Apply does
// both in one step).
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", path, err)
	}
	return entries, nil
}

// Apply clears the Orchestrator's chain and recreates slots from entries
// in order, applying controls and bypass state afterward. The clear uses
// RequestClear's single reconnection pass; each entry is then added with
// its own RequestAdd, so every slot is wired in by a make-before-break
// insert rather than by one bulk recomputation.
func Apply(o *orchestrator.Orchestrator, entries []Entry) error {
	if err := o.RequestClear(); err != nil {
		return fmt.Errorf("preset: clear before load: %w", err)
	}
	for _, e := range entries {
		view, err := o.RequestAdd(e.URI, nil)
		if err != nil {
			return fmt.Errorf("preset: add %s: %w", e.URI, err)
		}
		for symbol, value := range e.Controls {
			if err := o.RequestSetParam(view.Label, symbol, value); err != nil {
				return fmt.Errorf("preset: set_param %s.%s: %w", view.Label, symbol, err)
			}
		}
		if e.Bypassed {
			if err := o.RequestSetBypass(view.Label, true); err != nil {
				return fmt.Errorf("preset: set_bypass %s: %w", view.Label, err)
			}
		}
	}
	return nil
}

// LoadAndApply is the common case: read a preset file and apply it.
func LoadAndApply(o *orchestrator.Orchestrator, path string) error {
	entries, err := Load(path)
	if err != nil {
		return err
	}
	return Apply(o, entries)
}
