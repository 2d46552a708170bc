// Package reconfig classifies a runtime configuration edit into the
// action it requires, the way shaban-rackless's audio engine reconfiguration
// classified a device/sample-rate change into no-change / chain-rebuild /
// process-restart. Here the domain is rack policy rather than the audio
// engine: a routing_mode, external_policy or hardware join hint edit
// forces a full reconnect pass, a slots_limit shrink forces clamping,
// anything else is a no-op.
package reconfig

import "github.com/shaban/rackless/internal/config"

// ChangeRequirement tags what a configuration edit requires of the
// running Orchestrator, mirroring the teacher's ChangeRequirement enum.
type ChangeRequirement int

const (
	// NoChangeRequired means the new config differs only in fields the
	// running chain doesn't need to react to (e.g. server.url).
	NoChangeRequired ChangeRequirement = iota
	// ReconnectRequired means routing_mode, external_policy or a hardware
	// join hint changed; the Orchestrator must recompute and re-apply
	// every connection.
	ReconnectRequired
	// ClampRequired means rack.slots_limit shrank below the current
	// slot count; trailing slots must be removed before anything else.
	ClampRequired
)

func (r ChangeRequirement) String() string {
	switch r {
	case NoChangeRequired:
		return "no-change"
	case ReconnectRequired:
		return "reconnect"
	case ClampRequired:
		return "clamp"
	default:
		return "unknown"
	}
}

// Classify compares the running configuration to a proposed one and
// reports what the Orchestrator must do to adopt it, plus how many
// trailing slots a ClampRequired change would remove.
func Classify(current, proposed config.Config, currentSlotCount int) (ChangeRequirement, int) {
	if proposed.Rack.SlotsLimit > 0 && proposed.Rack.SlotsLimit < currentSlotCount {
		return ClampRequired, currentSlotCount - proposed.Rack.SlotsLimit
	}
	if proposed.Rack.RoutingMode != current.Rack.RoutingMode {
		return ReconnectRequired, 0
	}
	if proposed.Rack.ExternalPolicy != current.Rack.ExternalPolicy {
		return ReconnectRequired, 0
	}
	if !sameJoinHints(current, proposed) {
		return ReconnectRequired, 0
	}
	return NoChangeRequired, 0
}

func sameJoinHints(a, b config.Config) bool {
	return a.Hardware.JoinAudioInputs == b.Hardware.JoinAudioInputs &&
		a.Hardware.JoinAudioOutputs == b.Hardware.JoinAudioOutputs
}
