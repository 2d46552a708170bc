package orchestrator

import (
	"github.com/shaban/rackless/internal/config"
	"github.com/shaban/rackless/internal/reconfig"
	"github.com/shaban/rackless/pkg/chain"
)

// ApplyConfig adopts a new runtime configuration, classifying the edit via
// internal/reconfig before doing anything structural. Only the proposed
// routing_mode and external_policy are adopted; a slots_limit shrink
// clamps trailing slots, and a change to routing_mode, external_policy or
// the hardware join hints triggers a reconnection pass. The terminals keep
// the join hints they were built with, and other fields (server.url, the
// plugin whitelist) are not applied to the running Orchestrator.
func (o *Orchestrator) ApplyConfig(current, proposed config.Config) {
	o.do(func() {
		requirement, clampCount := reconfig.Classify(current, proposed, o.registry.Len())
		previous := chain.ComputeConnections(o.effectiveSlots(), o.mode)

		o.policy = ParsePolicy(proposed.Rack.ExternalPolicy)
		o.mode = proposed.RoutingMode()

		switch requirement {
		case reconfig.ClampRequired:
			o.clampTrailingSlots(clampCount)
			fallthrough
		case reconfig.ReconnectRequired:
			ctx, cancel := o.ctx()
			defer cancel()
			o.state = Editing
			o.reconnectAll(ctx, previous)
			o.state = Idle
		case reconfig.NoChangeRequired:
			o.log.Debug("config change requires no chain action")
		}
	})
}

// clampTrailingSlots removes the last n regular slots, requesting their
// removal from the HOST, used when rack.slots_limit shrinks.
func (o *Orchestrator) clampTrailingSlots(n int) {
	ordered := o.registry.Ordered()
	if n > len(ordered) {
		n = len(ordered)
	}
	ctx, cancel := o.ctx()
	defer cancel()
	for i := len(ordered) - n; i < len(ordered); i++ {
		label := ordered[i].Label
		if label == "" {
			continue
		}
		if err := o.transport.RemovePlugin(ctx, label); err != nil {
			o.log.Warning("remove_plugin(%s) failed during clamp: %v", label, err)
		}
		o.registry.RemoveByLabel(label)
		if o.cb.OnSlotRemoved != nil {
			o.cb.OnSlotRemoved(label)
		}
	}
}
