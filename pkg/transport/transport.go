// Package transport drives the HOST's control channel and event stream.
// The core never talks to the HOST directly; it only sees the Transport
// interface, so a process-backed implementation and an in-memory mock can
// be swapped without touching the orchestrator.
package transport

import (
	"context"

	"github.com/shaban/rackless/pkg/chain"
)

// EventKind tags one line of the HOST's event stream (§6).
type EventKind int

const (
	EventAdd EventKind = iota
	EventRemove
	EventConnect
	EventDisconnect
	EventParamSet
	EventBypass
	EventHardware
)

func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventParamSet:
		return "param_set"
	case EventBypass:
		return "bypass"
	case EventHardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// Event is one line of the event stream, already decoded. Fields outside
// a given Kind's relevance are zero.
type Event struct {
	Kind EventKind

	Label string
	URI   string

	AudioIn  []string
	AudioOut []string
	MIDIIn   []string
	MIDIOut  []string

	// Controls carries the plugin's initial control surface on an add
	// event, mirroring what the add_plugin response itself returns.
	Controls []chain.Control

	Src string
	Dst string

	Symbol string
	Value  float64

	Bypassed bool

	HardwareInputs  []string
	HardwareOutputs []string
}

// Transport is every operation the core needs from the HOST: the
// request/response control channel of §6 plus the event stream it reacts
// to. Implementations must deliver Events() in HOST emission order and
// must be safe to call concurrently from multiple intents in flight.
type Transport interface {
	// AddPlugin creates an instance and returns its HOST-assigned label
	// plus the ports the HOST reports for it (§4.1 feeds these into the
	// Port Model's override projection).
	AddPlugin(ctx context.Context, uri string) (label string, ports chain.HostPorts, err error)
	RemovePlugin(ctx context.Context, label string) error
	Connect(ctx context.Context, src, dst string) error
	Disconnect(ctx context.Context, src, dst string) error
	SetParam(ctx context.Context, label, symbol string, value float64) error
	SetBypass(ctx context.Context, label string, bypassed bool) error
	ListHardwarePorts(ctx context.Context) (inputs, outputs []string, err error)

	// Events returns the channel events are delivered on. Valid only
	// after Start returns successfully.
	Events() <-chan Event

	// Start begins driving the HOST (spawning the process, opening the
	// socket, whatever the implementation needs) and begins delivering
	// events.
	Start(ctx context.Context) error

	// Stop shuts the transport down, closing Events().
	Stop() error
}
