package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shaban/rackless/pkg/chain"
)

// MockPlugin is the canned port report a MockTransport returns for one
// URI, the same idiom pkg/devices/stub.go uses for canned device data.
type MockPlugin struct {
	Name  string
	Ports chain.HostPorts
}

// MockTransport is an in-memory Transport with no real HOST process. It
// echoes one event for every mutating request it receives, and test code
// can inject further HOST events through Push. It is the
// seam used to replay the literal end-to-end scenarios in §8 against a
// real Orchestrator.
type MockTransport struct {
	mu sync.Mutex

	Plugins         map[string]MockPlugin
	HardwareInputs  []string
	HardwareOutputs []string

	nextLabel map[string]int
	events    chan Event

	// Calls records every plugin, connection and control request this
	// transport received (not ListHardwarePorts), in order, for
	// assertions on the make-before-break connect/disconnect trace
	// property (§8 invariant 3).
	Calls []string
}

// NewMockTransport builds a mock seeded with the given plugin catalog.
func NewMockTransport(plugins map[string]MockPlugin, hwIn, hwOut []string) *MockTransport {
	return &MockTransport{
		Plugins:         plugins,
		HardwareInputs:  hwIn,
		HardwareOutputs: hwOut,
		nextLabel:       make(map[string]int),
		events:          make(chan Event, 256),
	}
}

func (m *MockTransport) Start(ctx context.Context) error { return nil }

func (m *MockTransport) Stop() error {
	close(m.events)
	return nil
}

func (m *MockTransport) Events() <-chan Event { return m.events }

// Push injects an event as if the HOST had emitted it, used by tests that
// exercise the reconciliation path directly.
func (m *MockTransport) Push(ev Event) { m.events <- ev }

func (m *MockTransport) record(format string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
	m.mu.Unlock()
}

func (m *MockTransport) AddPlugin(ctx context.Context, uri string) (string, chain.HostPorts, error) {
	m.mu.Lock()

	p, ok := m.Plugins[uri]
	if !ok {
		m.mu.Unlock()
		return "", chain.HostPorts{}, fmt.Errorf("mock transport: unknown plugin uri %q", uri)
	}

	base := labelBase(uri)
	n := m.nextLabel[base]
	m.nextLabel[base] = n + 1
	label := fmt.Sprintf("%s_%d", base, n)

	m.Calls = append(m.Calls, fmt.Sprintf("add_plugin(%s) -> %s", uri, label))
	m.mu.Unlock()
	m.events <- Event{
		Kind: EventAdd, Label: label, URI: uri,
		AudioIn: p.Ports.AudioInputs, AudioOut: p.Ports.AudioOutputs,
		MIDIIn: p.Ports.MIDIInputs, MIDIOut: p.Ports.MIDIOutputs,
		Controls: p.Ports.Controls,
	}
	return label, p.Ports, nil
}

func (m *MockTransport) RemovePlugin(ctx context.Context, label string) error {
	m.record("remove_plugin(%s)", label)
	m.events <- Event{Kind: EventRemove, Label: label}
	return nil
}

func (m *MockTransport) Connect(ctx context.Context, src, dst string) error {
	m.record("connect(%s, %s)", src, dst)
	m.events <- Event{Kind: EventConnect, Src: src, Dst: dst}
	return nil
}

func (m *MockTransport) Disconnect(ctx context.Context, src, dst string) error {
	m.record("disconnect(%s, %s)", src, dst)
	m.events <- Event{Kind: EventDisconnect, Src: src, Dst: dst}
	return nil
}

func (m *MockTransport) SetParam(ctx context.Context, label, symbol string, value float64) error {
	m.record("set_param(%s, %s, %v)", label, symbol, value)
	m.events <- Event{Kind: EventParamSet, Label: label, Symbol: symbol, Value: value}
	return nil
}

func (m *MockTransport) SetBypass(ctx context.Context, label string, bypassed bool) error {
	m.record("set_bypass(%s, %v)", label, bypassed)
	m.events <- Event{Kind: EventBypass, Label: label, Bypassed: bypassed}
	return nil
}

func (m *MockTransport) ListHardwarePorts(ctx context.Context) ([]string, []string, error) {
	return m.HardwareInputs, m.HardwareOutputs, nil
}

// labelBase mirrors the original reference implementation's
// _generate_label: strip any URI fragment, take the last segment after a
// '/' or ':' (so "urn:ds1" yields "ds1").
func labelBase(uri string) string {
	s := uri
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	last := s
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		last = s[i+1:]
	}
	if last == "" {
		last = "plugin"
	}
	return last
}
