package chain

// ScalePoint is one fixed value/label pair of an enumerated control,
// mirroring the scale_points a HOST reports for controls like selectors.
type ScalePoint struct {
	Label string
	Value float64
}

// Control is one entry of a Plugin's control surface. It carries enough
// metadata for a caller to render a correct widget without re-querying the
// HOST; the core never renders anything itself.
type Control struct {
	Symbol      string
	Name        string
	Value       float64
	Default     float64
	Min         float64
	Max         float64
	IsToggled   bool
	IsEnum      bool
	IsInteger   bool
	ScalePoints []ScalePoint
}

// Plugin is the immutable descriptor plus mutable control surface of one
// loaded plugin instance. Port lists are the *effective* ones: overrides
// from configuration, if present, already replace whatever the HOST
// reported (see Catalog.Instantiate).
type Plugin struct {
	URI      string
	Name     string
	Category string

	AudioInputs  []string
	AudioOutputs []string
	MIDIInputs   []string
	MIDIOutputs  []string

	JoinAudioInputs  bool
	JoinAudioOutputs bool
	JoinMIDIInputs   bool
	JoinMIDIOutputs  bool

	controls map[string]*Control
	bypassed bool
}

// NewPlugin builds a Plugin from discovered/overridden port lists and hints.
// controls is copied so later HOST param_set events never alias caller state.
func NewPlugin(uri, name, category string, audioIn, audioOut, midiIn, midiOut []string, hints RoutingHints, controls []Control) *Plugin {
	p := &Plugin{
		URI:              uri,
		Name:             name,
		Category:         category,
		AudioInputs:      append([]string(nil), audioIn...),
		AudioOutputs:     append([]string(nil), audioOut...),
		MIDIInputs:       append([]string(nil), midiIn...),
		MIDIOutputs:      append([]string(nil), midiOut...),
		JoinAudioInputs:  hints.JoinAudioInputs,
		JoinAudioOutputs: hints.JoinAudioOutputs,
		JoinMIDIInputs:   hints.JoinMIDIInputs,
		JoinMIDIOutputs:  hints.JoinMIDIOutputs,
		controls:         make(map[string]*Control, len(controls)),
	}
	for i := range controls {
		c := controls[i]
		p.controls[c.Symbol] = &c
	}
	return p
}

// RoutingHints are the four join booleans a plugin's configuration entry
// may set, independent of the terminals' own hardware join hints.
type RoutingHints struct {
	JoinAudioInputs  bool
	JoinAudioOutputs bool
	JoinMIDIInputs   bool
	JoinMIDIOutputs  bool
}

// SetControl updates a control's value in place. Reports whether the symbol
// was known; an unknown symbol is silently ignored by callers that treat it
// as "HOST reported a control we never loaded" rather than an error.
func (p *Plugin) SetControl(symbol string, value float64) bool {
	c, ok := p.controls[symbol]
	if !ok {
		return false
	}
	c.Value = value
	return true
}

// Control returns a copy of the named control and whether it exists.
func (p *Plugin) Control(symbol string) (Control, bool) {
	c, ok := p.controls[symbol]
	if !ok {
		return Control{}, false
	}
	return *c, true
}

// Controls returns a snapshot of the full control surface, keyed by symbol.
func (p *Plugin) Controls() map[string]Control {
	out := make(map[string]Control, len(p.controls))
	for k, v := range p.controls {
		out[k] = *v
	}
	return out
}

// Bypassed reports the plugin's current bypass state.
func (p *Plugin) Bypassed() bool { return p.bypassed }

// SetBypassed updates the bypass state.
func (p *Plugin) SetBypassed(b bool) { p.bypassed = b }
