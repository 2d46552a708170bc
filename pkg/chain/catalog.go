package chain

// PluginConfig is one whitelisted plugin entry from configuration. Port
// overrides, when non-nil, replace the HOST-reported list verbatim;
// HOST-reported ports not mentioned by an override are simply dropped.
type PluginConfig struct {
	Name     string
	URI      string
	Category string

	AudioInputs  []string
	AudioOutputs []string
	MIDIInputs   []string
	MIDIOutputs  []string

	Hints RoutingHints
}

// HostPorts is what the HOST reports for a freshly added plugin instance,
// before configuration overrides are applied: its port lists and its
// initial control surface (symbol, value, and the widget metadata a GUI
// or script needs to render it without re-querying the HOST).
type HostPorts struct {
	AudioInputs  []string
	AudioOutputs []string
	MIDIInputs   []string
	MIDIOutputs  []string

	Controls []Control
}

// Catalog is the Port Model & Configuration Projection component (§4.1):
// the whitelist of plugins loaded once at startup, keyed by URI.
type Catalog struct {
	byURI  map[string]PluginConfig
	byName map[string]PluginConfig
}

// NewCatalog builds a Catalog from the configured plugin entries.
func NewCatalog(entries []PluginConfig) *Catalog {
	c := &Catalog{
		byURI:  make(map[string]PluginConfig, len(entries)),
		byName: make(map[string]PluginConfig, len(entries)),
	}
	for _, e := range entries {
		c.byURI[e.URI] = e
		c.byName[e.Name] = e
	}
	return c
}

// Lookup returns the whitelisted entry for a URI.
func (c *Catalog) Lookup(uri string) (PluginConfig, bool) {
	e, ok := c.byURI[uri]
	return e, ok
}

// LookupByName returns the whitelisted entry for a configured plugin name.
func (c *Catalog) LookupByName(name string) (PluginConfig, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// Entries returns every whitelisted plugin, for introspection/listing.
func (c *Catalog) Entries() []PluginConfig {
	out := make([]PluginConfig, 0, len(c.byURI))
	for _, e := range c.byURI {
		out = append(out, e)
	}
	return out
}

// Instantiate builds a Plugin for a newly-added instance: uri must be
// whitelisted, hostPorts carries what the HOST reported for this
// instance, hostName is the HOST-reported display name (used when the catalog
// entry doesn't override it).
func (c *Catalog) Instantiate(uri, hostName string, hostPorts HostPorts) (*Plugin, error) {
	entry, ok := c.Lookup(uri)
	if !ok {
		return nil, NewError(UnsupportedPlugin, uri, nil)
	}

	name := entry.Name
	if name == "" {
		name = hostName
	}

	audioIn := override(entry.AudioInputs, hostPorts.AudioInputs)
	audioOut := override(entry.AudioOutputs, hostPorts.AudioOutputs)
	midiIn := override(entry.MIDIInputs, hostPorts.MIDIInputs)
	midiOut := override(entry.MIDIOutputs, hostPorts.MIDIOutputs)

	return NewPlugin(uri, name, entry.Category, audioIn, audioOut, midiIn, midiOut, entry.Hints, hostPorts.Controls), nil
}

func override(configured, discovered []string) []string {
	if configured != nil {
		return configured
	}
	return discovered
}
