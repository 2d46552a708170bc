package transport

import "github.com/shaban/rackless/pkg/chain"

// wireScalePoint mirrors chain.ScalePoint on the wire.
type wireScalePoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// wireControl mirrors chain.Control on the wire, carried by add_plugin's
// response and the "add" event so both report the same initial control
// surface the HOST assembled for the new instance.
type wireControl struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	Value       float64          `json:"value"`
	Default     float64          `json:"default"`
	Min         float64          `json:"min"`
	Max         float64          `json:"max"`
	IsToggled   bool             `json:"is_toggled,omitempty"`
	IsEnum      bool             `json:"is_enum,omitempty"`
	IsInteger   bool             `json:"is_integer,omitempty"`
	ScalePoints []wireScalePoint `json:"scale_points,omitempty"`
}

func controlsFromWire(cs []wireControl) []chain.Control {
	if len(cs) == 0 {
		return nil
	}
	out := make([]chain.Control, len(cs))
	for i, c := range cs {
		points := make([]chain.ScalePoint, len(c.ScalePoints))
		for j, p := range c.ScalePoints {
			points[j] = chain.ScalePoint{Label: p.Label, Value: p.Value}
		}
		out[i] = chain.Control{
			Symbol: c.Symbol, Name: c.Name, Value: c.Value, Default: c.Default,
			Min: c.Min, Max: c.Max, IsToggled: c.IsToggled, IsEnum: c.IsEnum,
			IsInteger: c.IsInteger, ScalePoints: points,
		}
	}
	return out
}

// wireRequest is one line written to the HOST process's stdin. Only the
// op-specific fields that Op uses are set.
type wireRequest struct {
	ID  int64  `json:"id"`
	Op  string `json:"op"`
	URI string `json:"uri,omitempty"`

	Label string `json:"label,omitempty"`

	Src string `json:"src,omitempty"`
	Dst string `json:"dst,omitempty"`

	Symbol string  `json:"symbol,omitempty"`
	Value  float64 `json:"value,omitempty"`

	Bypassed bool `json:"bypassed,omitempty"`
}

// wireResponse is one line read back from the HOST for a request ID.
type wireResponse struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Label string `json:"label,omitempty"`

	AudioIn  []string `json:"audio_in,omitempty"`
	AudioOut []string `json:"audio_out,omitempty"`
	MIDIIn   []string `json:"midi_in,omitempty"`
	MIDIOut  []string `json:"midi_out,omitempty"`

	Inputs  []string `json:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty"`

	Controls []wireControl `json:"controls,omitempty"`
}

// wireEvent is one line of the unsolicited event stream. Line shape
// follows §6's textual grammar translated to JSON: a "type" discriminator
// plus the fields relevant to that type.
type wireEvent struct {
	Type string `json:"type"`

	Label string `json:"label,omitempty"`
	URI   string `json:"uri,omitempty"`

	AudioIn  []string `json:"audio_in,omitempty"`
	AudioOut []string `json:"audio_out,omitempty"`
	MIDIIn   []string `json:"midi_in,omitempty"`
	MIDIOut  []string `json:"midi_out,omitempty"`

	Src string `json:"src,omitempty"`
	Dst string `json:"dst,omitempty"`

	Symbol string  `json:"symbol,omitempty"`
	Value  float64 `json:"value,omitempty"`

	Bypassed bool `json:"bypassed,omitempty"`

	Inputs  []string `json:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty"`

	Controls []wireControl `json:"controls,omitempty"`
}

// envelope is read first to decide whether a stdout line is a response to
// a pending request or an unsolicited event: responses carry a non-zero
// ID the process itself never reuses for events.
type envelope struct {
	ID int64 `json:"id"`
}

func eventKindFromType(t string) (EventKind, bool) {
	switch t {
	case "add":
		return EventAdd, true
	case "remove":
		return EventRemove, true
	case "connect":
		return EventConnect, true
	case "disconnect":
		return EventDisconnect, true
	case "param_set":
		return EventParamSet, true
	case "bypass":
		return EventBypass, true
	case "hardware":
		return EventHardware, true
	default:
		return 0, false
	}
}
