package chain

import "github.com/google/uuid"

// TerminalRole distinguishes the two sentinels that bookend a chain.
type TerminalRole int

const (
	// NotTerminal marks a regular slot.
	NotTerminal TerminalRole = iota
	// InputTerminal stands for the HOST's hardware capture ports.
	InputTerminal
	// OutputTerminal stands for the HOST's hardware playback ports.
	OutputTerminal
)

// InputTerminalLabel and OutputTerminalLabel are the fixed pseudo-labels
// used when a terminal needs to appear as a connection endpoint's owner in
// logs or suppression predicates. They never occupy a Registry index.
const (
	InputTerminalLabel  = "input_terminal"
	OutputTerminalLabel = "output_terminal"
)

// Slot is a position in the chain. Regular slots are created and destroyed
// by the Orchestrator; terminal slots are fixed sentinels held outside the
// Registry (see EffectiveSlots).
type Slot struct {
	ID     uuid.UUID
	Label  string
	Index  int
	Plugin *Plugin

	terminal TerminalRole
	hwAudio  []string
	hwMIDI   []string
	// joinOut/joinIn are the hardware-level join hints carried from
	// configuration (hardware.join_audio_inputs / join_audio_outputs).
	// Only meaningful on terminal slots.
	joinOut bool
	joinIn  bool
}

// NewSlot creates an empty regular slot. The caller assigns Plugin and
// Label once the HOST confirms the add.
func NewSlot() *Slot {
	return &Slot{ID: uuid.New()}
}

// NewInputTerminal builds the input_terminal sentinel with the given
// hardware capture ports and hardware.join_audio_inputs hint.
func NewInputTerminal(audioPorts, midiPorts []string, join bool) *Slot {
	return &Slot{
		ID:       uuid.New(),
		Label:    InputTerminalLabel,
		terminal: InputTerminal,
		hwAudio:  audioPorts,
		hwMIDI:   midiPorts,
		joinOut:  join,
	}
}

// NewOutputTerminal builds the output_terminal sentinel with the given
// hardware playback ports and hardware.join_audio_outputs hint.
func NewOutputTerminal(audioPorts, midiPorts []string, join bool) *Slot {
	return &Slot{
		ID:       uuid.New(),
		Label:    OutputTerminalLabel,
		terminal: OutputTerminal,
		hwAudio:  audioPorts,
		hwMIDI:   midiPorts,
		joinIn:   join,
	}
}

// IsTerminal reports whether the slot is one of the two sentinels.
func (s *Slot) IsTerminal() bool { return s.terminal != NotTerminal }

// IsEmpty reports whether a regular slot carries no plugin. Terminals are
// never considered empty; they always participate in routing.
func (s *Slot) IsEmpty() bool {
	return !s.IsTerminal() && s.Plugin == nil
}

// Source returns the slot's outbound endpoint for the Routing Engine: the
// ports and join hints it offers as a connection source. Empty regular
// slots return a zero Source and must be filtered out of the effective
// chain before this is called.
func (s *Slot) Source() Endpoint {
	switch s.terminal {
	case InputTerminal:
		return Endpoint{Audio: s.hwAudio, MIDI: s.hwMIDI, JoinAudio: s.joinOut, JoinMIDI: s.joinOut}
	case OutputTerminal:
		return Endpoint{}
	default:
		if s.Plugin == nil {
			return Endpoint{}
		}
		return Endpoint{
			Audio:     s.Plugin.AudioOutputs,
			MIDI:      s.Plugin.MIDIOutputs,
			JoinAudio: s.Plugin.JoinAudioOutputs,
			JoinMIDI:  s.Plugin.JoinMIDIOutputs,
		}
	}
}

// Dest returns the slot's inbound endpoint for the Routing Engine.
func (s *Slot) Dest() Endpoint {
	switch s.terminal {
	case OutputTerminal:
		return Endpoint{Audio: s.hwAudio, MIDI: s.hwMIDI, JoinAudio: s.joinIn, JoinMIDI: s.joinIn}
	case InputTerminal:
		return Endpoint{}
	default:
		if s.Plugin == nil {
			return Endpoint{}
		}
		return Endpoint{
			Audio:     s.Plugin.AudioInputs,
			MIDI:      s.Plugin.MIDIInputs,
			JoinAudio: s.Plugin.JoinAudioInputs,
			JoinMIDI:  s.Plugin.JoinMIDIInputs,
		}
	}
}

// HasAudio reports whether the slot exposes any audio port at all, the
// same test mediumConnections applies in hard_bypass/dual_track mode to
// decide whether a slot is visible to the audio track.
func (s *Slot) HasAudio() bool {
	src, dst := s.Source(), s.Dest()
	return len(src.Audio) > 0 || len(dst.Audio) > 0
}

// HasMIDI is the MIDI equivalent of HasAudio.
func (s *Slot) HasMIDI() bool {
	src, dst := s.Source(), s.Dest()
	return len(src.MIDI) > 0 || len(dst.MIDI) > 0
}
