package chain

// EffectiveSlots returns input_terminal, every non-empty regular slot in
// registry order, then output_terminal — the sequence the Routing Engine
// operates over.
func EffectiveSlots(input, output *Slot, registry *Registry) []*Slot {
	slots := make([]*Slot, 0, registry.Len()+2)
	slots = append(slots, input)
	for _, s := range registry.Ordered() {
		if !s.IsEmpty() {
			slots = append(slots, s)
		}
	}
	slots = append(slots, output)
	return slots
}

// ComputeConnections returns every connection the effective chain should
// carry under the given mode. Audio connections are ordered before MIDI
// connections; within each medium, connections follow chain order.
//
// hard_bypass and dual_track are both implemented as "filter to slots that
// carry the medium (terminals always carry whatever hardware ports they
// were configured with), then pair consecutive survivors" — the two modes
// differ in the original's intent (scanning forward from outputs vs.
// building two wholly separate tracks) but not in the resulting edge set,
// since both already skip slots lacking the medium.
func ComputeConnections(slots []*Slot, mode Mode) []Connection {
	if mode == Linear {
		return linearConnections(slots)
	}
	audio := mediumConnections(slots, true)
	midi := mediumConnections(slots, false)
	return append(audio, midi...)
}

func linearConnections(slots []*Slot) []Connection {
	var conns []Connection
	for i := 0; i+1 < len(slots); i++ {
		conns = append(conns, Pair(slots[i].Source(), slots[i+1].Dest())...)
	}
	return conns
}

// mediumConnections filters slots to those carrying the given medium
// (audio when audio is true, MIDI otherwise) on either side, then pairs
// consecutive survivors for just that medium.
func mediumConnections(slots []*Slot, audio bool) []Connection {
	var carriers []*Slot
	for _, s := range slots {
		src, dst := s.Source(), s.Dest()
		if audio {
			if len(src.Audio) > 0 || len(dst.Audio) > 0 {
				carriers = append(carriers, s)
			}
		} else if len(src.MIDI) > 0 || len(dst.MIDI) > 0 {
			carriers = append(carriers, s)
		}
	}
	var conns []Connection
	for i := 0; i+1 < len(carriers); i++ {
		src, dst := carriers[i].Source(), carriers[i+1].Dest()
		if audio {
			conns = append(conns, pairMedia(src.Audio, src.JoinAudio, dst.Audio, dst.JoinAudio)...)
		} else {
			conns = append(conns, pairMedia(src.MIDI, src.JoinMIDI, dst.MIDI, dst.JoinMIDI)...)
		}
	}
	return conns
}

// Neighbors returns the previous and next non-empty members of the
// effective chain surrounding the slot at registry index idx (which may
// itself be empty/about to be filled) — either may be a terminal.
func Neighbors(input, output *Slot, registry *Registry, idx int) (prev, next *Slot) {
	ordered := registry.Ordered()
	prev = input
	for i := idx - 1; i >= 0; i-- {
		if !ordered[i].IsEmpty() {
			prev = ordered[i]
			break
		}
	}
	next = output
	for i := idx + 1; i < len(ordered); i++ {
		if !ordered[i].IsEmpty() {
			next = ordered[i]
			break
		}
	}
	return prev, next
}
