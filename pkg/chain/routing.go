package chain

// Endpoint is one side of a connection computation: the ports a slot
// offers on one medium plus the join hint relevant to that side (join
// hints on the opposite role of the same medium are irrelevant here and
// left zero by the caller).
type Endpoint struct {
	Audio     []string
	MIDI      []string
	JoinAudio bool
	JoinMIDI  bool
}

// Connection is one directed edge the Routing Engine wants realized.
type Connection struct {
	Src string
	Dst string
}

// Mode selects how the Routing Engine treats non-adjacent or
// medium-missing slots when computing the effective chain's connections.
type Mode int

const (
	// Linear routes only between literally adjacent non-empty slots.
	Linear Mode = iota
	// HardBypass (default) scans forward past slots lacking a medium.
	HardBypass
	// DualTrack computes independent audio and MIDI tracks, each over
	// only the slots that carry that medium.
	DualTrack
)

// ParseMode maps a configuration string to a Mode, defaulting to
// HardBypass for anything unrecognized.
func ParseMode(s string) Mode {
	switch s {
	case "linear":
		return Linear
	case "dual_track":
		return DualTrack
	default:
		return HardBypass
	}
}

// Pair computes the ordered connections between one source endpoint and
// one destination endpoint, audio first then MIDI, per the seven pairing
// rules. It is a pure function: identical inputs always produce an
// identical, ordered result.
func Pair(src, dst Endpoint) []Connection {
	conns := pairMedia(src.Audio, src.JoinAudio, dst.Audio, dst.JoinAudio)
	conns = append(conns, pairMedia(src.MIDI, src.JoinMIDI, dst.MIDI, dst.JoinMIDI)...)
	return conns
}

func pairMedia(outs []string, joinOut bool, ins []string, joinIn bool) []Connection {
	m, n := len(outs), len(ins)

	if joinOut || joinIn {
		conns := make([]Connection, 0, m*n)
		for _, o := range outs {
			for _, i := range ins {
				conns = append(conns, Connection{Src: o, Dst: i})
			}
		}
		return conns
	}

	if m == 0 || n == 0 {
		return nil
	}

	if m == n {
		conns := make([]Connection, n)
		for i := range outs {
			conns[i] = Connection{Src: outs[i], Dst: ins[i]}
		}
		return conns
	}

	if m == 1 {
		conns := make([]Connection, n)
		for i := range ins {
			conns[i] = Connection{Src: outs[0], Dst: ins[i]}
		}
		return conns
	}

	if n == 1 {
		conns := make([]Connection, m)
		for i := range outs {
			conns[i] = Connection{Src: outs[i], Dst: ins[0]}
		}
		return conns
	}

	if m > n {
		conns := make([]Connection, 0, m)
		for i := 0; i < n; i++ {
			conns = append(conns, Connection{Src: outs[i], Dst: ins[i]})
		}
		for i := n; i < m; i++ {
			conns = append(conns, Connection{Src: outs[i], Dst: ins[n-1]})
		}
		return conns
	}

	// m < n: outs[i]->ins[i] for i<m, then outs[m-1]->ins[j] for j in [m,n)
	conns := make([]Connection, 0, n)
	for i := 0; i < m; i++ {
		conns = append(conns, Connection{Src: outs[i], Dst: ins[i]})
	}
	for j := m; j < n; j++ {
		conns = append(conns, Connection{Src: outs[m-1], Dst: ins[j]})
	}
	return conns
}
