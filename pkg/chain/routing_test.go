package chain

import (
	"reflect"
	"testing"
)

func TestPairOneToOne(t *testing.T) {
	src := Endpoint{Audio: []string{"a_out"}}
	dst := Endpoint{Audio: []string{"b_in"}}
	got := Pair(src, dst)
	want := []Connection{{Src: "a_out", Dst: "b_in"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pair() = %v, want %v", got, want)
	}
}

func TestPairEmptyEitherSide(t *testing.T) {
	if got := Pair(Endpoint{}, Endpoint{Audio: []string{"in"}}); got != nil {
		t.Fatalf("expected nil for empty source, got %v", got)
	}
	if got := Pair(Endpoint{Audio: []string{"out"}}, Endpoint{}); got != nil {
		t.Fatalf("expected nil for empty dest, got %v", got)
	}
}

func TestPairMonoToStereoFanOut(t *testing.T) {
	src := Endpoint{Audio: []string{"m"}}
	dst := Endpoint{Audio: []string{"l", "r"}}
	got := Pair(src, dst)
	want := []Connection{{Src: "m", Dst: "l"}, {Src: "m", Dst: "r"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pair() = %v, want %v", got, want)
	}
}

func TestPairStereoToMonoFanIn(t *testing.T) {
	src := Endpoint{Audio: []string{"l", "r"}}
	dst := Endpoint{Audio: []string{"m"}}
	got := Pair(src, dst)
	want := []Connection{{Src: "l", Dst: "m"}, {Src: "r", Dst: "m"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pair() = %v, want %v", got, want)
	}
}

func TestPairFoldExtraOutputsIntoLastInput(t *testing.T) {
	src := Endpoint{Audio: []string{"o1", "o2", "o3"}}
	dst := Endpoint{Audio: []string{"i1", "i2"}}
	got := Pair(src, dst)
	want := []Connection{
		{Src: "o1", Dst: "i1"},
		{Src: "o2", Dst: "i2"},
		{Src: "o3", Dst: "i2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pair() = %v, want %v", got, want)
	}
}

func TestPairFoldFromLastOutput(t *testing.T) {
	src := Endpoint{Audio: []string{"o1", "o2"}}
	dst := Endpoint{Audio: []string{"i1", "i2", "i3"}}
	got := Pair(src, dst)
	want := []Connection{
		{Src: "o1", Dst: "i1"},
		{Src: "o2", Dst: "i2"},
		{Src: "o2", Dst: "i3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pair() = %v, want %v", got, want)
	}
}

func TestPairJoinIsCartesian(t *testing.T) {
	src := Endpoint{Audio: []string{"a", "b"}, JoinAudio: true}
	dst := Endpoint{Audio: []string{"x", "y"}}
	got := Pair(src, dst)
	want := []Connection{
		{Src: "a", Dst: "x"}, {Src: "a", Dst: "y"},
		{Src: "b", Dst: "x"}, {Src: "b", Dst: "y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pair() = %v, want %v", got, want)
	}
}

func TestPairAudioBeforeMIDI(t *testing.T) {
	src := Endpoint{Audio: []string{"a_out"}, MIDI: []string{"m_out"}}
	dst := Endpoint{Audio: []string{"a_in"}, MIDI: []string{"m_in"}}
	got := Pair(src, dst)
	want := []Connection{
		{Src: "a_out", Dst: "a_in"},
		{Src: "m_out", Dst: "m_in"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pair() = %v, want %v", got, want)
	}
}

func TestComputeConnectionsEmptyChainConnectsTerminalsDirectly(t *testing.T) {
	in := NewInputTerminal([]string{"capture_1"}, nil, false)
	out := NewOutputTerminal([]string{"playback_1"}, nil, false)
	slots := EffectiveSlots(in, out, NewRegistry())
	got := ComputeConnections(slots, HardBypass)
	want := []Connection{{Src: "capture_1", Dst: "playback_1"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ComputeConnections() = %v, want %v", got, want)
	}
}

func TestComputeConnectionsSkipsEmptySlotsInHardBypass(t *testing.T) {
	in := NewInputTerminal([]string{"capture_1"}, nil, false)
	out := NewOutputTerminal([]string{"playback_1"}, nil, false)
	r := NewRegistry()
	filled := NewSlot()
	filled.Label = "ds1"
	filled.Plugin = NewPlugin("ds1_uri", "DS1", "distortion", []string{"in"}, []string{"out"}, nil, nil, RoutingHints{}, nil)
	r.Append(filled)
	r.Append(NewSlot()) // empty slot, must be skipped

	slots := EffectiveSlots(in, out, r)
	got := ComputeConnections(slots, HardBypass)
	want := []Connection{
		{Src: "capture_1", Dst: "in"},
		{Src: "out", Dst: "playback_1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ComputeConnections() = %v, want %v", got, want)
	}
}

func TestComputeConnectionsDeterministic(t *testing.T) {
	in := NewInputTerminal([]string{"capture_1"}, nil, false)
	out := NewOutputTerminal([]string{"playback_1"}, nil, false)
	r := NewRegistry()
	r.Append(NewSlot())
	slots := EffectiveSlots(in, out, r)

	first := ComputeConnections(slots, HardBypass)
	second := ComputeConnections(slots, HardBypass)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ComputeConnections() not deterministic: %v vs %v", first, second)
	}
}
