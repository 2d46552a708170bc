package reconfig

import (
	"testing"

	"github.com/shaban/rackless/internal/config"
)

func baseConfig() config.Config {
	return config.Config{Rack: config.RackConfig{RoutingMode: "hard_bypass", ExternalPolicy: "mirror"}}
}

func TestClassifyNoChangeOnIrrelevantEdit(t *testing.T) {
	current := baseConfig()
	proposed := baseConfig()
	proposed.Server.URL = "ws://otherhost:9000"

	req, n := Classify(current, proposed, 3)
	if req != NoChangeRequired {
		t.Fatalf("Classify() = %v, want NoChangeRequired", req)
	}
	if n != 0 {
		t.Fatalf("clamp count = %d, want 0", n)
	}
}

func TestClassifyReconnectOnRoutingModeChange(t *testing.T) {
	current := baseConfig()
	proposed := baseConfig()
	proposed.Rack.RoutingMode = "dual_track"

	req, _ := Classify(current, proposed, 3)
	if req != ReconnectRequired {
		t.Fatalf("Classify() = %v, want ReconnectRequired", req)
	}
}

func TestClassifyReconnectOnExternalPolicyChange(t *testing.T) {
	current := baseConfig()
	proposed := baseConfig()
	proposed.Rack.ExternalPolicy = "enforce"

	req, _ := Classify(current, proposed, 3)
	if req != ReconnectRequired {
		t.Fatalf("Classify() = %v, want ReconnectRequired", req)
	}
}

func TestClassifyReconnectOnJoinHintChange(t *testing.T) {
	current := baseConfig()
	proposed := baseConfig()
	proposed.Hardware.JoinAudioInputs = true

	req, _ := Classify(current, proposed, 3)
	if req != ReconnectRequired {
		t.Fatalf("Classify() = %v, want ReconnectRequired", req)
	}
}

func TestClassifyClampOnSlotsLimitShrink(t *testing.T) {
	current := baseConfig()
	proposed := baseConfig()
	proposed.Rack.SlotsLimit = 2

	req, n := Classify(current, proposed, 5)
	if req != ClampRequired {
		t.Fatalf("Classify() = %v, want ClampRequired", req)
	}
	if n != 3 {
		t.Fatalf("clamp count = %d, want 3", n)
	}
}

func TestClassifyClampTakesPriorityOverModeChange(t *testing.T) {
	current := baseConfig()
	proposed := baseConfig()
	proposed.Rack.SlotsLimit = 1
	proposed.Rack.RoutingMode = "dual_track"

	req, n := Classify(current, proposed, 4)
	if req != ClampRequired {
		t.Fatalf("Classify() = %v, want ClampRequired when both clamp and mode change apply", req)
	}
	if n != 3 {
		t.Fatalf("clamp count = %d, want 3", n)
	}
}

func TestClassifySlotsLimitAboveCurrentCountIsNotClamp(t *testing.T) {
	current := baseConfig()
	proposed := baseConfig()
	proposed.Rack.SlotsLimit = 10

	req, _ := Classify(current, proposed, 3)
	if req != NoChangeRequired {
		t.Fatalf("Classify() = %v, want NoChangeRequired when slots_limit exceeds current count", req)
	}
}

func TestChangeRequirementString(t *testing.T) {
	cases := map[ChangeRequirement]string{
		NoChangeRequired:  "no-change",
		ReconnectRequired: "reconnect",
		ClampRequired:     "clamp",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", int(r), got, want)
		}
	}
}
