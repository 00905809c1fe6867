package physics

import (
	"testing"

	"github.com/san-kum/gravswarm/internal/dynamo"
)

func TestAttractor_ToggleTwiceRestores(t *testing.T) {
	a := NewAttractor(dynamo.V(0, 0), 250)
	if a.ForceSign() != 1 {
		t.Fatalf("new attractor sign = %v, want 1", a.ForceSign())
	}

	a.ToggleForceDirection()
	if a.ForceSign() != -1 {
		t.Errorf("after one toggle sign = %v, want -1", a.ForceSign())
	}

	a.ToggleForceDirection()
	if a.ForceSign() != 1 {
		t.Errorf("after two toggles sign = %v, want 1", a.ForceSign())
	}
}

func TestAttractor_UpdateFromExternalPosition(t *testing.T) {
	a := NewAttractor(dynamo.V(0, 0), 250)
	a.UpdateFromExternalPosition(dynamo.V(250, 100), 100)

	if a.Position != dynamo.V(2.5, 1) {
		t.Errorf("position = %v, want (2.5, 1)", a.Position)
	}
	if a.Mass != 250 {
		t.Error("pointer update must not change mass")
	}
}
