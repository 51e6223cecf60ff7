package app

import "testing"

func TestStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusQueued, StatusCreating, true},
		{StatusCreating, StatusBuilding, true},
		{StatusBuilding, StatusDeploying, true},
		{StatusDeploying, StatusActive, true},
		{StatusActive, StatusBuilding, true}, // externally-triggered rebuild
		{StatusBuilding, StatusError, true},
		{StatusActive, StatusDeleting, true},
		{StatusDeleting, StatusDeleted, true},
		{StatusError, StatusBuilding, true}, // a failed run is retriggerable
		{StatusQueued, StatusBuilding, false}, // no stage is skipped implicitly
		{StatusCreating, StatusActive, false},
		{StatusDeleted, StatusDeleting, false},
		{StatusError, StatusActive, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestStatusReaches(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusQueued, StatusActive, true},
		{StatusCreating, StatusActive, true},
		{StatusQueued, StatusBuilding, true},
		{StatusActive, StatusActive, true},
		{StatusError, StatusActive, true},
		{StatusDeleted, StatusActive, false},
		{StatusDeleting, StatusBuilding, false},
		{StatusError, StatusQueued, false},
	}
	for _, tc := range cases {
		if got := tc.from.Reaches(tc.to); got != tc.want {
			t.Fatalf("%s reaches %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestPlanRefined(t *testing.T) {
	p := Plan{
		UUID: "p1",
		Blueprint: Blueprint{
			Name:      "theplan",
			Artifacts: []Artifact{{Name: "nodeus"}},
		},
	}
	b := p.Refined()
	if b.UUID != "p1" {
		t.Fatalf("expected the plan uuid injected, got %q", b.UUID)
	}
	if p.Blueprint.UUID != "" {
		t.Fatalf("expected the stored blueprint untouched, got %q", p.Blueprint.UUID)
	}
}
