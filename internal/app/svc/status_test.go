package svc

import (
	"testing"

	"github.com/beldeveloper/app-forge/internal/app"
)

func TestStatusAggregate(t *testing.T) {
	s := NewStatus()
	cases := []struct {
		name    string
		current app.Status
		stages  []app.ArtifactStage
		want    app.Status
	}{
		{
			name:    "empty set keeps the current status",
			current: app.StatusCreating,
			want:    app.StatusCreating,
		},
		{
			name:    "minimum progress wins",
			current: app.StatusBuilding,
			stages:  []app.ArtifactStage{app.ArtifactStageBuilt, app.ArtifactStageBuilding},
			want:    app.StatusBuilding,
		},
		{
			name:    "one failure forces error regardless of the rest",
			current: app.StatusBuilding,
			stages:  []app.ArtifactStage{app.ArtifactStageDeployed, app.ArtifactStageFailed},
			want:    app.StatusError,
		},
		{
			name:    "all built moves to deploying",
			current: app.StatusBuilding,
			stages:  []app.ArtifactStage{app.ArtifactStageBuilt, app.ArtifactStageBuilt},
			want:    app.StatusDeploying,
		},
		{
			name:    "all deployed is active",
			current: app.StatusDeploying,
			stages:  []app.ArtifactStage{app.ArtifactStageDeployed, app.ArtifactStageDeployed},
			want:    app.StatusActive,
		},
		{
			name:    "still queued is creating",
			current: app.StatusCreating,
			stages:  []app.ArtifactStage{app.ArtifactStageQueued, app.ArtifactStageBuilding},
			want:    app.StatusCreating,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			states := make([]app.ArtifactState, len(tc.stages))
			for i, st := range tc.stages {
				states[i] = app.ArtifactState{Stage: st}
			}
			got := s.Aggregate(tc.current, states)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
