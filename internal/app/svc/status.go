package svc

import "github.com/beldeveloper/app-forge/internal/app"

// stageRank orders the artifact stages by progress.
var stageRank = map[app.ArtifactStage]int{
	app.ArtifactStageQueued:    0,
	app.ArtifactStageBuilding:  1,
	app.ArtifactStageBuilt:     2,
	app.ArtifactStageDeploying: 3,
	app.ArtifactStageDeployed:  4,
}

// NewStatus creates a new instance of the status aggregation service.
func NewStatus() app.StatusSvc {
	return Status{}
}

// Status is a service that derives the assembly status from its artifact states.
type Status struct{}

// Aggregate returns the minimum-progress status among all artifact states.
// A single failed artifact forces the whole assembly into the error status;
// a multi-artifact assembly is never partially active. An empty state set
// keeps the current status.
func (s Status) Aggregate(current app.Status, states []app.ArtifactState) app.Status {
	if len(states) == 0 {
		return current
	}
	min := app.ArtifactStageDeployed
	for _, st := range states {
		if st.Stage == app.ArtifactStageFailed {
			return app.StatusError
		}
		if stageRank[st.Stage] < stageRank[min] {
			min = st.Stage
		}
	}
	switch min {
	case app.ArtifactStageQueued:
		return app.StatusCreating
	case app.ArtifactStageBuilding:
		return app.StatusBuilding
	case app.ArtifactStageBuilt, app.ArtifactStageDeploying:
		return app.StatusDeploying
	default:
		return app.StatusActive
	}
}
