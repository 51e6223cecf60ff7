package app

import (
	"context"
	"time"
)

const (
	// ArtifactStageQueued defines the stage that means the build request is dispatched but not picked up yet.
	ArtifactStageQueued ArtifactStage = "queued"
	// ArtifactStageBuilding defines the stage that means the worker backend is building the artifact.
	ArtifactStageBuilding ArtifactStage = "building"
	// ArtifactStageBuilt defines the stage that means the artifact image is built.
	ArtifactStageBuilt ArtifactStage = "built"
	// ArtifactStageDeploying defines the stage that means the deployer backend is rolling the artifact out.
	ArtifactStageDeploying ArtifactStage = "deploying"
	// ArtifactStageDeployed defines the stage that means the artifact is running.
	ArtifactStageDeployed ArtifactStage = "deployed"
	// ArtifactStageFailed defines the stage that means the build or deploy attempt failed for good.
	ArtifactStageFailed ArtifactStage = "failed"
)

// ArtifactStage is the progress of a single artifact within an assembly workflow.
type ArtifactStage string

// ArtifactState is a model that represents the last reported state of one artifact operation.
type ArtifactState struct {
	BuildID    string        `json:"buildId"`
	AssemblyID uint64        `json:"assemblyId"`
	Name       string        `json:"name"`
	Stage      ArtifactStage `json:"stage"`
	ErrorMsg   *string       `json:"errorMsg,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// ArtifactStateReport is an out-of-band completion signal from the worker backend,
// correlated back to an artifact by the build id issued at dispatch time.
type ArtifactStateReport struct {
	BuildID  string        `json:"build_id"`
	Stage    ArtifactStage `json:"stage"`
	ErrorMsg *string       `json:"error_msg,omitempty"`
}

// StatusSvc describes the status aggregation service.
type StatusSvc interface {
	Aggregate(current Status, states []ArtifactState) Status
}

// ArtifactStateRepo describes interactions with the artifact state storage.
type ArtifactStateRepo interface {
	Save(ctx context.Context, s ArtifactState) error
	FindByBuildID(ctx context.Context, buildID string) (ArtifactState, error)
	FindByAssembly(ctx context.Context, assemblyID uint64) ([]ArtifactState, error)
	Prune(ctx context.Context, assemblyID uint64, keepBuildIDs []string) error
}
