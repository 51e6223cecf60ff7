package app

import (
	"context"
	"time"
)

const (
	// StatusQueued defines the status that means the assembly is persisted but its builds are not dispatched yet.
	StatusQueued Status = "queued"
	// StatusCreating defines the status that means the build requests are dispatched to the worker backend.
	StatusCreating Status = "creating"
	// StatusBuilding defines the status that means the worker backend is building the assembly artifacts.
	StatusBuilding Status = "building"
	// StatusDeploying defines the status that means the deployer backend is rolling out the built artifacts.
	StatusDeploying Status = "deploying"
	// StatusActive defines the status that means every artifact is built and deployed.
	StatusActive Status = "active"
	// StatusError defines the status that means the assembly failed and requires a new workflow run.
	StatusError Status = "error"
	// StatusDeleting defines the status that means the teardown is requested.
	StatusDeleting Status = "deleting"
	// StatusDeleted defines the status that means the teardown is confirmed; the record is never reused.
	StatusDeleted Status = "deleted"
)

// Status is the assembly lifecycle status.
type Status string

// statusTransitions holds the allowed direct transitions; the workflow itself never
// skips a stage. An externally requested run is the exception: it re-enters at the
// building status from any live status, so only the delete path fences it off.
var statusTransitions = map[Status][]Status{
	StatusQueued:    {StatusCreating, StatusError, StatusDeleting},
	StatusCreating:  {StatusBuilding, StatusError, StatusDeleting},
	StatusBuilding:  {StatusDeploying, StatusError, StatusDeleting},
	StatusDeploying: {StatusActive, StatusError, StatusDeleting},
	StatusActive:    {StatusBuilding, StatusError, StatusDeleting},
	StatusError:     {StatusBuilding, StatusDeleting},
	StatusDeleting:  {StatusDeleted},
	StatusDeleted:   {},
}

// CanTransition reports whether the direct transition to the given status is allowed.
func (s Status) CanTransition(to Status) bool {
	for _, next := range statusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Reaches reports whether the given status is reachable through allowed transitions.
func (s Status) Reaches(to Status) bool {
	if s == to {
		return true
	}
	visited := map[Status]bool{s: true}
	frontier := statusTransitions[s]
	for len(frontier) > 0 {
		next := make([]Status, 0)
		for _, st := range frontier {
			if st == to {
				return true
			}
			if visited[st] {
				continue
			}
			visited[st] = true
			next = append(next, statusTransitions[st]...)
		}
		frontier = next
	}
	return false
}

// Assembly is a model that represents a single deployable application instance.
type Assembly struct {
	ID          uint64    `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	ProjectID   string    `json:"projectId"`
	PlanUUID    string    `json:"planUuid"`
	Status      Status    `json:"status"`
	TriggerID   string    `json:"triggerId"`
	TrustID     string    `json:"-"`
	Version     uint64    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FormAddAssembly represents a form of new assembly.
type FormAddAssembly struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	PlanUUID    string `json:"planUuid"`
}

// FormUpdateAssembly represents an administrative field patch; it never triggers the workflow.
type FormUpdateAssembly struct {
	UUID        string  `json:"-"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AssemblySvc describes the assembly lifecycle service.
type AssemblySvc interface {
	Find(ctx context.Context, c Context, uuid string) (Assembly, error)
	List(ctx context.Context, c Context) ([]Assembly, error)
	Create(ctx context.Context, c Context, f FormAddAssembly) (Assembly, error)
	Update(ctx context.Context, c Context, f FormUpdateAssembly) (Assembly, error)
	Delete(ctx context.Context, c Context, uuid string) error
	TriggerWorkflow(ctx context.Context, triggerID string) error
	UpdateArtifactState(ctx context.Context, r ArtifactStateReport) error
	RecoverJob(ctx context.Context) error
}

// AssemblyRepo describes interactions with the assembly storage.
type AssemblyRepo interface {
	FindAll(ctx context.Context, c Context) ([]Assembly, error)
	FindByID(ctx context.Context, id uint64) (Assembly, error)
	FindByUUID(ctx context.Context, uuid string) (Assembly, error)
	FindByTrigger(ctx context.Context, triggerID string) (Assembly, error)
	FindQueued(ctx context.Context, olderThan time.Time) (Assembly, error)
	Add(ctx context.Context, a Assembly) (Assembly, error)
	Update(ctx context.Context, a Assembly) (Assembly, error)
}
