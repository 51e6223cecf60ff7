package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/hibiken/asynq"
)

// NewResults creates a new instance of the completion signal consumer.
func NewResults(assemblySvc app.AssemblySvc) Results {
	return Results{assemblySvc: assemblySvc}
}

// Results consumes the out-of-band artifact state reports from the worker backend.
type Results struct {
	assemblySvc app.AssemblySvc
}

// Register attaches the consumer handlers to the mux.
func (c Results) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskArtifactState, c.HandleArtifactState)
}

// HandleArtifactState folds one artifact state report into the assembly status.
// A report for an unknown build id is dropped: the assembly may already be gone.
func (c Results) HandleArtifactState(ctx context.Context, t *asynq.Task) error {
	var r app.ArtifactStateReport
	err := json.Unmarshal(t.Payload(), &r)
	if err != nil {
		return errors.WrapContext(err, errors.Context{Path: "queue.Results.HandleArtifactState.Unmarshal"})
	}
	err = c.assemblySvc.UpdateArtifactState(ctx, r)
	if err != nil {
		if errors.Is(err, errtype.ErrNotFound) {
			log.Printf("Dropped a state report for the unknown build %s\n", r.BuildID)
			return nil
		}
		return errors.WrapContext(err, errors.Context{
			Path:   "queue.Results.HandleArtifactState",
			Params: errors.Params{"build": r.BuildID, "stage": r.Stage},
		})
	}
	return nil
}
