package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/hibiken/asynq"
)

const (
	// TaskBuild is the task type consumed by the worker backend.
	TaskBuild = "worker:build"
	// TaskTeardown is the task type consumed by the deployer backend.
	TaskTeardown = "deployer:teardown"
	// TaskArtifactState is the task type produced by the worker backend to report artifact progress.
	TaskArtifactState = "worker:state"
)

// NewBuild creates a new instance of the build dispatcher.
func NewBuild(client *asynq.Client, cfg app.DispatchConfig) app.BuildDispatcher {
	return Build{client: client, queue: cfg.BuildQueue}
}

// Build dispatches build requests to the worker backend queue.
// It fires and acknowledges: no build result is awaited inline.
type Build struct {
	client *asynq.Client
	queue  string
}

// Request enqueues one build order. A failed enqueue means the transport is
// unreachable; retrying is the transport's business, not this client's.
func (d Build) Request(ctx context.Context, r app.BuildRequest) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "queue.Build.Request.Marshal",
			Params: errors.Params{"build": r.BuildID},
		})
	}
	_, err = d.client.EnqueueContext(ctx, asynq.NewTask(TaskBuild, payload), asynq.Queue(d.queue))
	if err != nil {
		return errors.WrapContext(fmt.Errorf("%w: %v", errtype.ErrDispatchUnavailable, err), errors.Context{
			Path:   "queue.Build.Request.Enqueue",
			Params: errors.Params{"build": r.BuildID, "queue": d.queue},
		})
	}
	return nil
}

// NewDeploy creates a new instance of the deploy dispatcher.
func NewDeploy(client *asynq.Client, cfg app.DispatchConfig) app.DeployDispatcher {
	return Deploy{client: client, queue: cfg.DeployQueue}
}

// Deploy dispatches teardown requests to the deployer backend queue.
type Deploy struct {
	client *asynq.Client
	queue  string
}

type teardownPayload struct {
	AssemblyID uint64 `json:"assembly_id"`
}

// RequestTeardown enqueues one teardown order. The deployer owns the idempotency
// of the actual teardown; enqueueing twice is fine.
func (d Deploy) RequestTeardown(ctx context.Context, assemblyID uint64) error {
	payload, err := json.Marshal(teardownPayload{AssemblyID: assemblyID})
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "queue.Deploy.RequestTeardown.Marshal",
			Params: errors.Params{"assembly": assemblyID},
		})
	}
	_, err = d.client.EnqueueContext(ctx, asynq.NewTask(TaskTeardown, payload), asynq.Queue(d.queue))
	if err != nil {
		return errors.WrapContext(fmt.Errorf("%w: %v", errtype.ErrDispatchUnavailable, err), errors.Context{
			Path:   "queue.Deploy.RequestTeardown.Enqueue",
			Params: errors.Params{"assembly": assemblyID, "queue": d.queue},
		})
	}
	return nil
}
