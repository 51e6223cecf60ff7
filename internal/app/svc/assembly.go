package svc

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/google/uuid"
)

// RecoverAfter defines how long an assembly may stay queued before the recover job re-drives its fan-out.
const RecoverAfter = time.Minute

// NewAssembly creates a new instance of the assembly lifecycle service.
func NewAssembly(
	assemblyRepo app.AssemblyRepo,
	stateRepo app.ArtifactStateRepo,
	planSvc app.PlanSvc,
	trustSvc app.TrustSvc,
	statusSvc app.StatusSvc,
	builds app.BuildDispatcher,
	deploys app.DeployDispatcher,
	cfg app.DispatchConfig,
) app.AssemblySvc {
	return Assembly{
		assemblyRepo: assemblyRepo,
		stateRepo:    stateRepo,
		planSvc:      planSvc,
		trustSvc:     trustSvc,
		statusSvc:    statusSvc,
		builds:       builds,
		deploys:      deploys,
		cfg:          cfg,
	}
}

// Assembly is a service that owns the assembly state machine.
type Assembly struct {
	assemblyRepo app.AssemblyRepo
	stateRepo    app.ArtifactStateRepo
	planSvc      app.PlanSvc
	trustSvc     app.TrustSvc
	statusSvc    app.StatusSvc
	builds       app.BuildDispatcher
	deploys      app.DeployDispatcher
	cfg          app.DispatchConfig
}

// Find returns the one assembly with the specific UUID.
func (s Assembly) Find(ctx context.Context, c app.Context, assemblyUUID string) (app.Assembly, error) {
	a, err := s.assemblyRepo.FindByUUID(ctx, assemblyUUID)
	if err != nil {
		return a, errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Find.FindByUUID",
			Params: errors.Params{"assembly": assemblyUUID},
		})
	}
	if a.ProjectID != c.ProjectID {
		return app.Assembly{}, errors.WrapContext(errtype.ErrUnauthorized, errors.Context{
			Path:   "svc.Assembly.Find",
			Params: errors.Params{"assembly": assemblyUUID, "project": c.ProjectID},
		})
	}
	return a, nil
}

// List returns all assemblies of the calling project.
func (s Assembly) List(ctx context.Context, c app.Context) ([]app.Assembly, error) {
	res, err := s.assemblyRepo.FindAll(ctx, c)
	return res, errors.WrapContext(err, errors.Context{Path: "svc.Assembly.List.FindAll"})
}

// Create persists a new assembly and fans one build request out per plan artifact.
// The plan is resolved before anything is persisted, so a missing or foreign plan
// leaves no partial record behind.
func (s Assembly) Create(ctx context.Context, c app.Context, f app.FormAddAssembly) (app.Assembly, error) {
	if f.UserID == "" || f.PlanUUID == "" {
		return app.Assembly{}, errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path:   "svc.Assembly.Create",
			Params: errors.Params{"user": f.UserID, "plan": f.PlanUUID},
		})
	}
	p, err := s.planSvc.Resolve(ctx, c, f.PlanUUID)
	if err != nil {
		return app.Assembly{}, errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Create.Resolve",
			Params: errors.Params{"plan": f.PlanUUID},
		})
	}
	now := time.Now()
	a := app.Assembly{
		UUID:        uuid.NewString(),
		Name:        f.Name,
		Description: f.Description,
		UserID:      f.UserID,
		ProjectID:   c.ProjectID,
		PlanUUID:    p.UUID,
		Status:      app.StatusQueued,
		TriggerID:   uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	a, err = s.assemblyRepo.Add(ctx, a)
	if err != nil {
		return a, errors.WrapContext(err, errors.Context{Path: "svc.Assembly.Create.Add"})
	}
	trustID, err := s.trustSvc.CreateTrust(ctx, c)
	if err != nil {
		s.markFailed(ctx, a)
		return a, errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Create.CreateTrust",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	a.TrustID = trustID
	a.Status = app.StatusCreating
	a, err = s.assemblyRepo.Update(ctx, a)
	if err != nil {
		return a, errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Create.Update",
			Params: errors.Params{"assembly": a.ID, "status": a.Status},
		})
	}
	err = s.dispatchBuilds(ctx, a, p)
	if err != nil {
		s.markFailed(ctx, a)
		return a, errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Create.dispatchBuilds",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	log.Printf("The assembly #%d is created; %d build requests dispatched\n", a.ID, len(p.Blueprint.Artifacts))
	return a, nil
}

// Update applies an administrative field patch; it never dispatches anything.
func (s Assembly) Update(ctx context.Context, c app.Context, f app.FormUpdateAssembly) (app.Assembly, error) {
	a, err := s.Find(ctx, c, f.UUID)
	if err != nil {
		return a, errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Update.Find",
			Params: errors.Params{"assembly": f.UUID},
		})
	}
	if f.Name != nil {
		a.Name = *f.Name
	}
	if f.Description != nil {
		a.Description = *f.Description
	}
	a, err = s.assemblyRepo.Update(ctx, a)
	return a, errors.WrapContext(err, errors.Context{
		Path:   "svc.Assembly.Update.Update",
		Params: errors.Params{"assembly": a.ID},
	})
}

// Delete moves the assembly to the deleting status, requests the teardown,
// and revokes the delegated trust if one is held. Delete wins every race:
// a conflicting write is re-read and overridden regardless of the prior status.
func (s Assembly) Delete(ctx context.Context, c app.Context, assemblyUUID string) error {
	a, err := s.Find(ctx, c, assemblyUUID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Delete.Find",
			Params: errors.Params{"assembly": assemblyUUID},
		})
	}
	for {
		a.Status = app.StatusDeleting
		a, err = s.assemblyRepo.Update(ctx, a)
		if err == nil {
			break
		}
		if !errors.Is(err, errtype.ErrConflict) {
			return errors.WrapContext(err, errors.Context{
				Path:   "svc.Assembly.Delete.Update",
				Params: errors.Params{"assembly": a.ID},
			})
		}
		a, err = s.assemblyRepo.FindByUUID(ctx, assemblyUUID)
		if err != nil {
			return errors.WrapContext(err, errors.Context{
				Path:   "svc.Assembly.Delete.reread",
				Params: errors.Params{"assembly": assemblyUUID},
			})
		}
	}
	err = s.deploys.RequestTeardown(ctx, a.ID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.Delete.RequestTeardown",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	if a.TrustID != "" {
		err = s.trustSvc.RevokeTrust(ctx, a.TrustID)
		if err != nil {
			log.Println(errors.WrapContext(err, errors.Context{
				Path:   "svc.Assembly.Delete.RevokeTrust",
				Params: errors.Params{"assembly": a.ID},
			}))
		}
	}
	log.Printf("The assembly #%d is deleting\n", a.ID)
	return nil
}

// TriggerWorkflow rebuilds the full current artifact set of the assembly matching
// the trigger id. There is no live session on this path: the calling context is
// reconstructed from the delegated trust stored on the assembly.
func (s Assembly) TriggerWorkflow(ctx context.Context, triggerID string) error {
	a, err := s.assemblyRepo.FindByTrigger(ctx, triggerID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.TriggerWorkflow.FindByTrigger",
			Params: errors.Params{"trigger": triggerID},
		})
	}
	c, err := s.trustSvc.ContextFromTrust(ctx, a.TrustID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.TriggerWorkflow.ContextFromTrust",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	p, err := s.planSvc.Resolve(ctx, c, a.PlanUUID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.TriggerWorkflow.Resolve",
			Params: errors.Params{"assembly": a.ID, "plan": a.PlanUUID},
		})
	}
	if !a.Status.Reaches(app.StatusBuilding) {
		return errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path:   "svc.Assembly.TriggerWorkflow",
			Params: errors.Params{"assembly": a.ID, "status": a.Status},
		})
	}
	// the trigger re-enters at the building status regardless of the stage in
	// progress; a failed run included. Only a deleting assembly is fenced off.
	a.Status = app.StatusBuilding
	a, err = s.assemblyRepo.Update(ctx, a)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.TriggerWorkflow.Update",
			Params: errors.Params{"assembly": a.ID, "status": a.Status},
		})
	}
	err = s.dispatchBuilds(ctx, a, p)
	if err != nil {
		s.markFailed(ctx, a)
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.TriggerWorkflow.dispatchBuilds",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	log.Printf("The assembly #%d is triggered for rebuilding\n", a.ID)
	return nil
}

// UpdateArtifactState folds an out-of-band completion signal into the stored
// artifact state and re-derives the assembly status from the whole set.
func (s Assembly) UpdateArtifactState(ctx context.Context, r app.ArtifactStateReport) error {
	st, err := s.stateRepo.FindByBuildID(ctx, r.BuildID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.UpdateArtifactState.FindByBuildID",
			Params: errors.Params{"build": r.BuildID},
		})
	}
	st.Stage = r.Stage
	st.ErrorMsg = r.ErrorMsg
	st.UpdatedAt = time.Now()
	err = s.stateRepo.Save(ctx, st)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.UpdateArtifactState.Save",
			Params: errors.Params{"build": r.BuildID, "stage": r.Stage},
		})
	}
	states, err := s.stateRepo.FindByAssembly(ctx, st.AssemblyID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.UpdateArtifactState.FindByAssembly",
			Params: errors.Params{"assembly": st.AssemblyID},
		})
	}
	a, err := s.assemblyRepo.FindByID(ctx, st.AssemblyID)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.UpdateArtifactState.FindByID",
			Params: errors.Params{"assembly": st.AssemblyID},
		})
	}
	derived := s.statusSvc.Aggregate(a.Status, states)
	if derived == a.Status || !a.Status.Reaches(derived) {
		return nil
	}
	a.Status = derived
	_, err = s.assemblyRepo.Update(ctx, a)
	if errors.Is(err, errtype.ErrConflict) {
		// a racing delete or trigger owns the record now; the next signal re-derives
		log.Printf("The assembly #%d changed during status aggregation\n", a.ID)
		return nil
	}
	return errors.WrapContext(err, errors.Context{
		Path:   "svc.Assembly.UpdateArtifactState.Update",
		Params: errors.Params{"assembly": a.ID, "status": derived},
	})
}

// RecoverJob re-drives the fan-out of one assembly left queued by a crash between
// persistence and dispatch. Build ids are position-derived, so the re-driven
// requests carry the same correlation keys as the interrupted attempt.
func (s Assembly) RecoverJob(ctx context.Context) error {
	a, err := s.assemblyRepo.FindQueued(ctx, time.Now().Add(-RecoverAfter))
	if err != nil {
		if !errors.Is(err, errtype.ErrNotFound) {
			return errors.WrapContext(err, errors.Context{Path: "svc.Assembly.RecoverJob.FindQueued"})
		}
		return nil
	}
	c, err := s.trustSvc.ContextFromTrust(ctx, a.TrustID)
	if err != nil {
		s.markFailed(ctx, a)
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.RecoverJob.ContextFromTrust",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	p, err := s.planSvc.Resolve(ctx, c, a.PlanUUID)
	if err != nil {
		s.markFailed(ctx, a)
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.RecoverJob.Resolve",
			Params: errors.Params{"assembly": a.ID, "plan": a.PlanUUID},
		})
	}
	a.Status = app.StatusCreating
	a, err = s.assemblyRepo.Update(ctx, a)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.RecoverJob.Update",
			Params: errors.Params{"assembly": a.ID, "status": a.Status},
		})
	}
	err = s.dispatchBuilds(ctx, a, p)
	if err != nil {
		s.markFailed(ctx, a)
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.RecoverJob.dispatchBuilds",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	log.Printf("The assembly #%d fan-out is re-driven\n", a.ID)
	return nil
}

// dispatchBuilds issues one build request per plan artifact. The artifact state
// row is saved before the request leaves, keeping the write-ahead ordering.
// States of artifacts no longer present in the blueprint are pruned first so
// the status aggregation never reads a leftover of an earlier run.
func (s Assembly) dispatchBuilds(ctx context.Context, a app.Assembly, p app.Plan) error {
	artifacts := p.Refined().Artifacts
	keep := make([]string, len(artifacts))
	for i := range artifacts {
		keep[i] = s.buildRequest(a, i, artifacts[i]).BuildID
	}
	err := s.stateRepo.Prune(ctx, a.ID, keep)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.dispatchBuilds.Prune",
			Params: errors.Params{"assembly": a.ID},
		})
	}
	for i, art := range artifacts {
		req := s.buildRequest(a, i, art)
		err := s.stateRepo.Save(ctx, app.ArtifactState{
			BuildID:    req.BuildID,
			AssemblyID: a.ID,
			Name:       art.Name,
			Stage:      app.ArtifactStageQueued,
			UpdatedAt:  time.Now(),
		})
		if err != nil {
			return errors.WrapContext(err, errors.Context{
				Path:   "svc.Assembly.dispatchBuilds.Save",
				Params: errors.Params{"assembly": a.ID, "artifact": art.Name},
			})
		}
		err = s.builds.Request(ctx, req)
		if err != nil {
			return errors.WrapContext(err, errors.Context{
				Path:   "svc.Assembly.dispatchBuilds.Request",
				Params: errors.Params{"assembly": a.ID, "artifact": art.Name, "build": req.BuildID},
			})
		}
	}
	return nil
}

// buildRequest derives the dispatch parameters from the artifact declaration.
// The build id combines the assembly id with the artifact position, which keeps
// it unique per artifact and stable across re-driven fan-outs.
func (s Assembly) buildRequest(a app.Assembly, pos int, art app.Artifact) app.BuildRequest {
	sourceFormat := art.ArtifactType
	if sourceFormat == "" {
		sourceFormat = s.cfg.DefaultSourceFormat
	}
	baseImage := art.LanguagePack
	if baseImage == "" {
		baseImage = s.cfg.DefaultLanguagePack
	}
	return app.BuildRequest{
		BuildID:      fmt.Sprintf("%d-%d", a.ID, pos),
		Name:         art.Name,
		AssemblyID:   a.ID,
		SourceURI:    art.Content.HRef,
		TestCmd:      art.TestCmd,
		BaseImageID:  baseImage,
		SourceFormat: sourceFormat,
		ImageFormat:  s.cfg.ImageFormat,
	}
}

func (s Assembly) markFailed(ctx context.Context, a app.Assembly) {
	a.Status = app.StatusError
	_, err := s.assemblyRepo.Update(ctx, a)
	if err != nil {
		log.Println(errors.WrapContext(err, errors.Context{
			Path:   "svc.Assembly.markFailed",
			Params: errors.Params{"assembly": a.ID},
		}))
	}
}
