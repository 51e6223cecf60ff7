package svc

import (
	"context"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
)

// NewPlan creates a new instance of the plan resolution service.
func NewPlan(planRepo app.PlanRepo) app.PlanSvc {
	return Plan{planRepo: planRepo}
}

// Plan is a service that resolves plan references into refined plans.
type Plan struct {
	planRepo app.PlanRepo
}

// Resolve fetches the plan and returns it with the plan uuid injected into the
// blueprint. The lookup is always fresh: blueprint content may change between
// the original creation and a later rebuild, and a rebuild must see the change.
func (s Plan) Resolve(ctx context.Context, c app.Context, planUUID string) (app.Plan, error) {
	p, err := s.planRepo.FindByUUID(ctx, planUUID)
	if err != nil {
		return p, errors.WrapContext(err, errors.Context{
			Path:   "svc.Plan.Resolve.FindByUUID",
			Params: errors.Params{"plan": planUUID},
		})
	}
	if p.ProjectID != c.ProjectID {
		return app.Plan{}, errors.WrapContext(errtype.ErrUnauthorized, errors.Context{
			Path:   "svc.Plan.Resolve",
			Params: errors.Params{"plan": planUUID, "project": c.ProjectID},
		})
	}
	p.Blueprint = p.Refined()
	seen := make(map[string]bool, len(p.Blueprint.Artifacts))
	for _, a := range p.Blueprint.Artifacts {
		// the artifact name is the correlation key for build results
		if a.Name == "" || seen[a.Name] {
			return app.Plan{}, errors.WrapContext(errtype.ErrBadInput, errors.Context{
				Path:   "svc.Plan.Resolve.artifacts",
				Params: errors.Params{"plan": planUUID, "artifact": a.Name},
			})
		}
		seen[a.Name] = true
	}
	return p, nil
}
