package svc

import (
	"context"
	"errors"
	"testing"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
)

type fakePlanRepo struct {
	plans map[string]app.Plan
}

func (r *fakePlanRepo) FindByUUID(ctx context.Context, uuid string) (app.Plan, error) {
	p, ok := r.plans[uuid]
	if !ok {
		return p, errtype.ErrNotFound
	}
	return p, nil
}

func TestPlanResolveInjectsUUID(t *testing.T) {
	repo := &fakePlanRepo{plans: map[string]app.Plan{
		"p1": {
			ID: 1, UUID: "p1", ProjectID: "proj1",
			Blueprint: app.Blueprint{
				Name:      "theplan",
				Artifacts: []app.Artifact{{Name: "nodeus", ArtifactType: "heroku"}},
			},
		},
	}}
	s := NewPlan(repo)

	p, err := s.Resolve(context.Background(), app.Context{ProjectID: "proj1"}, "p1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Blueprint.UUID != "p1" {
		t.Fatalf("expected the plan uuid injected into the blueprint, got %q", p.Blueprint.UUID)
	}
	if len(p.Blueprint.Artifacts) != 1 {
		t.Fatalf("expected the artifacts preserved, got %d", len(p.Blueprint.Artifacts))
	}
}

func TestPlanResolveNotFound(t *testing.T) {
	s := NewPlan(&fakePlanRepo{plans: map[string]app.Plan{}})

	_, err := s.Resolve(context.Background(), app.Context{ProjectID: "proj1"}, "missing")
	if !errors.Is(err, errtype.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPlanResolveForeignProject(t *testing.T) {
	repo := &fakePlanRepo{plans: map[string]app.Plan{
		"p1": {ID: 1, UUID: "p1", ProjectID: "proj1"},
	}}
	s := NewPlan(repo)

	_, err := s.Resolve(context.Background(), app.Context{ProjectID: "proj2"}, "p1")
	if !errors.Is(err, errtype.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestPlanResolveDuplicateArtifactNames(t *testing.T) {
	repo := &fakePlanRepo{plans: map[string]app.Plan{
		"p1": {
			ID: 1, UUID: "p1", ProjectID: "proj1",
			Blueprint: app.Blueprint{Artifacts: []app.Artifact{
				{Name: "api"},
				{Name: "api"},
			}},
		},
	}}
	s := NewPlan(repo)

	_, err := s.Resolve(context.Background(), app.Context{ProjectID: "proj1"}, "p1")
	if !errors.Is(err, errtype.ErrBadInput) {
		t.Fatalf("expected bad input on duplicate artifact names, got %v", err)
	}
}
