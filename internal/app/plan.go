package app

import "context"

// Plan is a model that represents a blueprint of one or more buildable artifacts.
type Plan struct {
	ID          uint64    `json:"id"`
	UUID        string    `json:"uuid"`
	UserID      string    `json:"userId"`
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Blueprint   Blueprint `json:"blueprint"`
}

// Refined returns the blueprint with the plan uuid injected under the reserved key,
// so downstream consumers can self-identify the plan without a second lookup.
func (p Plan) Refined() Blueprint {
	b := p.Blueprint
	if p.UUID != "" {
		b.UUID = p.UUID
	}
	return b
}

// Blueprint is the structured document describing the artifacts of a plan.
type Blueprint struct {
	UUID      string     `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Name      string     `yaml:"name" json:"name"`
	Artifacts []Artifact `yaml:"artifacts" json:"artifacts"`
}

// Artifact is one buildable unit described inside a plan.
type Artifact struct {
	Name         string          `yaml:"name" json:"name"`
	ArtifactType string          `yaml:"artifact_type" json:"artifactType"`
	Content      ArtifactContent `yaml:"content" json:"content"`
	LanguagePack string          `yaml:"language_pack" json:"languagePack"`
	TestCmd      *string         `yaml:"test_cmd,omitempty" json:"testCmd,omitempty"`
}

// ArtifactContent locates the artifact source.
type ArtifactContent struct {
	HRef string `yaml:"href" json:"href"`
}

// PlanSvc describes the plan resolution service.
type PlanSvc interface {
	Resolve(ctx context.Context, c Context, uuid string) (Plan, error)
}

// PlanRepo describes interactions with the plan storage.
type PlanRepo interface {
	FindByUUID(ctx context.Context, uuid string) (Plan, error)
}
