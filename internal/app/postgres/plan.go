package postgres

import (
	"context"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"gopkg.in/yaml.v3"
)

// NewPlan creates a new instance of the repository.
func NewPlan(conn *pgxpool.Pool) app.PlanRepo {
	return Plan{conn: conn}
}

// Plan implements a repository. The blueprint column holds the YAML-encoded
// structured document submitted with the plan.
type Plan struct {
	conn *pgxpool.Pool
}

// FindByUUID returns the one plan with the specific UUID.
func (r Plan) FindByUUID(ctx context.Context, planUUID string) (app.Plan, error) {
	var p app.Plan
	var blueprint string
	q := `SELECT "id", "uuid", "user_id", "project_id", "name", "description", "blueprint"
		FROM "plans" WHERE "uuid" = $1`
	err := r.conn.QueryRow(ctx, q, planUUID).
		Scan(&p.ID, &p.UUID, &p.UserID, &p.ProjectID, &p.Name, &p.Description, &blueprint)
	if err != nil {
		if err == pgx.ErrNoRows {
			err = errtype.ErrNotFound
		}
		return p, errors.WrapContext(err, errors.Context{
			Path:   "postgres.Plan.FindByUUID.Scan",
			Params: errors.Params{"plan": planUUID},
		})
	}
	err = yaml.Unmarshal([]byte(blueprint), &p.Blueprint)
	if err != nil {
		return p, errors.WrapContext(err, errors.Context{
			Path:   "postgres.Plan.FindByUUID.Unmarshal",
			Params: errors.Params{"plan": planUUID},
		})
	}
	return p, nil
}
