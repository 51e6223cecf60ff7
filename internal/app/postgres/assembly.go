package postgres

import (
	"context"
	"time"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const assemblyColumns = `"id", "uuid", "name", "description", "user_id", "project_id", "plan_uuid",
	"status", "trigger_id", "trust_id", "version", "created_at", "updated_at"`

// NewAssembly creates a new instance of the repository.
func NewAssembly(conn *pgxpool.Pool) app.AssemblyRepo {
	return Assembly{conn: conn}
}

// Assembly implements a repository.
type Assembly struct {
	conn *pgxpool.Pool
}

// FindAll returns all assemblies of the calling project.
func (r Assembly) FindAll(ctx context.Context, c app.Context) ([]app.Assembly, error) {
	q := `SELECT ` + assemblyColumns + ` FROM "assemblies" WHERE "project_id" = $1 ORDER BY "created_at" DESC`
	rows, err := r.conn.Query(ctx, q, c.ProjectID)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "postgres.Assembly.FindAll.Query",
			Params: errors.Params{"project": c.ProjectID},
		})
	}
	defer rows.Close()
	res := make([]app.Assembly, 0)
	var a app.Assembly
	for rows.Next() {
		err = scanAssembly(rows, &a)
		if err != nil {
			return nil, errors.WrapContext(err, errors.Context{Path: "postgres.Assembly.FindAll.Scan"})
		}
		res = append(res, a)
	}
	return res, nil
}

// FindByID returns the one assembly with the specific ID.
func (r Assembly) FindByID(ctx context.Context, id uint64) (app.Assembly, error) {
	var a app.Assembly
	q := `SELECT ` + assemblyColumns + ` FROM "assemblies" WHERE "id" = $1`
	err := scanAssembly(r.conn.QueryRow(ctx, q, id), &a)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return a, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Assembly.FindByID.Scan",
		Params: errors.Params{"assembly": id},
	})
}

// FindByUUID returns the one assembly with the specific UUID.
func (r Assembly) FindByUUID(ctx context.Context, assemblyUUID string) (app.Assembly, error) {
	var a app.Assembly
	q := `SELECT ` + assemblyColumns + ` FROM "assemblies" WHERE "uuid" = $1`
	err := scanAssembly(r.conn.QueryRow(ctx, q, assemblyUUID), &a)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return a, errors.WrapContext(err, errors.Context{
		Path:   "postgres.Assembly.FindByUUID.Scan",
		Params: errors.Params{"assembly": assemblyUUID},
	})
}

// FindByTrigger returns the one assembly holding the specific trigger id.
func (r Assembly) FindByTrigger(ctx context.Context, triggerID string) (app.Assembly, error) {
	var a app.Assembly
	q := `SELECT ` + assemblyColumns + ` FROM "assemblies" WHERE "trigger_id" = $1`
	err := scanAssembly(r.conn.QueryRow(ctx, q, triggerID), &a)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return a, errors.WrapContext(err, errors.Context{Path: "postgres.Assembly.FindByTrigger.Scan"})
}

// FindQueued returns the one assembly stuck in the queued status since before the given time.
func (r Assembly) FindQueued(ctx context.Context, olderThan time.Time) (app.Assembly, error) {
	var a app.Assembly
	q := `SELECT ` + assemblyColumns + ` FROM "assemblies"
		WHERE "status" = $1 AND "updated_at" < $2 ORDER BY "updated_at" LIMIT 1`
	err := scanAssembly(r.conn.QueryRow(ctx, q, app.StatusQueued, olderThan), &a)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return a, errors.WrapContext(err, errors.Context{Path: "postgres.Assembly.FindQueued.Scan"})
}

// Add saves a new assembly.
func (r Assembly) Add(ctx context.Context, a app.Assembly) (app.Assembly, error) {
	q := `INSERT INTO "assemblies"
		("uuid", "name", "description", "user_id", "project_id", "plan_uuid", "status", "trigger_id", "trust_id", "version", "created_at", "updated_at")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11) RETURNING "id"`
	err := r.conn.QueryRow(ctx, q,
		a.UUID, a.Name, a.Description, a.UserID, a.ProjectID, a.PlanUUID,
		a.Status, a.TriggerID, a.TrustID, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return a, errors.WrapContext(err, errors.Context{Path: "postgres.Assembly.Add.Scan"})
	}
	a.Version = 1
	return a, nil
}

// Update modifies a specific assembly. The version column serializes racing
// writers: a stale version touches no rows and surfaces as a conflict.
func (r Assembly) Update(ctx context.Context, a app.Assembly) (app.Assembly, error) {
	q := `UPDATE "assemblies"
		SET "name" = $3, "description" = $4, "status" = $5, "trust_id" = $6, "version" = "version" + 1, "updated_at" = $7
		WHERE "id" = $1 AND "version" = $2`
	a.UpdatedAt = time.Now()
	ct, err := r.conn.Exec(ctx, q, a.ID, a.Version, a.Name, a.Description, a.Status, a.TrustID, a.UpdatedAt)
	if err != nil {
		return a, errors.WrapContext(err, errors.Context{
			Path:   "postgres.Assembly.Update.Exec",
			Params: errors.Params{"assembly": a.ID, "status": a.Status},
		})
	}
	if ct.RowsAffected() == 0 {
		return a, errors.WrapContext(errtype.ErrConflict, errors.Context{
			Path:   "postgres.Assembly.Update",
			Params: errors.Params{"assembly": a.ID, "version": a.Version},
		})
	}
	a.Version++
	return a, nil
}

func scanAssembly(row pgx.Row, a *app.Assembly) error {
	return row.Scan(
		&a.ID, &a.UUID, &a.Name, &a.Description, &a.UserID, &a.ProjectID, &a.PlanUUID,
		&a.Status, &a.TriggerID, &a.TrustID, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
}
