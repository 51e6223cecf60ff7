package postgres

import (
	"context"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// NewArtifactState creates a new instance of the repository.
func NewArtifactState(conn *pgxpool.Pool) app.ArtifactStateRepo {
	return ArtifactState{conn: conn}
}

// ArtifactState implements a repository.
type ArtifactState struct {
	conn *pgxpool.Pool
}

// Save upserts the state of one artifact operation keyed by its build id.
func (r ArtifactState) Save(ctx context.Context, s app.ArtifactState) error {
	q := `INSERT INTO "artifact_states" ("build_id", "assembly_id", "name", "stage", "error_msg", "updated_at")
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ("build_id") DO UPDATE
		SET "name" = $3, "stage" = $4, "error_msg" = $5, "updated_at" = $6`
	_, err := r.conn.Exec(ctx, q, s.BuildID, s.AssemblyID, s.Name, s.Stage, s.ErrorMsg, s.UpdatedAt)
	return errors.WrapContext(err, errors.Context{
		Path:   "postgres.ArtifactState.Save.Exec",
		Params: errors.Params{"build": s.BuildID, "stage": s.Stage},
	})
}

// Prune drops the states of the specific assembly whose build ids are not in the given set.
func (r ArtifactState) Prune(ctx context.Context, assemblyID uint64, keepBuildIDs []string) error {
	q := `DELETE FROM "artifact_states" WHERE "assembly_id" = $1 AND NOT ("build_id" = ANY($2))`
	_, err := r.conn.Exec(ctx, q, assemblyID, keepBuildIDs)
	return errors.WrapContext(err, errors.Context{
		Path:   "postgres.ArtifactState.Prune.Exec",
		Params: errors.Params{"assembly": assemblyID},
	})
}

// FindByBuildID returns the one artifact state with the specific build id.
func (r ArtifactState) FindByBuildID(ctx context.Context, buildID string) (app.ArtifactState, error) {
	var s app.ArtifactState
	q := `SELECT "build_id", "assembly_id", "name", "stage", "error_msg", "updated_at"
		FROM "artifact_states" WHERE "build_id" = $1`
	err := r.conn.QueryRow(ctx, q, buildID).
		Scan(&s.BuildID, &s.AssemblyID, &s.Name, &s.Stage, &s.ErrorMsg, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		err = errtype.ErrNotFound
	}
	return s, errors.WrapContext(err, errors.Context{
		Path:   "postgres.ArtifactState.FindByBuildID.Scan",
		Params: errors.Params{"build": buildID},
	})
}

// FindByAssembly returns all artifact states that belong to the specific assembly.
func (r ArtifactState) FindByAssembly(ctx context.Context, assemblyID uint64) ([]app.ArtifactState, error) {
	q := `SELECT "build_id", "assembly_id", "name", "stage", "error_msg", "updated_at"
		FROM "artifact_states" WHERE "assembly_id" = $1 ORDER BY "build_id"`
	rows, err := r.conn.Query(ctx, q, assemblyID)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "postgres.ArtifactState.FindByAssembly.Query",
			Params: errors.Params{"assembly": assemblyID},
		})
	}
	defer rows.Close()
	res := make([]app.ArtifactState, 0)
	var s app.ArtifactState
	for rows.Next() {
		err = rows.Scan(&s.BuildID, &s.AssemblyID, &s.Name, &s.Stage, &s.ErrorMsg, &s.UpdatedAt)
		if err != nil {
			return nil, errors.WrapContext(err, errors.Context{
				Path:   "postgres.ArtifactState.FindByAssembly.Scan",
				Params: errors.Params{"assembly": assemblyID},
			})
		}
		res = append(res, s)
	}
	return res, nil
}
