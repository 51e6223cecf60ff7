package svc

import (
	"context"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
)

// NewTrust creates a new instance of the trust delegation service.
func NewTrust(identity app.IdentitySvc) app.TrustSvc {
	return Trust{identity: identity}
}

// Trust is a service that manages delegated trust credentials on top of the identity collaborator.
type Trust struct {
	identity app.IdentitySvc
}

// CreateTrust mints a credential scoped to the calling user and project.
// The caller must persist the returned id for later revocation.
func (s Trust) CreateTrust(ctx context.Context, c app.Context) (string, error) {
	if c.UserID == "" || c.ProjectID == "" {
		return "", errors.WrapContext(errtype.ErrAuthorizationFailure, errors.Context{
			Path:   "svc.Trust.CreateTrust",
			Params: errors.Params{"user": c.UserID, "project": c.ProjectID},
		})
	}
	id, err := s.identity.CreateTrust(ctx, c.UserID, c.ProjectID)
	return id, errors.WrapContext(err, errors.Context{
		Path:   "svc.Trust.CreateTrust.identity",
		Params: errors.Params{"user": c.UserID, "project": c.ProjectID},
	})
}

// RevokeTrust revokes the credential; a trust that is already gone is not an error.
func (s Trust) RevokeTrust(ctx context.Context, trustID string) error {
	err := s.identity.RevokeTrust(ctx, trustID)
	if err != nil && errors.Is(err, errtype.ErrNotFound) {
		return nil
	}
	return errors.WrapContext(err, errors.Context{Path: "svc.Trust.RevokeTrust"})
}

// ContextFromTrust reconstructs an authoritative calling context from a bare
// trust id; used on the externally-triggered rebuild path where no session exists.
func (s Trust) ContextFromTrust(ctx context.Context, trustID string) (app.Context, error) {
	userID, projectID, err := s.identity.VerifyTrust(ctx, trustID)
	if err != nil {
		return app.Context{}, errors.WrapContext(err, errors.Context{Path: "svc.Trust.ContextFromTrust"})
	}
	return app.Context{UserID: userID, ProjectID: projectID, TrustID: trustID}, nil
}
