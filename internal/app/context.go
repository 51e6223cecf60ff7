package app

import "context"

// Context identifies the calling user and project; on the webhook path it is
// reconstructed from a delegated trust instead of a live session.
type Context struct {
	UserID    string
	ProjectID string
	TrustID   string
}

// TrustSvc describes the trust delegation service.
type TrustSvc interface {
	CreateTrust(ctx context.Context, c Context) (string, error)
	RevokeTrust(ctx context.Context, trustID string) error
	ContextFromTrust(ctx context.Context, trustID string) (Context, error)
}

// IdentitySvc describes the interactions with the identity collaborator.
type IdentitySvc interface {
	CreateTrust(ctx context.Context, userID, projectID string) (string, error)
	RevokeTrust(ctx context.Context, trustID string) error
	VerifyTrust(ctx context.Context, trustID string) (userID, projectID string, err error)
}
