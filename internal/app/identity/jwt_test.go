package identity

import (
	"context"
	"testing"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/stretchr/testify/require"
)

func TestJWTCreateAndVerify(t *testing.T) {
	s := NewJWT(app.SigningKey("test-key"))

	trustID, err := s.CreateTrust(context.Background(), "u1", "proj1")
	require.NoError(t, err)
	require.NotEmpty(t, trustID)

	userID, projectID, err := s.VerifyTrust(context.Background(), trustID)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
	require.Equal(t, "proj1", projectID)
}

func TestJWTCreateRequiresScope(t *testing.T) {
	s := NewJWT(app.SigningKey("test-key"))

	_, err := s.CreateTrust(context.Background(), "", "proj1")
	require.ErrorIs(t, err, errtype.ErrAuthorizationFailure)
}

func TestJWTRevokedTrustIsRejected(t *testing.T) {
	s := NewJWT(app.SigningKey("test-key"))

	trustID, err := s.CreateTrust(context.Background(), "u1", "proj1")
	require.NoError(t, err)

	require.NoError(t, s.RevokeTrust(context.Background(), trustID))
	_, _, err = s.VerifyTrust(context.Background(), trustID)
	require.ErrorIs(t, err, errtype.ErrUnauthorized)

	// revoking twice is not an error
	require.NoError(t, s.RevokeTrust(context.Background(), trustID))
}

func TestJWTRejectsForeignToken(t *testing.T) {
	issuer := NewJWT(app.SigningKey("key-a"))
	verifier := NewJWT(app.SigningKey("key-b"))

	trustID, err := issuer.CreateTrust(context.Background(), "u1", "proj1")
	require.NoError(t, err)

	_, _, err = verifier.VerifyTrust(context.Background(), trustID)
	require.ErrorIs(t, err, errtype.ErrUnauthorized)
}

func TestJWTRevokeGarbageIsNoop(t *testing.T) {
	s := NewJWT(app.SigningKey("test-key"))
	require.NoError(t, s.RevokeTrust(context.Background(), "not-a-token"))
}
