package svc

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
)

type fakeIdentitySvc struct {
	trusts    map[string][2]string
	revoked   []string
	revokeErr error
	seq       int
}

func (s *fakeIdentitySvc) CreateTrust(ctx context.Context, userID, projectID string) (string, error) {
	if s.trusts == nil {
		s.trusts = make(map[string][2]string)
	}
	s.seq++
	id := "trust-" + strconv.Itoa(s.seq)
	s.trusts[id] = [2]string{userID, projectID}
	return id, nil
}

func (s *fakeIdentitySvc) RevokeTrust(ctx context.Context, trustID string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revoked = append(s.revoked, trustID)
	return nil
}

func (s *fakeIdentitySvc) VerifyTrust(ctx context.Context, trustID string) (string, string, error) {
	t, ok := s.trusts[trustID]
	if !ok {
		return "", "", errtype.ErrUnauthorized
	}
	return t[0], t[1], nil
}

func TestTrustRoundTrip(t *testing.T) {
	s := NewTrust(&fakeIdentitySvc{})
	c := app.Context{UserID: "u1", ProjectID: "proj1"}

	id, err := s.CreateTrust(context.Background(), c)
	if err != nil {
		t.Fatalf("create trust: %v", err)
	}
	res, err := s.ContextFromTrust(context.Background(), id)
	if err != nil {
		t.Fatalf("context from trust: %v", err)
	}
	if res.UserID != "u1" || res.ProjectID != "proj1" || res.TrustID != id {
		t.Fatalf("unexpected reconstructed context: %+v", res)
	}
}

func TestTrustCreateRequiresScope(t *testing.T) {
	s := NewTrust(&fakeIdentitySvc{})

	_, err := s.CreateTrust(context.Background(), app.Context{UserID: "u1"})
	if !errors.Is(err, errtype.ErrAuthorizationFailure) {
		t.Fatalf("expected authorization failure, got %v", err)
	}
}

func TestTrustRevokeAlreadyGone(t *testing.T) {
	s := NewTrust(&fakeIdentitySvc{revokeErr: errtype.ErrNotFound})

	err := s.RevokeTrust(context.Background(), "stale")
	if err != nil {
		t.Fatalf("expected already-gone revocation to pass, got %v", err)
	}
}

func TestTrustContextFromUnknownTrust(t *testing.T) {
	s := NewTrust(&fakeIdentitySvc{})

	_, err := s.ContextFromTrust(context.Background(), "bogus")
	if !errors.Is(err, errtype.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
