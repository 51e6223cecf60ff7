package identity

import (
	"context"
	"sync"
	"time"

	"github.com/beldeveloper/app-forge/internal/app"
	"github.com/beldeveloper/app-forge/internal/app/errtype"
	"github.com/beldeveloper/go-errors-context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewJWT creates a new instance of the identity service.
func NewJWT(key app.SigningKey) app.IdentitySvc {
	return &JWT{
		key:     []byte(key),
		mux:     &sync.RWMutex{},
		revoked: make(map[string]bool),
	}
}

// JWT implements the identity service with self-contained signed trust tokens.
// The trust id handed out is the token itself; revocation is tracked by the
// token jti claim and is best-effort by contract.
type JWT struct {
	key     []byte
	mux     *sync.RWMutex
	revoked map[string]bool
}

// CreateTrust mints a trust token scoped to the given user and project.
func (s *JWT) CreateTrust(ctx context.Context, userID, projectID string) (string, error) {
	if userID == "" || projectID == "" {
		return "", errors.WrapContext(errtype.ErrAuthorizationFailure, errors.Context{
			Path:   "identity.JWT.CreateTrust",
			Params: errors.Params{"user": userID, "project": projectID},
		})
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":     uuid.NewString(),
		"sub":     userID,
		"project": projectID,
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString(s.key)
	return signed, errors.WrapContext(err, errors.Context{
		Path:   "identity.JWT.CreateTrust.SignedString",
		Params: errors.Params{"user": userID},
	})
}

// RevokeTrust marks the trust as revoked. A token that does not verify is
// treated as already gone, which is not an error.
func (s *JWT) RevokeTrust(ctx context.Context, trustID string) error {
	claims, err := s.parse(trustID)
	if err != nil {
		return nil
	}
	jti, _ := claims["jti"].(string)
	s.mux.Lock()
	defer s.mux.Unlock()
	s.revoked[jti] = true
	return nil
}

// VerifyTrust validates the trust token and returns the delegated user and project.
func (s *JWT) VerifyTrust(ctx context.Context, trustID string) (string, string, error) {
	claims, err := s.parse(trustID)
	if err != nil {
		return "", "", errors.WrapContext(errtype.ErrUnauthorized, errors.Context{Path: "identity.JWT.VerifyTrust.parse"})
	}
	jti, _ := claims["jti"].(string)
	s.mux.RLock()
	revoked := s.revoked[jti]
	s.mux.RUnlock()
	if revoked {
		return "", "", errors.WrapContext(errtype.ErrUnauthorized, errors.Context{
			Path:   "identity.JWT.VerifyTrust",
			Params: errors.Params{"jti": jti},
		})
	}
	userID, _ := claims["sub"].(string)
	projectID, _ := claims["project"].(string)
	return userID, projectID, nil
}

func (s *JWT) parse(trustID string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(trustID, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errtype.ErrUnauthorized
	}
	return claims, nil
}
