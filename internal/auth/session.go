package auth

import (
	"context"

	"github.com/dmitrijs2005/onboard/internal/logging"
)

// SessionAccessor returns the identity of the signed-in user, or false when
// nobody is signed in.
type SessionAccessor interface {
	CurrentIdentity(ctx context.Context) (*Identity, bool)
}

// TokenSession resolves the identity from a bearer token on every call, so an
// expired token stops authenticating without restarting the session.
type TokenSession struct {
	token     string
	secretKey []byte
	logger    logging.Logger
}

func NewTokenSession(token string, secretKey []byte, logger logging.Logger) *TokenSession {
	return &TokenSession{token: token, secretKey: secretKey, logger: logger}
}

func (s *TokenSession) CurrentIdentity(ctx context.Context) (*Identity, bool) {
	if s.token == "" {
		return nil, false
	}
	id, err := ParseIdentity(s.token, s.secretKey)
	if err != nil {
		s.logger.Warn(ctx, "session token rejected", logging.Err(err))
		return nil, false
	}
	return id, true
}

// StaticSession always reports the same identity; a nil identity means signed out.
type StaticSession struct {
	Identity *Identity
}

func (s StaticSession) CurrentIdentity(context.Context) (*Identity, bool) {
	return s.Identity, s.Identity != nil
}
