// Package session tracks the authentication token of one storefront
// session. The cart reconciler reads token presence as a boolean signal
// to choose between the local and remote cart paths.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the auth state of one device session.
type Session struct {
	mu    sync.RWMutex
	id    string
	token string
}

// New creates an anonymous session for a device id.
func New(id string) *Session {
	return &Session{id: id}
}

// ID returns the device id the session was created for.
func (s *Session) ID() string { return s.id }

// Token returns the current session token. The boolean is false when no
// token is present or the token has expired; an expired token counts as
// absent so the signal flips back to anonymous without an explicit
// logout.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" || expired(token) {
		return "", false
	}
	return token, true
}

// Authenticated reports whether a usable token is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken installs the token issued at login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// ClearToken drops the token at logout.
func (s *Session) ClearToken() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// expired checks the token's exp claim without verifying the signature;
// issuance and verification belong to the upstream API, this tier only
// needs to know whether the token is still worth sending.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens are passed through as-is.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
