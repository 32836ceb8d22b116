// Package session holds the signed-in user's tokens for the storefront client.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/myfarm/internal/pkg/clock"
	"github.com/shandysiswandi/myfarm/internal/pkg/jwt"
)

// ErrNoToken is returned when Start is called without an access token.
var ErrNoToken = errors.New("session: access token is required")

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	clock     clock.Clocker
	phone     string
	access    string
	refresh   string
	expiresAt time.Time
}

// New returns a signed-out session.
func New(clk clock.Clocker) *Session {
	if clk == nil {
		clk = clock.New()
	}
	return &Session{clock: clk}
}

// Start signs phone in with the given tokens. The expiry is read from the
// access token's exp claim; a token without one never expires locally.
func (s *Session) Start(phone, access, refresh string) error {
	if access == "" {
		return ErrNoToken
	}

	exp, err := jwt.ExpiresAt(access)
	if err != nil {
		slog.Warn("session: access token has no readable expiry", "error", err)
		exp = time.Time{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.phone = phone
	s.access = access
	s.refresh = refresh
	s.expiresAt = exp

	return nil
}

// Token returns the access token, or "" when signed out or expired.
// It satisfies apiclient.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.activeLocked() {
		return ""
	}
	return s.access
}

// RefreshToken returns the refresh token of the current session.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.refresh
}

// SignedIn reports whether a non-expired access token is held.
func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.activeLocked()
}

// Phone returns the signed-in phone number.
func (s *Session) Phone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.phone
}

// ExpiresAt returns the access token expiry; zero means none.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.expiresAt
}

// Clear signs out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phone = ""
	s.access = ""
	s.refresh = ""
	s.expiresAt = time.Time{}
}

func (s *Session) activeLocked() bool {
	if s.access == "" {
		return false
	}
	return s.expiresAt.IsZero() || s.clock.Now().Before(s.expiresAt)
}
