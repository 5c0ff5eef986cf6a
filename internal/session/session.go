// Package session resolves bearer tokens into sessions: the provider identity
// plus the locally stored profile that carries the user's role. Resolved
// sessions are cached per token for a short period so route checks don't hit
// the provider on every request; after that the token is validated again.
package session

import (
	"context"
	"errors"

	"github.com/huviapp/huvi/internal/domain"
	"github.com/huviapp/huvi/internal/provider"
)

// ErrForbidden is returned when a write is rejected by policy, such as a
// non-admin trying to change a role.
var ErrForbidden = errors.New("forbidden")

// Session is the resolved state for one client. User is nil when the token was
// absent or rejected. Profile is nil when the row has not been created yet or
// was never loaded; that is a legitimate state and never an error. Loading is
// true only while the first resolution is in flight; access rules must not be
// evaluated against a loading session.
type Session struct {
	User    *domain.Identity
	Profile *domain.Profile
	Loading bool
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// Role returns the profile's role, or the empty role when no profile is
// present. An absent profile therefore never grants privileged access.
func (s *Session) Role() domain.Role {
	if s == nil || s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

type Service interface {
	// Resolve bootstraps and returns the session for the given token. It
	// never fails: provider or profile trouble degrades to a signed-out or
	// profile-less session rather than blocking the request. Concurrent
	// calls for the same token share a single in-flight bootstrap. Only
	// successfully validated tokens are cached, and only until the cache
	// entry expires.
	Resolve(ctx context.Context, token string) *Session
	// Login verifies the credentials with the provider. A provider
	// rejection comes back as *provider.AuthError for the caller to show.
	// Navigation after login is the caller's job.
	Login(ctx context.Context, email, password string) (token string, s *Session, err error)
	// Register creates the identity at the provider and the local profile
	// row. When the provider issues an immediate session it is cached and
	// its profile fetched before returning.
	Register(ctx context.Context, email, password, fullName string) (provider.SignUpResult, error)
	// Logout signs the token out remotely and drops the cached session.
	// The local session is discarded even when the remote call fails.
	Logout(ctx context.Context, token string)
	// UpdateProfile writes a partial update for the session's user and
	// publishes a fresh cached session carrying the merged profile; the
	// previously published session is left untouched. Without a signed-in
	// user it is a no-op. A rejected write does not touch local state.
	UpdateProfile(ctx context.Context, token string, updates domain.ProfileUpdate) (*domain.Profile, error)
}
