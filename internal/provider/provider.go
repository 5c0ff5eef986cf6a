// Package provider talks to the external credential service. The service owns
// sign-up, password verification and session issuance; this package only
// consumes its HTTP API and never stores credentials itself.
package provider

import (
	"context"
	"fmt"

	"github.com/huviapp/huvi/internal/domain"
)

// AuthError is a rejection by the credential provider: bad credentials, a
// duplicate email, a weak password. It carries the provider's message so the
// caller can show it to the end user. Transport failures are plain errors.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s", e.Message)
}

// Session is an active provider session: the bearer token plus the identity
// it belongs to.
type Session struct {
	AccessToken string
	User        domain.Identity
}

// SignUpResult is what the provider returns from sign-up. Session is nil when
// the provider requires email confirmation before issuing one.
type SignUpResult struct {
	User    domain.Identity
	Session *Session
}

type Provider interface {
	// GetUser resolves a bearer token to the identity it belongs to.
	// An invalid or expired token is an *AuthError.
	GetUser(ctx context.Context, token string) (domain.Identity, error)
	SignUp(ctx context.Context, email, password, fullName string) (SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
}
