package db

import (
	"context"

	"github.com/huviapp/huvi/internal/domain"
)

type Profiles interface {
	// GetProfile returns the profile keyed by the given identity id, or
	// ErrNotFound when no row exists. A missing row is a legitimate state:
	// the row may not have been created yet after sign-up.
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	// CreateProfile inserts the initial profile row for a freshly registered
	// identity.
	CreateProfile(ctx context.Context, p domain.Profile) error
	// UpdateProfile applies a partial update to the row keyed by id. It
	// returns ErrNotFound when the row does not exist and writes nothing
	// when the update is empty.
	UpdateProfile(ctx context.Context, id string, updates domain.ProfileUpdate) error
	// GetFullName returns the display name for the given identity id.
	GetFullName(ctx context.Context, id string) (string, error)
	// GetPushID returns the push-subscription identifier for the given
	// identity id. A missing row is ErrNotFound; a row without a
	// subscription yields an empty string and no error.
	GetPushID(ctx context.Context, id string) (string, error)
}
