package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Privileged reports whether the role grants access to publisher surfaces
// such as the dashboard and post management.
func (r Role) Privileged() bool {
	return r == RolePublisher || r == RoleAdmin
}

// Identity is the bare user record owned by the credential provider. Everything
// beyond id and email lives in the local profile row.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile is the application's user record, keyed by the provider identity id.
type Profile struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Role        Role      `json:"role"`
	OnesignalID string    `json:"onesignal_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileUpdate carries a partial profile write. Nil fields are left untouched;
// the merge into both the database row and any cached copy is shallow.
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	OnesignalID *string `json:"onesignal_id,omitempty"`
	Role        *Role   `json:"role,omitempty"`
}

// Empty reports whether the update would write nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.OnesignalID == nil && u.Role == nil
}
