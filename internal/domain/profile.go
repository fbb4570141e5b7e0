package domain

import "time"

// Role classifies what a profile is allowed to do. Role changes are an
// out-of-band administrative action; no endpoint of this service writes them.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Profile is the domain representation of a member profile.
// There is exactly one profile per identity; it is created lazily on the
// first successful session resolution.
type Profile struct {
	ID    ProfileID
	Email string

	DisplayName string
	// DietaryNote is free-text dietary/preference information; nil means unset.
	DietaryNote *string

	Role Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }
