package domain

// ProfileID identifies a member profile. It equals the identity id issued by
// the external auth provider: we model it as an opaque identifier whose format
// is controlled by the IdP, and there is exactly one profile per identity.
type ProfileID string

// RequestID is an internal identifier for a snack request record.
type RequestID string

// SnackID is an internal identifier for a catalog item.
type SnackID string
