package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidAssertion is returned when an external identity token fails verification.
// Signature, audience, structure and expiry failures all collapse into this one error
// so callers cannot distinguish which check failed.
var ErrInvalidAssertion = errors.New("invalid identity assertion")

// ErrAuthentication is returned when a verified assertion violates deployment policy,
// such as a missing email claim.
var ErrAuthentication = errors.New("authentication rejected")

// ErrInvalidToken is returned when a session token fails validation for any reason.
var ErrInvalidToken = errors.New("invalid session token")

// ErrNotFound is returned when a principal cannot be located.
var ErrNotFound = errors.New("principal not found")

// ErrDuplicateExternalID is returned by repositories when an insert collides with the
// unique external-identity constraint. The directory handles it; callers never see it.
var ErrDuplicateExternalID = errors.New("external identity already registered")

// Principal is the local user record that authentication is anchored to.
//
// StableID is minted exactly once at first creation and never changes, including
// across soft-delete and reactivation. It is the only identifier embedded in
// session tokens; the row ID stays internal.
type Principal struct {
	ID         uuid.UUID
	StableID   uuid.UUID
	Provider   string
	ProviderID string
	Nickname   string
	Email      string
	Roles      string
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ExternalClaims holds the normalized identity extracted from a verified external
// token. It lives only for the duration of one login call and is never persisted.
type ExternalClaims struct {
	Subject string
	Email   string
	Name    string
}

// ParseRoles splits the comma-separated role column into a set of role tokens.
// Blank input yields an empty, non-nil slice.
func ParseRoles(roles string) []string {
	out := []string{}
	for _, part := range strings.Split(roles, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
