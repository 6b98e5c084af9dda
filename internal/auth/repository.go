package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProviderGoogle scopes external subject ids to the Google federation.
const ProviderGoogle = "google"

// Repository defines the persistence surface the directory consumes.
type Repository interface {
	// FindByExternalID looks up a principal by provider-scoped external subject id.
	// Returns (nil, nil) when no record exists.
	FindByExternalID(ctx context.Context, provider, providerID string) (*Principal, error)

	// FindByStableID looks up a principal by its stable identifier.
	// Returns (nil, nil) when no record exists.
	FindByStableID(ctx context.Context, stableID uuid.UUID) (*Principal, error)

	// Create inserts a new principal. A collision on the provider-scoped unique
	// constraint is reported as ErrDuplicateExternalID.
	Create(ctx context.Context, principal Principal) (Principal, error)

	// Reactivate clears the soft-delete flag on an existing principal.
	Reactivate(ctx context.Context, id uuid.UUID, at time.Time) error
}
