package ports

import (
	"context"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

// IdentityRepository defines persistence operations for registered identities.
type IdentityRepository interface {
	// ListActiveWithDescriptors returns a fresh snapshot of every active
	// identity including its reference descriptors, in stable storage order.
	ListActiveWithDescriptors(ctx context.Context) ([]domain.Identity, error)

	// FindByEmployeeCode retrieves an identity by its normalized employee
	// code regardless of active flag. Returns domain.ErrIdentityNotFound
	// when no identity has the code.
	FindByEmployeeCode(ctx context.Context, code string) (*domain.Identity, error)

	// Create inserts a new identity. A duplicate employee code is reported
	// as domain.ErrDuplicateEmployeeCode (backed by a unique index).
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)

	// FindByIDs returns the identities for the given IDs keyed by ID,
	// active or not. Unknown IDs are simply missing from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Identity, error)

	// Deactivate clears the active flag. The identity is never hard-deleted.
	Deactivate(ctx context.Context, code string) error
}
