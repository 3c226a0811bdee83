package catalogRepo

import (
	"context"

	"serenity/models"
)

// ServiceRepository defines data access for the treatment catalog.
type ServiceRepository interface {
	// GetByID retrieves a service with its branch associations.
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// GetActiveByBranch retrieves active services offered at a branch,
	// ordered by name then duration.
	GetActiveByBranch(ctx context.Context, branchID string) ([]models.Service, error)
	// GetAll retrieves services ordered by name then duration.
	GetAll(ctx context.Context, includeInactive bool) ([]models.Service, error)
	// Create inserts a service and its branch links.
	Create(ctx context.Context, service *models.Service) error
	// Update modifies service fields and replaces branch links.
	Update(ctx context.Context, service *models.Service) error
	// SoftDelete hides a service from all public reads.
	SoftDelete(ctx context.Context, id string) error
}
