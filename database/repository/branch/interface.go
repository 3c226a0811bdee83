package branchRepo

import (
	"context"

	"serenity/models"
)

// BranchRepository defines data access for branches and their weekly schedules.
type BranchRepository interface {
	// GetByID retrieves a branch with its working days.
	GetByID(ctx context.Context, id string) (*models.Branch, error)
	// GetAll retrieves branches ordered by name. Inactive and soft-deleted
	// branches are included only when includeInactive is set.
	GetAll(ctx context.Context, includeInactive bool) ([]models.Branch, error)
	// Create inserts a new branch and its schedule rows.
	Create(ctx context.Context, branch *models.Branch) error
	// Update modifies branch fields and replaces its schedule.
	Update(ctx context.Context, branch *models.Branch) error
	// SoftDelete hides a branch from all public reads.
	SoftDelete(ctx context.Context, id string) error
}
