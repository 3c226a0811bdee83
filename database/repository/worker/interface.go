package workerRepo

import (
	"context"
	"time"

	"serenity/models"
)

// WorkerRepository defines data access for therapists and their leave days.
type WorkerRepository interface {
	// GetByID retrieves a worker by ID.
	GetByID(ctx context.Context, id string) (*models.Worker, error)
	// GetActiveByBranch retrieves the active workers at a branch, ordered by name.
	GetActiveByBranch(ctx context.Context, branchID string) ([]models.Worker, error)
	// GetAll retrieves workers ordered by branch then name.
	GetAll(ctx context.Context, includeInactive bool) ([]models.Worker, error)
	// Create inserts a new worker.
	Create(ctx context.Context, worker *models.Worker) error
	// Update modifies an existing worker.
	Update(ctx context.Context, worker *models.Worker) error
	// SoftDelete hides a worker from all public reads.
	SoftDelete(ctx context.Context, id string) error

	// OnLeave reports whether the worker has a leave day on the given date.
	OnLeave(ctx context.Context, workerID string, date time.Time) (bool, error)
	// AddLeave records a leave day.
	AddLeave(ctx context.Context, leave *models.WorkerLeave) error
	// RemoveLeave deletes a leave day.
	RemoveLeave(ctx context.Context, leaveID string) error
	// ListLeaves retrieves a worker's leave days, newest first.
	ListLeaves(ctx context.Context, workerID string) ([]models.WorkerLeave, error)
}
