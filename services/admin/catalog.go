package admin

import (
	"context"

	"serenity/models"
)

// Catalog management passes through to the repositories; the handlers own
// input validation and the repositories own consistency.

func (s *DefaultAdminService) CreateBranch(ctx context.Context, branch *models.Branch) error {
	return s.BranchRepo.Create(ctx, branch)
}

func (s *DefaultAdminService) UpdateBranch(ctx context.Context, branch *models.Branch) error {
	return s.BranchRepo.Update(ctx, branch)
}

func (s *DefaultAdminService) DeleteBranch(ctx context.Context, id string) error {
	return s.BranchRepo.SoftDelete(ctx, id)
}

func (s *DefaultAdminService) AllBranches(ctx context.Context) ([]models.Branch, error) {
	return s.BranchRepo.GetAll(ctx, true)
}

func (s *DefaultAdminService) CreateService(ctx context.Context, service *models.Service) error {
	return s.ServiceRepo.Create(ctx, service)
}

func (s *DefaultAdminService) UpdateService(ctx context.Context, service *models.Service) error {
	return s.ServiceRepo.Update(ctx, service)
}

func (s *DefaultAdminService) DeleteService(ctx context.Context, id string) error {
	return s.ServiceRepo.SoftDelete(ctx, id)
}

func (s *DefaultAdminService) AllServices(ctx context.Context) ([]models.Service, error) {
	return s.ServiceRepo.GetAll(ctx, true)
}

func (s *DefaultAdminService) CreateWorker(ctx context.Context, worker *models.Worker) error {
	return s.WorkerRepo.Create(ctx, worker)
}

func (s *DefaultAdminService) UpdateWorker(ctx context.Context, worker *models.Worker) error {
	return s.WorkerRepo.Update(ctx, worker)
}

func (s *DefaultAdminService) DeleteWorker(ctx context.Context, id string) error {
	return s.WorkerRepo.SoftDelete(ctx, id)
}

func (s *DefaultAdminService) AllWorkers(ctx context.Context) ([]models.Worker, error) {
	return s.WorkerRepo.GetAll(ctx, true)
}

func (s *DefaultAdminService) AddLeave(ctx context.Context, leave *models.WorkerLeave) error {
	return s.WorkerRepo.AddLeave(ctx, leave)
}

func (s *DefaultAdminService) RemoveLeave(ctx context.Context, leaveID string) error {
	return s.WorkerRepo.RemoveLeave(ctx, leaveID)
}

func (s *DefaultAdminService) WorkerLeaves(ctx context.Context, workerID string) ([]models.WorkerLeave, error) {
	return s.WorkerRepo.ListLeaves(ctx, workerID)
}

func (s *DefaultAdminService) CreateReview(ctx context.Context, review *models.Review) error {
	return s.ReviewRepo.Create(ctx, review)
}

func (s *DefaultAdminService) UpdateReview(ctx context.Context, review *models.Review) error {
	return s.ReviewRepo.Update(ctx, review)
}

func (s *DefaultAdminService) DeleteReview(ctx context.Context, id string) error {
	return s.ReviewRepo.SoftDelete(ctx, id)
}

func (s *DefaultAdminService) AllReviews(ctx context.Context) ([]models.Review, error) {
	return s.ReviewRepo.GetAll(ctx)
}
