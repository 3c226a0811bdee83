package workerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"serenity/database/repository"
	"serenity/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGWorkerRepo is the PostgreSQL implementation of WorkerRepository.
type PGWorkerRepo struct {
	pool *pgxpool.Pool
}

func NewPGWorkerRepo(pool *pgxpool.Pool) *PGWorkerRepo {
	return &PGWorkerRepo{pool: pool}
}

const workerColumns = `id, branch_id, name, bio, years_experience, phone, location, is_active, created_at, updated_at`

func scanWorker(row pgx.Row) (*models.Worker, error) {
	var w models.Worker
	err := row.Scan(&w.ID, &w.BranchID, &w.Name, &w.Bio, &w.YearsExperience,
		&w.Phone, &w.Location, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PGWorkerRepo) GetByID(ctx context.Context, id string) (*models.Worker, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE id = $1 AND deleted_at IS NULL`, id)
	worker, err := scanWorker(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return worker, nil
}

func (r *PGWorkerRepo) GetActiveByBranch(ctx context.Context, branchID string) ([]models.Worker, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+workerColumns+` FROM workers
		 WHERE branch_id = $1 AND is_active AND deleted_at IS NULL
		 ORDER BY name`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list branch workers: %w", err)
	}
	return collectWorkers(rows)
}

func (r *PGWorkerRepo) GetAll(ctx context.Context, includeInactive bool) ([]models.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE deleted_at IS NULL`
	if !includeInactive {
		query += ` AND is_active`
	}
	query += ` ORDER BY branch_id, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return collectWorkers(rows)
}

func collectWorkers(rows pgx.Rows) ([]models.Worker, error) {
	defer rows.Close()
	var workers []models.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

func (r *PGWorkerRepo) Create(ctx context.Context, worker *models.Worker) error {
	if worker.ID == "" {
		worker.ID = uuid.New().String()
	}
	now := time.Now()
	worker.CreatedAt = now
	worker.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO workers (id, branch_id, name, bio, years_experience, phone, location, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		worker.ID, worker.BranchID, worker.Name, worker.Bio, worker.YearsExperience,
		worker.Phone, worker.Location, worker.IsActive, worker.CreatedAt, worker.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert worker: %w", err)
	}
	return nil
}

func (r *PGWorkerRepo) Update(ctx context.Context, worker *models.Worker) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE workers SET branch_id = $2, name = $3, bio = $4, years_experience = $5,
		        phone = $6, location = $7, is_active = $8, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		worker.ID, worker.BranchID, worker.Name, worker.Bio, worker.YearsExperience,
		worker.Phone, worker.Location, worker.IsActive)
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PGWorkerRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE workers SET deleted_at = now(), is_active = FALSE WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PGWorkerRepo) OnLeave(ctx context.Context, workerID string, date time.Time) (bool, error) {
	var onLeave bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM worker_leaves WHERE worker_id = $1 AND leave_date = $2)`,
		workerID, date).Scan(&onLeave)
	if err != nil {
		return false, fmt.Errorf("check leave: %w", err)
	}
	return onLeave, nil
}

func (r *PGWorkerRepo) AddLeave(ctx context.Context, leave *models.WorkerLeave) error {
	if leave.ID == "" {
		leave.ID = uuid.New().String()
	}
	leave.CreatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO worker_leaves (id, worker_id, leave_date, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		leave.ID, leave.WorkerID, leave.LeaveDate, leave.Reason, leave.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert leave: %w", err)
	}
	return nil
}

func (r *PGWorkerRepo) RemoveLeave(ctx context.Context, leaveID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM worker_leaves WHERE id = $1`, leaveID)
	if err != nil {
		return fmt.Errorf("delete leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PGWorkerRepo) ListLeaves(ctx context.Context, workerID string) ([]models.WorkerLeave, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, worker_id, leave_date, reason, created_at FROM worker_leaves
		 WHERE worker_id = $1 ORDER BY leave_date DESC`, workerID)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	defer rows.Close()

	var leaves []models.WorkerLeave
	for rows.Next() {
		var l models.WorkerLeave
		if err := rows.Scan(&l.ID, &l.WorkerID, &l.LeaveDate, &l.Reason, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}
