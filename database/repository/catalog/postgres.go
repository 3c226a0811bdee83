package catalogRepo

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

// PGServiceRepo is the PostgreSQL implementation of ServiceRepository.
type PGServiceRepo struct {
	pool *pgxpool.Pool
}

func NewPGServiceRepo(pool *pgxpool.Pool) *PGServiceRepo {
	return &PGServiceRepo{pool: pool}
}

const serviceColumns = `id, name, description, duration_minutes, buffer_minutes, price_minor, benefits, is_active, created_at, updated_at`

func scanService(row pgx.Row) (*models.Service, error) {
	var s models.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.BufferMinutes,
		&s.PriceMinor, &s.Benefits, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1 AND deleted_at IS NULL`, id)
	service, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	if err := r.loadBranchIDs(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (r *PGServiceRepo) GetActiveByBranch(ctx context.Context, branchID string) ([]models.Service, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+serviceColumns+` FROM services s
		 JOIN service_branches sb ON sb.service_id = s.id
		 WHERE sb.branch_id = $1 AND s.is_active AND s.deleted_at IS NULL
		 ORDER BY s.name, s.duration_minutes`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list branch services: %w", err)
	}
	return collectServices(rows)
}

func (r *PGServiceRepo) GetAll(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE deleted_at IS NULL`
	if !includeInactive {
		query += ` AND is_active`
	}
	query += ` ORDER BY name, duration_minutes`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	services, err := collectServices(rows)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if err := r.loadBranchIDs(ctx, &services[i]); err != nil {
			return nil, err
		}
	}
	return services, nil
}

func collectServices(rows pgx.Rows) ([]models.Service, error) {
	defer rows.Close()
	var services []models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

func (r *PGServiceRepo) loadBranchIDs(ctx context.Context, service *models.Service) error {
	rows, err := r.pool.Query(ctx,
		`SELECT branch_id FROM service_branches WHERE service_id = $1`, service.ID)
	if err != nil {
		return fmt.Errorf("load service branches: %w", err)
	}
	defer rows.Close()

	service.BranchIDs = service.BranchIDs[:0]
	for rows.Next() {
		var branchID string
		if err := rows.Scan(&branchID); err != nil {
			return err
		}
		service.BranchIDs = append(service.BranchIDs, branchID)
	}
	return rows.Err()
}

func (r *PGServiceRepo) Create(ctx context.Context, service *models.Service) error {
	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO services (id, name, description, duration_minutes, buffer_minutes, price_minor, benefits, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		service.ID, service.Name, service.Description, service.DurationMinutes, service.BufferMinutes,
		service.PriceMinor, service.Benefits, service.IsActive, service.CreatedAt, service.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}

	if err := replaceBranchLinks(ctx, tx, service.ID, service.BranchIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGServiceRepo) Update(ctx context.Context, service *models.Service) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE services SET name = $2, description = $3, duration_minutes = $4, buffer_minutes = $5,
		        price_minor = $6, benefits = $7, is_active = $8, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		service.ID, service.Name, service.Description, service.DurationMinutes, service.BufferMinutes,
		service.PriceMinor, service.Benefits, service.IsActive)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := replaceBranchLinks(ctx, tx, service.ID, service.BranchIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceBranchLinks(ctx context.Context, tx pgx.Tx, serviceID string, branchIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM service_branches WHERE service_id = $1`, serviceID); err != nil {
		return fmt.Errorf("clear service branches: %w", err)
	}
	for _, branchID := range branchIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO service_branches (service_id, branch_id) VALUES ($1, $2)`,
			serviceID, branchID)
		if err != nil {
			return fmt.Errorf("link service branch: %w", err)
		}
	}
	return nil
}

func (r *PGServiceRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE services SET deleted_at = now(), is_active = FALSE WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
