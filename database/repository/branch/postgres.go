package branchRepo

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

// PGBranchRepo is the PostgreSQL implementation of BranchRepository.
type PGBranchRepo struct {
	pool *pgxpool.Pool
}

func NewPGBranchRepo(pool *pgxpool.Pool) *PGBranchRepo {
	return &PGBranchRepo{pool: pool}
}

const branchColumns = `id, name, address, city, phone, email, maps_url, opening_time, closing_time, is_active, created_at, updated_at`

func scanBranch(row pgx.Row) (*models.Branch, error) {
	var b models.Branch
	var opening, closing int
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.City, &b.Phone, &b.Email,
		&b.GoogleMapsURL, &opening, &closing, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.OpeningTime = models.TimeOfDay(opening)
	b.ClosingTime = models.TimeOfDay(closing)
	return &b, nil
}

func (r *PGBranchRepo) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE id = $1 AND deleted_at IS NULL`, id)
	branch, err := scanBranch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	if err := r.loadWorkingDays(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

func (r *PGBranchRepo) GetAll(ctx context.Context, includeInactive bool) ([]models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE deleted_at IS NULL`
	if !includeInactive {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []models.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range branches {
		if err := r.loadWorkingDays(ctx, &branches[i]); err != nil {
			return nil, err
		}
	}
	return branches, nil
}

func (r *PGBranchRepo) loadWorkingDays(ctx context.Context, branch *models.Branch) error {
	rows, err := r.pool.Query(ctx,
		`SELECT weekday FROM branch_schedules WHERE branch_id = $1 AND is_open ORDER BY weekday`, branch.ID)
	if err != nil {
		return fmt.Errorf("load working days: %w", err)
	}
	defer rows.Close()

	branch.WorkingDays = branch.WorkingDays[:0]
	for rows.Next() {
		var weekday int
		if err := rows.Scan(&weekday); err != nil {
			return err
		}
		branch.WorkingDays = append(branch.WorkingDays, weekday)
	}
	return rows.Err()
}

func (r *PGBranchRepo) Create(ctx context.Context, branch *models.Branch) error {
	if branch.ID == "" {
		branch.ID = uuid.New().String()
	}
	now := time.Now()
	branch.CreatedAt = now
	branch.UpdatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO branches (id, name, address, city, phone, email, maps_url, opening_time, closing_time, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		branch.ID, branch.Name, branch.Address, branch.City, branch.Phone, branch.Email,
		branch.GoogleMapsURL, branch.OpeningTime.Minutes(), branch.ClosingTime.Minutes(),
		branch.IsActive, branch.CreatedAt, branch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert branch: %w", err)
	}

	if err := replaceSchedule(ctx, tx, branch.ID, branch.WorkingDays); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGBranchRepo) Update(ctx context.Context, branch *models.Branch) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE branches SET name = $2, address = $3, city = $4, phone = $5, email = $6,
		        maps_url = $7, opening_time = $8, closing_time = $9, is_active = $10, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		branch.ID, branch.Name, branch.Address, branch.City, branch.Phone, branch.Email,
		branch.GoogleMapsURL, branch.OpeningTime.Minutes(), branch.ClosingTime.Minutes(), branch.IsActive)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if err := replaceSchedule(ctx, tx, branch.ID, branch.WorkingDays); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceSchedule(ctx context.Context, tx pgx.Tx, branchID string, weekdays []int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM branch_schedules WHERE branch_id = $1`, branchID); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	for _, weekday := range weekdays {
		_, err := tx.Exec(ctx,
			`INSERT INTO branch_schedules (branch_id, weekday, is_open) VALUES ($1, $2, TRUE)`,
			branchID, weekday)
		if err != nil {
			return fmt.Errorf("insert schedule row: %w", err)
		}
	}
	return nil
}

func (r *PGBranchRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE branches SET deleted_at = now(), is_active = FALSE WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
