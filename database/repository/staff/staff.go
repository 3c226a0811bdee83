package staffRepo

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

// StaffRepository defines data access for dashboard operators.
type StaffRepository interface {
	// GetByEmail retrieves an active staff user by e-mail.
	GetByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	// GetByID retrieves an active staff user by ID.
	GetByID(ctx context.Context, id string) (*models.StaffUser, error)
	// Create inserts a staff user (seed/bootstrap path).
	Create(ctx context.Context, staff *models.StaffUser) error
}

// PGStaffRepo is the PostgreSQL implementation of StaffRepository.
type PGStaffRepo struct {
	pool *pgxpool.Pool
}

func NewPGStaffRepo(pool *pgxpool.Pool) *PGStaffRepo {
	return &PGStaffRepo{pool: pool}
}

const staffColumns = `id, email, name, role, password_hash, is_active, created_at, updated_at`

func scanStaff(row pgx.Row) (*models.StaffUser, error) {
	var s models.StaffUser
	err := row.Scan(&s.ID, &s.Email, &s.Name, &s.Role, &s.PasswordHash,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGStaffRepo) GetByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	staff, err := scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff_users WHERE email = $1 AND is_active`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get staff by email: %w", err)
	}
	return staff, nil
}

func (r *PGStaffRepo) GetByID(ctx context.Context, id string) (*models.StaffUser, error) {
	staff, err := scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff_users WHERE id = $1 AND is_active`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get staff by id: %w", err)
	}
	return staff, nil
}

func (r *PGStaffRepo) Create(ctx context.Context, staff *models.StaffUser) error {
	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO staff_users (id, email, name, role, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		staff.ID, staff.Email, staff.Name, staff.Role, staff.PasswordHash,
		staff.IsActive, staff.CreatedAt, staff.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert staff user: %w", err)
	}
	return nil
}
