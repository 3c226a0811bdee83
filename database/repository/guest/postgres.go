package guestRepo

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

// PGGuestRepo is the PostgreSQL implementation of GuestRepository.
type PGGuestRepo struct {
	pool *pgxpool.Pool
}

func NewPGGuestRepo(pool *pgxpool.Pool) *PGGuestRepo {
	return &PGGuestRepo{pool: pool}
}

func scanGuest(row pgx.Row) (*models.Guest, error) {
	var g models.Guest
	if err := row.Scan(&g.ID, &g.Name, &g.Phone, &g.Email, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PGGuestRepo) GetByID(ctx context.Context, id string) (*models.Guest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, phone, email, created_at, updated_at FROM guests WHERE id = $1`, id)
	guest, err := scanGuest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return guest, nil
}

func (r *PGGuestRepo) GetOrCreateByPhone(ctx context.Context, name, phone, email string) (*models.Guest, bool, error) {
	now := time.Now()

	// Upsert on the phone uniqueness constraint; keep the most recent
	// non-empty name and e-mail the guest supplied.
	row := r.pool.QueryRow(ctx,
		`INSERT INTO guests (id, name, phone, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (phone) DO UPDATE SET
		     name       = CASE WHEN EXCLUDED.name  <> '' THEN EXCLUDED.name  ELSE guests.name  END,
		     email      = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE guests.email END,
		     updated_at = EXCLUDED.updated_at
		 RETURNING id, name, phone, email, created_at, updated_at`,
		uuid.New().String(), name, phone, email, now)

	guest, err := scanGuest(row)
	if err != nil {
		return nil, false, fmt.Errorf("get or create guest: %w", err)
	}
	created := guest.CreatedAt.Equal(guest.UpdatedAt)
	return guest, created, nil
}
