package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"serenity/database/repository"
	"serenity/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewRepository defines data access for client reviews.
type ReviewRepository interface {
	// GetPublished retrieves published reviews in display order.
	GetPublished(ctx context.Context) ([]models.Review, error)
	// GetAll retrieves every review for the dashboard.
	GetAll(ctx context.Context) ([]models.Review, error)
	// Create inserts a review.
	Create(ctx context.Context, review *models.Review) error
	// Update modifies a review.
	Update(ctx context.Context, review *models.Review) error
	// SoftDelete hides a review.
	SoftDelete(ctx context.Context, id string) error
}

// PGReviewRepo is the PostgreSQL implementation of ReviewRepository.
type PGReviewRepo struct {
	pool *pgxpool.Pool
}

func NewPGReviewRepo(pool *pgxpool.Pool) *PGReviewRepo {
	return &PGReviewRepo{pool: pool}
}

const reviewColumns = `id, client_name, instagram_url, is_published, sort_order, created_at, updated_at`

func (r *PGReviewRepo) GetPublished(ctx context.Context) ([]models.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE is_published AND deleted_at IS NULL
		 ORDER BY sort_order, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list published reviews: %w", err)
	}
	return collectReviews(rows)
}

func (r *PGReviewRepo) GetAll(ctx context.Context) ([]models.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE deleted_at IS NULL
		 ORDER BY sort_order, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]models.Review, error) {
	defer rows.Close()
	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ClientName, &rv.InstagramURL, &rv.IsPublished,
			&rv.SortOrder, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *PGReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO reviews (id, client_name, instagram_url, is_published, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		review.ID, review.ClientName, review.InstagramURL, review.IsPublished,
		review.SortOrder, review.CreatedAt, review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *PGReviewRepo) Update(ctx context.Context, review *models.Review) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET client_name = $2, instagram_url = $3, is_published = $4,
		        sort_order = $5, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		review.ID, review.ClientName, review.InstagramURL, review.IsPublished, review.SortOrder)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PGReviewRepo) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET deleted_at = now(), is_published = FALSE WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
