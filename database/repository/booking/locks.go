package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"serenity/database/repository"
	"serenity/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AcquireLock atomically reserves worker+date+start. All checks and the
// insert run inside one transaction with row locks, so two competing
// guests can never both succeed; the partial unique indexes are the
// final backstop.
func (r *PGBookingRepo) AcquireLock(ctx context.Context, lock *models.SlotLock) error {
	if lock.ID == "" {
		lock.ID = uuid.New().String()
	}
	lock.CreatedAt = time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. A CONFIRMED booking already holding the slot wins outright.
	var confirmedID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM bookings
		  WHERE worker_id = $1 AND booking_date = $2 AND start_time = $3 AND status = $4
		  FOR UPDATE`,
		lock.WorkerID, lock.BookingDate, lock.StartTime.Minutes(), models.BookingConfirmed).Scan(&confirmedID)
	if err == nil {
		return ErrSlotTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check confirmed booking: %w", err)
	}

	// 2. An active lock means another guest is mid-payment on this slot.
	var heldID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM slot_locks
		  WHERE worker_id = $1 AND booking_date = $2 AND start_time = $3
		    AND NOT released AND expires_at > now()
		  FOR UPDATE`,
		lock.WorkerID, lock.BookingDate, lock.StartTime.Minutes()).Scan(&heldID)
	if err == nil {
		return ErrSlotHeld
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check active lock: %w", err)
	}

	// 3. Expired-but-unreleased locks at this slot would trip the partial
	// unique index; release them before inserting.
	_, err = tx.Exec(ctx,
		`UPDATE slot_locks SET released = TRUE
		  WHERE worker_id = $1 AND booking_date = $2 AND start_time = $3 AND NOT released`,
		lock.WorkerID, lock.BookingDate, lock.StartTime.Minutes())
	if err != nil {
		return fmt.Errorf("release stale locks: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO slot_locks (id, worker_id, branch_id, booking_date, start_time, end_time,
		        session_key, expires_at, released, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)`,
		lock.ID, lock.WorkerID, lock.BranchID, lock.BookingDate,
		lock.StartTime.Minutes(), lock.EndTime.Minutes(),
		lock.SessionKey, lock.ExpiresAt, lock.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert slot lock: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepo) GetLock(ctx context.Context, id string) (*models.SlotLock, error) {
	var l models.SlotLock
	var start, end int
	err := r.pool.QueryRow(ctx,
		`SELECT id, worker_id, branch_id, booking_date, start_time, end_time,
		        session_key, expires_at, released, created_at
		 FROM slot_locks WHERE id = $1`, id).
		Scan(&l.ID, &l.WorkerID, &l.BranchID, &l.BookingDate, &start, &end,
			&l.SessionKey, &l.ExpiresAt, &l.Released, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get slot lock: %w", err)
	}
	l.StartTime = models.TimeOfDay(start)
	l.EndTime = models.TimeOfDay(end)
	return &l, nil
}

func (r *PGBookingRepo) ReleaseLock(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE slot_locks SET released = TRUE WHERE id = $1 AND NOT released`, id)
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PGBookingRepo) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE slot_locks SET released = TRUE WHERE NOT released AND expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("release expired locks: %w", err)
	}
	return tag.RowsAffected(), nil
}
