package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"serenity/database/repository"
	"serenity/models"

	"github.com/jackc/pgx/v5"
)

// transition row-locks the booking, verifies the current status is one of
// the allowed sources, writes the new status and appends the audit row.
func (r *PGBookingRepo) transition(ctx context.Context, id string, allowed []models.BookingStatus,
	to models.BookingStatus, paymentStatus models.BookingPaymentStatus, changedBy, reason string) (*models.Booking, error) {

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var current models.BookingStatus
	err = tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("lock booking: %w", err)
	}

	ok := false
	for _, s := range allowed {
		if current == s {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("booking %s cannot move from %s to %s", id, current, to)
	}

	if paymentStatus != "" {
		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = $2, payment_status = $3, updated_at = now() WHERE id = $1`,
			id, to, paymentStatus)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, to)
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if err := insertStatusLog(ctx, tx, id, current, to, changedBy, reason); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PGBookingRepo) Complete(ctx context.Context, id, changedBy string) (*models.Booking, error) {
	return r.transition(ctx, id,
		[]models.BookingStatus{models.BookingConfirmed},
		models.BookingCompleted, "", changedBy, "service delivered")
}

func (r *PGBookingRepo) Cancel(ctx context.Context, id, changedBy, reason string) (*models.Booking, error) {
	return r.transition(ctx, id,
		[]models.BookingStatus{models.BookingPendingPayment, models.BookingConfirmed},
		models.BookingCancelled, "", changedBy, reason)
}

func (r *PGBookingRepo) Reassign(ctx context.Context, id, newWorkerID, changedBy string) (*models.Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var date time.Time
	var start int
	var status models.BookingStatus
	var oldWorkerID string
	err = tx.QueryRow(ctx,
		`SELECT booking_date, start_time, status, worker_id FROM bookings WHERE id = $1 FOR UPDATE`, id).
		Scan(&date, &start, &status, &oldWorkerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("lock booking: %w", err)
	}
	if status != models.BookingConfirmed {
		return nil, fmt.Errorf("only confirmed bookings can be reassigned, booking is %s", status)
	}
	if oldWorkerID == newWorkerID {
		return nil, fmt.Errorf("booking is already assigned to this worker")
	}

	// The new worker must be free at the slot.
	var conflict bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings
		  WHERE worker_id = $1 AND booking_date = $2 AND start_time = $3 AND status = $4 FOR UPDATE)`,
		newWorkerID, date, start, models.BookingConfirmed).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("check conflict: %w", err)
	}
	if conflict {
		return nil, ErrSlotTaken
	}

	_, err = tx.Exec(ctx,
		`UPDATE bookings SET worker_id = $2, updated_at = now() WHERE id = $1`, id, newWorkerID)
	if err != nil {
		return nil, fmt.Errorf("reassign booking: %w", err)
	}

	if err := insertStatusLog(ctx, tx, id, status, status, changedBy, "therapist reassigned"); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PGBookingRepo) ExpireStale(ctx context.Context, cutoff, now time.Time) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Pending bookings past the cutoff whose lock is gone, released or expired.
	rows, err := tx.Query(ctx,
		`SELECT b.id FROM bookings b
		 LEFT JOIN slot_locks l ON l.id = b.slot_lock_id
		 WHERE b.status = $1 AND b.created_at < $2
		   AND (l.id IS NULL OR l.released OR l.expires_at < $3)
		 FOR UPDATE OF b SKIP LOCKED`,
		models.BookingPendingPayment, cutoff, now)
	if err != nil {
		return 0, fmt.Errorf("select stale bookings: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`,
			id, models.BookingExpired)
		if err != nil {
			return 0, fmt.Errorf("expire booking: %w", err)
		}
		if err := insertStatusLog(ctx, tx, id, models.BookingPendingPayment, models.BookingExpired,
			"system_cron", "slot lock TTL elapsed without payment"); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(ids), nil
}
