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
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGBookingRepo is the PostgreSQL implementation of BookingRepository and
// SlotLockRepository.
type PGBookingRepo struct {
	pool *pgxpool.Pool
}

func NewPGBookingRepo(pool *pgxpool.Pool) *PGBookingRepo {
	return &PGBookingRepo{pool: pool}
}

const bookingSelect = `
	SELECT b.id, b.branch_id, b.service_id, b.worker_id, b.guest_id,
	       COALESCE(b.slot_lock_id::text, ''),
	       b.booking_date, b.start_time, b.end_time, b.duration_minutes,
	       b.status, b.payment_status, b.amount_minor, b.access_token,
	       b.notes, b.is_manual, b.created_at, b.updated_at,
	       br.name, s.name, w.name, g.name, g.phone, g.email
	FROM bookings b
	JOIN branches br ON br.id = b.branch_id
	JOIN services s  ON s.id  = b.service_id
	JOIN workers w   ON w.id  = b.worker_id
	JOIN guests g    ON g.id  = b.guest_id`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	var start, end int
	err := row.Scan(&b.ID, &b.BranchID, &b.ServiceID, &b.WorkerID, &b.GuestID,
		&b.SlotLockID, &b.BookingDate, &start, &end, &b.DurationMinutes,
		&b.Status, &b.PaymentStatus, &b.AmountMinor, &b.AccessToken,
		&b.Notes, &b.IsManual, &b.CreatedAt, &b.UpdatedAt,
		&b.BranchName, &b.ServiceName, &b.WorkerName, &b.GuestName, &b.GuestPhone, &b.GuestEmail)
	if err != nil {
		return nil, err
	}
	b.StartTime = models.TimeOfDay(start)
	b.EndTime = models.TimeOfDay(end)
	return &b, nil
}

func (r *PGBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.AccessToken == "" {
		booking.AccessToken = uuid.New().String()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	var slotLockID any
	if booking.SlotLockID != "" {
		slotLockID = booking.SlotLockID
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, branch_id, service_id, worker_id, guest_id, slot_lock_id,
		        booking_date, start_time, end_time, duration_minutes,
		        status, payment_status, amount_minor, access_token, notes, is_manual,
		        created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		booking.ID, booking.BranchID, booking.ServiceID, booking.WorkerID, booking.GuestID, slotLockID,
		booking.BookingDate, booking.StartTime.Minutes(), booking.EndTime.Minutes(), booking.DurationMinutes,
		booking.Status, booking.PaymentStatus, booking.AmountMinor, booking.AccessToken,
		booking.Notes, booking.IsManual, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := insertStatusLog(ctx, tx, booking.ID, "", booking.Status, "system", "booking created"); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := scanBooking(r.pool.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

func (r *PGBookingRepo) GetByAccessToken(ctx context.Context, token string) (*models.Booking, error) {
	booking, err := scanBooking(r.pool.QueryRow(ctx, bookingSelect+` WHERE b.access_token = $1`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get booking by token: %w", err)
	}
	return booking, nil
}

func (r *PGBookingRepo) ListByPhone(ctx context.Context, phone string) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx,
		bookingSelect+` WHERE g.phone = $1 ORDER BY b.booking_date DESC, b.start_time DESC`, phone)
	if err != nil {
		return nil, fmt.Errorf("list bookings by phone: %w", err)
	}
	return collectBookings(rows)
}

func (r *PGBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	query := bookingSelect + ` WHERE TRUE`
	args := []any{}
	arg := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND b.status = $%d", arg)
		args = append(args, filter.Status)
		arg++
	}
	if filter.BranchID != "" {
		query += fmt.Sprintf(" AND b.branch_id = $%d", arg)
		args = append(args, filter.BranchID)
		arg++
	}
	if filter.Date != nil {
		query += fmt.Sprintf(" AND b.booking_date = $%d", arg)
		args = append(args, *filter.Date)
		arg++
	}
	query += " ORDER BY b.booking_date DESC, b.start_time DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", arg)
		args = append(args, filter.Limit)
		arg++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", arg)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]models.Booking, error) {
	defer rows.Close()
	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepo) OccupiedWindows(ctx context.Context, workerID string, date time.Time, now time.Time) ([]models.Window, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT start_time, end_time FROM bookings
		  WHERE worker_id = $1 AND booking_date = $2 AND status = $3
		 UNION ALL
		 SELECT start_time, end_time FROM slot_locks
		  WHERE worker_id = $1 AND booking_date = $2 AND NOT released AND expires_at > $4`,
		workerID, date, models.BookingConfirmed, now)
	if err != nil {
		return nil, fmt.Errorf("occupied windows: %w", err)
	}
	defer rows.Close()

	var windows []models.Window
	for rows.Next() {
		var start, end int
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		windows = append(windows, models.Window{Start: models.TimeOfDay(start), End: models.TimeOfDay(end)})
	}
	return windows, rows.Err()
}

func (r *PGBookingRepo) HasConfirmedAt(ctx context.Context, workerID string, date time.Time, start models.TimeOfDay) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings
		  WHERE worker_id = $1 AND booking_date = $2 AND start_time = $3 AND status = $4)`,
		workerID, date, start.Minutes(), models.BookingConfirmed).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check confirmed slot: %w", err)
	}
	return exists, nil
}

func (r *PGBookingRepo) ConfirmedCount(ctx context.Context, workerID string, date time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE worker_id = $1 AND booking_date = $2 AND status = $3`,
		workerID, date, models.BookingConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count confirmed: %w", err)
	}
	return count, nil
}

func insertStatusLog(ctx context.Context, tx pgx.Tx, bookingID string, from, to models.BookingStatus, changedBy, reason string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO booking_status_logs (id, booking_id, from_status, to_status, changed_by, reason, changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		uuid.New().String(), bookingID, string(from), string(to), changedBy, reason)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}
	return nil
}

func (r *PGBookingRepo) StatusLogs(ctx context.Context, bookingID string) ([]models.BookingStatusLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, booking_id, from_status, to_status, changed_by, reason, changed_at
		 FROM booking_status_logs WHERE booking_id = $1 ORDER BY changed_at`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list status logs: %w", err)
	}
	defer rows.Close()

	var logs []models.BookingStatusLog
	for rows.Next() {
		var l models.BookingStatusLog
		if err := rows.Scan(&l.ID, &l.BookingID, &l.FromStatus, &l.ToStatus, &l.ChangedBy, &l.Reason, &l.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
