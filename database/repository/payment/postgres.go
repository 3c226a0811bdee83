package paymentRepo

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

// PGPaymentRepo is the PostgreSQL implementation of PaymentRepository.
type PGPaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPGPaymentRepo(pool *pgxpool.Pool) *PGPaymentRepo {
	return &PGPaymentRepo{pool: pool}
}

const paymentColumns = `id, booking_id, intent_id, COALESCE(provider_payment_id, ''), amount_minor, currency, kind, status, COALESCE(webhook_event_id, ''), paid_at, confirmed_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.BookingID, &p.IntentID, &p.ProviderPaymentID, &p.AmountMinor,
		&p.Currency, &p.Kind, &p.Status, &p.WebhookEventID, &p.PaidAt, &p.ConfirmedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO payments (id, booking_id, intent_id, amount_minor, currency, kind, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payment.ID, payment.BookingID, payment.IntentID, payment.AmountMinor,
		payment.Currency, payment.Kind, payment.Status, payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PGPaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	payment, err := scanPayment(r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1`, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get payment by booking: %w", err)
	}
	return payment, nil
}

func (r *PGPaymentRepo) MarkFailed(ctx context.Context, intentID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $2, updated_at = now() WHERE intent_id = $1 AND status = $3`,
		intentID, models.PaymentFailed, models.PaymentCreated)
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PGPaymentRepo) CapturePayment(ctx context.Context, intentID, providerPaymentID, webhookEventID, source string) (*models.Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Idempotency guard: this provider payment was already captured.
	var alreadyCaptured bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM payments WHERE provider_payment_id = $1 AND status = $2)`,
		providerPaymentID, models.PaymentCaptured).Scan(&alreadyCaptured)
	if err != nil {
		return nil, fmt.Errorf("check captured payment: %w", err)
	}
	if alreadyCaptured {
		return nil, nil
	}

	var paymentID, bookingID string
	var amount int64
	err = tx.QueryRow(ctx,
		`SELECT id, booking_id, amount_minor FROM payments WHERE intent_id = $1 FOR UPDATE`,
		intentID).Scan(&paymentID, &bookingID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("lock payment: %w", err)
	}

	var status models.BookingStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID).Scan(&status)
	if err != nil {
		return nil, fmt.Errorf("lock booking: %w", err)
	}
	if status == models.BookingConfirmed {
		return nil, nil
	}

	now := time.Now()
	_, err = tx.Exec(ctx,
		`UPDATE bookings SET status = $2, payment_status = $3, amount_minor = $4, updated_at = $5 WHERE id = $1`,
		bookingID, models.BookingConfirmed, models.BookingPaymentPaid, amount, now)
	if err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE payments SET status = $2, provider_payment_id = $3, webhook_event_id = $4,
		        paid_at = $5, confirmed_at = $5, updated_at = $5
		 WHERE id = $1`,
		paymentID, models.PaymentCaptured, providerPaymentID, webhookEventID, now)
	if err != nil {
		return nil, fmt.Errorf("capture payment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO booking_status_logs (id, booking_id, from_status, to_status, changed_by, reason, changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), bookingID, string(status), string(models.BookingConfirmed),
		source, fmt.Sprintf("payment captured via %s", source), now)
	if err != nil {
		return nil, fmt.Errorf("insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	booking, err := scanConfirmedBooking(ctx, r.pool, bookingID)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// scanConfirmedBooking re-reads the booking with joined display fields for
// the confirmation e-mail.
func scanConfirmedBooking(ctx context.Context, pool *pgxpool.Pool, bookingID string) (*models.Booking, error) {
	var b models.Booking
	var start, end int
	err := pool.QueryRow(ctx, `
		SELECT b.id, b.branch_id, b.service_id, b.worker_id, b.guest_id,
		       b.booking_date, b.start_time, b.end_time, b.duration_minutes,
		       b.status, b.payment_status, b.amount_minor, b.access_token, b.is_manual,
		       br.name, s.name, w.name, g.name, g.phone, g.email
		FROM bookings b
		JOIN branches br ON br.id = b.branch_id
		JOIN services s  ON s.id  = b.service_id
		JOIN workers w   ON w.id  = b.worker_id
		JOIN guests g    ON g.id  = b.guest_id
		WHERE b.id = $1`, bookingID).
		Scan(&b.ID, &b.BranchID, &b.ServiceID, &b.WorkerID, &b.GuestID,
			&b.BookingDate, &start, &end, &b.DurationMinutes,
			&b.Status, &b.PaymentStatus, &b.AmountMinor, &b.AccessToken, &b.IsManual,
			&b.BranchName, &b.ServiceName, &b.WorkerName, &b.GuestName, &b.GuestPhone, &b.GuestEmail)
	if err != nil {
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	b.StartTime = models.TimeOfDay(start)
	b.EndTime = models.TimeOfDay(end)
	return &b, nil
}
