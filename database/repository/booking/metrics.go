package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"serenity/models"
)

// settledStatuses are booking states that count toward revenue.
const settledStatuses = `('CONFIRMED', 'COMPLETED')`

func (r *PGBookingRepo) Overview(ctx context.Context, now time.Time) (*models.DashboardOverview, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -models.ISOWeekday(today))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var o models.DashboardOverview
	err := r.pool.QueryRow(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM bookings WHERE booking_date = $1 AND status IN `+settledStatuses+`),
		  (SELECT COUNT(*) FROM bookings WHERE booking_date > $1 AND status = 'CONFIRMED'),
		  (SELECT COUNT(*) FROM bookings WHERE status = 'PENDING_PAYMENT'),
		  (SELECT COUNT(*) FROM bookings WHERE status = 'COMPLETED' AND booking_date >= $2),
		  (SELECT COALESCE(SUM(amount_minor), 0) FROM bookings WHERE booking_date = $1 AND payment_status = 'PAID'),
		  (SELECT COALESCE(SUM(amount_minor), 0) FROM bookings WHERE booking_date >= $3 AND payment_status = 'PAID')`,
		today, weekStart, monthStart).
		Scan(&o.TodayBookings, &o.UpcomingBookings, &o.PendingPayment,
			&o.CompletedThisWeek, &o.RevenueTodayMinor, &o.RevenueMonthMinor)
	if err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	return &o, nil
}

func (r *PGBookingRepo) RevenueByDay(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT booking_date, COALESCE(SUM(amount_minor), 0), COUNT(*)
		FROM bookings
		WHERE booking_date BETWEEN $1 AND $2 AND payment_status = 'PAID'
		GROUP BY booking_date
		ORDER BY booking_date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue by day: %w", err)
	}
	defer rows.Close()

	var points []models.RevenuePoint
	for rows.Next() {
		var p models.RevenuePoint
		if err := rows.Scan(&p.Date, &p.AmountMinor, &p.Bookings); err != nil {
			return nil, fmt.Errorf("scan revenue point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
