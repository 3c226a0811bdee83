package models

import "time"

// StaffUser is a dashboard operator. Guests never have accounts; staff do.
type StaffUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DashboardOverview is the landing snapshot for staff.
type DashboardOverview struct {
	TodayBookings     int   `json:"todayBookings"`
	UpcomingBookings  int   `json:"upcomingBookings"`
	PendingPayment    int   `json:"pendingPayment"`
	CompletedThisWeek int   `json:"completedThisWeek"`
	RevenueTodayMinor int64 `json:"revenueTodayMinor"`
	RevenueMonthMinor int64 `json:"revenueMonthMinor"`
}

// RevenuePoint is one day of confirmed revenue for the dashboard chart.
type RevenuePoint struct {
	Date        time.Time `json:"date"`
	AmountMinor int64     `json:"amountMinor"`
	Bookings    int       `json:"bookings"`
}
