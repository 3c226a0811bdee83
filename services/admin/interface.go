package admin

import (
	"context"
	"time"

	bookingRepo "serenity/database/repository/booking"
	branchRepo "serenity/database/repository/branch"
	catalogRepo "serenity/database/repository/catalog"
	guestRepo "serenity/database/repository/guest"
	reviewRepo "serenity/database/repository/review"
	staffRepo "serenity/database/repository/staff"
	workerRepo "serenity/database/repository/worker"
	"serenity/models"
	"serenity/services/booking"
	"serenity/services/notification"
)

// ManualBookingRequest is a walk-in or phone booking keyed in by staff.
// It skips payment: the booking is confirmed immediately with payment waived.
type ManualBookingRequest struct {
	BranchID   string `json:"branchId"`
	ServiceID  string `json:"serviceId"`
	WorkerID   string `json:"workerId"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	GuestName  string `json:"guestName"`
	GuestPhone string `json:"guestPhone"`
	GuestEmail string `json:"guestEmail"`
	Notes      string `json:"notes"`
	StaffID    string `json:"-"`
}

// AdminService is the staff dashboard: authentication, booking operations,
// metrics and catalog management.
type AdminService interface {
	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, email, password string) (string, *models.StaffUser, error)
	// Staff retrieves an active staff user, for token middleware.
	Staff(ctx context.Context, id string) (*models.StaffUser, error)

	Bookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	// BookingDetail returns a booking with its full audit trail.
	BookingDetail(ctx context.Context, id string) (*models.Booking, []models.BookingStatusLog, error)
	// CancelBooking cancels and notifies the guest.
	CancelBooking(ctx context.Context, id, staffID, reason string) (*models.Booking, error)
	// CompleteBooking marks a confirmed booking as delivered.
	CompleteBooking(ctx context.Context, id, staffID string) (*models.Booking, error)
	// ReassignBooking moves a confirmed booking to another therapist and
	// notifies the guest.
	ReassignBooking(ctx context.Context, id, newWorkerID, staffID string) (*models.Booking, error)
	// ManualBooking creates a confirmed, payment-waived booking.
	ManualBooking(ctx context.Context, req ManualBookingRequest) (*models.Booking, error)

	Overview(ctx context.Context) (*models.DashboardOverview, error)
	Revenue(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error)

	CreateBranch(ctx context.Context, branch *models.Branch) error
	UpdateBranch(ctx context.Context, branch *models.Branch) error
	DeleteBranch(ctx context.Context, id string) error
	AllBranches(ctx context.Context) ([]models.Branch, error)

	CreateService(ctx context.Context, service *models.Service) error
	UpdateService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id string) error
	AllServices(ctx context.Context) ([]models.Service, error)

	CreateWorker(ctx context.Context, worker *models.Worker) error
	UpdateWorker(ctx context.Context, worker *models.Worker) error
	DeleteWorker(ctx context.Context, id string) error
	AllWorkers(ctx context.Context) ([]models.Worker, error)
	AddLeave(ctx context.Context, leave *models.WorkerLeave) error
	RemoveLeave(ctx context.Context, leaveID string) error
	WorkerLeaves(ctx context.Context, workerID string) ([]models.WorkerLeave, error)

	CreateReview(ctx context.Context, review *models.Review) error
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id string) error
	AllReviews(ctx context.Context) ([]models.Review, error)
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	StaffRepo   staffRepo.StaffRepository
	BookingRepo bookingRepo.BookingRepository
	BranchRepo  branchRepo.BranchRepository
	ServiceRepo catalogRepo.ServiceRepository
	WorkerRepo  workerRepo.WorkerRepository
	GuestRepo   guestRepo.GuestRepository
	ReviewRepo  reviewRepo.ReviewRepository

	Engine   *booking.Engine
	Notifier notification.NotificationService
}
