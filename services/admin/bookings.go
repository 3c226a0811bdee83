package admin

import (
	"context"
	"fmt"
	"time"

	"serenity/models"
	"serenity/services/booking"
	"serenity/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultAdminService) Bookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return s.BookingRepo.List(ctx, filter)
}

func (s *DefaultAdminService) BookingDetail(ctx context.Context, id string) (*models.Booking, []models.BookingStatusLog, error) {
	bkg, err := s.BookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	logs, err := s.BookingRepo.StatusLogs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return bkg, logs, nil
}

func (s *DefaultAdminService) CancelBooking(ctx context.Context, id, staffID, reason string) (*models.Booking, error) {
	bkg, err := s.BookingRepo.Cancel(ctx, id, staffID, reason)
	if err != nil {
		return nil, err
	}
	if err := s.Notifier.BookingCancelled(ctx, bkg, reason); err != nil {
		utils.GetLogger().Error("failed to queue cancellation e-mail",
			zap.Error(err), zap.String("bookingID", id))
	}
	return bkg, nil
}

func (s *DefaultAdminService) CompleteBooking(ctx context.Context, id, staffID string) (*models.Booking, error) {
	return s.BookingRepo.Complete(ctx, id, staffID)
}

// ReassignBooking moves a booking to another therapist. The new therapist
// must not already have a confirmed booking at the same start time.
func (s *DefaultAdminService) ReassignBooking(ctx context.Context, id, newWorkerID, staffID string) (*models.Booking, error) {
	before, err := s.BookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.BookingRepo.HasConfirmedAt(ctx, newWorkerID, before.BookingDate, before.StartTime)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, booking.ErrSlotConflict
	}
	bkg, err := s.BookingRepo.Reassign(ctx, id, newWorkerID, staffID)
	if err != nil {
		return nil, err
	}
	if err := s.Notifier.BookingReassigned(ctx, bkg, before.WorkerName); err != nil {
		utils.GetLogger().Error("failed to queue reassignment e-mail",
			zap.Error(err), zap.String("bookingID", id))
	}
	return bkg, nil
}

// ManualBooking records a walk-in or phone booking. It is confirmed
// immediately with payment waived; the same-day cutoff does not apply, but
// the slot must be free.
func (s *DefaultAdminService) ManualBooking(ctx context.Context, req ManualBookingRequest) (*models.Booking, error) {
	branch, err := s.BranchRepo.GetByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	service, err := s.ServiceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	worker, err := s.WorkerRepo.GetByID(ctx, req.WorkerID)
	if err != nil {
		return nil, err
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, booking.ErrDateUnavailable
	}
	start, err := models.ParseTimeOfDay(req.Start)
	if err != nil {
		return nil, booking.ErrInvalidSlot
	}

	window, err := s.Engine.AvailabilityWindow(ctx, branch, worker, date)
	if err != nil {
		return nil, err
	}
	block := service.TotalBlockMinutes()
	if window == nil || start < window.Start || start.Add(block) > window.End {
		return nil, booking.ErrInvalidSlot
	}
	occupied, err := s.BookingRepo.OccupiedWindows(ctx, worker.ID, date, time.Now())
	if err != nil {
		return nil, err
	}
	candidate := models.Window{Start: start, End: start.Add(block)}
	for _, w := range occupied {
		if candidate.Overlaps(w) {
			return nil, booking.ErrSlotConflict
		}
	}

	phone, err := models.NormalizePhone(req.GuestPhone)
	if err != nil {
		return nil, fmt.Errorf("invalid guest phone: %w", err)
	}
	guest, _, err := s.GuestRepo.GetOrCreateByPhone(ctx, req.GuestName, phone, req.GuestEmail)
	if err != nil {
		return nil, err
	}

	bkg := &models.Booking{
		BranchID:        branch.ID,
		ServiceID:       service.ID,
		WorkerID:        worker.ID,
		GuestID:         guest.ID,
		BookingDate:     date,
		StartTime:       start,
		EndTime:         start.Add(service.DurationMinutes),
		DurationMinutes: service.DurationMinutes,
		Status:          models.BookingConfirmed,
		PaymentStatus:   models.BookingPaymentWaived,
		AmountMinor:     service.PriceMinor,
		AccessToken:     uuid.New().String(),
		Notes:           req.Notes,
		IsManual:        true,
	}
	if err := s.BookingRepo.Create(ctx, bkg); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("manual booking created",
		zap.String("bookingID", bkg.ID),
		zap.String("staffID", req.StaffID))

	// Reload with display names for the confirmation e-mail.
	full, err := s.BookingRepo.GetByID(ctx, bkg.ID)
	if err != nil {
		return bkg, nil
	}
	if err := s.Notifier.BookingConfirmed(ctx, full); err != nil {
		utils.GetLogger().Error("failed to queue confirmation e-mail",
			zap.Error(err), zap.String("bookingID", bkg.ID))
	}
	return full, nil
}

func (s *DefaultAdminService) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	return s.BookingRepo.Overview(ctx, time.Now())
}

func (s *DefaultAdminService) Revenue(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error) {
	return s.BookingRepo.RevenueByDay(ctx, from, to)
}
