package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	bookingRepo "serenity/database/repository/booking"
	branchRepo "serenity/database/repository/branch"
	catalogRepo "serenity/database/repository/catalog"
	guestRepo "serenity/database/repository/guest"
	"serenity/models"
	"serenity/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingFlowService is the production implementation of
// BookingFlowService, backed by Redis sessions and the slot engine.
type DefaultBookingFlowService struct {
	Sessions SessionStore
	Engine   *Engine

	Branches branchRepo.BranchRepository
	Services catalogRepo.ServiceRepository
	Guests   guestRepo.GuestRepository
	Bookings bookingRepo.BookingRepository
	Locks    bookingRepo.SlotLockRepository
	Payments PaymentIntents
}

func (s *DefaultBookingFlowService) StartSession(ctx context.Context) (*models.BookingSession, error) {
	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		CreatedAt: time.Now(),
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *DefaultBookingFlowService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.Sessions.Get(ctx, sessionID)
}

func (s *DefaultBookingFlowService) SelectBranch(ctx context.Context, sessionID, branchID string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	branch, err := s.Branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive {
		return nil, ErrDateUnavailable
	}
	if session.BranchID != branch.ID {
		if err := s.resetAfter(ctx, session, models.StepBranch); err != nil {
			return nil, err
		}
	}
	session.BranchID = branch.ID
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultBookingFlowService) SelectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.StepComplete(models.StepBranch) {
		return nil, ErrStepIncomplete
	}
	service, err := s.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !service.IsActive || !offeredAt(service, session.BranchID) {
		return nil, ErrInvalidSlot
	}
	if session.ServiceID != service.ID {
		if err := s.resetAfter(ctx, session, models.StepService); err != nil {
			return nil, err
		}
	}
	session.ServiceID = service.ID
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultBookingFlowService) SelectWorker(ctx context.Context, sessionID, workerID string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.StepComplete(models.StepService) {
		return nil, ErrStepIncomplete
	}
	if workerID != models.AnyWorker {
		worker, err := s.Engine.Workers.GetByID(ctx, workerID)
		if err != nil {
			return nil, err
		}
		if !worker.IsActive || worker.BranchID != session.BranchID {
			return nil, ErrNoWorkersAvailable
		}
	}
	if session.WorkerID != workerID {
		if err := s.resetAfter(ctx, session, models.StepWorker); err != nil {
			return nil, err
		}
	}
	session.WorkerID = workerID
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultBookingFlowService) SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.StepComplete(models.StepWorker) {
		return nil, ErrStepIncomplete
	}
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, ErrDateUnavailable
	}
	branch, err := s.Branches.GetByID(ctx, session.BranchID)
	if err != nil {
		return nil, err
	}
	now := s.Engine.Now().In(s.Engine.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Engine.Location)
	if day.Before(today) || !branch.OpenOn(models.ISOWeekday(day)) {
		return nil, ErrDateUnavailable
	}
	if session.BookingDate != date {
		if err := s.resetAfter(ctx, session, models.StepDate); err != nil {
			return nil, err
		}
	}
	session.BookingDate = date
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultBookingFlowService) SessionSlots(ctx context.Context, sessionID string) ([]models.AvailableSlot, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.StepComplete(models.StepDate) {
		return nil, ErrStepIncomplete
	}
	return s.SlotsFor(ctx, session.BranchID, session.ServiceID, session.WorkerID, session.BookingDate)
}

func (s *DefaultBookingFlowService) SelectSlot(ctx context.Context, sessionID, start string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.StepComplete(models.StepDate) {
		return nil, ErrStepIncomplete
	}
	startTime, err := models.ParseTimeOfDay(start)
	if err != nil {
		return nil, ErrInvalidSlot
	}
	slots, err := s.SlotsFor(ctx, session.BranchID, session.ServiceID, session.WorkerID, session.BookingDate)
	if err != nil {
		return nil, err
	}
	if !containsStart(slots, startTime) {
		return nil, ErrInvalidSlot
	}
	if session.StartTime != startTime.String() {
		if err := s.resetAfter(ctx, session, models.StepSlot); err != nil {
			return nil, err
		}
	}
	session.StartTime = startTime.String()
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultBookingFlowService) SetGuestInfo(ctx context.Context, sessionID, name, phone, email string) (*models.BookingSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.StepComplete(models.StepSlot) {
		return nil, ErrStepIncomplete
	}
	normalised, err := models.NormalizePhone(phone)
	if err != nil {
		return nil, &FlowError{Code: "invalidPhone", Message: "Please enter a valid 10-digit mobile number."}
	}
	guest, created, err := s.Guests.GetOrCreateByPhone(ctx, name, normalised, email)
	if err != nil {
		return nil, fmt.Errorf("resolve guest: %w", err)
	}
	if created {
		utils.GetLogger().Info("new guest registered", zap.String("guestID", guest.ID))
	}
	session.GuestID = guest.ID
	session.GuestName = guest.Name
	session.GuestPhone = guest.Phone
	session.GuestEmail = guest.Email
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Review is the commit point of the flow: it resolves "any therapist" to a
// concrete worker, acquires the slot lock, creates the PENDING_PAYMENT
// booking and hands back the gateway intent. Calling it again while the lock
// is active returns the same booking and intent.
func (s *DefaultBookingFlowService) Review(ctx context.Context, sessionID, notes string, kind models.PaymentKind) (*models.ReviewSummary, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.StepComplete(models.StepGuest) {
		return nil, ErrStepIncomplete
	}
	branch, service, err := s.loadCatalog(ctx, session)
	if err != nil {
		return nil, err
	}
	date, err := models.ParseDate(session.BookingDate)
	if err != nil {
		return nil, ErrDateUnavailable
	}
	start, err := models.ParseTimeOfDay(session.StartTime)
	if err != nil {
		return nil, ErrInvalidSlot
	}
	if kind != models.PaymentKindDeposit && kind != models.PaymentKindFull {
		kind = models.PaymentKindFull
	}

	lock, bkg, err := s.ensureHold(ctx, session, branch, service, date, start, notes)
	if err != nil {
		return nil, err
	}

	worker, err := s.Engine.Workers.GetByID(ctx, session.AssignedWorkerID)
	if err != nil {
		return nil, err
	}
	payment, clientSecret, err := s.Payments.EnsureIntent(ctx, bkg, kind)
	if err != nil {
		return nil, fmt.Errorf("payment intent: %w", err)
	}

	return &models.ReviewSummary{
		Booking:      bkg,
		Service:      service,
		Branch:       branch,
		Worker:       worker,
		AmountMinor:  payment.AmountMinor,
		Currency:     payment.Currency,
		Kind:         payment.Kind,
		ClientSecret: clientSecret,
		LockExpires:  lock.ExpiresAt,
	}, nil
}

// ensureHold reuses the session's lock and pending booking while the lock is
// still active, otherwise acquires a fresh hold and creates the booking.
func (s *DefaultBookingFlowService) ensureHold(ctx context.Context, session *models.BookingSession, branch *models.Branch, service *models.Service, date time.Time, start models.TimeOfDay, notes string) (*models.SlotLock, *models.Booking, error) {
	now := s.Engine.Now()
	if session.SlotLockID != "" && session.BookingID != "" {
		lock, err := s.Locks.GetLock(ctx, session.SlotLockID)
		if err == nil && lock.IsActive(now) &&
			lock.BookingDate.Format(models.DateLayout) == session.BookingDate &&
			lock.StartTime == start {
			bkg, err := s.Bookings.GetByID(ctx, session.BookingID)
			if err == nil && bkg.Status == models.BookingPendingPayment {
				return lock, bkg, nil
			}
		}
	}

	lock, worker, err := s.acquireForSession(ctx, session, branch, service, date, start)
	if err != nil {
		return nil, nil, err
	}

	bkg := &models.Booking{
		BranchID:        branch.ID,
		ServiceID:       service.ID,
		WorkerID:        worker.ID,
		GuestID:         session.GuestID,
		SlotLockID:      lock.ID,
		BookingDate:     date,
		StartTime:       start,
		EndTime:         start.Add(service.DurationMinutes),
		DurationMinutes: service.DurationMinutes,
		Status:          models.BookingPendingPayment,
		PaymentStatus:   models.BookingPaymentPending,
		AmountMinor:     service.PriceMinor,
		AccessToken:     uuid.New().String(),
		Notes:           notes,
	}
	if err := s.Bookings.Create(ctx, bkg); err != nil {
		// Give the slot back rather than strand the lock for its full TTL.
		if relErr := s.Locks.ReleaseLock(ctx, lock.ID); relErr != nil {
			utils.GetLogger().Warn("release lock after failed create",
				zap.String("lockID", lock.ID), zap.Error(relErr))
		}
		return nil, nil, fmt.Errorf("create booking: %w", err)
	}

	session.SlotLockID = lock.ID
	session.AssignedWorkerID = worker.ID
	session.BookingID = bkg.ID
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	utils.GetLogger().Info("pending booking created",
		zap.String("bookingID", bkg.ID),
		zap.String("workerID", worker.ID),
		zap.String("date", session.BookingDate),
		zap.String("start", session.StartTime))
	return lock, bkg, nil
}

// acquireForSession locks the slot, resolving "any therapist" with the
// least-booked pick and falling through the candidate pool on contention.
func (s *DefaultBookingFlowService) acquireForSession(ctx context.Context, session *models.BookingSession, branch *models.Branch, service *models.Service, date time.Time, start models.TimeOfDay) (*models.SlotLock, *models.Worker, error) {
	if session.WorkerID != models.AnyWorker {
		worker, err := s.Engine.Workers.GetByID(ctx, session.WorkerID)
		if err != nil {
			return nil, nil, err
		}
		lock, err := s.Engine.AcquireSlotLock(ctx, branch, worker, service, date, start, session.SessionID)
		if err != nil {
			return nil, nil, err
		}
		return lock, worker, nil
	}

	pool, err := s.Engine.AvailableWorkersForSlot(ctx, branch, service, date, start)
	if err != nil {
		return nil, nil, err
	}
	for len(pool) > 0 {
		worker, err := s.Engine.PickLeastBooked(ctx, pool, date)
		if err != nil {
			return nil, nil, err
		}
		lock, err := s.Engine.AcquireSlotLock(ctx, branch, worker, service, date, start, session.SessionID)
		if err == nil {
			return lock, worker, nil
		}
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrSlotLocked) {
			pool = removeWorker(pool, worker.ID)
			continue
		}
		return nil, nil, err
	}
	return nil, nil, ErrNoWorkersAvailable
}

func (s *DefaultBookingFlowService) ReleaseHold(ctx context.Context, sessionID string) error {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.resetAfter(ctx, session, models.StepGuest); err != nil {
		return err
	}
	return s.Sessions.Save(ctx, session)
}

func (s *DefaultBookingFlowService) Confirmation(ctx context.Context, sessionID string) (*models.Booking, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.BookingID == "" {
		return nil, ErrStepIncomplete
	}
	bkg, err := s.Bookings.GetByID(ctx, session.BookingID)
	if err != nil {
		return nil, err
	}
	if bkg.Status == models.BookingConfirmed {
		if err := s.Sessions.Delete(ctx, sessionID); err != nil {
			utils.GetLogger().Warn("delete finished session", zap.Error(err))
		}
	}
	return bkg, nil
}

func (s *DefaultBookingFlowService) SlotsFor(ctx context.Context, branchID, serviceID, workerID, date string) ([]models.AvailableSlot, error) {
	branch, err := s.Branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	service, err := s.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, ErrDateUnavailable
	}

	if workerID != models.AnyWorker {
		worker, err := s.Engine.Workers.GetByID(ctx, workerID)
		if err != nil {
			return nil, err
		}
		return s.Engine.AvailableSlots(ctx, branch, worker, service, day)
	}

	workers, err := s.Engine.Workers.GetActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	union := map[models.TimeOfDay]models.AvailableSlot{}
	for i := range workers {
		slots, err := s.Engine.AvailableSlots(ctx, branch, &workers[i], service, day)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			union[slot.Start] = slot
		}
	}
	merged := make([]models.AvailableSlot, 0, len(union))
	for _, slot := range union {
		merged = append(merged, slot)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	return merged, nil
}

func (s *DefaultBookingFlowService) WorkersFor(ctx context.Context, branchID, serviceID, date, start string) ([]models.Worker, error) {
	branch, err := s.Branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	service, err := s.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, ErrDateUnavailable
	}
	startTime, err := models.ParseTimeOfDay(start)
	if err != nil {
		return nil, ErrInvalidSlot
	}
	return s.Engine.AvailableWorkersForSlot(ctx, branch, service, day, startTime)
}

func (s *DefaultBookingFlowService) BookingsByPhone(ctx context.Context, rawPhone string) ([]models.Booking, error) {
	normalised, err := models.NormalizePhone(rawPhone)
	if err != nil {
		return nil, &FlowError{Code: "invalidPhone", Message: "Please enter a valid 10-digit mobile number."}
	}
	return s.Bookings.ListByPhone(ctx, normalised)
}

func (s *DefaultBookingFlowService) BookingByToken(ctx context.Context, token string) (*models.Booking, error) {
	return s.Bookings.GetByAccessToken(ctx, token)
}

// resetAfter discards every checkpoint after the given step, releasing any
// slot hold the session acquired at review.
func (s *DefaultBookingFlowService) resetAfter(ctx context.Context, session *models.BookingSession, step int) error {
	if session.SlotLockID != "" {
		if err := s.Locks.ReleaseLock(ctx, session.SlotLockID); err != nil {
			utils.GetLogger().Warn("release lock on step reset",
				zap.String("lockID", session.SlotLockID), zap.Error(err))
		}
	}
	if session.BookingID != "" {
		if _, err := s.Bookings.Cancel(ctx, session.BookingID, "guest", "guest restarted the flow"); err != nil {
			utils.GetLogger().Warn("cancel pending booking on step reset",
				zap.String("bookingID", session.BookingID), zap.Error(err))
		}
	}
	session.SlotLockID = ""
	session.AssignedWorkerID = ""
	session.BookingID = ""

	if step < models.StepGuest {
		session.GuestID = ""
		session.GuestName = ""
		session.GuestPhone = ""
		session.GuestEmail = ""
	}
	if step < models.StepSlot {
		session.StartTime = ""
	}
	if step < models.StepDate {
		session.BookingDate = ""
	}
	if step < models.StepWorker {
		session.WorkerID = ""
	}
	if step < models.StepService {
		session.ServiceID = ""
	}
	return nil
}

func (s *DefaultBookingFlowService) loadCatalog(ctx context.Context, session *models.BookingSession) (*models.Branch, *models.Service, error) {
	branch, err := s.Branches.GetByID(ctx, session.BranchID)
	if err != nil {
		return nil, nil, err
	}
	service, err := s.Services.GetByID(ctx, session.ServiceID)
	if err != nil {
		return nil, nil, err
	}
	return branch, service, nil
}

func offeredAt(service *models.Service, branchID string) bool {
	for _, id := range service.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

func containsStart(slots []models.AvailableSlot, start models.TimeOfDay) bool {
	for _, slot := range slots {
		if slot.Start == start {
			return true
		}
	}
	return false
}

func removeWorker(pool []models.Worker, id string) []models.Worker {
	out := pool[:0]
	for _, w := range pool {
		if w.ID != id {
			out = append(out, w)
		}
	}
	return out
}
