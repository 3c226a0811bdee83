package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"serenity/config"
	bookingRepo "serenity/database/repository/booking"
	workerRepo "serenity/database/repository/worker"
	"serenity/models"
	"serenity/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine computes availability and acquires slot locks. All scheduling
// arithmetic happens in minute-of-day space; dates are naive calendar days
// anchored in Location.
type Engine struct {
	Workers  workerRepo.WorkerRepository
	Bookings bookingRepo.BookingRepository
	Locks    bookingRepo.SlotLockRepository

	// SameDayCutoff is the minimum notice for a same-day slot.
	SameDayCutoff time.Duration
	// LockTTL is how long an acquired slot lock holds the slot.
	LockTTL  time.Duration
	Location *time.Location

	// Now is injectable for tests.
	Now func() time.Time
}

// NewEngine builds an engine tuned from the loaded configuration.
func NewEngine(workers workerRepo.WorkerRepository, bookings bookingRepo.BookingRepository, locks bookingRepo.SlotLockRepository) *Engine {
	return &Engine{
		Workers:       workers,
		Bookings:      bookings,
		Locks:         locks,
		SameDayCutoff: time.Duration(config.AppConfig.SameDayCutoffHours) * time.Hour,
		LockTTL:       time.Duration(config.AppConfig.SlotLockTTLMinutes) * time.Minute,
		Location:      time.Local,
		Now:           time.Now,
	}
}

// AvailabilityWindow returns the branch hours for a worker on a date, or nil
// when the branch is closed that weekday, the worker is inactive or the
// worker is on leave.
func (e *Engine) AvailabilityWindow(ctx context.Context, branch *models.Branch, worker *models.Worker, date time.Time) (*models.Window, error) {
	if !branch.OpenOn(models.ISOWeekday(date)) {
		return nil, nil
	}
	if !worker.IsActive {
		return nil, nil
	}
	onLeave, err := e.Workers.OnLeave(ctx, worker.ID, date)
	if err != nil {
		return nil, fmt.Errorf("check leave: %w", err)
	}
	if onLeave {
		return nil, nil
	}
	return &models.Window{Start: branch.OpeningTime, End: branch.ClosingTime}, nil
}

// AvailableSlots generates the bookable slots for one worker on one date.
// Slots step by the service's full block (duration plus hidden buffer) from
// opening time; a slot is offered when the whole block fits before closing,
// does not overlap a confirmed booking or an active lock, and starts after
// the same-day cutoff.
func (e *Engine) AvailableSlots(ctx context.Context, branch *models.Branch, worker *models.Worker, service *models.Service, date time.Time) ([]models.AvailableSlot, error) {
	window, err := e.AvailabilityWindow(ctx, branch, worker, date)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, nil
	}

	now := e.Now()
	occupied, err := e.Bookings.OccupiedWindows(ctx, worker.ID, date, now)
	if err != nil {
		return nil, fmt.Errorf("load occupied windows: %w", err)
	}

	block := service.TotalBlockMinutes()
	var slots []models.AvailableSlot
	for start := window.Start; start.Add(block) <= window.End; start = start.Add(block) {
		if e.pastCutoff(date, start, now) {
			continue
		}
		candidate := models.Window{Start: start, End: start.Add(block)}
		if overlapsAny(candidate, occupied) {
			continue
		}
		end := start.Add(service.DurationMinutes)
		slots = append(slots, models.AvailableSlot{
			Start:   start,
			End:     end,
			Display: fmt.Sprintf("%s - %s", start.Display(), end.Display()),
		})
	}
	return slots, nil
}

// HasSlot reports whether start is one of the worker's offered slots.
func (e *Engine) HasSlot(ctx context.Context, branch *models.Branch, worker *models.Worker, service *models.Service, date time.Time, start models.TimeOfDay) (bool, error) {
	slots, err := e.AvailableSlots(ctx, branch, worker, service, date)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.Start == start {
			return true, nil
		}
	}
	return false, nil
}

// AvailableWorkersForSlot returns the workers who can take the given slot,
// in name order.
func (e *Engine) AvailableWorkersForSlot(ctx context.Context, branch *models.Branch, service *models.Service, date time.Time, start models.TimeOfDay) ([]models.Worker, error) {
	workers, err := e.Workers.GetActiveByBranch(ctx, branch.ID)
	if err != nil {
		return nil, fmt.Errorf("load branch workers: %w", err)
	}
	var free []models.Worker
	for i := range workers {
		ok, err := e.HasSlot(ctx, branch, &workers[i], service, date, start)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, workers[i])
		}
	}
	return free, nil
}

// PickLeastBooked resolves an "any therapist" selection to the worker with
// the fewest confirmed bookings on the date. Ties break on worker ID so the
// pick is deterministic.
func (e *Engine) PickLeastBooked(ctx context.Context, workers []models.Worker, date time.Time) (*models.Worker, error) {
	if len(workers) == 0 {
		return nil, ErrNoWorkersAvailable
	}
	var best *models.Worker
	bestCount := -1
	for i := range workers {
		count, err := e.Bookings.ConfirmedCount(ctx, workers[i].ID, date)
		if err != nil {
			return nil, fmt.Errorf("count bookings: %w", err)
		}
		if best == nil || count < bestCount || (count == bestCount && workers[i].ID < best.ID) {
			best = &workers[i]
			bestCount = count
		}
	}
	return best, nil
}

// AcquireSlotLock atomically holds the slot for the session while the guest
// pays. Contention maps to the guest-facing flow errors.
func (e *Engine) AcquireSlotLock(ctx context.Context, branch *models.Branch, worker *models.Worker, service *models.Service, date time.Time, start models.TimeOfDay, sessionKey string) (*models.SlotLock, error) {
	window, err := e.AvailabilityWindow(ctx, branch, worker, date)
	if err != nil {
		return nil, err
	}
	now := e.Now()
	block := service.TotalBlockMinutes()
	if window == nil || start < window.Start || start.Add(block) > window.End {
		return nil, ErrInvalidSlot
	}
	if e.pastCutoff(date, start, now) {
		return nil, ErrSameDayCutoff
	}

	lock := &models.SlotLock{
		ID:          uuid.New().String(),
		WorkerID:    worker.ID,
		BranchID:    branch.ID,
		BookingDate: date,
		StartTime:   start,
		EndTime:     start.Add(block),
		SessionKey:  sessionKey,
		ExpiresAt:   now.Add(e.LockTTL),
	}
	if err := e.Locks.AcquireLock(ctx, lock); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrSlotTaken):
			return nil, ErrSlotConflict
		case errors.Is(err, bookingRepo.ErrSlotHeld):
			return nil, ErrSlotLocked
		default:
			return nil, err
		}
	}
	utils.GetLogger().Info("slot lock acquired",
		zap.String("lockID", lock.ID),
		zap.String("workerID", worker.ID),
		zap.String("date", date.Format(models.DateLayout)),
		zap.String("start", start.String()))
	return lock, nil
}

// pastCutoff reports whether the slot starts before now plus the same-day
// notice period. Future dates never hit the cutoff.
func (e *Engine) pastCutoff(date time.Time, start models.TimeOfDay, now time.Time) bool {
	startAt := start.On(date, e.Location)
	return startAt.Before(now.In(e.Location).Add(e.SameDayCutoff))
}

func overlapsAny(w models.Window, occupied []models.Window) bool {
	for _, o := range occupied {
		if w.Overlaps(o) {
			return true
		}
	}
	return false
}
