package booking_test

import (
	"context"
	"testing"
	"time"

	bookingRepo "serenity/database/repository/booking"
	"serenity/models"
	"serenity/services/booking"

	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Sunday noon UTC; the test branch is open every day.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testBranch() *models.Branch {
	return &models.Branch{
		ID:          "b1",
		Name:        "Koramangala",
		OpeningTime: models.MustTimeOfDay("10:00"),
		ClosingTime: models.MustTimeOfDay("20:00"),
		IsActive:    true,
		WorkingDays: []int{0, 1, 2, 3, 4, 5, 6},
	}
}

func testService() *models.Service {
	return &models.Service{
		ID:              "s1",
		Name:            "Swedish Massage",
		DurationMinutes: 60,
		BufferMinutes:   15,
		PriceMinor:      250000,
		IsActive:        true,
		BranchIDs:       []string{"b1"},
	}
}

func testWorker(id string) *models.Worker {
	return &models.Worker{ID: id, BranchID: "b1", Name: "Asha K", IsActive: true}
}

func newTestEngine(workers *MockWorkerRepo, bookings *MockBookingRepo, locks *MockLockRepo) *booking.Engine {
	return &booking.Engine{
		Workers:       workers,
		Bookings:      bookings,
		Locks:         locks,
		SameDayCutoff: 2 * time.Hour,
		LockTTL:       10 * time.Minute,
		Location:      time.UTC,
		Now:           func() time.Time { return fixedNow },
	}
}

func TestAvailableSlotsGeneratesSteppedSlots(t *testing.T) {
	workers := new(MockWorkerRepo)
	bookings := new(MockBookingRepo)
	engine := newTestEngine(workers, bookings, new(MockLockRepo))

	// Tomorrow, so the same-day cutoff does not apply.
	date := fixedNow.AddDate(0, 0, 1)
	workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
	bookings.On("OccupiedWindows", testifymock.Anything, "w1", date, fixedNow).Return(nil, nil)

	slots, err := engine.AvailableSlots(context.Background(), testBranch(), testWorker("w1"), testService(), date)
	require.NoError(t, err)

	// 10:00-20:00 stepped by 75 minutes (60 session + 15 buffer).
	require.Len(t, slots, 8)
	assert.Equal(t, models.MustTimeOfDay("10:00"), slots[0].Start)
	assert.Equal(t, models.MustTimeOfDay("11:00"), slots[0].End)
	assert.Equal(t, "10:00 AM - 11:00 AM", slots[0].Display)
	assert.Equal(t, models.MustTimeOfDay("18:45"), slots[7].Start)
}

func TestAvailableSlotsExcludesOccupiedWindows(t *testing.T) {
	workers := new(MockWorkerRepo)
	bookings := new(MockBookingRepo)
	engine := newTestEngine(workers, bookings, new(MockLockRepo))

	date := fixedNow.AddDate(0, 0, 1)
	occupied := []models.Window{
		{Start: models.MustTimeOfDay("11:15"), End: models.MustTimeOfDay("12:30")},
	}
	workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
	bookings.On("OccupiedWindows", testifymock.Anything, "w1", date, fixedNow).Return(occupied, nil)

	slots, err := engine.AvailableSlots(context.Background(), testBranch(), testWorker("w1"), testService(), date)
	require.NoError(t, err)

	require.Len(t, slots, 7)
	for _, slot := range slots {
		assert.NotEqual(t, models.MustTimeOfDay("11:15"), slot.Start)
	}
}

func TestAvailableSlotsAppliesSameDayCutoff(t *testing.T) {
	workers := new(MockWorkerRepo)
	bookings := new(MockBookingRepo)
	engine := newTestEngine(workers, bookings, new(MockLockRepo))

	// Booking for today at noon with a 2 hour cutoff: nothing before 14:00.
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
	bookings.On("OccupiedWindows", testifymock.Anything, "w1", date, fixedNow).Return(nil, nil)

	slots, err := engine.AvailableSlots(context.Background(), testBranch(), testWorker("w1"), testService(), date)
	require.NoError(t, err)

	require.Len(t, slots, 4)
	assert.Equal(t, models.MustTimeOfDay("15:00"), slots[0].Start)
}

func TestAvailableSlotsClosedDayAndLeave(t *testing.T) {
	workers := new(MockWorkerRepo)
	bookings := new(MockBookingRepo)
	engine := newTestEngine(workers, bookings, new(MockLockRepo))

	date := fixedNow.AddDate(0, 0, 1) // Monday

	// Branch closed on Mondays.
	closed := testBranch()
	closed.WorkingDays = []int{1, 2, 3, 4, 5}
	slots, err := engine.AvailableSlots(context.Background(), closed, testWorker("w1"), testService(), date)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Worker on leave.
	workers.On("OnLeave", testifymock.Anything, "w1", date).Return(true, nil)
	slots, err = engine.AvailableSlots(context.Background(), testBranch(), testWorker("w1"), testService(), date)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlotsExcludesInactiveWorker(t *testing.T) {
	engine := newTestEngine(new(MockWorkerRepo), new(MockBookingRepo), new(MockLockRepo))

	date := fixedNow.AddDate(0, 0, 1)
	deactivated := testWorker("w1")
	deactivated.IsActive = false

	slots, err := engine.AvailableSlots(context.Background(), testBranch(), deactivated, testService(), date)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestPickLeastBooked(t *testing.T) {
	bookings := new(MockBookingRepo)
	engine := newTestEngine(new(MockWorkerRepo), bookings, new(MockLockRepo))

	date := fixedNow.AddDate(0, 0, 1)
	pool := []models.Worker{*testWorker("w3"), *testWorker("w1"), *testWorker("w2")}
	bookings.On("ConfirmedCount", testifymock.Anything, "w3", date).Return(2, nil)
	bookings.On("ConfirmedCount", testifymock.Anything, "w1", date).Return(1, nil)
	bookings.On("ConfirmedCount", testifymock.Anything, "w2", date).Return(1, nil)

	picked, err := engine.PickLeastBooked(context.Background(), pool, date)
	require.NoError(t, err)
	// Tie between w1 and w2 breaks on the lower ID.
	assert.Equal(t, "w1", picked.ID)

	_, err = engine.PickLeastBooked(context.Background(), nil, date)
	assert.ErrorIs(t, err, booking.ErrNoWorkersAvailable)
}

func TestAcquireSlotLock(t *testing.T) {
	date := fixedNow.AddDate(0, 0, 1)

	t.Run("acquires and sets TTL", func(t *testing.T) {
		workers := new(MockWorkerRepo)
		locks := new(MockLockRepo)
		engine := newTestEngine(workers, new(MockBookingRepo), locks)

		workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
		locks.On("AcquireLock", testifymock.Anything, testifymock.Anything).Return(nil)

		lock, err := engine.AcquireSlotLock(context.Background(), testBranch(), testWorker("w1"), testService(), date, models.MustTimeOfDay("10:00"), "sess-1")
		require.NoError(t, err)
		assert.Equal(t, "w1", lock.WorkerID)
		assert.Equal(t, models.MustTimeOfDay("10:00"), lock.StartTime)
		// The lock covers the hidden buffer too.
		assert.Equal(t, models.MustTimeOfDay("11:15"), lock.EndTime)
		assert.Equal(t, fixedNow.Add(10*time.Minute), lock.ExpiresAt)
	})

	t.Run("maps contention errors", func(t *testing.T) {
		for repoErr, want := range map[error]error{
			bookingRepo.ErrSlotTaken: booking.ErrSlotConflict,
			bookingRepo.ErrSlotHeld:  booking.ErrSlotLocked,
		} {
			workers := new(MockWorkerRepo)
			locks := new(MockLockRepo)
			engine := newTestEngine(workers, new(MockBookingRepo), locks)

			workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
			locks.On("AcquireLock", testifymock.Anything, testifymock.Anything).Return(repoErr)

			_, err := engine.AcquireSlotLock(context.Background(), testBranch(), testWorker("w1"), testService(), date, models.MustTimeOfDay("10:00"), "sess-1")
			assert.ErrorIs(t, err, want)
		}
	})

	t.Run("rejects same-day slot inside cutoff", func(t *testing.T) {
		workers := new(MockWorkerRepo)
		engine := newTestEngine(workers, new(MockBookingRepo), new(MockLockRepo))

		today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		workers.On("OnLeave", testifymock.Anything, "w1", today).Return(false, nil)

		_, err := engine.AcquireSlotLock(context.Background(), testBranch(), testWorker("w1"), testService(), today, models.MustTimeOfDay("13:00"), "sess-1")
		assert.ErrorIs(t, err, booking.ErrSameDayCutoff)
	})

	t.Run("rejects inactive worker", func(t *testing.T) {
		engine := newTestEngine(new(MockWorkerRepo), new(MockBookingRepo), new(MockLockRepo))

		deactivated := testWorker("w1")
		deactivated.IsActive = false

		_, err := engine.AcquireSlotLock(context.Background(), testBranch(), deactivated, testService(), date, models.MustTimeOfDay("10:00"), "sess-1")
		assert.ErrorIs(t, err, booking.ErrInvalidSlot)
	})

	t.Run("rejects start outside branch hours", func(t *testing.T) {
		workers := new(MockWorkerRepo)
		engine := newTestEngine(workers, new(MockBookingRepo), new(MockLockRepo))

		workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)

		// 19:30 + 75 minute block runs past the 20:00 close.
		_, err := engine.AcquireSlotLock(context.Background(), testBranch(), testWorker("w1"), testService(), date, models.MustTimeOfDay("19:30"), "sess-1")
		assert.ErrorIs(t, err, booking.ErrInvalidSlot)
	})
}
