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

type flowFixture struct {
	store    *fakeSessionStore
	workers  *MockWorkerRepo
	bookings *MockBookingRepo
	locks    *MockLockRepo
	branches *MockBranchRepo
	services *MockServiceRepo
	guests   *MockGuestRepo
	intents  *MockIntents
	svc      *booking.DefaultBookingFlowService
}

func newFlowFixture() *flowFixture {
	f := &flowFixture{
		store:    newFakeSessionStore(),
		workers:  new(MockWorkerRepo),
		bookings: new(MockBookingRepo),
		locks:    new(MockLockRepo),
		branches: new(MockBranchRepo),
		services: new(MockServiceRepo),
		guests:   new(MockGuestRepo),
		intents:  new(MockIntents),
	}
	f.svc = &booking.DefaultBookingFlowService{
		Sessions: f.store,
		Engine:   newTestEngine(f.workers, f.bookings, f.locks),
		Branches: f.branches,
		Services: f.services,
		Guests:   f.guests,
		Bookings: f.bookings,
		Locks:    f.locks,
		Payments: f.intents,
	}
	return f
}

// seedSession plants a session mid-flow without running the earlier steps.
func (f *flowFixture) seedSession(session models.BookingSession) {
	_ = f.store.Save(context.Background(), &session)
}

func TestFlowStepGating(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.SelectService(ctx, session.SessionID, "s1")
	assert.ErrorIs(t, err, booking.ErrStepIncomplete)

	_, err = f.svc.SelectDate(ctx, session.SessionID, "2025-06-02")
	assert.ErrorIs(t, err, booking.ErrStepIncomplete)

	_, err = f.svc.Review(ctx, session.SessionID, "", models.PaymentKindFull)
	assert.ErrorIs(t, err, booking.ErrStepIncomplete)

	_, err = f.svc.GetSession(ctx, "no-such-session")
	assert.ErrorIs(t, err, booking.ErrSessionNotFound)
}

func TestSelectSlotValidatesAgainstOffer(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	f.seedSession(models.BookingSession{
		SessionID:   "sess-1",
		BranchID:    "b1",
		ServiceID:   "s1",
		WorkerID:    "w1",
		BookingDate: "2025-06-02",
	})

	f.branches.On("GetByID", testifymock.Anything, "b1").Return(testBranch(), nil)
	f.services.On("GetByID", testifymock.Anything, "s1").Return(testService(), nil)
	f.workers.On("GetByID", testifymock.Anything, "w1").Return(testWorker("w1"), nil)
	f.workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
	f.bookings.On("OccupiedWindows", testifymock.Anything, "w1", date, fixedNow).Return(nil, nil)

	// 10:37 is not a slot boundary.
	_, err := f.svc.SelectSlot(ctx, "sess-1", "10:37")
	assert.ErrorIs(t, err, booking.ErrInvalidSlot)

	session, err := f.svc.SelectSlot(ctx, "sess-1", "11:15")
	require.NoError(t, err)
	assert.Equal(t, "11:15", session.StartTime)
}

func TestSelectSlotChangeDiscardsGuestInfo(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	f.seedSession(models.BookingSession{
		SessionID:   "sess-1",
		BranchID:    "b1",
		ServiceID:   "s1",
		WorkerID:    "w1",
		BookingDate: "2025-06-02",
		StartTime:   "10:00",
		GuestID:     "g1",
		GuestName:   "Priya",
		GuestPhone:  "9876543210",
	})

	f.branches.On("GetByID", testifymock.Anything, "b1").Return(testBranch(), nil)
	f.services.On("GetByID", testifymock.Anything, "s1").Return(testService(), nil)
	f.workers.On("GetByID", testifymock.Anything, "w1").Return(testWorker("w1"), nil)
	f.workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
	f.bookings.On("OccupiedWindows", testifymock.Anything, "w1", date, fixedNow).Return(nil, nil)

	session, err := f.svc.SelectSlot(ctx, "sess-1", "11:15")
	require.NoError(t, err)
	assert.Equal(t, "11:15", session.StartTime)
	assert.Empty(t, session.GuestID)
	assert.Empty(t, session.GuestPhone)
}

func TestSetGuestInfoNormalisesPhone(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	f.seedSession(models.BookingSession{
		SessionID:   "sess-1",
		BranchID:    "b1",
		ServiceID:   "s1",
		WorkerID:    "w1",
		BookingDate: "2025-06-02",
		StartTime:   "10:00",
	})

	guest := &models.Guest{ID: "g1", Name: "Priya", Phone: "9876543210", Email: "priya@example.com"}
	f.guests.On("GetOrCreateByPhone", testifymock.Anything, "Priya", "9876543210", "priya@example.com").
		Return(guest, true, nil)

	session, err := f.svc.SetGuestInfo(ctx, "sess-1", "Priya", "+91 98765 43210", "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, "g1", session.GuestID)
	assert.Equal(t, "9876543210", session.GuestPhone)

	_, err = f.svc.SetGuestInfo(ctx, "sess-1", "Priya", "12345", "")
	var flowErr *booking.FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, "invalidPhone", flowErr.Code)
}

func TestReviewResolvesAnyWorkerWithContentionFallthrough(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	f.seedSession(models.BookingSession{
		SessionID:   "sess-1",
		BranchID:    "b1",
		ServiceID:   "s1",
		WorkerID:    models.AnyWorker,
		BookingDate: "2025-06-02",
		StartTime:   "10:00",
		GuestID:     "g1",
		GuestName:   "Priya",
		GuestPhone:  "9876543210",
	})

	f.branches.On("GetByID", testifymock.Anything, "b1").Return(testBranch(), nil)
	f.services.On("GetByID", testifymock.Anything, "s1").Return(testService(), nil)

	pool := []models.Worker{*testWorker("w1"), *testWorker("w2")}
	f.workers.On("GetActiveByBranch", testifymock.Anything, "b1").Return(pool, nil)
	f.workers.On("OnLeave", testifymock.Anything, testifymock.Anything, date).Return(false, nil)
	f.bookings.On("OccupiedWindows", testifymock.Anything, testifymock.Anything, date, fixedNow).Return(nil, nil)

	// w2 has fewer confirmed bookings and is picked first, but another guest
	// grabs the slot; the flow falls through to w1.
	f.bookings.On("ConfirmedCount", testifymock.Anything, "w1", date).Return(3, nil)
	f.bookings.On("ConfirmedCount", testifymock.Anything, "w2", date).Return(1, nil)
	f.locks.On("AcquireLock", testifymock.Anything, testifymock.MatchedBy(func(l *models.SlotLock) bool {
		return l.WorkerID == "w2"
	})).Return(bookingRepo.ErrSlotHeld)
	f.locks.On("AcquireLock", testifymock.Anything, testifymock.MatchedBy(func(l *models.SlotLock) bool {
		return l.WorkerID == "w1"
	})).Return(nil)

	f.bookings.On("Create", testifymock.Anything, testifymock.Anything).
		Run(func(args testifymock.Arguments) {
			args.Get(1).(*models.Booking).ID = "bk1"
		}).Return(nil)
	f.workers.On("GetByID", testifymock.Anything, "w1").Return(testWorker("w1"), nil)

	payment := &models.Payment{AmountMinor: 250000, Currency: "inr", Kind: models.PaymentKindFull}
	f.intents.On("EnsureIntent", testifymock.Anything, testifymock.Anything, models.PaymentKindFull).
		Return(payment, "secret_123", nil)

	summary, err := f.svc.Review(ctx, "sess-1", "window seat please", models.PaymentKindFull)
	require.NoError(t, err)
	assert.Equal(t, "bk1", summary.Booking.ID)
	assert.Equal(t, "w1", summary.Booking.WorkerID)
	assert.Equal(t, models.BookingPendingPayment, summary.Booking.Status)
	assert.Equal(t, int64(250000), summary.AmountMinor)
	assert.Equal(t, "secret_123", summary.ClientSecret)

	saved, err := f.store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "bk1", saved.BookingID)
	assert.Equal(t, "w1", saved.AssignedWorkerID)
	assert.NotEmpty(t, saved.SlotLockID)
}

func TestReviewSurfacesSlotConflict(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	f.seedSession(models.BookingSession{
		SessionID:   "sess-1",
		BranchID:    "b1",
		ServiceID:   "s1",
		WorkerID:    "w1",
		BookingDate: "2025-06-02",
		StartTime:   "10:00",
		GuestID:     "g1",
		GuestPhone:  "9876543210",
	})

	f.branches.On("GetByID", testifymock.Anything, "b1").Return(testBranch(), nil)
	f.services.On("GetByID", testifymock.Anything, "s1").Return(testService(), nil)
	f.workers.On("GetByID", testifymock.Anything, "w1").Return(testWorker("w1"), nil)
	f.workers.On("OnLeave", testifymock.Anything, "w1", date).Return(false, nil)
	f.locks.On("AcquireLock", testifymock.Anything, testifymock.Anything).Return(bookingRepo.ErrSlotTaken)

	_, err := f.svc.Review(ctx, "sess-1", "", models.PaymentKindDeposit)
	assert.ErrorIs(t, err, booking.ErrSlotConflict)
}

func TestReleaseHoldFreesSlotAndPendingBooking(t *testing.T) {
	f := newFlowFixture()
	ctx := context.Background()

	f.seedSession(models.BookingSession{
		SessionID:        "sess-1",
		BranchID:         "b1",
		ServiceID:        "s1",
		WorkerID:         "w1",
		BookingDate:      "2025-06-02",
		StartTime:        "10:00",
		GuestID:          "g1",
		GuestPhone:       "9876543210",
		SlotLockID:       "lk1",
		AssignedWorkerID: "w1",
		BookingID:        "bk1",
	})

	f.locks.On("ReleaseLock", testifymock.Anything, "lk1").Return(nil)
	f.bookings.On("Cancel", testifymock.Anything, "bk1", "guest", testifymock.Anything).
		Return(&models.Booking{ID: "bk1", Status: models.BookingCancelled}, nil)

	require.NoError(t, f.svc.ReleaseHold(ctx, "sess-1"))

	saved, err := f.store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, saved.SlotLockID)
	assert.Empty(t, saved.BookingID)
	assert.Empty(t, saved.AssignedWorkerID)
	// Guest details survive; only the hold is discarded.
	assert.Equal(t, "g1", saved.GuestID)
	assert.Equal(t, "10:00", saved.StartTime)

	f.locks.AssertCalled(t, "ReleaseLock", testifymock.Anything, "lk1")
	f.bookings.AssertCalled(t, "Cancel", testifymock.Anything, "bk1", "guest", testifymock.Anything)
}
