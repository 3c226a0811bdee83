package admin_test

import (
	"context"
	"testing"
	"time"

	"serenity/models"
	"serenity/services/admin"
	"serenity/services/booking"

	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepo struct {
	testifymock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, bkg *models.Booking) error {
	return m.Called(ctx, bkg).Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) GetByAccessToken(ctx context.Context, token string) (*models.Booking, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) ListByPhone(ctx context.Context, phone string) ([]models.Booking, error) {
	args := m.Called(ctx, phone)
	if v := args.Get(0); v != nil {
		return v.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) OccupiedWindows(ctx context.Context, workerID string, date, now time.Time) ([]models.Window, error) {
	args := m.Called(ctx, workerID, date, now)
	if v := args.Get(0); v != nil {
		return v.([]models.Window), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) HasConfirmedAt(ctx context.Context, workerID string, date time.Time, start models.TimeOfDay) (bool, error) {
	args := m.Called(ctx, workerID, date, start)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) ConfirmedCount(ctx context.Context, workerID string, date time.Time) (int, error) {
	args := m.Called(ctx, workerID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepo) Complete(ctx context.Context, id, changedBy string) (*models.Booking, error) {
	args := m.Called(ctx, id, changedBy)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, id, changedBy, reason string) (*models.Booking, error) {
	args := m.Called(ctx, id, changedBy, reason)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) Reassign(ctx context.Context, id, newWorkerID, changedBy string) (*models.Booking, error) {
	args := m.Called(ctx, id, newWorkerID, changedBy)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) ExpireStale(ctx context.Context, cutoff, now time.Time) (int, error) {
	args := m.Called(ctx, cutoff, now)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepo) StatusLogs(ctx context.Context, bookingID string) ([]models.BookingStatusLog, error) {
	args := m.Called(ctx, bookingID)
	if v := args.Get(0); v != nil {
		return v.([]models.BookingStatusLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) Overview(ctx context.Context, now time.Time) (*models.DashboardOverview, error) {
	args := m.Called(ctx, now)
	if v := args.Get(0); v != nil {
		return v.(*models.DashboardOverview), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingRepo) RevenueByDay(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error) {
	args := m.Called(ctx, from, to)
	if v := args.Get(0); v != nil {
		return v.([]models.RevenuePoint), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotifier struct {
	testifymock.Mock
}

func (m *MockNotifier) BookingConfirmed(ctx context.Context, bkg *models.Booking) error {
	return m.Called(ctx, bkg).Error(0)
}

func (m *MockNotifier) BookingCancelled(ctx context.Context, bkg *models.Booking, reason string) error {
	return m.Called(ctx, bkg, reason).Error(0)
}

func (m *MockNotifier) BookingReassigned(ctx context.Context, bkg *models.Booking, previousWorker string) error {
	return m.Called(ctx, bkg, previousWorker).Error(0)
}

func TestReassignBooking(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	current := &models.Booking{
		ID:          "b1",
		WorkerID:    "w1",
		WorkerName:  "Asha",
		BookingDate: date,
		StartTime:   models.MustTimeOfDay("14:00"),
		Status:      models.BookingConfirmed,
	}

	t.Run("rejects when the new therapist already has the slot", func(t *testing.T) {
		repo := new(MockBookingRepo)
		repo.On("GetByID", testifymock.Anything, "b1").Return(current, nil)
		repo.On("HasConfirmedAt", testifymock.Anything, "w2", date, current.StartTime).
			Return(true, nil)
		svc := &admin.DefaultAdminService{BookingRepo: repo}

		_, err := svc.ReassignBooking(context.Background(), "b1", "w2", "st1")
		assert.ErrorIs(t, err, booking.ErrSlotConflict)
		repo.AssertNotCalled(t, "Reassign",
			testifymock.Anything, testifymock.Anything, testifymock.Anything, testifymock.Anything)
	})

	t.Run("reassigns a free therapist and notifies the guest", func(t *testing.T) {
		moved := &models.Booking{
			ID:          "b1",
			WorkerID:    "w2",
			WorkerName:  "Meera",
			BookingDate: date,
			StartTime:   current.StartTime,
			Status:      models.BookingConfirmed,
		}
		repo := new(MockBookingRepo)
		repo.On("GetByID", testifymock.Anything, "b1").Return(current, nil)
		repo.On("HasConfirmedAt", testifymock.Anything, "w2", date, current.StartTime).
			Return(false, nil)
		repo.On("Reassign", testifymock.Anything, "b1", "w2", "st1").Return(moved, nil)
		notifier := new(MockNotifier)
		notifier.On("BookingReassigned", testifymock.Anything, moved, "Asha").Return(nil)
		svc := &admin.DefaultAdminService{BookingRepo: repo, Notifier: notifier}

		got, err := svc.ReassignBooking(context.Background(), "b1", "w2", "st1")
		require.NoError(t, err)
		assert.Equal(t, "w2", got.WorkerID)
		notifier.AssertExpectations(t)
	})
}
