package booking_test

import (
	"context"
	"sync"
	"time"

	"serenity/models"
	"serenity/services/booking"

	testifymock "github.com/stretchr/testify/mock"
)

// MockWorkerRepo is a mock implementation of workerRepo.WorkerRepository.
type MockWorkerRepo struct {
	testifymock.Mock
}

func (m *MockWorkerRepo) GetByID(ctx context.Context, id string) (*models.Worker, error) {
	args := m.Called(ctx, id)
	var w *models.Worker
	if v := args.Get(0); v != nil {
		w = v.(*models.Worker)
	}
	return w, args.Error(1)
}

func (m *MockWorkerRepo) GetActiveByBranch(ctx context.Context, branchID string) ([]models.Worker, error) {
	args := m.Called(ctx, branchID)
	var ws []models.Worker
	if v := args.Get(0); v != nil {
		ws = v.([]models.Worker)
	}
	return ws, args.Error(1)
}

func (m *MockWorkerRepo) GetAll(ctx context.Context, includeInactive bool) ([]models.Worker, error) {
	args := m.Called(ctx, includeInactive)
	var ws []models.Worker
	if v := args.Get(0); v != nil {
		ws = v.([]models.Worker)
	}
	return ws, args.Error(1)
}

func (m *MockWorkerRepo) Create(ctx context.Context, worker *models.Worker) error {
	return m.Called(ctx, worker).Error(0)
}

func (m *MockWorkerRepo) Update(ctx context.Context, worker *models.Worker) error {
	return m.Called(ctx, worker).Error(0)
}

func (m *MockWorkerRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWorkerRepo) OnLeave(ctx context.Context, workerID string, date time.Time) (bool, error) {
	args := m.Called(ctx, workerID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkerRepo) AddLeave(ctx context.Context, leave *models.WorkerLeave) error {
	return m.Called(ctx, leave).Error(0)
}

func (m *MockWorkerRepo) RemoveLeave(ctx context.Context, leaveID string) error {
	return m.Called(ctx, leaveID).Error(0)
}

func (m *MockWorkerRepo) ListLeaves(ctx context.Context, workerID string) ([]models.WorkerLeave, error) {
	args := m.Called(ctx, workerID)
	var ls []models.WorkerLeave
	if v := args.Get(0); v != nil {
		ls = v.([]models.WorkerLeave)
	}
	return ls, args.Error(1)
}

// MockBookingRepo is a mock implementation of bookingRepo.BookingRepository.
type MockBookingRepo struct {
	testifymock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, bkg *models.Booking) error {
	return m.Called(ctx, bkg).Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	var b *models.Booking
	if v := args.Get(0); v != nil {
		b = v.(*models.Booking)
	}
	return b, args.Error(1)
}

func (m *MockBookingRepo) GetByAccessToken(ctx context.Context, token string) (*models.Booking, error) {
	args := m.Called(ctx, token)
	var b *models.Booking
	if v := args.Get(0); v != nil {
		b = v.(*models.Booking)
	}
	return b, args.Error(1)
}

func (m *MockBookingRepo) ListByPhone(ctx context.Context, phone string) ([]models.Booking, error) {
	args := m.Called(ctx, phone)
	var bs []models.Booking
	if v := args.Get(0); v != nil {
		bs = v.([]models.Booking)
	}
	return bs, args.Error(1)
}

func (m *MockBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	args := m.Called(ctx, filter)
	var bs []models.Booking
	if v := args.Get(0); v != nil {
		bs = v.([]models.Booking)
	}
	return bs, args.Error(1)
}

func (m *MockBookingRepo) OccupiedWindows(ctx context.Context, workerID string, date time.Time, now time.Time) ([]models.Window, error) {
	args := m.Called(ctx, workerID, date, now)
	var ws []models.Window
	if v := args.Get(0); v != nil {
		ws = v.([]models.Window)
	}
	return ws, args.Error(1)
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
	var b *models.Booking
	if v := args.Get(0); v != nil {
		b = v.(*models.Booking)
	}
	return b, args.Error(1)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, id, changedBy, reason string) (*models.Booking, error) {
	args := m.Called(ctx, id, changedBy, reason)
	var b *models.Booking
	if v := args.Get(0); v != nil {
		b = v.(*models.Booking)
	}
	return b, args.Error(1)
}

func (m *MockBookingRepo) Reassign(ctx context.Context, id, newWorkerID, changedBy string) (*models.Booking, error) {
	args := m.Called(ctx, id, newWorkerID, changedBy)
	var b *models.Booking
	if v := args.Get(0); v != nil {
		b = v.(*models.Booking)
	}
	return b, args.Error(1)
}

func (m *MockBookingRepo) ExpireStale(ctx context.Context, cutoff, now time.Time) (int, error) {
	args := m.Called(ctx, cutoff, now)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepo) StatusLogs(ctx context.Context, bookingID string) ([]models.BookingStatusLog, error) {
	args := m.Called(ctx, bookingID)
	var ls []models.BookingStatusLog
	if v := args.Get(0); v != nil {
		ls = v.([]models.BookingStatusLog)
	}
	return ls, args.Error(1)
}

func (m *MockBookingRepo) Overview(ctx context.Context, now time.Time) (*models.DashboardOverview, error) {
	args := m.Called(ctx, now)
	var o *models.DashboardOverview
	if v := args.Get(0); v != nil {
		o = v.(*models.DashboardOverview)
	}
	return o, args.Error(1)
}

func (m *MockBookingRepo) RevenueByDay(ctx context.Context, from, to time.Time) ([]models.RevenuePoint, error) {
	args := m.Called(ctx, from, to)
	var ps []models.RevenuePoint
	if v := args.Get(0); v != nil {
		ps = v.([]models.RevenuePoint)
	}
	return ps, args.Error(1)
}

// MockLockRepo is a mock implementation of bookingRepo.SlotLockRepository.
type MockLockRepo struct {
	testifymock.Mock
}

func (m *MockLockRepo) AcquireLock(ctx context.Context, lock *models.SlotLock) error {
	return m.Called(ctx, lock).Error(0)
}

func (m *MockLockRepo) GetLock(ctx context.Context, id string) (*models.SlotLock, error) {
	args := m.Called(ctx, id)
	var l *models.SlotLock
	if v := args.Get(0); v != nil {
		l = v.(*models.SlotLock)
	}
	return l, args.Error(1)
}

func (m *MockLockRepo) ReleaseLock(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLockRepo) ReleaseExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockBranchRepo is a mock implementation of branchRepo.BranchRepository.
type MockBranchRepo struct {
	testifymock.Mock
}

func (m *MockBranchRepo) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	args := m.Called(ctx, id)
	var b *models.Branch
	if v := args.Get(0); v != nil {
		b = v.(*models.Branch)
	}
	return b, args.Error(1)
}

func (m *MockBranchRepo) GetAll(ctx context.Context, includeInactive bool) ([]models.Branch, error) {
	args := m.Called(ctx, includeInactive)
	var bs []models.Branch
	if v := args.Get(0); v != nil {
		bs = v.([]models.Branch)
	}
	return bs, args.Error(1)
}

func (m *MockBranchRepo) Create(ctx context.Context, branch *models.Branch) error {
	return m.Called(ctx, branch).Error(0)
}

func (m *MockBranchRepo) Update(ctx context.Context, branch *models.Branch) error {
	return m.Called(ctx, branch).Error(0)
}

func (m *MockBranchRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockServiceRepo is a mock implementation of catalogRepo.ServiceRepository.
type MockServiceRepo struct {
	testifymock.Mock
}

func (m *MockServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	var s *models.Service
	if v := args.Get(0); v != nil {
		s = v.(*models.Service)
	}
	return s, args.Error(1)
}

func (m *MockServiceRepo) GetActiveByBranch(ctx context.Context, branchID string) ([]models.Service, error) {
	args := m.Called(ctx, branchID)
	var ss []models.Service
	if v := args.Get(0); v != nil {
		ss = v.([]models.Service)
	}
	return ss, args.Error(1)
}

func (m *MockServiceRepo) GetAll(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	args := m.Called(ctx, includeInactive)
	var ss []models.Service
	if v := args.Get(0); v != nil {
		ss = v.([]models.Service)
	}
	return ss, args.Error(1)
}

func (m *MockServiceRepo) Create(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockServiceRepo) Update(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockServiceRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockGuestRepo is a mock implementation of guestRepo.GuestRepository.
type MockGuestRepo struct {
	testifymock.Mock
}

func (m *MockGuestRepo) GetByID(ctx context.Context, id string) (*models.Guest, error) {
	args := m.Called(ctx, id)
	var g *models.Guest
	if v := args.Get(0); v != nil {
		g = v.(*models.Guest)
	}
	return g, args.Error(1)
}

func (m *MockGuestRepo) GetOrCreateByPhone(ctx context.Context, name, phone, email string) (*models.Guest, bool, error) {
	args := m.Called(ctx, name, phone, email)
	var g *models.Guest
	if v := args.Get(0); v != nil {
		g = v.(*models.Guest)
	}
	return g, args.Bool(1), args.Error(2)
}

// MockIntents is a mock implementation of booking.PaymentIntents.
type MockIntents struct {
	testifymock.Mock
}

func (m *MockIntents) EnsureIntent(ctx context.Context, bkg *models.Booking, kind models.PaymentKind) (*models.Payment, string, error) {
	args := m.Called(ctx, bkg, kind)
	var p *models.Payment
	if v := args.Get(0); v != nil {
		p = v.(*models.Payment)
	}
	return p, args.String(1), args.Error(2)
}

// fakeSessionStore keeps sessions in memory for flow tests.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.BookingSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]models.BookingSession)}
}

func (s *fakeSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, booking.ErrSessionNotFound
	}
	copied := session
	return &copied, nil
}

func (s *fakeSessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = *session
	return nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
