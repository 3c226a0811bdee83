package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"serenity/database/repository"
	"serenity/handlers"
	"serenity/models"
	"serenity/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockFlow struct {
	testifymock.Mock
}

func (m *MockFlow) StartSession(ctx context.Context) (*models.BookingSession, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SelectBranch(ctx context.Context, sessionID, branchID string) (*models.BookingSession, error) {
	args := m.Called(ctx, sessionID, branchID)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SelectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, error) {
	args := m.Called(ctx, sessionID, serviceID)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SelectWorker(ctx context.Context, sessionID, workerID string) (*models.BookingSession, error) {
	args := m.Called(ctx, sessionID, workerID)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, error) {
	args := m.Called(ctx, sessionID, date)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SessionSlots(ctx context.Context, sessionID string) ([]models.AvailableSlot, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.([]models.AvailableSlot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SelectSlot(ctx context.Context, sessionID, start string) (*models.BookingSession, error) {
	args := m.Called(ctx, sessionID, start)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SetGuestInfo(ctx context.Context, sessionID, name, phone, email string) (*models.BookingSession, error) {
	args := m.Called(ctx, sessionID, name, phone, email)
	if v := args.Get(0); v != nil {
		return v.(*models.BookingSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) Review(ctx context.Context, sessionID, notes string, kind models.PaymentKind) (*models.ReviewSummary, error) {
	args := m.Called(ctx, sessionID, notes, kind)
	if v := args.Get(0); v != nil {
		return v.(*models.ReviewSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) ReleaseHold(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockFlow) Confirmation(ctx context.Context, sessionID string) (*models.Booking, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) SlotsFor(ctx context.Context, branchID, serviceID, workerID, date string) ([]models.AvailableSlot, error) {
	args := m.Called(ctx, branchID, serviceID, workerID, date)
	if v := args.Get(0); v != nil {
		return v.([]models.AvailableSlot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) WorkersFor(ctx context.Context, branchID, serviceID, date, start string) ([]models.Worker, error) {
	args := m.Called(ctx, branchID, serviceID, date, start)
	if v := args.Get(0); v != nil {
		return v.([]models.Worker), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) BookingsByPhone(ctx context.Context, rawPhone string) ([]models.Booking, error) {
	args := m.Called(ctx, rawPhone)
	if v := args.Get(0); v != nil {
		return v.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFlow) BookingByToken(ctx context.Context, token string) (*models.Booking, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func newBookingRouter(flow *MockFlow) *gin.Engine {
	h := handlers.NewBookingHandler(flow, zap.NewNop())
	r := gin.New()
	r.POST("/api/booking/session", h.StartSession)
	r.GET("/api/booking/session/:sessionID", h.GetSession)
	r.PUT("/api/booking/session/:sessionID/branch", h.SelectBranch)
	r.PUT("/api/booking/session/:sessionID/slot", h.SelectSlot)
	r.POST("/api/booking/session/:sessionID/review", h.Review)
	r.GET("/api/booking/slots", h.Slots)
	r.GET("/api/bookings/view/:token", h.ViewByToken)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartSessionReturnsCreated(t *testing.T) {
	flow := new(MockFlow)
	flow.On("StartSession", testifymock.Anything).
		Return(&models.BookingSession{SessionID: "sess-1"}, nil)

	w := doJSON(t, newBookingRouter(flow), http.MethodPost, "/api/booking/session", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.BookingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "sess-1", got.SessionID)
}

func TestGetSessionNotFound(t *testing.T) {
	flow := new(MockFlow)
	flow.On("GetSession", testifymock.Anything, "missing").
		Return(nil, booking.ErrSessionNotFound)

	w := doJSON(t, newBookingRouter(flow), http.MethodGet, "/api/booking/session/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "sessionNotFound")
}

func TestSelectBranchRejectsMissingBody(t *testing.T) {
	flow := new(MockFlow)

	w := doJSON(t, newBookingRouter(flow), http.MethodPut, "/api/booking/session/sess-1/branch", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	flow.AssertNotCalled(t, "SelectBranch")
}

func TestSelectSlotMapsFlowErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid slot", booking.ErrInvalidSlot, http.StatusUnprocessableEntity},
		{"step incomplete", booking.ErrStepIncomplete, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow := new(MockFlow)
			flow.On("SelectSlot", testifymock.Anything, "sess-1", "10:00").Return(nil, tc.err)

			w := doJSON(t, newBookingRouter(flow), http.MethodPut,
				"/api/booking/session/sess-1/slot", `{"start":"10:00"}`)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestReviewConflictReturns409(t *testing.T) {
	flow := new(MockFlow)
	flow.On("Review", testifymock.Anything, "sess-1", "", models.PaymentKindFull).
		Return(nil, booking.ErrSlotConflict)

	w := doJSON(t, newBookingRouter(flow), http.MethodPost,
		"/api/booking/session/sess-1/review", `{"paymentKind":"full"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slotConflict")
}

func TestReviewReturnsSummary(t *testing.T) {
	flow := new(MockFlow)
	summary := &models.ReviewSummary{
		Booking:      &models.Booking{ID: "bk1", Status: models.BookingPendingPayment},
		AmountMinor:  250000,
		Currency:     "inr",
		Kind:         models.PaymentKindFull,
		ClientSecret: "secret_123",
	}
	flow.On("Review", testifymock.Anything, "sess-1", "quiet room", models.PaymentKindFull).
		Return(summary, nil)

	w := doJSON(t, newBookingRouter(flow), http.MethodPost,
		"/api/booking/session/sess-1/review", `{"notes":"quiet room","paymentKind":"full"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "secret_123")
}

func TestSlotsDefaultsToAnyWorker(t *testing.T) {
	flow := new(MockFlow)
	slots := []models.AvailableSlot{{
		Start:   models.MustTimeOfDay("10:00"),
		End:     models.MustTimeOfDay("11:00"),
		Display: "10:00 AM - 11:00 AM",
	}}
	flow.On("SlotsFor", testifymock.Anything, "b1", "s1", models.AnyWorker, "2025-06-02").
		Return(slots, nil)

	w := doJSON(t, newBookingRouter(flow), http.MethodGet,
		"/api/booking/slots?branchId=b1&serviceId=s1&date=2025-06-02", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "10:00 AM - 11:00 AM")
}

func TestViewByToken(t *testing.T) {
	flow := new(MockFlow)
	flow.On("BookingByToken", testifymock.Anything, "tok-1").
		Return(&models.Booking{ID: "bk1", Status: models.BookingConfirmed}, nil)
	flow.On("BookingByToken", testifymock.Anything, "gone").
		Return(nil, repository.ErrNotFound)

	r := newBookingRouter(flow)

	w := doJSON(t, r, http.MethodGet, "/api/bookings/view/tok-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bk1")

	w = doJSON(t, r, http.MethodGet, "/api/bookings/view/gone", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
