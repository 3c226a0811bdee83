package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"serenity/handlers"
	"serenity/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDirectory struct {
	testifymock.Mock
}

func (m *MockDirectory) Branches(ctx context.Context) ([]models.Branch, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.Branch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectory) Branch(ctx context.Context, id string) (*models.Branch, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Branch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectory) ServiceGroups(ctx context.Context, branchID string) ([]models.ServiceGroup, error) {
	args := m.Called(ctx, branchID)
	if v := args.Get(0); v != nil {
		return v.([]models.ServiceGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectory) WorkersAt(ctx context.Context, branchID string) ([]models.Worker, error) {
	args := m.Called(ctx, branchID)
	if v := args.Get(0); v != nil {
		return v.([]models.Worker), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectory) Reviews(ctx context.Context) ([]models.ReviewView, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]models.ReviewView), args.Error(1)
	}
	return nil, args.Error(1)
}

func newDirectoryRouter(dir *MockDirectory) *gin.Engine {
	h := handlers.NewDirectoryHandler(dir)
	r := gin.New()
	r.GET("/api/services", h.ListServices)
	r.GET("/api/reviews", h.ListReviews)
	return r
}

func TestListReviews(t *testing.T) {
	dir := new(MockDirectory)
	review := models.Review{
		ID:           "r1",
		ClientName:   "Priya",
		InstagramURL: "https://www.instagram.com/reels/XYZ/",
		IsPublished:  true,
	}
	dir.On("Reviews", testifymock.Anything).Return([]models.ReviewView{
		{Review: review, EmbedURL: review.EmbedURL()},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	newDirectoryRouter(dir).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Reviews []map[string]interface{} `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Reviews, 1)
	assert.Equal(t, "https://www.instagram.com/reels/XYZ/embed/", body.Reviews[0]["embedUrl"])
	assert.Equal(t, "Priya", body.Reviews[0]["clientName"])
}

func TestListServices(t *testing.T) {
	dir := new(MockDirectory)
	svc := models.Service{
		ID:              "s1",
		Name:            "Deep Tissue Massage",
		DurationMinutes: 60,
		PriceMinor:      250000,
	}
	dir.On("ServiceGroups", testifymock.Anything, "b1").Return([]models.ServiceGroup{
		{Name: svc.Name, Variants: []models.ServiceVariant{
			{Service: svc, DepositMinor: svc.DepositMinor(10)},
		}},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services?branchId=b1", nil)
	newDirectoryRouter(dir).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Services []struct {
			Name     string `json:"name"`
			Variants []struct {
				ID           string `json:"id"`
				DepositMinor int64  `json:"depositMinor"`
			} `json:"variants"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Services, 1)
	require.Len(t, body.Services[0].Variants, 1)
	assert.Equal(t, "s1", body.Services[0].Variants[0].ID)
	assert.Equal(t, int64(25000), body.Services[0].Variants[0].DepositMinor)
}
