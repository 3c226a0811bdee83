package handlers

import (
	"net/http"
	"strconv"
	"time"

	"serenity/models"
	"serenity/services/admin"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the staff dashboard endpoints. Everything except
// Login sits behind the staff JWT middleware.
type AdminHandler struct {
	Admin admin.AdminService
}

func NewAdminHandler(adminSvc admin.AdminService) *AdminHandler {
	return &AdminHandler{Admin: adminSvc}
}

func staffID(c *gin.Context) string {
	return c.GetString("staffID")
}

// Login verifies staff credentials and returns a session token.
func (h *AdminHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	token, staff, err := h.Admin.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "staff": staff})
}

// ListBookings filters the booking ledger by ?status=, ?branchId=, ?date=,
// ?limit= and ?offset=.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Status:   models.BookingStatus(c.Query("status")),
		BranchID: c.Query("branchId"),
	}
	if d := c.Query("date"); d != "" {
		date, err := models.ParseDate(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
			return
		}
		filter.Date = &date
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.Admin.Bookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking returns one booking with its full audit trail.
func (h *AdminHandler) GetBooking(c *gin.Context) {
	bkg, logs, err := h.Admin.BookingDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": bkg, "statusLogs": logs})
}

// CancelBooking cancels a booking and notifies the guest.
func (h *AdminHandler) CancelBooking(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	bkg, err := h.Admin.CancelBooking(c.Request.Context(), c.Param("id"), staffID(c), input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// CompleteBooking marks a confirmed booking as delivered.
func (h *AdminHandler) CompleteBooking(c *gin.Context) {
	bkg, err := h.Admin.CompleteBooking(c.Request.Context(), c.Param("id"), staffID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// ReassignBooking moves a confirmed booking to another therapist.
func (h *AdminHandler) ReassignBooking(c *gin.Context) {
	var input struct {
		WorkerID string `json:"workerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	bkg, err := h.Admin.ReassignBooking(c.Request.Context(), c.Param("id"), input.WorkerID, staffID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// ManualBooking records a walk-in or phone booking, confirmed with payment
// waived.
func (h *AdminHandler) ManualBooking(c *gin.Context) {
	var req admin.ManualBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.StaffID = staffID(c)

	bkg, err := h.Admin.ManualBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bkg)
}

// Overview returns the dashboard snapshot.
func (h *AdminHandler) Overview(c *gin.Context) {
	overview, err := h.Admin.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Revenue aggregates settled revenue per day over ?from= and ?to=
// (defaults: the last 30 days).
func (h *AdminHandler) Revenue(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if q := c.Query("from"); q != "" {
		parsed, err := models.ParseDate(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = parsed
	}
	if q := c.Query("to"); q != "" {
		parsed, err := models.ParseDate(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		to = parsed
	}

	points, err := h.Admin.Revenue(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": points})
}

// Catalog management endpoints.

func (h *AdminHandler) ListAllBranches(c *gin.Context) {
	branches, err := h.Admin.AllBranches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

func (h *AdminHandler) CreateBranch(c *gin.Context) {
	var branch models.Branch
	if err := c.ShouldBindJSON(&branch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Admin.CreateBranch(c.Request.Context(), &branch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, branch)
}

func (h *AdminHandler) UpdateBranch(c *gin.Context) {
	var branch models.Branch
	if err := c.ShouldBindJSON(&branch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	branch.ID = c.Param("id")
	if err := h.Admin.UpdateBranch(c.Request.Context(), &branch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, branch)
}

func (h *AdminHandler) DeleteBranch(c *gin.Context) {
	if err := h.Admin.DeleteBranch(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ListAllServices(c *gin.Context) {
	services, err := h.Admin.AllServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Admin.CreateService(c.Request.Context(), &service); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	service.ID = c.Param("id")
	if err := h.Admin.UpdateService(c.Request.Context(), &service); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *AdminHandler) DeleteService(c *gin.Context) {
	if err := h.Admin.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ListAllWorkers(c *gin.Context) {
	workers, err := h.Admin.AllWorkers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

func (h *AdminHandler) CreateWorker(c *gin.Context) {
	var worker models.Worker
	if err := c.ShouldBindJSON(&worker); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Admin.CreateWorker(c.Request.Context(), &worker); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}

func (h *AdminHandler) UpdateWorker(c *gin.Context) {
	var worker models.Worker
	if err := c.ShouldBindJSON(&worker); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	worker.ID = c.Param("id")
	if err := h.Admin.UpdateWorker(c.Request.Context(), &worker); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (h *AdminHandler) DeleteWorker(c *gin.Context) {
	if err := h.Admin.DeleteWorker(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ListLeaves(c *gin.Context) {
	leaves, err := h.Admin.WorkerLeaves(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaves": leaves})
}

func (h *AdminHandler) AddLeave(c *gin.Context) {
	var input struct {
		Date   string `json:"date" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	date, err := models.ParseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	leave := models.WorkerLeave{
		WorkerID:  c.Param("id"),
		LeaveDate: date,
		Reason:    input.Reason,
	}
	if err := h.Admin.AddLeave(c.Request.Context(), &leave); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *AdminHandler) RemoveLeave(c *gin.Context) {
	if err := h.Admin.RemoveLeave(c.Request.Context(), c.Param("leaveID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) ListAllReviews(c *gin.Context) {
	reviews, err := h.Admin.AllReviews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *AdminHandler) CreateReview(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Admin.CreateReview(c.Request.Context(), &review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *AdminHandler) UpdateReview(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	review.ID = c.Param("id")
	if err := h.Admin.UpdateReview(c.Request.Context(), &review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *AdminHandler) DeleteReview(c *gin.Context) {
	if err := h.Admin.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
