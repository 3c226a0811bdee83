package handlers

import (
	"net/http"

	"serenity/models"
	"serenity/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the guest booking flow over HTTP. The client keeps
// only the opaque session ID; all flow state lives server-side.
type BookingHandler struct {
	Flow   booking.BookingFlowService
	Logger *zap.Logger
}

func NewBookingHandler(flow booking.BookingFlowService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Flow: flow, Logger: logger}
}

// StartSession opens a fresh booking session.
func (h *BookingHandler) StartSession(c *gin.Context) {
	session, err := h.Flow.StartSession(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns the current flow state for step navigation.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Flow.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectBranch records the branch choice.
func (h *BookingHandler) SelectBranch(c *gin.Context) {
	var input struct {
		BranchID string `json:"branchId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Flow.SelectBranch(c.Request.Context(), c.Param("sessionID"), input.BranchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectService records the service choice.
func (h *BookingHandler) SelectService(c *gin.Context) {
	var input struct {
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Flow.SelectService(c.Request.Context(), c.Param("sessionID"), input.ServiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectWorker records a therapist choice, or "any".
func (h *BookingHandler) SelectWorker(c *gin.Context) {
	var input struct {
		WorkerID string `json:"workerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Flow.SelectWorker(c.Request.Context(), c.Param("sessionID"), input.WorkerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectDate records the booking date.
func (h *BookingHandler) SelectDate(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Flow.SelectDate(c.Request.Context(), c.Param("sessionID"), input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SessionSlots lists the open slots for the session's current choices.
func (h *BookingHandler) SessionSlots(c *gin.Context) {
	slots, err := h.Flow.SessionSlots(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// SelectSlot records the chosen start time.
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	var input struct {
		Start string `json:"start" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Flow.SelectSlot(c.Request.Context(), c.Param("sessionID"), input.Start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetGuestInfo records the guest's contact details.
func (h *BookingHandler) SetGuestInfo(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone" binding:"required"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session, err := h.Flow.SetGuestInfo(c.Request.Context(), c.Param("sessionID"), input.Name, input.Phone, input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Review locks the slot, creates the pending booking and returns the payment
// summary.
func (h *BookingHandler) Review(c *gin.Context) {
	var input struct {
		Notes string `json:"notes"`
		Kind  string `json:"paymentKind"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	summary, err := h.Flow.Review(c.Request.Context(), c.Param("sessionID"), input.Notes, models.PaymentKind(input.Kind))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ReleaseHold releases the slot lock when the guest steps back from review.
func (h *BookingHandler) ReleaseHold(c *gin.Context) {
	if err := h.Flow.ReleaseHold(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": true})
}

// Confirmation reports the booking state after payment; the client polls it
// until the webhook confirms.
func (h *BookingHandler) Confirmation(c *gin.Context) {
	bkg, err := h.Flow.Confirmation(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}

// Slots is the sessionless availability query for widgets and the dashboard.
func (h *BookingHandler) Slots(c *gin.Context) {
	workerID := c.Query("workerId")
	if workerID == "" {
		workerID = models.AnyWorker
	}
	slots, err := h.Flow.SlotsFor(c.Request.Context(),
		c.Query("branchId"), c.Query("serviceId"), workerID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// Workers lists the therapists free to take a specific slot.
func (h *BookingHandler) Workers(c *gin.Context) {
	workers, err := h.Flow.WorkersFor(c.Request.Context(),
		c.Query("branchId"), c.Query("serviceId"), c.Query("date"), c.Query("start"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// InboxByPhone lists a guest's bookings by phone number.
func (h *BookingHandler) InboxByPhone(c *gin.Context) {
	var input struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	bookings, err := h.Flow.BookingsByPhone(c.Request.Context(), input.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ViewByToken retrieves one booking by its emailed access token.
func (h *BookingHandler) ViewByToken(c *gin.Context) {
	bkg, err := h.Flow.BookingByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}
