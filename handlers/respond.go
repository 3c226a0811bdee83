package handlers

import (
	"errors"
	"net/http"

	"serenity/database/repository"
	"serenity/services/admin"
	"serenity/services/booking"
	"serenity/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates service errors into JSON responses. Flow errors
// carry their own guest-facing message; anything unexpected becomes a
// logged 500.
func respondError(c *gin.Context, err error) {
	var flowErr *booking.FlowError
	if errors.As(err, &flowErr) {
		c.JSON(flowStatus(flowErr), gin.H{"error": flowErr.Message, "code": flowErr.Code})
		return
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting state"})
	case errors.Is(err, admin.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		utils.GetLogger().Error("request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func flowStatus(err *booking.FlowError) int {
	switch err {
	case booking.ErrSlotConflict, booking.ErrSlotLocked:
		return http.StatusConflict
	case booking.ErrSessionNotFound:
		return http.StatusNotFound
	case booking.ErrStepIncomplete:
		return http.StatusBadRequest
	case booking.ErrSameDayCutoff, booking.ErrInvalidSlot,
		booking.ErrDateUnavailable, booking.ErrNoWorkersAvailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
