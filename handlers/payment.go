package handlers

import (
	"net/http"

	"serenity/services/payment"
	"serenity/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the gateway webhook and guest receipts.
type PaymentHandler struct {
	Payments payment.PaymentService
}

func NewPaymentHandler(payments payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

// Webhook receives signed gateway events. The raw body is required for
// signature verification, so this endpoint must not sit behind any
// body-rewriting middleware.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}
	signature := c.GetHeader("Stripe-Signature")

	if err := h.Payments.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		utils.GetLogger().Warn("webhook rejected", zap.Error(err))
		// Non-2xx makes the gateway retry; signature failures are permanent.
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook rejected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Receipt returns the guest-facing receipt for a settled booking.
func (h *PaymentHandler) Receipt(c *gin.Context) {
	receipt, err := h.Payments.Receipt(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
