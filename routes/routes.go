package routes

import (
	"net/http"
	"time"

	"serenity/handlers"
	"serenity/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterDirectoryRoutes registers the public read-only endpoints.
func RegisterDirectoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/branches", hb.ListBranchesHandler)
		api.GET("/branches/:id", hb.GetBranchHandler)
		api.GET("/branches/:id/workers", hb.ListWorkersHandler)
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/reviews", hb.ListReviewsHandler)
	}
}

// RegisterBookingRoutes sets up the guest booking flow and availability
// queries.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	{
		api.POST("/session", hb.StartSession)
		api.GET("/session/:sessionID", hb.GetSession)
		api.PUT("/session/:sessionID/branch", hb.SelectBranch)
		api.PUT("/session/:sessionID/service", hb.SelectService)
		api.PUT("/session/:sessionID/worker", hb.SelectWorker)
		api.PUT("/session/:sessionID/date", hb.SelectDate)
		api.GET("/session/:sessionID/slots", hb.SessionSlots)
		api.PUT("/session/:sessionID/slot", hb.SelectSlot)
		api.PUT("/session/:sessionID/guest", hb.SetGuestInfo)
		api.POST("/session/:sessionID/review", hb.Review)
		api.DELETE("/session/:sessionID/hold", hb.ReleaseHold)
		api.GET("/session/:sessionID/confirmation", hb.Confirmation)

		api.GET("/slots", hb.AvailableSlots)
		api.GET("/workers", hb.AvailableStaff)
	}

	// Guest inbox: phone lookup and tokenised booking view.
	inbox := r.Group("/api/bookings")
	{
		inbox.POST("/lookup", hb.InboxByPhone)
		inbox.GET("/view/:token", hb.ViewByToken)
		inbox.GET("/view/:token/receipt", hb.Receipt)
	}
}

// RegisterPaymentRoutes registers the gateway webhook.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.PaymentWebhook)
}

// RegisterAdminRoutes sets up the staff dashboard behind JWT auth.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.POST("/login", hb.StaffLogin)

		// Protected routes (require staff authentication).
		api.Use(middleware.JWTAuthStaffMiddleware(hb.StaffRepo))
		api.GET("/overview", hb.AdminOverview)
		api.GET("/revenue", hb.AdminRevenue)

		api.GET("/bookings", hb.AdminListBookings)
		api.GET("/bookings/:id", hb.AdminGetBooking)
		api.POST("/bookings/manual", hb.AdminManualBooking)
		api.PUT("/bookings/:id/cancel", hb.AdminCancelBooking)
		api.PUT("/bookings/:id/complete", hb.AdminCompleteBooking)
		api.PUT("/bookings/:id/reassign", hb.AdminReassignBooking)

		api.GET("/branches", hb.AdminListBranches)
		api.POST("/branches", hb.AdminCreateBranch)
		api.PUT("/branches/:id", hb.AdminUpdateBranch)
		api.DELETE("/branches/:id", hb.AdminDeleteBranch)

		api.GET("/services", hb.AdminListServices)
		api.POST("/services", hb.AdminCreateService)
		api.PUT("/services/:id", hb.AdminUpdateService)
		api.DELETE("/services/:id", hb.AdminDeleteService)

		api.GET("/workers", hb.AdminListWorkers)
		api.POST("/workers", hb.AdminCreateWorker)
		api.PUT("/workers/:id", hb.AdminUpdateWorker)
		api.DELETE("/workers/:id", hb.AdminDeleteWorker)
		api.GET("/workers/:id/leaves", hb.AdminListLeaves)
		api.POST("/workers/:id/leaves", hb.AdminAddLeave)
		api.DELETE("/workers/:id/leaves/:leaveID", hb.AdminRemoveLeave)

		api.GET("/reviews", hb.AdminListReviews)
		api.POST("/reviews", hb.AdminCreateReview)
		api.PUT("/reviews/:id", hb.AdminUpdateReview)
		api.DELETE("/reviews/:id", hb.AdminDeleteReview)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Serenity"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDirectoryRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
