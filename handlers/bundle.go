package handlers

import (
	staffRepoPkg "serenity/database/repository/staff"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	StaffRepo staffRepoPkg.StaffRepository

	// Public directory endpoints.
	ListBranchesHandler gin.HandlerFunc
	GetBranchHandler    gin.HandlerFunc
	ListServicesHandler gin.HandlerFunc
	ListWorkersHandler  gin.HandlerFunc
	ListReviewsHandler  gin.HandlerFunc

	// Booking flow endpoints.
	StartSession   gin.HandlerFunc
	GetSession     gin.HandlerFunc
	SelectBranch   gin.HandlerFunc
	SelectService  gin.HandlerFunc
	SelectWorker   gin.HandlerFunc
	SelectDate     gin.HandlerFunc
	SessionSlots   gin.HandlerFunc
	SelectSlot     gin.HandlerFunc
	SetGuestInfo   gin.HandlerFunc
	Review         gin.HandlerFunc
	ReleaseHold    gin.HandlerFunc
	Confirmation   gin.HandlerFunc
	AvailableSlots gin.HandlerFunc
	AvailableStaff gin.HandlerFunc
	InboxByPhone   gin.HandlerFunc
	ViewByToken    gin.HandlerFunc

	// Payment endpoints.
	PaymentWebhook gin.HandlerFunc
	Receipt        gin.HandlerFunc

	// Staff dashboard endpoints.
	StaffLogin           gin.HandlerFunc
	AdminListBookings    gin.HandlerFunc
	AdminGetBooking      gin.HandlerFunc
	AdminCancelBooking   gin.HandlerFunc
	AdminCompleteBooking gin.HandlerFunc
	AdminReassignBooking gin.HandlerFunc
	AdminManualBooking   gin.HandlerFunc
	AdminOverview        gin.HandlerFunc
	AdminRevenue         gin.HandlerFunc
	AdminListBranches    gin.HandlerFunc
	AdminCreateBranch    gin.HandlerFunc
	AdminUpdateBranch    gin.HandlerFunc
	AdminDeleteBranch    gin.HandlerFunc
	AdminListServices    gin.HandlerFunc
	AdminCreateService   gin.HandlerFunc
	AdminUpdateService   gin.HandlerFunc
	AdminDeleteService   gin.HandlerFunc
	AdminListWorkers     gin.HandlerFunc
	AdminCreateWorker    gin.HandlerFunc
	AdminUpdateWorker    gin.HandlerFunc
	AdminDeleteWorker    gin.HandlerFunc
	AdminListLeaves      gin.HandlerFunc
	AdminAddLeave        gin.HandlerFunc
	AdminRemoveLeave     gin.HandlerFunc
	AdminListReviews     gin.HandlerFunc
	AdminCreateReview    gin.HandlerFunc
	AdminUpdateReview    gin.HandlerFunc
	AdminDeleteReview    gin.HandlerFunc
}
