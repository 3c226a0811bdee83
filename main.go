package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"serenity/config"
	"serenity/cron"
	"serenity/database"
	bookingRepoPkg "serenity/database/repository/booking"
	branchRepoPkg "serenity/database/repository/branch"
	catalogRepoPkg "serenity/database/repository/catalog"
	guestRepoPkg "serenity/database/repository/guest"
	paymentRepoPkg "serenity/database/repository/payment"
	reviewRepoPkg "serenity/database/repository/review"
	staffRepoPkg "serenity/database/repository/staff"
	workerRepoPkg "serenity/database/repository/worker"
	"serenity/handlers"
	"serenity/middleware"
	"serenity/routes"
	"serenity/services/admin"
	"serenity/services/booking"
	"serenity/services/directory"
	"serenity/services/notification"
	"serenity/services/payment"
	"serenity/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	_ = godotenv.Load()
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	defer database.CloseDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	pool := database.GetPool()
	branchRepo := branchRepoPkg.NewPGBranchRepo(pool)
	serviceRepo := catalogRepoPkg.NewPGServiceRepo(pool)
	workerRepo := workerRepoPkg.NewPGWorkerRepo(pool)
	guestRepo := guestRepoPkg.NewPGGuestRepo(pool)
	bookingRepo := bookingRepoPkg.NewPGBookingRepo(pool)
	paymentRepo := paymentRepoPkg.NewPGPaymentRepo(pool)
	reviewRepo := reviewRepoPkg.NewPGReviewRepo(pool)
	staffRepo := staffRepoPkg.NewPGStaffRepo(pool)

	// Task queue client for e-mail delivery.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(asynqClient)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	engine := booking.NewEngine(workerRepo, bookingRepo, bookingRepo)

	sessionStore := booking.NewRedisSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.BookingSessionTTLMinutes)*time.Minute,
	)

	paymentService := payment.NewDefaultPaymentService(paymentRepo, bookingRepo, notificationService)

	flowService := &booking.DefaultBookingFlowService{
		Sessions: sessionStore,
		Engine:   engine,
		Branches: branchRepo,
		Services: serviceRepo,
		Guests:   guestRepo,
		Bookings: bookingRepo,
		Locks:    bookingRepo,
		Payments: paymentService,
	}

	directoryService := &directory.DefaultDirectoryService{
		BranchRepo:     branchRepo,
		ServiceRepo:    serviceRepo,
		WorkerRepo:     workerRepo,
		ReviewRepo:     reviewRepo,
		DepositPercent: config.AppConfig.DepositPercent,
		Cache:          utils.GetCacheClient(),
		CacheTTL:       time.Duration(config.AppConfig.DirectoryCacheTTLMinutes) * time.Minute,
	}

	adminService := &admin.DefaultAdminService{
		StaffRepo:   staffRepo,
		BookingRepo: bookingRepo,
		BranchRepo:  branchRepo,
		ServiceRepo: serviceRepo,
		WorkerRepo:  workerRepo,
		GuestRepo:   guestRepo,
		ReviewRepo:  reviewRepo,
		Engine:      engine,
		Notifier:    notificationService,
	}

	bookingHandler := handlers.NewBookingHandler(flowService, logger)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Background worker: e-mail delivery and the lock cleanup sweep.
	cron.InitQueueWorker(notification.NewSMTPMailer(), bookingRepo, bookingRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		StaffRepo: staffRepo,

		// Public directory endpoints.
		ListBranchesHandler: directoryHandler.ListBranches,
		GetBranchHandler:    directoryHandler.GetBranch,
		ListServicesHandler: directoryHandler.ListServices,
		ListWorkersHandler:  directoryHandler.ListWorkers,
		ListReviewsHandler:  directoryHandler.ListReviews,

		// Booking flow endpoints.
		StartSession:   bookingHandler.StartSession,
		GetSession:     bookingHandler.GetSession,
		SelectBranch:   bookingHandler.SelectBranch,
		SelectService:  bookingHandler.SelectService,
		SelectWorker:   bookingHandler.SelectWorker,
		SelectDate:     bookingHandler.SelectDate,
		SessionSlots:   bookingHandler.SessionSlots,
		SelectSlot:     bookingHandler.SelectSlot,
		SetGuestInfo:   bookingHandler.SetGuestInfo,
		Review:         bookingHandler.Review,
		ReleaseHold:    bookingHandler.ReleaseHold,
		Confirmation:   bookingHandler.Confirmation,
		AvailableSlots: bookingHandler.Slots,
		AvailableStaff: bookingHandler.Workers,
		InboxByPhone:   bookingHandler.InboxByPhone,
		ViewByToken:    bookingHandler.ViewByToken,

		// Payment endpoints.
		PaymentWebhook: paymentHandler.Webhook,
		Receipt:        paymentHandler.Receipt,

		// Staff dashboard endpoints.
		StaffLogin:           adminHandler.Login,
		AdminListBookings:    adminHandler.ListBookings,
		AdminGetBooking:      adminHandler.GetBooking,
		AdminCancelBooking:   adminHandler.CancelBooking,
		AdminCompleteBooking: adminHandler.CompleteBooking,
		AdminReassignBooking: adminHandler.ReassignBooking,
		AdminManualBooking:   adminHandler.ManualBooking,
		AdminOverview:        adminHandler.Overview,
		AdminRevenue:         adminHandler.Revenue,
		AdminListBranches:    adminHandler.ListAllBranches,
		AdminCreateBranch:    adminHandler.CreateBranch,
		AdminUpdateBranch:    adminHandler.UpdateBranch,
		AdminDeleteBranch:    adminHandler.DeleteBranch,
		AdminListServices:    adminHandler.ListAllServices,
		AdminCreateService:   adminHandler.CreateService,
		AdminUpdateService:   adminHandler.UpdateService,
		AdminDeleteService:   adminHandler.DeleteService,
		AdminListWorkers:     adminHandler.ListAllWorkers,
		AdminCreateWorker:    adminHandler.CreateWorker,
		AdminUpdateWorker:    adminHandler.UpdateWorker,
		AdminDeleteWorker:    adminHandler.DeleteWorker,
		AdminListLeaves:      adminHandler.ListLeaves,
		AdminAddLeave:        adminHandler.AddLeave,
		AdminRemoveLeave:     adminHandler.RemoveLeave,
		AdminListReviews:     adminHandler.ListAllReviews,
		AdminCreateReview:    adminHandler.CreateReview,
		AdminUpdateReview:    adminHandler.UpdateReview,
		AdminDeleteReview:    adminHandler.DeleteReview,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
