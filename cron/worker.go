package cron

import (
	"context"
	"encoding/json"
	"time"

	"serenity/config"
	bookingRepo "serenity/database/repository/booking"
	"serenity/models"
	"serenity/services/notification"
	"serenity/services/tasks"
	"serenity/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// lockCleanupInterval drives the periodic sweep of expired slot locks and
// stale pending bookings. Locks expire after ~10 minutes, so 5 minutes keeps
// the worst-case overstay bounded.
const lockCleanupInterval = "@every 5m"

// InitQueueWorker runs the asynq worker and the periodic scheduler in the
// background: e-mail delivery plus the slot lock / pending booking sweep.
func InitQueueWorker(mailer notification.Mailer, bookings bookingRepo.BookingRepository, locks bookingRepo.SlotLockRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEmailSend, handleEmailTask(mailer))
	mux.HandleFunc(tasks.TypeLockCleanup, handleLockCleanup(bookings, locks))

	// Redis health monitor for the queue connection.
	go monitorRedisConnection()

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting queue worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("queue worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("queue worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(lockCleanupInterval, tasks.NewLockCleanupTask()); err != nil {
		utils.GetLogger().Fatal("register lock cleanup schedule", zap.Error(err))
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			utils.GetLogger().Fatal("scheduler stopped", zap.Error(err))
		}
	}()
}

func handleEmailTask(mailer notification.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.EmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid e-mail payload", zap.Error(err))
			return err
		}
		if err := mailer.Send(p.To, p.Subject, p.Body); err != nil {
			utils.GetLogger().Error("e-mail delivery failed",
				zap.String("to", p.To), zap.Error(err))
			return err
		}
		utils.GetLogger().Info("e-mail sent", zap.String("to", p.To), zap.String("subject", p.Subject))
		return nil
	}
}

// handleLockCleanup releases expired slot locks, then expires
// PENDING_PAYMENT bookings whose payment window has lapsed and whose lock is
// gone. Slots free up for other guests without manual intervention.
func handleLockCleanup(bookings bookingRepo.BookingRepository, locks bookingRepo.SlotLockRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		now := time.Now()

		released, err := locks.ReleaseExpired(ctx, now)
		if err != nil {
			utils.GetLogger().Error("release expired locks", zap.Error(err))
			return err
		}

		cutoff := now.Add(-time.Duration(config.AppConfig.PendingBookingTTLMinutes) * time.Minute)
		expired, err := bookings.ExpireStale(ctx, cutoff, now)
		if err != nil {
			utils.GetLogger().Error("expire stale bookings", zap.Error(err))
			return err
		}

		if released > 0 || expired > 0 {
			utils.GetLogger().Info("cleanup sweep",
				zap.Int64("locksReleased", released), zap.Int("bookingsExpired", expired))
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
