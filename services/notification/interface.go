package notification

import (
	"context"
	"fmt"

	"serenity/config"
	"serenity/models"
	"serenity/services/tasks"
	"serenity/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationService sends guest-facing booking e-mails. Delivery is
// queued; the worker retries transient SMTP failures.
type NotificationService interface {
	BookingConfirmed(ctx context.Context, booking *models.Booking) error
	BookingCancelled(ctx context.Context, booking *models.Booking, reason string) error
	BookingReassigned(ctx context.Context, booking *models.Booking, previousWorker string) error
}

// DefaultNotificationService enqueues composed e-mails onto the task queue.
type DefaultNotificationService struct {
	AsynqClient *asynq.Client
	SiteURL     string
}

func NewDefaultNotificationService(client *asynq.Client) (*DefaultNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: asynq client is nil")
	}
	return &DefaultNotificationService{
		AsynqClient: client,
		SiteURL:     config.AppConfig.SiteURL,
	}, nil
}

func (s *DefaultNotificationService) BookingConfirmed(ctx context.Context, booking *models.Booking) error {
	subject, body := composeConfirmed(booking, s.SiteURL)
	return s.enqueue(ctx, booking, subject, body)
}

func (s *DefaultNotificationService) BookingCancelled(ctx context.Context, booking *models.Booking, reason string) error {
	subject, body := composeCancelled(booking, reason)
	return s.enqueue(ctx, booking, subject, body)
}

func (s *DefaultNotificationService) BookingReassigned(ctx context.Context, booking *models.Booking, previousWorker string) error {
	subject, body := composeReassigned(booking, previousWorker, s.SiteURL)
	return s.enqueue(ctx, booking, subject, body)
}

// enqueue queues the e-mail, skipping guests who booked without an address.
func (s *DefaultNotificationService) enqueue(ctx context.Context, booking *models.Booking, subject, body string) error {
	if booking.GuestEmail == "" {
		utils.GetLogger().Debug("guest has no e-mail, skipping notification",
			zap.String("bookingID", booking.ID))
		return nil
	}
	task, opts, err := tasks.NewEmailTask(models.EmailPayload{
		To:      booking.GuestEmail,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}
	if _, err := s.AsynqClient.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Error("failed to enqueue e-mail task",
			zap.Error(err), zap.String("bookingID", booking.ID))
		return err
	}
	return nil
}
