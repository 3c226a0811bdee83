package tasks

import (
	"encoding/json"

	"serenity/models"

	"github.com/hibiken/asynq"
)

const (
	TypeEmailSend   = "email:send"
	TypeLockCleanup = "locks:cleanup"
)

// NewEmailTask builds a queued e-mail delivery task.
func NewEmailTask(payload models.EmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeEmailSend, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}

	return task, opts, nil
}

// NewLockCleanupTask builds the periodic sweep that releases expired slot
// locks and expires stale pending bookings.
func NewLockCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeLockCleanup, nil)
}
