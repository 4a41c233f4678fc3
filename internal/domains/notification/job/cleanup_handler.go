package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"talenthub-backend/internal/domains/notification/repository"
	"talenthub-backend/internal/shared"
	"talenthub-backend/internal/shared/utils"
	"talenthub-backend/pkg/logger"
)

// defaultRetentionDays keeps read notifications around for 90 days
// before the nightly cleanup removes them.
const defaultRetentionDays = 90

// CleanupOldNotificationsHandler removes read notifications past the
// retention window. Unread notifications are never touched.
type CleanupOldNotificationsHandler struct {
	repo repository.NotificationRepository
}

func NewCleanupOldNotificationsHandler(repo repository.NotificationRepository) *CleanupOldNotificationsHandler {
	return &CleanupOldNotificationsHandler{repo: repo}
}

func (h *CleanupOldNotificationsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CleanupOldNotificationsPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("failed to unmarshal cleanup payload", err)
		return err
	}

	days := payload.Days
	if days <= 0 {
		days = defaultRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	deleted, err := h.repo.DeleteOldRead(ctx, cutoff)
	if err != nil {
		logger.Error("failed to delete old notifications", err)
		return err
	}

	logger.Info("cleaned up old notifications", map[string]interface{}{
		"deleted":        deleted,
		"retention_days": days,
	})
	return nil
}
