package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"talenthub-backend/internal/domains/notification/model"
)

// NotificationRepository persists notification records
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)

	// List returns the newest notifications for a user, capped at limit.
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*model.Notification, error)

	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteOldRead removes read notifications created before the cutoff.
	// Used by the cleanup worker; returns the number removed.
	DeleteOldRead(ctx context.Context, cutoff time.Time) (int64, error)
}
