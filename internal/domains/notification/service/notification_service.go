package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"talenthub-backend/internal/domains/notification/model"
	"talenthub-backend/internal/domains/notification/repository"
	"talenthub-backend/pkg/cache"
	"talenthub-backend/pkg/logger"
)

const (
	// Listing is capped to the most recent entries
	listLimit = 50

	unreadCountTTL = 30 * time.Second
)

// Emitter is the write side of the fan-out, injected into the
// booking, talent and review services. Emission is best-effort by
// contract: callers log a failure and carry on.
type Emitter interface {
	Emit(ctx context.Context, userID uuid.UUID, ntype, title, message string, relatedTalent, relatedBooking *uuid.UUID) error
}

// ListResult carries one page of notifications plus the unread badge count.
type ListResult struct {
	Notifications []*model.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// NotificationService covers fan-out plus the owner-scoped inbox operations
type NotificationService interface {
	Emitter
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) (*ListResult, error)
	MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) (*model.Notification, error)
	MarkAllRead(ctx context.Context, callerID uuid.UUID) error
	Delete(ctx context.Context, callerID, notificationID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	cache cache.Cache
}

func NewNotificationService(repo repository.NotificationRepository, c cache.Cache) NotificationService {
	return &notificationService{repo: repo, cache: c}
}

// ========================================
// FAN-OUT
// ========================================

func (s *notificationService) Emit(ctx context.Context, userID uuid.UUID, ntype, title, message string, relatedTalent, relatedBooking *uuid.UUID) error {
	n := &model.Notification{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           ntype,
		Title:          title,
		Message:        message,
		RelatedTalent:  relatedTalent,
		RelatedBooking: relatedBooking,
		IsRead:         false,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, userID)
	return nil
}

// ========================================
// INBOX
// ========================================

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) (*ListResult, error) {
	notifications, err := s.repo.List(ctx, userID, unreadOnly, listLimit)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []*model.Notification{}
	}

	return &ListResult{
		Notifications: notifications,
		UnreadCount:   unreadCount,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) (*model.Notification, error) {
	// Step 1: Resolve and check ownership
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != callerID {
		return nil, model.ErrForbidden
	}

	// Step 2: Flip the flag
	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.IsRead = true

	s.invalidateUnreadCount(ctx, callerID)
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, callerID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, callerID); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, callerID)
	return nil
}

func (s *notificationService) Delete(ctx context.Context, callerID, notificationID uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != callerID {
		return model.ErrForbidden
	}

	if err := s.repo.Delete(ctx, notificationID); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, callerID)
	return nil
}

// ========================================
// UNREAD COUNT (cached)
// ========================================

func unreadCountKey(userID uuid.UUID) string {
	return "notifications:unread_count:" + userID.String()
}

// UnreadCount serves the polled UI badge, so it is cached briefly in
// Redis and invalidated on every inbox mutation.
func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	key := unreadCountKey(userID)

	var cached int
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("unread count cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return cached, nil
	}

	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, key, count, unreadCountTTL); err != nil {
		logger.Warn("unread count cache write failed", map[string]interface{}{"error": err.Error()})
	}

	return count, nil
}

func (s *notificationService) invalidateUnreadCount(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, unreadCountKey(userID)); err != nil {
		logger.Warn("unread count cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
