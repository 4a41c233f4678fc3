package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenthub-backend/internal/domains/notification/model"
	infracache "talenthub-backend/internal/infrastructure/cache"
)

// =====================================================
// IN-MEMORY FAKE
// =====================================================

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]*model.Notification
	createCalls   int
	countCalls    int
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	f.createCalls++
	stored := *n
	f.notifications[n.ID] = &stored
	return nil
}

func (f *fakeNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, model.ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationRepo) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*model.Notification, error) {
	var list []*model.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := *n
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	n, ok := f.notifications[id]
	if !ok {
		return model.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.notifications[id]; !ok {
		return model.ErrNotificationNotFound
	}
	delete(f.notifications, id)
	return nil
}

func (f *fakeNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	f.countCalls++
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) DeleteOldRead(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, n := range f.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(f.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

// =====================================================
// FIXTURE
// =====================================================

func newNotificationFixture(t *testing.T) (NotificationService, *fakeNotificationRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	c := infracache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	repo := &fakeNotificationRepo{notifications: map[uuid.UUID]*model.Notification{}}
	return NewNotificationService(repo, c), repo
}

func emit(t *testing.T, svc NotificationService, userID uuid.UUID, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		err := svc.Emit(context.Background(), userID, model.TypeBookingCreated,
			"New booking", fmt.Sprintf("message %d", i), nil, nil)
		require.NoError(t, err)
	}
}

// =====================================================
// TESTS
// =====================================================

func TestEmitAndList(t *testing.T) {
	svc, repo := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	talentID := uuid.New()
	err := svc.Emit(ctx, userID, model.TypeBookingCreated, "New booking", "alice booked", &talentID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.createCalls)

	result, err := svc.List(ctx, userID, false)
	require.NoError(t, err)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, 1, result.UnreadCount)

	n := result.Notifications[0]
	assert.Equal(t, model.TypeBookingCreated, n.Type)
	assert.False(t, n.IsRead)
	require.NotNil(t, n.RelatedTalent)
	assert.Equal(t, talentID, *n.RelatedTalent)
}

func TestListIsScopedToUser(t *testing.T) {
	svc, _ := newNotificationFixture(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	emit(t, svc, alice, 2)
	emit(t, svc, bob, 1)

	result, err := svc.List(ctx, alice, false)
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 2)
	for _, n := range result.Notifications {
		assert.Equal(t, alice, n.UserID)
	}
}

func TestListUnreadOnly(t *testing.T) {
	svc, repo := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	emit(t, svc, userID, 3)

	// Mark one as read
	var anyID uuid.UUID
	for id := range repo.notifications {
		anyID = id
		break
	}
	_, err := svc.MarkRead(ctx, userID, anyID)
	require.NoError(t, err)

	result, err := svc.List(ctx, userID, true)
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 2)
	assert.Equal(t, 2, result.UnreadCount)
}

func TestMarkReadOwnership(t *testing.T) {
	svc, repo := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	emit(t, svc, userID, 1)

	var id uuid.UUID
	for nid := range repo.notifications {
		id = nid
	}

	_, err := svc.MarkRead(ctx, uuid.New(), id)
	assert.ErrorIs(t, err, model.ErrForbidden)

	n, err := svc.MarkRead(ctx, userID, id)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
}

func TestMarkAllRead(t *testing.T) {
	svc, _ := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	emit(t, svc, userID, 3)
	require.NoError(t, svc.MarkAllRead(ctx, userID))

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteOwnership(t *testing.T) {
	svc, repo := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	emit(t, svc, userID, 1)

	var id uuid.UUID
	for nid := range repo.notifications {
		id = nid
	}

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), id), model.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, userID, id))
	assert.ErrorIs(t, svc.Delete(ctx, userID, id), model.ErrNotificationNotFound)
}

func TestUnreadCountCached(t *testing.T) {
	svc, repo := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	emit(t, svc, userID, 2)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	firstCalls := repo.countCalls

	// Second read is served from the cache
	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, firstCalls, repo.countCalls)

	// A new emission invalidates the cached value
	emit(t, svc, userID, 1)
	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Greater(t, repo.countCalls, firstCalls)
}

func TestListCap(t *testing.T) {
	svc, repo := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	// Stagger timestamps so the newest-first order is deterministic
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 60; i++ {
		n := &model.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      model.TypeBookingCreated,
			Title:     "New booking",
			Message:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, n))
	}

	result, err := svc.List(ctx, userID, false)
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 50)
	// Newest entry first
	assert.Equal(t, "message 59", result.Notifications[0].Message)
}
