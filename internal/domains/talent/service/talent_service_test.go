package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	talentmodel "talenthub-backend/internal/domains/talent/model"
)

// =====================================================
// IN-MEMORY FAKES
// =====================================================

type fakeTalentRepo struct {
	talents   map[uuid.UUID]*talentmodel.Talent
	schedules map[uuid.UUID]*talentmodel.Schedule

	// Users with non-cancelled bookings per talent, returned by
	// DeleteCascade for the fan-out.
	bookers map[uuid.UUID][]uuid.UUID
}

func newFakeTalentRepo() *fakeTalentRepo {
	return &fakeTalentRepo{
		talents:   map[uuid.UUID]*talentmodel.Talent{},
		schedules: map[uuid.UUID]*talentmodel.Schedule{},
		bookers:   map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeTalentRepo) Create(ctx context.Context, t *talentmodel.Talent, schedules []*talentmodel.Schedule) error {
	stored := *t
	f.talents[t.ID] = &stored
	for _, s := range schedules {
		copied := *s
		f.schedules[s.ID] = &copied
	}
	return nil
}

func (f *fakeTalentRepo) FindByID(ctx context.Context, id uuid.UUID) (*talentmodel.Talent, error) {
	t, ok := f.talents[id]
	if !ok {
		return nil, talentmodel.ErrTalentNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTalentRepo) List(ctx context.Context, filters talentmodel.ListTalentsRequest) ([]*talentmodel.Talent, error) {
	var list []*talentmodel.Talent
	for _, t := range f.talents {
		if filters.Category != "" && t.Category != filters.Category {
			continue
		}
		if filters.IsOnline != nil && t.IsOnline != *filters.IsOnline {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(filters.Search)) {
			continue
		}
		copied := *t
		list = append(list, &copied)
	}
	return list, nil
}

func (f *fakeTalentRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*talentmodel.Talent, error) {
	var list []*talentmodel.Talent
	for _, t := range f.talents {
		if t.UserID == ownerID {
			copied := *t
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (f *fakeTalentRepo) Update(ctx context.Context, t *talentmodel.Talent) error {
	if _, ok := f.talents[t.ID]; !ok {
		return talentmodel.ErrTalentNotFound
	}
	stored := *t
	f.talents[t.ID] = &stored
	return nil
}

func (f *fakeTalentRepo) DeleteCascade(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if _, ok := f.talents[id]; !ok {
		return nil, talentmodel.ErrTalentNotFound
	}
	delete(f.talents, id)
	for sid, s := range f.schedules {
		if s.TalentID == id {
			delete(f.schedules, sid)
		}
	}
	return f.bookers[id], nil
}

func (f *fakeTalentRepo) AddSchedule(ctx context.Context, s *talentmodel.Schedule) error {
	copied := *s
	f.schedules[s.ID] = &copied
	return nil
}

func (f *fakeTalentRepo) ListSchedules(ctx context.Context, talentID uuid.UUID) ([]*talentmodel.Schedule, error) {
	var list []*talentmodel.Schedule
	for _, s := range f.schedules {
		if s.TalentID == talentID {
			copied := *s
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (f *fakeTalentRepo) FindScheduleByID(ctx context.Context, id uuid.UUID) (*talentmodel.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, talentmodel.ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

type emitted struct {
	userID uuid.UUID
	ntype  string
}

type fakeEmitter struct {
	sent []emitted
}

func (f *fakeEmitter) Emit(ctx context.Context, userID uuid.UUID, ntype, title, message string, relatedTalent, relatedBooking *uuid.UUID) error {
	f.sent = append(f.sent, emitted{userID: userID, ntype: ntype})
	return nil
}

type fakeStorage struct {
	uploads        map[string][]byte
	deletedPrefixs []string
}

func (f *fakeStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.uploads[key] = data
	return "http://storage.local/" + key, nil
}

func (f *fakeStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	f.deletedPrefixs = append(f.deletedPrefixs, prefix)
	return nil
}

// =====================================================
// FIXTURE
// =====================================================

type talentFixture struct {
	svc     TalentService
	repo    *fakeTalentRepo
	emitter *fakeEmitter
	storage *fakeStorage
	ownerID uuid.UUID
}

func newTalentFixture(t *testing.T) *talentFixture {
	t.Helper()

	repo := newFakeTalentRepo()
	emitter := &fakeEmitter{}
	storage := &fakeStorage{uploads: map[string][]byte{}}

	return &talentFixture{
		svc:     NewTalentService(repo, emitter, storage),
		repo:    repo,
		emitter: emitter,
		storage: storage,
		ownerID: uuid.New(),
	}
}

func (fx *talentFixture) createRequest() talentmodel.CreateTalentRequest {
	return talentmodel.CreateTalentRequest{
		Title:           "Guitar for beginners",
		Description:     "One hour of chords and strumming.",
		Category:        talentmodel.CategoryMusic,
		IsOnline:        true,
		MaxParticipants: 4,
		Schedules: []talentmodel.ScheduleInput{
			{
				Date:      time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
				StartTime: "10:00",
				EndTime:   "11:00",
			},
		},
	}
}

func (fx *talentFixture) create(t *testing.T) *talentmodel.TalentDetail {
	t.Helper()

	detail, err := fx.svc.Create(context.Background(), fx.ownerID, fx.createRequest())
	require.NoError(t, err)
	return detail
}

// =====================================================
// CREATE / READ
// =====================================================

func TestCreateTalent(t *testing.T) {
	fx := newTalentFixture(t)

	detail := fx.create(t)
	assert.Equal(t, fx.ownerID, detail.UserID)
	assert.Equal(t, "Guitar for beginners", detail.Title)
	require.Len(t, detail.Schedules, 1)
	assert.Equal(t, detail.ID, detail.Schedules[0].TalentID)
	assert.Equal(t, 0, detail.Schedules[0].CurrentParticipants)
}

func TestCreateTalentOfflineNeedsLocation(t *testing.T) {
	fx := newTalentFixture(t)

	req := fx.createRequest()
	req.IsOnline = false
	req.Location = nil

	_, err := fx.svc.Create(context.Background(), fx.ownerID, req)
	assert.ErrorIs(t, err, talentmodel.ErrLocationRequired)
	assert.Empty(t, fx.repo.talents)
}

func TestGetTalent(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)

	detail, err := fx.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)
	assert.Len(t, detail.Schedules, 1)

	_, err = fx.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, talentmodel.ErrTalentNotFound)
}

func TestListTalentsFilters(t *testing.T) {
	fx := newTalentFixture(t)
	fx.create(t)

	cooking := fx.createRequest()
	cooking.Title = "Sourdough basics"
	cooking.Category = talentmodel.CategoryCooking
	_, err := fx.svc.Create(context.Background(), uuid.New(), cooking)
	require.NoError(t, err)

	list, err := fx.svc.List(context.Background(), talentmodel.ListTalentsRequest{Category: talentmodel.CategoryCooking})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sourdough basics", list[0].Title)

	list, err = fx.svc.List(context.Background(), talentmodel.ListTalentsRequest{Search: "guitar"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Guitar for beginners", list[0].Title)
}

// =====================================================
// UPDATE
// =====================================================

func TestUpdateTalent(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)
	ctx := context.Background()

	title := "Guitar, advanced"
	updated, err := fx.svc.Update(ctx, fx.ownerID, created.ID, talentmodel.UpdateTalentRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Guitar, advanced", updated.Title)
	// Untouched fields survive the partial update
	assert.Equal(t, talentmodel.CategoryMusic, updated.Category)
}

func TestUpdateTalentOwnership(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)

	title := "Hijacked"
	_, err := fx.svc.Update(context.Background(), uuid.New(), created.ID, talentmodel.UpdateTalentRequest{Title: &title})
	assert.ErrorIs(t, err, talentmodel.ErrForbidden)
}

// Flipping an online talent to offline without supplying a location
// must fail on the merged state.
func TestUpdateTalentLocationRuleOnMerge(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)
	ctx := context.Background()

	offline := false
	_, err := fx.svc.Update(ctx, fx.ownerID, created.ID, talentmodel.UpdateTalentRequest{IsOnline: &offline})
	assert.ErrorIs(t, err, talentmodel.ErrLocationRequired)

	loc := "Berlin"
	updated, err := fx.svc.Update(ctx, fx.ownerID, created.ID, talentmodel.UpdateTalentRequest{IsOnline: &offline, Location: &loc})
	require.NoError(t, err)
	assert.False(t, updated.IsOnline)
	assert.Equal(t, "Berlin", *updated.Location)
}

// =====================================================
// DELETE
// =====================================================

func TestDeleteTalentFansOut(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	fx.repo.bookers[created.ID] = []uuid.UUID{alice, bob}

	require.NoError(t, fx.svc.Delete(ctx, fx.ownerID, created.ID))

	// Talent and schedules are gone
	_, err := fx.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, talentmodel.ErrTalentNotFound)

	// Every affected booker got a talent_deleted notification
	require.Len(t, fx.emitter.sent, 2)
	assert.Equal(t, alice, fx.emitter.sent[0].userID)
	assert.Equal(t, "talent_deleted", fx.emitter.sent[0].ntype)
	assert.Equal(t, bob, fx.emitter.sent[1].userID)

	// Stored images are cleaned up
	require.Len(t, fx.storage.deletedPrefixs, 1)
	assert.Equal(t, "talents/"+created.ID.String()+"/", fx.storage.deletedPrefixs[0])
}

func TestDeleteTalentOwnership(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)

	err := fx.svc.Delete(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, talentmodel.ErrForbidden)
	assert.Empty(t, fx.emitter.sent)
}

// =====================================================
// SCHEDULES / IMAGE
// =====================================================

func TestAddSchedule(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)
	ctx := context.Background()

	req := talentmodel.AddScheduleRequest{
		ScheduleInput: talentmodel.ScheduleInput{
			Date:      time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
			StartTime: "15:00",
			EndTime:   "16:00",
		},
	}

	_, err := fx.svc.AddSchedule(ctx, uuid.New(), created.ID, req)
	assert.ErrorIs(t, err, talentmodel.ErrForbidden)

	schedule, err := fx.svc.AddSchedule(ctx, fx.ownerID, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, schedule.TalentID)

	schedules, err := fx.svc.ListSchedules(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, schedules, 2)
}

func TestListSchedulesMissingTalent(t *testing.T) {
	fx := newTalentFixture(t)

	_, err := fx.svc.ListSchedules(context.Background(), uuid.New())
	assert.ErrorIs(t, err, talentmodel.ErrTalentNotFound)
}

func TestUploadTalentImage(t *testing.T) {
	fx := newTalentFixture(t)
	created := fx.create(t)
	ctx := context.Background()

	img := []byte("fake-jpeg-bytes")
	updated, err := fx.svc.UploadImage(ctx, fx.ownerID, created.ID, bytes.NewReader(img), int64(len(img)), "image/jpeg")
	require.NoError(t, err)

	require.NotNil(t, updated.Image)
	assert.Contains(t, *updated.Image, "talents/"+created.ID.String()+"/")
}
