package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenthub-backend/internal/domains/booking/model"
	talentmodel "talenthub-backend/internal/domains/talent/model"
)

// =====================================================
// IN-MEMORY FAKES
// =====================================================

type fakeTalentRepo struct {
	talents   map[uuid.UUID]*talentmodel.Talent
	schedules map[uuid.UUID]*talentmodel.Schedule
}

func (f *fakeTalentRepo) Create(ctx context.Context, t *talentmodel.Talent, s []*talentmodel.Schedule) error {
	return nil
}

func (f *fakeTalentRepo) FindByID(ctx context.Context, id uuid.UUID) (*talentmodel.Talent, error) {
	t, ok := f.talents[id]
	if !ok {
		return nil, talentmodel.ErrTalentNotFound
	}
	return t, nil
}

func (f *fakeTalentRepo) List(ctx context.Context, filters talentmodel.ListTalentsRequest) ([]*talentmodel.Talent, error) {
	return nil, nil
}

func (f *fakeTalentRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*talentmodel.Talent, error) {
	return nil, nil
}

func (f *fakeTalentRepo) Update(ctx context.Context, t *talentmodel.Talent) error { return nil }

func (f *fakeTalentRepo) DeleteCascade(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeTalentRepo) AddSchedule(ctx context.Context, s *talentmodel.Schedule) error { return nil }

func (f *fakeTalentRepo) ListSchedules(ctx context.Context, talentID uuid.UUID) ([]*talentmodel.Schedule, error) {
	return nil, nil
}

func (f *fakeTalentRepo) FindScheduleByID(ctx context.Context, id uuid.UUID) (*talentmodel.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, talentmodel.ErrScheduleNotFound
	}
	return s, nil
}

// fakeBookingRepo keeps bookings in memory and mirrors the admission
// semantics of the real repository: capacity and duplicate checks
// against the stored rows, then a full recount of the schedule.
type fakeBookingRepo struct {
	talentRepo *fakeTalentRepo
	bookings   map[uuid.UUID]*model.Booking
	users      map[uuid.UUID]fakeUser
}

type fakeUser struct {
	name  string
	email string
}

func (f *fakeBookingRepo) AdmitAndCreate(ctx context.Context, booking *model.Booking, maxParticipants int) error {
	current := 0
	for _, b := range f.bookings {
		if b.ScheduleID == booking.ScheduleID && b.Status != model.StatusCancelled {
			current++
		}
	}
	if current >= maxParticipants {
		return model.ErrScheduleFull
	}

	// Cancelled rows also block re-booking
	for _, b := range f.bookings {
		if b.UserID == booking.UserID && b.ScheduleID == booking.ScheduleID {
			return model.ErrDuplicateBooking
		}
	}

	stored := *booking
	f.bookings[booking.ID] = &stored
	return f.Recompute(ctx, booking.ScheduleID)
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, model.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, model.ErrBookingNotFound
	}
	return f.detail(b), nil
}

func (f *fakeBookingRepo) detail(b *model.Booking) *model.BookingDetail {
	talent := f.talentRepo.talents[b.TalentID]
	schedule := f.talentRepo.schedules[b.ScheduleID]
	owner := f.users[talent.UserID]
	requester := f.users[b.UserID]

	return &model.BookingDetail{
		Booking:           *b,
		TalentTitle:       talent.Title,
		TalentDescription: talent.Description,
		TalentCategory:    talent.Category,
		TalentLocation:    talent.Location,
		TalentIsOnline:    talent.IsOnline,
		TalentOwnerID:     talent.UserID,
		TalentOwnerName:   owner.name,
		TalentOwnerEmail:  owner.email,
		ScheduleDate:      schedule.Date,
		ScheduleStartTime: schedule.StartTime,
		ScheduleEndTime:   schedule.EndTime,
		RequesterName:     requester.name,
		RequesterEmail:    requester.email,
	}
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	b, ok := f.bookings[id]
	if !ok {
		return model.ErrBookingNotFound
	}
	b.Status = model.StatusCancelled
	b.UpdatedAt = time.Now()
	return f.Recompute(ctx, b.ScheduleID)
}

func (f *fakeBookingRepo) ListByRequester(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error) {
	var details []*model.BookingDetail
	for _, b := range f.bookings {
		if b.UserID == userID {
			details = append(details, f.detail(b))
		}
	}
	return details, nil
}

func (f *fakeBookingRepo) ListByTalentOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.BookingDetail, error) {
	var details []*model.BookingDetail
	for _, b := range f.bookings {
		if f.talentRepo.talents[b.TalentID].UserID == ownerID {
			details = append(details, f.detail(b))
		}
	}
	return details, nil
}

func (f *fakeBookingRepo) ListConfirmedByScheduleDate(ctx context.Context, date time.Time) ([]*model.BookingDetail, error) {
	var details []*model.BookingDetail
	for _, b := range f.bookings {
		schedule := f.talentRepo.schedules[b.ScheduleID]
		if b.Status == model.StatusConfirmed && schedule.Date.Equal(date) {
			details = append(details, f.detail(b))
		}
	}
	return details, nil
}

func (f *fakeBookingRepo) Recompute(ctx context.Context, scheduleID uuid.UUID) error {
	count := 0
	for _, b := range f.bookings {
		if b.ScheduleID == scheduleID && b.Status != model.StatusCancelled {
			count++
		}
	}
	if s, ok := f.talentRepo.schedules[scheduleID]; ok {
		s.CurrentParticipants = count
	}
	return nil
}

type emitted struct {
	userID uuid.UUID
	ntype  string
	title  string
}

type fakeEmitter struct {
	sent []emitted
}

func (f *fakeEmitter) Emit(ctx context.Context, userID uuid.UUID, ntype, title, message string, relatedTalent, relatedBooking *uuid.UUID) error {
	f.sent = append(f.sent, emitted{userID: userID, ntype: ntype, title: title})
	return nil
}

// =====================================================
// FIXTURE
// =====================================================

type bookingFixture struct {
	svc        BookingService
	repo       *fakeBookingRepo
	talentRepo *fakeTalentRepo
	emitter    *fakeEmitter

	ownerID  uuid.UUID
	talent   *talentmodel.Talent
	schedule *talentmodel.Schedule
}

func newBookingFixture(t *testing.T, maxParticipants int) *bookingFixture {
	t.Helper()

	ownerID := uuid.New()
	talent := &talentmodel.Talent{
		ID:              uuid.New(),
		UserID:          ownerID,
		Title:           "Guitar for beginners",
		Category:        talentmodel.CategoryMusic,
		IsOnline:        true,
		MaxParticipants: maxParticipants,
	}
	schedule := &talentmodel.Schedule{
		ID:        uuid.New(),
		TalentID:  talent.ID,
		Date:      time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		StartTime: "10:00",
		EndTime:   "11:00",
	}

	talentRepo := &fakeTalentRepo{
		talents:   map[uuid.UUID]*talentmodel.Talent{talent.ID: talent},
		schedules: map[uuid.UUID]*talentmodel.Schedule{schedule.ID: schedule},
	}
	repo := &fakeBookingRepo{
		talentRepo: talentRepo,
		bookings:   map[uuid.UUID]*model.Booking{},
		users: map[uuid.UUID]fakeUser{
			ownerID: {name: "Owner", email: "owner@example.com"},
		},
	}
	emitter := &fakeEmitter{}

	return &bookingFixture{
		svc:        NewBookingService(repo, talentRepo, emitter),
		repo:       repo,
		talentRepo: talentRepo,
		emitter:    emitter,
		ownerID:    ownerID,
		talent:     talent,
		schedule:   schedule,
	}
}

func (fx *bookingFixture) addUser(name string) uuid.UUID {
	id := uuid.New()
	fx.repo.users[id] = fakeUser{name: name, email: name + "@example.com"}
	return id
}

func (fx *bookingFixture) request() model.CreateBookingRequest {
	return model.CreateBookingRequest{
		TalentID:   fx.talent.ID.String(),
		ScheduleID: fx.schedule.ID.String(),
	}
}

// =====================================================
// CREATE
// =====================================================

func TestCreateBooking(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, detail.Status)
	assert.Equal(t, requester, detail.UserID)
	assert.Equal(t, "Guitar for beginners", detail.TalentTitle)
	assert.Equal(t, 1, fx.schedule.CurrentParticipants)

	// Both sides get notified: owner first, then the requester
	require.Len(t, fx.emitter.sent, 2)
	assert.Equal(t, fx.ownerID, fx.emitter.sent[0].userID)
	assert.Equal(t, "booking_created", fx.emitter.sent[0].ntype)
	assert.Equal(t, requester, fx.emitter.sent[1].userID)
	assert.Equal(t, "booking_confirmed", fx.emitter.sent[1].ntype)
}

func TestCreateBookingValidation(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, uuid.New(), model.CreateBookingRequest{
		TalentID:   "not-a-uuid",
		ScheduleID: fx.schedule.ID.String(),
	})
	assert.Error(t, err)
}

func TestCreateBookingTalentNotFound(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()

	req := fx.request()
	req.TalentID = uuid.New().String()

	_, err := fx.svc.Create(ctx, fx.addUser("alice"), req)
	assert.ErrorIs(t, err, model.ErrTalentNotFound)
}

func TestCreateBookingScheduleNotFound(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()

	req := fx.request()
	req.ScheduleID = uuid.New().String()

	_, err := fx.svc.Create(ctx, fx.addUser("alice"), req)
	assert.ErrorIs(t, err, model.ErrScheduleNotFound)
}

func TestCreateBookingScheduleFromAnotherTalent(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()

	// Schedule belonging to a different talent
	other := &talentmodel.Talent{ID: uuid.New(), UserID: uuid.New(), MaxParticipants: 1}
	otherSchedule := &talentmodel.Schedule{ID: uuid.New(), TalentID: other.ID}
	fx.talentRepo.talents[other.ID] = other
	fx.talentRepo.schedules[otherSchedule.ID] = otherSchedule

	req := fx.request()
	req.ScheduleID = otherSchedule.ID.String()

	_, err := fx.svc.Create(ctx, fx.addUser("alice"), req)
	assert.ErrorIs(t, err, model.ErrInvalidSchedule)
}

func TestCreateBookingSelfBooking(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.ownerID, fx.request())
	assert.ErrorIs(t, err, model.ErrSelfBooking)
}

func TestCreateBookingDuplicate(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	_, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)

	_, err = fx.svc.Create(ctx, requester, fx.request())
	assert.ErrorIs(t, err, model.ErrDuplicateBooking)
}

func TestCreateBookingNoRebookingAfterCancel(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)
	require.NoError(t, fx.svc.Cancel(ctx, requester, detail.ID))

	// The cancelled row still blocks a second attempt on the same slot
	_, err = fx.svc.Create(ctx, requester, fx.request())
	assert.ErrorIs(t, err, model.ErrDuplicateBooking)
}

// TestCapacityLifecycle walks a full slot through fill, reject,
// free-up and re-fill, checking the derived counter at each step.
func TestCapacityLifecycle(t *testing.T) {
	fx := newBookingFixture(t, 2)
	ctx := context.Background()

	alice := fx.addUser("alice")
	bob := fx.addUser("bob")
	carol := fx.addUser("carol")

	aliceBooking, err := fx.svc.Create(ctx, alice, fx.request())
	require.NoError(t, err)
	assert.Equal(t, 1, fx.schedule.CurrentParticipants)

	_, err = fx.svc.Create(ctx, bob, fx.request())
	require.NoError(t, err)
	assert.Equal(t, 2, fx.schedule.CurrentParticipants)

	// Slot is full
	_, err = fx.svc.Create(ctx, carol, fx.request())
	assert.ErrorIs(t, err, model.ErrScheduleFull)

	// Cancelling frees a seat
	require.NoError(t, fx.svc.Cancel(ctx, alice, aliceBooking.ID))
	assert.Equal(t, 1, fx.schedule.CurrentParticipants)

	_, err = fx.svc.Create(ctx, carol, fx.request())
	require.NoError(t, err)
	assert.Equal(t, 2, fx.schedule.CurrentParticipants)
}

// =====================================================
// READ
// =====================================================

func TestGetBookingVisibility(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)

	// Requester and talent owner can see it
	_, err = fx.svc.Get(ctx, requester, detail.ID)
	assert.NoError(t, err)
	_, err = fx.svc.Get(ctx, fx.ownerID, detail.ID)
	assert.NoError(t, err)

	// A third party cannot
	_, err = fx.svc.Get(ctx, uuid.New(), detail.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestListMyBookingsEmpty(t *testing.T) {
	fx := newBookingFixture(t, 3)

	bookings, err := fx.svc.ListMyBookings(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

// =====================================================
// CANCEL / UPDATE
// =====================================================

func TestCancelBooking(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)
	fx.emitter.sent = nil

	require.NoError(t, fx.svc.Cancel(ctx, requester, detail.ID))

	stored, err := fx.repo.FindByID(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)
	assert.Equal(t, 0, fx.schedule.CurrentParticipants)

	// Owner is told about the cancellation
	require.Len(t, fx.emitter.sent, 1)
	assert.Equal(t, fx.ownerID, fx.emitter.sent[0].userID)
	assert.Equal(t, "booking_cancelled", fx.emitter.sent[0].ntype)
}

func TestCancelBookingNotRequester(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)

	// Even the talent owner cannot cancel on the requester's behalf
	err = fx.svc.Cancel(ctx, fx.ownerID, detail.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestCancelBookingTwice(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)
	require.NoError(t, fx.svc.Cancel(ctx, requester, detail.ID))

	err = fx.svc.Cancel(ctx, requester, detail.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestUpdateBookingToCancelled(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)

	updated, err := fx.svc.Update(ctx, requester, detail.ID, model.UpdateBookingRequest{
		Status: model.StatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, updated.Status)
	assert.Equal(t, 0, fx.schedule.CurrentParticipants)
}

func TestUpdateBookingIllegalTransitions(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)

	// confirmed -> confirmed and confirmed -> pending are both illegal
	for _, status := range []string{model.StatusConfirmed, model.StatusPending} {
		_, err = fx.svc.Update(ctx, requester, detail.ID, model.UpdateBookingRequest{Status: status})
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
	}

	// cancelled is terminal
	require.NoError(t, fx.svc.Cancel(ctx, requester, detail.ID))
	_, err = fx.svc.Update(ctx, requester, detail.ID, model.UpdateBookingRequest{Status: model.StatusCancelled})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

// =====================================================
// EXPORT
// =====================================================

func TestExportReceivedBookings(t *testing.T) {
	fx := newBookingFixture(t, 3)
	ctx := context.Background()
	requester := fx.addUser("alice")

	detail, err := fx.svc.Create(ctx, requester, fx.request())
	require.NoError(t, err)

	f, err := fx.svc.ExportReceivedBookings(ctx, fx.ownerID)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Received bookings"
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Booking ID", header)

	id, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, detail.ID.String(), id)

	title, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Guitar for beginners", title)
}
