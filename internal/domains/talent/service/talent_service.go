package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"talenthub-backend/internal/domains/notification/model"
	notifservice "talenthub-backend/internal/domains/notification/service"
	talentmodel "talenthub-backend/internal/domains/talent/model"
	"talenthub-backend/internal/domains/talent/repository"
	"talenthub-backend/pkg/logger"
)

// ImageStorage is the slice of object storage the talent flow needs.
type ImageStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// TalentService covers the catalog surface: talent CRUD and schedules
type TalentService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req talentmodel.CreateTalentRequest) (*talentmodel.TalentDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*talentmodel.TalentDetail, error)
	List(ctx context.Context, filters talentmodel.ListTalentsRequest) ([]*talentmodel.Talent, error)
	MyTalents(ctx context.Context, ownerID uuid.UUID) ([]*talentmodel.Talent, error)
	Update(ctx context.Context, callerID, talentID uuid.UUID, req talentmodel.UpdateTalentRequest) (*talentmodel.Talent, error)
	Delete(ctx context.Context, callerID, talentID uuid.UUID) error
	UploadImage(ctx context.Context, callerID, talentID uuid.UUID, reader io.Reader, size int64, contentType string) (*talentmodel.Talent, error)
	AddSchedule(ctx context.Context, callerID, talentID uuid.UUID, req talentmodel.AddScheduleRequest) (*talentmodel.Schedule, error)
	ListSchedules(ctx context.Context, talentID uuid.UUID) ([]*talentmodel.Schedule, error)
}

type talentService struct {
	repo     repository.TalentRepository
	notifier notifservice.Emitter
	storage  ImageStorage
}

func NewTalentService(
	repo repository.TalentRepository,
	notifier notifservice.Emitter,
	storage ImageStorage,
) TalentService {
	return &talentService{
		repo:     repo,
		notifier: notifier,
		storage:  storage,
	}
}

// ========================================
// CREATE
// ========================================

func (s *talentService) Create(ctx context.Context, ownerID uuid.UUID, req talentmodel.CreateTalentRequest) (*talentmodel.TalentDetail, error) {
	// 1. VALIDATE INPUT (includes the location/is_online rule and
	//    at-least-one-schedule rule)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUILD ENTITIES
	now := time.Now()
	talent := &talentmodel.Talent{
		ID:              uuid.New(),
		UserID:          ownerID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Location:        req.Location,
		IsOnline:        req.IsOnline,
		MaxParticipants: req.MaxParticipants,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	schedules := make([]*talentmodel.Schedule, 0, len(req.Schedules))
	for _, in := range req.Schedules {
		schedule, err := buildSchedule(talent.ID, in)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	// 3. PERSIST (talent + schedules in one transaction)
	if err := s.repo.Create(ctx, talent, schedules); err != nil {
		return nil, err
	}

	return &talentmodel.TalentDetail{Talent: *talent, Schedules: schedules}, nil
}

func buildSchedule(talentID uuid.UUID, in talentmodel.ScheduleInput) (*talentmodel.Schedule, error) {
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule date: %w", err)
	}

	return &talentmodel.Schedule{
		ID:                  uuid.New(),
		TalentID:            talentID,
		Date:                date,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		CurrentParticipants: 0,
		CreatedAt:           time.Now(),
	}, nil
}

// ========================================
// READ
// ========================================

func (s *talentService) Get(ctx context.Context, id uuid.UUID) (*talentmodel.TalentDetail, error) {
	talent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	schedules, err := s.repo.ListSchedules(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedules == nil {
		schedules = []*talentmodel.Schedule{}
	}

	return &talentmodel.TalentDetail{Talent: *talent, Schedules: schedules}, nil
}

func (s *talentService) List(ctx context.Context, filters talentmodel.ListTalentsRequest) ([]*talentmodel.Talent, error) {
	talents, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if talents == nil {
		talents = []*talentmodel.Talent{}
	}
	return talents, nil
}

func (s *talentService) MyTalents(ctx context.Context, ownerID uuid.UUID) ([]*talentmodel.Talent, error) {
	talents, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if talents == nil {
		talents = []*talentmodel.Talent{}
	}
	return talents, nil
}

// ========================================
// UPDATE
// ========================================

func (s *talentService) Update(ctx context.Context, callerID, talentID uuid.UUID, req talentmodel.UpdateTalentRequest) (*talentmodel.Talent, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. RESOLVE AND CHECK OWNERSHIP
	talent, err := s.repo.FindByID(ctx, talentID)
	if err != nil {
		return nil, err
	}
	if talent.UserID != callerID {
		return nil, talentmodel.ErrForbidden
	}

	// 3. APPLY PARTIAL UPDATE
	if req.Title != nil {
		talent.Title = *req.Title
	}
	if req.Description != nil {
		talent.Description = *req.Description
	}
	if req.Category != nil {
		talent.Category = *req.Category
	}
	if req.Location != nil {
		talent.Location = req.Location
	}
	if req.IsOnline != nil {
		talent.IsOnline = *req.IsOnline
	}
	if req.MaxParticipants != nil {
		talent.MaxParticipants = *req.MaxParticipants
	}

	// 4. RE-CHECK THE LOCATION RULE ON THE MERGED STATE
	if !talent.IsOnline && (talent.Location == nil || *talent.Location == "") {
		return nil, talentmodel.ErrLocationRequired
	}

	// 5. PERSIST
	if err := s.repo.Update(ctx, talent); err != nil {
		return nil, err
	}

	return talent, nil
}

func (s *talentService) UploadImage(ctx context.Context, callerID, talentID uuid.UUID, reader io.Reader, size int64, contentType string) (*talentmodel.Talent, error) {
	// 1. RESOLVE AND CHECK OWNERSHIP
	talent, err := s.repo.FindByID(ctx, talentID)
	if err != nil {
		return nil, err
	}
	if talent.UserID != callerID {
		return nil, talentmodel.ErrForbidden
	}

	// 2. REPLACE ANY PREVIOUS IMAGE
	prefix := fmt.Sprintf("talents/%s/", talentID)
	if err := s.storage.DeleteByPrefix(ctx, prefix); err != nil {
		logger.Warn("failed to clean old talent images", map[string]interface{}{
			"talent_id": talentID.String(), "error": err.Error(),
		})
	}

	// 3. UPLOAD
	key := fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
	url, err := s.storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload talent image: %w", err)
	}

	// 4. PERSIST URL
	talent.Image = &url
	if err := s.repo.Update(ctx, talent); err != nil {
		return nil, err
	}

	return talent, nil
}

// ========================================
// DELETE (CASCADE + FAN-OUT)
// ========================================

func (s *talentService) Delete(ctx context.Context, callerID, talentID uuid.UUID) error {
	// 1. RESOLVE AND CHECK OWNERSHIP
	talent, err := s.repo.FindByID(ctx, talentID)
	if err != nil {
		return err
	}
	if talent.UserID != callerID {
		return talentmodel.ErrForbidden
	}

	// 2. CASCADE DELETE (schedules + bookings + talent, one transaction)
	affected, err := s.repo.DeleteCascade(ctx, talentID)
	if err != nil {
		return err
	}

	// 3. NOTIFY AFFECTED BOOKERS (best effort, outside the transaction)
	message := fmt.Sprintf("The talent %q has been removed by its owner. Your booking is no longer active.", talent.Title)
	for _, userID := range affected {
		if err := s.notifier.Emit(ctx, userID, model.TypeTalentDeleted, "Talent removed", message, nil, nil); err != nil {
			logger.Warn("failed to emit talent_deleted notification", map[string]interface{}{
				"user_id": userID.String(), "talent_id": talentID.String(), "error": err.Error(),
			})
		}
	}

	// 4. CLEAN STORED IMAGES (best effort)
	if err := s.storage.DeleteByPrefix(ctx, fmt.Sprintf("talents/%s/", talentID)); err != nil {
		logger.Warn("failed to clean talent images", map[string]interface{}{
			"talent_id": talentID.String(), "error": err.Error(),
		})
	}

	return nil
}

// ========================================
// SCHEDULES
// ========================================

func (s *talentService) AddSchedule(ctx context.Context, callerID, talentID uuid.UUID, req talentmodel.AddScheduleRequest) (*talentmodel.Schedule, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. RESOLVE AND CHECK OWNERSHIP
	talent, err := s.repo.FindByID(ctx, talentID)
	if err != nil {
		return nil, err
	}
	if talent.UserID != callerID {
		return nil, talentmodel.ErrForbidden
	}

	// 3. PERSIST
	schedule, err := buildSchedule(talentID, req.ScheduleInput)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *talentService) ListSchedules(ctx context.Context, talentID uuid.UUID) ([]*talentmodel.Schedule, error) {
	// Listing a missing talent is a 404, matching the detail endpoint
	if _, err := s.repo.FindByID(ctx, talentID); err != nil {
		return nil, err
	}

	schedules, err := s.repo.ListSchedules(ctx, talentID)
	if err != nil {
		return nil, err
	}
	if schedules == nil {
		schedules = []*talentmodel.Schedule{}
	}
	return schedules, nil
}
