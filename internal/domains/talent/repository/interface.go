package repository

import (
	"context"

	"github.com/google/uuid"

	"talenthub-backend/internal/domains/talent/model"
)

// TalentRepository persists talents and their schedules
type TalentRepository interface {
	Create(ctx context.Context, talent *model.Talent, schedules []*model.Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Talent, error)
	List(ctx context.Context, filters model.ListTalentsRequest) ([]*model.Talent, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Talent, error)
	Update(ctx context.Context, talent *model.Talent) error

	// DeleteCascade removes the talent with its schedules and bookings
	// in one transaction, returning the ids of users who held a
	// non-cancelled booking so the caller can notify them.
	DeleteCascade(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

	AddSchedule(ctx context.Context, schedule *model.Schedule) error
	ListSchedules(ctx context.Context, talentID uuid.UUID) ([]*model.Schedule, error)
	FindScheduleByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
}
