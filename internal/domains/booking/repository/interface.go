package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"talenthub-backend/internal/domains/booking/model"
)

// BookingRepository persists bookings and owns the capacity ledger
// writes on schedules.
type BookingRepository interface {
	// AdmitAndCreate inserts a confirmed booking after re-checking
	// capacity and duplication under a row lock on the schedule, then
	// recomputes the participant count. The whole admission runs in
	// one transaction, serializing concurrent creations per slot.
	AdmitAndCreate(ctx context.Context, booking *model.Booking, maxParticipants int) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error)

	// Cancel flips the status to cancelled and recomputes the ledger
	// in one transaction. The booking row is never deleted.
	Cancel(ctx context.Context, id uuid.UUID) error

	ListByRequester(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error)
	ListByTalentOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.BookingDetail, error)

	// ListConfirmedByScheduleDate returns every confirmed booking whose
	// schedule falls on the given calendar date. Used by the reminder job.
	ListConfirmedByScheduleDate(ctx context.Context, date time.Time) ([]*model.BookingDetail, error)

	// Recompute rewrites current_participants from the count of
	// non-cancelled bookings. Idempotent.
	Recompute(ctx context.Context, scheduleID uuid.UUID) error
}
