package repository

import (
	"context"

	"github.com/google/uuid"

	"talenthub-backend/internal/domains/review/model"
)

// ReviewRepository persists reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTalent(ctx context.Context, talentID uuid.UUID) ([]*model.ReviewDetail, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*model.ReviewDetail, error)
	ListByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]*model.ReviewDetail, error)
}
