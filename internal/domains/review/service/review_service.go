package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookingmodel "talenthub-backend/internal/domains/booking/model"
	bookingrepo "talenthub-backend/internal/domains/booking/repository"
	notifmodel "talenthub-backend/internal/domains/notification/model"
	notifservice "talenthub-backend/internal/domains/notification/service"
	"talenthub-backend/internal/domains/review/model"
	"talenthub-backend/internal/domains/review/repository"
	"talenthub-backend/pkg/logger"
)

// ReviewService gates review creation on booking state and ownership
type ReviewService interface {
	Create(ctx context.Context, reviewerID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error)
	CanReview(ctx context.Context, callerID, bookingID uuid.UUID) (*model.CanReviewResult, error)
	Update(ctx context.Context, callerID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, callerID, reviewID uuid.UUID) error
	ListByTalent(ctx context.Context, talentID uuid.UUID) (*model.ReviewListResult, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) (*model.ReviewListResult, error)
	MyReviews(ctx context.Context, reviewerID uuid.UUID) ([]*model.ReviewDetail, error)
}

type reviewService struct {
	repo        repository.ReviewRepository
	bookingRepo bookingrepo.BookingRepository
	notifier    notifservice.Emitter
}

func NewReviewService(
	repo repository.ReviewRepository,
	bookingRepo bookingrepo.BookingRepository,
	notifier notifservice.Emitter,
) ReviewService {
	return &reviewService{
		repo:        repo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
	}
}

// ========================================
// CREATE
// ========================================

func (s *reviewService) Create(ctx context.Context, reviewerID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error) {
	// 1. VALIDATE INPUT (rating 1-5, comment 1-500; rejected, never clamped)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	bookingID, _ := uuid.Parse(req.BookingID)

	// 2. RESOLVE BOOKING
	booking, err := s.bookingRepo.FindDetailByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingmodel.ErrBookingNotFound) {
			return nil, model.ErrBookingNotFound
		}
		return nil, err
	}

	// 3. ONLY THE REQUESTER MAY REVIEW
	if booking.UserID != reviewerID {
		return nil, model.ErrForbidden
	}

	// 4. ONLY CONFIRMED BOOKINGS
	// Evaluated at review time; a still-upcoming confirmed booking
	// is reviewable.
	if booking.Status != bookingmodel.StatusConfirmed {
		return nil, model.ErrNotConfirmed
	}

	// 5. ONE REVIEW PER BOOKING
	if _, err := s.repo.FindByBookingID(ctx, bookingID); err == nil {
		return nil, model.ErrDuplicateReview
	} else if !errors.Is(err, model.ErrReviewNotFound) {
		return nil, err
	}

	// 6. PERSIST
	// The provider is the talent's owner at this moment; the unique
	// index on booking_id backstops the check above.
	now := time.Now()
	review := &model.Review{
		ID:         uuid.New(),
		BookingID:  bookingID,
		TalentID:   booking.TalentID,
		ReviewerID: reviewerID,
		ProviderID: booking.TalentOwnerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	// 7. NOTIFY THE PROVIDER (best effort)
	msg := fmt.Sprintf("You received a %d-star review for %q.", req.Rating, booking.TalentTitle)
	if err := s.notifier.Emit(ctx, booking.TalentOwnerID, notifmodel.TypeReviewReceived,
		"New review", msg, &booking.TalentID, nil); err != nil {
		logger.Warn("failed to emit review_received notification", map[string]interface{}{
			"review_id": review.ID.String(), "error": err.Error(),
		})
	}

	return review, nil
}

// ========================================
// ELIGIBILITY
// ========================================

// CanReview walks the same chain as Create, read-only. The
// already-reviewed answer wins over the status check so the UI can
// show the existing review even for a cancelled booking.
func (s *reviewService) CanReview(ctx context.Context, callerID, bookingID uuid.UUID) (*model.CanReviewResult, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingmodel.ErrBookingNotFound) {
			return nil, model.ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != callerID {
		return nil, model.ErrForbidden
	}

	existing, err := s.repo.FindByBookingID(ctx, bookingID)
	if err == nil {
		return &model.CanReviewResult{
			CanReview: false,
			Reason:    model.ReasonAlreadyReviewed,
			Review:    existing,
		}, nil
	}
	if !errors.Is(err, model.ErrReviewNotFound) {
		return nil, err
	}

	if booking.Status != bookingmodel.StatusConfirmed {
		return &model.CanReviewResult{
			CanReview: false,
			Reason:    model.ReasonNotConfirmed,
		}, nil
	}

	return &model.CanReviewResult{CanReview: true}, nil
}

// ========================================
// UPDATE / DELETE
// ========================================

func (s *reviewService) Update(ctx context.Context, callerID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. RESOLVE AND CHECK OWNERSHIP
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != callerID {
		return nil, model.ErrNotOwner
	}

	// 3. PERSIST
	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, callerID, reviewID uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ReviewerID != callerID {
		return model.ErrNotOwner
	}

	return s.repo.Delete(ctx, reviewID)
}

// ========================================
// LISTS
// ========================================

func (s *reviewService) ListByTalent(ctx context.Context, talentID uuid.UUID) (*model.ReviewListResult, error) {
	reviews, err := s.repo.ListByTalent(ctx, talentID)
	if err != nil {
		return nil, err
	}
	return buildListResult(reviews), nil
}

func (s *reviewService) ListByProvider(ctx context.Context, providerID uuid.UUID) (*model.ReviewListResult, error) {
	reviews, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return buildListResult(reviews), nil
}

func (s *reviewService) MyReviews(ctx context.Context, reviewerID uuid.UUID) ([]*model.ReviewDetail, error) {
	reviews, err := s.repo.ListByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*model.ReviewDetail{}
	}
	return reviews, nil
}

func buildListResult(reviews []*model.ReviewDetail) *model.ReviewListResult {
	if reviews == nil {
		reviews = []*model.ReviewDetail{}
	}

	// Average to one decimal place, "0.0" when there are no reviews
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}

	average := decimal.Zero
	if len(reviews) > 0 {
		average = sum.Div(decimal.NewFromInt(int64(len(reviews))))
	}

	return &model.ReviewListResult{
		Reviews:       reviews,
		Count:         len(reviews),
		AverageRating: average.StringFixed(1),
	}
}
