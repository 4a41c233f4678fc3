package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"talenthub-backend/internal/domains/review/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, booking_id, talent_id, reviewer_id, provider_id,
			rating, comment, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.BookingID,
		review.TalentID,
		review.ReviewerID,
		review.ProviderID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		// Unique constraint on booking_id
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// =====================================================
// READ
// =====================================================

const reviewColumns = `id, booking_id, talent_id, reviewer_id, provider_id, rating, comment, created_at, updated_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	review := &model.Review{}
	err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.TalentID,
		&review.ReviewerID,
		&review.ProviderID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *postgresReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (r *postgresReviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, review.ID, review.Rating, review.Comment)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

// =====================================================
// LISTS
// =====================================================

// The talent join is LEFT: reviews outlive a cascade-deleted talent,
// in which case the title resolves to NULL.
const detailQuery = `
	SELECT r.id, r.booking_id, r.talent_id, r.reviewer_id, r.provider_id,
		r.rating, r.comment, r.created_at, r.updated_at,
		u.name, u.profile_image, t.title, p.name
	FROM reviews r
	JOIN users u ON u.id = r.reviewer_id
	JOIN users p ON p.id = r.provider_id
	LEFT JOIN talents t ON t.id = r.talent_id
`

func (r *postgresReviewRepository) ListByTalent(ctx context.Context, talentID uuid.UUID) ([]*model.ReviewDetail, error) {
	query := detailQuery + ` WHERE r.talent_id = $1 ORDER BY r.created_at DESC`
	return r.queryDetails(ctx, query, talentID)
}

func (r *postgresReviewRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*model.ReviewDetail, error) {
	query := detailQuery + ` WHERE r.provider_id = $1 ORDER BY r.created_at DESC`
	return r.queryDetails(ctx, query, providerID)
}

func (r *postgresReviewRepository) ListByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]*model.ReviewDetail, error) {
	query := detailQuery + ` WHERE r.reviewer_id = $1 ORDER BY r.created_at DESC`
	return r.queryDetails(ctx, query, reviewerID)
}

func (r *postgresReviewRepository) queryDetails(ctx context.Context, query string, args ...interface{}) ([]*model.ReviewDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var details []*model.ReviewDetail
	for rows.Next() {
		d := &model.ReviewDetail{}
		err := rows.Scan(
			&d.ID,
			&d.BookingID,
			&d.TalentID,
			&d.ReviewerID,
			&d.ProviderID,
			&d.Rating,
			&d.Comment,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.ReviewerName,
			&d.ReviewerProfileImage,
			&d.TalentTitle,
			&d.ProviderName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		details = append(details, d)
	}

	return details, rows.Err()
}
