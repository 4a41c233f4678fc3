package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"talenthub-backend/internal/domains/booking/model"
	"talenthub-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresBookingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &postgresBookingRepository{pool: pool}
}

// recomputeQuery rewrites the derived counter from the authoritative
// booking rows. Running it is always safe: it converges to the true
// count no matter what state the counter was in.
const recomputeQuery = `
	UPDATE schedules
	SET current_participants = (
		SELECT COUNT(*) FROM bookings
		WHERE schedule_id = $1 AND status <> 'cancelled'
	)
	WHERE id = $1
`

// =====================================================
// ADMISSION + CREATE
// =====================================================

func (r *postgresBookingRepository) AdmitAndCreate(ctx context.Context, booking *model.Booking, maxParticipants int) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: Lock the schedule row. Concurrent admissions against
		// the same slot queue up here, so the capacity check below
		// cannot be raced past.
		var current int
		err := tx.QueryRow(ctx, `
			SELECT current_participants FROM schedules
			WHERE id = $1
			FOR UPDATE
		`, booking.ScheduleID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrScheduleNotFound
			}
			return fmt.Errorf("failed to lock schedule: %w", err)
		}

		// Step 2: Capacity check under the lock
		if current >= maxParticipants {
			return model.ErrScheduleFull
		}

		// Step 3: Duplicate check. Cancelled rows also block: the
		// unique constraint on (user_id, schedule_id) spans all
		// statuses, so re-booking a cancelled slot is not possible.
		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM bookings
				WHERE user_id = $1 AND schedule_id = $2
			)
		`, booking.UserID, booking.ScheduleID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check duplicate booking: %w", err)
		}
		if exists {
			return model.ErrDuplicateBooking
		}

		// Step 4: Insert confirmed
		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (
				id, user_id, talent_id, schedule_id, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			booking.ID,
			booking.UserID,
			booking.TalentID,
			booking.ScheduleID,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if err != nil {
			// Unique constraint backstop for the duplicate check
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrDuplicateBooking
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// Step 5: Recompute the ledger inside the same transaction
		if _, err := tx.Exec(ctx, recomputeQuery, booking.ScheduleID); err != nil {
			return fmt.Errorf("failed to recompute participants: %w", err)
		}

		return nil
	})
}

// =====================================================
// READ
// =====================================================

func (r *postgresBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, user_id, talent_id, schedule_id, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	b := &model.Booking{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.UserID,
		&b.TalentID,
		&b.ScheduleID,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return b, nil
}

const detailColumns = `
	b.id, b.user_id, b.talent_id, b.schedule_id, b.status, b.created_at, b.updated_at,
	t.title, t.description, t.category, t.location, t.is_online,
	t.user_id, o.name, o.email,
	s.date, s.start_time, s.end_time,
	u.name, u.email
`

const detailJoins = `
	FROM bookings b
	JOIN talents t ON t.id = b.talent_id
	JOIN users o ON o.id = t.user_id
	JOIN schedules s ON s.id = b.schedule_id
	JOIN users u ON u.id = b.user_id
`

func scanBookingDetail(row pgx.Row) (*model.BookingDetail, error) {
	d := &model.BookingDetail{}
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.TalentID,
		&d.ScheduleID,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.TalentTitle,
		&d.TalentDescription,
		&d.TalentCategory,
		&d.TalentLocation,
		&d.TalentIsOnline,
		&d.TalentOwnerID,
		&d.TalentOwnerName,
		&d.TalentOwnerEmail,
		&d.ScheduleDate,
		&d.ScheduleStartTime,
		&d.ScheduleEndTime,
		&d.RequesterName,
		&d.RequesterEmail,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *postgresBookingRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + ` WHERE b.id = $1`

	detail, err := scanBookingDetail(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking detail: %w", err)
	}

	return detail, nil
}

func (r *postgresBookingRepository) ListByRequester(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`

	return r.queryDetails(ctx, query, userID)
}

func (r *postgresBookingRepository) ListByTalentOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.BookingDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE t.user_id = $1
		ORDER BY b.created_at DESC`

	return r.queryDetails(ctx, query, ownerID)
}

func (r *postgresBookingRepository) ListConfirmedByScheduleDate(ctx context.Context, date time.Time) ([]*model.BookingDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE s.date = $1 AND b.status = 'confirmed'
		ORDER BY s.start_time, b.created_at`

	return r.queryDetails(ctx, query, date)
}

func (r *postgresBookingRepository) queryDetails(ctx context.Context, query string, args ...interface{}) ([]*model.BookingDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var details []*model.BookingDetail
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		details = append(details, detail)
	}

	return details, rows.Err()
}

// =====================================================
// CANCEL
// =====================================================

func (r *postgresBookingRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var scheduleID uuid.UUID
		err := tx.QueryRow(ctx, `
			UPDATE bookings
			SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1
			RETURNING schedule_id
		`, id).Scan(&scheduleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrBookingNotFound
			}
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		if _, err := tx.Exec(ctx, recomputeQuery, scheduleID); err != nil {
			return fmt.Errorf("failed to recompute participants: %w", err)
		}

		return nil
	})
}

// =====================================================
// CAPACITY LEDGER
// =====================================================

func (r *postgresBookingRepository) Recompute(ctx context.Context, scheduleID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, recomputeQuery, scheduleID); err != nil {
		return fmt.Errorf("failed to recompute participants: %w", err)
	}
	return nil
}
