package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"talenthub-backend/internal/domains/talent/model"
	"talenthub-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresTalentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTalentRepository(pool *pgxpool.Pool) TalentRepository {
	return &postgresTalentRepository{pool: pool}
}

const talentColumns = `
	t.id, t.user_id, t.title, t.description, t.category,
	t.location, t.is_online, t.max_participants, t.image,
	t.created_at, t.updated_at,
	u.name, u.email
`

func scanTalent(row pgx.Row) (*model.Talent, error) {
	talent := &model.Talent{}
	err := row.Scan(
		&talent.ID,
		&talent.UserID,
		&talent.Title,
		&talent.Description,
		&talent.Category,
		&talent.Location,
		&talent.IsOnline,
		&talent.MaxParticipants,
		&talent.Image,
		&talent.CreatedAt,
		&talent.UpdatedAt,
		&talent.OwnerName,
		&talent.OwnerEmail,
	)
	if err != nil {
		return nil, err
	}
	return talent, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresTalentRepository) Create(ctx context.Context, talent *model.Talent, schedules []*model.Schedule) error {
	// Talent and its initial schedules land together or not at all.
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO talents (
				id, user_id, title, description, category,
				location, is_online, max_participants, image,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`

		_, err := tx.Exec(ctx, query,
			talent.ID,
			talent.UserID,
			talent.Title,
			talent.Description,
			talent.Category,
			talent.Location,
			talent.IsOnline,
			talent.MaxParticipants,
			talent.Image,
			talent.CreatedAt,
			talent.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create talent: %w", err)
		}

		for _, s := range schedules {
			if err := insertSchedule(ctx, tx, s); err != nil {
				return err
			}
		}

		return nil
	})
}

func insertSchedule(ctx context.Context, tx pgx.Tx, s *model.Schedule) error {
	query := `
		INSERT INTO schedules (
			id, talent_id, date, start_time, end_time,
			current_participants, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		s.ID,
		s.TalentID,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.CurrentParticipants,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresTalentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Talent, error) {
	query := `
		SELECT ` + talentColumns + `
		FROM talents t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`

	talent, err := scanTalent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTalentNotFound
		}
		return nil, fmt.Errorf("failed to get talent: %w", err)
	}

	return talent, nil
}

func (r *postgresTalentRepository) List(ctx context.Context, filters model.ListTalentsRequest) ([]*model.Talent, error) {
	query := `
		SELECT ` + talentColumns + `
		FROM talents t
		JOIN users u ON u.id = t.user_id
		WHERE 1=1
	`

	args := []interface{}{}
	argCount := 1

	if filters.Category != "" {
		query += fmt.Sprintf(" AND t.category = $%d", argCount)
		args = append(args, filters.Category)
		argCount++
	}

	if filters.Location != "" {
		query += fmt.Sprintf(" AND t.location ILIKE $%d", argCount)
		args = append(args, "%"+filters.Location+"%")
		argCount++
	}

	if filters.IsOnline != nil {
		query += fmt.Sprintf(" AND t.is_online = $%d", argCount)
		args = append(args, *filters.IsOnline)
		argCount++
	}

	if filters.Search != "" {
		query += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}

	query += " ORDER BY t.created_at DESC"

	return r.queryTalents(ctx, query, args...)
}

func (r *postgresTalentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Talent, error) {
	query := `
		SELECT ` + talentColumns + `
		FROM talents t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC
	`

	return r.queryTalents(ctx, query, ownerID)
}

func (r *postgresTalentRepository) queryTalents(ctx context.Context, query string, args ...interface{}) ([]*model.Talent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list talents: %w", err)
	}
	defer rows.Close()

	var talents []*model.Talent
	for rows.Next() {
		talent, err := scanTalent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan talent: %w", err)
		}
		talents = append(talents, talent)
	}

	return talents, rows.Err()
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresTalentRepository) Update(ctx context.Context, talent *model.Talent) error {
	query := `
		UPDATE talents
		SET title = $2, description = $3, category = $4, location = $5,
			is_online = $6, max_participants = $7, image = $8, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		talent.ID,
		talent.Title,
		talent.Description,
		talent.Category,
		talent.Location,
		talent.IsOnline,
		talent.MaxParticipants,
		talent.Image,
	)
	if err != nil {
		return fmt.Errorf("failed to update talent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrTalentNotFound
	}

	return nil
}

// =====================================================
// DELETE (CASCADE)
// =====================================================

func (r *postgresTalentRepository) DeleteCascade(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	// The store has no foreign-key cascade, so schedules and bookings
	// are removed explicitly in the same transaction.
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]uuid.UUID, error) {
		// Step 1: Collect users holding an active booking, for fan-out
		rows, err := tx.Query(ctx, `
			SELECT DISTINCT user_id FROM bookings
			WHERE talent_id = $1 AND status <> 'cancelled'
		`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to collect affected bookers: %w", err)
		}

		var affected []uuid.UUID
		for rows.Next() {
			var userID uuid.UUID
			if err := rows.Scan(&userID); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan booker: %w", err)
			}
			affected = append(affected, userID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		// Step 2: Delete bookings, then schedules, then the talent
		if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE talent_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to delete bookings: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM schedules WHERE talent_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to delete schedules: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM talents WHERE id = $1`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete talent: %w", err)
		}
		if result.RowsAffected() == 0 {
			return nil, model.ErrTalentNotFound
		}

		return affected, nil
	})
}

// =====================================================
// SCHEDULES
// =====================================================

func (r *postgresTalentRepository) AddSchedule(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (
			id, talent_id, date, start_time, end_time,
			current_participants, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		schedule.ID,
		schedule.TalentID,
		schedule.Date,
		schedule.StartTime,
		schedule.EndTime,
		schedule.CurrentParticipants,
		schedule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

func (r *postgresTalentRepository) ListSchedules(ctx context.Context, talentID uuid.UUID) ([]*model.Schedule, error) {
	query := `
		SELECT id, talent_id, date, start_time, end_time, current_participants, created_at
		FROM schedules
		WHERE talent_id = $1
		ORDER BY date, start_time
	`

	rows, err := r.pool.Query(ctx, query, talentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*model.Schedule
	for rows.Next() {
		s := &model.Schedule{}
		err := rows.Scan(
			&s.ID,
			&s.TalentID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.CurrentParticipants,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (r *postgresTalentRepository) FindScheduleByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	query := `
		SELECT id, talent_id, date, start_time, end_time, current_participants, created_at
		FROM schedules
		WHERE id = $1
	`

	s := &model.Schedule{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.TalentID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.CurrentParticipants,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return s, nil
}
