package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `id, identity_id, display_name, character_name, answers, status,
	       decline_reason, reviewed_by, reviewed_at, created_at, updated_at`

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *model.Application) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO applications (id, identity_id, display_name, character_name, answers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING status, created_at, updated_at
	`, a.ID, a.IdentityID, a.DisplayName, a.CharacterName, a.Answers).
		Scan(&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id string) (*model.Application, error) {
	a := &model.Application{}
	err := r.pool.QueryRow(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE id = $1
	`, id).Scan(
		&a.ID, &a.IdentityID, &a.DisplayName, &a.CharacterName, &a.Answers, &a.Status,
		&a.DeclineReason, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// Finalize moves a pending application to accepted or declined. The
// pending guard lives in the WHERE clause, so the once-only guarantee
// holds across process restarts and across multiple bot instances; a
// second reviewer gets model.ErrAlreadyReviewed.
func (r *ApplicationRepository) Finalize(ctx context.Context, id, status, reviewerID string, reason *string) (*model.Application, error) {
	a := &model.Application{}
	err := r.pool.QueryRow(ctx, `
		UPDATE applications SET
			status = $2,
			reviewed_by = $3,
			decline_reason = $4,
			reviewed_at = $5,
			updated_at = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING `+applicationColumns+`
	`, id, status, reviewerID, reason, time.Now()).Scan(
		&a.ID, &a.IdentityID, &a.DisplayName, &a.CharacterName, &a.Answers, &a.Status,
		&a.DeclineReason, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either reviewed already or missing entirely; look again to tell.
			existing, getErr := r.Get(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if existing.Status != model.ApplicationPending {
				return nil, model.ErrAlreadyReviewed
			}
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *ApplicationRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE status = 'pending'`).Scan(&count)
	return count, err
}
