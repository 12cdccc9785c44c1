package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Upsert creates or overwrites the identity's profile in place. Keyed
// by identity id, so restarting the setup wizard can never produce a
// second profile row.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.UserProfile) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (identity_id, display_name, character_name, department, rank, call_sign)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			character_name = EXCLUDED.character_name,
			department = EXCLUDED.department,
			rank = EXCLUDED.rank,
			call_sign = EXCLUDED.call_sign,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, p.IdentityID, p.DisplayName, p.CharacterName, p.Department, p.Rank, p.CallSign).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Get returns the identity's profile, or nil if none exists yet.
func (r *ProfileRepository) Get(ctx context.Context, identityID string) (*model.UserProfile, error) {
	p := &model.UserProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT identity_id, display_name, character_name, department, rank, call_sign, created_at, updated_at
		FROM user_profiles WHERE identity_id = $1
	`, identityID).Scan(
		&p.IdentityID, &p.DisplayName, &p.CharacterName, &p.Department, &p.Rank, &p.CallSign, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&count)
	return count, err
}
