package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Name of the partial unique index enforcing one active session per
// identity. A 23505 on this index is the "already clocked in" signal.
const oneActiveIndex = "duty_sessions_one_active_per_identity"

const sessionColumns = `id, identity_id, display_name, character_name, department, rank, call_sign,
	       clock_in, clock_out, duration_hours, location, notes, status, created_at, updated_at`

type DutySessionRepository struct {
	pool *pgxpool.Pool
}

func NewDutySessionRepository(pool *pgxpool.Pool) *DutySessionRepository {
	return &DutySessionRepository{pool: pool}
}

// Insert creates a new active session. The existence check and the
// insert are a single statement; two racing clock-ins for the same
// identity resolve at the store's unique index, and the loser gets
// model.ErrAlreadyActive.
func (r *DutySessionRepository) Insert(ctx context.Context, s *model.DutySession) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO duty_sessions (id, identity_id, display_name, character_name, department, rank, call_sign, clock_in, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active')
		RETURNING created_at, updated_at
	`, s.ID, s.IdentityID, s.DisplayName, s.CharacterName, s.Department, s.Rank, s.CallSign, s.ClockIn, s.Location).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == oneActiveIndex {
			return model.ErrAlreadyActive
		}
		return fmt.Errorf("insert duty session: %w", err)
	}
	s.Status = model.SessionActive
	return nil
}

// Complete closes the identity's active session in one statement: sets
// clock_out, derives duration_hours (rounded to two decimals, computed
// once and never again), and flips status. No matching active row means
// model.ErrNoActiveSession.
func (r *DutySessionRepository) Complete(ctx context.Context, identityID string, clockOut time.Time, notes *string) (*model.DutySession, error) {
	s := &model.DutySession{}
	err := r.pool.QueryRow(ctx, `
		UPDATE duty_sessions SET
			clock_out = $2,
			duration_hours = ROUND(EXTRACT(EPOCH FROM ($2::timestamptz - clock_in)) / 3600.0, 2),
			notes = COALESCE($3, notes),
			status = 'completed',
			updated_at = NOW()
		WHERE identity_id = $1 AND status = 'active'
		RETURNING `+sessionColumns+`
	`, identityID, clockOut, notes).Scan(
		&s.ID, &s.IdentityID, &s.DisplayName, &s.CharacterName, &s.Department, &s.Rank, &s.CallSign,
		&s.ClockIn, &s.ClockOut, &s.DurationHours, &s.Location, &s.Notes, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoActiveSession
		}
		return nil, fmt.Errorf("complete duty session: %w", err)
	}
	return s, nil
}

// GetActive returns the identity's active session, or nil if off duty.
func (r *DutySessionRepository) GetActive(ctx context.Context, identityID string) (*model.DutySession, error) {
	s := &model.DutySession{}
	err := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM duty_sessions WHERE identity_id = $1 AND status = 'active'
	`, identityID).Scan(
		&s.ID, &s.IdentityID, &s.DisplayName, &s.CharacterName, &s.Department, &s.Rank, &s.CallSign,
		&s.ClockIn, &s.ClockOut, &s.DurationHours, &s.Location, &s.Notes, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ListActive returns all open shifts, newest clock-in first.
func (r *DutySessionRepository) ListActive(ctx context.Context) ([]model.DutySession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM duty_sessions WHERE status = 'active'
		ORDER BY clock_in DESC
	`)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// ListCompletedByIdentity returns every completed shift for one staff
// member, newest first.
func (r *DutySessionRepository) ListCompletedByIdentity(ctx context.Context, identityID string) ([]model.DutySession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM duty_sessions WHERE identity_id = $1 AND status = 'completed'
		ORDER BY clock_in DESC
	`, identityID)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// List returns every session matching the filters, newest first. The
// statistics reporter reduces this in memory; volume is bounded by
// staff headcount, so no server-side aggregation is needed.
func (r *DutySessionRepository) List(ctx context.Context, f model.SessionFilters) ([]model.DutySession, error) {
	where, args := buildSessionFilters(f)
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM duty_sessions`+where+`
		ORDER BY clock_in DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// ListPage returns one page of sessions matching the filters plus the
// total row count for pagination metadata.
func (r *DutySessionRepository) ListPage(ctx context.Context, f model.SessionFilters, page, pageSize int) ([]model.DutySession, int, error) {
	where, args := buildSessionFilters(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM duty_sessions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+sessionColumns+`
		FROM duty_sessions`+where+`
		ORDER BY clock_in DESC
		LIMIT $%d OFFSET $%d
	`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *DutySessionRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM duty_sessions`).Scan(&count)
	return count, err
}

func buildSessionFilters(f model.SessionFilters) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Department != "" {
		add("department = $%d", f.Department)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.DateFrom != nil {
		add("clock_in >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("clock_in <= $%d", *f.DateTo)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(display_name ILIKE $%d OR character_name ILIKE $%d OR call_sign ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanSessions(rows pgx.Rows) ([]model.DutySession, error) {
	defer rows.Close()
	var sessions []model.DutySession
	for rows.Next() {
		var s model.DutySession
		if err := rows.Scan(
			&s.ID, &s.IdentityID, &s.DisplayName, &s.CharacterName, &s.Department, &s.Rank, &s.CallSign,
			&s.ClockIn, &s.ClockOut, &s.DurationHours, &s.Location, &s.Notes, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
