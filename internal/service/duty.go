package service

import (
	"context"
	"fmt"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionStore is the persistence the duty engine needs. Insert must be
// atomic: it fails with model.ErrAlreadyActive when an active session
// already exists for the identity, with no separate existence check in
// application code.
type SessionStore interface {
	Insert(ctx context.Context, s *model.DutySession) error
	Complete(ctx context.Context, identityID string, clockOut time.Time, notes *string) (*model.DutySession, error)
	GetActive(ctx context.Context, identityID string) (*model.DutySession, error)
	ListCompletedByIdentity(ctx context.Context, identityID string) ([]model.DutySession, error)
}

// ProfileStore is the profile persistence shared by the duty engine and
// the setup wizard.
type ProfileStore interface {
	Upsert(ctx context.Context, p *model.UserProfile) error
	Get(ctx context.Context, identityID string) (*model.UserProfile, error)
}

// DutyService owns the clock-in/clock-out state machine. The one
// active-session-per-identity invariant is enforced by the store, not
// here; this layer just translates outcomes.
type DutyService struct {
	sessions SessionStore
	profiles ProfileStore
	loc      *time.Location
	log      zerolog.Logger
}

func NewDutyService(sessions SessionStore, profiles ProfileStore, loc *time.Location, log zerolog.Logger) *DutyService {
	if loc == nil {
		loc = time.Local
	}
	return &DutyService{sessions: sessions, profiles: profiles, loc: loc, log: log}
}

// ClockIn opens a shift for the identity using their stored profile.
// Returns model.ErrNoProfile if setup was never completed and
// model.ErrAlreadyActive if a shift is already open.
func (s *DutyService) ClockIn(ctx context.Context, identityID, displayName string, location *string) (*model.DutySession, error) {
	profile, err := s.profiles.Get(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, model.ErrNoProfile
	}

	session := &model.DutySession{
		ID:            uuid.NewString(),
		IdentityID:    identityID,
		DisplayName:   displayName,
		CharacterName: profile.CharacterName,
		Department:    profile.Department,
		Rank:          profile.Rank,
		CallSign:      profile.CallSign,
		ClockIn:       time.Now(),
		Location:      location,
		Status:        model.SessionActive,
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("identity_id", identityID).
		Str("department", profile.Department).
		Str("call_sign", profile.CallSign).
		Msg("clocked in")
	return session, nil
}

// ClockOut closes the identity's open shift, stamping clock-out time
// and the derived duration. Returns model.ErrNoActiveSession when the
// identity is off duty.
func (s *DutyService) ClockOut(ctx context.Context, identityID string, notes *string) (*model.DutySession, error) {
	session, err := s.sessions.Complete(ctx, identityID, time.Now(), notes)
	if err != nil {
		return nil, err
	}

	hours := 0.0
	if session.DurationHours != nil {
		hours = *session.DurationHours
	}
	s.log.Info().
		Str("identity_id", identityID).
		Float64("hours", hours).
		Msg("clocked out")
	return session, nil
}

// ActiveSession returns the identity's open shift, nil if off duty.
func (s *DutyService) ActiveSession(ctx context.Context, identityID string) (*model.DutySession, error) {
	return s.sessions.GetActive(ctx, identityID)
}

// Profile returns the identity's duty profile, nil if none.
func (s *DutyService) Profile(ctx context.Context, identityID string) (*model.UserProfile, error) {
	return s.profiles.Get(ctx, identityID)
}

// UserStatistics sums the identity's completed shifts: today (since
// local midnight), this week (since the local Sunday), and all time.
func (s *DutyService) UserStatistics(ctx context.Context, identityID string) (model.UserStatistics, error) {
	sessions, err := s.sessions.ListCompletedByIdentity(ctx, identityID)
	if err != nil {
		return model.UserStatistics{}, err
	}

	now := time.Now().In(s.loc)
	dayStart := startOfDay(now)
	weekStart := startOfWeek(now)

	var stats model.UserStatistics
	for _, sess := range sessions {
		if sess.DurationHours == nil {
			continue
		}
		h := *sess.DurationHours
		stats.TotalHours += h
		stats.SessionCount++

		in := sess.ClockIn.In(s.loc)
		if !in.Before(dayStart) {
			stats.TodayHours += h
		}
		if !in.Before(weekStart) {
			stats.WeeklyHours += h
		}
	}
	return stats, nil
}

// startOfDay is local midnight for t's day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek is local midnight of the most recent Sunday.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}
