package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"

	"github.com/rs/zerolog"
)

// fakeSessionStore enforces the same one-active-per-identity rule the
// Postgres partial unique index does, under a mutex so concurrent
// clock-ins race the same way.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions []*model.DutySession
}

func (f *fakeSessionStore) Insert(_ context.Context, s *model.DutySession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.sessions {
		if existing.IdentityID == s.IdentityID && existing.Status == model.SessionActive {
			return model.ErrAlreadyActive
		}
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.sessions = append(f.sessions, &cp)
	return nil
}

func (f *fakeSessionStore) Complete(_ context.Context, identityID string, clockOut time.Time, notes *string) (*model.DutySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.IdentityID == identityID && s.Status == model.SessionActive {
			hours := model.DurationHoursBetween(s.ClockIn, clockOut)
			s.ClockOut = &clockOut
			s.DurationHours = &hours
			if notes != nil {
				s.Notes = notes
			}
			s.Status = model.SessionCompleted
			s.UpdatedAt = clockOut
			cp := *s
			return &cp, nil
		}
	}
	return nil, model.ErrNoActiveSession
}

func (f *fakeSessionStore) GetActive(_ context.Context, identityID string) (*model.DutySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.IdentityID == identityID && s.Status == model.SessionActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) ListCompletedByIdentity(_ context.Context, identityID string) ([]model.DutySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DutySession
	for _, s := range f.sessions {
		if s.IdentityID == identityID && s.Status == model.SessionCompleted {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) activeCount(identityID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.sessions {
		if s.IdentityID == identityID && s.Status == model.SessionActive {
			count++
		}
	}
	return count
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*model.UserProfile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[string]*model.UserProfile)}
}

func (f *fakeProfileStore) Upsert(_ context.Context, p *model.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.profiles[p.IdentityID] = &cp
	return nil
}

func (f *fakeProfileStore) Get(_ context.Context, identityID string) (*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[identityID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func testProfile(identityID string) *model.UserProfile {
	return &model.UserProfile{
		IdentityID:    identityID,
		DisplayName:   "Tester",
		CharacterName: "John Doe",
		Department:    "LSPD",
		Rank:          "Officer",
		CallSign:      "A-12",
	}
}

func newTestDutyService(sessions *fakeSessionStore, profiles *fakeProfileStore) *DutyService {
	return NewDutyService(sessions, profiles, time.UTC, zerolog.Nop())
}

func TestClockInWithoutProfile(t *testing.T) {
	svc := newTestDutyService(&fakeSessionStore{}, newFakeProfileStore())

	_, err := svc.ClockIn(context.Background(), "u1", "Tester", nil)
	if !errors.Is(err, model.ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestClockInCopiesProfileDetails(t *testing.T) {
	profiles := newFakeProfileStore()
	_ = profiles.Upsert(context.Background(), testProfile("u1"))
	svc := newTestDutyService(&fakeSessionStore{}, profiles)

	session, err := svc.ClockIn(context.Background(), "u1", "Tester", nil)
	if err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	if session.Status != model.SessionActive {
		t.Fatalf("expected active session, got %s", session.Status)
	}
	if session.CharacterName != "John Doe" || session.Department != "LSPD" || session.CallSign != "A-12" {
		t.Fatalf("shift details not copied from profile: %+v", session)
	}
	if session.ClockOut != nil || session.DurationHours != nil {
		t.Fatalf("new session must have no clock-out or duration")
	}
}

func TestClockInTwiceRejected(t *testing.T) {
	profiles := newFakeProfileStore()
	_ = profiles.Upsert(context.Background(), testProfile("u2"))
	sessions := &fakeSessionStore{}
	svc := newTestDutyService(sessions, profiles)

	if _, err := svc.ClockIn(context.Background(), "u2", "Tester", nil); err != nil {
		t.Fatalf("first clock-in failed: %v", err)
	}
	if _, err := svc.ClockIn(context.Background(), "u2", "Tester", nil); !errors.Is(err, model.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}
	if got := sessions.activeCount("u2"); got != 1 {
		t.Fatalf("expected exactly 1 active session, got %d", got)
	}
}

func TestConcurrentClockInOneWinner(t *testing.T) {
	profiles := newFakeProfileStore()
	_ = profiles.Upsert(context.Background(), testProfile("u3"))
	sessions := &fakeSessionStore{}
	svc := newTestDutyService(sessions, profiles)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ClockIn(context.Background(), "u3", "Tester", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, rejections int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, model.ErrAlreadyActive):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || rejections != attempts-1 {
		t.Fatalf("expected 1 success and %d rejections, got %d/%d", attempts-1, successes, rejections)
	}
	if got := sessions.activeCount("u3"); got != 1 {
		t.Fatalf("expected exactly 1 active session, got %d", got)
	}
}

func TestClockOutWithoutActiveSession(t *testing.T) {
	svc := newTestDutyService(&fakeSessionStore{}, newFakeProfileStore())

	_, err := svc.ClockOut(context.Background(), "u4", nil)
	if !errors.Is(err, model.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestClockOutComputesDuration(t *testing.T) {
	profiles := newFakeProfileStore()
	_ = profiles.Upsert(context.Background(), testProfile("u5"))
	sessions := &fakeSessionStore{}
	svc := newTestDutyService(sessions, profiles)

	if _, err := svc.ClockIn(context.Background(), "u5", "Tester", nil); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}

	// Backdate the open shift to 90 minutes ago.
	sessions.mu.Lock()
	sessions.sessions[0].ClockIn = time.Now().Add(-90 * time.Minute)
	sessions.mu.Unlock()

	notes := "quiet shift"
	session, err := svc.ClockOut(context.Background(), "u5", &notes)
	if err != nil {
		t.Fatalf("clock-out failed: %v", err)
	}
	if session.Status != model.SessionCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}
	if session.DurationHours == nil || *session.DurationHours != 1.5 {
		t.Fatalf("expected 1.5 hours, got %v", session.DurationHours)
	}
	if session.Notes == nil || *session.Notes != "quiet shift" {
		t.Fatalf("notes not persisted: %v", session.Notes)
	}
	if session.ClockOut == nil || session.ClockOut.Before(session.ClockIn) {
		t.Fatalf("clock-out must be at or after clock-in")
	}

	// Second clock-out must find nothing.
	if _, err := svc.ClockOut(context.Background(), "u5", nil); !errors.Is(err, model.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession on repeat clock-out, got %v", err)
	}
}

func TestUserStatisticsWindows(t *testing.T) {
	sessions := &fakeSessionStore{}
	now := time.Now().UTC()

	seed := func(clockIn time.Time, hours float64) {
		sessions.sessions = append(sessions.sessions, &model.DutySession{
			IdentityID:    "u6",
			ClockIn:       clockIn,
			DurationHours: &hours,
			Status:        model.SessionCompleted,
		})
	}
	today := startOfDay(now)
	seed(today.Add(5*time.Minute), 0.5)   // today
	seed(now.AddDate(0, 0, -60), 2.0)     // long ago
	seed(today.Add(10*time.Minute), 0.25) // today

	svc := newTestDutyService(sessions, newFakeProfileStore())
	stats, err := svc.UserStatistics(context.Background(), "u6")
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalHours != 2.75 {
		t.Fatalf("expected 2.75 total hours, got %v", stats.TotalHours)
	}
	if stats.TodayHours != 0.75 {
		t.Fatalf("expected 0.75 today hours, got %v", stats.TodayHours)
	}
	if stats.WeeklyHours < 0.75 {
		t.Fatalf("weekly hours must include today's, got %v", stats.WeeklyHours)
	}
	if stats.SessionCount != 3 {
		t.Fatalf("expected 3 completed sessions, got %d", stats.SessionCount)
	}
}

func TestRoundTripStatistics(t *testing.T) {
	profiles := newFakeProfileStore()
	_ = profiles.Upsert(context.Background(), testProfile("u7"))
	sessions := &fakeSessionStore{}
	svc := newTestDutyService(sessions, profiles)

	if _, err := svc.ClockIn(context.Background(), "u7", "Tester", nil); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	sessions.mu.Lock()
	sessions.sessions[0].ClockIn = time.Now().Add(-90 * time.Minute)
	sessions.mu.Unlock()
	if _, err := svc.ClockOut(context.Background(), "u7", nil); err != nil {
		t.Fatalf("clock-out failed: %v", err)
	}

	stats, err := svc.UserStatistics(context.Background(), "u7")
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalHours != 1.5 || stats.SessionCount != 1 {
		t.Fatalf("expected one 1.5h session, got %+v", stats)
	}
	if stats.TodayHours != 1.5 {
		t.Fatalf("expected 1.5 today hours, got %v", stats.TodayHours)
	}
}
