package service

import (
	"context"
	"testing"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"
)

// fakeScanner serves canned session rows; filter behavior is the
// repository's concern, not the reporter's.
type fakeScanner struct {
	sessions []model.DutySession
}

func (f *fakeScanner) List(_ context.Context, _ model.SessionFilters) ([]model.DutySession, error) {
	return f.sessions, nil
}

func (f *fakeScanner) ListActive(_ context.Context) ([]model.DutySession, error) {
	var out []model.DutySession
	for _, s := range f.sessions {
		if s.Status == model.SessionActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScanner) ListPage(_ context.Context, _ model.SessionFilters, page, pageSize int) ([]model.DutySession, int, error) {
	start := (page - 1) * pageSize
	if start >= len(f.sessions) {
		return nil, len(f.sessions), nil
	}
	end := start + pageSize
	if end > len(f.sessions) {
		end = len(f.sessions)
	}
	return f.sessions[start:end], len(f.sessions), nil
}

func completedSession(identity, dept string, hours float64, createdAt time.Time) model.DutySession {
	return model.DutySession{
		IdentityID:    identity,
		Department:    dept,
		DurationHours: &hours,
		Status:        model.SessionCompleted,
		CreatedAt:     createdAt,
	}
}

func activeSession(identity, dept string, createdAt time.Time) model.DutySession {
	return model.DutySession{
		IdentityID: identity,
		Department: dept,
		Status:     model.SessionActive,
		CreatedAt:  createdAt,
	}
}

func TestGetStatisticsReductions(t *testing.T) {
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -30)

	scanner := &fakeScanner{sessions: []model.DutySession{
		completedSession("u1", "LSPD", 2.0, old),
		completedSession("u1", "LSPD", 1.0, old),
		completedSession("u2", "EMS", 3.0, old),
		activeSession("u3", "LSPD", now),
	}}
	svc := NewStatsService(scanner, time.UTC)

	stats, err := svc.GetStatistics(context.Background(), model.SessionFilters{})
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}

	if stats.TotalUsers != 3 {
		t.Fatalf("expected 3 distinct users, got %d", stats.TotalUsers)
	}
	if stats.TotalActiveUsers != 1 {
		t.Fatalf("expected 1 active user, got %d", stats.TotalActiveUsers)
	}
	if stats.TotalHours != 6.0 {
		t.Fatalf("expected 6.0 total hours, got %v", stats.TotalHours)
	}
	if stats.AverageSessionTime != 2.0 {
		t.Fatalf("expected 2.0 average, got %v", stats.AverageSessionTime)
	}

	lspd := stats.DepartmentStats["LSPD"]
	if lspd.TotalHours != 3.0 || lspd.TotalUsers != 2 {
		t.Fatalf("unexpected LSPD bucket: %+v", lspd)
	}
	ems := stats.DepartmentStats["EMS"]
	if ems.TotalHours != 3.0 || ems.TotalUsers != 1 {
		t.Fatalf("unexpected EMS bucket: %+v", ems)
	}
}

// Pins the chosen behavior for departments outside the fixed set: they
// count toward global totals but get no department breakdown row.
func TestUnknownDepartmentExcludedFromBreakdown(t *testing.T) {
	old := time.Now().UTC().AddDate(0, 0, -30)
	scanner := &fakeScanner{sessions: []model.DutySession{
		completedSession("u1", "LSPD", 1.0, old),
		completedSession("u2", "Coast Guard", 4.0, old),
	}}
	svc := NewStatsService(scanner, time.UTC)

	stats, err := svc.GetStatistics(context.Background(), model.SessionFilters{})
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}

	if stats.TotalHours != 5.0 {
		t.Fatalf("unknown department must count toward global totals, got %v", stats.TotalHours)
	}
	if stats.TotalUsers != 2 {
		t.Fatalf("unknown department user must count globally, got %d", stats.TotalUsers)
	}
	if _, ok := stats.DepartmentStats["Coast Guard"]; ok {
		t.Fatalf("unknown department must not appear in the breakdown")
	}
	if got := stats.DepartmentStats["LSPD"].TotalHours; got != 1.0 {
		t.Fatalf("expected 1.0 LSPD hours, got %v", got)
	}
}

func TestTodayAndWeeklyWindows(t *testing.T) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(time.Minute)

	scanner := &fakeScanner{sessions: []model.DutySession{
		completedSession("u1", "LSPD", 1.5, today),
		completedSession("u2", "LSPD", 2.0, now.AddDate(0, 0, -30)),
	}}
	svc := NewStatsService(scanner, time.UTC)

	stats, err := svc.GetStatistics(context.Background(), model.SessionFilters{})
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}

	if stats.TodayStats.TotalHours != 1.5 {
		t.Fatalf("expected 1.5 today hours, got %v", stats.TodayStats.TotalHours)
	}
	if stats.WeeklyStats.TotalHours != 1.5 {
		t.Fatalf("expected 1.5 weekly hours, got %v", stats.WeeklyStats.TotalHours)
	}
	if stats.TotalHours != 3.5 {
		t.Fatalf("expected 3.5 global hours, got %v", stats.TotalHours)
	}
}

func TestSessionsPagination(t *testing.T) {
	old := time.Now().UTC().AddDate(0, 0, -5)
	var all []model.DutySession
	for i := 0; i < 7; i++ {
		all = append(all, completedSession("u1", "LSPD", 1.0, old))
	}
	svc := NewStatsService(&fakeScanner{sessions: all}, time.UTC)

	page, meta, err := svc.Sessions(context.Background(), model.SessionFilters{}, 2, 3)
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 rows on page 2, got %d", len(page))
	}
	if meta.TotalRows != 7 || meta.TotalPages != 3 || meta.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", meta)
	}

	// Out-of-range defaults are normalized.
	_, meta, err = svc.Sessions(context.Background(), model.SessionFilters{}, 0, 0)
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if meta.Page != 1 || meta.PageSize != 25 {
		t.Fatalf("expected normalized page/page_size, got %+v", meta)
	}
}
