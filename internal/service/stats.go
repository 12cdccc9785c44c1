package service

import (
	"context"
	"math"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"
)

// SessionScanner is the read side the reporter needs: filtered scans
// over the session table, no live counters.
type SessionScanner interface {
	List(ctx context.Context, f model.SessionFilters) ([]model.DutySession, error)
	ListActive(ctx context.Context) ([]model.DutySession, error)
	ListPage(ctx context.Context, f model.SessionFilters, page, pageSize int) ([]model.DutySession, int, error)
}

// StatsService recomputes dashboard statistics from a full scan on
// every request. Session volume is bounded by staff headcount, so this
// trades CPU for having no cache or counter state to keep correct.
type StatsService struct {
	sessions SessionScanner
	loc      *time.Location
}

func NewStatsService(sessions SessionScanner, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{sessions: sessions, loc: loc}
}

// GetStatistics scans sessions bounded by the filters and reduces them
// in memory: global, today, weekly, and per-department buckets.
//
// Sessions recorded under a department outside model.Departments count
// toward the global, today, and weekly buckets but get no row in
// DepartmentStats. That asymmetry is intentional and pinned by test;
// the department list is the operational source of truth and stray
// values (renamed or retired departments) should not invent rows.
func (s *StatsService) GetStatistics(ctx context.Context, f model.SessionFilters) (model.Statistics, error) {
	sessions, err := s.sessions.List(ctx, f)
	if err != nil {
		return model.Statistics{}, err
	}

	now := time.Now().In(s.loc)
	dayStart := startOfDay(now)
	weekStart := startOfWeek(now)

	stats := model.Statistics{
		DepartmentStats: make(map[string]model.StatsBucket, len(model.Departments)),
	}
	stats.StatsBucket = reduce(sessions)
	stats.TodayStats = reduce(filterSince(sessions, dayStart, s.loc))
	stats.WeeklyStats = reduce(filterSince(sessions, weekStart, s.loc))

	for _, dept := range model.Departments {
		var deptSessions []model.DutySession
		for _, sess := range sessions {
			if sess.Department == dept {
				deptSessions = append(deptSessions, sess)
			}
		}
		stats.DepartmentStats[dept] = reduce(deptSessions)
	}
	return stats, nil
}

// ActiveSessions lists open shifts for the dashboard, newest first.
func (s *StatsService) ActiveSessions(ctx context.Context) ([]model.DutySession, error) {
	return s.sessions.ListActive(ctx)
}

// Sessions returns one page of the filtered session list plus
// pagination metadata.
func (s *StatsService) Sessions(ctx context.Context, f model.SessionFilters, page, pageSize int) ([]model.DutySession, model.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}
	sessions, total, err := s.sessions.ListPage(ctx, f, page, pageSize)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	pages := (total + pageSize - 1) / pageSize
	return sessions, model.Pagination{Page: page, PageSize: pageSize, TotalRows: total, TotalPages: pages}, nil
}

// Export returns the full filtered session rows for serialization.
func (s *StatsService) Export(ctx context.Context, f model.SessionFilters) ([]model.DutySession, error) {
	return s.sessions.List(ctx, f)
}

func reduce(sessions []model.DutySession) model.StatsBucket {
	users := make(map[string]struct{})
	activeUsers := make(map[string]struct{})
	var bucket model.StatsBucket
	var completed int

	for _, s := range sessions {
		users[s.IdentityID] = struct{}{}
		if s.Status == model.SessionActive {
			activeUsers[s.IdentityID] = struct{}{}
		}
		if s.Status == model.SessionCompleted && s.DurationHours != nil {
			bucket.TotalHours += *s.DurationHours
			completed++
		}
	}

	bucket.TotalUsers = len(users)
	bucket.TotalActiveUsers = len(activeUsers)
	bucket.TotalHours = round2(bucket.TotalHours)
	if completed > 0 {
		bucket.AverageSessionTime = round2(bucket.TotalHours / float64(completed))
	}
	return bucket
}

func filterSince(sessions []model.DutySession, since time.Time, loc *time.Location) []model.DutySession {
	var out []model.DutySession
	for _, s := range sessions {
		if !s.CreatedAt.In(loc).Before(since) {
			out = append(out, s)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
