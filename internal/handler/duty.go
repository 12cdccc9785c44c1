package handler

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/model"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DutyHandler serves the dashboard's read-only session views.
type DutyHandler struct {
	stats *service.StatsService
}

func NewDutyHandler(stats *service.StatsService) *DutyHandler {
	return &DutyHandler{stats: stats}
}

// Active returns all open shifts, newest clock-in first.
func (h *DutyHandler) Active(c *fiber.Ctx) error {
	sessions, err := h.stats.ActiveSessions(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load active sessions"})
	}
	if sessions == nil {
		sessions = []model.DutySession{}
	}
	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}

// Statistics returns the aggregate report plus one page of the
// underlying session list.
func (h *DutyHandler) Statistics(c *fiber.Ctx) error {
	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 25)

	stats, err := h.stats.GetStatistics(c.Context(), filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to compute statistics"})
	}
	sessions, pagination, err := h.stats.Sessions(c.Context(), filters, page, pageSize)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load sessions"})
	}
	if sessions == nil {
		sessions = []model.DutySession{}
	}

	return c.JSON(fiber.Map{
		"statistics": stats,
		"sessions":   sessions,
		"pagination": pagination,
	})
}

// Export streams the full filtered session rows as CSV or JSON.
func (h *DutyHandler) Export(c *fiber.Ctx) error {
	filters, err := parseFilters(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	sessions, err := h.stats.Export(c.Context(), filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to export sessions"})
	}

	switch c.Query("format", "json") {
	case "json":
		if sessions == nil {
			sessions = []model.DutySession{}
		}
		c.Set("Content-Disposition", `attachment; filename="duty_sessions.json"`)
		return c.JSON(sessions)
	case "csv":
		c.Set("Content-Type", "text/csv")
		c.Set("Content-Disposition", `attachment; filename="duty_sessions.csv"`)
		return c.SendString(sessionsCSV(sessions))
	default:
		return c.Status(400).JSON(fiber.Map{"error": "format must be csv or json"})
	}
}

func parseFilters(c *fiber.Ctx) (model.SessionFilters, error) {
	f := model.SessionFilters{
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
	}
	if f.Status != "" && f.Status != model.SessionActive && f.Status != model.SessionCompleted {
		return f, fmt.Errorf("status must be active or completed")
	}

	var err error
	if f.DateFrom, err = parseDate(c.Query("date_from")); err != nil {
		return f, fmt.Errorf("invalid date_from")
	}
	if f.DateTo, err = parseDate(c.Query("date_to")); err != nil {
		return f, fmt.Errorf("invalid date_to")
	}
	return f, nil
}

// parseDate accepts a plain date or RFC3339 timestamp.
func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", v)
}

func sessionsCSV(sessions []model.DutySession) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"id", "identity_id", "display_name", "character_name", "department", "rank",
		"call_sign", "clock_in", "clock_out", "duration_hours", "location", "notes", "status",
	})
	for _, s := range sessions {
		clockOut := ""
		if s.ClockOut != nil {
			clockOut = s.ClockOut.Format(time.RFC3339)
		}
		duration := ""
		if s.DurationHours != nil {
			duration = strconv.FormatFloat(*s.DurationHours, 'f', 2, 64)
		}
		_ = w.Write([]string{
			s.ID, s.IdentityID, s.DisplayName, s.CharacterName, s.Department, s.Rank,
			s.CallSign, s.ClockIn.Format(time.RFC3339), clockOut, duration,
			deref(s.Location), deref(s.Notes), s.Status,
		})
	}
	w.Flush()
	return buf.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
