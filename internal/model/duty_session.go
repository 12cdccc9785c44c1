package model

import (
	"math"
	"time"
)

// Duty session statuses.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// DutySession is one shift row. Created by clock-in with status=active,
// mutated exactly once by clock-out (clock_out, duration, completed),
// then immutable. Rows are kept forever for reporting.
type DutySession struct {
	ID            string     `json:"id"`
	IdentityID    string     `json:"identity_id"`
	DisplayName   string     `json:"display_name"`
	CharacterName string     `json:"character_name"`
	Department    string     `json:"department"`
	Rank          string     `json:"rank"`
	CallSign      string     `json:"call_sign"`
	ClockIn       time.Time  `json:"clock_in"`
	ClockOut      *time.Time `json:"clock_out,omitempty"`
	DurationHours *float64   `json:"duration_hours,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DurationHoursBetween computes the shift duration for a clock-in /
// clock-out pair: hours rounded to two decimals. Once stored it is
// never recomputed.
func DurationHoursBetween(clockIn, clockOut time.Time) float64 {
	h := clockOut.Sub(clockIn).Hours()
	return math.Round(h*100) / 100
}

// SessionFilters bounds a session scan. Zero values mean "no filter".
type SessionFilters struct {
	Department string     `json:"department,omitempty"`
	Status     string     `json:"status,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Search     string     `json:"search,omitempty"`
}

// Pagination describes one page of a session list.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalRows  int `json:"total_rows"`
	TotalPages int `json:"total_pages"`
}
