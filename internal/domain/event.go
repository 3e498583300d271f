// Package domain contains the core types for milestone events and their
// computed beautiful dates.
package domain

import "time"

// Event is the anchor a user's beautiful dates are computed relative to,
// e.g. a wedding day or the start of a relationship.
type Event struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"` // calendar date, UTC midnight
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Day truncates t to a UTC calendar date (midnight).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar date.
func Today() time.Time {
	return Day(time.Now().UTC())
}
