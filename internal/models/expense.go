package models

import "time"

// DateLayout is the calendar-date wire format for expense dates.
const DateLayout = "2006-01-02"

// Expense is a single spending record owned by exactly one user.
type Expense struct {
	Base
	UserID   string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Title    string    `gorm:"not null" json:"title"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Category string    `gorm:"not null;index" json:"category"`
	Date     time.Time `gorm:"type:date;not null" json:"date"`
	Notes    string    `json:"notes,omitempty"`
}

// ParseDate accepts a calendar date ("2024-01-01") or an RFC 3339 timestamp
// and returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateDate(ts), nil
}

// TruncateDate drops the time-of-day component, in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
