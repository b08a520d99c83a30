package models

// HabitFrequency is how often a habit is meant to be performed.
type HabitFrequency string

const (
	HabitFrequencyDaily   HabitFrequency = "daily"
	HabitFrequencyWeekly  HabitFrequency = "weekly"
	HabitFrequencyMonthly HabitFrequency = "monthly"
)

// Valid reports whether f is a known frequency.
func (f HabitFrequency) Valid() bool {
	switch f {
	case HabitFrequencyDaily, HabitFrequencyWeekly, HabitFrequencyMonthly:
		return true
	}
	return false
}

// Habit is a recurring activity tracked by one user.
type Habit struct {
	Base
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description,omitempty"`
	Frequency   HabitFrequency `gorm:"not null" json:"frequency"`
}
