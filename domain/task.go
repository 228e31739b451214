package domain

import (
	"strings"
	"time"
)

// Category classifies a task for display and statistics.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryHealth   Category = "health"
	CategoryPersonal Category = "personal"
	CategoryGeneral  Category = "general"
)

// Priority expresses how important a task is to the user.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task represents a time-boxed entry on a user's calendar.
// StartTime must precede EndTime; this is validated at the API boundary,
// the scheduling core assumes well-formed intervals.
type Task struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Category     Category   `json:"category"`
	Priority     Priority   `json:"priority"`
	Color        string     `json:"color,omitempty"`
	Reminder     bool       `json:"reminder"`
	ReminderSent bool       `json:"reminder_sent"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DurationMinutes returns the task length in whole minutes.
func (t *Task) DurationMinutes() int {
	if t == nil {
		return 0
	}
	return int(t.EndTime.Sub(t.StartTime) / time.Minute)
}

// StartsOn reports whether the task starts on the given calendar day,
// evaluated in the day's location.
func (t *Task) StartsOn(day time.Time) bool {
	if t == nil {
		return false
	}
	start := t.StartTime.In(day.Location())
	y1, m1, d1 := start.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// NormalizeTitle trims whitespace and falls back to the default title.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "New Task"
	}
	return title
}

// ValidCategory reports whether the value is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryWork, CategoryHealth, CategoryPersonal, CategoryGeneral:
		return true
	}
	return false
}

// ValidPriority reports whether the value is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
