package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// FreeSlot is a half-open interval [Start, End) expressed in minutes since
// midnight of a single calendar day, uncovered by any task on that day.
type FreeSlot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Minutes returns the slot length.
func (s FreeSlot) Minutes() int {
	return s.End - s.Start
}

// Label renders the slot as a human-readable clock range, e.g. "3:00 PM - 4:00 PM".
func (s FreeSlot) Label() string {
	return fmt.Sprintf("%s - %s", ClockLabel(s.Start), ClockLabel(s.End))
}

// ClockLabel formats minutes-since-midnight as a 12-hour clock string.
func ClockLabel(minutes int) string {
	hour := minutes / 60
	min := minutes % 60
	marker := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		marker = "PM"
	case hour > 12:
		display = hour - 12
		marker = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, min, marker)
}

// IntentStatus tags the outcome of interpreting an utterance.
type IntentStatus string

const (
	// IntentScheduled means a task draft was produced and the slot is free.
	IntentScheduled IntentStatus = "scheduled"
	// IntentNeedsTime means no time-of-day could be detected in the utterance.
	IntentNeedsTime IntentStatus = "needs_time"
	// IntentConflict means the requested interval overlaps an existing task.
	IntentConflict IntentStatus = "conflict"
)

// IntentResult carries the resolver outcome. On IntentScheduled the Task
// draft is fully populated; on IntentConflict Alternatives holds up to
// three candidate slots clipped to the requested duration.
type IntentResult struct {
	Status       IntentStatus `json:"status"`
	Task         *Task        `json:"task,omitempty"`
	Message      string       `json:"message"`
	Alternatives []FreeSlot   `json:"alternatives,omitempty"`
}

// ScheduleEvent is an append-only audit record of a task lifecycle change.
type ScheduleEvent struct {
	ID        string          `json:"id"`
	TaskID    string          `json:"task_id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Schedule event names recorded by the task use case and reminder service.
const (
	EventTaskCreated  = "task_created"
	EventTaskUpdated  = "task_updated"
	EventTaskDeleted  = "task_deleted"
	EventTaskDone     = "task_completed"
	EventReminderSent = "reminder_sent"
)

// DaySummary aggregates one user's schedule for a single day.
type DaySummary struct {
	Date           time.Time        `json:"date"`
	ScheduledCount int              `json:"scheduled_count"`
	CompletedCount int              `json:"completed_count"`
	BusyMinutes    int              `json:"busy_minutes"`
	FreeMinutes    int              `json:"free_minutes"`
	ByCategory     map[Category]int `json:"by_category,omitempty"`
}
