package scheduling

import (
	"time"

	"github.com/slotwise/backend/domain"
)

// DefaultReminderLead is how far before a task's start a reminder may fire.
const DefaultReminderLead = 15 * time.Minute

// Notification is the payload handed to the delivery sink. Rendering and
// transport are the sink's concern.
type Notification struct {
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	Color       string    `json:"color,omitempty"`
}

// NotificationSink delivers reminder notifications. A failed delivery is the
// sink's concern and never blocks marking a task as notified.
type NotificationSink interface {
	Notify(n Notification)
}

// Sweep scans the collection once and fires at most one notification per
// task: those with reminders enabled, not completed, not yet notified, and
// starting within (0, lead] of now. It returns a copy of the collection with
// ReminderSent flipped for fired tasks, plus the fired tasks themselves so
// the caller can persist the flips. Repeated sweeps never re-fire because
// the flag is monotonic.
func Sweep(tasks []domain.Task, now time.Time, lead time.Duration, sink NotificationSink) (updated, fired []domain.Task) {
	if lead <= 0 {
		lead = DefaultReminderLead
	}
	updated = make([]domain.Task, len(tasks))
	copy(updated, tasks)

	for i := range updated {
		t := &updated[i]
		if !t.Reminder || t.Completed || t.ReminderSent {
			continue
		}
		until := t.StartTime.Sub(now)
		if until <= 0 || until > lead {
			continue
		}
		if sink != nil {
			sink.Notify(Notification{
				TaskID:      t.ID,
				UserID:      t.UserID,
				Title:       t.Title,
				Description: t.Description,
				StartTime:   t.StartTime,
				Color:       t.Color,
			})
		}
		t.ReminderSent = true
		fired = append(fired, *t)
	}
	return updated, fired
}
