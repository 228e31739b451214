package scheduling

import (
	"sort"
	"time"

	"github.com/slotwise/backend/domain"
)

// Day window defaults: 08:00 to 22:00 as minutes since midnight.
const (
	DefaultDayStartMin = 8 * 60
	DefaultDayEndMin   = 22 * 60
)

// DayWindow bounds the portion of a calendar day over which free time is
// computed, in minutes since midnight.
type DayWindow struct {
	StartMin int
	EndMin   int
}

// DefaultWindow returns the 08:00-22:00 window.
func DefaultWindow() DayWindow {
	return DayWindow{StartMin: DefaultDayStartMin, EndMin: DefaultDayEndMin}
}

// Minutes returns the window length.
func (w DayWindow) Minutes() int {
	return w.EndMin - w.StartMin
}

// FreeSlots returns the ordered, disjoint gaps inside the window that are
// not covered by any task starting on the given day. The sweep advances the
// cursor with max(cursor, task end), which keeps it correct when task
// intervals overlap or nest. Zero-length slots are never emitted.
func FreeSlots(tasks []domain.Task, day time.Time, window DayWindow) []domain.FreeSlot {
	dayTasks := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].StartsOn(day) {
			dayTasks = append(dayTasks, tasks[i])
		}
	}
	sort.Slice(dayTasks, func(i, j int) bool {
		return dayTasks[i].StartTime.Before(dayTasks[j].StartTime)
	})

	var slots []domain.FreeSlot
	cursor := window.StartMin
	for i := range dayTasks {
		start := minuteOfDay(dayTasks[i].StartTime, day.Location())
		end := minuteOfDay(dayTasks[i].EndTime, day.Location())
		if start > cursor {
			slot := domain.FreeSlot{Start: cursor, End: min(start, window.EndMin)}
			if slot.Minutes() > 0 && slot.Start < window.EndMin {
				slots = append(slots, slot)
			}
		}
		if end > cursor {
			cursor = end
		}
	}
	if cursor < window.EndMin {
		start := cursor
		if start < window.StartMin {
			start = window.StartMin
		}
		slots = append(slots, domain.FreeSlot{Start: start, End: window.EndMin})
	}
	return slots
}

// minuteOfDay converts an instant to minutes since midnight in loc.
func minuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}
