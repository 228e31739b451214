// Package scheduling holds the pure calendar core: interval conflict
// detection, free-slot computation over a bounded day window, and the
// reminder sweep. Functions here never perform I/O and only read the task
// collection passed to them, so they are safe to call from any goroutine.
package scheduling

import (
	"time"

	"github.com/slotwise/backend/domain"
)

// HasConflict reports whether the half-open candidate interval [start, end)
// overlaps any task in the collection. Touching endpoints do not conflict.
// excludeID skips one task, for in-place edits; pass "" for new tasks.
//
// Callers must guarantee start < end; the detector performs no validation.
func HasConflict(tasks []domain.Task, start, end time.Time, excludeID string) bool {
	for i := range tasks {
		t := &tasks[i]
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		if start.Before(t.EndTime) && end.After(t.StartTime) {
			return true
		}
	}
	return false
}
