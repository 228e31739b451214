package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slotwise/backend/domain"
)

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func task(id string, start, end time.Time) domain.Task {
	return domain.Task{ID: id, Title: id, StartTime: start, EndTime: end}
}

func TestHasConflict_Overlap(t *testing.T) {
	tasks := []domain.Task{task("a", at(t, 9, 0), at(t, 10, 0))}

	assert.True(t, HasConflict(tasks, at(t, 9, 30), at(t, 10, 30), ""))
	assert.True(t, HasConflict(tasks, at(t, 8, 30), at(t, 9, 30), ""))
	assert.True(t, HasConflict(tasks, at(t, 9, 15), at(t, 9, 45), ""), "nested interval")
	assert.True(t, HasConflict(tasks, at(t, 8, 0), at(t, 11, 0), ""), "covering interval")
}

func TestHasConflict_TouchingEndpointsDoNotConflict(t *testing.T) {
	tasks := []domain.Task{task("a", at(t, 9, 0), at(t, 10, 0))}

	assert.False(t, HasConflict(tasks, at(t, 8, 0), at(t, 9, 0), ""))
	assert.False(t, HasConflict(tasks, at(t, 10, 0), at(t, 11, 0), ""))
}

func TestHasConflict_Symmetric(t *testing.T) {
	a := task("a", at(t, 9, 0), at(t, 10, 0))
	b := task("b", at(t, 9, 30), at(t, 11, 0))

	ab := HasConflict([]domain.Task{a}, b.StartTime, b.EndTime, "")
	ba := HasConflict([]domain.Task{b}, a.StartTime, a.EndTime, "")
	assert.Equal(t, ab, ba)
	assert.True(t, ab)
}

func TestHasConflict_ExcludeID(t *testing.T) {
	tasks := []domain.Task{task("a", at(t, 9, 0), at(t, 10, 0))}

	// A task never conflicts with itself when excluded by id.
	assert.False(t, HasConflict(tasks, at(t, 9, 0), at(t, 10, 0), "a"))
	assert.True(t, HasConflict(tasks, at(t, 9, 0), at(t, 10, 0), "other"))
}

func TestHasConflict_EmptyCollection(t *testing.T) {
	assert.False(t, HasConflict(nil, at(t, 9, 0), at(t, 10, 0), ""))
}

func TestHasConflict_Pure(t *testing.T) {
	tasks := []domain.Task{task("a", at(t, 9, 0), at(t, 10, 0))}

	first := HasConflict(tasks, at(t, 9, 30), at(t, 10, 30), "")
	second := HasConflict(tasks, at(t, 9, 30), at(t, 10, 30), "")
	assert.Equal(t, first, second)
}
