package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/backend/domain"
)

var ref = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

func TestResolve_RoundTrip(t *testing.T) {
	res := Resolve("Schedule team sync tomorrow at 2 PM for 1 hour", nil, ref, DefaultConfig())

	require.Equal(t, domain.IntentScheduled, res.Status)
	require.NotNil(t, res.Task)
	assert.Equal(t, "Team sync", res.Task.Title)
	assert.Equal(t, domain.CategoryWork, res.Task.Category)
	assert.Equal(t, time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC), res.Task.StartTime)
	assert.Equal(t, time.Date(2026, time.March, 11, 15, 0, 0, 0, time.UTC), res.Task.EndTime)
	assert.Equal(t, domain.PriorityMedium, res.Task.Priority)
	assert.True(t, res.Task.Reminder)
	assert.False(t, res.Task.ReminderSent)
	assert.False(t, res.Task.Completed)
	assert.NotEmpty(t, res.Task.ID)
	assert.Equal(t, DefaultConfig().Palette[domain.CategoryWork], res.Task.Color)
	assert.Contains(t, res.Message, "Team sync")
}

func TestResolve_NoTimeDetected(t *testing.T) {
	res := Resolve("schedule team sync sometime soon", nil, ref, DefaultConfig())

	assert.Equal(t, domain.IntentNeedsTime, res.Status)
	assert.Nil(t, res.Task)
	assert.Empty(t, res.Alternatives)
	assert.NotEmpty(t, res.Message)
}

func TestResolve_ConflictSuggestsAlternatives(t *testing.T) {
	day := ref.AddDate(0, 0, 1)
	existing := []domain.Task{{
		ID:        "busy",
		Title:     "Busy",
		StartTime: time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(day.Year(), day.Month(), day.Day(), 15, 0, 0, 0, time.UTC),
	}}

	res := Resolve("Schedule team sync tomorrow at 2 PM for 1 hour", existing, ref, DefaultConfig())

	require.Equal(t, domain.IntentConflict, res.Status)
	assert.Nil(t, res.Task)
	require.NotEmpty(t, res.Alternatives)
	assert.LessOrEqual(t, len(res.Alternatives), 3)
	for _, slot := range res.Alternatives {
		assert.Equal(t, 60, slot.Minutes(), "alternatives are clipped to the requested duration")
	}
	// Chronological order.
	assert.Equal(t, domain.FreeSlot{Start: 480, End: 540}, res.Alternatives[0])
}

func TestResolve_FullyBookedDay(t *testing.T) {
	day := ref.AddDate(0, 0, 1)
	existing := []domain.Task{{
		ID:        "all-day",
		StartTime: time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(day.Year(), day.Month(), day.Day(), 22, 0, 0, 0, time.UTC),
	}}

	res := Resolve("team sync tomorrow at 2pm", existing, ref, DefaultConfig())

	assert.Equal(t, domain.IntentConflict, res.Status)
	assert.Empty(t, res.Alternatives)
	assert.Contains(t, res.Message, "fully booked")
}

func TestResolve_DefaultsApply(t *testing.T) {
	res := Resolve("book 9am", nil, ref, DefaultConfig())

	require.Equal(t, domain.IntentScheduled, res.Status)
	assert.Equal(t, "New Task", res.Task.Title, "empty title after stripping falls back")
	assert.Equal(t, domain.CategoryGeneral, res.Task.Category)
	assert.Equal(t, 60, res.Task.DurationMinutes(), "duration defaults to one hour")
	assert.Equal(t, ref.Day(), res.Task.StartTime.Day(), "no date keyword keeps the reference date")
}

func TestResolve_CategoryPriorityOrder(t *testing.T) {
	cases := []struct {
		utterance string
		category  domain.Category
	}{
		{"schedule client call at 3pm", domain.CategoryWork},
		{"gym session at 6pm", domain.CategoryHealth},
		{"dinner with friends at 7pm", domain.CategoryPersonal},
		{"water the plants at 5pm", domain.CategoryGeneral},
		// "run" is a health keyword but "review" (work) is tested first.
		{"review the run report at 4pm", domain.CategoryWork},
	}

	for _, tc := range cases {
		res := Resolve(tc.utterance, nil, ref, DefaultConfig())
		require.Equal(t, domain.IntentScheduled, res.Status, tc.utterance)
		assert.Equal(t, tc.category, res.Task.Category, tc.utterance)
	}
}

func TestResolve_RemindMeToVerb(t *testing.T) {
	res := Resolve("remind me to stretch at 4pm for 10 minutes", nil, ref, DefaultConfig())

	require.Equal(t, domain.IntentScheduled, res.Status)
	assert.Equal(t, "Stretch", res.Task.Title)
	assert.Equal(t, 10, res.Task.DurationMinutes())
}

// Only the first time mention is honored; an explicit end time is discarded
// and the duration default applies instead.
func TestResolve_FirstTimeMentionWins(t *testing.T) {
	res := Resolve("meeting tomorrow from 2pm to 4pm", nil, ref, DefaultConfig())

	require.Equal(t, domain.IntentScheduled, res.Status)
	assert.Equal(t, 14, res.Task.StartTime.Hour())
	assert.Equal(t, 15, res.Task.EndTime.Hour())
}

func TestResolve_ExplicitDurationOverridesDefault(t *testing.T) {
	res := Resolve("yoga at 7am for 90 minutes", nil, ref, DefaultConfig())

	require.Equal(t, domain.IntentScheduled, res.Status)
	assert.Equal(t, 90, res.Task.DurationMinutes())
}
