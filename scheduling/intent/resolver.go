package intent

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/scheduling"
)

// CategoryRule binds a keyword set to a category. Rules are evaluated in
// slice order and the first matching rule wins, so ordering matters when
// keyword sets overlap.
type CategoryRule struct {
	Category domain.Category
	Keywords []string
}

// Config carries every tunable of the resolver as explicit immutable data:
// no package-level state.
type Config struct {
	Window          scheduling.DayWindow
	DefaultDuration time.Duration
	MaxAlternatives int
	Verbs           []string
	CategoryRules   []CategoryRule
	Palette         map[domain.Category]string
	PriorityColors  map[domain.Priority]string
}

// DefaultConfig returns the stock resolver configuration.
func DefaultConfig() Config {
	return Config{
		Window:          scheduling.DefaultWindow(),
		DefaultDuration: time.Hour,
		MaxAlternatives: 3,
		Verbs: []string{
			"remind me to", "set up", "schedule", "add", "create", "book",
		},
		CategoryRules: []CategoryRule{
			{Category: domain.CategoryWork, Keywords: []string{
				"meeting", "sync", "standup", "review", "interview", "presentation",
				"client", "project", "deadline", "report", "call", "work",
			}},
			{Category: domain.CategoryHealth, Keywords: []string{
				"gym", "workout", "run", "yoga", "doctor", "dentist",
				"exercise", "meditation", "therapy", "walk",
			}},
			{Category: domain.CategoryPersonal, Keywords: []string{
				"birthday", "dinner", "lunch", "family", "friend",
				"shopping", "movie", "party", "errand", "date",
			}},
		},
		Palette: map[domain.Category]string{
			domain.CategoryWork:     "#3b82f6",
			domain.CategoryHealth:   "#10b981",
			domain.CategoryPersonal: "#8b5cf6",
			domain.CategoryGeneral:  "#6b7280",
		},
		PriorityColors: map[domain.Priority]string{
			domain.PriorityLow:    "#9ca3af",
			domain.PriorityMedium: "#f59e0b",
			domain.PriorityHigh:   "#ef4444",
		},
	}
}

// Resolve interprets an utterance against the given task collection and
// reference date and produces a draft or a structured failure.
//
// Known limitation: only the first time mention is used. "from 2 PM to
// 3 PM" schedules at 2 PM with the default or explicit duration, and the
// second mention is discarded.
func Resolve(utterance string, tasks []domain.Task, ref time.Time, cfg Config) domain.IntentResult {
	tokens := Tokenize(utterance)

	var timeTok *Token
	dayOffset := 0
	dateSeen := false
	duration := cfg.DefaultDuration
	durationSeen := false

	for i := range tokens {
		switch tokens[i].Kind {
		case KindTime:
			if timeTok == nil {
				timeTok = &tokens[i]
			}
		case KindDate:
			if !dateSeen {
				dayOffset = tokens[i].DayOffset
				dateSeen = true
			}
		case KindDuration:
			if !durationSeen {
				duration = time.Duration(tokens[i].Minutes) * time.Minute
				durationSeen = true
			}
		}
	}

	title := buildTitle(tokens, cfg.Verbs)
	category := inferCategory(title, cfg.CategoryRules)

	if timeTok == nil {
		return domain.IntentResult{
			Status:  domain.IntentNeedsTime,
			Message: fmt.Sprintf("I couldn't find a time in that. When should I schedule %q?", title),
		}
	}

	day := ref.AddDate(0, 0, dayOffset)
	start := time.Date(day.Year(), day.Month(), day.Day(), timeTok.Hour, timeTok.Minute, 0, 0, ref.Location())
	end := start.Add(duration)

	if scheduling.HasConflict(tasks, start, end, "") {
		return conflictResult(tasks, day, start, duration, cfg)
	}

	draft := &domain.Task{
		ID:        uuid.NewString(),
		Title:     title,
		StartTime: start,
		EndTime:   end,
		Category:  category,
		Priority:  domain.PriorityMedium,
		Color:     cfg.Palette[category],
		Reminder:  true,
	}
	return domain.IntentResult{
		Status: domain.IntentScheduled,
		Task:   draft,
		Message: fmt.Sprintf("Scheduled %q on %s from %s to %s.",
			title,
			start.Format("Mon, Jan 2"),
			start.Format("3:04 PM"),
			end.Format("3:04 PM")),
	}
}

// conflictResult assembles the alternatives response: that day's free slots
// long enough for the request, clipped to the requested duration, at most
// cfg.MaxAlternatives of them in chronological order.
func conflictResult(tasks []domain.Task, day, start time.Time, duration time.Duration, cfg Config) domain.IntentResult {
	need := int(duration / time.Minute)
	var alternatives []domain.FreeSlot
	for _, slot := range scheduling.FreeSlots(tasks, day, cfg.Window) {
		if slot.Minutes() < need {
			continue
		}
		alternatives = append(alternatives, domain.FreeSlot{Start: slot.Start, End: slot.Start + need})
		if len(alternatives) == cfg.MaxAlternatives {
			break
		}
	}

	msg := fmt.Sprintf("%s is already taken.", start.Format("3:04 PM"))
	if len(alternatives) > 0 {
		labels := make([]string, len(alternatives))
		for i, slot := range alternatives {
			labels[i] = slot.Label()
		}
		msg += " How about " + strings.Join(labels, ", ") + "?"
	} else {
		msg += " That day looks fully booked."
	}

	return domain.IntentResult{
		Status:       domain.IntentConflict,
		Message:      msg,
		Alternatives: alternatives,
	}
}

// buildTitle joins the leftover literal words: command verbs are stripped,
// as are the connectives "at" and "for" when they directly precede a
// consumed time or duration token.
func buildTitle(tokens []Token, verbs []string) string {
	var words []string
	for i := 0; i < len(tokens); i++ {
		if tokens[i].Kind != KindLiteral {
			continue
		}
		if n := matchPhrase(tokens, i, verbs); n > 0 {
			i += n - 1
			continue
		}
		lower := strings.ToLower(trimPunct(tokens[i].Text))
		if i+1 < len(tokens) {
			next := tokens[i+1].Kind
			if (lower == "at" && next == KindTime) || (lower == "for" && next == KindDuration) {
				continue
			}
		}
		words = append(words, trimPunct(tokens[i].Text))
	}

	title := strings.TrimSpace(strings.Join(words, " "))
	if title == "" {
		return "New Task"
	}
	return capitalize(title)
}

// matchPhrase reports how many literal tokens starting at i spell out one of
// the verb phrases, or zero when none match.
func matchPhrase(tokens []Token, i int, phrases []string) int {
	for _, phrase := range phrases {
		parts := strings.Fields(phrase)
		if i+len(parts) > len(tokens) {
			continue
		}
		matched := true
		for j, part := range parts {
			tok := tokens[i+j]
			if tok.Kind != KindLiteral || strings.ToLower(trimPunct(tok.Text)) != part {
				matched = false
				break
			}
		}
		if matched {
			return len(parts)
		}
	}
	return 0
}

func inferCategory(title string, rules []CategoryRule) domain.Category {
	lower := strings.ToLower(title)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Category
			}
		}
	}
	return domain.CategoryGeneral
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
