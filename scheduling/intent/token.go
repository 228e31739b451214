// Package intent turns a free-form utterance into a task draft. It is a
// bounded heuristic, not a grammar: a tokenizer tags each word as a time
// mention, date keyword, duration phrase, or literal, and a small rule
// evaluator consumes the tags in fixed priority order.
package intent

import (
	"strconv"
	"strings"
)

// Kind tags a token produced by the tokenizer.
type Kind int

const (
	KindLiteral Kind = iota
	KindTime
	KindDate
	KindDuration
)

// Token is one tagged span of the utterance. Time tokens carry a normalized
// 24-hour clock, date tokens a day offset from the reference date, and
// duration tokens a length in minutes.
type Token struct {
	Kind      Kind
	Text      string
	Hour      int
	Minute    int
	DayOffset int
	Minutes   int
}

// Tokenize splits the utterance into words and tags each one. Multi-word
// phrases ("next week", "2 pm", "30 minutes") collapse into a single token.
func Tokenize(utterance string) []Token {
	words := strings.Fields(utterance)
	tokens := make([]Token, 0, len(words))

	for i := 0; i < len(words); i++ {
		word := words[i]
		lower := strings.ToLower(trimPunct(word))

		// "next week" shifts the reference date by seven days.
		if lower == "next" && i+1 < len(words) && strings.ToLower(trimPunct(words[i+1])) == "week" {
			tokens = append(tokens, Token{Kind: KindDate, Text: word + " " + words[i+1], DayOffset: 7})
			i++
			continue
		}
		if lower == "tomorrow" {
			tokens = append(tokens, Token{Kind: KindDate, Text: word, DayOffset: 1})
			continue
		}

		if hour, minute, ok := parseClock(lower); ok {
			tokens = append(tokens, Token{Kind: KindTime, Text: word, Hour: hour, Minute: minute})
			continue
		}

		// A bare number is ambiguous: "2 pm" is a time, "2 hours" a
		// duration, anything else stays literal.
		if n, err := strconv.Atoi(lower); err == nil {
			if i+1 < len(words) {
				next := strings.ToLower(trimPunct(words[i+1]))
				if marker, ok := meridiem(next); ok {
					hour, minute := normalizeClock(n, 0, marker)
					tokens = append(tokens, Token{Kind: KindTime, Text: word + " " + words[i+1], Hour: hour, Minute: minute})
					i++
					continue
				}
				if unit, ok := durationUnit(next); ok {
					tokens = append(tokens, Token{Kind: KindDuration, Text: word + " " + words[i+1], Minutes: n * unit})
					i++
					continue
				}
			}
			tokens = append(tokens, Token{Kind: KindLiteral, Text: word})
			continue
		}

		// "2:30" followed by a detached am/pm marker.
		if len(tokens) > 0 {
			last := &tokens[len(tokens)-1]
			if last.Kind == KindTime && !strings.ContainsAny(strings.ToLower(last.Text), "ap") {
				if marker, ok := meridiem(lower); ok {
					last.Hour, last.Minute = normalizeClock(clockBase(last.Hour), last.Minute, marker)
					last.Text += " " + word
					continue
				}
			}
		}

		tokens = append(tokens, Token{Kind: KindLiteral, Text: word})
	}
	return tokens
}

// parseClock recognizes "14:30", "2:30pm" and "2pm" forms. A bare "2:30"
// without a meridiem is taken as a 24-hour clock reading.
func parseClock(word string) (hour, minute int, ok bool) {
	rest := word
	marker := ""
	for _, m := range []string{"am", "pm", "a.m.", "p.m."} {
		if strings.HasSuffix(rest, m) {
			marker = string(m[0])
			rest = strings.TrimSuffix(rest, m)
			break
		}
	}

	hh, mm := rest, ""
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		hh, mm = rest[:idx], rest[idx+1:]
	} else if marker == "" {
		// Without a colon or meridiem this is just a number, not a time.
		return 0, 0, false
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m := 0
	if mm != "" {
		if m, err = strconv.Atoi(mm); err != nil || m < 0 || m > 59 || len(mm) != 2 {
			return 0, 0, false
		}
	}
	if marker != "" && (h < 1 || h > 12) {
		return 0, 0, false
	}

	h, m = normalizeClock(h, m, marker)
	return h, m, true
}

// normalizeClock converts a 12-hour reading to 24-hour form: pm adds twelve
// unless the hour is already twelve, and 12am wraps to hour zero.
func normalizeClock(hour, minute int, marker string) (int, int) {
	switch marker {
	case "p":
		if hour != 12 {
			hour += 12
		}
	case "a":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute
}

// clockBase undoes a previous pm normalization so a detached marker can be
// applied to the original 12-hour reading.
func clockBase(hour int) int {
	if hour > 12 {
		return hour - 12
	}
	return hour
}

func meridiem(word string) (string, bool) {
	switch word {
	case "am", "a.m":
		return "a", true
	case "pm", "p.m":
		return "p", true
	}
	return "", false
}

func durationUnit(word string) (int, bool) {
	switch word {
	case "hour", "hours", "hr", "hrs":
		return 60, true
	case "minute", "minutes", "min", "mins":
		return 1, true
	}
	return 0, false
}

func trimPunct(word string) string {
	return strings.Trim(word, ".,!?;:")
}
