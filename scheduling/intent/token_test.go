package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstOfKind(tokens []Token, kind Kind) (Token, bool) {
	for _, tok := range tokens {
		if tok.Kind == kind {
			return tok, true
		}
	}
	return Token{}, false
}

func TestTokenize_ClockForms(t *testing.T) {
	cases := []struct {
		name      string
		utterance string
		hour      int
		minute    int
	}{
		{"inline pm", "dinner at 7pm", 19, 0},
		{"detached pm", "dinner at 7 pm", 19, 0},
		{"uppercase marker", "sync at 2 PM", 14, 0},
		{"minutes with marker", "call at 2:30pm", 14, 30},
		{"detached marker after minutes", "call at 2:30 pm", 14, 30},
		{"morning", "run at 6am", 6, 0},
		{"noon stays twelve", "lunch at 12pm", 12, 0},
		{"midnight wraps to zero", "party at 12am", 0, 0},
		{"24h colon form", "review at 14:30", 14, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, ok := firstOfKind(Tokenize(tc.utterance), KindTime)
			require.True(t, ok, "no time token in %q", tc.utterance)
			assert.Equal(t, tc.hour, tok.Hour)
			assert.Equal(t, tc.minute, tok.Minute)
		})
	}
}

func TestTokenize_BareNumberIsNotATime(t *testing.T) {
	_, ok := firstOfKind(Tokenize("buy 2 tickets"), KindTime)
	assert.False(t, ok)
	_, ok = firstOfKind(Tokenize("buy 2 tickets"), KindDuration)
	assert.False(t, ok)
}

func TestTokenize_Durations(t *testing.T) {
	tok, ok := firstOfKind(Tokenize("deep work for 2 hours"), KindDuration)
	require.True(t, ok)
	assert.Equal(t, 120, tok.Minutes)

	tok, ok = firstOfKind(Tokenize("standup for 15 minutes"), KindDuration)
	require.True(t, ok)
	assert.Equal(t, 15, tok.Minutes)
}

func TestTokenize_DurationNumberDoesNotShadowTime(t *testing.T) {
	tokens := Tokenize("sync at 2 pm for 1 hour")

	timeTok, ok := firstOfKind(tokens, KindTime)
	require.True(t, ok)
	assert.Equal(t, 14, timeTok.Hour)

	durTok, ok := firstOfKind(tokens, KindDuration)
	require.True(t, ok)
	assert.Equal(t, 60, durTok.Minutes)
}

func TestTokenize_DateKeywords(t *testing.T) {
	tok, ok := firstOfKind(Tokenize("dentist tomorrow at 9am"), KindDate)
	require.True(t, ok)
	assert.Equal(t, 1, tok.DayOffset)

	tok, ok = firstOfKind(Tokenize("review next week at 10am"), KindDate)
	require.True(t, ok)
	assert.Equal(t, 7, tok.DayOffset)

	_, ok = firstOfKind(Tokenize("walk the dog at 5pm"), KindDate)
	assert.False(t, ok)
}

func TestTokenize_PunctuationTolerant(t *testing.T) {
	tok, ok := firstOfKind(Tokenize("dinner at 7pm!"), KindTime)
	require.True(t, ok)
	assert.Equal(t, 19, tok.Hour)
}
