package schema

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FirstLine returns the first non-empty line of a commit message, trimmed.
func FirstLine(message string) string {
	for line := range strings.SplitSeq(message, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Truncate shortens s to at most limit runes, appending an ellipsis when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	rr := []rune(s)
	return string(rr[:limit]) + "…"
}

// DayTypeOf classifies t as a weekday or weekend day.
func DayTypeOf(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// ParseMood validates a mood string.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidMoods[m]; !ok {
		return "", fmt.Errorf("invalid mood '%s'. must be one of %s", s, joinMoods())
	}
	return m, nil
}

// ParseReaction validates a reaction string.
func ParseReaction(s string) (Reaction, error) {
	r := Reaction(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidReactions[r]; !ok {
		return "", fmt.Errorf("invalid reaction '%s'. must be positive, negative or neutral", s)
	}
	return r, nil
}

// MoodRank returns the canonical position of m, or len(AllMoods) for unknown moods.
func MoodRank(m Mood) int {
	for i, known := range AllMoods {
		if known == m {
			return i
		}
	}
	return len(AllMoods)
}

func joinMoods() string {
	names := make([]string, len(AllMoods))
	for i, m := range AllMoods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
