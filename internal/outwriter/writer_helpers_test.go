package outwriter

import (
	"testing"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/assert"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "short text", 20, []string{"short text"}},
		{"wraps on spaces", "one two three four", 9, []string{"one two", "three", "four"}},
		{"long word stays whole", "supercalifragilistic ok", 5, []string{"supercalifragilistic", "ok"}},
		{"counts runes", "ñññ ñññ", 7, []string{"ñññ ñññ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.in, tt.width))
		})
	}
}

func TestGetMaxTextWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{60, 56},
		{10, minTextWidth},
		{400, maxTextWidth},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetMaxTextWidth(&contract.Config{Width: tt.width}))
	}
	detected := GetMaxTextWidth(&contract.Config{})
	assert.GreaterOrEqual(t, detected, minTextWidth)
	assert.LessOrEqual(t, detected, maxTextWidth)
}

func TestMoodLabel(t *testing.T) {
	assert.Equal(t, "nudging", moodLabel(schema.NudgingMood, &contract.Config{}))
	assert.Equal(t, "👉 nudging", moodLabel(schema.NudgingMood, &contract.Config{UseEmojis: true}))
	assert.Equal(t, "mystery", moodLabel("mystery", &contract.Config{UseEmojis: true}))
	assert.Contains(t, moodLabel(schema.NudgingMood, &contract.Config{UseColors: true}), "nudging")
}

func TestOptionalFormatting(t *testing.T) {
	assert.Equal(t, notAvailable, optionalInt(nil, fmtHour))
	assert.Equal(t, "07:00", optionalInt(ptr(7), fmtHour))
	assert.Equal(t, notAvailable, optionalFloat(nil))
	assert.Equal(t, "0.75", optionalFloat(ptr(0.75)))
	assert.Equal(t, notAvailable, orNotAvailable(schema.Trend("")))
	assert.Equal(t, "stable", orNotAvailable(schema.StableTrend))
	assert.Equal(t, "50%", fmtPercent(0.5))
}
