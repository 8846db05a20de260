package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/gitpet/schema"
)

// Color variables for console output, one per mood.
var (
	EncouragingColor = color.New(color.FgGreen)               // EncouragingColor is calm and supportive.
	CelebratingColor = color.New(color.FgMagenta, color.Bold) // CelebratingColor stands out for wins.
	ExcitedColor     = color.New(color.FgYellow, color.Bold)  // ExcitedColor is loud and energetic.
	ThinkingColor    = color.New(color.FgCyan)                // ThinkingColor is informational.
	NudgingColor     = color.New(color.FgRed)                 // NudgingColor asks for attention.
)

var moodEmojis = map[schema.Mood]string{
	schema.EncouragingMood: "🌱",
	schema.CelebratingMood: "🎉",
	schema.ExcitedMood:     "⚡",
	schema.ThinkingMood:    "🤔",
	schema.NudgingMood:     "👉",
}

// GetColorMood returns a colored mood label for console output (table).
func GetColorMood(m schema.Mood) string {
	text := string(m)
	switch m {
	case schema.EncouragingMood:
		return EncouragingColor.Sprint(text)
	case schema.CelebratingMood:
		return CelebratingColor.Sprint(text)
	case schema.ExcitedMood:
		return ExcitedColor.Sprint(text)
	case schema.ThinkingMood:
		return ThinkingColor.Sprint(text)
	case schema.NudgingMood:
		return NudgingColor.Sprint(text)
	default:
		return text
	}
}

// GetMoodEmoji returns the emoji for a mood, or an empty string for unknown moods.
func GetMoodEmoji(m schema.Mood) string {
	return moodEmojis[m]
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for the pattern store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitpet.db"
	}
	return filepath.Join(homeDir, ".gitpet.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
