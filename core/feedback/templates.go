package feedback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/gitpet/schema"
)

// Pools are ordered. Each template references the metric that triggers its category.
var defaultPools = map[schema.FeedbackCategory][]string{
	schema.QuietCategory: {
		"It's been {days} days since your last commit. Even a tiny change keeps me happy!",
		"Your repo has been quiet for {days} days. I miss the sound of commits.",
		"{days} days without a commit... how about a small fix today?",
	},
	schema.StreakShortMessageCategory: {
		"{streak}-day streak! Try giving your commits more detail, they average {avg} characters.",
		"You're on a {streak}-day roll! Longer messages than {avg} characters help future you.",
		"Great {streak}-day streak. One more sentence per message would make it perfect.",
	},
	schema.LowConventionalCategory: {
		"Only {pct}% of your recent commits follow Conventional Commits. Try a 'feat:' or 'fix:' prefix!",
		"Your messages are descriptive, but just {pct}% use conventional prefixes.",
		"{pct}% conventional so far. A 'type(scope): summary' format makes history easy to scan.",
	},
	schema.DefaultCategory: {
		"nice commit! {pct}% of your recent messages are conventional.",
		"solid work, that makes a {streak}-day streak.",
		"love it. Your messages average {avg} characters, keep them coming!",
	},
}

var categoryMoods = map[schema.FeedbackCategory]schema.Mood{
	schema.QuietCategory:              schema.EncouragingMood,
	schema.StreakShortMessageCategory: schema.ExcitedMood,
	schema.LowConventionalCategory:    schema.ThinkingMood,
	schema.DefaultCategory:            schema.CelebratingMood,
	schema.ErrorCategory:              schema.EncouragingMood,
}

// FallbackText is shown when the commit history cannot be fetched.
const FallbackText = "I couldn't reach your commits right now. Check your connection or token, then try again. I'll be here!"

// noCommitsText fills {days} when the history is empty.
const noCommitsText = "many"

// teaserLimit is the maximum excerpt length of the newest commit message.
const teaserLimit = 30

// lastCommitFallback replaces the excerpt when the newest message is empty.
const lastCommitFallback = "your last commit"

// render fills the metric placeholders of a template.
func render(template string, m schema.Metrics) string {
	days := noCommitsText
	if !m.DaysSinceLast.IsInfinite() {
		days = m.DaysSinceLast.String()
	}
	r := strings.NewReplacer(
		"{days}", days,
		"{streak}", strconv.Itoa(m.Streak),
		"{avg}", strconv.Itoa(m.AvgMsgLen),
		"{pct}", strconv.Itoa(m.PctConventional),
	)
	return r.Replace(template)
}

// rationale explains why a category was chosen, using the actual metric values.
func rationale(category schema.FeedbackCategory, m schema.Metrics) string {
	switch category {
	case schema.QuietCategory:
		if m.DaysSinceLast.IsInfinite() {
			return "Repo has no commits yet"
		}
		return fmt.Sprintf("Repo quiet for %d days (more than 3)", int(m.DaysSinceLast))
	case schema.StreakShortMessageCategory:
		return fmt.Sprintf("%d-day streak with messages averaging %d characters (under 20)", m.Streak, m.AvgMsgLen)
	case schema.LowConventionalCategory:
		return fmt.Sprintf("%d%% conventional commits (under 30%%) with messages averaging %d characters", m.PctConventional, m.AvgMsgLen)
	default:
		return ""
	}
}

// teaser quotes a short excerpt of the newest commit message.
func teaser(latestMessage string) string {
	line := schema.FirstLine(latestMessage)
	if line == "" {
		return lastCommitFallback
	}
	return strconv.Quote(schema.Truncate(line, teaserLimit))
}
