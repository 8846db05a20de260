// Package agg has aggregation logic that turns commit history into metrics.
package agg

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangsam/gitpet/schema"
)

const (
	// maxStreakDays caps the backward walk over commit days.
	maxStreakDays = 30

	// recentMessageWindow is how many of the newest messages feed message quality.
	recentMessageWindow = 20

	day = 24 * time.Hour
)

var conventionalRe = regexp.MustCompile(`(?i)^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\(.*\))?:\s`)

// IsConventional reports whether a trimmed commit message uses a conventional-commit prefix.
func IsConventional(message string) bool {
	return conventionalRe.MatchString(message)
}

// ExtractMetrics derives the metrics tuple from commits at time now.
// The input is not modified and may be in any order.
func ExtractMetrics(commits []schema.CommitRecord, now time.Time) schema.Metrics {
	if len(commits) == 0 {
		return schema.Metrics{DaysSinceLast: schema.InfiniteDays}
	}

	sorted := SortNewestFirst(commits)

	return schema.Metrics{
		DaysSinceLast:   daysSince(sorted[0].AuthorDate, now),
		Streak:          computeStreak(sorted, now),
		AvgMsgLen:       avgMessageLength(sorted),
		PctConventional: pctConventional(sorted),
	}
}

// SortNewestFirst returns a copy of commits ordered by author date, newest first.
// Commits with equal dates keep their relative order.
func SortNewestFirst(commits []schema.CommitRecord) []schema.CommitRecord {
	sorted := slices.Clone(commits)
	slices.SortStableFunc(sorted, func(a, b schema.CommitRecord) int {
		return b.AuthorDate.Compare(a.AuthorDate)
	})
	return sorted
}

// daysSince returns the whole days elapsed from t to now, never negative.
func daysSince(t, now time.Time) schema.DayCount {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		return 0
	}
	return schema.DayCount(elapsed / day)
}

// computeStreak counts consecutive UTC commit days ending today.
// A missing today does not break the streak, any later gap does.
func computeStreak(commits []schema.CommitRecord, now time.Time) int {
	days := make(map[time.Time]struct{}, len(commits))
	for _, c := range commits {
		days[utcDate(c.AuthorDate)] = struct{}{}
	}

	today := utcDate(now)
	streak := 0
	for i := range maxStreakDays {
		if _, ok := days[today.AddDate(0, 0, -i)]; ok {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// recentMessages returns the trimmed messages of the newest commits.
func recentMessages(sorted []schema.CommitRecord) []string {
	n := min(len(sorted), recentMessageWindow)
	msgs := make([]string, n)
	for i := range n {
		msgs[i] = strings.TrimSpace(sorted[i].Message)
	}
	return msgs
}

func avgMessageLength(sorted []schema.CommitRecord) int {
	msgs := recentMessages(sorted)
	if len(msgs) == 0 {
		return 0
	}
	total := 0
	for _, m := range msgs {
		total += utf8.RuneCountInString(m)
	}
	return int(math.Round(float64(total) / float64(len(msgs))))
}

func pctConventional(sorted []schema.CommitRecord) int {
	msgs := recentMessages(sorted)
	if len(msgs) == 0 {
		return 0
	}
	matches := 0
	for _, m := range msgs {
		if IsConventional(m) {
			matches++
		}
	}
	return int(math.Round(100 * float64(matches) / float64(len(msgs))))
}
