package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintInsights outputs the insights report, dispatching based on the output format configured.
func PrintInsights(report schema.InsightsReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON insights"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsCSV(w, report)
		}, "Wrote CSV insights"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightsText(w, report, cfg)
		}, "Wrote insights"); err != nil {
			return fmt.Errorf("error writing text output: %w", err)
		}
	}
	return nil
}

// insightRow is one line of the insight summary shared by text and CSV.
type insightRow struct {
	name       string
	value      string
	prediction string
	confidence float64
}

func insightRows(r schema.InsightsReport, cfg *contract.Config) []insightRow {
	p := r.Predictions
	mood := orNotAvailable(r.Insights.PreferredMoodStyle)
	if cfg != nil && r.Insights.PreferredMoodStyle != "" {
		mood = moodLabel(r.Insights.PreferredMoodStyle, cfg)
	}
	return []insightRow{
		{"productivity_trend", orNotAvailable(r.Insights.ProductivityTrend), orNotAvailable(p.ProductivityTrend), r.Confidence.Productivity},
		{"current_productivity", notAvailable, optionalFloat(p.CurrentProductivity), r.Confidence.Productivity},
		{"best_upcoming_hour", notAvailable, optionalInt(p.BestUpcomingHour, fmtHour), r.Confidence.Productivity},
		{"sprint_duration", strconv.Itoa(r.Insights.OptimalSprintDuration) + "m", optionalInt(p.RecommendedSprintDuration, func(m int) string { return strconv.Itoa(m) + "m" }), r.Confidence.Sprints},
		{"preferred_mood", mood, orNotAvailable(p.PreferredMoodStyle), r.Confidence.Mood},
	}
}

// writeInsightsText prints best hours, the insight summary and record counts.
func writeInsightsText(w io.Writer, r schema.InsightsReport, cfg *contract.Config) error {
	if len(r.Insights.BestProductivityHours) > 0 {
		hours := tablewriter.NewWriter(w)
		hours.Header([]string{"Rank", "Hour", "Avg Score", "Confidence"})
		hours.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for i, h := range r.Insights.BestProductivityHours {
			data = append(data, []string{strconv.Itoa(i + 1), fmtHour(h.Hour), fmtFloat(h.AvgScore), fmtPercent(h.Confidence)})
		}
		if err := hours.Bulk(data); err != nil {
			return err
		}
		if err := hours.Render(); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w, "No productive hours learned yet."); err != nil {
		return err
	}

	summary := tablewriter.NewWriter(w)
	summary.Header([]string{"Insight", "Learned", "Prediction", "Confidence"})
	var data [][]string
	for _, row := range insightRows(r, cfg) {
		data = append(data, []string{row.name, row.value, row.prediction, fmtPercent(row.confidence)})
	}
	if err := summary.Bulk(data); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Overall confidence %s from %d productivity samples, %d sprints, %d reactions\n",
		fmtPercent(r.Confidence.Overall), r.Counts.Productivity, r.Counts.Sprints, r.Counts.Reactions)
	return err
}

// writeInsightsCSV writes best hours and the insight summary as one flat table.
func writeInsightsCSV(w io.Writer, r schema.InsightsReport) error {
	return writeCSVWithHeader(w, []string{"insight", "learned", "prediction", "confidence"}, func(cw *csv.Writer) error {
		for i, h := range r.Insights.BestProductivityHours {
			name := fmt.Sprintf("best_hour_%d", i+1)
			if err := cw.Write([]string{name, fmtHour(h.Hour), fmtFloat(h.AvgScore), fmtFloat(h.Confidence)}); err != nil {
				return err
			}
		}
		for _, row := range insightRows(r, nil) {
			if err := cw.Write([]string{row.name, row.value, row.prediction, fmtFloat(row.confidence)}); err != nil {
				return err
			}
		}
		return cw.Write([]string{"overall", notAvailable, notAvailable, fmtFloat(r.Confidence.Overall)})
	})
}
