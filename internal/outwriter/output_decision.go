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

// PrintDecision outputs a decision, dispatching based on the output format configured.
func PrintDecision(d schema.Decision, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, d)
		}, "Wrote JSON decision"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDecisionCSV(w, d)
		}, "Wrote CSV decision"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDecisionText(w, d, cfg)
		}, "Wrote decision"); err != nil {
			return fmt.Errorf("error writing text output: %w", err)
		}
	}
	return nil
}

// writeDecisionText prints the pet message followed by the metrics behind it.
func writeDecisionText(w io.Writer, d schema.Decision, cfg *contract.Config) error {
	width := GetMaxTextWidth(cfg)

	if _, err := fmt.Fprintf(w, "%s  [%s]\n", moodLabel(d.Mood, cfg), d.Category); err != nil {
		return err
	}
	for _, line := range wrapText(d.Text, width) {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Why: %s\n", d.Rationale); err != nil {
		return err
	}
	if d.Override != nil && d.Baseline != nil {
		if _, err := fmt.Fprintf(w, "Personalized (%s). Default advice was: %s\n",
			d.Override.Kind, schema.Truncate(d.Baseline.Text, width)); err != nil {
			return err
		}
	}

	if d.Metrics != nil {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := writeMetricsTable(w, *d.Metrics); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Scope %s analyzed in %v (state %s, learner confidence %s). Store backend: %s\n",
		d.Scope, d.Duration, d.State, fmtPercent(d.Confidence.Overall), cfg.StoreBackend)
	return err
}

func writeMetricsTable(w io.Writer, m schema.Metrics) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Days Since Last", "Streak", "Avg Msg Len", "Conventional"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	row := []string{
		m.DaysSinceLast.String(),
		strconv.Itoa(m.Streak),
		strconv.Itoa(m.AvgMsgLen),
		strconv.Itoa(m.PctConventional) + "%",
	}
	if err := table.Bulk([][]string{row}); err != nil {
		return err
	}
	return table.Render()
}

// writeDecisionCSV writes a single-row CSV of the decision.
func writeDecisionCSV(w io.Writer, d schema.Decision) error {
	header := []string{
		"flow_id",
		"scope",
		"state",
		"category",
		"mood",
		"text",
		"rationale",
		"override",
		"days_since_last",
		"streak",
		"avg_msg_len",
		"pct_conventional",
		"confidence",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		override := ""
		if d.Override != nil {
			override = string(d.Override.Kind)
		}
		days, streak, msgLen, conventional := "", "", "", ""
		if d.Metrics != nil {
			days = d.Metrics.DaysSinceLast.String()
			streak = strconv.Itoa(d.Metrics.Streak)
			msgLen = strconv.Itoa(d.Metrics.AvgMsgLen)
			conventional = strconv.Itoa(d.Metrics.PctConventional)
		}
		return cw.Write([]string{
			d.FlowID,
			d.Scope,
			string(d.State),
			string(d.Category),
			string(d.Mood),
			d.Text,
			d.Rationale,
			override,
			days,
			streak,
			msgLen,
			conventional,
			fmtFloat(d.Confidence.Overall),
		})
	})
}
