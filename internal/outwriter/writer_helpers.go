package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
)

// notAvailable marks a prediction that is gated off or an empty insight.
const notAvailable = "-"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header and then the rows produced by writeRows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// fmtFloat renders scores and confidences with two decimals.
func fmtFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// fmtPercent renders a [0,1] confidence as a whole percentage.
func fmtPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// fmtHour renders an hour of the day as HH:00.
func fmtHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// moodLabel renders a mood with the optional emoji and color.
func moodLabel(m schema.Mood, cfg *contract.Config) string {
	label := string(m)
	if cfg.UseColors {
		label = contract.GetColorMood(m)
	}
	if cfg.UseEmojis {
		if e := contract.GetMoodEmoji(m); e != "" {
			label = e + " " + label
		}
	}
	return label
}

// wrapText breaks s on spaces so that no line exceeds width runes, unless a single word does.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

func optionalInt(p *int, format func(int) string) string {
	if p == nil {
		return notAvailable
	}
	return format(*p)
}

func optionalFloat(p *float64) string {
	if p == nil {
		return notAvailable
	}
	return fmtFloat(*p)
}

func orNotAvailable[T ~string](s T) string {
	if s == "" {
		return notAvailable
	}
	return string(s)
}
