package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/gitpet/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintPatternCounts prints how many interaction records are stored per type.
func PrintPatternCounts(w io.Writer, counts schema.PatternCounts) {
	_, _ = fmt.Fprintf(w, "Productivity Samples: %d\n", counts.Productivity)
	_, _ = fmt.Fprintf(w, "Sprint Outcomes: %d\n", counts.Sprints)
	_, _ = fmt.Fprintf(w, "Feedback Reactions: %d\n", counts.Reactions)
}
