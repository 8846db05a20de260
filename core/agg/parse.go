package agg

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
)

// ParseCommitLog parses the output of GitClient.GetCommitLog into commit records.
// Records are returned in log order and numbered by position.
func ParseCommitLog(out []byte) ([]schema.CommitRecord, error) {
	var commits []schema.CommitRecord
	for raw := range strings.SplitSeq(string(out), contract.LogRecordSep) {
		record := strings.TrimLeft(raw, "\r\n")
		if strings.TrimSpace(record) == "" {
			continue
		}

		fields := strings.SplitN(record, contract.LogFieldSep, 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed commit log record %q", truncateForError(record))
		}

		date, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("bad author date for %s: %w", fields[0], err)
		}

		commits = append(commits, schema.CommitRecord{
			SHA:        strings.TrimSpace(fields[0]),
			Message:    strings.TrimRight(fields[2], "\r\n"),
			AuthorDate: date,
			Position:   len(commits),
		})
	}
	return commits, nil
}

func truncateForError(s string) string {
	return schema.Truncate(s, 40)
}
