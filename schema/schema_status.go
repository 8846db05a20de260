package schema

import "time"

// StoreStatus represents the status of the key-value store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// PatternCounts summarizes how many records each interaction list holds.
type PatternCounts struct {
	Productivity int `json:"productivity"`
	Sprints      int `json:"sprints"`
	Reactions    int `json:"reactions"`
}
