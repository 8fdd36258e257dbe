package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/giournal/internal/audit"
)

// HistoryOptions configures the history workflow.
type HistoryOptions struct {
	// HistoryPath is the history file to read.
	HistoryPath string

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool
}

// HistoryResult contains the selected history entries.
type HistoryResult struct {
	Entries []audit.Entry

	// Total is the number of entries before Limit was applied.
	Total int
}

// History reads the local operation history, most recent Limit entries.
// A missing history file is an empty history.
func History(ctx context.Context, opts HistoryOptions) (*HistoryResult, error) {
	entries, err := audit.ReadEntries(opts.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	selected := audit.Last(entries, opts.Limit)
	if opts.Reverse {
		reversed := make([]audit.Entry, len(selected))
		for i, e := range selected {
			reversed[len(selected)-1-i] = e
		}
		selected = reversed
	}

	return &HistoryResult{Entries: selected, Total: len(entries)}, nil
}
