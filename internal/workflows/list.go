package workflows

import (
	"context"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	Common
}

// ListResult contains the rendered journal.
type ListResult struct {
	// Text is every entry in chronological order.
	Text string

	// Count is the number of entries.
	Count int
}

// List pulls and renders every entry. Sealed entries are opened in memory;
// no file is changed.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	store, _, err := openStoreFor(ctx, opts.Common)
	if err != nil {
		return nil, err
	}

	text, err := store.ListEntries(ctx)
	if err != nil {
		record(opts.Common, "list", nil, 0, err)
		return nil, err
	}

	count := 0
	if stats, err := store.Stats(); err == nil {
		count = stats.Total
	}

	record(opts.Common, "list", nil, count, nil)
	return &ListResult{Text: text, Count: count}, nil
}
