package workflows

import (
	"context"
)

// SyncOptions configures the sync workflow.
type SyncOptions struct {
	Common
}

// Sync pulls remote changes and pushes local commits without touching
// entries.
//
// Returns ErrOffline when the journal has no remote or Offline is set.
// Returns ErrMergeConflict when the merge needs manual resolution in the
// storage directory.
func Sync(ctx context.Context, opts SyncOptions) error {
	store, err := openStore(ctx, opts.Common, false)
	if err != nil {
		return err
	}

	err = store.Sync(ctx)
	record(opts.Common, "sync", nil, 0, err)
	return err
}
