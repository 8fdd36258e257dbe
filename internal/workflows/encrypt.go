package workflows

import (
	"context"

	"github.com/PolarWolf314/giournal/internal/journal"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	Common
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	journal.TransformResult
}

// Encrypt seals every plaintext entry, commits the rewritten files and
// pushes them.
//
// Returns ErrNoPassphrase or ErrWrongPassphrase if the key cannot be resolved.
// Returns ErrDecryptFailed, without rewriting anything, if a sealed entry
// does not open with the key.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	store, err := openStore(ctx, opts.Common, true)
	if err != nil {
		return nil, err
	}

	result, err := store.Encrypt(ctx)
	record(opts.Common, "encrypt", result.Changed, len(result.Changed), err)
	if err != nil && !isRemoteOnly(err) {
		return nil, err
	}
	return &EncryptResult{TransformResult: result}, err
}
