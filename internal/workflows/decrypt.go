package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/giournal/internal/journal"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	Common

	// WaitAndReencrypt, when set, is called after decrypting. When it
	// returns the journal is encrypted again.
	WaitAndReencrypt func() error
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// Decrypted lists the entries rewritten as plaintext.
	Decrypted journal.TransformResult

	// Reencrypted is set when WaitAndReencrypt was used.
	Reencrypted *journal.TransformResult
}

// Decrypt rewrites every sealed entry as plaintext. The plaintext is not
// committed. With WaitAndReencrypt the entries are sealed again, committed
// and pushed once the callback returns.
//
// Returns ErrDecryptFailed, without rewriting anything, if any entry does
// not open with the key.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	store, err := openStore(ctx, opts.Common, true)
	if err != nil {
		return nil, err
	}

	decrypted, err := store.Decrypt(ctx)
	record(opts.Common, "decrypt", decrypted.Changed, len(decrypted.Changed), err)
	if err != nil {
		return nil, err
	}

	result := &DecryptResult{Decrypted: decrypted}
	if opts.WaitAndReencrypt == nil {
		return result, nil
	}

	// The journal stays decrypted if waiting fails; encrypting later is
	// always possible.
	if err := opts.WaitAndReencrypt(); err != nil {
		return result, fmt.Errorf("waiting to re-encrypt: %w", err)
	}

	reencrypted, err := store.Encrypt(ctx)
	record(opts.Common, "encrypt", reencrypted.Changed, len(reencrypted.Changed), err)
	if err != nil && !isRemoteOnly(err) {
		return result, err
	}
	result.Reencrypted = &reencrypted
	return result, err
}
