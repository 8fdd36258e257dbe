package workflows

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PolarWolf314/giournal/internal/editor"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/journal"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	Common

	// Text is the entry body. Surrounding whitespace is removed.
	Text string
}

// AddResult contains the outcome of an add operation.
type AddResult struct {
	// Entry is the entry written.
	Entry journal.Entry

	// Mode is the journal mode the entry was written under.
	Mode journal.Mode

	// Committed is false for a plaintext entry, which stays out of the
	// repository until the next encrypt.
	Committed bool
}

// Add writes Text as a new entry.
//
// Returns ErrEmptyEntry for blank text before the store is opened, so no
// passphrase is asked for.
// Returns the result together with an error wrapping ErrPushFailed when
// the entry was committed locally but could not be pushed.
func Add(ctx context.Context, opts AddOptions) (*AddResult, error) {
	if strings.TrimSpace(opts.Text) == "" {
		return nil, kerrors.ErrEmptyEntry
	}

	store, mode, err := openStoreFor(ctx, opts.Common)
	if err != nil {
		return nil, err
	}

	entry, err := store.AddEntry(ctx, opts.Text)
	committed := true
	if errors.Is(err, kerrors.ErrNotCommitted) {
		committed, err = false, nil
	}
	if err != nil && !isRemoteOnly(err) {
		record(opts.Common, "add", nil, 0, err)
		return nil, err
	}

	record(opts.Common, "add", []string{entry.Name}, 1, err)
	return &AddResult{
		Entry:     entry,
		Mode:      mode,
		Committed: committed,
	}, err
}

// ComposeFunc opens an editor and returns the text written.
type ComposeFunc func(ctx context.Context, command string, now time.Time) (string, error)

// ComposeOptions configures the compose workflow.
type ComposeOptions struct {
	Common

	// Compose runs the editor. Nil uses editor.Compose.
	Compose ComposeFunc
}

// Compose opens the configured editor on a new file and adds what it
// contains when the editor exits. An editor failure adds nothing.
func Compose(ctx context.Context, opts ComposeOptions) (*AddResult, error) {
	compose := opts.Compose
	if compose == nil {
		compose = editor.Compose
	}

	now := time.Now()
	if opts.Clock != nil {
		now = opts.Clock()
	}

	command := ""
	if opts.Config != nil {
		command = opts.Config.Editor
	}

	text, err := compose(ctx, command, now)
	if err != nil {
		return nil, err
	}

	return Add(ctx, AddOptions{Common: opts.Common, Text: text})
}
