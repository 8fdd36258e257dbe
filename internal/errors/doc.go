// Package errors provides typed error values for giournal.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Configuration errors: the config file is missing or unreadable
//     (ErrConfigNotFound, ErrConfigMalformed)
//   - Entry errors: invalid or clashing entries (ErrEmptyEntry, ErrEntryExists)
//   - Crypto errors: key and sealing failures (ErrWrongPassphrase, ErrDecryptFailed)
//   - Remote errors: git pull, commit and push failures (ErrPullFailed, ErrPushFailed)
//   - Collaborator errors: the external editor (ErrEditorFailed)
//
// # Usage
//
// Return errors from internal packages:
//
//	if strings.TrimSpace(text) == "" {
//	    return journal.Entry{}, errors.ErrEmptyEntry
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Add(ctx, opts)
//	if errors.Is(err, kerrors.ErrPushFailed) {
//	    // The entry is committed locally, tell the user to sync later.
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("opening entry %s: %w", name, errors.ErrDecryptFailed)
package errors
