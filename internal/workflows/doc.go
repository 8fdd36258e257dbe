// Package workflows provides high-level orchestration for giournal commands.
//
// Workflows coordinate the configuration, secrets, journal, version control
// and audit packages to implement complete user-facing features. Each
// workflow handles a single operation's business logic, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Loads the configuration once and passes it in through Common
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving the journal key (environment, passphrase file, prompt)
//   - Preparing the git repository and building the journal store
//   - Performing the operation
//   - Recording a history entry
//
// # Available Workflows
//
//   - Add: writes an inline entry
//   - Compose: opens the editor and writes what it returns
//   - List: renders every entry
//   - Encrypt: seals plaintext entries, commits and pushes
//   - Decrypt: opens sealed entries in place, optionally re-encrypting after a pause
//   - Sync: pulls and pushes without touching entries
//   - Status: summarises the journal and its repository
//   - History: reads the local operation history
//   - Init: creates the configuration and repository
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Add(ctx, opts)
//	if errors.Is(err, kerrors.ErrPushFailed) {
//	    // result.Entry is committed locally
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Cancelling it stops git and the editor; files are only ever replaced
// atomically, so an interrupted workflow leaves the journal consistent.
package workflows
