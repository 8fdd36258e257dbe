// Package audit keeps a local history of journal operations.
//
// Every workflow (add, list, encrypt, decrypt, sync) appends one record to a
// per-machine history file in the XDG state directory:
//
//	$XDG_STATE_HOME/giournal/history.jsonl
//
// Each line is one JSON object with the timestamp (RFC3339 with
// microseconds, UTC), device name, operation, affected entry names, a count
// and the error message if the operation failed. Entry bodies are never
// recorded.
//
// # Failure Handling
//
// History is best-effort. Log returns an error so callers can warn about
// it, but no operation fails because its history record could not be
// written.
//
// # Reading
//
// ReadEntries parses the file; lines that fail to parse (for example a
// partial write) are skipped.
package audit
