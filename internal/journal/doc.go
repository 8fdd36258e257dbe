// Package journal implements the encrypted, git-synchronized entry store.
//
// # Entries
//
// Every entry is one file in the storage directory, named by its creation
// time in UTC with microsecond precision:
//
//	2024-03-09_21-15-42.123456.md
//
// The name is fixed width, so lexical order is chronological order. Entry
// bodies are never edited after creation; they only move between plaintext
// and sealed form (see package secrets).
//
// # Mode
//
// The store never records whether the journal is encrypted. Each operation
// inspects the files on disk and derives a Mode: empty, encrypted,
// decrypted or mixed. New entries are sealed unless the journal is
// decrypted, or is empty and the store was built without a key.
//
// # Atomic Replace
//
// Files are written to a temporary sibling (".<name>.tmp-<random>"),
// synced, and renamed over the target. An interrupted run leaves either the
// old or the new content in place plus a stray temporary file, which entry
// discovery ignores and NewStore removes.
//
// # Remote Ordering
//
// Operations that touch the remote pull first, mutate local files second and
// push last. Plaintext produced by Decrypt is never committed; the next
// Encrypt seals and commits it.
package journal
