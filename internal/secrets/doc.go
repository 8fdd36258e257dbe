// Package secrets provides the cryptographic operations for journal entries.
//
// # Key Derivation
//
// The journal key is derived from a passphrase with scrypt. The salt and
// work factor live in the journal configuration:
//
//	key, err := secrets.DeriveKey(passphrase, cfg.Key.Salt, cfg.Key.WorkFactor)
//
// N is 1 << work factor, r is 8 and p is 1. The configuration may also hold
// a key check (base64 SHA-256 of the derived key) so a mistyped passphrase is
// rejected before any entry is touched.
//
// # Sealed Entries
//
// Entries are encrypted with NaCl secretbox under a random 24-byte nonce.
// The nonce is prepended to the ciphertext and the result is base64 encoded
// on a single line behind a fixed prefix:
//
//	$giournal$v1$<base64(nonce || ciphertext)>
//
// The prefix lets callers tell sealed files from plaintext by content alone,
// so the journal never needs a separate record of which files are encrypted.
// Sealing the same text twice produces different output.
package secrets
