// Package configs manages the journal configuration for giournal.
//
// Configuration is stored in TOML format, by default at
// $XDG_CONFIG_HOME/giournal/config.toml (normally ~/.config/giournal/config.toml).
// The GIOURNAL_CONFIG environment variable overrides the location.
//
// # Journal Configuration
//
// The config stores:
//   - Storage directory holding the entry files and their git repository
//   - Optional editor command used by --editor
//   - Remote repository URL, branch and optional SSH key
//   - Key material: scrypt salt and work factor, where to find the passphrase,
//     and an optional key check to reject a wrong passphrase early
//   - Device identity (UUID and name) used in commit messages and history
//
// # Lifecycle
//
// Load returns ErrConfigNotFound or ErrConfigMalformed when the file cannot
// be used. LoadOrInitialise reacts to a missing file by running Initialise,
// which prompts for settings and saves them with 0600 permissions, then loads
// again. A second failure is returned to the caller.
//
// The salt exists only in this file, so a malformed file that still holds a
// decodable key.salt is reported rather than replaced. Other malformed files
// are copied to config.toml.bak-<timestamp> before a new one is written.
//
// The configuration is a plain value: callers load it once per invocation
// and pass it to the journal store explicitly.
package configs
