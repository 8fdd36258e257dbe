// Package utils provides shared helper functions for giournal.
//
// # Filesystem Utilities
//
//   - ExpandHome: expands a leading ~ to the user's home directory
//   - EnsureDir: creates a directory tree with restrictive permissions
//
// # System Utilities
//
//   - GetUsername, GetHostname: identify the current machine
//   - SanitizeDeviceName, DefaultDeviceName: names recorded in commit messages
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - JoinWords: joins positional arguments into an entry body
//
// # I/O and Terminal Utilities
//
//   - ReadStdin: reads an entry body piped on standard input
//   - ReadPassphrase, ReadPassphraseFromTTY, PromptPassphrase: prompt without echo
//   - IsTerminal: reports whether stdin is interactive
//   - WaitForEnterFromTTY: pause until the user presses Enter
package utils
