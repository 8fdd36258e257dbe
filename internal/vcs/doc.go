// Package vcs drives the git command line for the journal's storage directory.
//
// Git implements the three primitives the journal store needs (pull, commit,
// push) plus repository setup and a status summary. Every call runs the git
// binary with GIT_TERMINAL_PROMPT=0 so a missing credential fails instead of
// hanging, and with GIT_SSH_COMMAND set when a dedicated SSH key is
// configured. Failures carry git's stderr and wrap the matching sentinel
// from the errors package.
package vcs
