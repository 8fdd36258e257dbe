package errors

import "errors"

// Configuration errors indicate the configuration file cannot be used.
var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigMalformed indicates the configuration file cannot be parsed or is invalid.
	ErrConfigMalformed = errors.New("configuration file is malformed")

	// ErrConfigExists indicates initialisation would overwrite an existing configuration.
	ErrConfigExists = errors.New("configuration file already exists")
)

// Entry errors indicate problems with a journal entry itself.
var (
	// ErrEmptyEntry indicates the entry text was empty after trimming whitespace.
	ErrEmptyEntry = errors.New("entry is empty")

	// ErrEntryExists indicates an entry with the same timestamp already exists.
	ErrEntryExists = errors.New("an entry with this timestamp already exists")

	// ErrSealedText indicates the entry text is itself in encrypted form and
	// would be mistaken for an encrypted entry.
	ErrSealedText = errors.New("entry text is in encrypted form")

	// ErrNotCommitted indicates a plaintext entry was written but not committed.
	// It is committed by the next encrypt.
	ErrNotCommitted = errors.New("entry is not committed")

	// ErrInvalidEntryName indicates a file name does not encode an entry timestamp.
	ErrInvalidEntryName = errors.New("invalid entry file name")
)

// Cryptographic errors indicate failures during key derivation, encryption or decryption.
var (
	// ErrKeyRequired indicates an operation needs the journal key but none was provided.
	ErrKeyRequired = errors.New("journal key is required")

	// ErrNoPassphrase indicates no passphrase source was available.
	ErrNoPassphrase = errors.New("no passphrase available")

	// ErrWrongPassphrase indicates the derived key does not match the configured key check.
	ErrWrongPassphrase = errors.New("passphrase does not match this journal")

	// ErrEncryptFailed indicates an entry could not be encrypted.
	ErrEncryptFailed = errors.New("failed to encrypt entry")

	// ErrDecryptFailed indicates an entry could not be decrypted.
	ErrDecryptFailed = errors.New("failed to decrypt entry")

	// ErrInvalidKeyMaterial indicates the salt or work factor is unusable.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)

// Remote errors indicate failures talking to the version-control collaborator.
var (
	// ErrNotARepository indicates the storage directory is not a git repository.
	ErrNotARepository = errors.New("storage directory is not a git repository")

	// ErrPullFailed indicates fetching and merging remote history failed.
	ErrPullFailed = errors.New("failed to pull from remote")

	// ErrMergeConflict indicates the merge left conflicts for the user to resolve.
	ErrMergeConflict = errors.New("merge conflict with remote")

	// ErrCommitFailed indicates the local commit could not be created.
	ErrCommitFailed = errors.New("failed to commit changes")

	// ErrPushFailed indicates local history could not be pushed to the remote.
	ErrPushFailed = errors.New("failed to push to remote")

	// ErrOffline indicates the journal has no remote to synchronize with.
	ErrOffline = errors.New("journal has no remote configured")
)

// Collaborator errors indicate failures in external programs.
var (
	// ErrEditorFailed indicates the external editor could not be run or exited with an error.
	ErrEditorFailed = errors.New("editor failed")
)
