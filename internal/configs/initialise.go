package configs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/secrets"
	"github.com/PolarWolf314/giournal/internal/utils"
)

// PassphraseFunc reads a passphrase after showing prompt.
type PassphraseFunc func(prompt string) ([]byte, error)

// InitOptions configures Initialise.
type InitOptions struct {
	// In supplies answers to prompts, one per line. Defaults to os.Stdin.
	In io.Reader

	// Out receives prompts. Defaults to os.Stdout.
	Out io.Writer

	// AssumeDefaults skips prompts and uses defaults and preset values.
	AssumeDefaults bool

	// Preset values skip the matching prompt when non-empty.
	StorageDirectory string
	Editor           string
	RemoteURL        string

	// DefaultStorageDirectory is offered when prompting for the storage directory.
	DefaultStorageDirectory string

	// Passphrase, when set, is asked twice and the resulting key check is stored.
	Passphrase PassphraseFunc

	// WorkFactor overrides the scrypt work factor. Zero uses the default.
	WorkFactor uint

	// OnBackup is told where an unreadable configuration was copied before
	// it was replaced.
	OnBackup func(backupPath string)
}

// Initialise prompts for the journal settings, generates key material and a
// device identity, and saves the configuration at path.
func Initialise(path string, opts InitOptions) (*JournalConfiguration, error) {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	reader := bufio.NewReader(in)

	ask := func(preset, prompt, defaultValue string) (string, error) {
		if preset != "" {
			return preset, nil
		}
		if opts.AssumeDefaults {
			return defaultValue, nil
		}
		return promptForInput(reader, out, prompt, defaultValue)
	}

	defaultStorage := opts.DefaultStorageDirectory
	if defaultStorage == "" {
		defaultStorage = ResolvePaths().DataDir
	}

	storage, err := ask(opts.StorageDirectory, "Journal directory", defaultStorage)
	if err != nil {
		return nil, err
	}
	editor, err := ask(opts.Editor, "Editor command (blank for system default)", "")
	if err != nil {
		return nil, err
	}
	remote, err := ask(opts.RemoteURL, "Remote repository URL (blank to keep the journal local)", "")
	if err != nil {
		return nil, err
	}

	salt, err := secrets.NewSalt()
	if err != nil {
		return nil, err
	}

	workFactor := opts.WorkFactor
	if workFactor == 0 {
		workFactor = secrets.DefaultWorkFactor
	}

	config := &JournalConfiguration{
		StorageDirectory: storage,
		Editor:           editor,
		Remote: RemoteConfig{
			URL:    remote,
			Name:   DefaultRemoteName,
			Branch: DefaultBranch,
		},
		Key: KeyConfig{
			Salt:          salt,
			WorkFactor:    workFactor,
			PassphraseEnv: DefaultPassphraseEnv,
		},
		Device: DeviceConfig{
			ID:   GenerateDeviceID(),
			Name: utils.DefaultDeviceName(),
		},
	}

	if opts.Passphrase != nil {
		check, err := keyCheck(opts.Passphrase, salt, workFactor)
		if err != nil {
			return nil, err
		}
		config.Key.Check = check
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrConfigMalformed, err)
	}

	if err := Save(path, config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrInitialise loads the configuration at path. A missing file runs
// Initialise once and loads again; a second failure is returned.
//
// A malformed file whose key.salt still decodes is never replaced: the
// ErrConfigMalformed error is returned so the file can be repaired. Any other
// malformed file is copied with BackupConfig before Initialise replaces it.
func LoadOrInitialise(path string, opts InitOptions) (*JournalConfiguration, bool, error) {
	config, err := Load(path)
	if err == nil {
		return config, false, nil
	}

	switch {
	case errors.Is(err, kerrors.ErrConfigNotFound):
	case errors.Is(err, kerrors.ErrConfigMalformed):
		if HasKeySalt(path) {
			return nil, false, fmt.Errorf("%w, the key salt is intact so the file was left unchanged", err)
		}
		backup, backupErr := BackupConfig(path, time.Now())
		if backupErr != nil {
			return nil, false, fmt.Errorf("%w, and it could not be backed up: %v", err, backupErr)
		}
		if opts.OnBackup != nil {
			opts.OnBackup(backup)
		}
	default:
		return nil, false, err
	}

	if _, initErr := Initialise(path, opts); initErr != nil {
		return nil, false, fmt.Errorf("initialising configuration after %v: %w", err, initErr)
	}

	config, err = Load(path)
	if err != nil {
		return nil, true, fmt.Errorf("loading configuration after initialisation: %w", err)
	}
	return config, true, nil
}

// keyCheck asks for the passphrase twice and derives the key verifier.
func keyCheck(read PassphraseFunc, salt string, workFactor uint) (string, error) {
	passphrase, err := read("Passphrase: ")
	if err != nil {
		return "", err
	}
	confirm, err := read("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if !bytes.Equal(passphrase, confirm) {
		return "", fmt.Errorf("passphrases didn't match")
	}

	key, err := secrets.DeriveKey(passphrase, salt, workFactor)
	if err != nil {
		return "", err
	}
	return key.Check(), nil
}

// promptForInput prompts the user for input with an optional default value.
// End of input selects the default.
func promptForInput(reader *bufio.Reader, out io.Writer, prompt, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(out, "%s: ", prompt)
	}

	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}
