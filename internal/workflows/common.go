package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PolarWolf314/giournal/internal/audit"
	"github.com/PolarWolf314/giournal/internal/configs"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/journal"
	logger "github.com/PolarWolf314/giournal/internal/logging"
	"github.com/PolarWolf314/giournal/internal/secrets"
	"github.com/PolarWolf314/giournal/internal/utils"
	"github.com/PolarWolf314/giournal/internal/vcs"
)

// Common holds what every journal workflow needs from the invocation.
type Common struct {
	// Config is the loaded configuration. It is never modified.
	Config *configs.JournalConfiguration

	// HistoryPath is the history file. Empty disables history.
	HistoryPath string

	// Offline skips pulling and pushing.
	Offline bool

	Logger logger.Logger

	// Passphrase prompts for the passphrase when neither the environment
	// nor a passphrase file provides it. Nil disables prompting.
	Passphrase configs.PassphraseFunc

	// VersionControl replaces git. Nil uses git in the storage directory.
	VersionControl journal.VersionControl

	// Clock replaces time.Now for new entries.
	Clock func() time.Time
}

// ResolveKey derives the journal key. The passphrase comes from the
// environment variable named in the configuration, then the passphrase
// file, then the prompt. The key is checked against the stored key check.
func ResolveKey(c Common) (*secrets.Key, error) {
	passphrase, source, err := readPassphrase(c)
	if err != nil {
		return nil, err
	}
	c.Logger.Debugf("Using passphrase from %s", source)

	key, err := secrets.DeriveKey(passphrase, c.Config.Key.Salt, c.Config.Key.WorkFactor)
	if err != nil {
		return nil, err
	}
	if err := secrets.VerifyKey(key, c.Config.Key.Check); err != nil {
		return nil, err
	}
	return key, nil
}

func readPassphrase(c Common) ([]byte, string, error) {
	if name := c.Config.Key.PassphraseEnv; name != "" {
		if value := os.Getenv(name); value != "" {
			return []byte(value), "$" + name, nil
		}
	}

	if path := c.Config.Key.PassphraseFile; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("reading passphrase file: %w", err)
		}
		if value := strings.TrimRight(string(data), "\r\n"); value != "" {
			return []byte(value), path, nil
		}
	}

	if c.Passphrase == nil {
		return nil, "", kerrors.ErrNoPassphrase
	}
	passphrase, err := c.Passphrase("Journal passphrase: ")
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", kerrors.ErrNoPassphrase, err)
	}
	if len(passphrase) == 0 {
		return nil, "", kerrors.ErrNoPassphrase
	}
	return passphrase, "prompt", nil
}

// openStore prepares the repository and builds a journal store. When
// withKey is set the key is resolved first.
func openStore(ctx context.Context, c Common, withKey bool) (*journal.Store, error) {
	if c.Config == nil {
		return nil, kerrors.ErrConfigNotFound
	}

	vc, err := versionControl(ctx, c)
	if err != nil {
		return nil, err
	}

	var key *secrets.Key
	if withKey {
		if key, err = ResolveKey(c); err != nil {
			return nil, err
		}
	}
	return newStore(c, vc, key)
}

// openStoreFor opens a store and resolves the key unless the journal is
// decrypted, where new entries are plaintext and nothing needs opening.
func openStoreFor(ctx context.Context, c Common) (*journal.Store, journal.Mode, error) {
	if c.Config == nil {
		return nil, journal.ModeEmpty, kerrors.ErrConfigNotFound
	}

	vc, err := versionControl(ctx, c)
	if err != nil {
		return nil, journal.ModeEmpty, err
	}

	store, err := newStore(c, vc, nil)
	if err != nil {
		return nil, journal.ModeEmpty, err
	}
	mode, err := store.Mode()
	if err != nil || mode == journal.ModeDecrypted {
		return store, mode, err
	}

	key, err := ResolveKey(c)
	if err != nil {
		return nil, mode, err
	}
	store, err = newStore(c, vc, key)
	return store, mode, err
}

func newStore(c Common, vc journal.VersionControl, key *secrets.Key) (*journal.Store, error) {
	opts := []journal.Option{
		journal.WithLogger(c.Logger),
		journal.WithOffline(c.Offline),
	}
	if c.Clock != nil {
		opts = append(opts, journal.WithClock(c.Clock))
	}
	if vc != nil {
		opts = append(opts, journal.WithVersionControl(vc))
	}
	if key != nil {
		opts = append(opts, journal.WithKey(key))
	}
	return journal.NewStore(c.Config, opts...)
}

// versionControl returns the configured collaborator, setting up git in the
// storage directory on first use. Without git installed the journal works
// locally.
func versionControl(ctx context.Context, c Common) (journal.VersionControl, error) {
	if c.VersionControl != nil {
		return c.VersionControl, nil
	}
	if _, err := exec.LookPath("git"); err != nil {
		c.Logger.Warnf("git not found, the journal will not be versioned")
		return nil, nil
	}

	if err := utils.EnsureDir(c.Config.StorageDirectory); err != nil {
		return nil, err
	}

	g := vcs.New(c.Config, c.Logger)
	if err := g.EnsureRepository(ctx, c.Config.Remote.URL); err != nil {
		return nil, fmt.Errorf("preparing git repository: %w", err)
	}
	return g, nil
}

// record appends a history entry. Failures are logged, never returned.
func record(c Common, op string, names []string, count int, opErr error) {
	if c.HistoryPath == "" {
		return
	}

	entry := audit.Entry{
		Device:    deviceName(c),
		Operation: op,
		Entries:   names,
		Count:     count,
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}

	if err := audit.Log(c.HistoryPath, entry); err != nil {
		c.Logger.Warnf("Could not record history: %v", err)
	}
}

func deviceName(c Common) string {
	if c.Config != nil && c.Config.Device.Name != "" {
		return c.Config.Device.Name
	}
	return utils.DefaultDeviceName()
}

// isRemoteOnly reports whether err leaves local changes intact, so the
// operation is reported alongside a partial result.
func isRemoteOnly(err error) bool {
	return errors.Is(err, kerrors.ErrPushFailed)
}
