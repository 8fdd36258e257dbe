package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PolarWolf314/giournal/internal/configs"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	logger "github.com/PolarWolf314/giournal/internal/logging"
	"github.com/PolarWolf314/giournal/internal/secrets"
	"github.com/PolarWolf314/giournal/internal/utils"
)

// VersionControl is the remote collaborator the store synchronizes through.
// Each call either fully succeeds or reports an error.
type VersionControl interface {
	// Pull merges remote history into the local repository.
	Pull(ctx context.Context) error
	// Commit records the given paths, relative to the storage directory.
	Commit(ctx context.Context, message string, paths ...string) error
	// Push sends local history to the remote.
	Push(ctx context.Context) error
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the key used to seal and open entries.
func WithKey(key *secrets.Key) Option {
	return func(s *Store) { s.key = key }
}

// WithVersionControl sets the collaborator used to pull, commit and push.
// Without one the store works purely locally.
func WithVersionControl(vc VersionControl) Option {
	return func(s *Store) { s.vc = vc }
}

// WithClock replaces time.Now when naming new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithOffline skips pulling and pushing. Commits still happen.
func WithOffline(offline bool) Option {
	return func(s *Store) { s.offline = offline }
}

// Store owns the entry files of one journal.
type Store struct {
	dir       string
	device    string
	hasRemote bool
	offline   bool

	key *secrets.Key
	vc  VersionControl
	now func() time.Time
	log logger.Logger

	// beforeReplace runs between writing a temporary file and renaming it.
	// Tests use it to simulate an interruption.
	beforeReplace func(name string) error
}

// NewStore creates the storage directory if needed, removes temporary files
// left by an interrupted run and returns a store for it. The configuration
// is read, never modified.
func NewStore(cfg *configs.JournalConfiguration, opts ...Option) (*Store, error) {
	if cfg == nil || cfg.StorageDirectory == "" {
		return nil, fmt.Errorf("%w: storage directory is not set", kerrors.ErrConfigMalformed)
	}

	s := &Store{
		dir:       cfg.StorageDirectory,
		device:    cfg.Device.Name,
		hasRemote: cfg.HasRemote(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.device == "" {
		s.device = utils.DefaultDeviceName()
	}

	if err := utils.EnsureDir(s.dir); err != nil {
		return nil, err
	}
	if err := s.removeTempFiles(); err != nil {
		return nil, err
	}

	return s, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Online reports whether the store pulls from and pushes to a remote.
func (s *Store) Online() bool {
	return s.vc != nil && s.hasRemote && !s.offline
}

// AddEntry writes text as a new entry and commits and pushes it.
//
// The text is trimmed; a blank text returns ErrEmptyEntry and text already in
// sealed form returns ErrSealedText, both without touching disk or remote.
// If the push fails the entry stays committed locally and is returned along
// with an error wrapping ErrPushFailed. A plaintext entry is returned along
// with an error wrapping ErrNotCommitted: it is on disk and reaches the
// remote with the next Encrypt.
func (s *Store) AddEntry(ctx context.Context, text string) (Entry, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return Entry{}, kerrors.ErrEmptyEntry
	}
	if secrets.IsSealed([]byte(body)) {
		return Entry{}, kerrors.ErrSealedText
	}

	if err := s.pull(ctx); err != nil {
		return Entry{}, err
	}

	stats, err := s.Stats()
	if err != nil {
		return Entry{}, err
	}
	mode := stats.Mode()
	seal := mode == ModeEncrypted || mode == ModeMixed || (mode == ModeEmpty && s.key != nil)

	createdAt := s.now().UTC().Truncate(time.Microsecond)
	entry := Entry{
		Name:      EntryName(createdAt),
		CreatedAt: createdAt,
		Body:      body,
		Sealed:    seal,
	}

	if _, err := os.Lstat(filepath.Join(s.dir, entry.Name)); err == nil {
		return Entry{}, fmt.Errorf("%w: %s", kerrors.ErrEntryExists, entry.Name)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Entry{}, fmt.Errorf("failed to check for %s: %w", entry.Name, err)
	}

	content := []byte(body)
	if seal {
		if content, err = s.seal(entry.Name, content); err != nil {
			return Entry{}, err
		}
	}

	if err := s.replaceFile(entry.Name, content); err != nil {
		return Entry{}, err
	}
	s.log.Infof("Wrote %s (%s)", entry.Name, formState(seal))

	if !seal {
		s.log.Infof("%s will be committed by the next encrypt", entry.Name)
		return entry, fmt.Errorf("%w: %s is plaintext", kerrors.ErrNotCommitted, entry.Name)
	}

	if err := s.commit(ctx, fmt.Sprintf("Add entry %s from %s", entry.Name, s.device), entry.Name); err != nil {
		return entry, err
	}
	if err := s.push(ctx); err != nil {
		return entry, err
	}

	return entry, nil
}

// ListEntries pulls, then renders every entry in chronological order as
// "## <local time>" followed by the body. Sealed entries are opened in
// memory only.
func (s *Store) ListEntries(ctx context.Context) (string, error) {
	if err := s.pull(ctx); err != nil {
		return "", err
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("## %s\n\n%s\n", e.CreatedAt.Local().Format(listLayout), e.Body))
	}
	return strings.Join(blocks, "\n"), nil
}

// Entries reads every entry in chronological order without pulling.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	names, err := s.discoverEntries()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := s.readEntry(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Decrypt rewrites every sealed entry as plaintext. Every entry is opened
// before the first file is rewritten, so a wrong key changes nothing.
// The plaintext is not committed.
func (s *Store) Decrypt(ctx context.Context) (TransformResult, error) {
	if s.key == nil {
		return TransformResult{}, kerrors.ErrKeyRequired
	}
	if err := s.pull(ctx); err != nil {
		return TransformResult{}, err
	}

	pending, unchanged, err := s.prepare(ctx, true, func(e Entry) ([]byte, error) {
		return []byte(e.Body), nil
	})
	if err != nil {
		return TransformResult{}, err
	}

	result := TransformResult{Unchanged: unchanged}
	for _, p := range pending {
		if err := s.replaceFile(p.name, p.content); err != nil {
			return result, err
		}
		result.Changed = append(result.Changed, p.name)
	}

	s.log.Infof("Decrypted %d entries", len(result.Changed))
	return result, nil
}

// Encrypt seals every plaintext entry, then commits the rewritten files
// and pushes.
func (s *Store) Encrypt(ctx context.Context) (TransformResult, error) {
	if s.key == nil {
		return TransformResult{}, kerrors.ErrKeyRequired
	}
	if err := s.pull(ctx); err != nil {
		return TransformResult{}, err
	}

	pending, unchanged, err := s.prepare(ctx, false, func(e Entry) ([]byte, error) {
		return s.seal(e.Name, []byte(e.Body))
	})
	if err != nil {
		return TransformResult{}, err
	}

	result := TransformResult{Unchanged: unchanged}
	for _, p := range pending {
		if err := s.replaceFile(p.name, p.content); err != nil {
			return result, err
		}
		result.Changed = append(result.Changed, p.name)
	}
	s.log.Infof("Encrypted %d entries", len(result.Changed))

	if len(result.Changed) == 0 {
		return result, nil
	}

	message := fmt.Sprintf("Encrypt %d entries from %s", len(result.Changed), s.device)
	if err := s.commit(ctx, message, result.Changed...); err != nil {
		return result, err
	}
	result.Committed = s.vc != nil

	if err := s.push(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// Sync pulls remote history and pushes local commits.
// Returns ErrOffline when the store has no remote to talk to.
func (s *Store) Sync(ctx context.Context) error {
	if !s.Online() {
		return kerrors.ErrOffline
	}
	if err := s.pull(ctx); err != nil {
		return err
	}
	return s.push(ctx)
}

// Mode inspects the entry files and reports the journal mode.
func (s *Store) Mode() (Mode, error) {
	stats, err := s.Stats()
	if err != nil {
		return ModeEmpty, err
	}
	return stats.Mode(), nil
}

// Stats counts entries by on-disk form. Only file prefixes are inspected.
func (s *Store) Stats() (Stats, error) {
	names, err := s.discoverEntries()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, name := range names {
		sealed, err := s.isSealed(name)
		if err != nil {
			return Stats{}, err
		}

		stats.Total++
		if sealed {
			stats.Sealed++
		} else {
			stats.Plaintext++
		}
	}

	if len(names) > 0 {
		stats.First, _ = ParseEntryName(names[0])
		stats.Last, _ = ParseEntryName(names[len(names)-1])
	}
	return stats, nil
}

// pendingWrite is an entry transformed in memory, waiting to be written.
type pendingWrite struct {
	name    string
	content []byte
}

// prepare reads every entry and transforms those whose sealed state equals
// fromSealed. Nothing is written; the first failure aborts.
func (s *Store) prepare(ctx context.Context, fromSealed bool, transform func(Entry) ([]byte, error)) ([]pendingWrite, int, error) {
	names, err := s.discoverEntries()
	if err != nil {
		return nil, 0, err
	}

	var pending []pendingWrite
	unchanged := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		entry, err := s.readEntry(name)
		if err != nil {
			return nil, 0, err
		}
		if entry.Sealed != fromSealed {
			unchanged++
			continue
		}

		content, err := transform(entry)
		if err != nil {
			return nil, 0, err
		}
		pending = append(pending, pendingWrite{name: name, content: content})
	}
	return pending, unchanged, nil
}

// readEntry reads one entry, opening it if sealed.
func (s *Store) readEntry(name string) (Entry, error) {
	createdAt, err := ParseEntryName(name)
	if err != nil {
		return Entry{}, err
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	entry := Entry{Name: name, CreatedAt: createdAt, Sealed: secrets.IsSealed(raw)}
	if !entry.Sealed {
		entry.Body = string(raw)
		return entry, nil
	}

	if s.key == nil {
		return Entry{}, fmt.Errorf("%w: %s is encrypted", kerrors.ErrKeyRequired, name)
	}
	plaintext, err := secrets.Open(raw, s.key)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", name, err)
	}
	entry.Body = string(plaintext)
	return entry, nil
}

// isSealed reports whether the file name holds a sealed entry.
func (s *Store) isSealed(name string) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return secrets.IsSealed(raw), nil
}

func (s *Store) seal(name string, plaintext []byte) ([]byte, error) {
	if s.key == nil {
		return nil, fmt.Errorf("%w: cannot encrypt %s", kerrors.ErrKeyRequired, name)
	}
	sealed, err := secrets.Seal(plaintext, s.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return sealed, nil
}

func (s *Store) pull(ctx context.Context) error {
	if !s.Online() {
		s.log.Debugf("Skipping pull, journal is offline")
		return nil
	}

	s.log.Debugf("Pulling remote changes into %s", s.dir)
	if err := s.vc.Pull(ctx); err != nil {
		if errors.Is(err, kerrors.ErrPullFailed) || errors.Is(err, kerrors.ErrMergeConflict) {
			return err
		}
		return fmt.Errorf("%w: %w", kerrors.ErrPullFailed, err)
	}
	return nil
}

func (s *Store) commit(ctx context.Context, message string, paths ...string) error {
	if s.vc == nil {
		s.log.Debugf("Skipping commit, no version control configured")
		return nil
	}

	s.log.Debugf("Committing %d paths: %s", len(paths), message)
	if err := s.vc.Commit(ctx, message, paths...); err != nil {
		if errors.Is(err, kerrors.ErrCommitFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", kerrors.ErrCommitFailed, err)
	}
	return nil
}

func (s *Store) push(ctx context.Context) error {
	if !s.Online() {
		s.log.Debugf("Skipping push, journal is offline")
		return nil
	}

	s.log.Debugf("Pushing to remote")
	if err := s.vc.Push(ctx); err != nil {
		if errors.Is(err, kerrors.ErrPushFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", kerrors.ErrPushFailed, err)
	}
	return nil
}

func formState(sealed bool) string {
	if sealed {
		return "encrypted"
	}
	return "plaintext"
}
