package journal

import (
	"fmt"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/giournal/internal/errors"
)

const (
	// Extension is the file extension of every entry.
	Extension = ".md"

	nameLayout = "2006-01-02_15-04-05.000000"

	// listLayout is how entry timestamps are shown by ListEntries.
	listLayout = "2006-01-02 15:04:05"
)

// Entry is a single journal note.
type Entry struct {
	// Name is the file name inside the storage directory.
	Name string

	// CreatedAt is parsed from Name and is always UTC.
	CreatedAt time.Time

	// Body is the plaintext of the entry.
	Body string

	// Sealed reports whether the file was encrypted when it was read.
	Sealed bool
}

// EntryName returns the file name for an entry created at t.
func EntryName(t time.Time) string {
	return t.UTC().Format(nameLayout) + Extension
}

// ParseEntryName returns the creation time encoded in an entry file name.
func ParseEntryName(name string) (time.Time, error) {
	stamp, ok := strings.CutSuffix(name, Extension)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q has no %s extension", kerrors.ErrInvalidEntryName, name, Extension)
	}

	t, err := time.Parse(nameLayout, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", kerrors.ErrInvalidEntryName, name, err)
	}
	return t, nil
}

// Mode describes the on-disk form of the journal as a whole.
type Mode int

const (
	// ModeEmpty means the journal has no entries.
	ModeEmpty Mode = iota
	// ModeEncrypted means every entry is sealed.
	ModeEncrypted
	// ModeDecrypted means every entry is plaintext.
	ModeDecrypted
	// ModeMixed means some entries are sealed and some are not, usually
	// after an interrupted transform.
	ModeMixed
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeEncrypted:
		return "encrypted"
	case ModeDecrypted:
		return "decrypted"
	case ModeMixed:
		return "mixed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Stats counts entries by on-disk form.
type Stats struct {
	Total     int
	Sealed    int
	Plaintext int

	// First and Last are the creation times of the oldest and newest entries.
	First time.Time
	Last  time.Time
}

// Mode derives the journal mode from the counts.
func (s Stats) Mode() Mode {
	switch {
	case s.Total == 0:
		return ModeEmpty
	case s.Plaintext == 0:
		return ModeEncrypted
	case s.Sealed == 0:
		return ModeDecrypted
	default:
		return ModeMixed
	}
}

// TransformResult reports the outcome of Encrypt or Decrypt.
type TransformResult struct {
	// Changed lists the entries rewritten, in chronological order.
	Changed []string

	// Unchanged is the number of entries already in the requested form.
	Unchanged int

	// Committed reports whether the rewritten entries were committed.
	Committed bool
}
