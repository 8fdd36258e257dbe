package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	entryPattern = "[0-9]*" + Extension
	tempPattern  = ".*.tmp-*"
)

// discoverEntries returns the entry file names in dir in chronological order.
// Files whose names do not encode a timestamp are skipped.
func (s *Store) discoverEntries() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(s.dir), entryPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list entries in %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(matches))
	for _, name := range matches {
		if _, err := ParseEntryName(name); err != nil {
			s.log.Debugf("Skipping %s: %v", name, err)
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// removeTempFiles deletes temporary files left behind by an interrupted write.
func (s *Store) removeTempFiles() error {
	matches, err := doublestar.Glob(os.DirFS(s.dir), tempPattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("failed to list temporary files in %s: %w", s.dir, err)
	}

	for _, name := range matches {
		s.log.Debugf("Removing leftover temporary file %s", name)
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// replaceFile atomically replaces name in the storage directory with data.
// Readers observe either the previous content or data, never a mix.
func (s *Store) replaceFile(name string, data []byte) error {
	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if s.beforeReplace != nil {
		// Leaves the temporary file behind, as a killed process would.
		if err := s.beforeReplace(name); err != nil {
			return err
		}
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	return syncDir(s.dir)
}

func writeAndSync(f *os.File, data []byte) error {
	if err := f.Chmod(0600); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// syncDir flushes a rename to disk. Windows cannot sync directories.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", dir, err)
	}
	return nil
}
