package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout is the format of Entry.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Entry is one operation in the history.
type Entry struct {
	Timestamp string `json:"ts"`
	Device    string `json:"device"`
	Operation string `json:"op"`

	Entries []string `json:"entries,omitempty"` // Entry file names touched.
	Count   int      `json:"count,omitempty"`   // Entries listed, encrypted or decrypted.
	Error   string   `json:"error,omitempty"`   // Set when the operation failed.
}

// Log appends entry to the history file at path, creating the file and
// its directory if needed. An empty Timestamp is set to now.
func Log(path string, entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampLayout)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadEntries reads the history at path, oldest first.
// A missing file is an empty history.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data. Malformed lines are skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Last returns the final n entries, or all of them when n <= 0.
func Last(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
