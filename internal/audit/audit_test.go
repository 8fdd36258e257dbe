package audit

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestLogCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "giournal", "history.jsonl")

	if err := Log(path, Entry{Device: "laptop", Operation: "add", Entries: []string{"2024-01-01_00-00-00.000000.md"}}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("History file was not created: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestLogAppendsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	for _, op := range []string{"add", "list", "encrypt"} {
		if err := Log(path, Entry{Device: "laptop", Operation: op}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	for i, op := range []string{"add", "list", "encrypt"} {
		if entries[i].Operation != op {
			t.Errorf("Entry %d: expected op %q, got %q", i, op, entries[i].Operation)
		}
	}
}

func TestLogTimestampFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	before := time.Now().UTC().Truncate(time.Microsecond)
	if err := Log(path, Entry{Operation: "sync"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	after := time.Now().UTC()

	entries, err := ReadEntries(path)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ReadEntries failed: %v (%d entries)", err, len(entries))
	}

	ts, err := time.Parse(TimestampLayout, entries[0].Timestamp)
	if err != nil {
		t.Fatalf("Timestamp %q does not parse: %v", entries[0].Timestamp, err)
	}
	if ts.Before(before) || ts.After(after) {
		t.Errorf("Timestamp %v outside [%v, %v]", ts, before, after)
	}
}

func TestLogKeepsGivenTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	if err := Log(path, Entry{Timestamp: "2024-01-01T00:00:00.000000Z", Operation: "add"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	entries, _ := ReadEntries(path)
	if len(entries) != 1 || entries[0].Timestamp != "2024-01-01T00:00:00.000000Z" {
		t.Errorf("Expected the timestamp to be preserved, got %+v", entries)
	}
}

func TestLogOmitsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	if err := Log(path, Entry{Device: "laptop", Operation: "sync"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	for _, field := range []string{`"entries"`, `"count"`, `"error"`} {
		if strings.Contains(string(data), field) {
			t.Errorf("Expected %s to be omitted, got %s", field, data)
		}
	}
}

func TestLogUnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := Log(filepath.Join(blocker, "history.jsonl"), Entry{Operation: "add"}); err == nil {
		t.Error("Expected an error when the directory cannot be created")
	}
}

func TestReadEntriesMissingFile(t *testing.T) {
	entries, err := ReadEntries(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name string
		data string
		ops  []string
	}{
		{"Empty", "", nil},
		{"Valid", `{"ts":"2024-01-01T00:00:00.000000Z","device":"laptop","op":"add","count":1}` + "\n" + `{"op":"list"}` + "\n", []string{"add", "list"}},
		{"SkipsMalformed", `{"op":"add"}` + "\nnot json\n\n" + `{"op":"sync"`, []string{"add"}},
		{"NoTrailingNewline", `{"op":"encrypt"}`, []string{"encrypt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseEntries([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseEntries failed: %v", err)
			}
			if len(entries) != len(tt.ops) {
				t.Fatalf("Expected %d entries, got %d", len(tt.ops), len(entries))
			}
			for i, op := range tt.ops {
				if entries[i].Operation != op {
					t.Errorf("Entry %d: expected %q, got %q", i, op, entries[i].Operation)
				}
			}
		})
	}
}

func TestLast(t *testing.T) {
	entries := []Entry{{Operation: "a"}, {Operation: "b"}, {Operation: "c"}}

	if got := Last(entries, 2); len(got) != 2 || got[0].Operation != "b" {
		t.Errorf("Expected the last two entries, got %+v", got)
	}
	if got := Last(entries, 0); len(got) != 3 {
		t.Errorf("Expected all entries for n=0, got %d", len(got))
	}
	if got := Last(entries, 10); len(got) != 3 {
		t.Errorf("Expected all entries for large n, got %d", len(got))
	}
}
