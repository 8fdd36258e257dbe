package journal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/PolarWolf314/giournal/internal/configs"
	logger "github.com/PolarWolf314/giournal/internal/logging"
	"github.com/PolarWolf314/giournal/internal/secrets"
)

// fakeVC records every call made by the store.
type fakeVC struct {
	calls   []string
	commits []fakeCommit

	pullErr   error
	commitErr error
	pushErr   error

	// onPull and onPush run before the call is recorded.
	onPull func()
	onPush func()
}

type fakeCommit struct {
	message string
	paths   []string
}

func (f *fakeVC) Pull(context.Context) error {
	if f.onPull != nil {
		f.onPull()
	}
	f.calls = append(f.calls, "pull")
	return f.pullErr
}

func (f *fakeVC) Commit(_ context.Context, message string, paths ...string) error {
	f.calls = append(f.calls, "commit")
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, fakeCommit{message: message, paths: paths})
	return nil
}

func (f *fakeVC) Push(context.Context) error {
	if f.onPush != nil {
		f.onPush()
	}
	f.calls = append(f.calls, "push")
	return f.pushErr
}

var baseTime = time.Date(2024, 3, 9, 21, 15, 42, 123456000, time.UTC)

// tickingClock returns successive times one second apart starting at baseTime.
func tickingClock() func() time.Time {
	next := baseTime
	return func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func testConfig(t *testing.T) *configs.JournalConfiguration {
	t.Helper()
	return &configs.JournalConfiguration{
		StorageDirectory: filepath.Join(t.TempDir(), "journal"),
		Remote:           configs.RemoteConfig{URL: "git@example.com:me/journal.git", Name: "origin", Branch: "main"},
		Device:           configs.DeviceConfig{Name: "laptop"},
	}
}

func testKey(t *testing.T, fill byte) *secrets.Key {
	t.Helper()
	key, err := secrets.NewKey(bytes.Repeat([]byte{fill}, secrets.KeySize))
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	return key
}

func quietLogger() logger.Logger {
	return logger.Logger{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}
}

// newTestStore builds a store over a fresh directory with a fake remote.
func newTestStore(t *testing.T, opts ...Option) (*Store, *fakeVC) {
	t.Helper()
	return newTestStoreAt(t, testConfig(t), opts...)
}

func newTestStoreAt(t *testing.T, cfg *configs.JournalConfiguration, opts ...Option) (*Store, *fakeVC) {
	t.Helper()
	vc := &fakeVC{}
	all := append([]Option{WithVersionControl(vc), WithClock(tickingClock()), WithLogger(quietLogger())}, opts...)
	store, err := NewStore(cfg, all...)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store, vc
}

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func readRaw(t *testing.T, dir, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return data
}

// snapshot maps every file in dir to its content.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	snap := make(map[string]string, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		snap[f.Name()] = string(readRaw(t, dir, f.Name()))
	}
	return snap
}

func fileNames(snap map[string]string) []string {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sameSnapshot(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for name, content := range a {
		if other, ok := b[name]; !ok || other != content {
			return false
		}
	}
	return true
}

func equalCalls(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
