// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments,
// capturing output, and inspecting the journal a command left behind.
package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/PolarWolf314/giournal/internal/configs"
	"github.com/PolarWolf314/giournal/internal/secrets"
)

const (
	testPassphrase    = "correct horse battery staple"
	testPassphraseEnv = "GIOURNAL_TEST_PASSPHRASE"
)

// fakeVersionControl records the primitives a command used.
type fakeVersionControl struct {
	calls   []string
	commits []string
	pushErr error
}

func (f *fakeVersionControl) Pull(context.Context) error {
	f.calls = append(f.calls, "pull")
	return nil
}

func (f *fakeVersionControl) Commit(_ context.Context, message string, _ ...string) error {
	f.calls = append(f.calls, "commit")
	f.commits = append(f.commits, message)
	return nil
}

func (f *fakeVersionControl) Push(context.Context) error {
	f.calls = append(f.calls, "push")
	return f.pushErr
}

// testEnvironment is what setupTestEnvironment prepared.
type testEnvironment struct {
	root       string
	configPath string
	config     *configs.JournalConfiguration
	vc         *fakeVersionControl

	// prompts counts passphrase prompts.
	prompts int
	// waits counts waits for Enter.
	waits int
	// stdin is returned by readStdin.
	stdin string
	// composed is what the fake editor returns.
	composed  string
	editorErr error
}

// setupTestEnvironment writes a configuration for a journal under a temporary
// directory and replaces every collaborator that reaches outside the process.
// Global state is restored when the test ends.
func setupTestEnvironment(t *testing.T) *testEnvironment {
	t.Helper()

	root := t.TempDir()
	t.Setenv("NO_COLOR", "1")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv(configs.DefaultPassphraseEnv, "")

	env := &testEnvironment{
		root:       root,
		configPath: filepath.Join(root, "config", "giournal", "config.toml"),
		vc:         &fakeVersionControl{},
		composed:   "Composed in the editor",
	}
	t.Setenv(configs.ConfigEnv, env.configPath)
	t.Setenv(testPassphraseEnv, testPassphrase)

	salt, err := secrets.NewSalt()
	if err != nil {
		t.Fatalf("Failed to generate salt: %v", err)
	}
	key, err := secrets.DeriveKey([]byte(testPassphrase), salt, secrets.MinWorkFactor)
	if err != nil {
		t.Fatalf("Failed to derive key: %v", err)
	}

	cfg := &configs.JournalConfiguration{
		StorageDirectory: filepath.Join(root, "journal"),
		Remote: configs.RemoteConfig{
			URL:    "git@example.com:me/journal.git",
			Name:   configs.DefaultRemoteName,
			Branch: configs.DefaultBranch,
		},
		Key: configs.KeyConfig{
			Salt:          salt,
			WorkFactor:    secrets.MinWorkFactor,
			PassphraseEnv: testPassphraseEnv,
			Check:         key.Check(),
		},
		Device: configs.DeviceConfig{
			ID:   configs.GenerateDeviceID(),
			Name: "laptop",
		},
	}
	if err := configs.Save(env.configPath, cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	env.config = cfg

	originalPrompt := promptPassphrase
	originalWait := waitForEnter
	originalCompose := composeEntry
	originalStdin := readStdin
	originalTerminal := isTerminal
	t.Cleanup(func() {
		promptPassphrase = originalPrompt
		waitForEnter = originalWait
		composeEntry = originalCompose
		readStdin = originalStdin
		isTerminal = originalTerminal
		versionControl = nil
		clock = nil
		ResetGlobalState()
	})

	promptPassphrase = func(string) ([]byte, error) {
		env.prompts++
		return []byte(testPassphrase), nil
	}
	waitForEnter = func() error {
		env.waits++
		return nil
	}
	composeEntry = func(context.Context, string, time.Time) (string, error) {
		return env.composed, env.editorErr
	}
	readStdin = func() ([]byte, error) {
		return []byte(env.stdin), nil
	}
	isTerminal = func() bool { return false }
	versionControl = env.vc

	now := time.Date(2024, 3, 9, 21, 15, 42, 0, time.UTC)
	clock = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	return env
}

// runCommand runs giournal with args and returns everything it printed.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()
	if args == nil {
		// Nil arguments make cobra read os.Args.
		args = []string{}
	}
	JournalCmd.SetArgs(args)
	return captureOutput(func() error {
		return Execute(context.Background())
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	first := <-outputChan
	second := <-outputChan

	return first + second, err
}

// entryFiles returns the entry file names in the storage directory, sorted.
func (e *testEnvironment) entryFiles(t *testing.T) []string {
	t.Helper()
	dirEntries, err := os.ReadDir(e.config.StorageDirectory)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("Failed to read storage directory: %v", err)
	}

	var names []string
	for _, d := range dirEntries {
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			names = append(names, d.Name())
		}
	}
	sort.Strings(names)
	return names
}

// readEntryFile returns the raw content of an entry file.
func (e *testEnvironment) readEntryFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.config.StorageDirectory, name))
	if err != nil {
		t.Fatalf("Failed to read entry %s: %v", name, err)
	}
	return string(data)
}

// verifyAllSealed fails the test unless every entry file is encrypted.
func (e *testEnvironment) verifyAllSealed(t *testing.T) {
	t.Helper()
	for _, name := range e.entryFiles(t) {
		if !secrets.IsSealed([]byte(e.readEntryFile(t, name))) {
			t.Errorf("Entry %s is not encrypted", name)
		}
	}
}
