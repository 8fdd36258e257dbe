package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/giournal/internal/configs"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/secrets"
)

func TestAddInlineEntry(t *testing.T) {
	env := setupTestEnvironment(t)

	output, err := runCommand(t, "Today", "was", "good.")
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "saved and encrypted") {
		t.Errorf("Expected success message, got: %s", output)
	}

	files := env.entryFiles(t)
	if len(files) != 1 {
		t.Fatalf("Expected 1 entry file, got %v", files)
	}
	content := env.readEntryFile(t, files[0])
	if strings.Contains(content, "Today was good.") {
		t.Errorf("Entry was written in plaintext: %q", content)
	}
	env.verifyAllSealed(t)

	want := []string{"pull", "commit", "push"}
	if strings.Join(env.vc.calls, ",") != strings.Join(want, ",") {
		t.Errorf("Expected calls %v, got %v", want, env.vc.calls)
	}
	if env.prompts != 0 {
		t.Errorf("Expected the passphrase to come from the environment, prompted %d times", env.prompts)
	}
}

func TestAddFromStdin(t *testing.T) {
	env := setupTestEnvironment(t)
	env.stdin = "Written somewhere else\n"

	if output, err := runCommand(t, "-"); err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}

	output, err := runCommand(t, "--list")
	if err != nil {
		t.Fatalf("List failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Written somewhere else") {
		t.Errorf("Expected the piped entry in the listing, got: %s", output)
	}
}

func TestAddBlankEntryWritesNothing(t *testing.T) {
	env := setupTestEnvironment(t)

	output, err := runCommand(t, "  ", "\t")
	if !errors.Is(err, kerrors.ErrEmptyEntry) {
		t.Fatalf("Expected ErrEmptyEntry, got %v", err)
	}
	if !strings.Contains(output, "The entry is empty") {
		t.Errorf("Expected empty entry message, got: %s", output)
	}
	if files := env.entryFiles(t); len(files) != 0 {
		t.Errorf("Expected no entry files, got %v", files)
	}
	if len(env.vc.calls) != 0 {
		t.Errorf("Expected no version control calls, got %v", env.vc.calls)
	}
}

func TestAddWithWrongPassphrase(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Setenv(testPassphraseEnv, "not the passphrase")

	output, err := runCommand(t, "Secret")
	if !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Fatalf("Expected ErrWrongPassphrase, got %v", err)
	}
	if !strings.Contains(output, "does not match") {
		t.Errorf("Expected passphrase message, got: %s", output)
	}
	if files := env.entryFiles(t); len(files) != 0 {
		t.Errorf("Expected no entry files, got %v", files)
	}
}

func TestAddPushFailureKeepsEntry(t *testing.T) {
	env := setupTestEnvironment(t)
	env.vc.pushErr = errors.New("connection refused")

	output, err := runCommand(t, "Offline thoughts")
	if !errors.Is(err, kerrors.ErrPushFailed) {
		t.Fatalf("Expected ErrPushFailed, got %v", err)
	}
	if !strings.Contains(output, "saved and encrypted") || !strings.Contains(output, "giournal --sync") {
		t.Errorf("Expected saved entry with a sync hint, got: %s", output)
	}
	if files := env.entryFiles(t); len(files) != 1 {
		t.Errorf("Expected the entry to be kept, got %v", files)
	}
}

func TestListPrintsEntriesInOrder(t *testing.T) {
	setupTestEnvironment(t)

	for _, text := range []string{"First", "Second"} {
		if output, err := runCommand(t, text); err != nil {
			t.Fatalf("Add failed: %v\nOutput: %s", err, output)
		}
	}

	output, err := runCommand(t, "--list")
	if err != nil {
		t.Fatalf("List failed: %v\nOutput: %s", err, output)
	}
	first := strings.Index(output, "First")
	second := strings.Index(output, "Second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Expected both entries in order, got: %s", output)
	}
	if strings.Count(output, "## ") != 2 {
		t.Errorf("Expected 2 entry headings, got: %s", output)
	}
}

func TestListEmptyJournal(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCommand(t, "--list")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(output, "The journal is empty") {
		t.Errorf("Expected empty journal hint, got: %s", output)
	}
}

func TestDecryptThenEncrypt(t *testing.T) {
	env := setupTestEnvironment(t)

	if output, err := runCommand(t, "Today was good."); err != nil {
		t.Fatalf("Add failed: %v\nOutput: %s", err, output)
	}
	env.vc.calls = nil

	output, err := runCommand(t, "--decrypt")
	if err != nil {
		t.Fatalf("Decrypt failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Decrypted 1 entry") {
		t.Errorf("Expected decrypt message, got: %s", output)
	}
	files := env.entryFiles(t)
	if got := env.readEntryFile(t, files[0]); got != "Today was good.\n" && got != "Today was good." {
		t.Errorf("Expected plaintext entry, got %q", got)
	}
	for _, call := range env.vc.calls {
		if call == "commit" || call == "push" {
			t.Errorf("Decrypt must not commit or push, got %v", env.vc.calls)
		}
	}

	output, err = runCommand(t, "--encrypt")
	if err != nil {
		t.Fatalf("Encrypt failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Encrypted 1 entry") {
		t.Errorf("Expected encrypt message, got: %s", output)
	}
	env.verifyAllSealed(t)
	if last := env.vc.commits[len(env.vc.commits)-1]; last != "Encrypt 1 entries from laptop" {
		t.Errorf("Unexpected commit message %q", last)
	}
}

func TestDecryptWaitReencrypts(t *testing.T) {
	env := setupTestEnvironment(t)

	if output, err := runCommand(t, "Keep this safe"); err != nil {
		t.Fatalf("Add failed: %v\nOutput: %s", err, output)
	}

	output, err := runCommand(t, "--decrypt", "--wait")
	if err != nil {
		t.Fatalf("Decrypt failed: %v\nOutput: %s", err, output)
	}
	if env.waits != 1 {
		t.Errorf("Expected one wait for Enter, got %d", env.waits)
	}
	if !strings.Contains(output, "Press Enter") {
		t.Errorf("Expected the wait instruction, got: %s", output)
	}
	env.verifyAllSealed(t)
}

func TestComposeInEditor(t *testing.T) {
	env := setupTestEnvironment(t)
	env.composed = "  Written in the editor\n\n"

	if output, err := runCommand(t, "--editor"); err != nil {
		t.Fatalf("Compose failed: %v\nOutput: %s", err, output)
	}

	output, err := runCommand(t, "--list")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(output, "Written in the editor") {
		t.Errorf("Expected the composed entry, got: %s", output)
	}
}

func TestComposeEditorFailure(t *testing.T) {
	env := setupTestEnvironment(t)
	env.editorErr = fmt.Errorf("%w: exit status 1", kerrors.ErrEditorFailed)

	output, err := runCommand(t, "--editor")
	if !errors.Is(err, kerrors.ErrEditorFailed) {
		t.Fatalf("Expected ErrEditorFailed, got %v", err)
	}
	if !strings.Contains(output, "The editor failed") {
		t.Errorf("Expected editor failure message, got: %s", output)
	}
	if files := env.entryFiles(t); len(files) != 0 {
		t.Errorf("Expected no entry files, got %v", files)
	}
}

func TestSync(t *testing.T) {
	t.Run("pulls and pushes", func(t *testing.T) {
		env := setupTestEnvironment(t)

		output, err := runCommand(t, "--sync")
		if err != nil {
			t.Fatalf("Sync failed: %v\nOutput: %s", err, output)
		}
		if strings.Join(env.vc.calls, ",") != "pull,push" {
			t.Errorf("Expected pull then push, got %v", env.vc.calls)
		}
		if !strings.Contains(output, "in sync") {
			t.Errorf("Expected sync message, got: %s", output)
		}
	})

	t.Run("offline", func(t *testing.T) {
		env := setupTestEnvironment(t)

		output, err := runCommand(t, "--sync", "--offline")
		if !errors.Is(err, kerrors.ErrOffline) {
			t.Fatalf("Expected ErrOffline, got %v", err)
		}
		if len(env.vc.calls) != 0 {
			t.Errorf("Expected no version control calls, got %v", env.vc.calls)
		}
		if !strings.Contains(output, "--offline") {
			t.Errorf("Expected offline message, got: %s", output)
		}
	})
}

func TestStatus(t *testing.T) {
	setupTestEnvironment(t)

	if output, err := runCommand(t, "An entry"); err != nil {
		t.Fatalf("Add failed: %v\nOutput: %s", err, output)
	}

	output, err := runCommand(t, "--status")
	if err != nil {
		t.Fatalf("Status failed: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"Mode", "encrypted", "Entries", "laptop", "git@example.com:me/journal.git"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in status, got: %s", want, output)
		}
	}
}

func TestHistory(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCommand(t, "--history")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if !strings.Contains(output, "No operations recorded") {
		t.Errorf("Expected empty history message, got: %s", output)
	}

	if output, err := runCommand(t, "Recorded"); err != nil {
		t.Fatalf("Add failed: %v\nOutput: %s", err, output)
	}
	if output, err := runCommand(t, "--list"); err != nil {
		t.Fatalf("List failed: %v\nOutput: %s", err, output)
	}

	output, err = runCommand(t, "--history")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	for _, want := range []string{"add", "list", "laptop"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in history, got: %s", want, output)
		}
	}

	output, err = runCommand(t, "--history", "--limit", "1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if !strings.Contains(output, "showing 1 of 2") {
		t.Errorf("Expected a truncation note, got: %s", output)
	}
}

func TestShowConfigHidesKeyMaterial(t *testing.T) {
	env := setupTestEnvironment(t)

	output, err := runCommand(t, "--show-config")
	if err != nil {
		t.Fatalf("Show config failed: %v", err)
	}
	if !strings.Contains(output, env.config.StorageDirectory) {
		t.Errorf("Expected the storage directory, got: %s", output)
	}
	if strings.Contains(output, env.config.Key.Salt) || strings.Contains(output, env.config.Key.Check) {
		t.Errorf("Key material must not be printed: %s", output)
	}
}

func TestInvalidFlagCombinations(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"two actions", []string{"--list", "--encrypt"}},
		{"wait without decrypt", []string{"--wait"}},
		{"limit without history", []string{"--limit", "3"}},
		{"force without init", []string{"--force"}},
		{"negative limit", []string{"--history", "--limit", "-1"}},
		{"text with action", []string{"--list", "hello"}},
		{"stdin with text", []string{"-", "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvironment(t)

			output, err := runCommand(t, tt.args...)
			if err == nil {
				t.Fatalf("Expected an error for %v, got output: %s", tt.args, output)
			}
			if !strings.Contains(output, "[error]") {
				t.Errorf("Expected an [error] line, got: %s", output)
			}
			if len(env.vc.calls) != 0 {
				t.Errorf("Expected no version control calls, got %v", env.vc.calls)
			}
		})
	}
}

func TestFirstRunInitialises(t *testing.T) {
	env := setupTestEnvironment(t)
	if err := os.Remove(env.configPath); err != nil {
		t.Fatalf("Failed to remove config: %v", err)
	}

	output, err := runCommand(t, "First entry")
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Configuration written to") {
		t.Errorf("Expected the configuration to be written, got: %s", output)
	}

	cfg, err := configs.Load(env.configPath)
	if err != nil {
		t.Fatalf("Expected a loadable configuration: %v", err)
	}
	if want := filepath.Join(env.root, "data", "giournal"); cfg.StorageDirectory != want {
		t.Errorf("Expected default storage directory %s, got %s", want, cfg.StorageDirectory)
	}
	if cfg.Key.Check == "" {
		t.Error("Expected a passphrase check to be stored")
	}

	dirEntries, err := os.ReadDir(cfg.StorageDirectory)
	if err != nil {
		t.Fatalf("Failed to read storage directory: %v", err)
	}
	sealed := 0
	for _, d := range dirEntries {
		if !strings.HasSuffix(d.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(cfg.StorageDirectory, d.Name()))
		if err != nil {
			t.Fatal(err)
		}
		if secrets.IsSealed(data) {
			sealed++
		}
	}
	if sealed != 1 {
		t.Errorf("Expected 1 encrypted entry, found %d", sealed)
	}
}

func TestInit(t *testing.T) {
	env := setupTestEnvironment(t)

	output, err := runCommand(t, "--init")
	if !errors.Is(err, kerrors.ErrConfigExists) {
		t.Fatalf("Expected ErrConfigExists, got %v", err)
	}
	if !strings.Contains(output, "--force") {
		t.Errorf("Expected a --force hint, got: %s", output)
	}

	output, err = runCommand(t, "--init", "--force")
	if err != nil {
		t.Fatalf("Init failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Configuration written to") {
		t.Errorf("Expected init message, got: %s", output)
	}

	cfg, err := configs.Load(env.configPath)
	if err != nil {
		t.Fatalf("Expected a loadable configuration: %v", err)
	}
	if cfg.Key.Salt == env.config.Key.Salt {
		t.Error("Expected new key material")
	}
	if _, err := os.Stat(cfg.StorageDirectory); err != nil {
		t.Errorf("Expected the storage directory to exist: %v", err)
	}

	backups, err := filepath.Glob(env.configPath + ".bak-*")
	if err != nil || len(backups) != 1 {
		t.Fatalf("Expected one backup of the replaced configuration, got %v (%v)", backups, err)
	}
	old, err := configs.Load(backups[0])
	if err != nil {
		t.Fatalf("Expected the backup to load: %v", err)
	}
	if old.Key.Salt != env.config.Key.Salt {
		t.Error("Expected the backup to keep the previous salt")
	}
}

func TestMalformedConfigKeepsSalt(t *testing.T) {
	env := setupTestEnvironment(t)

	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	broken := strings.Replace(string(data), "work_factor = 10", "work_factor = 9", 1)
	if broken == string(data) {
		t.Fatalf("Expected work_factor in the config:\n%s", data)
	}
	if err := os.WriteFile(env.configPath, []byte(broken), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	output, err := runCommand(t, "An entry")
	if !errors.Is(err, kerrors.ErrConfigMalformed) {
		t.Fatalf("Expected ErrConfigMalformed, got %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "by hand") {
		t.Errorf("Expected a hint to repair the file, got: %s", output)
	}

	after, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if string(after) != broken {
		t.Error("Expected the configuration to be left unchanged")
	}
	if files := env.entryFiles(t); len(files) != 0 {
		t.Errorf("Expected no entry to be written, found %v", files)
	}
}

func TestUnreadableConfigIsBackedUp(t *testing.T) {
	env := setupTestEnvironment(t)
	if err := os.WriteFile(env.configPath, []byte("garbage = = ="), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	output, err := runCommand(t, "First entry")
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "copied to") {
		t.Errorf("Expected the backup to be reported, got: %s", output)
	}

	backups, err := filepath.Glob(env.configPath + ".bak-*")
	if err != nil || len(backups) != 1 {
		t.Fatalf("Expected one backup, got %v (%v)", backups, err)
	}
	data, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	if string(data) != "garbage = = =" {
		t.Errorf("Expected the backup to hold the unreadable file, got %q", data)
	}
}
