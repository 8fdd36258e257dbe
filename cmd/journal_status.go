package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/spf13/cobra"
)

const displayLayout = "2006-01-02 15:04:05"

func runStatus(cmd *cobra.Command) error {
	Logger.Infof("Starting status")

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	result, err := workflows.Status(cmd.Context(), workflows.StatusOptions{
		Common: newCommon(cfg, paths, nil),
	})
	if err != nil {
		return fmt.Errorf("failed to read journal status: %w", err)
	}

	pairs := [][2]string{
		{"Storage directory", result.StorageDirectory},
		{"Device", result.Device},
		{"Remote", orNone(result.RemoteURL)},
		{"Online", yesNo(result.Online)},
		{"Mode", result.Mode.String()},
		{"Entries", strconv.Itoa(result.Stats.Total)},
		{"Encrypted", strconv.Itoa(result.Stats.Sealed)},
		{"Plaintext", plaintextCount(result.Stats.Plaintext)},
	}
	if result.Stats.Total > 0 {
		pairs = append(pairs,
			[2]string{"First entry", localTime(result.Stats.First)},
			[2]string{"Last entry", localTime(result.Stats.Last)},
		)
	}

	if repo := result.Repository; repo != nil {
		pairs = append(pairs,
			[2]string{"Branch", repo.Branch},
			[2]string{"Uncommitted files", strconv.Itoa(repo.Dirty)},
		)
		if repo.HasUpstream {
			pairs = append(pairs, [2]string{"Ahead / behind", fmt.Sprintf("%d / %d", repo.Ahead, repo.Behind)})
		}
		if repo.LastCommit != "" {
			pairs = append(pairs, [2]string{"Last commit", repo.LastCommit})
		}
	} else {
		pairs = append(pairs, [2]string{"Repository", "none"})
	}

	out := cmd.OutOrStdout()
	ui.KeyValues(out, pairs)

	switch {
	case result.Stats.Plaintext > 0:
		fmt.Fprintln(out, ui.HintLine(fmt.Sprintf("%d plaintext %s, run %s to encrypt and commit",
			result.Stats.Plaintext, entriesWord(result.Stats.Plaintext), ui.Code.Sprint("giournal --encrypt"))))
	case result.Repository != nil && result.Repository.Ahead > 0:
		fmt.Fprintln(out, ui.HintLine("Local commits are not pushed, run "+ui.Code.Sprint("giournal --sync")))
	}
	return nil
}

// runShowConfig prints the configuration in use. Key material is summarised, never printed.
func runShowConfig(cmd *cobra.Command) error {
	Logger.Infof("Starting show-config")

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	editorCommand := cfg.Editor
	if editorCommand == "" {
		editorCommand = "system default"
	}
	passphraseFile := cfg.Key.PassphraseFile
	if passphraseFile == "" {
		passphraseFile = "none"
	}

	pairs := [][2]string{
		{"Configuration file", paths.ConfigFile},
		{"History file", paths.HistoryFile()},
		{"Storage directory", cfg.StorageDirectory},
		{"Editor", editorCommand},
		{"Remote URL", orNone(cfg.Remote.URL)},
		{"Remote name", cfg.Remote.Name},
		{"Remote branch", cfg.Remote.Branch},
		{"SSH key", orNone(cfg.Remote.SSHKey)},
		{"Passphrase variable", "$" + cfg.Key.PassphraseEnv},
		{"Passphrase file", passphraseFile},
		{"Work factor", strconv.FormatUint(uint64(cfg.Key.WorkFactor), 10)},
		{"Passphrase check", yesNo(cfg.Key.Check != "")},
		{"Device", cfg.Device.Name},
		{"Device ID", cfg.Device.ID},
	}

	ui.KeyValues(cmd.OutOrStdout(), pairs)
	return nil
}

func plaintextCount(n int) string {
	if n == 0 {
		return "0"
	}
	return ui.Warning.Sprint(strconv.Itoa(n))
}

func localTime(t time.Time) string {
	return t.Local().Format(displayLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
