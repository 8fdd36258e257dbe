package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/giournal/internal/journal"
	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/utils"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func runEncrypt(cmd *cobra.Command) error {
	Logger.Infof("Starting encrypt")

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, cleanup := startSpinner("Encrypting entries...", verbose)
	defer cleanup()

	result, err := workflows.Encrypt(cmd.Context(), workflows.EncryptOptions{
		Common: newCommon(cfg, paths, s),
	})
	if result == nil {
		return failure(s, cfg, err)
	}

	s.FinalMSG = encryptMessage(result.TransformResult)
	if err != nil {
		s.FinalMSG += "\n" + failureMessage(cfg, err)
		return reportedError{err: err}
	}
	return nil
}

// runDecrypt rewrites the journal as plaintext. With --wait it encrypts the
// journal again once Enter is pressed.
func runDecrypt(cmd *cobra.Command) error {
	Logger.Infof("Starting decrypt (wait=%t)", waitFlag)

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, cleanup := startSpinner("Decrypting entries...", verbose)
	defer cleanup()

	opts := workflows.DecryptOptions{Common: newCommon(cfg, paths, s)}
	if waitFlag {
		opts.WaitAndReencrypt = func() error {
			waitToReencrypt(s, cfg.StorageDirectory)
			return waitForEnter()
		}
	}

	result, err := workflows.Decrypt(cmd.Context(), opts)
	if result == nil {
		return failure(s, cfg, err)
	}

	msg := decryptMessage(result.Decrypted)
	if result.Reencrypted != nil {
		msg = encryptMessage(*result.Reencrypted)
	} else if !waitFlag {
		msg += "\n" + ui.HintLine("Entries stay decrypted until you run "+ui.Code.Sprint("giournal --encrypt"))
	}

	s.FinalMSG = msg
	if err != nil {
		s.FinalMSG += "\n" + failureMessage(cfg, err)
		return reportedError{err: err}
	}
	return nil
}

// waitToReencrypt stops the spinner and tells the user how to continue.
// The spinner restarts for the encryption that follows.
func waitToReencrypt(s *spinner.Spinner, dir string) {
	if s.Active() {
		s.Stop()
	}
	fmt.Fprintln(os.Stdout, ui.SuccessLine("Entries in "+ui.Path.Sprint(dir)+" are decrypted"))
	fmt.Fprintln(os.Stdout, ui.HintLine("Press Enter to encrypt them again"))
	if !verbose && !debug {
		s.Suffix = " Encrypting entries..."
		defer s.Start()
	}
}

func encryptMessage(result journal.TransformResult) string {
	if len(result.Changed) == 0 {
		return ui.SuccessLine("Every entry is already encrypted")
	}

	msg := ui.SuccessLine(fmt.Sprintf("Encrypted %d %s", len(result.Changed), entriesWord(len(result.Changed)))) +
		changedList(result.Changed)
	if result.Committed {
		msg += "\n" + ui.HintLine("The encrypted entries are committed")
	}
	return msg
}

func decryptMessage(result journal.TransformResult) string {
	if len(result.Changed) == 0 {
		return ui.SuccessLine("Every entry is already decrypted")
	}
	return ui.SuccessLine(fmt.Sprintf("Decrypted %d %s", len(result.Changed), entriesWord(len(result.Changed)))) +
		changedList(result.Changed)
}

// maxListedEntries bounds how many rewritten entries are named in a final message.
const maxListedEntries = 10

// changedList names the rewritten entries, or nothing when there are too many to read.
func changedList(names []string) string {
	if len(names) > maxListedEntries {
		return ""
	}
	return strings.TrimRight(utils.FormatPaths(names), "\n")
}

func entriesWord(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
