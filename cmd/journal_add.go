package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/PolarWolf314/giournal/internal/configs"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/journal"
	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/utils"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// runAdd writes the positional words, or stdin for a lone "-", as a new entry.
func runAdd(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting add")

	text := utils.JoinWords(args)
	if len(args) == 1 && strings.TrimSpace(args[0]) == "-" {
		Logger.Debugf("Reading entry from stdin")
		data, err := readStdin()
		if err != nil {
			return err
		}
		text = string(data)
	}

	// Blank text is rejected before anything is loaded or prompted for.
	if strings.TrimSpace(text) == "" {
		s, cleanup := startSpinner("Saving entry...", verbose)
		defer cleanup()
		return failure(s, nil, kerrors.ErrEmptyEntry)
	}

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, cleanup := startSpinner("Saving entry...", verbose)
	defer cleanup()

	result, err := workflows.Add(cmd.Context(), workflows.AddOptions{
		Common: newCommon(cfg, paths, s),
		Text:   text,
	})
	return finishAdd(s, cfg, result, err)
}

// runCompose opens the editor on a new file and saves what it holds as an entry.
func runCompose(cmd *cobra.Command) error {
	Logger.Infof("Starting compose")

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, cleanup := startSpinner("Saving entry...", verbose)
	defer cleanup()

	// The editor owns the terminal until it exits.
	compose := func(ctx context.Context, command string, now time.Time) (string, error) {
		resume := pauseSpinner(s)
		defer resume()
		Logger.Debugf("Launching editor %q", command)
		return composeEntry(ctx, command, now)
	}

	result, err := workflows.Compose(cmd.Context(), workflows.ComposeOptions{
		Common:  newCommon(cfg, paths, s),
		Compose: compose,
	})
	return finishAdd(s, cfg, result, err)
}

// finishAdd sets the final message for an add. A push failure still reports
// the saved entry.
func finishAdd(s *spinner.Spinner, cfg *configs.JournalConfiguration, result *workflows.AddResult, err error) error {
	if result == nil {
		return failure(s, cfg, err)
	}

	entry := result.Entry
	Logger.Infof("Saved entry %s (sealed=%t)", entry.Name, entry.Sealed)

	msg := ui.SuccessLine("Entry " + ui.Entry.Sprint(entry.Name) + " saved")
	switch {
	case entry.Sealed:
		msg = ui.SuccessLine("Entry " + ui.Entry.Sprint(entry.Name) + " saved and encrypted")
	case result.Committed:
	case result.Mode == journal.ModeDecrypted:
		msg += "\n" + ui.HintLine("The journal is decrypted, run "+ui.Code.Sprint("giournal --encrypt")+" to encrypt and commit it")
	default:
		msg += "\n" + ui.HintLine("The entry is not encrypted, run "+ui.Code.Sprint("giournal --encrypt")+" to encrypt and commit it")
	}

	if err != nil {
		msg += "\n" + failureMessage(cfg, err)
		s.FinalMSG = msg
		return reportedError{err: err}
	}

	s.FinalMSG = msg
	return nil
}
