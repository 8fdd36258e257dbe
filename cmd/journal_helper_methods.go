package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/PolarWolf314/giournal/internal/configs"
	"github.com/PolarWolf314/giournal/internal/editor"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/journal"
	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/utils"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/briandowns/spinner"
)

// Collaborators that reach outside the process. Tests replace them.
var (
	promptPassphrase configs.PassphraseFunc = utils.PromptPassphrase
	waitForEnter                            = utils.WaitForEnterFromTTY
	composeEntry     workflows.ComposeFunc  = editor.Compose
	readStdin                               = utils.ReadStdin
	isTerminal                              = utils.IsTerminal

	// versionControl replaces git when set.
	versionControl journal.VersionControl

	// clock replaces time.Now when set.
	clock func() time.Time
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a cleanup function that stops it and prints spinner.FinalMSG.
// The cleanup function may be called more than once; only the first call has an effect.
//
// spinner.FinalMSG values do not need trailing newlines.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	done := false
	cleanup := func() {
		if done {
			return
		}
		done = true

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print to stdout so tests can capture it.
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// pauseSpinner stops s while the terminal is needed for something else.
// The returned function restarts it.
func pauseSpinner(s *spinner.Spinner) func() {
	if s == nil || !s.Active() {
		return func() {}
	}
	s.Stop()
	return s.Start
}

// pausingPrompt wraps prompt so the spinner does not draw over it.
func pausingPrompt(s *spinner.Spinner, prompt configs.PassphraseFunc) configs.PassphraseFunc {
	if prompt == nil {
		return nil
	}
	return func(message string) ([]byte, error) {
		resume := pauseSpinner(s)
		defer resume()
		return prompt(message)
	}
}

// resolvePaths applies --config to the default locations.
func resolvePaths() configs.Paths {
	paths := configs.ResolvePaths()
	if configPath != "" {
		paths.ConfigFile = configPath
	}
	return paths
}

// initOptions configures interactive initialisation. Without a terminal on
// stdin every prompt takes its default.
func initOptions() configs.InitOptions {
	return configs.InitOptions{
		AssumeDefaults: !isTerminal(),
		Passphrase:     promptPassphrase,
		OnBackup: func(backup string) {
			Logger.Warnf("Configuration at %s could not be read", resolvePaths().ConfigFile)
			fmt.Println(ui.HintLine("The unreadable configuration was copied to " + ui.Path.Sprint(backup) + ", setting up a new journal."))
		},
	}
}

// loadConfiguration loads the configuration, running first-time setup when
// it is missing or unreadable.
func loadConfiguration() (*configs.JournalConfiguration, configs.Paths, error) {
	paths := resolvePaths()
	Logger.Debugf("Using configuration file: %s", paths.ConfigFile)

	if _, err := os.Stat(paths.ConfigFile); errors.Is(err, fs.ErrNotExist) {
		ui.Banner(os.Stdout)
		fmt.Println("No configuration found at " + ui.Path.Sprint(paths.ConfigFile) + ", setting up a new journal.")
	}

	cfg, created, err := configs.LoadOrInitialise(paths.ConfigFile, initOptions())
	if err != nil {
		fmt.Println(failureMessage(nil, err))
		return nil, paths, reportedError{err: err}
	}
	if created {
		Logger.Infof("Created configuration at %s", paths.ConfigFile)
		fmt.Println(ui.SuccessLine("Configuration written to " + ui.Path.Sprint(paths.ConfigFile)))
	}
	return cfg, paths, nil
}

// newCommon builds the workflow inputs shared by every operation.
func newCommon(cfg *configs.JournalConfiguration, paths configs.Paths, s *spinner.Spinner) workflows.Common {
	return workflows.Common{
		Config:         cfg,
		HistoryPath:    paths.HistoryFile(),
		Offline:        offlineFlag,
		Logger:         Logger,
		Passphrase:     pausingPrompt(s, promptPassphrase),
		VersionControl: versionControl,
		Clock:          clock,
	}
}

// reportedError marks an error whose message was already shown as a final message.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// failure sets the spinner's final message for err and returns err marked as reported.
func failure(s *spinner.Spinner, cfg *configs.JournalConfiguration, err error) error {
	Logger.Debugf("Operation failed: %v", err)
	s.FinalMSG = failureMessage(cfg, err)
	return reportedError{err: err}
}

// failureMessage describes err for the user, with a hint where there is something to do.
func failureMessage(cfg *configs.JournalConfiguration, err error) string {
	summary, hint := describeError(cfg, err)
	msg := ui.ErrorLine(summary) + "\n" + ui.Error.Sprint("Error: ") + err.Error()
	if hint != "" {
		msg += "\n" + ui.HintLine(hint)
	}
	return msg
}

func describeError(cfg *configs.JournalConfiguration, err error) (string, string) {
	dir := ""
	config := "the configuration file"
	if cfg != nil {
		dir = ui.Path.Sprint(cfg.StorageDirectory)
	}
	if p := resolvePaths().ConfigFile; p != "" {
		config = ui.Path.Sprint(p)
	}

	switch {
	case errors.Is(err, kerrors.ErrEmptyEntry):
		return "The entry is empty, nothing was written", ""
	case errors.Is(err, kerrors.ErrSealedText):
		return "The entry text is in encrypted form, nothing was written", ""
	case errors.Is(err, kerrors.ErrEntryExists):
		return "An entry with this timestamp already exists", "Run the command again"
	case errors.Is(err, kerrors.ErrWrongPassphrase):
		return "The passphrase does not match this journal", ""
	case errors.Is(err, kerrors.ErrNoPassphrase):
		name := configs.DefaultPassphraseEnv
		if cfg != nil && cfg.Key.PassphraseEnv != "" {
			name = cfg.Key.PassphraseEnv
		}
		return "No passphrase available", "Set " + ui.Code.Sprint("$"+name) + " or run giournal from a terminal"
	case errors.Is(err, kerrors.ErrDecryptFailed):
		return "An entry could not be decrypted, nothing was rewritten", ""
	case errors.Is(err, kerrors.ErrMergeConflict):
		return "Remote changes conflict with this journal",
			"Resolve the conflict with git in " + dir + ", then run " + ui.Code.Sprint("giournal --sync")
	case errors.Is(err, kerrors.ErrPushFailed):
		return "Could not push to the remote, the changes are committed locally",
			"Run " + ui.Code.Sprint("giournal --sync") + " when the remote is reachable"
	case errors.Is(err, kerrors.ErrPullFailed):
		return "Could not pull from the remote",
			"Check the remote or work locally with " + ui.Code.Sprint("--offline")
	case errors.Is(err, kerrors.ErrCommitFailed):
		return "Could not commit the changes", "Check the git repository in " + dir
	case errors.Is(err, kerrors.ErrOffline):
		if offlineFlag {
			return "Syncing is not possible with --offline", ""
		}
		return "This journal has no remote to sync with", "Set remote.url in " + config
	case errors.Is(err, kerrors.ErrEditorFailed):
		return "The editor failed, nothing was written", "Set the editor command in " + config
	case errors.Is(err, kerrors.ErrConfigExists):
		return "A configuration already exists", "Pass " + ui.Code.Sprint("--force") + " to replace it"
	case errors.Is(err, kerrors.ErrConfigMalformed):
		return "The configuration could not be loaded",
			"Fix " + config + " by hand, the key salt in it is needed to read encrypted entries"
	case errors.Is(err, kerrors.ErrConfigNotFound):
		return "The configuration could not be loaded", "Run " + ui.Code.Sprint("giournal --init") + " to write a new one"
	default:
		return "Something went wrong", ""
	}
}
