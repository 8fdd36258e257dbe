package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/PolarWolf314/giournal/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	listFlag       bool
	decryptFlag    bool
	waitFlag       bool
	encryptFlag    bool
	editorFlag     bool
	syncFlag       bool
	statusFlag     bool
	historyFlag    bool
	historyLimit   int
	initFlag       bool
	forceFlag      bool
	showConfigFlag bool
	offlineFlag    bool
	configPath     string

	JournalCmd = &cobra.Command{
		Use:   "giournal [flags] [text...]",
		Short: "An encrypted journal kept in a git repository",
		Long: `giournal writes journal entries as timestamped files, encrypts them at rest
and keeps them in sync with a remote git repository.

Write an entry inline:
  giournal Today was good.

Pipe an entry from another program:
  echo "Today was good." | giournal -

Or compose it in your editor:
  giournal --editor`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing giournal with verbose=%t, debug=%t", verbose, debug)
		},
		RunE: runJournal,
	}
)

// actionFlags are the flags that select an operation other than adding an entry.
var actionFlags = []string{
	"list", "decrypt", "encrypt", "editor", "sync",
	"status", "history", "init", "show-config",
}

func init() {
	flags := JournalCmd.Flags()
	flags.BoolVar(&listFlag, "list", false, "print every entry in chronological order")
	flags.BoolVar(&decryptFlag, "decrypt", false, "rewrite every entry as plaintext")
	flags.BoolVar(&waitFlag, "wait", false, "with --decrypt, encrypt again after Enter is pressed")
	flags.BoolVar(&encryptFlag, "encrypt", false, "encrypt every plaintext entry, commit and push")
	flags.BoolVar(&editorFlag, "editor", false, "compose a new entry in the configured editor")
	flags.BoolVar(&syncFlag, "sync", false, "pull remote changes and push local commits")
	flags.BoolVar(&statusFlag, "status", false, "show the journal mode, entry counts and repository state")
	flags.BoolVar(&historyFlag, "history", false, "show operations recorded on this machine")
	flags.IntVar(&historyLimit, "limit", 20, "with --history, the number of operations to show (0 for all)")
	flags.BoolVar(&initFlag, "init", false, "set up a new journal configuration")
	flags.BoolVar(&forceFlag, "force", false, "with --init, replace an existing configuration")
	flags.BoolVar(&showConfigFlag, "show-config", false, "print the configuration in use")
	flags.BoolVar(&offlineFlag, "offline", false, "skip pulling and pushing")
	flags.StringVar(&configPath, "config", "", "configuration file to use instead of the default location")

	JournalCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	JournalCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	JournalCmd.MarkFlagsMutuallyExclusive(actionFlags...)
}

func runJournal(cmd *cobra.Command, args []string) error {
	if err := validateFlags(cmd, args); err != nil {
		return err
	}

	switch {
	case initFlag:
		return runInit(cmd)
	case showConfigFlag:
		return runShowConfig(cmd)
	case historyFlag:
		return runHistory(cmd)
	case statusFlag:
		return runStatus(cmd)
	case listFlag:
		return runList(cmd)
	case decryptFlag:
		return runDecrypt(cmd)
	case encryptFlag:
		return runEncrypt(cmd)
	case syncFlag:
		return runSync(cmd)
	case editorFlag:
		return runCompose(cmd)
	case len(args) > 0:
		return runAdd(cmd, args)
	default:
		return cmd.Help()
	}
}

// Execute runs the root command. Errors not already shown as a final
// message are logged before returning.
func Execute(ctx context.Context) error {
	err := JournalCmd.ExecuteContext(ctx)
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		Logger.Errorf("%v", err)
	}
	return err
}

// validateFlags rejects combinations cobra's flag groups cannot express.
func validateFlags(cmd *cobra.Command, args []string) error {
	if waitFlag && !decryptFlag {
		return fmt.Errorf("--wait can only be used with --decrypt")
	}
	if forceFlag && !initFlag {
		return fmt.Errorf("--force can only be used with --init")
	}
	if cmd.Flags().Changed("limit") && !historyFlag {
		return fmt.Errorf("--limit can only be used with --history")
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	if len(args) == 0 {
		return nil
	}
	for _, name := range actionFlags {
		if cmd.Flags().Changed(name) {
			return fmt.Errorf("entry text cannot be combined with --%s", name)
		}
	}
	if len(args) > 1 && strings.TrimSpace(args[0]) == "-" {
		return fmt.Errorf("'-' reads the entry from stdin and cannot be combined with other text")
	}
	return nil
}

// Helper functions for testing

// ResetGlobalState resets all flags and global variables to their default values for testing.
func ResetGlobalState() {
	JournalCmd.Flags().VisitAll(resetFlag)
	JournalCmd.PersistentFlags().VisitAll(resetFlag)
	JournalCmd.SetArgs(nil)
	Logger = logger.Logger{}
}

func resetFlag(f *pflag.Flag) {
	_ = f.Value.Set(f.DefValue)
	f.Changed = false
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
