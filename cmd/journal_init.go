package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/spf13/cobra"
)

// runInit sets up a journal from prompts. Without --force an existing
// configuration is left alone.
func runInit(cmd *cobra.Command) error {
	Logger.Infof("Starting init (force=%t)", forceFlag)

	paths := resolvePaths()
	ui.Banner(os.Stdout)

	result, err := workflows.Init(cmd.Context(), workflows.InitOptions{
		InitOptions: initOptions(),
		ConfigPath:  paths.ConfigFile,
		HistoryPath: paths.HistoryFile(),
		Force:       forceFlag,
		Logger:      Logger,
	})
	if err != nil {
		fmt.Println(failureMessage(nil, err))
		return reportedError{err: err}
	}

	if result.Backup != "" {
		fmt.Println(ui.HintLine("The previous configuration was copied to " + ui.Path.Sprint(result.Backup)))
	}
	fmt.Println(ui.SuccessLine("Configuration written to " + ui.Path.Sprint(result.ConfigPath)))
	fmt.Println(ui.SuccessLine("Entries will be stored in " + ui.Path.Sprint(result.Config.StorageDirectory)))
	if !result.Repository {
		fmt.Println(ui.HintLine("Install git to version and sync the journal"))
	} else if !result.Config.HasRemote() {
		fmt.Println(ui.HintLine("The journal is local, set remote.url in " + ui.Path.Sprint(result.ConfigPath) + " to sync it"))
	}
	fmt.Println(ui.HintLine("Write your first entry with " + ui.Code.Sprint("giournal <text>")))
	return nil
}
