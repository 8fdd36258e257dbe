package cmd

import (
	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/spf13/cobra"
)

func runSync(cmd *cobra.Command) error {
	Logger.Infof("Starting sync")

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, cleanup := startSpinner("Syncing with "+cfg.Remote.Name+"...", verbose)
	defer cleanup()

	err = workflows.Sync(cmd.Context(), workflows.SyncOptions{
		Common: newCommon(cfg, paths, s),
	})
	if err != nil {
		return failure(s, cfg, err)
	}

	s.FinalMSG = ui.SuccessLine("Journal is in sync with " + ui.Path.Sprint(cfg.Remote.URL))
	return nil
}
