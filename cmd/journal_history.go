package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/PolarWolf314/giournal/internal/audit"
	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/spf13/cobra"
)

// runHistory prints the operations recorded on this machine, most recent first.
// It needs no configuration.
func runHistory(cmd *cobra.Command) error {
	Logger.Infof("Starting history (limit=%d)", historyLimit)

	paths := resolvePaths()
	result, err := workflows.History(cmd.Context(), workflows.HistoryOptions{
		HistoryPath: paths.HistoryFile(),
		Limit:       historyLimit,
		Reverse:     true,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Entries) == 0 {
		fmt.Fprintln(out, ui.HintLine("No operations recorded in "+ui.Path.Sprint(paths.HistoryFile())))
		return nil
	}

	rows := make([][]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		rows = append(rows, historyRow(e))
	}
	ui.Table(out, []string{"Time", "Device", "Operation", "Entries", "Result"}, rows)

	if len(result.Entries) < result.Total {
		fmt.Fprintln(out, ui.Muted.Sprintf("showing %d of %d, use --limit 0 for all", len(result.Entries), result.Total))
	}
	return nil
}

func historyRow(e audit.Entry) []string {
	when := e.Timestamp
	if t, err := time.Parse(audit.TimestampLayout, e.Timestamp); err == nil {
		when = localTime(t)
	}

	entries := ""
	switch {
	case len(e.Entries) == 1:
		entries = e.Entries[0]
	case len(e.Entries) > 1:
		entries = fmt.Sprintf("%s and %d more", e.Entries[0], len(e.Entries)-1)
	case e.Count > 0:
		entries = strconv.Itoa(e.Count)
	}

	result := "ok"
	if e.Error != "" {
		result = "failed: " + e.Error
	}

	return []string{when, e.Device, e.Operation, entries, result}
}
