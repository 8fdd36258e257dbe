package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/giournal/internal/ui"
	"github.com/PolarWolf314/giournal/internal/workflows"
	"github.com/spf13/cobra"
)

func runList(cmd *cobra.Command) error {
	Logger.Infof("Starting list")

	cfg, paths, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, cleanup := startSpinner("Reading entries...", verbose)
	defer cleanup()

	result, err := workflows.List(cmd.Context(), workflows.ListOptions{
		Common: newCommon(cfg, paths, s),
	})
	if err != nil {
		return failure(s, cfg, err)
	}
	Logger.Infof("Listed %d entries", result.Count)

	if result.Count == 0 {
		s.FinalMSG = ui.HintLine("The journal is empty, write an entry with " + ui.Code.Sprint("giournal <text>"))
		return nil
	}

	// Stop the spinner before the entries are printed.
	cleanup()
	fmt.Fprint(cmd.OutOrStdout(), highlightHeadings(result.Text))
	return nil
}

// highlightHeadings colors the timestamp line above each entry.
func highlightHeadings(text string) string {
	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "## ") {
			trimmed := strings.TrimSuffix(line, "\n")
			lines[i] = ui.Heading.Sprint(trimmed) + line[len(trimmed):]
		}
	}
	return strings.Join(lines, "")
}
