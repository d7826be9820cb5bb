package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/worktodo/display"
	"github.com/teranos/worktodo/history"
)

// HistoryCmd lists archived lines recorded in the ledger
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived lines recorded in the ledger",
	Long: `List lines moved to the archive by 'worktodo archive' while history was
enabled, most recent first.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	HistoryCmd.Flags().Int("limit", 20, "Number of records to show (0 = all)")
	HistoryCmd.Flags().BoolP("json", "j", false, "Output records as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		pterm.Warning.Println("history is disabled (set history.enabled = true in am.toml)")
	}

	database, err := openDatabase(cfg.GetHistoryPath())
	if err != nil {
		return err
	}
	defer database.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := history.NewLedger(database, nil).List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No archived lines recorded")
		return nil
	}
	for _, rec := range records {
		kind := "-"
		if rec.Kind != nil {
			kind = *rec.Kind
		}
		fmt.Fprintf(out, "%s  %-4s %s\n",
			pterm.Gray(rec.ArchivedAt.Local().Format("2006-01-02 15:04:05")), kind, rec.RawLine)
	}
	return nil
}
