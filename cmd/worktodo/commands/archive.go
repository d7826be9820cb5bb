package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/history"
	"github.com/teranos/worktodo/logger"
)

// ArchiveCmd moves the first line of the queue to the archive
var ArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move the first line to the archive",
	Long: `Remove the first non-blank line from the worktodo file and append it to
the archive file. When history is enabled the line is also recorded in the
ledger database.`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

func init() {
	addQueueFlags(ArchiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	q, cfg, err := openQueue(cmd)
	if err != nil {
		return err
	}

	line, ok, err := q.ArchiveFirst()
	if err != nil {
		return errors.Wrap(err, "archive failed")
	}
	if !ok {
		pterm.Info.Println("Nothing to archive in " + q.Path())
		return nil
	}
	pterm.Success.Println("Archived: " + line)

	if !cfg.History.Enabled {
		return nil
	}

	// The line is already archived; a ledger failure is reported, not undone
	database, err := openDatabase(cfg.GetHistoryPath())
	if err != nil {
		return err
	}
	defer database.Close()

	rec, err := history.NewLedger(database, nil).Add(cmd.Context(), q.Path(), q.ArchivePath(), line)
	if err != nil {
		return err
	}
	logger.Debugw("Recorded archived line", "id", rec.ID, logger.FieldFile, cfg.GetHistoryPath())
	return nil
}
