package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/worktodo"
)

// CheckCmd decodes every line and reports skip reasons
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Decode every line and report why lines are skipped",
	Long: `Decode every non-blank, non-comment line of the worktodo file and print
whether it is runnable or why it is skipped. Exits non-zero when no line is
runnable.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	addQueueFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Reasons are printed below, not logged
	q, _, err := openQueue(cmd, worktodo.WithSkipObserver(func(int, string, error) {}))
	if err != nil {
		return err
	}

	results, err := q.Scan()
	if err != nil {
		return err
	}

	accepted := printCheck(cmd.OutOrStdout(), results)
	if accepted == 0 {
		return errors.NewNotFoundError("no runnable assignment in %s", q.Path())
	}
	return nil
}

// printCheck writes one line per result and a summary; returns the accepted count
func printCheck(w io.Writer, results []worktodo.LineResult) int {
	accepted := 0
	for _, r := range results {
		if r.Err == nil {
			accepted++
			fmt.Fprintf(w, "%s %s %s\n", pterm.Green("✓"), pterm.Gray(fmt.Sprintf("line %d:", r.Line)), r.Entry.String())
			continue
		}
		reason := r.Err.Error()
		if skip, ok := worktodo.AsSkip(r.Err); ok {
			reason = skip.FormatTerminal()
		}
		fmt.Fprintf(w, "%s %s %s\n", pterm.Red("✗"), pterm.Gray(fmt.Sprintf("line %d:", r.Line)), reason)
	}

	fmt.Fprintf(w, "\n%d runnable, %d skipped\n", accepted, len(results)-accepted)
	return accepted
}
