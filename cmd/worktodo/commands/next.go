package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/worktodo/display"
	"github.com/teranos/worktodo/errors"
	"github.com/teranos/worktodo/worktodo"
)

// NextCmd prints the next runnable assignment
var NextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next runnable assignment",
	Long: `Scan the worktodo file from the top and print the first line that
decodes to a runnable assignment. Skipped lines are logged with the reason
(use -v to see them). The file is not modified.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	addQueueFlags(NextCmd)
	NextCmd.Flags().BoolP("json", "j", false, "Output the entry as JSON")
}

func runNext(cmd *cobra.Command, args []string) error {
	q, _, err := openQueue(cmd)
	if err != nil {
		return err
	}

	entry, err := q.FindNext()
	if err != nil {
		if errors.IsNotFoundError(err) {
			pterm.Warning.Println("No runnable assignment in " + q.Path())
		}
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, entry)
	}

	printEntry(cmd.OutOrStdout(), entry)
	return nil
}

func printEntry(w io.Writer, e *worktodo.Entry) {
	fmt.Fprintf(w, "%s %s\n", pterm.Green(e.Kind.String()), e.Number())
	if e.AID != "" {
		fmt.Fprintf(w, "  %s %s\n", pterm.Gray("aid:"), e.AID)
	}
	if len(e.KnownFactors) > 0 {
		fmt.Fprintf(w, "  %s %v\n", pterm.Gray("known factors:"), e.KnownFactors)
	}
	if opts, ok := e.Factoring(); ok {
		fmt.Fprintf(w, "  %s B1=%d B2=%g\n", pterm.Gray("bounds:"), opts.B1, opts.B2)
	}
	if opts, ok := e.Primality(); ok {
		fmt.Fprintf(w, "  %s %d\n", pterm.Gray("residue type:"), opts.ResidueType)
	}
	fmt.Fprintf(w, "  %s %s\n", pterm.Gray("line:"), e.RawLine)
}
