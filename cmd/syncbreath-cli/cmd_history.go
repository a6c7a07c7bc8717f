package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"syncbreath/internal/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded breathing sessions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of most recent sessions to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, err := resolveJournalPath()
	if err != nil {
		return err
	}
	records, err := journal.ReadAll(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
		return nil
	}

	var total time.Duration
	var cycles uint64
	for _, record := range records {
		total += record.Duration()
		cycles += record.Cycles
	}

	shown := records
	if historyLimit > 0 && len(shown) > historyLimit {
		shown = shown[len(shown)-historyLimit:]
	}

	out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(out, "STARTED\tMODE\tPATTERN\tDURATION\tCYCLES\tCOMPLETED")
	for _, record := range shown {
		completed := "no"
		if record.Completed {
			completed = "yes"
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%d\t%s\n",
			record.StartedAt.Local().Format("2006-01-02 15:04"),
			record.Mode,
			record.Pattern,
			record.Duration().Round(time.Second),
			record.Cycles,
			completed)
	}
	if err := out.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d sessions, %s breathing, %d cycles\n",
		len(records), total.Round(time.Second), cycles)
	return nil
}
