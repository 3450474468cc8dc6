package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/arbbot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite journal",
	Long: `Query and display journal records from the SQLite database.

Subcommands:
  runs      - List recorded run ids
  fills     - List the fills of a run
  positions - Show the last position snapshot of a run

The run defaults to the most recent one.

Examples:
  arbbot journal runs
  arbbot journal fills
  arbbot journal positions 01J9Z3YQ6K8M4B7W2N5T0X1R3C`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded run ids",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalFillsCmd = &cobra.Command{
	Use:   "fills [run-id]",
	Short: "List the fills of a run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalFills,
}

var journalPositionsCmd = &cobra.Command{
	Use:   "positions [run-id]",
	Short: "Show the last position snapshot of a run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalPositions,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalFillsCmd)
	journalCmd.AddCommand(journalPositionsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./arbbot.db", "path to SQLite journal DB")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath, "")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	for _, r := range runs {
		fmt.Println(r)
	}
	return nil
}

func runJournalFills(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath, "")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID, err := pickRun(j, args)
	if err != nil {
		return err
	}
	fills, err := j.ListFills(runID)
	if err != nil {
		return fmt.Errorf("query fills: %w", err)
	}

	fmt.Println(journal.FormatFillsOrg(runID, fills))
	return nil
}

func runJournalPositions(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath, "")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID, err := pickRun(j, args)
	if err != nil {
		return err
	}
	snap, err := j.LatestPositions(runID)
	if err != nil {
		return fmt.Errorf("query positions: %w", err)
	}

	fmt.Println(journal.FormatPositionsOrg(runID, snap))
	return nil
}

func pickRun(j *journal.SQLite, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	runs, err := j.ListRuns()
	if err != nil {
		return "", fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("journal %s has no runs", journalDBPath)
	}
	return runs[len(runs)-1], nil
}
