package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent queries",
	Long: `Lists the queries that completed successfully, most recent first.
A query repeated later moves to the top instead of appearing twice.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recent queries",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output history as JSON")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if searchSession == nil {
		return errNotConfigured
	}

	entries := searchSession.History()
	if historyJSON {
		if entries == nil {
			entries = []string{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No recent queries.")
		return nil
	}
	for i, q := range entries {
		cmd.Printf("  %2d. %s\n", i+1, q)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if searchSession == nil {
		return errNotConfigured
	}
	if err := searchSession.ClearHistory(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("History cleared.")
	return nil
}
