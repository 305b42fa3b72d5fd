/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/ledger"
	"github.com/josephgoksu/QuestWing/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently completed quests",
	Long: `Show the completion ledger: the most recent first completions with the
XP they awarded, plus totals per category.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if s.ledger == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "The completion ledger is disabled (ledger.disabled) or could not be opened.")
			return nil
		}
		entries, err := s.ledger.Recent(historyLimit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		counts, err := s.ledger.CategoryCounts()
		if err != nil {
			return fmt.Errorf("read category totals: %w", err)
		}
		if isJSON() {
			return printJSON(cmd, struct {
				Recent     []ledger.Entry         `json:"recent"`
				Categories []ledger.CategoryCount `json:"categories"`
			}{entries, counts})
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderHistory(entries, counts, s.app.Context().Location))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of completions to show")
}
