/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/app"
	"github.com/josephgoksu/QuestWing/internal/ui"
	"github.com/josephgoksu/QuestWing/models"
)

var (
	listStatus   string
	listCategory string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List quests in board order",
	Long: `List every quest found under the quest folders.

Quests are ordered by status column, then sort order, then name.

Examples:
  questwing list                      # All quests
  questwing list --status active      # Only active quests
  questwing list --category fitness   # Only one category
  questwing list --json               # Machine-readable output`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (available, active, in-progress, completed)")
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	var status models.QuestStatus
	if listStatus != "" {
		status, err = app.ResolveStatus(listStatus)
		if err != nil {
			return err
		}
	}

	items := ui.BoardItems(s.cache)
	filtered := items[:0]
	for _, it := range items {
		if status != "" && it.Quest.Status != status {
			continue
		}
		if listCategory != "" && !strings.EqualFold(it.Quest.Category, listCategory) {
			continue
		}
		filtered = append(filtered, it)
	}

	if isJSON() {
		return printJSON(cmd, filtered)
	}

	out := cmd.OutOrStdout()
	if len(filtered) == 0 {
		fmt.Fprintln(out, "No quests found.")
		fmt.Fprintf(out, "Add markdown quests under %s/quests/ or run 'questwing init'.\n", s.cfg.Quests.BaseFolder)
		return nil
	}
	fmt.Fprint(out, ui.RenderQuestTable(filtered))
	if n := len(s.loaded.Errors); n > 0 && !isVerbose() {
		fmt.Fprintf(out, "\n%d file(s) skipped; run 'questwing validate' for details.\n", n)
	}
	return nil
}
