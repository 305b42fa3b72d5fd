/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/tasks"
	"github.com/josephgoksu/QuestWing/internal/ui"
	"github.com/josephgoksu/QuestWing/models"
)

var showAll bool

// questDetail is the JSON shape of show.
type questDetail struct {
	Quest      *models.Quest     `json:"quest"`
	Kind       string            `json:"kind"`
	Path       string            `json:"path"`
	Sections   []tasks.Section   `json:"sections,omitempty"`
	Completion *tasks.Completion `json:"completion,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show <quest>",
	Short: "Show one quest with its tasks",
	Long: `Show the details of a quest. The quest may be named by id, a unique id
prefix, or its name.

Manual quests list completed tasks plus the next few open ones; pass --all to
see every task.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		q, err := s.resolveQuest(args[0])
		if err != nil {
			return err
		}
		secs, _ := s.cache.Sections(q.QuestID)

		if isJSON() {
			d := questDetail{Quest: q, Kind: q.Kind.String(), Path: q.Path, Sections: secs}
			if len(secs) > 0 {
				c := tasks.Complete(tasks.Flatten(secs))
				d.Completion = &c
			}
			return printJSON(cmd, d)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderQuest(q, secs, showAll))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVarP(&showAll, "all", "a", false, "show every task, not only the visible ones")
}
