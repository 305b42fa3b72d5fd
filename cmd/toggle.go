/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/logger"
)

var toggleFile string

var toggleCmd = &cobra.Command{
	Use:   "toggle <quest> <line>",
	Short: "Check or uncheck a task in a quest's linked task file",
	Long: `Flip the checkbox on a 1-indexed line of the quest's task file. Use
'questwing show <quest> --all' to see line numbers.

Quests that link several task files need --file to pick one; the primary
linked file is used otherwise.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := strconv.Atoi(args[1])
		if err != nil || line < 1 {
			return fmt.Errorf("line must be a positive number: %q", args[1])
		}
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		q, err := s.resolveQuest(args[0])
		if err != nil {
			return err
		}
		logger.SetLastAction(q.QuestID, fmt.Sprintf("toggle line %d", line))
		if toggleFile != "" {
			res, err := s.app.ToggleTaskIn(q.QuestID, toggleFile, line)
			if err != nil {
				return fmt.Errorf("toggle %s: %w", q.QuestID, err)
			}
			return printResult(cmd, res)
		}
		res, err := s.app.ToggleTask(q.QuestID, line)
		if err != nil {
			return fmt.Errorf("toggle %s: %w", q.QuestID, err)
		}
		return printResult(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	toggleCmd.Flags().StringVarP(&toggleFile, "file", "f", "", "linked task file to edit")
}
