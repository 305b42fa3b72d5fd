/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/app"
	"github.com/josephgoksu/QuestWing/internal/logger"
	"github.com/josephgoksu/QuestWing/models"
)

var moveCmd = &cobra.Command{
	Use:   "move <quest> <status>",
	Short: "Move a quest to another status column",
	Long: `Move a quest between board columns.

Statuses: available, active, in-progress, completed.

The first time a quest reaches completed it awards XP, advances the daily
streak and may grant power-ups, achievements and gear. Moving it back out of
completed keeps what was earned.

Examples:
  questwing move slay-dragon active
  questwing move "Slay the Dragon" completed`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.ResolveStatus(args[1])
		if err != nil {
			return err
		}
		return runMove(cmd, args[0], status)
	},
}

var completeCmd = &cobra.Command{
	Use:     "complete <quest>",
	Aliases: []string{"done"},
	Short:   "Mark a quest completed",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args[0], models.StatusCompleted)
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <quest> <position>",
	Short: "Set the sort order of a manual quest within its column",
	Long: `Set the sort order of a manual quest. Lower numbers are listed first;
quests with equal order fall back to name order.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("position must be a number: %q", args[1])
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
		logger.SetLastAction(q.QuestID, "reorder "+args[1])
		res, err := s.app.Reorder(q.QuestID, order)
		if err != nil {
			return fmt.Errorf("reorder %s: %w", q.QuestID, err)
		}
		return printResult(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(reorderCmd)
}

func runMove(cmd *cobra.Command, ref string, to models.QuestStatus) error {
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	q, err := s.resolveQuest(ref)
	if err != nil {
		return err
	}
	logger.SetLastAction(q.QuestID, "move "+string(to))
	res, err := s.app.MoveQuest(q.QuestID, to)
	if err != nil {
		if res != nil {
			_ = printResult(cmd, res)
		}
		return fmt.Errorf("move %s: %w", q.QuestID, err)
	}
	return printResult(cmd, res)
}
