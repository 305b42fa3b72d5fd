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

var characterCmd = &cobra.Command{
	Use:     "character",
	Aliases: []string{"char", "me"},
	Short:   "Show your character sheet",
	Long: `Show level, XP progress, streak, stats, combat numbers, active power-ups
and unlocked achievements. Everything shown is derived from the character
file at the current time; expired power-ups are hidden.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		view, err := s.app.Character()
		if err != nil {
			return fmt.Errorf("load character: %w", err)
		}
		if isJSON() {
			return printJSON(cmd, view)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderCharacter(view, s.app.Context().Now()))
		if !view.Exists {
			fmt.Fprintln(cmd.OutOrStdout(), "\nNo character file yet; one is created when you complete your first quest.")
		}
		return nil
	},
}

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "List classes or change your class",
	Long: `Without a subcommand, list the class catalog and mark your current class.

Changing the primary class costs XP per tier of your current level. A
secondary class unlocks later and adds its category bonus on top.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		view, err := s.app.Character()
		if err != nil {
			return fmt.Errorf("load character: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderClasses(view.Character.Class))
		return nil
	},
}

var classChangeCmd = &cobra.Command{
	Use:   "change <class>",
	Short: "Change your primary class (costs XP)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCharacterAction(cmd, func(a *app.QuestApp) (*app.ActionResult, error) {
			return a.ChangeClass(args[0])
		})
	},
}

var classSecondaryClear bool

var classSecondaryCmd = &cobra.Command{
	Use:   "secondary [class]",
	Short: "Set or clear your secondary class",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		if id == "" && !classSecondaryClear {
			return fmt.Errorf("name a class or pass --clear")
		}
		return runCharacterAction(cmd, func(a *app.QuestApp) (*app.ActionResult, error) {
			return a.SetSecondaryClass(id)
		})
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode <main|training>",
	Short: "Switch between the main and training XP tracks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := models.ProgressionMode(strings.ToLower(strings.TrimSpace(args[0])))
		if mode != models.ModeMain && mode != models.ModeTraining {
			return fmt.Errorf("unknown mode %q (use main or training)", args[0])
		}
		return runCharacterAction(cmd, func(a *app.QuestApp) (*app.ActionResult, error) {
			return a.SetMode(mode)
		})
	},
}

func init() {
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(classCmd)
	classCmd.AddCommand(classChangeCmd)
	classCmd.AddCommand(classSecondaryCmd)
	classSecondaryCmd.Flags().BoolVar(&classSecondaryClear, "clear", false, "remove the secondary class")
	characterCmd.AddCommand(modeCmd)
}

func runCharacterAction(cmd *cobra.Command, fn func(*app.QuestApp) (*app.ActionResult, error)) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	res, err := fn(s.app)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}
