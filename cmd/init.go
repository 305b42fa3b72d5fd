/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/config"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/models"
)

var (
	initForce  bool
	initSample bool
)

const sampleTasks = `# Getting started
- [ ] Read the quest file in QuestBoard/quests/main
- [ ] Run questwing show first-steps --all
- [ ] Toggle this task with questwing toggle first-steps 4
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and quest folders in the vault",
	Long: `Write a config file with every default to <vault>/.questwing/config.yaml
and create the quest folders under the base folder.

Pass --sample to add a starter quest with a linked task file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		out := cmd.OutOrStdout()

		cfgPath := config.ProjectConfigFile(s.cfg.Vault.Root)
		switch err := config.WriteDefaultConfig(cfgPath, initForce); {
		case errors.Is(err, config.ErrConfigExists):
			fmt.Fprintf(out, "Config already exists at %s (use --force to overwrite)\n", cfgPath)
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "Wrote %s\n", cfgPath)
		}

		for _, t := range []models.QuestType{models.QuestTypeMain, models.QuestTypeTraining, models.QuestTypeSide, models.QuestTypeGenerated} {
			folder := s.repo.FolderFor(t)
			if err := s.store.MkdirAll(folder); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s/\n", folder)
		}

		if initSample {
			if err := writeSampleQuest(s); err != nil {
				return fmt.Errorf("write sample quest: %w", err)
			}
			fmt.Fprintln(out, "Added sample quest 'first-steps'. Try: questwing show first-steps")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	initCmd.Flags().BoolVar(&initSample, "sample", false, "add a starter quest with a task file")
}

func writeSampleQuest(s *session) error {
	taskFile := "Tasks/first-steps.md"
	q := &models.Quest{
		SchemaVersion: models.CurrentSchemaVersion,
		QuestID:       "first-steps",
		QuestName:     "First Steps",
		QuestType:     models.QuestTypeMain,
		Category:      "learning",
		Status:        models.StatusAvailable,
		Priority:      models.PriorityMedium,
		CreatedDate:   time.Now().UTC().Truncate(time.Second),
		Kind:          models.KindManual,
		Manual: &models.ManualDetails{
			LinkedTaskFile:  taskFile,
			XPPerTask:       10,
			CompletionBonus: 50,
			VisibleTasks:    3,
		},
	}
	if err := s.repo.Save(q); err != nil {
		return err
	}
	p := quest.NormalizeTaskPath(taskFile)
	if ok, _ := s.store.Exists(p); ok {
		return nil
	}
	if err := s.store.MkdirAll("Tasks"); err != nil {
		return err
	}
	return s.store.WriteFile(p, sampleTasks)
}
