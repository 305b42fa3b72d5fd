package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/ui"
)

// validateCmd checks every quest file and linked task file.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check quest files and linked task files for problems",
	Long:  "Decodes and validates every quest file and checks that each manual quest's linked task files can be read. Returns non-zero on issues.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		res, err := s.repo.LoadAll()
		if err != nil {
			return fmt.Errorf("load quests: %w", err)
		}

		issues := append([]string{}, res.Errors...)
		var warnings []string
		for _, q := range res.Quests {
			if _, err := s.repo.Sections(q); err != nil {
				issues = append(issues, fmt.Sprintf("%s: linked task file: %v", q.QuestID, err))
				continue
			}
			for _, f := range q.TaskFiles() {
				if ok, _ := s.store.Exists(quest.NormalizeTaskPath(f)); !ok {
					warnings = append(warnings, fmt.Sprintf("%s: linked task file %s does not exist yet", q.QuestID, f))
				}
			}
		}

		out := cmd.OutOrStdout()
		if isJSON() {
			if err := printJSON(cmd, map[string]any{"quests": len(res.Quests), "issues": issues, "warnings": warnings}); err != nil {
				return err
			}
			if len(issues) > 0 {
				return errActionFailed
			}
			return nil
		}
		for _, w := range warnings {
			fmt.Fprintln(out, ui.StyleWarning.Render("!")+" "+w)
		}
		if len(issues) == 0 {
			fmt.Fprintln(out, ui.StyleSuccess.Render("✓")+fmt.Sprintf(" %d quest(s) valid", len(res.Quests)))
		} else {
			fmt.Fprintln(out, ui.RenderErrorPanel(
				fmt.Sprintf("%d quest(s) valid, %d issue(s)", len(res.Quests), len(issues)),
				strings.Join(issues, "\n"),
			))
		}
		if len(issues) > 0 {
			return errActionFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
