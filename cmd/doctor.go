/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/logger"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check QuestWing setup and diagnose issues",
	Long: `Validate your QuestWing setup.

Checks:
  • Configuration file and vault root
  • Quest folders and quest file validity
  • Character file
  • Completion ledger
  • Crash logs from earlier runs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// DoctorCheck represents a single diagnostic check
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warn", "fail"
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func runDoctor(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	checks := []DoctorCheck{
		checkConfigFile(),
		checkVaultRoot(s.cfg.Vault.Root),
		checkQuestFolders(s),
		checkQuestFiles(s),
		checkCharacter(s),
		checkLedger(s),
		checkCrashLogs(),
	}

	hasErrors := false
	for _, c := range checks {
		if c.Status == "fail" {
			hasErrors = true
		}
	}

	if isJSON() {
		enc := map[string]any{"checks": checks, "ok": !hasErrors}
		if err := printJSON(cmd, enc); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, "🩺 QuestWing Doctor")
		fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Fprintln(out)
		for _, c := range checks {
			printCheck(out, c)
		}
		fmt.Fprintln(out)
		if hasErrors {
			fmt.Fprintln(out, "❌ Issues found. Fix the errors above before continuing.")
		} else {
			fmt.Fprintln(out, "✅ Everything looks good!")
		}
	}
	if hasErrors {
		return errActionFailed
	}
	return nil
}

func printCheck(out io.Writer, c DoctorCheck) {
	var icon string
	switch c.Status {
	case "ok":
		icon = "✅"
	case "warn":
		icon = "⚠️ "
	case "fail":
		icon = "❌"
	}

	fmt.Fprintf(out, "%s %s: %s\n", icon, c.Name, c.Message)
	if c.Hint != "" && c.Status != "ok" {
		fmt.Fprintf(out, "   └─ %s\n", c.Hint)
	}
}

func checkConfigFile() DoctorCheck {
	if configFileUsed == "" {
		return DoctorCheck{
			Name:    "Config",
			Status:  "warn",
			Message: "No config file, using defaults",
			Hint:    "Run: questwing init",
		}
	}
	return DoctorCheck{Name: "Config", Status: "ok", Message: configFileUsed}
}

func checkVaultRoot(root string) DoctorCheck {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return DoctorCheck{
			Name:    "Vault",
			Status:  "fail",
			Message: fmt.Sprintf("%s is not a directory", abs),
			Hint:    "Set vault.root or pass --vault",
		}
	}
	return DoctorCheck{Name: "Vault", Status: "ok", Message: abs}
}

func checkQuestFolders(s *session) DoctorCheck {
	missing := 0
	for _, f := range s.repo.Folders() {
		if ok, _ := s.store.Exists(f); !ok {
			missing++
		}
	}
	if missing == len(s.repo.Folders()) {
		return DoctorCheck{
			Name:    "Quest folders",
			Status:  "warn",
			Message: fmt.Sprintf("%s does not exist yet", s.repo.BaseFolder()),
			Hint:    "Run: questwing init",
		}
	}
	return DoctorCheck{Name: "Quest folders", Status: "ok", Message: s.repo.BaseFolder()}
}

func checkQuestFiles(s *session) DoctorCheck {
	n := len(s.loaded.Errors)
	if n > 0 {
		return DoctorCheck{
			Name:    "Quest files",
			Status:  "warn",
			Message: fmt.Sprintf("%d quest(s) loaded, %d file(s) skipped", len(s.loaded.Quests), n),
			Hint:    "Run: questwing validate",
		}
	}
	return DoctorCheck{Name: "Quest files", Status: "ok", Message: fmt.Sprintf("%d quest(s) loaded", len(s.loaded.Quests))}
}

func checkCharacter(s *session) DoctorCheck {
	view, err := s.app.Character()
	if err != nil {
		return DoctorCheck{
			Name:    "Character",
			Status:  "fail",
			Message: err.Error(),
			Hint:    "Fix or remove " + s.cfg.Character.File,
		}
	}
	if !view.Exists {
		return DoctorCheck{Name: "Character", Status: "ok", Message: "not created yet (first completion creates it)"}
	}
	return DoctorCheck{
		Name:    "Character",
		Status:  "ok",
		Message: fmt.Sprintf("%s, level %d %s", view.Character.Name, view.Sheet.Level, view.Character.Class),
	}
}

func checkLedger(s *session) DoctorCheck {
	if s.cfg.Ledger.Disabled {
		return DoctorCheck{Name: "Ledger", Status: "ok", Message: "disabled"}
	}
	if s.ledger == nil {
		return DoctorCheck{
			Name:    "Ledger",
			Status:  "warn",
			Message: "could not be opened; completions are not recorded",
			Hint:    "Check ledger.path permissions, or set ledger.disabled",
		}
	}
	xp, err := s.ledger.TotalXP()
	if err != nil {
		return DoctorCheck{Name: "Ledger", Status: "warn", Message: err.Error()}
	}
	return DoctorCheck{Name: "Ledger", Status: "ok", Message: fmt.Sprintf("%d XP recorded", xp)}
}

func checkCrashLogs() DoctorCheck {
	logs, err := logger.ListCrashLogs()
	if err != nil || len(logs) == 0 {
		return DoctorCheck{Name: "Crash logs", Status: "ok", Message: "none"}
	}
	latest := logs[len(logs)-1]
	msg := fmt.Sprintf("%d crash log(s), latest %s", len(logs), filepath.Base(latest))
	if cl, err := logger.ReadCrashLog(latest); err == nil && cl.Command != "" {
		msg += " (" + cl.Command + ")"
	}
	return DoctorCheck{
		Name:    "Crash logs",
		Status:  "warn",
		Message: msg,
		Hint:    "Attach " + latest + " when reporting a bug",
	}
}
