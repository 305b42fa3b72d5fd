/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/logger"
	"github.com/josephgoksu/QuestWing/internal/ui"
)

var boardLive bool

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the quest board",
	Long: `Render quests in one column per status.

With --live the board stays open and redraws whenever a quest file or linked
task file changes on disk. Arrow keys select a quest and move it between
columns, c completes it and t checks off its next open task.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&boardLive, "live", "l", false, "keep the board open and follow file changes")
}

func runBoard(cmd *cobra.Command, args []string) error {
	if !boardLive {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		width := ui.TerminalWidth(120)
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderBoard(ui.BoardItems(s.cache), max(16, width/4-4)))
		return nil
	}

	if !ui.IsInteractive() {
		return fmt.Errorf("--live needs an interactive terminal")
	}
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	// Log lines would tear the full-screen view.
	logger.Setup(slog.LevelError, io.Discard)

	w, rec, err := s.newWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	changes, unsubscribe := ui.WatchCache(s.cache)
	defer unsubscribe()

	load := func() error {
		if err := s.reload(); err != nil {
			return err
		}
		rec.Seed(s.loaded.Quests)
		return w.Start()
	}
	// Actions share the session's pending set with the reconciler, so the
	// board's own writes are not reloaded as external edits.
	model := ui.NewBoardModel(s.cache, changes, load).WithActions(s.app)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
